package notify

import (
	"fmt"
	"time"

	"github.com/coralcreek/resort-api/internal/models"
)

// PaymentConfirmationEmail carries the transaction details the guest needs
// for their records.
func PaymentConfirmationEmail(user *models.User, booking *models.Booking, gatewayPaymentID string, amountPaid int64) Email {
	body := fmt.Sprintf(`Dear %s,

Thank you for your payment.

Details:
- Booking ID: %s
- Amount Paid: ₹%.2f
- Transaction ID: %s
- CheckIn Date: %s
- CheckOut Date: %s
- Status: Confirmed

We look forward to hosting you!

Regards,
Coral Creek Resort`,
		user.Name,
		booking.ID.Hex(),
		float64(amountPaid)/100,
		gatewayPaymentID,
		booking.CheckInDate.Format("Mon Jan 02 2006"),
		booking.CheckOutDate.Format("Mon Jan 02 2006"),
	)
	return Email{
		To:      user.Email,
		Subject: "Booking Payment Successful",
		Body:    body,
	}
}

// CancellationEmail mentions the refund policy only; refund execution is an
// out-of-band manual process.
func CancellationEmail(user *models.User, booking *models.Booking, roomType string) Email {
	if roomType == "" {
		roomType = "your room"
	}
	body := fmt.Sprintf("Hi %s,\n\nYour booking for %s from %s to %s has been cancelled.\n\n50%% refund will be processed within 7 days if applicable.",
		user.Name,
		roomType,
		booking.CheckInDate.Format("Mon Jan 02 2006"),
		booking.CheckOutDate.Format("Mon Jan 02 2006"),
	)
	return Email{
		To:      user.Email,
		Subject: "Booking Cancelled - Coral Creek Resort",
		Body:    body,
	}
}

func OTPEmail(to, otp string, validity time.Duration) Email {
	return Email{
		To:      to,
		Subject: "Your Coral Creek Email OTP",
		Body:    fmt.Sprintf("Your OTP is: %s. It is valid for %d minutes.", otp, int(validity.Minutes())),
	}
}

func PasswordResetOTPEmail(to, otp string) Email {
	return Email{
		To:      to,
		Subject: "Password Reset OTP - Coral Creek",
		Body:    fmt.Sprintf("Your password reset OTP is: %s. It will expire in 10 minutes.", otp),
	}
}

func ContactEmail(inbox string, msg *models.ContactMessage) Email {
	body := fmt.Sprintf("Name: %s\nEmail: %s\nSubject: %s\n\nMessage:\n%s\n",
		msg.Name, msg.Email, msg.Subject, msg.Message)
	return Email{
		To:      inbox,
		Subject: fmt.Sprintf("New Contact Message from %s", msg.Name),
		Body:    body,
	}
}
