package services

import (
	"context"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/coralcreek/resort-api/internal/apperr"
	"github.com/coralcreek/resort-api/internal/gateway"
	"github.com/coralcreek/resort-api/internal/models"
)

// PaymentService reconciles gateway transactions into the payment ledger and
// drives the booking transition. Recording is idempotent on the gateway
// payment id, so the client callback and the webhook can both report the
// same transaction without double effects.
type PaymentService struct {
	payments models.PaymentRepo
	bookings models.BookingRepo
	booksvc  *BookingService
	gw       gateway.Client
	logger   *slog.Logger
}

func NewPaymentService(payments models.PaymentRepo, bookings models.BookingRepo, booksvc *BookingService, gw gateway.Client, logger *slog.Logger) *PaymentService {
	return &PaymentService{
		payments: payments,
		bookings: bookings,
		booksvc:  booksvc,
		gw:       gw,
		logger:   logger,
	}
}

type CreateOrderRequest struct {
	Amount    int64  `json:"amount"` // minor currency units
	Currency  string `json:"currency"`
	BookingID string `json:"booking_id"`
}

// CreateOrder opens a payment intent at the gateway. The caller and booking
// ids travel in the order notes so the webhook can resolve the booking
// without trusting anything client-supplied.
func (ps *PaymentService) CreateOrder(ctx context.Context, userID primitive.ObjectID, req CreateOrderRequest) (*gateway.Order, error) {
	if req.Amount <= 0 {
		return nil, apperr.New(apperr.Validation, "invalid_amount", "amount must be a positive number of minor currency units")
	}
	if req.BookingID == "" {
		return nil, apperr.New(apperr.Validation, "missing_booking_id", "booking_id is required")
	}
	bookingID, err := primitive.ObjectIDFromHex(req.BookingID)
	if err != nil {
		return nil, apperr.New(apperr.Validation, "invalid_booking_id", "invalid booking id")
	}
	if _, err := ps.bookings.GetBookingByID(ctx, bookingID); err != nil {
		return nil, err
	}

	currency := req.Currency
	if currency == "" {
		currency = "INR"
	}

	notes := map[string]interface{}{
		"user_id":    userID.Hex(),
		"booking_id": bookingID.Hex(),
	}
	return ps.gw.CreateOrder(ctx, req.Amount, currency, "receipt_"+bookingID.Hex(), notes)
}

type RecordPaymentRequest struct {
	UserID            primitive.ObjectID
	BookingID         primitive.ObjectID
	RazorpayPaymentID string
	AmountPaid        int64
}

// RecordPayment appends the ledger entry and confirms the booking. The call
// is safe to repeat: a transaction already recorded is a no-op success, and
// the confirmation email is sent at most once per gateway transaction. The
// booking transition itself refuses cancelled bookings, so the entry can
// land while the booking stays Cancelled.
func (ps *PaymentService) RecordPayment(ctx context.Context, req RecordPaymentRequest) (*models.Payment, error) {
	if req.RazorpayPaymentID == "" {
		return nil, apperr.New(apperr.Validation, "missing_payment_id", "gateway payment id is required")
	}
	if req.AmountPaid <= 0 {
		return nil, apperr.New(apperr.Validation, "invalid_amount", "amount must be a positive number of minor currency units")
	}

	if _, err := ps.bookings.GetBookingByID(ctx, req.BookingID); err != nil {
		return nil, err
	}

	if existing, err := ps.payments.GetPaymentByGatewayID(ctx, req.RazorpayPaymentID); err == nil {
		// A retry of an already-recorded transaction still re-drives the
		// booking transition: the first delivery may have recorded the
		// payment and then failed before confirming. ConfirmPaid only
		// applies to Pending bookings, so a retry against an already
		// confirmed booking has no repeated side effects.
		ps.logger.Info("payment already recorded, reconciling booking", "payment_id", req.RazorpayPaymentID)
		if existing.Status == models.PaymentSuccessful {
			if _, _, err := ps.booksvc.MarkPaymentSuccess(ctx, existing.BookingID, existing.RazorpayPaymentID, existing.AmountPaid); err != nil {
				ps.logger.Error("booking reconciliation failed for recorded payment",
					"booking_id", existing.BookingID.Hex(), "payment_id", existing.RazorpayPaymentID, "error", err)
			}
		}
		return existing, nil
	} else if !apperr.IsKind(err, apperr.NotFound) {
		return nil, err
	}

	payment := &models.Payment{
		UserID:            req.UserID,
		BookingID:         req.BookingID,
		RazorpayPaymentID: req.RazorpayPaymentID,
		AmountPaid:        req.AmountPaid,
		Status:            models.PaymentSuccessful,
	}
	created, err := ps.payments.CreatePayment(ctx, payment)
	if err != nil {
		// Lost the race against a concurrent recording of the same
		// transaction. The unique index already holds the entry.
		if apperr.IsKind(err, apperr.Conflict) {
			ps.logger.Info("payment recorded concurrently, skipping", "payment_id", req.RazorpayPaymentID)
			return ps.payments.GetPaymentByGatewayID(ctx, req.RazorpayPaymentID)
		}
		return nil, err
	}

	if _, _, err := ps.booksvc.MarkPaymentSuccess(ctx, req.BookingID, req.RazorpayPaymentID, req.AmountPaid); err != nil {
		// The ledger entry stands either way; the next delivery of this
		// transaction is a no-op, so log rather than fail the caller.
		ps.logger.Error("booking confirmation failed after payment recorded",
			"booking_id", req.BookingID.Hex(), "payment_id", req.RazorpayPaymentID, "error", err)
	}

	return created, nil
}

// HandleWebhook verifies the gateway signature over the raw body before any
// parsing, then feeds captured payments through the same idempotent path the
// client callback uses. Events other than payment capture are acknowledged
// and ignored.
func (ps *PaymentService) HandleWebhook(ctx context.Context, rawBody []byte, signature, webhookSecret string) error {
	if err := gateway.VerifyWebhookSignature(rawBody, signature, webhookSecret); err != nil {
		return err
	}

	event, err := gateway.ParseWebhookEvent(rawBody)
	if err != nil {
		return err
	}
	if event.Event != gateway.EventPaymentCaptured {
		ps.logger.Info("webhook event ignored", "event", event.Event)
		return nil
	}

	entity := event.Payload.Payment.Entity
	bookingID, err := primitive.ObjectIDFromHex(entity.Notes["booking_id"])
	if err != nil {
		return apperr.New(apperr.Validation, "missing_booking_note", "webhook payment has no resolvable booking reference")
	}
	userID, err := primitive.ObjectIDFromHex(entity.Notes["user_id"])
	if err != nil {
		return apperr.New(apperr.Validation, "missing_user_note", "webhook payment has no resolvable user reference")
	}

	_, err = ps.RecordPayment(ctx, RecordPaymentRequest{
		UserID:            userID,
		BookingID:         bookingID,
		RazorpayPaymentID: entity.ID,
		AmountPaid:        entity.Amount,
	})
	return err
}

// ListForUser returns the caller's ledger entries with booking summaries.
func (ps *PaymentService) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]*models.EnrichedPayment, error) {
	payments, err := ps.payments.ListPaymentsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ps.enrich(ctx, payments)
}

// ListAll is the admin ledger view.
func (ps *PaymentService) ListAll(ctx context.Context) ([]*models.EnrichedPayment, error) {
	payments, err := ps.payments.ListAllPayments(ctx)
	if err != nil {
		return nil, err
	}
	return ps.enrich(ctx, payments)
}

func (ps *PaymentService) enrich(ctx context.Context, payments []*models.Payment) ([]*models.EnrichedPayment, error) {
	bookingIDs := make([]primitive.ObjectID, 0, len(payments))
	for _, p := range payments {
		bookingIDs = append(bookingIDs, p.BookingID)
	}
	bookings, err := ps.bookings.GetBookingsByIDs(ctx, bookingIDs)
	if err != nil {
		return nil, err
	}

	enriched := make([]*models.EnrichedPayment, 0, len(payments))
	for _, p := range payments {
		e := &models.EnrichedPayment{Payment: *p}
		// A deleted booking resolves to a null summary, not an error.
		if booking, ok := bookings[p.BookingID]; ok {
			e.Booking = &models.BookingSummary{
				RoomID:       booking.RoomID,
				CheckInDate:  booking.CheckInDate,
				CheckOutDate: booking.CheckOutDate,
			}
		}
		enriched = append(enriched, e)
	}
	return enriched, nil
}
