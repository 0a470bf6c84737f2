package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	BookingPending   = "Pending"
	BookingConfirmed = "Confirmed"
	BookingCancelled = "Cancelled"

	PayFullAmount = "Pay Full Amount"
	PayHalfAmount = "Pay Half Amount"
)

// Booking is the central workflow entity. Status only ever moves
// Pending -> Confirmed (payment success) or Pending/Confirmed -> Cancelled;
// Cancelled is terminal. IsPaid is left untouched by cancellation, so a
// paid-then-cancelled booking stays IsPaid=true pending an out-of-band
// refund.
type Booking struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID        primitive.ObjectID `bson:"user" json:"user"`
	RoomID        primitive.ObjectID `bson:"room" json:"room"`
	CheckInDate   time.Time          `bson:"check_in_date" json:"check_in_date"`
	CheckOutDate  time.Time          `bson:"check_out_date" json:"check_out_date"`
	Guests        int                `bson:"guests" json:"guests"`
	TotalPrice    float64            `bson:"total_price" json:"total_price"`
	PaymentMethod string             `bson:"payment_method" json:"payment_method"`
	Status        string             `bson:"status" json:"status"`
	IsPaid        bool               `bson:"is_paid" json:"is_paid"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updated_at"`
}

func (b *Booking) BeforeCreate() {
	if b.ID.IsZero() {
		b.ID = primitive.NewObjectID()
	}
	if b.Status == "" {
		b.Status = BookingPending
	}
	if b.PaymentMethod == "" {
		b.PaymentMethod = PayFullAmount
	}
	now := time.Now()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
}

// UserSummary is the slice of the owner that admin booking listings embed.
type UserSummary struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// EnrichedBooking decorates a booking with its related room/user summaries
// and the amount derived from successful payments. Room and User are nil
// when the referenced record has been deleted.
type EnrichedBooking struct {
	Booking
	Room       *RoomSummary `json:"room_details"`
	User       *UserSummary `json:"user_details,omitempty"`
	AmountPaid int64        `json:"amount_paid"`
}
