package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	PaymentSuccessful = "successful"
	PaymentFailed     = "failed"
)

// Payment is an append-only ledger entry. The gateway payment id is the
// idempotency key: a unique index on it collapses duplicate recording of
// the same gateway transaction. A booking's authoritative paid state is
// "at least one successful payment exists", never a one-to-one link.
type Payment struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID            primitive.ObjectID `bson:"user" json:"user"`
	BookingID         primitive.ObjectID `bson:"booking" json:"booking"`
	RazorpayPaymentID string             `bson:"razorpay_payment_id" json:"razorpay_payment_id"`
	AmountPaid        int64              `bson:"amount_paid" json:"amount_paid"` // minor currency units
	Status            string             `bson:"status" json:"status"`
	CreatedAt         time.Time          `bson:"created_at" json:"created_at"`
}

func (p *Payment) BeforeCreate() {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	if p.Status == "" {
		p.Status = PaymentSuccessful
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
}

// BookingSummary is the slice of a booking that payment listings embed.
type BookingSummary struct {
	RoomID       primitive.ObjectID `json:"room"`
	CheckInDate  time.Time          `json:"check_in_date"`
	CheckOutDate time.Time          `json:"check_out_date"`
}

type EnrichedPayment struct {
	Payment
	Booking *BookingSummary `json:"booking_details"`
}
