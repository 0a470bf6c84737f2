package models

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/coralcreek/resort-api/internal/apperr"
)

type PaymentRepo interface {
	CreatePayment(ctx context.Context, payment *Payment) (*Payment, error)
	GetPaymentByGatewayID(ctx context.Context, razorpayPaymentID string) (*Payment, error)
	ListPaymentsByUser(ctx context.Context, userID primitive.ObjectID) ([]*Payment, error)
	ListAllPayments(ctx context.Context) ([]*Payment, error)
	SumSuccessfulByBookings(ctx context.Context, bookingIDs []primitive.ObjectID) (map[primitive.ObjectID]int64, error)
}

// CreatePayment appends a ledger entry. A duplicate gateway payment id
// surfaces as a Conflict error so callers can collapse duplicate delivery
// into idempotent success.
func (mdb *MongodbRepo) CreatePayment(ctx context.Context, payment *Payment) (*Payment, error) {
	col, err := mdb.GetCollection(ctx, PaymentColName)
	if err != nil {
		return nil, apperr.Wrap(apperr.Dependency, "store_unavailable", "payment store unavailable", err)
	}

	payment.BeforeCreate()
	if _, err := col.InsertOne(ctx, payment); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperr.Wrap(apperr.Conflict, "payment_exists", "payment already recorded for this transaction", err)
		}
		return nil, apperr.Wrap(apperr.Dependency, "payment_insert_failed", "failed to record payment", err)
	}
	return payment, nil
}

func (mdb *MongodbRepo) GetPaymentByGatewayID(ctx context.Context, razorpayPaymentID string) (*Payment, error) {
	col, err := mdb.GetCollection(ctx, PaymentColName)
	if err != nil {
		return nil, apperr.Wrap(apperr.Dependency, "store_unavailable", "payment store unavailable", err)
	}

	var payment Payment
	err = col.FindOne(ctx, bson.M{"razorpay_payment_id": razorpayPaymentID}).Decode(&payment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.New(apperr.NotFound, "payment_not_found", "payment not found")
		}
		return nil, apperr.Wrap(apperr.Dependency, "payment_lookup_failed", "failed to look up payment", err)
	}
	return &payment, nil
}

func (mdb *MongodbRepo) ListPaymentsByUser(ctx context.Context, userID primitive.ObjectID) ([]*Payment, error) {
	return mdb.listPayments(ctx, bson.M{"user": userID})
}

func (mdb *MongodbRepo) ListAllPayments(ctx context.Context) ([]*Payment, error) {
	return mdb.listPayments(ctx, bson.M{})
}

func (mdb *MongodbRepo) listPayments(ctx context.Context, filter bson.M) ([]*Payment, error) {
	col, err := mdb.GetCollection(ctx, PaymentColName)
	if err != nil {
		return nil, apperr.Wrap(apperr.Dependency, "store_unavailable", "payment store unavailable", err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := col.Find(ctx, filter, opts)
	if err != nil {
		return nil, apperr.Wrap(apperr.Dependency, "payment_list_failed", "failed to list payments", err)
	}
	defer cursor.Close(ctx)

	var payments []*Payment
	for cursor.Next(ctx) {
		var payment Payment
		if err := cursor.Decode(&payment); err != nil {
			return nil, fmt.Errorf("error decoding payment: %v", err)
		}
		payments = append(payments, &payment)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}
	return payments, nil
}

// SumSuccessfulByBookings returns amount paid per booking, filtered at the
// store by the booking foreign keys rather than scanning the collection.
func (mdb *MongodbRepo) SumSuccessfulByBookings(ctx context.Context, bookingIDs []primitive.ObjectID) (map[primitive.ObjectID]int64, error) {
	out := make(map[primitive.ObjectID]int64, len(bookingIDs))
	if len(bookingIDs) == 0 {
		return out, nil
	}
	col, err := mdb.GetCollection(ctx, PaymentColName)
	if err != nil {
		return nil, apperr.Wrap(apperr.Dependency, "store_unavailable", "payment store unavailable", err)
	}

	filter := bson.M{
		"booking": bson.M{"$in": bookingIDs},
		"status":  PaymentSuccessful,
	}
	cursor, err := col.Find(ctx, filter)
	if err != nil {
		return nil, apperr.Wrap(apperr.Dependency, "payment_lookup_failed", "failed to sum payments", err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var payment Payment
		if err := cursor.Decode(&payment); err != nil {
			return nil, fmt.Errorf("error decoding payment: %v", err)
		}
		out[payment.BookingID] += payment.AmountPaid
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}
	return out, nil
}
