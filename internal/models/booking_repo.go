package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/coralcreek/resort-api/internal/apperr"
)

type BookingRepo interface {
	CreateBooking(ctx context.Context, booking *Booking) (*Booking, error)
	GetBookingByID(ctx context.Context, id primitive.ObjectID) (*Booking, error)
	GetBookingsByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*Booking, error)
	ListAllBookings(ctx context.Context) ([]*Booking, error)
	ListBookingsByUser(ctx context.Context, userID primitive.ObjectID) ([]*Booking, error)
	SetCancelled(ctx context.Context, id primitive.ObjectID) (*Booking, error)
	ConfirmPaid(ctx context.Context, id primitive.ObjectID) (*Booking, bool, error)
}

func (mdb *MongodbRepo) CreateBooking(ctx context.Context, booking *Booking) (*Booking, error) {
	col, err := mdb.GetCollection(ctx, BookingColName)
	if err != nil {
		return nil, apperr.Wrap(apperr.Dependency, "store_unavailable", "booking store unavailable", err)
	}

	booking.BeforeCreate()
	if _, err := col.InsertOne(ctx, booking); err != nil {
		return nil, apperr.Wrap(apperr.Dependency, "booking_insert_failed", "failed to create booking", err)
	}
	return booking, nil
}

func (mdb *MongodbRepo) GetBookingByID(ctx context.Context, id primitive.ObjectID) (*Booking, error) {
	col, err := mdb.GetCollection(ctx, BookingColName)
	if err != nil {
		return nil, apperr.Wrap(apperr.Dependency, "store_unavailable", "booking store unavailable", err)
	}

	var booking Booking
	if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&booking); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.New(apperr.NotFound, "booking_not_found", "booking not found")
		}
		return nil, apperr.Wrap(apperr.Dependency, "booking_lookup_failed", "failed to look up booking", err)
	}
	return &booking, nil
}

// GetBookingsByIDs resolves a batch of bookings in one query. Absent ids are
// simply missing from the map.
func (mdb *MongodbRepo) GetBookingsByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*Booking, error) {
	out := make(map[primitive.ObjectID]*Booking, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	col, err := mdb.GetCollection(ctx, BookingColName)
	if err != nil {
		return nil, apperr.Wrap(apperr.Dependency, "store_unavailable", "booking store unavailable", err)
	}

	cursor, err := col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, apperr.Wrap(apperr.Dependency, "booking_lookup_failed", "failed to look up bookings", err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var booking Booking
		if err := cursor.Decode(&booking); err != nil {
			return nil, fmt.Errorf("error decoding booking: %v", err)
		}
		out[booking.ID] = &booking
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}
	return out, nil
}

func (mdb *MongodbRepo) ListAllBookings(ctx context.Context) ([]*Booking, error) {
	return mdb.listBookings(ctx, bson.M{})
}

func (mdb *MongodbRepo) ListBookingsByUser(ctx context.Context, userID primitive.ObjectID) ([]*Booking, error) {
	return mdb.listBookings(ctx, bson.M{"user": userID})
}

func (mdb *MongodbRepo) listBookings(ctx context.Context, filter bson.M) ([]*Booking, error) {
	col, err := mdb.GetCollection(ctx, BookingColName)
	if err != nil {
		return nil, apperr.Wrap(apperr.Dependency, "store_unavailable", "booking store unavailable", err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := col.Find(ctx, filter, opts)
	if err != nil {
		return nil, apperr.Wrap(apperr.Dependency, "booking_list_failed", "failed to list bookings", err)
	}
	defer cursor.Close(ctx)

	var bookings []*Booking
	for cursor.Next(ctx) {
		var booking Booking
		if err := cursor.Decode(&booking); err != nil {
			return nil, fmt.Errorf("error decoding booking: %v", err)
		}
		bookings = append(bookings, &booking)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}
	return bookings, nil
}

// SetCancelled moves the booking to Cancelled. IsPaid is deliberately left
// alone. Cancelling an already-cancelled booking is a harmless overwrite.
func (mdb *MongodbRepo) SetCancelled(ctx context.Context, id primitive.ObjectID) (*Booking, error) {
	col, err := mdb.GetCollection(ctx, BookingColName)
	if err != nil {
		return nil, apperr.Wrap(apperr.Dependency, "store_unavailable", "booking store unavailable", err)
	}

	update := bson.M{"$set": bson.M{"status": BookingCancelled, "updated_at": time.Now()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated Booking
	err = col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.New(apperr.NotFound, "booking_not_found", "booking not found")
		}
		return nil, apperr.Wrap(apperr.Dependency, "booking_update_failed", "failed to cancel booking", err)
	}
	return &updated, nil
}

// ConfirmPaid conditionally moves the booking to Confirmed + paid. The
// filter matches only Pending documents: a late payment success can never
// resurrect a cancelled booking, even racing a concurrent cancel, and a
// redelivered success against an already-Confirmed booking is a no-op so
// its side effects (confirmation email) are not repeated. The returned
// bool reports whether the transition was applied.
func (mdb *MongodbRepo) ConfirmPaid(ctx context.Context, id primitive.ObjectID) (*Booking, bool, error) {
	col, err := mdb.GetCollection(ctx, BookingColName)
	if err != nil {
		return nil, false, apperr.Wrap(apperr.Dependency, "store_unavailable", "booking store unavailable", err)
	}

	filter := bson.M{"_id": id, "status": BookingPending}
	update := bson.M{"$set": bson.M{"status": BookingConfirmed, "is_paid": true, "updated_at": time.Now()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated Booking
	err = col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated)
	if err == nil {
		return &updated, true, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, apperr.Wrap(apperr.Dependency, "booking_update_failed", "failed to confirm booking", err)
	}

	// Either the booking is missing or it is not Pending; distinguish the two.
	booking, err := mdb.GetBookingByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return booking, false, nil
}
