package services

import (
	"context"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/coralcreek/resort-api/internal/apperr"
	"github.com/coralcreek/resort-api/internal/models"
	"github.com/coralcreek/resort-api/internal/notify"
)

// BookingService owns the booking state machine. Notifications always
// follow the committed state change and never roll it back.
type BookingService struct {
	bookings   models.BookingRepo
	rooms      models.RoomRepo
	users      models.UserRepo
	payments   models.PaymentRepo
	dispatcher notify.Dispatcher
	logger     *slog.Logger
}

func NewBookingService(
	bookings models.BookingRepo,
	rooms models.RoomRepo,
	users models.UserRepo,
	payments models.PaymentRepo,
	dispatcher notify.Dispatcher,
	logger *slog.Logger,
) *BookingService {
	return &BookingService{
		bookings:   bookings,
		rooms:      rooms,
		users:      users,
		payments:   payments,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

type CreateBookingRequest struct {
	Room          string    `json:"room"`
	CheckInDate   time.Time `json:"check_in_date"`
	CheckOutDate  time.Time `json:"check_out_date"`
	Guests        int       `json:"guests"`
	TotalPrice    float64   `json:"total_price"`
	PaymentMethod string    `json:"payment_method"`
}

// Create persists a Pending, unpaid booking owned by the caller. Date-range
// conflicts against other bookings for the same room are not checked; the
// coarse availability flag is the only inventory guard and payment is the
// commit point.
func (bs *BookingService) Create(ctx context.Context, userID primitive.ObjectID, req CreateBookingRequest) (*models.Booking, error) {
	if req.Room == "" || req.CheckInDate.IsZero() || req.CheckOutDate.IsZero() || req.Guests == 0 || req.TotalPrice == 0 || req.PaymentMethod == "" {
		return nil, apperr.New(apperr.Validation, "missing_booking_details", "missing booking details")
	}
	if req.Guests < 0 || req.TotalPrice < 0 {
		return nil, apperr.New(apperr.Validation, "invalid_booking_details", "guests and total price must be positive")
	}

	roomID, err := primitive.ObjectIDFromHex(req.Room)
	if err != nil {
		return nil, apperr.New(apperr.Validation, "invalid_room_id", "invalid room id")
	}
	if _, err := bs.rooms.GetRoomByID(ctx, roomID); err != nil {
		return nil, err
	}

	booking := &models.Booking{
		UserID:        userID,
		RoomID:        roomID,
		CheckInDate:   req.CheckInDate,
		CheckOutDate:  req.CheckOutDate,
		Guests:        req.Guests,
		TotalPrice:    req.TotalPrice,
		PaymentMethod: req.PaymentMethod,
		Status:        models.BookingPending,
		IsPaid:        false,
	}
	return bs.bookings.CreateBooking(ctx, booking)
}

// Cancel transitions to Cancelled if the caller owns the booking or is an
// admin. IsPaid is left untouched; refunds are handled out of band and only
// mentioned in the notification text.
func (bs *BookingService) Cancel(ctx context.Context, callerID primitive.ObjectID, isAdmin bool, bookingID primitive.ObjectID) (*models.Booking, error) {
	booking, err := bs.bookings.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && booking.UserID != callerID {
		return nil, apperr.New(apperr.Forbidden, "not_booking_owner", "not authorized to cancel this booking")
	}

	cancelled, err := bs.bookings.SetCancelled(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	// Best-effort notification; the cancellation is already committed.
	user, err := bs.users.GetUserByID(ctx, cancelled.UserID)
	if err != nil {
		bs.logger.Error("cancellation email skipped: owner lookup failed", "booking_id", bookingID.Hex(), "error", err)
		return cancelled, nil
	}
	roomType := ""
	if room, err := bs.rooms.GetRoomByID(ctx, cancelled.RoomID); err == nil {
		roomType = room.RoomType
	}
	if err := bs.dispatcher.Dispatch(ctx, notify.CancellationEmail(user, cancelled, roomType)); err != nil {
		bs.logger.Error("cancellation email dispatch failed", "booking_id", bookingID.Hex(), "error", err)
	}

	return cancelled, nil
}

// MarkPaymentSuccess drives the Pending -> Confirmed transition after a
// payment is recorded. Cancellation wins: a cancelled booking is never
// re-confirmed by a late-arriving payment success. The transition and its
// confirmation email apply at most once; redelivery against an already
// confirmed booking is a no-op. The returned bool reports whether the
// transition was applied.
func (bs *BookingService) MarkPaymentSuccess(ctx context.Context, bookingID primitive.ObjectID, gatewayPaymentID string, amountPaid int64) (*models.Booking, bool, error) {
	booking, applied, err := bs.bookings.ConfirmPaid(ctx, bookingID)
	if err != nil {
		return nil, false, err
	}
	if !applied {
		bs.logger.Warn("payment success had no effect on booking",
			"booking_id", bookingID.Hex(), "status", booking.Status, "payment_id", gatewayPaymentID)
		return booking, false, nil
	}

	user, err := bs.users.GetUserByID(ctx, booking.UserID)
	if err != nil {
		bs.logger.Error("confirmation email skipped: owner lookup failed", "booking_id", bookingID.Hex(), "error", err)
		return booking, true, nil
	}
	if err := bs.dispatcher.Dispatch(ctx, notify.PaymentConfirmationEmail(user, booking, gatewayPaymentID, amountPaid)); err != nil {
		bs.logger.Error("confirmation email dispatch failed", "booking_id", bookingID.Hex(), "error", err)
	}

	return booking, true, nil
}

// ListForUser returns the caller's bookings, newest first, with room
// summaries resolved in one store query.
func (bs *BookingService) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]*models.EnrichedBooking, error) {
	bookings, err := bs.bookings.ListBookingsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return bs.enrich(ctx, bookings, false)
}

// ListAll is the admin view: every booking, enriched with owner summary
// and the amount derived from successful payments.
func (bs *BookingService) ListAll(ctx context.Context) ([]*models.EnrichedBooking, error) {
	bookings, err := bs.bookings.ListAllBookings(ctx)
	if err != nil {
		return nil, err
	}
	return bs.enrich(ctx, bookings, true)
}

func (bs *BookingService) enrich(ctx context.Context, bookings []*models.Booking, withOwners bool) ([]*models.EnrichedBooking, error) {
	roomIDs := make([]primitive.ObjectID, 0, len(bookings))
	userIDs := make([]primitive.ObjectID, 0, len(bookings))
	bookingIDs := make([]primitive.ObjectID, 0, len(bookings))
	for _, b := range bookings {
		roomIDs = append(roomIDs, b.RoomID)
		userIDs = append(userIDs, b.UserID)
		bookingIDs = append(bookingIDs, b.ID)
	}

	rooms, err := bs.rooms.GetRoomsByIDs(ctx, roomIDs)
	if err != nil {
		return nil, err
	}
	sums, err := bs.payments.SumSuccessfulByBookings(ctx, bookingIDs)
	if err != nil {
		return nil, err
	}
	var owners map[primitive.ObjectID]*models.User
	if withOwners {
		owners, err = bs.users.GetUsersByIDs(ctx, userIDs)
		if err != nil {
			return nil, err
		}
	}

	enriched := make([]*models.EnrichedBooking, 0, len(bookings))
	for _, b := range bookings {
		e := &models.EnrichedBooking{Booking: *b, AmountPaid: sums[b.ID]}
		// Deleted rooms/users resolve to null summaries, not errors.
		if room, ok := rooms[b.RoomID]; ok {
			e.Room = room.Summary()
		}
		if withOwners {
			if owner, ok := owners[b.UserID]; ok {
				e.User = &models.UserSummary{Name: owner.Name, Email: owner.Email}
			}
		}
		enriched = append(enriched, e)
	}
	return enriched, nil
}
