package services

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/coralcreek/resort-api/internal/apperr"
	"github.com/coralcreek/resort-api/internal/gateway"
	"github.com/coralcreek/resort-api/internal/models"
	"github.com/coralcreek/resort-api/internal/notify"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeStore backs every repo interface with in-memory maps so the service
// layer can be exercised without a running MongoDB.
type fakeStore struct {
	mu       sync.Mutex
	users    map[primitive.ObjectID]*models.User
	rooms    map[primitive.ObjectID]*models.Room
	bookings map[primitive.ObjectID]*models.Booking
	payments map[string]*models.Payment // keyed by gateway payment id
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    make(map[primitive.ObjectID]*models.User),
		rooms:    make(map[primitive.ObjectID]*models.Room),
		bookings: make(map[primitive.ObjectID]*models.Booking),
		payments: make(map[string]*models.Payment),
	}
}

// UserRepo

func (s *fakeStore) CreateUser(_ context.Context, user *models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user.BeforeCreate()
	for _, u := range s.users {
		if u.Email == user.Email {
			return nil, apperr.New(apperr.Conflict, "email_taken", "email already registered")
		}
		if u.Mobile == user.Mobile {
			return nil, apperr.New(apperr.Conflict, "mobile_taken", "mobile number already registered")
		}
	}
	s.users[user.ID] = user
	return user, nil
}

func (s *fakeStore) GetUserByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, apperr.New(apperr.NotFound, "user_not_found", "user not found")
}

func (s *fakeStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperr.New(apperr.NotFound, "user_not_found", "user not found")
}

func (s *fakeStore) GetUserByMobile(_ context.Context, mobile string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Mobile == mobile {
			return u, nil
		}
	}
	return nil, apperr.New(apperr.NotFound, "user_not_found", "user not found")
}

func (s *fakeStore) GetUsersByIDs(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[primitive.ObjectID]*models.User)
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

func (s *fakeStore) UpdateUserFields(_ context.Context, id primitive.ObjectID, fields bson.M) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, apperr.New(apperr.NotFound, "user_not_found", "user not found")
	}
	if v, ok := fields["password"].(string); ok {
		u.Password = v
	}
	if v, ok := fields["mobile"].(string); ok {
		u.Mobile = v
	}
	return u, nil
}

func (s *fakeStore) DeleteUser(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return apperr.New(apperr.NotFound, "user_not_found", "user not found")
	}
	delete(s.users, id)
	return nil
}

// RoomRepo

func (s *fakeStore) CreateRoom(_ context.Context, room *models.Room) (*models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room.BeforeCreate()
	s.rooms[room.ID] = room
	return room, nil
}

func (s *fakeStore) GetRoomByID(_ context.Context, id primitive.ObjectID) (*models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.rooms[id]; ok {
		return r, nil
	}
	return nil, apperr.New(apperr.NotFound, "room_not_found", "room not found")
}

func (s *fakeStore) GetRoomsByIDs(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[primitive.ObjectID]*models.Room)
	for _, id := range ids {
		if r, ok := s.rooms[id]; ok {
			out[id] = r
		}
	}
	return out, nil
}

func (s *fakeStore) ListRooms(_ context.Context) ([]*models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var rooms []*models.Room
	for _, r := range s.rooms {
		rooms = append(rooms, r)
	}
	return rooms, nil
}

func (s *fakeStore) UpdateRoomFields(_ context.Context, id primitive.ObjectID, fields bson.M) (*models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[id]
	if !ok {
		return nil, apperr.New(apperr.NotFound, "room_not_found", "room not found")
	}
	if v, ok := fields["is_available"].(bool); ok {
		r.IsAvailable = v
	}
	if v, ok := fields["room_type"].(string); ok {
		r.RoomType = v
	}
	return r, nil
}

func (s *fakeStore) DeleteRoom(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[id]; !ok {
		return apperr.New(apperr.NotFound, "room_not_found", "room not found")
	}
	delete(s.rooms, id)
	return nil
}

func (s *fakeStore) FindAvailableByType(_ context.Context, roomType string) (*models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.rooms {
		if r.RoomType == roomType && r.IsAvailable {
			return r, nil
		}
	}
	return nil, nil
}

// BookingRepo

func (s *fakeStore) CreateBooking(_ context.Context, booking *models.Booking) (*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	booking.BeforeCreate()
	s.bookings[booking.ID] = booking
	return booking, nil
}

func (s *fakeStore) GetBookingByID(_ context.Context, id primitive.ObjectID) (*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b, ok := s.bookings[id]; ok {
		return b, nil
	}
	return nil, apperr.New(apperr.NotFound, "booking_not_found", "booking not found")
}

func (s *fakeStore) GetBookingsByIDs(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[primitive.ObjectID]*models.Booking)
	for _, id := range ids {
		if b, ok := s.bookings[id]; ok {
			out[id] = b
		}
	}
	return out, nil
}

func (s *fakeStore) ListAllBookings(_ context.Context) ([]*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var bookings []*models.Booking
	for _, b := range s.bookings {
		bookings = append(bookings, b)
	}
	return bookings, nil
}

func (s *fakeStore) ListBookingsByUser(_ context.Context, userID primitive.ObjectID) ([]*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var bookings []*models.Booking
	for _, b := range s.bookings {
		if b.UserID == userID {
			bookings = append(bookings, b)
		}
	}
	return bookings, nil
}

func (s *fakeStore) SetCancelled(_ context.Context, id primitive.ObjectID) (*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil, apperr.New(apperr.NotFound, "booking_not_found", "booking not found")
	}
	b.Status = models.BookingCancelled
	b.UpdatedAt = time.Now()
	return b, nil
}

func (s *fakeStore) ConfirmPaid(_ context.Context, id primitive.ObjectID) (*models.Booking, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil, false, apperr.New(apperr.NotFound, "booking_not_found", "booking not found")
	}
	if b.Status != models.BookingPending {
		return b, false, nil
	}
	b.Status = models.BookingConfirmed
	b.IsPaid = true
	b.UpdatedAt = time.Now()
	return b, true, nil
}

// PaymentRepo

func (s *fakeStore) CreatePayment(_ context.Context, payment *models.Payment) (*models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	payment.BeforeCreate()
	if _, exists := s.payments[payment.RazorpayPaymentID]; exists {
		return nil, apperr.New(apperr.Conflict, "payment_exists", "payment already recorded for this transaction")
	}
	s.payments[payment.RazorpayPaymentID] = payment
	return payment, nil
}

func (s *fakeStore) GetPaymentByGatewayID(_ context.Context, razorpayPaymentID string) (*models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.payments[razorpayPaymentID]; ok {
		return p, nil
	}
	return nil, apperr.New(apperr.NotFound, "payment_not_found", "payment not found")
}

func (s *fakeStore) ListPaymentsByUser(_ context.Context, userID primitive.ObjectID) ([]*models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var payments []*models.Payment
	for _, p := range s.payments {
		if p.UserID == userID {
			payments = append(payments, p)
		}
	}
	return payments, nil
}

func (s *fakeStore) ListAllPayments(_ context.Context) ([]*models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var payments []*models.Payment
	for _, p := range s.payments {
		payments = append(payments, p)
	}
	return payments, nil
}

func (s *fakeStore) SumSuccessfulByBookings(_ context.Context, bookingIDs []primitive.ObjectID) (map[primitive.ObjectID]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[primitive.ObjectID]int64)
	want := make(map[primitive.ObjectID]bool, len(bookingIDs))
	for _, id := range bookingIDs {
		want[id] = true
	}
	for _, p := range s.payments {
		if want[p.BookingID] && p.Status == models.PaymentSuccessful {
			out[p.BookingID] += p.AmountPaid
		}
	}
	return out, nil
}

// recordingDispatcher captures dispatched emails instead of sending them.
type recordingDispatcher struct {
	mu     sync.Mutex
	emails []notify.Email
}

func (d *recordingDispatcher) Dispatch(_ context.Context, email notify.Email) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.emails = append(d.emails, email)
	return nil
}

func (d *recordingDispatcher) sent() []notify.Email {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]notify.Email(nil), d.emails...)
}

// fakeGateway returns canned orders and remembers the last request.
type fakeGateway struct {
	lastAmount  int64
	lastReceipt string
	lastNotes   map[string]interface{}
}

func (g *fakeGateway) CreateOrder(_ context.Context, amount int64, currency, receipt string, notes map[string]interface{}) (*gateway.Order, error) {
	g.lastAmount = amount
	g.lastReceipt = receipt
	g.lastNotes = notes
	return &gateway.Order{
		ID:       "order_test123",
		Amount:   amount,
		Currency: currency,
		Receipt:  receipt,
		Status:   "created",
	}, nil
}
