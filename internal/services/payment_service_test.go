package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/coralcreek/resort-api/internal/apperr"
	"github.com/coralcreek/resort-api/internal/models"
)

const webhookSecret = "whsec_test"

func newPaymentFixture(t *testing.T) (*fakeStore, *recordingDispatcher, *fakeGateway, *PaymentService, *models.User, *models.Booking) {
	t.Helper()
	store := newFakeStore()
	dispatcher := &recordingDispatcher{}
	gw := &fakeGateway{}
	booksvc := newBookingService(store, dispatcher)
	svc := NewPaymentService(store, store, booksvc, gw, testLogger())

	user := seedGuest(t, store)
	room := seedRoom(t, store)
	booking := seedBooking(t, store, user.ID, room.ID)
	return store, dispatcher, gw, svc, user, booking
}

func signBody(body []byte) string {
	mac := hmac.New(sha256.New, []byte(webhookSecret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func capturedEventBody(userID, bookingID primitive.ObjectID, paymentID string, amount int64) []byte {
	return []byte(fmt.Sprintf(
		`{"event":"payment.captured","payload":{"payment":{"entity":{"id":%q,"order_id":"order_1","amount":%d,"currency":"INR","notes":{"user_id":%q,"booking_id":%q}}}}}`,
		paymentID, amount, userID.Hex(), bookingID.Hex(),
	))
}

func TestCreateOrderAttachesCorrelationNotes(t *testing.T) {
	_, _, gw, svc, user, booking := newPaymentFixture(t)

	order, err := svc.CreateOrder(context.Background(), user.ID, CreateOrderRequest{
		Amount:    900000,
		BookingID: booking.ID.Hex(),
	})
	require.NoError(t, err)

	assert.Equal(t, "order_test123", order.ID)
	assert.Equal(t, "INR", order.Currency)
	assert.Equal(t, "receipt_"+booking.ID.Hex(), gw.lastReceipt)
	assert.Equal(t, user.ID.Hex(), gw.lastNotes["user_id"])
	assert.Equal(t, booking.ID.Hex(), gw.lastNotes["booking_id"])
}

func TestCreateOrderRejectsNonPositiveAmount(t *testing.T) {
	_, _, _, svc, user, booking := newPaymentFixture(t)

	for _, amount := range []int64{0, -500} {
		_, err := svc.CreateOrder(context.Background(), user.ID, CreateOrderRequest{
			Amount:    amount,
			BookingID: booking.ID.Hex(),
		})
		require.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.Validation))
	}
}

func TestCreateOrderRejectsUnknownBooking(t *testing.T) {
	_, _, _, svc, user, _ := newPaymentFixture(t)

	_, err := svc.CreateOrder(context.Background(), user.ID, CreateOrderRequest{
		Amount:    900000,
		BookingID: primitive.NewObjectID().Hex(),
	})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.NotFound))
}

func TestRecordPaymentConfirmsBookingOnce(t *testing.T) {
	store, dispatcher, _, svc, user, booking := newPaymentFixture(t)

	payment, err := svc.RecordPayment(context.Background(), RecordPaymentRequest{
		UserID:            user.ID,
		BookingID:         booking.ID,
		RazorpayPaymentID: "pay_once1",
		AmountPaid:        900000,
	})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentSuccessful, payment.Status)

	got, err := store.GetBookingByID(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, got.Status)
	assert.True(t, got.IsPaid)
	assert.Len(t, dispatcher.sent(), 1)
}

func TestRecordPaymentIsIdempotentPerTransaction(t *testing.T) {
	store, dispatcher, _, svc, user, booking := newPaymentFixture(t)

	req := RecordPaymentRequest{
		UserID:            user.ID,
		BookingID:         booking.ID,
		RazorpayPaymentID: "pay_dup42",
		AmountPaid:        900000,
	}

	first, err := svc.RecordPayment(context.Background(), req)
	require.NoError(t, err)

	// Same transaction reported again, e.g. callback then webhook.
	second, err := svc.RecordPayment(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	payments, err := store.ListAllPayments(context.Background())
	require.NoError(t, err)
	assert.Len(t, payments, 1, "one ledger entry per gateway transaction")
	assert.Len(t, dispatcher.sent(), 1, "one confirmation email per gateway transaction")
}

// flakyBookingStore fails ConfirmPaid a set number of times before
// delegating, simulating a store outage between recording the payment and
// confirming the booking.
type flakyBookingStore struct {
	*fakeStore
	confirmFailures int
}

func (s *flakyBookingStore) ConfirmPaid(ctx context.Context, id primitive.ObjectID) (*models.Booking, bool, error) {
	if s.confirmFailures > 0 {
		s.confirmFailures--
		return nil, false, apperr.New(apperr.Dependency, "store_unavailable", "booking store unavailable")
	}
	return s.fakeStore.ConfirmPaid(ctx, id)
}

func TestRecordPaymentRetryAfterPartialFailureConverges(t *testing.T) {
	store := newFakeStore()
	flaky := &flakyBookingStore{fakeStore: store, confirmFailures: 1}
	dispatcher := &recordingDispatcher{}
	booksvc := NewBookingService(flaky, store, store, store, dispatcher, testLogger())
	svc := NewPaymentService(store, store, booksvc, &fakeGateway{}, testLogger())

	user := seedGuest(t, store)
	room := seedRoom(t, store)
	booking := seedBooking(t, store, user.ID, room.ID)

	req := RecordPaymentRequest{
		UserID:            user.ID,
		BookingID:         booking.ID,
		RazorpayPaymentID: "pay_partial1",
		AmountPaid:        900000,
	}

	// First delivery records the payment but the confirm step fails.
	_, err := svc.RecordPayment(context.Background(), req)
	require.NoError(t, err)

	got, err := store.GetBookingByID(context.Background(), booking.ID)
	require.NoError(t, err)
	require.Equal(t, models.BookingPending, got.Status)

	// Redelivery of the same transaction must reconcile the booking.
	_, err = svc.RecordPayment(context.Background(), req)
	require.NoError(t, err)

	got, err = store.GetBookingByID(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, got.Status)
	assert.True(t, got.IsPaid)

	payments, err := store.ListAllPayments(context.Background())
	require.NoError(t, err)
	assert.Len(t, payments, 1, "one ledger entry per gateway transaction")
	assert.Len(t, dispatcher.sent(), 1, "one confirmation email per gateway transaction")

	// Further redeliveries stay quiet once converged.
	_, err = svc.RecordPayment(context.Background(), req)
	require.NoError(t, err)
	assert.Len(t, dispatcher.sent(), 1)
}

func TestRecordPaymentUnknownBookingWritesNothing(t *testing.T) {
	store, dispatcher, _, svc, user, _ := newPaymentFixture(t)

	_, err := svc.RecordPayment(context.Background(), RecordPaymentRequest{
		UserID:            user.ID,
		BookingID:         primitive.NewObjectID(),
		RazorpayPaymentID: "pay_ghost1",
		AmountPaid:        900000,
	})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.NotFound))

	payments, err := store.ListAllPayments(context.Background())
	require.NoError(t, err)
	assert.Empty(t, payments)
	assert.Empty(t, dispatcher.sent())
}

func TestRecordPaymentRejectsMissingTransactionID(t *testing.T) {
	_, _, _, svc, user, booking := newPaymentFixture(t)

	_, err := svc.RecordPayment(context.Background(), RecordPaymentRequest{
		UserID:     user.ID,
		BookingID:  booking.ID,
		AmountPaid: 900000,
	})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.Validation))
}

func TestWebhookRejectsBadSignatureWithoutStateChange(t *testing.T) {
	store, dispatcher, _, svc, user, booking := newPaymentFixture(t)
	body := capturedEventBody(user.ID, booking.ID, "pay_forged", 900000)

	err := svc.HandleWebhook(context.Background(), body, "deadbeef", webhookSecret)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.Signature))

	got, err := store.GetBookingByID(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingPending, got.Status)

	payments, err := store.ListAllPayments(context.Background())
	require.NoError(t, err)
	assert.Empty(t, payments)
	assert.Empty(t, dispatcher.sent())
}

func TestWebhookRejectsMissingSignature(t *testing.T) {
	_, _, _, svc, user, booking := newPaymentFixture(t)
	body := capturedEventBody(user.ID, booking.ID, "pay_nosig", 900000)

	err := svc.HandleWebhook(context.Background(), body, "", webhookSecret)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.Signature))
}

func TestWebhookRecordsCapturedPayment(t *testing.T) {
	store, _, _, svc, user, booking := newPaymentFixture(t)
	body := capturedEventBody(user.ID, booking.ID, "pay_hook7", 900000)

	err := svc.HandleWebhook(context.Background(), body, signBody(body), webhookSecret)
	require.NoError(t, err)

	got, err := store.GetBookingByID(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, got.Status)

	payment, err := store.GetPaymentByGatewayID(context.Background(), "pay_hook7")
	require.NoError(t, err)
	assert.Equal(t, int64(900000), payment.AmountPaid)
	assert.Equal(t, booking.ID, payment.BookingID)
}

func TestWebhookIgnoresOtherEvents(t *testing.T) {
	store, _, _, svc, _, _ := newPaymentFixture(t)
	body := []byte(`{"event":"payment.failed","payload":{"payment":{"entity":{"id":"pay_f1","amount":100}}}}`)

	err := svc.HandleWebhook(context.Background(), body, signBody(body), webhookSecret)
	require.NoError(t, err)

	payments, err := store.ListAllPayments(context.Background())
	require.NoError(t, err)
	assert.Empty(t, payments)
}

func TestCancelThenWebhookLeavesBookingCancelled(t *testing.T) {
	store, dispatcher, _, svc, user, booking := newPaymentFixture(t)
	booksvc := newBookingService(store, dispatcher)

	_, err := booksvc.Cancel(context.Background(), user.ID, false, booking.ID)
	require.NoError(t, err)
	emailsAfterCancel := len(dispatcher.sent())

	// The gateway delivers the capture after the guest already cancelled.
	body := capturedEventBody(user.ID, booking.ID, "pay_late1", 900000)
	err = svc.HandleWebhook(context.Background(), body, signBody(body), webhookSecret)
	require.NoError(t, err)

	got, err := store.GetBookingByID(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingCancelled, got.Status, "cancellation wins over a late capture")

	// The ledger entry still lands for the eventual refund.
	payment, err := store.GetPaymentByGatewayID(context.Background(), "pay_late1")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentSuccessful, payment.Status)

	assert.Len(t, dispatcher.sent(), emailsAfterCancel, "no confirmation email for a cancelled booking")
}

func TestListForUserEnrichesBookingSummary(t *testing.T) {
	_, _, _, svc, user, booking := newPaymentFixture(t)

	_, err := svc.RecordPayment(context.Background(), RecordPaymentRequest{
		UserID:            user.ID,
		BookingID:         booking.ID,
		RazorpayPaymentID: "pay_list1",
		AmountPaid:        450000,
	})
	require.NoError(t, err)

	payments, err := svc.ListForUser(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	require.NotNil(t, payments[0].Booking)
	assert.Equal(t, booking.RoomID, payments[0].Booking.RoomID)
}

func TestListForUserToleratesMissingBooking(t *testing.T) {
	store, _, _, svc, user, _ := newPaymentFixture(t)

	_, err := store.CreatePayment(context.Background(), &models.Payment{
		UserID:            user.ID,
		BookingID:         primitive.NewObjectID(),
		RazorpayPaymentID: "pay_orphan1",
		AmountPaid:        450000,
		Status:            models.PaymentSuccessful,
	})
	require.NoError(t, err)

	payments, err := svc.ListForUser(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Nil(t, payments[0].Booking, "missing booking resolves to a null summary, not an error")
}
