package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/coralcreek/resort-api/internal/apperr"
	"github.com/coralcreek/resort-api/internal/models"
)

func TestCheckAvailabilityHit(t *testing.T) {
	store := newFakeStore()
	svc := NewRoomService(store)
	room := seedRoom(t, store)

	result, err := svc.CheckAvailability(context.Background(), "Deluxe")
	require.NoError(t, err)

	assert.True(t, result.IsAvailable)
	require.NotNil(t, result.RoomID)
	assert.Equal(t, room.ID, *result.RoomID)
	assert.Equal(t, "Deluxe", result.RoomType)
}

func TestCheckAvailabilityMissIsNotAnError(t *testing.T) {
	store := newFakeStore()
	svc := NewRoomService(store)
	seedRoom(t, store)

	result, err := svc.CheckAvailability(context.Background(), "Presidential Suite")
	require.NoError(t, err)

	assert.False(t, result.IsAvailable)
	assert.Nil(t, result.RoomID)
	assert.NotEmpty(t, result.Message)
}

func TestCheckAvailabilitySkipsUnavailableRooms(t *testing.T) {
	store := newFakeStore()
	svc := NewRoomService(store)
	room := seedRoom(t, store)

	_, err := store.UpdateRoomFields(context.Background(), room.ID, map[string]interface{}{"is_available": false})
	require.NoError(t, err)

	result, err := svc.CheckAvailability(context.Background(), "Deluxe")
	require.NoError(t, err)
	assert.False(t, result.IsAvailable)
}

func TestCheckAvailabilityRequiresRoomType(t *testing.T) {
	store := newFakeStore()
	svc := NewRoomService(store)

	_, err := svc.CheckAvailability(context.Background(), "")
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.Validation))
}

func TestUpdateRoomIgnoresUnknownFieldsAndSplitsFeatures(t *testing.T) {
	store := newFakeStore()
	svc := NewRoomService(store)
	room := seedRoom(t, store)

	_, err := svc.UpdateRoom(context.Background(), room.ID, map[string]interface{}{
		"room_type": "Suite",
		"password":  "sneaky",
	})
	require.NoError(t, err)

	got, err := store.GetRoomByID(context.Background(), room.ID)
	require.NoError(t, err)
	assert.Equal(t, "Suite", got.RoomType)
}

func TestUpdateRoomRejectsEmptyAndUnknownOnlyUpdates(t *testing.T) {
	store := newFakeStore()
	svc := NewRoomService(store)
	room := seedRoom(t, store)

	_, err := svc.UpdateRoom(context.Background(), room.ID, map[string]interface{}{})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.Validation))

	_, err = svc.UpdateRoom(context.Background(), room.ID, map[string]interface{}{"password": "sneaky"})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.Validation))
}

func TestCreateRoomValidatesRequiredFields(t *testing.T) {
	store := newFakeStore()
	svc := NewRoomService(store)

	_, err := svc.CreateRoom(context.Background(), &models.Room{})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.Validation))
}

func TestDeleteRoomLeavesBookingsIntact(t *testing.T) {
	store := newFakeStore()
	svc := NewRoomService(store)
	user := seedGuest(t, store)
	room := seedRoom(t, store)
	booking := seedBooking(t, store, user.ID, room.ID)

	require.NoError(t, svc.DeleteRoom(context.Background(), room.ID))

	got, err := store.GetBookingByID(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, room.ID, got.RoomID, "bookings keep their room reference after deletion")
}

func TestDeleteUnknownRoomNotFound(t *testing.T) {
	store := newFakeStore()
	svc := NewRoomService(store)

	err := svc.DeleteRoom(context.Background(), primitive.NewObjectID())
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.NotFound))
}
