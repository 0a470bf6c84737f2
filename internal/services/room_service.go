package services

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/coralcreek/resort-api/internal/apperr"
	"github.com/coralcreek/resort-api/internal/models"
)

type RoomService struct {
	rooms models.RoomRepo
}

func NewRoomService(rooms models.RoomRepo) *RoomService {
	return &RoomService{rooms: rooms}
}

func (rs *RoomService) CreateRoom(ctx context.Context, room *models.Room) (*models.Room, error) {
	if err := models.Validate.Struct(room); err != nil {
		return nil, apperr.Wrap(apperr.Validation, "invalid_room", "missing required room fields", err)
	}
	return rs.rooms.CreateRoom(ctx, room)
}

func (rs *RoomService) ListRooms(ctx context.Context) ([]*models.Room, error) {
	return rs.rooms.ListRooms(ctx)
}

func (rs *RoomService) GetRoom(ctx context.Context, id primitive.ObjectID) (*models.Room, error) {
	return rs.rooms.GetRoomByID(ctx, id)
}

// UpdateRoom applies partial field replacement: only supplied keys change.
// A "features" value sent as a CSV string is split into tags.
func (rs *RoomService) UpdateRoom(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.Room, error) {
	if len(updates) == 0 {
		return nil, apperr.New(apperr.Validation, "no_fields", "no fields to update")
	}

	allowed := map[string]bool{
		"hotel_name":      true,
		"room_type":       true,
		"price_per_night": true,
		"features":        true,
		"images":          true,
		"is_available":    true,
		"location":        true,
		"city":            true,
	}

	fields := bson.M{}
	for key, value := range updates {
		if !allowed[key] {
			continue
		}
		if key == "features" {
			if csv, ok := value.(string); ok {
				parts := strings.Split(csv, ",")
				features := make([]string, 0, len(parts))
				for _, p := range parts {
					if trimmed := strings.TrimSpace(p); trimmed != "" {
						features = append(features, trimmed)
					}
				}
				value = features
			}
		}
		fields[key] = value
	}
	if len(fields) == 0 {
		return nil, apperr.New(apperr.Validation, "no_fields", "no updatable fields supplied")
	}

	return rs.rooms.UpdateRoomFields(ctx, id, fields)
}

func (rs *RoomService) DeleteRoom(ctx context.Context, id primitive.ObjectID) error {
	return rs.rooms.DeleteRoom(ctx, id)
}

// AvailabilityResult is the outcome of a room-type availability check.
// A miss is a normal outcome, not an error.
type AvailabilityResult struct {
	IsAvailable bool                `json:"is_available"`
	RoomID      *primitive.ObjectID `json:"room_id,omitempty"`
	RoomType    string              `json:"room_type,omitempty"`
	Message     string              `json:"message,omitempty"`
}

func (rs *RoomService) CheckAvailability(ctx context.Context, roomType string) (*AvailabilityResult, error) {
	if roomType == "" {
		return nil, apperr.New(apperr.Validation, "missing_room_type", "roomType is required")
	}

	room, err := rs.rooms.FindAvailableByType(ctx, roomType)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return &AvailabilityResult{
			IsAvailable: false,
			Message:     roomType + " is not available.",
		}, nil
	}
	return &AvailabilityResult{
		IsAvailable: true,
		RoomID:      &room.ID,
		RoomType:    room.RoomType,
	}, nil
}
