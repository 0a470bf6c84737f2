package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Room struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	HotelName     string             `bson:"hotel_name" json:"hotel_name" validate:"required"`
	RoomType      string             `bson:"room_type" json:"room_type" validate:"required"`
	PricePerNight float64            `bson:"price_per_night" json:"price_per_night" validate:"required,gt=0"`
	Features      []string           `bson:"features" json:"features"`
	Images        []string           `bson:"images" json:"images"`
	IsAvailable   bool               `bson:"is_available" json:"is_available"`
	Location      string             `bson:"location" json:"location" validate:"required"`
	City          string             `bson:"city" json:"city" validate:"required"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updated_at"`
}

func (r *Room) BeforeCreate() {
	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	now := time.Now()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	r.UpdatedAt = now
}

// RoomSummary is the slice of a room that booking listings embed. A nil
// summary means the room was deleted after the booking was made.
type RoomSummary struct {
	RoomType      string  `json:"room_type"`
	PricePerNight float64 `json:"price_per_night"`
}

func (r *Room) Summary() *RoomSummary {
	return &RoomSummary{RoomType: r.RoomType, PricePerNight: r.PricePerNight}
}
