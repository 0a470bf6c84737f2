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

type RoomRepo interface {
	CreateRoom(ctx context.Context, room *Room) (*Room, error)
	GetRoomByID(ctx context.Context, id primitive.ObjectID) (*Room, error)
	GetRoomsByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*Room, error)
	ListRooms(ctx context.Context) ([]*Room, error)
	UpdateRoomFields(ctx context.Context, id primitive.ObjectID, fields bson.M) (*Room, error)
	DeleteRoom(ctx context.Context, id primitive.ObjectID) error
	FindAvailableByType(ctx context.Context, roomType string) (*Room, error)
}

func (mdb *MongodbRepo) CreateRoom(ctx context.Context, room *Room) (*Room, error) {
	col, err := mdb.GetCollection(ctx, RoomColName)
	if err != nil {
		return nil, apperr.Wrap(apperr.Dependency, "store_unavailable", "room store unavailable", err)
	}

	room.BeforeCreate()
	if _, err := col.InsertOne(ctx, room); err != nil {
		return nil, apperr.Wrap(apperr.Dependency, "room_insert_failed", "failed to create room", err)
	}
	return room, nil
}

func (mdb *MongodbRepo) GetRoomByID(ctx context.Context, id primitive.ObjectID) (*Room, error) {
	col, err := mdb.GetCollection(ctx, RoomColName)
	if err != nil {
		return nil, apperr.Wrap(apperr.Dependency, "store_unavailable", "room store unavailable", err)
	}

	var room Room
	if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&room); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.New(apperr.NotFound, "room_not_found", "room not found")
		}
		return nil, apperr.Wrap(apperr.Dependency, "room_lookup_failed", "failed to look up room", err)
	}
	return &room, nil
}

func (mdb *MongodbRepo) GetRoomsByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*Room, error) {
	out := make(map[primitive.ObjectID]*Room, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	col, err := mdb.GetCollection(ctx, RoomColName)
	if err != nil {
		return nil, apperr.Wrap(apperr.Dependency, "store_unavailable", "room store unavailable", err)
	}

	cursor, err := col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, apperr.Wrap(apperr.Dependency, "room_lookup_failed", "failed to look up rooms", err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var room Room
		if err := cursor.Decode(&room); err != nil {
			return nil, fmt.Errorf("error decoding room: %v", err)
		}
		r := room
		out[room.ID] = &r
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}
	return out, nil
}

func (mdb *MongodbRepo) ListRooms(ctx context.Context) ([]*Room, error) {
	col, err := mdb.GetCollection(ctx, RoomColName)
	if err != nil {
		return nil, apperr.Wrap(apperr.Dependency, "store_unavailable", "room store unavailable", err)
	}

	cursor, err := col.Find(ctx, bson.M{})
	if err != nil {
		return nil, apperr.Wrap(apperr.Dependency, "room_list_failed", "failed to list rooms", err)
	}
	defer cursor.Close(ctx)

	var rooms []*Room
	for cursor.Next(ctx) {
		var room Room
		if err := cursor.Decode(&room); err != nil {
			return nil, fmt.Errorf("error decoding room: %v", err)
		}
		rooms = append(rooms, &room)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}
	return rooms, nil
}

func (mdb *MongodbRepo) UpdateRoomFields(ctx context.Context, id primitive.ObjectID, fields bson.M) (*Room, error) {
	col, err := mdb.GetCollection(ctx, RoomColName)
	if err != nil {
		return nil, apperr.Wrap(apperr.Dependency, "store_unavailable", "room store unavailable", err)
	}

	fields["updated_at"] = time.Now()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated Room
	err = col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": fields}, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.New(apperr.NotFound, "room_not_found", "room not found")
		}
		return nil, apperr.Wrap(apperr.Dependency, "room_update_failed", "failed to update room", err)
	}
	return &updated, nil
}

// DeleteRoom removes the inventory record. Bookings referencing the room are
// left alone; listings resolve the missing room to a null summary.
func (mdb *MongodbRepo) DeleteRoom(ctx context.Context, id primitive.ObjectID) error {
	col, err := mdb.GetCollection(ctx, RoomColName)
	if err != nil {
		return apperr.Wrap(apperr.Dependency, "store_unavailable", "room store unavailable", err)
	}

	res, err := col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperr.Wrap(apperr.Dependency, "room_delete_failed", "failed to delete room", err)
	}
	if res.DeletedCount == 0 {
		return apperr.New(apperr.NotFound, "room_not_found", "room not found")
	}
	return nil
}

// FindAvailableByType returns the first room of the given type flagged
// available, or nil when none is. A miss is a normal outcome, not an error.
func (mdb *MongodbRepo) FindAvailableByType(ctx context.Context, roomType string) (*Room, error) {
	col, err := mdb.GetCollection(ctx, RoomColName)
	if err != nil {
		return nil, apperr.Wrap(apperr.Dependency, "store_unavailable", "room store unavailable", err)
	}

	var room Room
	err = col.FindOne(ctx, bson.M{"room_type": roomType, "is_available": true}).Decode(&room)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, apperr.Wrap(apperr.Dependency, "room_lookup_failed", "failed to check availability", err)
	}
	return &room, nil
}
