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

type Dish struct {
	Name  string `bson:"name" json:"name"`
	Price string `bson:"price" json:"price"`
}

// Menu is a restaurant menu section, e.g. "Hot Drinks".
type Menu struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title     string             `bson:"title" json:"title" validate:"required"`
	Items     []Dish             `bson:"items" json:"items"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

type MenuRepo interface {
	CreateMenu(ctx context.Context, menu *Menu) (*Menu, error)
	ListMenus(ctx context.Context) ([]*Menu, error)
	UpdateMenu(ctx context.Context, id primitive.ObjectID, fields bson.M) (*Menu, error)
}

func (mdb *MongodbRepo) CreateMenu(ctx context.Context, menu *Menu) (*Menu, error) {
	col, err := mdb.GetCollection(ctx, MenuColName)
	if err != nil {
		return nil, apperr.Wrap(apperr.Dependency, "store_unavailable", "menu store unavailable", err)
	}

	if menu.ID.IsZero() {
		menu.ID = primitive.NewObjectID()
	}
	now := time.Now()
	menu.CreatedAt = now
	menu.UpdatedAt = now

	if _, err := col.InsertOne(ctx, menu); err != nil {
		return nil, apperr.Wrap(apperr.Dependency, "menu_insert_failed", "failed to add menu", err)
	}
	return menu, nil
}

func (mdb *MongodbRepo) ListMenus(ctx context.Context) ([]*Menu, error) {
	col, err := mdb.GetCollection(ctx, MenuColName)
	if err != nil {
		return nil, apperr.Wrap(apperr.Dependency, "store_unavailable", "menu store unavailable", err)
	}

	cursor, err := col.Find(ctx, bson.M{})
	if err != nil {
		return nil, apperr.Wrap(apperr.Dependency, "menu_list_failed", "failed to fetch menus", err)
	}
	defer cursor.Close(ctx)

	var menus []*Menu
	for cursor.Next(ctx) {
		var menu Menu
		if err := cursor.Decode(&menu); err != nil {
			return nil, fmt.Errorf("error decoding menu: %v", err)
		}
		menus = append(menus, &menu)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}
	return menus, nil
}

func (mdb *MongodbRepo) UpdateMenu(ctx context.Context, id primitive.ObjectID, fields bson.M) (*Menu, error) {
	col, err := mdb.GetCollection(ctx, MenuColName)
	if err != nil {
		return nil, apperr.Wrap(apperr.Dependency, "store_unavailable", "menu store unavailable", err)
	}

	fields["updated_at"] = time.Now()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated Menu
	err = col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": fields}, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.New(apperr.NotFound, "menu_not_found", "menu not found")
		}
		return nil, apperr.Wrap(apperr.Dependency, "menu_update_failed", "failed to update menu", err)
	}
	return &updated, nil
}
