package models

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/coralcreek/resort-api/internal/apperr"
)

type ContactMessage struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name" validate:"required"`
	Email     string             `bson:"email" json:"email" validate:"required,email"`
	Subject   string             `bson:"subject" json:"subject"`
	Message   string             `bson:"message" json:"message" validate:"required"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

type ContactRepo interface {
	CreateContactMessage(ctx context.Context, msg *ContactMessage) (*ContactMessage, error)
}

func (mdb *MongodbRepo) CreateContactMessage(ctx context.Context, msg *ContactMessage) (*ContactMessage, error) {
	col, err := mdb.GetCollection(ctx, ContactColName)
	if err != nil {
		return nil, apperr.Wrap(apperr.Dependency, "store_unavailable", "contact store unavailable", err)
	}

	if msg.ID.IsZero() {
		msg.ID = primitive.NewObjectID()
	}
	msg.CreatedAt = time.Now()

	if _, err := col.InsertOne(ctx, msg); err != nil {
		return nil, apperr.Wrap(apperr.Dependency, "contact_insert_failed", "failed to save message", err)
	}
	return msg, nil
}
