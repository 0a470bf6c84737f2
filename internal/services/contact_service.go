package services

import (
	"context"
	"log/slog"

	"github.com/coralcreek/resort-api/internal/apperr"
	"github.com/coralcreek/resort-api/internal/models"
	"github.com/coralcreek/resort-api/internal/notify"
)

// ContactService stores guest enquiries and forwards them to the front desk
// inbox. The enquiry is persisted first; a mail failure never loses it.
type ContactService struct {
	contacts   models.ContactRepo
	dispatcher notify.Dispatcher
	inbox      string
	logger     *slog.Logger
}

func NewContactService(contacts models.ContactRepo, dispatcher notify.Dispatcher, inbox string, logger *slog.Logger) *ContactService {
	return &ContactService{
		contacts:   contacts,
		dispatcher: dispatcher,
		inbox:      inbox,
		logger:     logger,
	}
}

func (cs *ContactService) Submit(ctx context.Context, msg *models.ContactMessage) (*models.ContactMessage, error) {
	if err := models.Validate.Struct(msg); err != nil {
		return nil, apperr.Wrap(apperr.Validation, "invalid_message", "name, email and message are required", err)
	}

	saved, err := cs.contacts.CreateContactMessage(ctx, msg)
	if err != nil {
		return nil, err
	}

	if err := cs.dispatcher.Dispatch(ctx, notify.ContactEmail(cs.inbox, saved)); err != nil {
		cs.logger.Error("contact email dispatch failed", "from", saved.Email, "error", err)
	}
	return saved, nil
}
