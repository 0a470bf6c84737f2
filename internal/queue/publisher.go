// Package queue moves transactional emails through RabbitMQ so the request
// path never waits on SMTP. Publish failures are logged and returned; the
// callers treat them as best-effort.
package queue

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/coralcreek/resort-api/internal/notify"
)

const emailQueueName = "notifications.email"

// EmailPublisher implements notify.Dispatcher over a durable queue.
type EmailPublisher struct {
	url    string
	logger *slog.Logger
}

func NewEmailPublisher(url string, logger *slog.Logger) *EmailPublisher {
	return &EmailPublisher{url: url, logger: logger}
}

func (p *EmailPublisher) Dispatch(ctx context.Context, email notify.Email) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		p.logger.Error("rabbitmq dial failed", "error", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.logger.Error("rabbitmq channel open failed", "error", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// Durable so queued notifications survive broker restarts.
	if _, err := ch.QueueDeclare(emailQueueName, true, false, false, false, nil); err != nil {
		p.logger.Error("rabbitmq queue declare failed", "error", err)
		return err
	}

	body, err := json.Marshal(email)
	if err != nil {
		p.logger.Error("marshal email failed", "error", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", emailQueueName, false, false, pub); err != nil {
		p.logger.Error("rabbitmq publish failed", "error", err)
		return err
	}
	return nil
}
