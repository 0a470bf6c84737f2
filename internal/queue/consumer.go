package queue

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/coralcreek/resort-api/internal/notify"
)

// StartEmailConsumer connects to RabbitMQ and delivers queued notifications
// over the mailer. It runs a reconnect loop with backoff and never returns
// under normal operation; run it in its own goroutine. A message that fails
// to send is nacked without requeue so a broken address cannot wedge the
// queue.
func StartEmailConsumer(url string, mailer notify.Mailer, logger *slog.Logger) {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			logger.Error("email-consumer: failed to dial broker", "error", err, "retry_in", backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		if err := consumeLoop(conn, mailer, logger); err != nil {
			logger.Error("email-consumer: consume loop ended", "error", err)
			time.Sleep(2 * time.Second)
		}
		_ = conn.Close()
	}
}

func consumeLoop(conn *amqp.Connection, mailer notify.Mailer, logger *slog.Logger) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(10, 0, false); err != nil {
		logger.Error("email-consumer: set QoS failed", "error", err)
	}

	if _, err := ch.QueueDeclare(emailQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(emailQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		var email notify.Email
		if err := json.Unmarshal(d.Body, &email); err != nil {
			logger.Error("email-consumer: malformed message", "error", err)
			_ = d.Nack(false, false)
			continue
		}
		if err := mailer.Send(email); err != nil {
			logger.Error("email send failed", "to", email.To, "subject", email.Subject, "error", err)
			_ = d.Nack(false, false)
			continue
		}
		_ = d.Ack(false)
	}
	return fmt.Errorf("delivery channel closed")
}
