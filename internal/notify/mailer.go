// Package notify defines the transactional email contract. Dispatch is
// fire-and-forget: state transitions commit first and a failed send is
// logged, never propagated back to the caller.
package notify

import (
	"context"
	"log/slog"
	"strconv"

	gomail "gopkg.in/gomail.v2"
)

type Email struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Mailer delivers a single message over the transport.
type Mailer interface {
	Send(email Email) error
}

// Dispatcher accepts a message for eventual delivery. Implementations must
// not block the request path on the actual send.
type Dispatcher interface {
	Dispatch(ctx context.Context, email Email) error
}

type SMTPMailer struct {
	from   string
	dialer *gomail.Dialer
}

func NewSMTPMailer(host, port, email, password string) *SMTPMailer {
	p, err := strconv.Atoi(port)
	if err != nil {
		p = 587
	}
	return &SMTPMailer{
		from:   email,
		dialer: gomail.NewDialer(host, p, email, password),
	}
}

func (m *SMTPMailer) Send(email Email) error {
	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.from, "Coral Creek Resort")
	msg.SetHeader("To", email.To)
	msg.SetHeader("Subject", email.Subject)
	msg.SetBody("text/plain", email.Body)
	return m.dialer.DialAndSend(msg)
}

// DirectDispatcher sends in a goroutine, used when no message broker is
// configured. Errors are logged and dropped.
type DirectDispatcher struct {
	mailer Mailer
	logger *slog.Logger
}

func NewDirectDispatcher(mailer Mailer, logger *slog.Logger) *DirectDispatcher {
	return &DirectDispatcher{mailer: mailer, logger: logger}
}

func (d *DirectDispatcher) Dispatch(ctx context.Context, email Email) error {
	go func() {
		if err := d.mailer.Send(email); err != nil {
			d.logger.Error("email send failed", "to", email.To, "subject", email.Subject, "error", err)
		}
	}()
	return nil
}
