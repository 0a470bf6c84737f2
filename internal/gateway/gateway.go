// Package gateway wraps the payment processor. Order creation attaches
// correlation metadata so the webhook path can resolve bookings without
// trusting client-supplied identifiers.
package gateway

import (
	"context"
	"encoding/json"

	razorpay "github.com/razorpay/razorpay-go"
	"github.com/razorpay/razorpay-go/utils"

	"github.com/coralcreek/resort-api/internal/apperr"
)

// Order is the gateway's payment intent, returned to the client so it can
// open the checkout.
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

type Client interface {
	CreateOrder(ctx context.Context, amount int64, currency, receipt string, notes map[string]interface{}) (*Order, error)
}

type RazorpayClient struct {
	client *razorpay.Client
}

func NewRazorpayClient(keyID, keySecret string) *RazorpayClient {
	return &RazorpayClient{client: razorpay.NewClient(keyID, keySecret)}
}

func (rc *RazorpayClient) CreateOrder(ctx context.Context, amount int64, currency, receipt string, notes map[string]interface{}) (*Order, error) {
	data := map[string]interface{}{
		"amount":   amount,
		"currency": currency,
		"receipt":  receipt,
		"notes":    notes,
	}
	body, err := rc.client.Order.Create(data, nil)
	if err != nil {
		return nil, apperr.Wrap(apperr.Dependency, "order_creation_failed", "order creation failed", err)
	}

	order := &Order{Receipt: receipt, Currency: currency, Amount: amount}
	if id, ok := body["id"].(string); ok {
		order.ID = id
	}
	if status, ok := body["status"].(string); ok {
		order.Status = status
	}
	return order, nil
}

// VerifyWebhookSignature recomputes the HMAC over the raw, unparsed payload
// and compares it to the gateway's signature header. The raw body must be
// used as received; re-serializing a parsed form breaks the digest.
func VerifyWebhookSignature(rawBody []byte, signature, secret string) error {
	if signature == "" {
		return apperr.New(apperr.Signature, "missing_signature", "webhook signature header missing")
	}
	if !utils.VerifyWebhookSignature(string(rawBody), signature, secret) {
		return apperr.New(apperr.Signature, "invalid_signature", "webhook signature verification failed")
	}
	return nil
}

// WebhookEvent is the subset of the gateway's event envelope this service
// consumes.
type WebhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity PaymentEntity `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// PaymentEntity carries the captured payment and the notes echoed back from
// order creation.
type PaymentEntity struct {
	ID       string            `json:"id"`
	OrderID  string            `json:"order_id"`
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Notes    map[string]string `json:"notes"`
}

const EventPaymentCaptured = "payment.captured"

// ParseWebhookEvent decodes a verified payload. Call only after signature
// verification has passed.
func ParseWebhookEvent(rawBody []byte) (*WebhookEvent, error) {
	var event WebhookEvent
	if err := json.Unmarshal(rawBody, &event); err != nil {
		return nil, apperr.Wrap(apperr.Validation, "malformed_event", "malformed webhook payload", err)
	}
	return &event, nil
}
