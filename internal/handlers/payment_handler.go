package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/coralcreek/resort-api/internal/middleware"
	"github.com/coralcreek/resort-api/internal/services"
)

func CreateOrder(p *services.PaymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.CallerID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "code": "missing_identity"})
			return
		}

		var req services.CreateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "code": "bad_request"})
			return
		}

		order, err := p.CreateOrder(c.Request.Context(), userID, req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"order": order})
	}
}

// SavePayment records a gateway transaction reported by the client. The
// booking id comes from the body rather than the path; it shares the
// idempotent path with PaySuccess and the webhook.
func SavePayment(p *services.PaymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.CallerID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "code": "missing_identity"})
			return
		}

		var req struct {
			BookingID         string `json:"booking_id"`
			RazorpayPaymentID string `json:"razorpay_payment_id"`
			AmountPaid        int64  `json:"amount_paid"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "code": "bad_request"})
			return
		}

		bookingID, err := primitive.ObjectIDFromHex(req.BookingID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id", "code": "invalid_id"})
			return
		}

		payment, err := p.RecordPayment(c.Request.Context(), services.RecordPaymentRequest{
			UserID:            userID,
			BookingID:         bookingID,
			RazorpayPaymentID: req.RazorpayPaymentID,
			AmountPaid:        req.AmountPaid,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Payment saved", "payment": payment})
	}
}

// Webhook receives gateway events. The raw body must be read before any
// binding so the signature check runs over the exact bytes received.
// Signature failures are rejected without touching any state.
func Webhook(p *services.PaymentService, webhookSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		rawBody, err := c.GetRawData()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unable to read request body", "code": "bad_request"})
			return
		}

		signature := c.GetHeader("X-Razorpay-Signature")
		if err := p.HandleWebhook(c.Request.Context(), rawBody, signature, webhookSecret); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

func ListMyPayments(p *services.PaymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.CallerID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "code": "missing_identity"})
			return
		}

		payments, err := p.ListForUser(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"payments": payments})
	}
}

func ListAllPayments(p *services.PaymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		payments, err := p.ListAll(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"payments": payments})
	}
}
