package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coralcreek/resort-api/internal/models"
	"github.com/coralcreek/resort-api/internal/services"
)

func SubmitContact(cs *services.ContactService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var msg models.ContactMessage
		if err := c.ShouldBindJSON(&msg); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "code": "bad_request"})
			return
		}

		saved, err := cs.Submit(c.Request.Context(), &msg)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Thanks for reaching out, we will get back to you soon", "id": saved.ID.Hex()})
	}
}
