package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/coralcreek/resort-api/internal/apperr"
)

// respondError maps a service error onto the wire: classified errors keep
// their status and code, anything else is a generic 500 so internals never
// leak to clients.
func respondError(c *gin.Context, err error) {
	c.JSON(apperr.Status(err), gin.H{
		"error": apperr.MessageOf(err),
		"code":  apperr.CodeOf(err),
	})
}
