package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/coralcreek/resort-api/internal/models"
	"github.com/coralcreek/resort-api/internal/services"
)

func CreateMenu(m *services.MenuService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var menu models.Menu
		if err := c.ShouldBindJSON(&menu); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "code": "bad_request"})
			return
		}

		created, err := m.CreateMenu(c.Request.Context(), &menu)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Menu added", "menu": created})
	}
}

func ListMenus(m *services.MenuService) gin.HandlerFunc {
	return func(c *gin.Context) {
		menus, err := m.ListMenus(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"menus": menus})
	}
}

func UpdateMenu(m *services.MenuService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid menu id", "code": "invalid_id"})
			return
		}

		var req struct {
			Title string        `json:"title"`
			Items []models.Dish `json:"items"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "code": "bad_request"})
			return
		}

		menu, err := m.UpdateMenu(c.Request.Context(), id, req.Title, req.Items)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Menu updated", "menu": menu})
	}
}
