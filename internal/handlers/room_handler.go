package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/coralcreek/resort-api/internal/helpers"
	"github.com/coralcreek/resort-api/internal/models"
	"github.com/coralcreek/resort-api/internal/services"
)

const maxRoomImages = 5

// CreateRoom accepts a multipart form so room images ride along with the
// metadata. Images are pushed to Cloudinary and only their URLs persist.
func CreateRoom(r *services.RoomService, cld *cloudinary.Cloudinary) gin.HandlerFunc {
	return func(c *gin.Context) {
		form, err := c.MultipartForm()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "expected multipart form data", "code": "bad_request"})
			return
		}

		price, err := strconv.ParseFloat(c.PostForm("price_per_night"), 64)
		if err != nil || price <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "price_per_night must be a positive number", "code": "invalid_price"})
			return
		}

		var features []string
		for _, p := range strings.Split(c.PostForm("features"), ",") {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				features = append(features, trimmed)
			}
		}

		files := form.File["images"]
		if len(files) > maxRoomImages {
			c.JSON(http.StatusBadRequest, gin.H{"error": "a room can have at most 5 images", "code": "too_many_images"})
			return
		}

		var images []string
		if len(files) > 0 && cld != nil {
			images, err = helpers.UploadMultipartImages(c.Request.Context(), cld, files, helpers.RoomFolder)
			if err != nil {
				c.JSON(http.StatusBadGateway, gin.H{"error": "image upload failed", "code": "upload_failed"})
				return
			}
		}

		room := &models.Room{
			HotelName:     c.PostForm("hotel_name"),
			RoomType:      c.PostForm("room_type"),
			PricePerNight: price,
			Features:      features,
			Images:        images,
			IsAvailable:   true,
			Location:      c.PostForm("location"),
			City:          c.PostForm("city"),
		}

		created, err := r.CreateRoom(c.Request.Context(), room)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Room created successfully", "room": created})
	}
}

func ListRooms(r *services.RoomService) gin.HandlerFunc {
	return func(c *gin.Context) {
		rooms, err := r.ListRooms(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"rooms": rooms})
	}
}

func GetRoom(r *services.RoomService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id", "code": "invalid_id"})
			return
		}

		room, err := r.GetRoom(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"room": room})
	}
}

func UpdateRoom(r *services.RoomService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id", "code": "invalid_id"})
			return
		}

		var updates map[string]interface{}
		if err := c.ShouldBindJSON(&updates); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "code": "bad_request"})
			return
		}

		room, err := r.UpdateRoom(c.Request.Context(), id, updates)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Room updated successfully", "room": room})
	}
}

func DeleteRoom(r *services.RoomService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id", "code": "invalid_id"})
			return
		}

		if err := r.DeleteRoom(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Room deleted successfully"})
	}
}

// CheckAvailability reports whether any room of the requested type is open.
// A miss is a 200 with is_available:false, not an error.
func CheckAvailability(r *services.RoomService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			RoomType string `json:"roomType"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "code": "bad_request"})
			return
		}

		result, err := r.CheckAvailability(c.Request.Context(), req.RoomType)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}
