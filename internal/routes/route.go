package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/coralcreek/resort-api/internal/container"
	"github.com/coralcreek/resort-api/internal/handlers"
	"github.com/coralcreek/resort-api/internal/middleware"
)

// SetupRoutes configures all routes with the dependency container
func SetupRoutes(ct *container.Container) *gin.Engine {
	if ct.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{ct.Config.FrontendOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(ct.Logger))
	r.Use(gin.Recovery())

	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":  "OK",
				"service": "coralcreek-api",
			})
		})

		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.Register(ct.AuthService))
			auth.POST("/login", handlers.Login(ct.AuthService))
			auth.POST("/send-email-otp", handlers.SendEmailOTP(ct.AuthService))
			auth.POST("/verify-email-otp", handlers.VerifyEmailOTP(ct.AuthService))
			auth.POST("/forgot-password", handlers.ForgotPassword(ct.AuthService))
			auth.POST("/reset-password", handlers.ResetPassword(ct.AuthService))
		}

		api.GET("/rooms", handlers.ListRooms(ct.RoomService))
		api.GET("/rooms/:id", handlers.GetRoom(ct.RoomService))
		api.POST("/availability/check-availability", handlers.CheckAvailability(ct.RoomService))
		api.GET("/menu", handlers.ListMenus(ct.MenuService))
		api.POST("/contact", handlers.SubmitContact(ct.ContactService))

		// The gateway authenticates itself with the signature header, not a
		// bearer token.
		api.POST("/payments/webhook", handlers.Webhook(ct.PaymentService, ct.Config.RazorpayWebhookSecret))
	}

	protected := api.Group("/")
	protected.Use(middleware.Auth(ct.Config.JWTSecret))
	{
		protected.GET("/users/profile", handlers.GetProfile(ct.Users))
		protected.POST("/users/reset-password", handlers.ChangePassword(ct.AuthService))
		protected.PATCH("/users/update-mobile", handlers.UpdateMobile(ct.AuthService))
		protected.DELETE("/users/delete", handlers.DeleteAccount(ct.AuthService))

		protected.POST("/bookings", handlers.CreateBooking(ct.BookingService))
		protected.GET("/bookings/user", handlers.ListMyBookings(ct.BookingService))
		protected.PATCH("/bookings/:id/pay-success", handlers.PaySuccess(ct.PaymentService))
		protected.PATCH("/bookings/:id/cancel", handlers.CancelBooking(ct.BookingService))

		protected.POST("/payments/create-order", handlers.CreateOrder(ct.PaymentService))
		protected.POST("/payments/save", handlers.SavePayment(ct.PaymentService))
		protected.GET("/payments/user", handlers.ListMyPayments(ct.PaymentService))
	}

	admin := api.Group("/")
	admin.Use(middleware.Auth(ct.Config.JWTSecret), middleware.AdminOnly(ct.Users))
	{
		admin.POST("/rooms", handlers.CreateRoom(ct.RoomService, ct.Cloudinary))
		admin.PUT("/rooms/:id", handlers.UpdateRoom(ct.RoomService))
		admin.DELETE("/rooms/:id", handlers.DeleteRoom(ct.RoomService))

		admin.GET("/bookings", handlers.ListAllBookings(ct.BookingService))
		admin.GET("/payments", handlers.ListAllPayments(ct.PaymentService))

		admin.POST("/menu", handlers.CreateMenu(ct.MenuService))
		admin.PUT("/menu/:id", handlers.UpdateMenu(ct.MenuService))
	}

	return r
}
