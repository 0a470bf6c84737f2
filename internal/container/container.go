package container

import (
	"log/slog"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/coralcreek/resort-api/internal/cache"
	"github.com/coralcreek/resort-api/internal/config"
	"github.com/coralcreek/resort-api/internal/gateway"
	"github.com/coralcreek/resort-api/internal/models"
	"github.com/coralcreek/resort-api/internal/notify"
	"github.com/coralcreek/resort-api/internal/services"
)

// Container holds all application dependencies
type Container struct {
	Config     *config.Config
	Logger     *slog.Logger
	Cloudinary *cloudinary.Cloudinary

	MongoDBClient *mongo.Client
	Users         models.UserRepo

	AuthService    *services.AuthService
	RoomService    *services.RoomService
	BookingService *services.BookingService
	PaymentService *services.PaymentService
	MenuService    *services.MenuService
	ContactService *services.ContactService
}

// NewContainer creates a new dependency injection container
func NewContainer(
	cfg *config.Config,
	logger *slog.Logger,
	cld *cloudinary.Cloudinary,
	mongoClient *mongo.Client,
	redisClient *redis.Client,
	gatewayClient gateway.Client,
	dispatcher notify.Dispatcher,
) *Container {
	repo := models.MongodbNewRepo(mongoClient, cfg.MongoDBName)
	otps := cache.NewRedisOTPStore(redisClient)

	authService := services.NewAuthService(repo, otps, dispatcher, cfg.JWTSecret, logger)
	roomService := services.NewRoomService(repo)
	bookingService := services.NewBookingService(repo, repo, repo, repo, dispatcher, logger)
	paymentService := services.NewPaymentService(repo, repo, bookingService, gatewayClient, logger)
	menuService := services.NewMenuService(repo)
	contactService := services.NewContactService(repo, dispatcher, cfg.ContactInbox, logger)

	return &Container{
		Config:         cfg,
		Logger:         logger,
		Cloudinary:     cld,
		MongoDBClient:  mongoClient,
		Users:          repo,
		AuthService:    authService,
		RoomService:    roomService,
		BookingService: bookingService,
		PaymentService: paymentService,
		MenuService:    menuService,
		ContactService: contactService,
	}
}
