package config

import (
	"os"
	"time"

	"FoodBridge-Backend/internal/api/handlers"
	"FoodBridge-Backend/internal/api/routes"
	"FoodBridge-Backend/internal/middleware"
	"FoodBridge-Backend/internal/utils"
	"FoodBridge-Backend/internal/utils/mailing"
	"FoodBridge-Backend/internal/utils/storage"
	"FoodBridge-Backend/pkg/jwt"
	"FoodBridge-Backend/pkg/listing"
	"FoodBridge-Backend/pkg/message"
	"FoodBridge-Backend/pkg/notification"
	"FoodBridge-Backend/pkg/request"
	"FoodBridge-Backend/pkg/user"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"
)

func NewApp(db *gorm.DB) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	// setting up logging and limiter
	err := os.MkdirAll("./logs", os.ModePerm)
	if err != nil {
		log.Fatalf("error creating logs directory: %v", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "UTC",
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Second,
	}))

	// utils
	s3 := storage.NewAwsS3()

	// Repository
	userRepository := user.NewUserRepository(db)
	listingRepository := listing.NewListingRepository(db)
	requestRepository := request.NewRequestRepository(db)
	notificationRepository := notification.NewNotificationRepository(db)
	messageRepository := message.NewMessageRepository(db)

	// Service
	jwtService := jwt.NewJWTService()
	userService := user.NewUserService(userRepository, jwtService)
	notificationService := notification.NewNotificationService(notificationRepository, userRepository, mailing.SMTPSender{})
	listingService := listing.NewListingService(listingRepository, s3)
	requestService := request.NewRequestService(requestRepository, listingRepository, notificationService)
	messageService := message.NewMessageService(messageRepository, listingRepository, notificationService)

	// Handler
	userHandler := handlers.NewUserHandler(userService, validator)
	listingHandler := handlers.NewListingHandler(listingService, validator)
	requestHandler := handlers.NewRequestHandler(requestService, validator)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	messageHandler := handlers.NewMessageHandler(messageService, validator)

	// routes
	routesConfig := routes.Config{
		App:                 app,
		UserHandler:         userHandler,
		ListingHandler:      listingHandler,
		RequestHandler:      requestHandler,
		NotificationHandler: notificationHandler,
		MessageHandler:      messageHandler,
		Middleware:          middlewares,
		JWTService:          jwtService,
	}
	routesConfig.Setup()
	return app, nil
}
