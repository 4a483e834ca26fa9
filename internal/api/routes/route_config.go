package routes

import (
	"FoodBridge-Backend/domain"
	"FoodBridge-Backend/internal/api/handlers"
	"FoodBridge-Backend/internal/middleware"
	"FoodBridge-Backend/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App                 *fiber.App
	UserHandler         handlers.UserHandler
	ListingHandler      handlers.ListingHandler
	RequestHandler      handlers.RequestHandler
	NotificationHandler handlers.NotificationHandler
	MessageHandler      handlers.MessageHandler
	Middleware          middleware.Middleware
	JWTService          jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.User()
	c.Listings()
	c.Requests()
	c.Notifications()
	c.Messages()
	c.GuestRoute()
}

func (c *Config) User() {
	user := c.App.Group("/api/v1/users")
	// user routes
	{
		user.Post("/register", c.UserHandler.Register)
		user.Post("/login", c.UserHandler.Login)
		user.Get("/me", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.Me)
		user.Patch("/me", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.UpdateProfile)
	}
}

func (c *Config) Listings() {
	listings := c.App.Group("/api/v1/listings")

	listings.Get("", c.ListingHandler.GetListings)
	listings.Get("/nearby", c.ListingHandler.GetNearbyListings)

	auth := c.Middleware.AuthMiddleware(c.JWTService)
	listings.Get("/mine", auth, c.Middleware.OnlyRoles(domain.RoleDonor), c.ListingHandler.GetMyListings)
	listings.Post("", auth, c.Middleware.OnlyRoles(domain.RoleDonor), c.ListingHandler.CreateListing)
	listings.Post("/image", auth, c.Middleware.OnlyRoles(domain.RoleDonor), c.ListingHandler.UploadListingImage)
	listings.Get("/:id", c.ListingHandler.GetListingByID)
	listings.Patch("/:id", auth, c.ListingHandler.UpdateListing)
	listings.Delete("/:id", auth, c.ListingHandler.DeleteListing)
}

func (c *Config) Requests() {
	requests := c.App.Group("/api/v1/requests", c.Middleware.AuthMiddleware(c.JWTService))

	requests.Post("", c.Middleware.OnlyRoles(domain.RoleReceiver, domain.RoleNGO), c.RequestHandler.CreateRequest)
	requests.Get("/mine", c.RequestHandler.GetMyRequests)
	requests.Get("/incoming", c.Middleware.OnlyRoles(domain.RoleDonor), c.RequestHandler.GetIncomingRequests)
	requests.Get("/deliveries", c.Middleware.OnlyRoles(domain.RoleVolunteer), c.RequestHandler.GetMyDeliveries)
	requests.Get("/open", c.Middleware.OnlyRoles(domain.RoleVolunteer), c.RequestHandler.GetOpenDeliveries)
	requests.Get("/pending", c.Middleware.OnlyRoles(), c.RequestHandler.GetPendingRequests)
	requests.Get("/all", c.Middleware.OnlyRoles(), c.RequestHandler.GetAllRequests)
	requests.Get("/impact", c.RequestHandler.GetImpactStats)
	requests.Get("/:id", c.RequestHandler.GetRequestByID)

	// transition endpoints; role checks live in the service
	requests.Post("/:id/approve", c.RequestHandler.Approve)
	requests.Post("/:id/reject", c.RequestHandler.Reject)
	requests.Post("/:id/cancel", c.RequestHandler.Cancel)
	requests.Post("/:id/self-pickup", c.RequestHandler.SelfPickup)
	requests.Post("/:id/request-volunteer", c.RequestHandler.RequestVolunteer)
	requests.Post("/:id/accept-delivery", c.RequestHandler.AcceptDelivery)
	requests.Post("/:id/picked-up", c.RequestHandler.MarkPickedUp)
	requests.Post("/:id/delivered", c.RequestHandler.MarkDelivered)
	requests.Post("/:id/confirm", c.RequestHandler.Confirm)

	// legacy five-state clients
	requests.Patch("/:id/status", c.RequestHandler.UpdateStatus)
}

func (c *Config) Notifications() {
	notifications := c.App.Group("/api/v1/notifications", c.Middleware.AuthMiddleware(c.JWTService))

	notifications.Get("", c.NotificationHandler.GetNotifications)
	notifications.Get("/unread", c.NotificationHandler.GetUnreadCount)
	notifications.Patch("/read-all", c.NotificationHandler.MarkAllRead)
	notifications.Patch("/:id/read", c.NotificationHandler.MarkRead)
}

func (c *Config) Messages() {
	messages := c.App.Group("/api/v1/messages", c.Middleware.AuthMiddleware(c.JWTService))

	messages.Post("", c.MessageHandler.SendMessage)
	messages.Get("/threads", c.MessageHandler.GetThreads)
	messages.Get("/unread", c.MessageHandler.GetUnreadCount)
	messages.Get("/:listing_id/:user_id", c.MessageHandler.GetConversation)
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
}
