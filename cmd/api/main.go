package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"gharbazaar/internal/config"
	"gharbazaar/internal/handler"
	"gharbazaar/internal/middleware"
	"gharbazaar/internal/repository"
	"gharbazaar/internal/service"
	authsvc "gharbazaar/internal/service/auth"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	db, err := config.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	redisClient, err := config.NewRedisClient(cfg)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v (live feeds and caching disabled)", err)
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	minioClient, err := config.NewMinIOClient(cfg)
	if err != nil {
		log.Printf("Warning: Failed to connect to MinIO: %v (media upload will not work)", err)
	}

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, redisClient, minioClient, cfg)
	handlers := handler.NewHandlers(services)

	go pruneSessions(repos)

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/health"
		},
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	}))

	setupRoutes(app, handlers, services.Auth)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func setupRoutes(app *fiber.App, h *handler.Handlers, authService authsvc.Service) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	v1 := app.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", h.Auth.Login)
	auth.Post("/refresh", h.Auth.RefreshToken)
	auth.Post("/logout", h.Auth.Logout)
	auth.Get("/verify-email", h.Auth.VerifyEmail)
	auth.Post("/logout-all", middleware.AuthRequired(authService), h.Auth.LogoutAll)

	// Property listings are public; everything below /me is not.
	v1.Get("/properties", h.Property.List)
	v1.Get("/properties/:id", h.Property.GetByID)

	protected := v1.Group("", middleware.AuthRequired(authService))

	protected.Get("/me", h.Auth.Me)

	properties := protected.Group("/properties")
	properties.Post("/", middleware.RequireAnyRole("seller", "admin"), h.Property.Create)
	properties.Get("/mine/list", middleware.RequireAnyRole("seller", "admin"), h.Property.ListMine)
	properties.Put("/:id", middleware.RequireAnyRole("seller", "admin"), h.Property.Update)
	properties.Delete("/:id", middleware.RequireAnyRole("seller", "admin"), h.Property.Delete)
	properties.Post("/:id/images", middleware.RequireAnyRole("seller", "admin"), h.Property.UploadImage)

	inquiries := protected.Group("/inquiries")
	inquiries.Post("/", h.Inquiry.Create)
	inquiries.Get("/mine", h.Inquiry.ListMine)
	inquiries.Get("/received", h.Inquiry.ListReceived)

	bookings := protected.Group("/bookings")
	bookings.Post("/", h.Booking.Create)
	bookings.Get("/mine", h.Booking.ListMine)
	bookings.Get("/received", h.Booking.ListReceived)
	bookings.Post("/:id/cancel", h.Booking.Cancel)

	// The agent workbench. The list endpoint also consumes the
	// assignment/action deep-link parameters from offer emails.
	agent := protected.Group("/agent", middleware.RequireRole("agent"))
	agent.Get("/assignments", h.Assignment.List)
	agent.Post("/assignments/:id/respond", h.Assignment.Respond)

	admin := protected.Group("/admin", middleware.RequireRole("admin"))
	admin.Post("/assignments", h.Assignment.Create)
	admin.Get("/agents", h.Assignment.ListAgents)
	admin.Get("/dashboard/stats", h.Dashboard.GetStats)

	notifications := protected.Group("/notifications")
	notifications.Get("/", h.Notification.List)
	notifications.Get("/unread-count", h.Notification.UnreadCount)
	notifications.Post("/:id/read", h.Notification.MarkAsRead)
	notifications.Post("/read-all", h.Notification.MarkAllAsRead)

	// Any signed-in user may open a feed; users without properties just
	// get an empty one and no subscription.
	feedSessions := protected.Group("/feed/sessions")
	feedSessions.Post("/", h.Feed.Open)
	feedSessions.Get("/:id", h.Feed.Snapshot)
	feedSessions.Get("/:id/stream", h.Feed.Stream)
	feedSessions.Post("/:id/read", h.Feed.MarkRead)
	feedSessions.Post("/:id/read-all", h.Feed.MarkAllRead)
	feedSessions.Delete("/:id", h.Feed.Close)
}

// pruneSessions drops expired and revoked refresh-token rows once an
// hour.
func pruneSessions(repos *repository.Repositories) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		if err := repos.Session.DeleteExpired(context.Background()); err != nil {
			log.Printf("Failed to prune expired sessions: %v", err)
		}
	}
}
