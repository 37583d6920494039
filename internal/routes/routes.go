package routes

import (
	"time"

	"github.com/ZicoForREAL/fullstackAPP/internal/config"
	"github.com/ZicoForREAL/fullstackAPP/internal/handlers"
	"github.com/ZicoForREAL/fullstackAPP/internal/metrics"
	"github.com/ZicoForREAL/fullstackAPP/internal/middleware"
	"github.com/ZicoForREAL/fullstackAPP/internal/models"
	"github.com/ZicoForREAL/fullstackAPP/internal/repository"
	"github.com/ZicoForREAL/fullstackAPP/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

func RegisterRoutes(app *fiber.App, cfg *config.Config, store repository.Store, logger zerolog.Logger) error {
	sessionService := services.NewSessionService(
		store,
		services.WithLogger(logger.With().Str("component", "sessions").Logger()),
		services.WithLocation(cfg.Location()),
	)
	accountService := services.NewAccountService(store, logger.With().Str("component", "accounts").Logger())

	sessionHandler := handlers.NewSessionHandler(sessionService)
	authHandler := handlers.NewAuthHandler(accountService, cfg.JWTSecret, cfg.JWTTTL)
	bookingLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := store.Ping(c.Context()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status":  "unavailable",
				"message": "Database unreachable",
			})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})

	if err := registerDocsRoutes(app, cfg); err != nil {
		return err
	}

	if cfg.MetricsEnabled {
		metrics.Register()
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	}

	api := app.Group("/api")
	api.Get("/test", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message":   "Backend connection successful!",
			"timestamp": models.NewTimestamp(time.Now()),
		})
	})
	api.Post("/register", authHandler.Register)
	api.Post("/login", authHandler.Login)

	protected := api.Group("", middleware.AuthRequired(cfg.JWTSecret))
	protected.Get("/user", authHandler.User)
	protected.Post("/logout", authHandler.Logout)
	protected.Get("/admin/check", authHandler.RoleCheck(models.RoleAdmin, "isAdmin"))
	protected.Get("/coach/check", authHandler.RoleCheck(models.RoleCoach, "isCoach"))
	protected.Get("/client/check", authHandler.RoleCheck(models.RoleClient, "isClient"))

	manage := middleware.RequireCapability(models.CapabilityManageSessions)
	protected.Get("/coach/sessions", manage, sessionHandler.ListCoachSessions)
	protected.Post("/coach/sessions", manage, sessionHandler.CreateSession)
	protected.Delete("/coach/sessions/:id", manage, sessionHandler.DeleteSession)

	browse := middleware.RequireCapability(models.CapabilityBrowseSessions)
	book := middleware.RequireCapability(models.CapabilityBookSessions)
	protected.Get("/client/available-sessions", browse, sessionHandler.ListAvailableSessions)
	protected.Get("/client/booked-sessions", book, sessionHandler.ListBookedSessions)
	protected.Post("/client/book-session/:sessionId", book, bookingLimiter.Handler(), sessionHandler.BookSession)
	protected.Delete("/client/cancel-booking/:bookingId", book, bookingLimiter.Handler(), sessionHandler.CancelBooking)

	return nil
}
