package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ZicoForREAL/fullstackAPP/internal/config"
	"github.com/ZicoForREAL/fullstackAPP/internal/database"
	"github.com/ZicoForREAL/fullstackAPP/internal/logging"
	"github.com/ZicoForREAL/fullstackAPP/internal/middleware"
	"github.com/ZicoForREAL/fullstackAPP/internal/routes"
	"github.com/ZicoForREAL/fullstackAPP/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	boot := logging.Bootstrap()

	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		boot.Fatal().Err(err).Msg("failed to load config")
	}
	logger := logging.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Connect to Database
	if cfg.AutoMigrate {
		if err := database.MigrateUp(cfg); err != nil {
			logger.Fatal().Err(err).Msg("failed to apply migrations")
		}
	}
	store, err := database.OpenStore(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("failed to connect to database")
	}
	defer store.Close()

	if cfg.HasDefaultAdmin() {
		accounts := services.NewAccountService(store, logger)
		created, err := accounts.EnsureAdmin(ctx, cfg.DefaultAdminName, cfg.DefaultAdminEmail, cfg.DefaultAdminPassword)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to seed admin account")
		}
		if created {
			logger.Info().Str("email", cfg.DefaultAdminEmail).Msg("admin account created")
		}
	}

	// 3. Setup Fiber
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.CORSOrigins}))
	app.Use(middleware.RequestLogger(logger))

	// Routes
	if err := routes.RegisterRoutes(app, cfg, store, logger); err != nil {
		logger.Fatal().Err(err).Msg("failed to register routes")
	}

	// 4. Start Server
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("graceful shutdown failed")
		}
	}()

	logger.Info().Str("port", cfg.Port).Str("driver", cfg.DBDriver).Msg("server starting")
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.Fatal().Err(err).Msg("server failed to start")
	}
	logger.Info().Msg("server stopped")
}

func errorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "Internal server error"

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		status = fiberErr.Code
		message = fiberErr.Message
	}
	return c.Status(status).JSON(fiber.Map{"message": message})
}
