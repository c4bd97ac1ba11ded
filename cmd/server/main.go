package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/saeid-a/EvalAdminBack/internal/config"
	"github.com/saeid-a/EvalAdminBack/internal/database"
	"github.com/saeid-a/EvalAdminBack/internal/logger"
	"github.com/saeid-a/EvalAdminBack/internal/middleware"
	"github.com/saeid-a/EvalAdminBack/internal/routes"
	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zlog := logger.New(cfg.LogLevel, cfg.LogFormat)
	defer func() { _ = zlog.Sync() }()
	zap.ReplaceGlobals(zlog)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. Connect to Database
	if cfg.DBUrl == "" {
		zlog.Fatal("DB_URL is required")
	}
	if err := database.ConnectDB(ctx, cfg.DBUrl, zlog); err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}
	defer database.CloseDB()

	// 3. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName:      "evaladmin",
		BodyLimit:    cfg.ImportMaxBytes + 1024*1024,
		ErrorHandler: jsonErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSAllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, " + middleware.RequestIDHeader,
	}))
	app.Use(middleware.RequestLogger(zlog, middleware.HealthSkipper))
	if cfg.EnableMetrics {
		app.Use(middleware.Metrics(middleware.HealthSkipper))
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	}

	// Routes
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
		})
	})
	if err := routes.RegisterRoutes(ctx, app, cfg, database.DB, zlog); err != nil {
		zlog.Fatal("failed to register routes", zap.Error(err))
	}

	// 4. Start Server
	serveErr := make(chan error, 1)
	go func() {
		zlog.Info("server starting",
			zap.String("port", cfg.Port),
			zap.String("env", cfg.AppEnv),
			zap.Bool("docs", cfg.DocsEnabled()),
			zap.Bool("storage", cfg.StorageEnabled()),
			zap.String("cors_origins", strings.TrimSpace(cfg.CORSAllowOrigins)),
		)
		serveErr <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, context.Canceled) {
			zlog.Fatal("server failed", zap.Error(err))
		}
	case <-ctx.Done():
		zlog.Info("shutting down")
		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			zlog.Error("shutdown failed", zap.Error(err))
		}
	}
}

// jsonErrorHandler keeps framework errors (404, 405, body too large) in the
// same {"error": ...} shape the handlers use.
func jsonErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
		message = fiberErr.Message
	} else {
		zap.L().Error("unhandled error", zap.Error(err), zap.String("path", c.Path()))
	}
	return c.Status(code).JSON(fiber.Map{"error": message})
}
