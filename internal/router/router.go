package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/soltixdb/trendlens/internal/config"
	"github.com/soltixdb/trendlens/internal/handlers"
	"github.com/soltixdb/trendlens/internal/logging"
	"github.com/soltixdb/trendlens/internal/metrics"
	"github.com/soltixdb/trendlens/internal/middleware"
)

// Setup configures all routes and middlewares
func Setup(app *fiber.App, logger *logging.Logger, cfg *config.Config, deps handlers.Deps, m *metrics.Metrics) *handlers.Handler {
	h := handlers.New(logger, cfg, deps)

	// Global middlewares
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowMethods:  "GET,POST,OPTIONS",
		AllowHeaders:  "Origin,Content-Type,Accept,Authorization,X-API-Key,X-Request-ID",
		ExposeHeaders: "X-Request-ID," + handlers.HeaderRunID,
	}))
	app.Use(logging.FiberMiddleware(logger, logging.DefaultMiddlewareConfig()))

	// Health check and scrapes (no auth required)
	app.Get("/health", h.Health)
	if m != nil {
		app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))
	}

	// API v1 routes (protected by API key)
	v1 := app.Group("/v1", middleware.APIKeyAuth(logger, cfg.Auth.APIKeys, cfg.Auth.Enabled))

	v1.Post("/analyze", h.Analyze)
	v1.Post("/analyze/file", h.AnalyzeFile)
	v1.Post("/forecast", h.Forecast)
	v1.Post("/insights", h.Insights)
	v1.Post("/predict", h.Predict)

	v1.Get("/history", h.ListHistory)
	v1.Get("/history/:id", h.GetHistory)

	// 404 handler
	app.Use(h.NotFound)

	return h
}

// New creates a new Fiber app with configuration
func New(logger *logging.Logger, cfg *config.Config, deps handlers.Deps, m *metrics.Metrics) *fiber.App {
	fcfg := fiber.Config{
		AppName:               "trendlens",
		DisableStartupMessage: true,
		ErrorHandler:          middleware.ErrorHandler(logger),
		ReadTimeout:           cfg.Server.ReadTimeout,
		WriteTimeout:          cfg.Server.WriteTimeout,
	}
	if cfg.Server.BodyLimit > 0 {
		fcfg.BodyLimit = cfg.Server.BodyLimit
	}
	app := fiber.New(fcfg)

	Setup(app, logger, cfg, deps, m)

	return app
}
