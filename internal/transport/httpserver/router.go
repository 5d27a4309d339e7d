// Package httpserver provides HTTP server and routing.
package httpserver

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"

	"portal-sync-service/internal/transport/httpserver/dto"
	"portal-sync-service/internal/transport/httpserver/handler"
	"portal-sync-service/internal/transport/httpserver/middleware"
	"portal-sync-service/internal/validator"
)

// ServerConfig holds server configuration.
type ServerConfig struct {
	Name        string
	Port        int
	BodyLimit   int
	CORSOrigins []string
}

// Dependencies are the collaborators the routes are served from.
type Dependencies struct {
	News     handler.NewsReader
	Events   handler.EventsReader
	Warmer   handler.Warmer
	Clearers []handler.CacheClearer

	// Ping backs the readiness check.
	Ping middleware.PingFunc
	// RemotePing adds the remote source to readiness. Optional.
	RemotePing middleware.PingFunc
}

// Server wraps Fiber app with handlers.
type Server struct {
	App    *fiber.App
	Logger *zap.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(cfg ServerConfig, deps Dependencies, v *validator.Validator, logger *zap.Logger) *Server {
	app := fiber.New(fiber.Config{
		AppName:      cfg.Name,
		BodyLimit:    cfg.BodyLimit,
		ErrorHandler: errorHandler(logger),
	})

	// Health checks first so health checks bypass the rest of the chain
	app.Use(middleware.NewHealthCheck(deps.Ping, deps.RemotePing))

	app.Use(requestid.New())
	app.Use(middleware.Recover(logger))
	app.Use(middleware.Logger(logger))
	app.Use(middleware.CORS(cfg.CORSOrigins))
	app.Use(compress.New())

	feedHandler := handler.NewFeedHandler(deps.News, deps.Events, v, logger)
	adminHandler := handler.NewAdminHandler(deps.Warmer, deps.Clearers, v, logger)

	registerRoutes(app, feedHandler, adminHandler)

	return &Server{
		App:    app,
		Logger: logger,
	}
}

// registerRoutes sets up all API routes.
func registerRoutes(app *fiber.App, feedHandler *handler.FeedHandler, adminHandler *handler.AdminHandler) {
	// Health checks are handled by middleware (/livez, /readyz)

	v1 := app.Group("/api/v1")

	v1.Get("/news", feedHandler.ListNews)
	v1.Get("/news/search", feedHandler.SearchNews)
	v1.Get("/events", feedHandler.ListEvents)

	admin := v1.Group("/admin")
	admin.Post("/warm", adminHandler.WarmAll)
	admin.Post("/warm/:domain", adminHandler.WarmDomain)
	admin.Delete("/cache/:domain", adminHandler.ClearCache)
	admin.Get("/domains", adminHandler.GetDomains)
}

// errorHandler returns a custom error handler that logs based on HTTP status code.
// 404s are logged at DEBUG level, 4xx at WARN, 5xx at ERROR.
func errorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		msg := "internal server error"

		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
			msg = e.Message
		}

		fields := []zap.Field{
			zap.Error(err),
			zap.Int("status", code),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
		}

		switch {
		case code == fiber.StatusNotFound:
			logger.Debug("resource not found", fields...)
		case code >= 500:
			logger.Error("server error", fields...)
		default:
			logger.Warn("client error", fields...)
		}

		return c.Status(code).JSON(dto.ErrorResponse{
			Error: msg,
			Code:  "UNHANDLED_ERROR",
		})
	}
}

// Start starts the HTTP server.
func (s *Server) Start(port int) error {
	s.Logger.Info("starting HTTP server", zap.Int("port", port))

	return s.App.Listen(fmt.Sprintf(":%d", port))
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	s.Logger.Info("shutting down HTTP server")

	return s.App.Shutdown()
}
