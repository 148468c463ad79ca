package hosting

import (
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"

	"tidyfold/src/features/config"
	"tidyfold/src/features/history"
	"tidyfold/src/features/metrics"
	"tidyfold/src/features/monitoring"
)

// Server is the HTTP control surface for the application.
type Server struct {
	app  *fiber.App
	port uint32
}

// NewServer creates a new HTTP server.
func NewServer(cfg *config.Manager, monitoringService *monitoring.Service, historyService *history.Service, registry *prometheus.Registry) *Server {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			slog.Error("Internal Server Error", "error", err)
			return c.Status(fiber.StatusInternalServerError).SendString(err.Error())
		},
		AppName:               "Tidyfold",
		DisableStartupMessage: true,
		EnablePrintRoutes:     cfg.Get().Server.PrintRoutes,
	})

	app.Use(LogAllRequestsMiddleware())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})

	monitoring.RegisterRoutes(app, monitoring.NewHandler(monitoringService))
	history.RegisterRoutes(app, history.NewHandler(historyService))
	config.RegisterRoutes(app, cfg)
	metrics.RegisterRoutes(app, registry)

	return &Server{app: app, port: cfg.Get().Server.Port}
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	return s.app.Listen(":" + fmt.Sprint(s.port))
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
