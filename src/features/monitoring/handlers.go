package monitoring

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
)

// Handler holds the HTTP handlers for the monitoring feature.
type Handler struct {
	service *Service
}

// NewHandler creates a new monitoring handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type selectRootRequest struct {
	Path string `json:"path"`
}

// SelectRoot handles requests to change the monitored folder.
func (h *Handler) SelectRoot(c *fiber.Ctx) error {
	var req selectRootRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Path == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Path is required"})
	}

	if err := h.service.SelectRoot(req.Path); err != nil {
		slog.Error("Failed to select folder", "path", req.Path, "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Folder selected", "root": h.service.Status().Root})
}

// Start handles requests to start monitoring.
func (h *Handler) Start(c *fiber.Ctx) error {
	err := h.service.Start(c.Context())
	switch {
	case errors.Is(err, ErrNoRootSelected):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No folder selected"})
	case errors.Is(err, ErrAlreadyRunning):
		return c.JSON(fiber.Map{"message": "Monitoring is already running"})
	case err != nil:
		slog.Error("Failed to start monitoring", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Monitoring started"})
}

// Stop handles requests to stop monitoring.
func (h *Handler) Stop(c *fiber.Ctx) error {
	err := h.service.Stop()
	switch {
	case errors.Is(err, ErrNotRunning):
		return c.JSON(fiber.Map{"message": "No monitoring to stop"})
	case err != nil:
		slog.Error("Failed to stop monitoring", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Monitoring stopped"})
}

// Sweep handles requests for a one-shot organizing pass.
func (h *Handler) Sweep(c *fiber.Ctx) error {
	stats, err := h.service.Sweep(c.Context())
	switch {
	case errors.Is(err, ErrNoRootSelected):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No folder selected"})
	case errors.Is(err, ErrAlreadyRunning):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Monitoring is already running"})
	case err != nil:
		slog.Error("Sweep failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(stats)
}

// Status handles requests for the current monitoring state.
func (h *Handler) Status(c *fiber.Ctx) error {
	return c.JSON(h.service.Status())
}
