package history

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"tidyfold/src/sorting"
)

// Handler holds the HTTP handlers for the history feature.
type Handler struct {
	service *Service
}

// NewHandler creates a new history handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RecentMoves handles requests for the newest move records.
func (h *Handler) RecentMoves(c *fiber.Ctx) error {
	limit := c.QueryInt("limit")
	records, err := h.service.RecentMoves(c.Context(), limit)
	if err != nil {
		slog.Error("Failed to load move history", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load move history"})
	}
	if records == nil {
		records = []sorting.Record{}
	}
	return c.JSON(records)
}

// CategoryCounts handles requests for per-category move totals.
func (h *Handler) CategoryCounts(c *fiber.Ctx) error {
	counts, err := h.service.CategoryCounts(c.Context())
	if err != nil {
		slog.Error("Failed to count move history", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to count move history"})
	}
	return c.JSON(counts)
}
