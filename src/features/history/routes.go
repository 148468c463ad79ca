package history

import "github.com/gofiber/fiber/v2"

// RegisterRoutes registers the history routes with the app.
func RegisterRoutes(app *fiber.App, handler *Handler) {
	group := app.Group("/history")
	group.Get("/moves", handler.RecentMoves)
	group.Get("/categories", handler.CategoryCounts)
}
