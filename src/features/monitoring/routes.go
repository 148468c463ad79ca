package monitoring

import "github.com/gofiber/fiber/v2"

// RegisterRoutes registers the monitoring routes with the app.
func RegisterRoutes(app *fiber.App, handler *Handler) {
	monitor := app.Group("/monitor")
	monitor.Post("/root", handler.SelectRoot)
	monitor.Post("/start", handler.Start)
	monitor.Post("/stop", handler.Stop)
	monitor.Post("/sweep", handler.Sweep)
	monitor.Get("/status", handler.Status)
}
