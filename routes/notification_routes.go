package routes

import (
	"github.com/anjiri1684/mindcare/handlers"
	"github.com/gofiber/fiber/v2"
)

func NotificationRoutes(api fiber.Router, h *handlers.NotificationHandler, protected fiber.Handler) {
	notifications := api.Group("/notifications", protected)
	notifications.Get("", h.List)
	notifications.Put("/:id/read", h.MarkRead)
}
