package routes

import (
	"github.com/anjiri1684/mindcare/handlers"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

func WSRoutes(api fiber.Router, h *handlers.WSHandler) {
	api.Use("/ws", h.Upgrade)
	api.Get("/ws", websocket.New(h.Serve))
}
