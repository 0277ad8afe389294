package routes

import (
	"github.com/anjiri1684/mindcare/handlers"
	"github.com/gofiber/fiber/v2"
)

func AuthRoutes(api fiber.Router, h *handlers.AuthHandler, protected, limit fiber.Handler) {
	auth := api.Group("/auth")
	auth.Post("/register", limit, h.Register)
	auth.Post("/login", limit, h.Login)
	auth.Get("/me", protected, h.Me)
}
