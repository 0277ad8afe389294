package routes

import (
	"github.com/anjiri1684/mindcare/handlers"
	"github.com/anjiri1684/mindcare/middleware"
	"github.com/anjiri1684/mindcare/models"
	"github.com/gofiber/fiber/v2"
)

func AdminRoutes(api fiber.Router, h *handlers.AdminHandler, protected fiber.Handler) {
	admin := api.Group("/admin", protected, middleware.RequireRoles(models.RoleAdmin))
	admin.Get("/stats", h.Dashboard)

	users := admin.Group("/users")
	users.Get("", h.ListUsers)
	users.Put("/:id/status", h.SetUserStatus)
	users.Put("/:id/role", h.ChangeUserRole)
}
