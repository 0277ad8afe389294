package routes

import (
	"github.com/anjiri1684/mindcare/handlers"
	"github.com/anjiri1684/mindcare/middleware"
	"github.com/anjiri1684/mindcare/models"
	"github.com/gofiber/fiber/v2"
)

func ProfessionalRoutes(api fiber.Router, h *handlers.ProfessionalHandler, protected fiber.Handler) {
	professionals := api.Group("/professionals")
	professionals.Get("", h.List)
	professionals.Put("/me", protected, middleware.RequireRoles(models.RoleProfessional), h.UpdateProfile)
	professionals.Get("/:id", h.Get)
}
