package routes

import (
	"github.com/anjiri1684/mindcare/handlers"
	"github.com/anjiri1684/mindcare/middleware"
	"github.com/anjiri1684/mindcare/models"
	"github.com/gofiber/fiber/v2"
)

func AvailabilityRoutes(api fiber.Router, h *handlers.AvailabilityHandler, protected fiber.Handler) {
	availability := api.Group("/availability", protected)
	editors := middleware.RequireRoles(models.RoleProfessional, models.RoleAdmin)

	availability.Get("/slots/all", h.OpenSlots)
	availability.Post("/initialize", editors, h.Initialize)
	availability.Get("/:professionalId", h.Get)
	availability.Put("/:dayId", editors, h.ReplaceDay)
}
