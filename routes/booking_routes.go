package routes

import (
	"github.com/anjiri1684/mindcare/handlers"
	"github.com/anjiri1684/mindcare/middleware"
	"github.com/anjiri1684/mindcare/models"
	"github.com/gofiber/fiber/v2"
)

func BookingRoutes(api fiber.Router, h *handlers.BookingHandler, protected, limit fiber.Handler) {
	booking := api.Group("/booking", protected)
	professional := middleware.RequireRoles(models.RoleProfessional)

	booking.Post("", limit, middleware.RequireRoles(models.RoleUser), h.Create)
	booking.Get("", h.List)
	booking.Get("/:id", h.Get)
	booking.Put("/:id/confirm", professional, h.Confirm)
	booking.Put("/:id/cancel", h.Cancel)
	booking.Put("/:id/complete", professional, h.Complete)
	booking.Put("/:id/reschedule", middleware.RequireRoles(models.RoleUser, models.RoleProfessional), h.Reschedule)
	booking.Put("/:id/meeting-link", professional, h.SetMeetingLink)
}
