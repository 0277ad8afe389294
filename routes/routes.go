package routes

import (
	"github.com/anjiri1684/mindcare/handlers"
	"github.com/gofiber/fiber/v2"
)

// Handlers bundles everything the API mounts.
type Handlers struct {
	Auth          *handlers.AuthHandler
	Availability  *handlers.AvailabilityHandler
	Bookings      *handlers.BookingHandler
	Notifications *handlers.NotificationHandler
	Professionals *handlers.ProfessionalHandler
	Admin         *handlers.AdminHandler
	WS            *handlers.WSHandler
}

// Setup mounts every route group under /api. protected authenticates the
// caller; limit throttles the unauthenticated and write-heavy endpoints.
func Setup(app *fiber.App, h Handlers, protected, limit fiber.Handler) {
	api := app.Group("/api")

	AuthRoutes(api, h.Auth, protected, limit)
	ProfessionalRoutes(api, h.Professionals, protected)
	AvailabilityRoutes(api, h.Availability, protected)
	BookingRoutes(api, h.Bookings, protected, limit)
	NotificationRoutes(api, h.Notifications, protected)
	AdminRoutes(api, h.Admin, protected)
	if h.WS != nil {
		WSRoutes(api, h.WS)
	}
}
