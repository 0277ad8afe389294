package handlers

import (
	"strings"

	"github.com/anjiri1684/mindcare/models"
	"github.com/anjiri1684/mindcare/services"
	"github.com/anjiri1684/mindcare/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AvailabilityHandler struct {
	Availability *services.AvailabilityService
	Slots        *services.SlotService
}

type ReplaceDayRequest struct {
	Slots     []models.TimeSlot `json:"slots" validate:"dive"`
	Available *bool             `json:"available" validate:"required"`
}

type InitializeRequest struct {
	ProfessionalID string `json:"professional_id" validate:"omitempty,uuid"`
}

func (h *AvailabilityHandler) Get(c *fiber.Ctx) error {
	id, err := uuidParam(c, "professionalId")
	if err != nil {
		return fail(c, err)
	}
	week, err := h.Availability.GetAvailability(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"status": "success", "data": week})
}

func (h *AvailabilityHandler) ReplaceDay(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return fail(c, err)
	}
	dayID, err := uuidParam(c, "dayId")
	if err != nil {
		return fail(c, err)
	}
	var req ReplaceDayRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}
	day, err := h.Availability.ReplaceDaySlots(c.UserContext(), actor, dayID, req.Slots, *req.Available)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"status": "success", "data": day})
}

// Initialize creates the caller's week. Admins may name another professional.
func (h *AvailabilityHandler) Initialize(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return fail(c, err)
	}
	var req InitializeRequest
	if len(c.Body()) > 0 {
		if err := parseBody(c, &req); err != nil {
			return fail(c, err)
		}
	}
	target := actor.UserID
	if req.ProfessionalID != "" {
		id := uuid.MustParse(req.ProfessionalID)
		if id != actor.UserID && !actor.IsAdmin() {
			return fail(c, utils.ForbiddenError("You can only initialize your own availability"))
		}
		target = id
	}
	week, err := h.Availability.InitializeWeek(c.UserContext(), target)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "success", "data": week})
}

// OpenSlots accepts ?dates=a,b,c or ?from=&to=, plus ?professionalId=.
func (h *AvailabilityHandler) OpenSlots(c *fiber.Ctx) error {
	profID, err := optionalUUIDQuery(c, "professionalId")
	if err != nil {
		return fail(c, err)
	}
	q := services.SlotQuery{
		From:           c.Query("from"),
		To:             c.Query("to"),
		ProfessionalID: profID,
	}
	if raw := strings.TrimSpace(c.Query("dates")); raw != "" {
		for _, d := range strings.Split(raw, ",") {
			if d = strings.TrimSpace(d); d != "" {
				q.Dates = append(q.Dates, d)
			}
		}
	}
	slots, err := h.Slots.ListOpenSlots(c.UserContext(), q)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"status": "success", "data": slots})
}
