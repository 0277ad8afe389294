package handlers

import (
	"github.com/anjiri1684/mindcare/models"
	"github.com/anjiri1684/mindcare/services"
	"github.com/anjiri1684/mindcare/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type BookingHandler struct {
	Bookings *services.BookingService
}

type CreateBookingRequest struct {
	ProfessionalID string  `json:"professional_id" validate:"required,uuid"`
	Date           string  `json:"date" validate:"required,ymd"`
	StartTime      string  `json:"start_time" validate:"required,hhmm"`
	EndTime        string  `json:"end_time" validate:"required,hhmm"`
	Modality       string  `json:"modality" validate:"required,oneof=VIDEO AUDIO"`
	Concern        string  `json:"concern" validate:"required,min=3,max=1000"`
	Notes          *string `json:"notes" validate:"omitempty,max=2000"`
}

type CancelRequest struct {
	Reason string `json:"reason" validate:"required,min=3,max=500"`
}

type RescheduleRequest struct {
	Date      string  `json:"date" validate:"required,ymd"`
	StartTime string  `json:"start_time" validate:"required,hhmm"`
	EndTime   string  `json:"end_time" validate:"required,hhmm"`
	Reason    *string `json:"reason" validate:"omitempty,min=3,max=500"`
}

type MeetingLinkRequest struct {
	MeetingLink string `json:"meeting_link" validate:"required,url"`
}

func (h *BookingHandler) Create(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return fail(c, err)
	}
	var req CreateBookingRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}
	booking, err := h.Bookings.Create(c.UserContext(), actor, services.CreateBookingInput{
		ProfessionalID: uuid.MustParse(req.ProfessionalID),
		Date:           req.Date,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		Modality:       models.Modality(req.Modality),
		Concern:        req.Concern,
		Notes:          req.Notes,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "success", "data": booking})
}

func (h *BookingHandler) List(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return fail(c, err)
	}
	profID, err := optionalUUIDQuery(c, "professionalId")
	if err != nil {
		return fail(c, err)
	}
	userID, err := optionalUUIDQuery(c, "userId")
	if err != nil {
		return fail(c, err)
	}
	list, err := h.Bookings.List(c.UserContext(), actor, services.BookingFilter{
		Status:         models.BookingStatus(c.Query("status")),
		From:           c.Query("from"),
		To:             c.Query("to"),
		ProfessionalID: profID,
		UserID:         userID,
		Page:           utils.ParsePage(c),
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"status": "success", "data": list.Data, "meta": list.Meta})
}

func (h *BookingHandler) Get(c *fiber.Ctx) error {
	actor, id, err := h.target(c)
	if err != nil {
		return fail(c, err)
	}
	booking, err := h.Bookings.Get(c.UserContext(), actor, id)
	return h.reply(c, booking, err)
}

func (h *BookingHandler) Confirm(c *fiber.Ctx) error {
	actor, id, err := h.target(c)
	if err != nil {
		return fail(c, err)
	}
	booking, err := h.Bookings.Confirm(c.UserContext(), actor, id)
	return h.reply(c, booking, err)
}

func (h *BookingHandler) Cancel(c *fiber.Ctx) error {
	actor, id, err := h.target(c)
	if err != nil {
		return fail(c, err)
	}
	var req CancelRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}
	booking, err := h.Bookings.Cancel(c.UserContext(), actor, id, req.Reason)
	return h.reply(c, booking, err)
}

func (h *BookingHandler) Complete(c *fiber.Ctx) error {
	actor, id, err := h.target(c)
	if err != nil {
		return fail(c, err)
	}
	booking, err := h.Bookings.Complete(c.UserContext(), actor, id)
	return h.reply(c, booking, err)
}

func (h *BookingHandler) Reschedule(c *fiber.Ctx) error {
	actor, id, err := h.target(c)
	if err != nil {
		return fail(c, err)
	}
	var req RescheduleRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}
	booking, err := h.Bookings.Reschedule(c.UserContext(), actor, id, services.RescheduleInput{
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Reason:    req.Reason,
	})
	return h.reply(c, booking, err)
}

func (h *BookingHandler) SetMeetingLink(c *fiber.Ctx) error {
	actor, id, err := h.target(c)
	if err != nil {
		return fail(c, err)
	}
	var req MeetingLinkRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}
	booking, err := h.Bookings.SetMeetingLink(c.UserContext(), actor, id, req.MeetingLink)
	return h.reply(c, booking, err)
}

func (h *BookingHandler) target(c *fiber.Ctx) (services.Actor, uuid.UUID, error) {
	actor, err := currentActor(c)
	if err != nil {
		return actor, uuid.Nil, err
	}
	id, err := uuidParam(c, "id")
	return actor, id, err
}

func (h *BookingHandler) reply(c *fiber.Ctx, booking *models.Booking, err error) error {
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"status": "success", "data": booking})
}
