package handlers

import (
	"github.com/anjiri1684/mindcare/services"
	"github.com/anjiri1684/mindcare/utils"
	"github.com/gofiber/fiber/v2"
)

type ProfessionalHandler struct {
	Professionals *services.ProfessionalService
}

type ProfileRequest struct {
	Title          *string `json:"title" validate:"omitempty,max=255"`
	Bio            *string `json:"bio" validate:"omitempty,max=5000"`
	Specialization *string `json:"specialization" validate:"omitempty,max=255"`
}

func (h *ProfessionalHandler) List(c *fiber.Ctx) error {
	list, err := h.Professionals.List(c.UserContext(), c.Query("specialization"), utils.ParsePage(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"status": "success", "data": list.Data, "meta": list.Meta})
}

func (h *ProfessionalHandler) Get(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return fail(c, err)
	}
	prof, err := h.Professionals.Get(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"status": "success", "data": prof})
}

func (h *ProfessionalHandler) UpdateProfile(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return fail(c, err)
	}
	var req ProfileRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}
	prof, err := h.Professionals.UpdateProfile(c.UserContext(), actor, services.ProfileInput{
		Title:          req.Title,
		Bio:            req.Bio,
		Specialization: req.Specialization,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"status": "success", "data": prof})
}
