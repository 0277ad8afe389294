package handlers

import (
	"github.com/anjiri1684/mindcare/models"
	"github.com/anjiri1684/mindcare/services"
	"github.com/anjiri1684/mindcare/utils"
	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	Stats *services.StatsService
	Users *services.UserService
}

type UserStatusRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

type UserRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=USER PROFESSIONAL ADMIN SUPERADMIN"`
}

func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	stats, err := h.Stats.Dashboard(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"status": "success", "data": stats})
}

func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	list, err := h.Users.List(c.UserContext(), services.UserFilter{
		Search: c.Query("search"),
		Role:   models.Role(c.Query("role")),
		Page:   utils.ParsePage(c),
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"status": "success", "data": list.Data, "meta": list.Meta})
}

func (h *AdminHandler) SetUserStatus(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return fail(c, err)
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return fail(c, err)
	}
	var req UserStatusRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}
	user, err := h.Users.SetActive(c.UserContext(), actor, id, *req.IsActive)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"status": "success", "data": user})
}

func (h *AdminHandler) ChangeUserRole(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return fail(c, err)
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return fail(c, err)
	}
	var req UserRoleRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}
	user, err := h.Users.ChangeRole(c.UserContext(), actor, id, models.Role(req.Role))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"status": "success", "data": user})
}
