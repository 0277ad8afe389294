package handlers

import (
	"github.com/anjiri1684/mindcare/services"
	"github.com/anjiri1684/mindcare/utils"
	"github.com/gofiber/fiber/v2"
)

type NotificationHandler struct {
	Notifications *services.NotificationService
}

func (h *NotificationHandler) List(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return fail(c, err)
	}
	list, err := h.Notifications.List(c.UserContext(), actor, c.QueryBool("unread"), utils.ParsePage(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"status": "success", "data": list.Data, "meta": list.Meta})
}

func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return fail(c, err)
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return fail(c, err)
	}
	n, err := h.Notifications.MarkRead(c.UserContext(), actor, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"status": "success", "data": n})
}
