package handlers

import (
	"github.com/anjiri1684/mindcare/middleware"
	"github.com/anjiri1684/mindcare/services"
	"github.com/anjiri1684/mindcare/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var validate = utils.NewValidator()

// parseBody decodes the JSON body into req and runs struct validation.
func parseBody(c *fiber.Ctx, req any) error {
	if err := c.BodyParser(req); err != nil {
		return utils.ValidationError("Cannot parse JSON")
	}
	if err := validate.Struct(req); err != nil {
		return utils.FromValidationError(err)
	}
	return nil
}

func fail(c *fiber.Ctx, err error) error {
	status, body := utils.ErrorBody(err)
	return c.Status(status).JSON(body)
}

func currentActor(c *fiber.Ctx) (services.Actor, error) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		return services.Actor{}, utils.UnauthorizedError("Authentication required")
	}
	return actor, nil
}

func uuidParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, utils.ValidationError("%s must be a valid uuid", name)
	}
	return id, nil
}

func optionalUUIDQuery(c *fiber.Ctx, name string) (*uuid.UUID, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, utils.ValidationError("%s must be a valid uuid", name)
	}
	return &id, nil
}
