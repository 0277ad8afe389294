package middleware

import (
	"context"

	"github.com/anjiri1684/mindcare/models"
	"github.com/anjiri1684/mindcare/services"
	"github.com/anjiri1684/mindcare/utils"
	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/golang-jwt/jwt/v4"
)

const actorKey = "actor"

// Accounts loads the current state of the caller a token names.
type Accounts interface {
	Resolve(ctx context.Context, actor services.Actor) (services.Actor, error)
}

// Protected verifies the bearer token, reloads the account and stores the
// caller for handlers. The stored role wins over the one in the token.
func Protected(secret string, accounts Accounts) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:     []byte(secret),
		ErrorHandler:   jwtError,
		SuccessHandler: storeActor(accounts),
	})
}

func storeActor(accounts Accounts) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := c.Locals("user").(*jwt.Token)
		if !ok {
			return respond(c, utils.UnauthorizedError("Invalid or expired JWT"))
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return respond(c, utils.UnauthorizedError("Invalid or expired JWT"))
		}
		actor, err := services.ActorFromClaims(claims)
		if err != nil {
			return respond(c, err)
		}
		actor, err = accounts.Resolve(c.UserContext(), actor)
		if err != nil {
			return respond(c, err)
		}
		c.Locals(actorKey, actor)
		return c.Next()
	}
}

func jwtError(c *fiber.Ctx, err error) error {
	if err.Error() == "Missing or malformed JWT" {
		return respond(c, utils.UnauthorizedError("Missing or malformed JWT"))
	}
	return respond(c, utils.UnauthorizedError("Invalid or expired JWT"))
}

// CurrentActor returns the caller stored by Protected.
func CurrentActor(c *fiber.Ctx) (services.Actor, bool) {
	actor, ok := c.Locals(actorKey).(services.Actor)
	return actor, ok
}

// RequireRoles lets the request through when the caller holds one of roles.
// ADMIN in the list also admits SUPERADMIN.
func RequireRoles(roles ...models.Role) fiber.Handler {
	allowed := make(map[models.Role]bool, len(roles)+1)
	for _, r := range roles {
		allowed[r] = true
		if r == models.RoleAdmin {
			allowed[models.RoleSuperAdmin] = true
		}
	}
	return func(c *fiber.Ctx) error {
		actor, ok := CurrentActor(c)
		if !ok {
			return respond(c, utils.UnauthorizedError("Authentication required"))
		}
		if !allowed[actor.Role] {
			return respond(c, utils.ForbiddenError("This action requires one of the roles %v", roles))
		}
		return c.Next()
	}
}

func respond(c *fiber.Ctx, err error) error {
	status, body := utils.ErrorBody(err)
	return c.Status(status).JSON(body)
}
