package middleware

import (
	"strconv"

	"github.com/LiuTengYing/AI-Support-Widget/internal/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const actorLocalKey = "actor"

// RequireActor is the capability gate for the chat endpoint. The fronting
// forum authenticates users and forwards their identity in headers; this
// service only checks that an identity is present.
func RequireActor(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := strconv.ParseInt(c.Get("X-User-ID"), 10, 64)
		if err != nil || userID <= 0 {
			logger.Warn("Chat request without a valid actor", zap.String("path", c.Path()))
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "You do not have permission to use the AI assistant",
			})
		}

		c.Locals(actorLocalKey, models.Actor{
			ID:    userID,
			Admin: c.Get("X-User-Admin") == "true",
		})

		return c.Next()
	}
}

// ActorFromContext returns the actor stored by RequireActor.
func ActorFromContext(c *fiber.Ctx) (models.Actor, bool) {
	actor, ok := c.Locals(actorLocalKey).(models.Actor)
	return actor, ok
}
