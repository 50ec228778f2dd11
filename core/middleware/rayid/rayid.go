package rayid

import (
	"inventory-tracker/core/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// HeaderName is the response header carrying the ray id.
const HeaderName = "X-Ray-ID"

// LocalKey is the fiber.Ctx locals key read by logger.WithRayID.
const LocalKey = logger.RayIDKey

// New returns a middleware that assigns every request a ray id. An incoming
// X-Ray-ID header is kept.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(HeaderName)
		if id == "" {
			id = uuid.NewString()
		}
		c.Locals(LocalKey, id)
		c.Set(HeaderName, id)
		return c.Next()
	}
}
