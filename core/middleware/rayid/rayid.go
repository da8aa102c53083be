package rayid

import (
	"feature-manifest/core/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// HeaderName is the header used to propagate the ray id.
const HeaderName = "X-Ray-ID"

// New returns a middleware assigning every request a ray id.
// An incoming X-Ray-ID header is reused; otherwise a UUID is generated.
// The id is stored in locals under logger.RayIDKey and echoed in the response.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(HeaderName)
		if id == "" {
			id = uuid.NewString()
		}
		c.Locals(logger.RayIDKey, id)
		c.Set(HeaderName, id)
		return c.Next()
	}
}
