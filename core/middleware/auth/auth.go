package auth

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
)

const headerName = "X-Api-Key"

// Config holds the middleware settings.
type Config struct {
	// ApiKey is the expected key. Empty disables the check
	// (local-only deployments).
	ApiKey string
}

// New returns middleware that validates the API key header.
func New(cfg Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if cfg.ApiKey == "" {
			return c.Next()
		}
		provided := c.Get(headerName)
		if subtle.ConstantTimeCompare([]byte(provided), []byte(cfg.ApiKey)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid api key",
			})
		}
		return c.Next()
	}
}
