package auth_test

import (
	"net/http/httptest"
	"testing"

	"team-sync/core/middleware/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func setupApp(apiKey string) *fiber.App {
	app := fiber.New()
	app.Use(auth.New(auth.Config{ApiKey: apiKey}))
	app.Get("/ping", func(c *fiber.Ctx) error {
		return c.SendString("pong")
	})
	return app
}

func TestAuthMiddleware(t *testing.T) {
	t.Run("Valid Key", func(t *testing.T) {
		app := setupApp("secret")
		req := httptest.NewRequest("GET", "/ping", nil)
		req.Header.Set("X-Api-Key", "secret")

		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("Invalid Key", func(t *testing.T) {
		app := setupApp("secret")
		req := httptest.NewRequest("GET", "/ping", nil)
		req.Header.Set("X-Api-Key", "wrong")

		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("Missing Key", func(t *testing.T) {
		app := setupApp("secret")
		req := httptest.NewRequest("GET", "/ping", nil)

		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("Empty Configured Key Disables Check", func(t *testing.T) {
		app := setupApp("")
		req := httptest.NewRequest("GET", "/ping", nil)

		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})
}
