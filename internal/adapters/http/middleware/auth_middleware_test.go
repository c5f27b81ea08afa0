package middleware

import (
	"net/http/httptest"
	"testing"

	"campus-identity/internal/adapters/persistence/models"
	"campus-identity/internal/config"
	"campus-identity/internal/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func middlewareConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:           "test-access-secret",
			RefreshSecret:    "test-refresh-secret",
			AccessTokenMins:  60,
			RefreshTokenDays: 7,
		},
	}
}

func protectedApp(cfg *config.Config, extra ...fiber.Handler) *fiber.App {
	app := fiber.New()
	handlers := append([]fiber.Handler{AuthMiddleware(cfg)}, extra...)
	handlers = append(handlers, func(c *fiber.Ctx) error {
		actor, ok := Actor(c)
		if !ok {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.JSON(fiber.Map{"user_id": actor.UserID, "role": actor.Role})
	})
	app.Get("/protected", handlers...)
	return app
}

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	app := protectedApp(middlewareConfig())

	req := httptest.NewRequest("GET", "/protected", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddlewareMalformedToken(t *testing.T) {
	app := protectedApp(middlewareConfig())

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	cfg := middlewareConfig()
	app := protectedApp(cfg)

	token, err := jwt.GenerateAccessToken(7, "nina", models.RoleStudent, "Nina Barlow", cfg.JWT.Secret, cfg.JWT.AccessTokenMins)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAuthMiddlewareExpiredToken(t *testing.T) {
	cfg := middlewareConfig()
	app := protectedApp(cfg)

	token, err := jwt.GenerateAccessToken(7, "nina", models.RoleStudent, "Nina Barlow", cfg.JWT.Secret, -1)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAdminOnly(t *testing.T) {
	cfg := middlewareConfig()
	app := protectedApp(cfg, AdminOnly())

	adminToken, err := jwt.GenerateAccessToken(1, "root", models.RoleAdmin, "Root Admin", cfg.JWT.Secret, cfg.JWT.AccessTokenMins)
	require.NoError(t, err)
	studentToken, err := jwt.GenerateAccessToken(7, "nina", models.RoleStudent, "Nina Barlow", cfg.JWT.Secret, cfg.JWT.AccessTokenMins)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	req = httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+studentToken)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
