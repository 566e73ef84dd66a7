package middleware

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"doctransform/pkg/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newProtectedApp(manager *auth.JWTManager) *fiber.App {
	app := fiber.New()
	app.Get("/protected", AuthMiddleware(manager, zap.NewNop()), func(c *fiber.Ctx) error {
		return c.SendString(c.Locals("userID").(string))
	})
	return app
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	manager := auth.NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	app := newProtectedApp(manager)

	token, err := manager.GenerateToken("user-1", "alice", "alice@example.com")
	require.NoError(t, err)

	req := httptest.NewRequest(fiber.MethodGet, "/protected", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "user-1", string(body))
}

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	manager := auth.NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	app := newProtectedApp(manager)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/protected", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddlewareRequiresBearerScheme(t *testing.T) {
	manager := auth.NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	app := newProtectedApp(manager)

	token, err := manager.GenerateToken("user-1", "alice", "alice@example.com")
	require.NoError(t, err)

	// A bare token without the scheme is rejected
	req := httptest.NewRequest(fiber.MethodGet, "/protected", nil)
	req.Header.Set(fiber.HeaderAuthorization, token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddlewareInvalidToken(t *testing.T) {
	manager := auth.NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	app := newProtectedApp(manager)

	req := httptest.NewRequest(fiber.MethodGet, "/protected", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer not.a.token")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddlewareExpiredToken(t *testing.T) {
	issuer := auth.NewJWTManager("test-secret", -time.Hour, 24*time.Hour)
	app := newProtectedApp(auth.NewJWTManager("test-secret", time.Hour, 24*time.Hour))

	token, err := issuer.GenerateToken("user-1", "alice", "alice@example.com")
	require.NoError(t, err)

	req := httptest.NewRequest(fiber.MethodGet, "/protected", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
