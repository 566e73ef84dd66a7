package handlers

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Validation rejects the request before the auth service is touched, so a
// nil service is safe here.
func newAuthTestApp() *fiber.App {
	h := NewAuthHandler(nil, zap.NewNop())
	app := fiber.New()
	app.Post("/register", h.Register)
	app.Post("/login", h.Login)
	app.Post("/refresh", h.RefreshToken)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path, body string) int {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, path, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestRegisterValidation(t *testing.T) {
	app := newAuthTestApp()

	tests := []struct {
		name string
		body string
	}{
		{"missing username", `{"email":"a@example.com","password":"longenough"}`},
		{"missing email", `{"username":"alice","password":"longenough"}`},
		{"short password", `{"username":"alice","email":"a@example.com","password":"short"}`},
		{"malformed body", `{"username":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, fiber.StatusBadRequest, postJSON(t, app, "/register", tt.body))
		})
	}
}

func TestLoginValidation(t *testing.T) {
	app := newAuthTestApp()

	assert.Equal(t, fiber.StatusBadRequest, postJSON(t, app, "/login", `{"password":"secret12"}`))
	assert.Equal(t, fiber.StatusBadRequest, postJSON(t, app, "/login", `{"email":"a@example.com"}`))
}

func TestRefreshValidation(t *testing.T) {
	app := newAuthTestApp()

	assert.Equal(t, fiber.StatusBadRequest, postJSON(t, app, "/refresh", `{}`))
	assert.Equal(t, fiber.StatusBadRequest, postJSON(t, app, "/refresh", `{"refresh_token":""}`))
}
