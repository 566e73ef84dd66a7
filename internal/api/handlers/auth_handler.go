package handlers

import (
	"errors"

	"doctransform/internal/dto"
	"doctransform/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// minPasswordLength is enforced here rather than in the service so the
// caller gets a field-specific message before any hashing work happens.
const minPasswordLength = 8

type AuthHandler struct {
	authService *service.AuthService
	logger      *zap.Logger
}

func NewAuthHandler(authService *service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Register godoc
// @Summary Register a new user
// @Description Register a new user with username, email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Registration request"
// @Success 201 {object} dto.AuthResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /user/auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if req.Username == "" || req.Email == "" {
		return respondError(c, fiber.StatusBadRequest, "Username and email are required")
	}
	if len(req.Password) < minPasswordLength {
		return respondError(c, fiber.StatusBadRequest, "Password must be at least 8 characters")
	}

	resp, err := h.authService.Register(c.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrUserExists) {
			return respondError(c, fiber.StatusConflict, "User already exists")
		}
		h.logger.Error("Registration failed", zap.Error(err))
		return respondError(c, fiber.StatusInternalServerError, "Registration failed")
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Login godoc
// @Summary Login user
// @Description Login with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login request"
// @Success 200 {object} dto.AuthResponse
// @Failure 401 {object} map[string]string
// @Router /user/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return respondError(c, fiber.StatusBadRequest, "Email and password are required")
	}

	resp, err := h.authService.Login(c.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return respondError(c, fiber.StatusUnauthorized, "Invalid credentials")
		}
		h.logger.Error("Login failed", zap.Error(err))
		return respondError(c, fiber.StatusInternalServerError, "Login failed")
	}

	return c.JSON(resp)
}

// RefreshToken godoc
// @Summary Refresh access token
// @Description Refresh access token using refresh token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh token request"
// @Success 200 {object} dto.AuthResponse
// @Failure 401 {object} map[string]string
// @Router /user/auth/refresh [post]
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	var req dto.RefreshTokenRequest
	if err := c.BodyParser(&req); err != nil || req.RefreshToken == "" {
		return respondError(c, fiber.StatusBadRequest, "Refresh token is required")
	}

	resp, err := h.authService.RefreshToken(c.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) || errors.Is(err, service.ErrUserNotFound) {
			return respondError(c, fiber.StatusUnauthorized, "Invalid refresh token")
		}
		h.logger.Error("Token refresh failed", zap.Error(err))
		return respondError(c, fiber.StatusInternalServerError, "Token refresh failed")
	}

	return c.JSON(resp)
}
