package middleware

import (
	"strings"

	"doctransform/pkg/auth"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const bearerPrefix = "Bearer "

// AuthMiddleware guards a route group with JWT bearer auth. The scheme is
// required, not optional; a raw token without "Bearer " is rejected. On
// success the token identity lands in Locals (userID, username, email).
func AuthMiddleware(jwtManager *auth.JWTManager, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return respondUnauthorized(c, "Authorization token required")
		}
		if !strings.HasPrefix(header, bearerPrefix) {
			logger.Warn("Authorization header is not a bearer token")
			return respondUnauthorized(c, "Bearer token required")
		}

		claims, err := jwtManager.ValidateToken(strings.TrimPrefix(header, bearerPrefix))
		if err != nil {
			logger.Warn("Token validation failed", zap.Error(err))
			return respondUnauthorized(c, "Invalid or expired token")
		}

		c.Locals("userID", claims.UserID)
		c.Locals("username", claims.Username)
		c.Locals("email", claims.Email)

		return c.Next()
	}
}

func respondUnauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": message,
	})
}
