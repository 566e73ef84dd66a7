package handlers

import (
	"errors"

	"doctransform/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// respondError writes the uniform error body every handler returns.
func respondError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": message,
	})
}

func getUserID(c *fiber.Ctx) (uuid.UUID, error) {
	userIDStr, ok := c.Locals("userID").(string)
	if !ok {
		return uuid.Nil, fiber.ErrUnauthorized
	}
	return uuid.Parse(userIDStr)
}

// statusForLookupError classifies a service error from a resource lookup.
// A missing row and a row owned by another user are both 404 so existence
// cannot be probed; anything else is a server fault, not a bad request.
func statusForLookupError(err error) int {
	if errors.Is(err, service.ErrDocumentNotFound) ||
		errors.Is(err, service.ErrJobNotFound) ||
		errors.Is(err, service.ErrAccessDenied) {
		return fiber.StatusNotFound
	}
	return fiber.StatusInternalServerError
}

// respondLookupError maps a lookup failure to 404 or 500, logging only the
// server-fault case.
func respondLookupError(c *fiber.Ctx, logger *zap.Logger, err error, notFoundMsg, failMsg string) error {
	if status := statusForLookupError(err); status == fiber.StatusNotFound {
		return respondError(c, status, notFoundMsg)
	}
	logger.Error(failMsg, zap.Error(err))
	return respondError(c, fiber.StatusInternalServerError, failMsg)
}
