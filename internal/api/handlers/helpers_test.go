package handlers

import (
	"errors"
	"fmt"
	"testing"

	"doctransform/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestStatusForLookupError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"document not found", service.ErrDocumentNotFound, fiber.StatusNotFound},
		{"job not found", service.ErrJobNotFound, fiber.StatusNotFound},
		{"access denied", service.ErrAccessDenied, fiber.StatusNotFound},
		{"wrapped not found", fmt.Errorf("query: %w", service.ErrDocumentNotFound), fiber.StatusNotFound},
		// Database or storage faults must not masquerade as a missing document
		{"database fault", errors.New("connection refused"), fiber.StatusInternalServerError},
		{"wrapped fault", fmt.Errorf("load document: %w", errors.New("timeout")), fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusForLookupError(tt.err))
		})
	}
}
