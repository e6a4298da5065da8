package server

import (
	"errors"

	"freight-relay/core/apperr"

	"github.com/gofiber/fiber/v2"
)

// StatusFor maps an error to its HTTP status.
func StatusFor(err error) int {
	switch {
	case apperr.IsValidation(err):
		return fiber.StatusBadRequest
	case errors.Is(err, apperr.ErrNotFound):
		return fiber.StatusNotFound
	case apperr.IsUpstream(err):
		return fiber.StatusBadGateway
	case apperr.IsPersistence(err):
		return fiber.StatusInternalServerError
	default:
		return fiber.StatusInternalServerError
	}
}

// RespondError writes err as {"error": "..."} with the mapped status.
func RespondError(c *fiber.Ctx, err error) error {
	return c.Status(StatusFor(err)).JSON(fiber.Map{"error": err.Error()})
}
