package serverutils

import (
	"errors"

	"parent-assistant-be/pkg/rag/level"
	"parent-assistant-be/pkg/rag/session"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware turns errors returned by handlers into the JSON
// envelope with a matching status code.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}
		status, body := MapError(err)
		return ctx.Status(status).JSON(body)
	}
}

// MapError picks the HTTP status and envelope for err.
func MapError(err error) (int, Response) {
	var (
		fiberErr *fiber.Error
		valErr   *ValidationError
	)
	switch {
	case errors.As(err, &valErr):
		return fiber.StatusBadRequest, ErrorResponse("Validation failed", valErr.Fields)
	case errors.Is(err, session.ErrNotFound):
		return fiber.StatusNotFound, ErrorResponse(err.Error(), nil)
	case errors.Is(err, session.ErrOnboarding):
		return fiber.StatusConflict, ErrorResponse(err.Error(), nil)
	case errors.Is(err, session.ErrEmptyQuery), errors.Is(err, level.ErrInvalidLevel):
		return fiber.StatusBadRequest, ErrorResponse(err.Error(), nil)
	case errors.As(err, &fiberErr):
		return fiberErr.Code, ErrorResponse(fiberErr.Message, nil)
	default:
		return fiber.StatusInternalServerError, ErrorResponse("Internal server error", nil)
	}
}
