package serverutils

import (
	"learnpulse-be/pkg/prefstore"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware converts errors escaping handlers into JSON
// responses, mapping the preference store taxonomy onto HTTP statuses.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		status := fiber.StatusInternalServerError
		switch {
		case prefstore.IsValidation(err):
			status = fiber.StatusBadRequest
		case prefstore.IsNotFound(err):
			status = fiber.StatusNotFound
		case prefstore.IsPermission(err):
			status = fiber.StatusForbidden
		case prefstore.IsTransient(err):
			status = fiber.StatusServiceUnavailable
		default:
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}

		return ctx.Status(status).JSON(fiber.Map{
			"success": false,
			"code":    status,
			"message": err.Error(),
		})
	}
}
