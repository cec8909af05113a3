// FILE: internal/controller/respond.go
package controller

import "github.com/gofiber/fiber/v2"

// ok writes the standard success envelope.
func ok(ctx *fiber.Ctx, message string, data interface{}) error {
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    fiber.StatusOK,
		"message": message,
		"data":    data,
	})
}

// fail writes the standard error envelope with the given status.
func fail(ctx *fiber.Ctx, status int, message string) error {
	return ctx.Status(status).JSON(fiber.Map{
		"success": false,
		"code":    status,
		"message": message,
	})
}
