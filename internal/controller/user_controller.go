// FILE: internal/controller/user_controller.go
package controller

import (
	"learnpulse-be/internal/dto"
	"learnpulse-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IUserController interface {
	RegisterRoutes(r fiber.Router)
}

type userController struct {
	service service.IUserService
}

func NewUserController(service service.IUserService) IUserController {
	return &userController{service: service}
}

func (c *userController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/users")
	h.Get("/me", c.GetProfile)
	h.Put("/me", c.UpdateProfile)
	h.Delete("/me", c.DeleteAccount)
}

func currentUserID(ctx *fiber.Ctx) (uuid.UUID, error) {
	uidStr, ok := ctx.Locals("user_id").(string)
	if !ok {
		return uuid.Nil, fiber.ErrUnauthorized
	}
	return uuid.Parse(uidStr)
}

func (c *userController) GetProfile(ctx *fiber.Ctx) error {
	userId, err := currentUserID(ctx)
	if err != nil {
		return fail(ctx, fiber.StatusUnauthorized, "Unauthorized")
	}

	res, err := c.service.GetProfile(ctx.Context(), userId)
	if err != nil {
		return fail(ctx, fiber.StatusNotFound, err.Error())
	}
	return ok(ctx, "Profile fetched", res)
}

func (c *userController) UpdateProfile(ctx *fiber.Ctx) error {
	userId, err := currentUserID(ctx)
	if err != nil {
		return fail(ctx, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req dto.UpdateProfileRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := c.service.UpdateProfile(ctx.Context(), userId, &req); err != nil {
		return fail(ctx, fiber.StatusBadRequest, err.Error())
	}
	return ok(ctx, "Profile updated", nil)
}

func (c *userController) DeleteAccount(ctx *fiber.Ctx) error {
	userId, err := currentUserID(ctx)
	if err != nil {
		return fail(ctx, fiber.StatusUnauthorized, "Unauthorized")
	}

	if err := c.service.DeleteAccount(ctx.Context(), userId); err != nil {
		return fail(ctx, fiber.StatusInternalServerError, err.Error())
	}
	return ok(ctx, "Account deleted", nil)
}
