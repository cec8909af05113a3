// FILE: internal/controller/preference_controller.go
package controller

import (
	"learnpulse-be/internal/dto"
	"learnpulse-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IPreferenceController interface {
	RegisterRoutes(r fiber.Router)
}

type preferenceController struct {
	prefService  service.IPreferenceService
	statsService service.IStatsService
}

func NewPreferenceController(prefService service.IPreferenceService, statsService service.IStatsService) IPreferenceController {
	return &preferenceController{
		prefService:  prefService,
		statsService: statsService,
	}
}

func (c *preferenceController) RegisterRoutes(r fiber.Router) {
	prefs := r.Group("/preferences")
	prefs.Get("/", c.GetPreferences)
	prefs.Put("/", c.SavePreferences)
	prefs.Patch("/", c.PatchPreferences)
	prefs.Post("/categories/toggle", c.ToggleCategory)
	prefs.Post("/categories/custom", c.AddCustomCategory)
	prefs.Post("/onboarding/complete", c.CompleteOnboarding)

	stats := r.Group("/stats")
	stats.Get("/", c.GetStats)
	stats.Post("/read", c.RecordRead)

	saved := r.Group("/saved-items")
	saved.Get("/", c.ListSavedItems)
	saved.Post("/", c.SaveItem)
	saved.Delete("/:itemId", c.RemoveSavedItem)
}

func userID(ctx *fiber.Ctx) string {
	uid, _ := ctx.Locals("user_id").(string)
	return uid
}

func (c *preferenceController) GetPreferences(ctx *fiber.Ctx) error {
	res, err := c.prefService.GetPreferences(ctx.Context(), userID(ctx))
	if err != nil {
		return err
	}
	return ok(ctx, "Preferences fetched", res)
}

func (c *preferenceController) SavePreferences(ctx *fiber.Ctx) error {
	var req dto.SavePreferencesRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	res, err := c.prefService.SavePreferences(ctx.Context(), userID(ctx), &req)
	if err != nil {
		return err
	}
	return ok(ctx, "Preferences saved", res)
}

func (c *preferenceController) PatchPreferences(ctx *fiber.Ctx) error {
	var req dto.PatchPreferencesRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	res, err := c.prefService.PatchPreferences(ctx.Context(), userID(ctx), &req)
	if err != nil {
		return err
	}
	return ok(ctx, "Preferences updated", res)
}

func (c *preferenceController) ToggleCategory(ctx *fiber.Ctx) error {
	var req struct {
		Category string `json:"category"`
	}
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	res, err := c.prefService.ToggleCategory(ctx.Context(), userID(ctx), req.Category)
	if err != nil {
		return err
	}
	return ok(ctx, "Category toggled", res)
}

func (c *preferenceController) AddCustomCategory(ctx *fiber.Ctx) error {
	var req dto.CustomCategoryRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	res, err := c.prefService.AddCustomCategory(ctx.Context(), userID(ctx), &req)
	if err != nil {
		return err
	}
	return ok(ctx, "Custom category added", res)
}

func (c *preferenceController) CompleteOnboarding(ctx *fiber.Ctx) error {
	res, err := c.prefService.CompleteOnboarding(ctx.Context(), userID(ctx))
	if err != nil {
		return err
	}
	return ok(ctx, "Onboarding completed", res)
}

func (c *preferenceController) GetStats(ctx *fiber.Ctx) error {
	res, err := c.statsService.GetStats(ctx.Context(), userID(ctx))
	if err != nil {
		return err
	}
	return ok(ctx, "Stats fetched", res)
}

func (c *preferenceController) RecordRead(ctx *fiber.Ctx) error {
	var req dto.RecordReadRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := c.statsService.RecordReadItem(ctx.Context(), userID(ctx), &req); err != nil {
		return err
	}
	return ok(ctx, "Read recorded", nil)
}

func (c *preferenceController) ListSavedItems(ctx *fiber.Ctx) error {
	res, err := c.statsService.ListSavedItems(ctx.Context(), userID(ctx))
	if err != nil {
		return err
	}
	return ok(ctx, "Saved items fetched", res)
}

func (c *preferenceController) SaveItem(ctx *fiber.Ctx) error {
	var req dto.SaveItemRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := c.statsService.SaveItem(ctx.Context(), userID(ctx), &req); err != nil {
		return err
	}
	return ok(ctx, "Item saved", nil)
}

func (c *preferenceController) RemoveSavedItem(ctx *fiber.Ctx) error {
	if err := c.statsService.RemoveSavedItem(ctx.Context(), userID(ctx), ctx.Params("itemId")); err != nil {
		return err
	}
	return ok(ctx, "Item removed", nil)
}
