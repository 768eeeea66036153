package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jdudgeon1993/chefs-kiss/internal/middleware"
	"github.com/jdudgeon1993/chefs-kiss/internal/models"
)

// GetSettings returns the household's storage locations, categories and
// emoji map.
func (h *Handler) GetSettings(c *fiber.Ctx) error {
	settings, err := h.db.GetSettings(c.Context(), middleware.GetHouseholdID(c))
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to load settings")
	}
	return Success(c, settings)
}

// UpdateSettings replaces the household's option sets. Removing a location
// or category does not touch existing items that reference it; they just
// stop validating on their next edit.
func (h *Handler) UpdateSettings(c *fiber.Ctx) error {
	var req models.HouseholdSettings
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if len(req.Locations) == 0 {
		return Error(c, fiber.StatusBadRequest, "at least one storage location is required")
	}
	if len(req.Categories) == 0 {
		return Error(c, fiber.StatusBadRequest, "at least one category is required")
	}
	if req.CategoryEmojis == nil {
		req.CategoryEmojis = map[string]string{}
	}

	settings, err := h.db.SaveSettings(c.Context(), middleware.GetHouseholdID(c), &req)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to save settings")
	}

	// Option sets feed pantry forms; let clients refresh them.
	h.notify(c, models.ResourcePantry, "UPDATE")
	return Success(c, settings)
}
