package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jdudgeon1993/chefs-kiss/internal/models"
)

// ExpiringSoon lists pantry locations expiring within ?days (default from
// config), expired ones included and sorted soonest first.
func (h *Handler) ExpiringSoon(c *fiber.Ctx) error {
	days := h.cfg.ExpiryWindowDays
	if s := c.Query("days"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return Error(c, fiber.StatusBadRequest, "days must be a non-negative integer")
		}
		days = n
	}

	bundle, err := h.loadState(c)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to load pantry")
	}

	out := bundle.state().ExpiringSoon(days)
	if out == nil {
		out = []models.ExpiringLocation{}
	}
	return Success(c, out)
}

// PantryHealth returns the coarse stock-health score
func (h *Handler) PantryHealth(c *fiber.Ctx) error {
	bundle, err := h.loadState(c)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to load pantry")
	}
	return Success(c, bundle.state().Health())
}

// RecipeSuggestions pairs soon-to-expire items with recipes that would
// use them up.
func (h *Handler) RecipeSuggestions(c *fiber.Ctx) error {
	days := h.cfg.ExpiryWindowDays
	if s := c.Query("days"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return Error(c, fiber.StatusBadRequest, "days must be a non-negative integer")
		}
		days = n
	}

	bundle, err := h.loadState(c)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to load pantry")
	}

	out := bundle.state().SuggestForExpiring(days)
	if out == nil {
		out = []models.RecipeSuggestion{}
	}
	return Success(c, out)
}

// Dashboard returns the landing-page counters in one round trip.
func (h *Handler) Dashboard(c *fiber.Ctx) error {
	bundle, err := h.loadState(c)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to load dashboard")
	}

	state := bundle.state()
	derived := state.Recalculate()
	health := state.Health()

	uncooked := 0
	for _, p := range bundle.Plans {
		if !p.Cooked && !p.Date.Before(state.Today) {
			uncooked++
		}
	}

	return Success(c, fiber.Map{
		"pantry_items":     len(bundle.Items),
		"recipes":          len(bundle.Recipes),
		"ready_recipes":    derived.ReadyCount,
		"upcoming_meals":   uncooked,
		"shopping_items":   len(derived.ShoppingList),
		"below_threshold":  health.BelowThreshold,
		"expiring_soon":    health.ExpiringSoon,
		"health_score":     health.HealthScore,
		"health_status":    health.Status,
		"ready_recipe_ids": derived.ReadyIDs,
	})
}
