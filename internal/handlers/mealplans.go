package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jdudgeon1993/chefs-kiss/internal/database"
	"github.com/jdudgeon1993/chefs-kiss/internal/engine"
	"github.com/jdudgeon1993/chefs-kiss/internal/middleware"
	"github.com/jdudgeon1993/chefs-kiss/internal/models"
)

// ListMealPlans returns planned meals, optionally windowed by ?from and
// ?to dates.
func (h *Handler) ListMealPlans(c *fiber.Ctx) error {
	var from, to *models.Date
	if s := c.Query("from"); s != "" {
		d, err := models.ParseDate(s)
		if err != nil {
			return Error(c, fiber.StatusBadRequest, "invalid from date")
		}
		from = &d
	}
	if s := c.Query("to"); s != "" {
		d, err := models.ParseDate(s)
		if err != nil {
			return Error(c, fiber.StatusBadRequest, "invalid to date")
		}
		to = &d
	}

	plans, err := h.db.ListMealPlans(c.Context(), middleware.GetHouseholdID(c), from, to)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to load meal plans")
	}
	if plans == nil {
		plans = []*models.MealPlanEntry{}
	}
	return Success(c, plans)
}

// CreateMealPlan schedules a recipe
func (h *Handler) CreateMealPlan(c *fiber.Ctx) error {
	var req models.CreateMealPlanRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if req.RecipeID == "" {
		return Error(c, fiber.StatusBadRequest, "recipe_id is required")
	}
	if req.Date.IsZero() {
		return Error(c, fiber.StatusBadRequest, "date is required")
	}

	householdID := middleware.GetHouseholdID(c)
	if _, err := h.db.GetRecipe(c.Context(), req.RecipeID, householdID); err != nil {
		if errors.Is(err, database.ErrRecipeNotFound) {
			return Error(c, fiber.StatusBadRequest, "recipe does not exist")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to verify recipe")
	}

	plan, err := h.db.CreateMealPlan(c.Context(), householdID, &req)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to create meal plan")
	}

	// A new planned meal changes reservations, which changes the derived
	// shopping list too.
	h.notify(c, models.ResourceMeals, "INSERT")
	h.notify(c, models.ResourceShopping, "UPDATE")
	return c.Status(fiber.StatusCreated).JSON(APIResponse{Success: true, Data: plan})
}

// UpdateMealPlan reschedules or edits an entry
func (h *Handler) UpdateMealPlan(c *fiber.Ctx) error {
	var req models.UpdateMealPlanRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	plan, err := h.db.UpdateMealPlan(c.Context(), c.Params("id"), middleware.GetHouseholdID(c), &req)
	if err != nil {
		if errors.Is(err, database.ErrMealPlanNotFound) {
			return Error(c, fiber.StatusNotFound, "meal plan entry not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to update meal plan")
	}

	h.notify(c, models.ResourceMeals, "UPDATE")
	h.notify(c, models.ResourceShopping, "UPDATE")
	return Success(c, plan)
}

// DeleteMealPlan removes an entry
func (h *Handler) DeleteMealPlan(c *fiber.Ctx) error {
	err := h.db.DeleteMealPlan(c.Context(), c.Params("id"), middleware.GetHouseholdID(c))
	if err != nil {
		if errors.Is(err, database.ErrMealPlanNotFound) {
			return Error(c, fiber.StatusNotFound, "meal plan entry not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to delete meal plan")
	}

	h.notify(c, models.ResourceMeals, "DELETE")
	h.notify(c, models.ResourceShopping, "UPDATE")
	return Success(c, fiber.Map{"deleted": true})
}

// ValidateCook previews whether a planned meal can be cooked from current
// stock, without changing anything.
func (h *Handler) ValidateCook(c *fiber.Ctx) error {
	householdID := middleware.GetHouseholdID(c)
	plan, err := h.db.GetMealPlan(c.Context(), c.Params("id"), householdID)
	if err != nil {
		if errors.Is(err, database.ErrMealPlanNotFound) {
			return Error(c, fiber.StatusNotFound, "meal plan entry not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to load meal plan")
	}

	bundle, err := h.loadState(c)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to load pantry")
	}

	validation, err := engine.ValidateCook(engine.NewLedger(bundle.Items), plan, engine.RecipeIndex(bundle.Recipes))
	if err != nil {
		return Error(c, fiber.StatusConflict, "the planned recipe no longer exists")
	}
	return Success(c, validation)
}

type cookRequest struct {
	// Force cooks through a shortfall, clamping stock at zero.
	Force bool `json:"force"`
}

// CookMealPlan marks the entry cooked and depletes ingredients from the
// pantry in one transaction. Cooking is one-shot; a second submit gets a
// conflict instead of draining the pantry again.
func (h *Handler) CookMealPlan(c *fiber.Ctx) error {
	var req cookRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return Error(c, fiber.StatusBadRequest, "invalid request body")
		}
	}

	householdID := middleware.GetHouseholdID(c)
	plan, err := h.db.GetMealPlan(c.Context(), c.Params("id"), householdID)
	if err != nil {
		if errors.Is(err, database.ErrMealPlanNotFound) {
			return Error(c, fiber.StatusNotFound, "meal plan entry not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to load meal plan")
	}

	bundle, err := h.loadState(c)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to load pantry")
	}

	ledger := engine.NewLedger(bundle.Items)
	err = engine.CookMeal(ledger, plan, engine.RecipeIndex(bundle.Recipes), req.Force)
	switch {
	case errors.Is(err, engine.ErrAlreadyCooked):
		return Error(c, fiber.StatusConflict, "meal already cooked")
	case errors.Is(err, engine.ErrRecipeNotFound):
		return Error(c, fiber.StatusConflict, "the planned recipe no longer exists")
	case errors.Is(err, engine.ErrShortStock):
		validation, verr := engine.ValidateCook(ledger, plan, engine.RecipeIndex(bundle.Recipes))
		if verr != nil {
			return Error(c, fiber.StatusConflict, "insufficient stock")
		}
		return c.Status(fiber.StatusConflict).JSON(APIResponse{Success: false, Error: "insufficient stock", Data: validation})
	case err != nil:
		return Error(c, fiber.StatusInternalServerError, "failed to cook meal")
	}

	if err := h.db.CookMealPlan(c.Context(), plan.ID, householdID, ledger.Items()); err != nil {
		if errors.Is(err, database.ErrAlreadyCooked) {
			return Error(c, fiber.StatusConflict, "meal already cooked")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to save cooked meal")
	}

	h.notify(c, models.ResourceMeals, "UPDATE")
	h.notify(c, models.ResourcePantry, "UPDATE")
	h.notify(c, models.ResourceShopping, "UPDATE")
	return Success(c, fiber.Map{
		"cooked": true,
		"plan":   plan,
	})
}
