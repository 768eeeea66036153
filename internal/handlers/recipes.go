package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jdudgeon1993/chefs-kiss/internal/database"
	"github.com/jdudgeon1993/chefs-kiss/internal/engine"
	"github.com/jdudgeon1993/chefs-kiss/internal/middleware"
	"github.com/jdudgeon1993/chefs-kiss/internal/models"
)

// recipeView decorates a recipe with both readiness flavors: is_ready is
// raw on-hand coverage, is_ready_after_plan accounts for what planned
// meals have already claimed.
type recipeView struct {
	*models.Recipe
	IsReady          bool `json:"is_ready"`
	IsReadyAfterPlan bool `json:"is_ready_after_plan"`
}

// ListRecipes returns the household's recipes with readiness
func (h *Handler) ListRecipes(c *fiber.Ctx) error {
	bundle, err := h.loadState(c)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to load recipes")
	}
	derived := bundle.state().Recalculate()
	readyAfter := make(map[string]bool, len(derived.ReadyIDs))
	for _, id := range derived.ReadyIDs {
		readyAfter[id] = true
	}

	ledger := engine.NewLedger(bundle.Items)
	views := make([]recipeView, 0, len(bundle.Recipes))
	for _, r := range bundle.Recipes {
		views = append(views, recipeView{
			Recipe:           r,
			IsReady:          engine.IsReady(ledger, r),
			IsReadyAfterPlan: readyAfter[r.ID],
		})
	}
	return Success(c, views)
}

// GetRecipe returns one recipe
func (h *Handler) GetRecipe(c *fiber.Ctx) error {
	recipe, err := h.db.GetRecipe(c.Context(), c.Params("id"), middleware.GetHouseholdID(c))
	if err != nil {
		if errors.Is(err, database.ErrRecipeNotFound) {
			return Error(c, fiber.StatusNotFound, "recipe not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to load recipe")
	}
	return Success(c, recipe)
}

// GetScaledRecipe returns a recipe with ingredient quantities multiplied,
// without touching the stored definition.
func (h *Handler) GetScaledRecipe(c *fiber.Ctx) error {
	multiplier, err := strconv.ParseFloat(c.Query("multiplier", "1"), 64)
	if err != nil || multiplier <= 0 {
		return Error(c, fiber.StatusBadRequest, "multiplier must be a positive number")
	}

	recipe, err := h.db.GetRecipe(c.Context(), c.Params("id"), middleware.GetHouseholdID(c))
	if err != nil {
		if errors.Is(err, database.ErrRecipeNotFound) {
			return Error(c, fiber.StatusNotFound, "recipe not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to load recipe")
	}
	return Success(c, recipe.Scaled(multiplier))
}

// CreateRecipe adds a recipe
func (h *Handler) CreateRecipe(c *fiber.Ctx) error {
	var req models.CreateRecipeRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := validateRecipeRequest(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, err.Error())
	}

	recipe, err := h.db.CreateRecipe(c.Context(), middleware.GetHouseholdID(c), &req)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to create recipe")
	}

	h.notify(c, models.ResourceRecipes, "INSERT")
	return c.Status(fiber.StatusCreated).JSON(APIResponse{Success: true, Data: recipe})
}

// UpdateRecipe replaces a recipe's definition
func (h *Handler) UpdateRecipe(c *fiber.Ctx) error {
	var req models.CreateRecipeRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := validateRecipeRequest(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, err.Error())
	}

	recipe, err := h.db.UpdateRecipe(c.Context(), c.Params("id"), middleware.GetHouseholdID(c), &req)
	if err != nil {
		if errors.Is(err, database.ErrRecipeNotFound) {
			return Error(c, fiber.StatusNotFound, "recipe not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to update recipe")
	}

	h.notify(c, models.ResourceRecipes, "UPDATE")
	return Success(c, recipe)
}

// DeleteRecipe removes a recipe. Planned meals referencing it are removed
// with it, so the meal class changed too.
func (h *Handler) DeleteRecipe(c *fiber.Ctx) error {
	err := h.db.DeleteRecipe(c.Context(), c.Params("id"), middleware.GetHouseholdID(c))
	if err != nil {
		if errors.Is(err, database.ErrRecipeNotFound) {
			return Error(c, fiber.StatusNotFound, "recipe not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to delete recipe")
	}

	h.notify(c, models.ResourceRecipes, "DELETE")
	h.notify(c, models.ResourceMeals, "DELETE")
	return Success(c, fiber.Map{"deleted": true})
}

// UploadRecipePhoto accepts a multipart photo, stores it, and records a
// presigned URL on the recipe.
func (h *Handler) UploadRecipePhoto(c *fiber.Ctx) error {
	if h.storage == nil {
		return Error(c, fiber.StatusServiceUnavailable, "photo storage is not configured")
	}

	householdID := middleware.GetHouseholdID(c)
	recipeID := c.Params("id")
	if _, err := h.db.GetRecipe(c.Context(), recipeID, householdID); err != nil {
		if errors.Is(err, database.ErrRecipeNotFound) {
			return Error(c, fiber.StatusNotFound, "recipe not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to load recipe")
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "photo file is required")
	}
	if fileHeader.Size > 10*1024*1024 {
		return Error(c, fiber.StatusBadRequest, "photo must be under 10MB")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to read photo")
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	result, err := h.storage.UploadRecipePhoto(c.Context(), recipeID, file, fileHeader.Size, contentType)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to store photo")
	}

	url, err := h.storage.GetPresignedURL(c.Context(), result.Key, 7*24*time.Hour)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to generate photo URL")
	}
	if err := h.db.SetRecipePhotoURL(c.Context(), recipeID, householdID, url); err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to save photo URL")
	}

	h.notify(c, models.ResourceRecipes, "UPDATE")
	return Success(c, fiber.Map{"photo_url": url})
}

func validateRecipeRequest(req *models.CreateRecipeRequest) error {
	if req.Name == "" {
		return errors.New("name is required")
	}
	if len(req.Ingredients) == 0 {
		return errors.New("at least one ingredient is required")
	}
	for _, ing := range req.Ingredients {
		if ing.Name == "" {
			return errors.New("every ingredient needs a name")
		}
		if ing.Quantity <= 0 {
			return errors.New("ingredient quantities must be positive")
		}
	}
	if req.Servings <= 0 {
		req.Servings = 4
	}
	return nil
}
