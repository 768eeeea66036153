package engine

import (
	"errors"

	"github.com/jdudgeon1993/chefs-kiss/internal/models"
)

var (
	ErrAlreadyCooked  = errors.New("meal already cooked")
	ErrRecipeNotFound = errors.New("recipe not found")
	ErrShortStock     = errors.New("insufficient stock for recipe")
)

// ValidateCook checks whether the pantry covers the recipe at the plan's
// multiplier. It never mutates anything; the caller decides whether a
// short pantry blocks cooking or just warns.
func ValidateCook(l *Ledger, plan *models.MealPlanEntry, recipes map[string]*models.Recipe) (*models.CookValidation, error) {
	recipe, ok := recipes[plan.RecipeID]
	if !ok {
		return nil, ErrRecipeNotFound
	}
	missing := MissingIngredients(l, recipe, plan.ServingMultiplier)
	return &models.CookValidation{
		CanCook:    len(missing) == 0,
		RecipeName: recipe.Name,
		Missing:    missing,
	}, nil
}

// CookMeal marks the plan entry cooked and depletes each ingredient from
// the ledger, scaled by the serving multiplier. Cooking is one-shot: a
// plan already marked cooked is rejected so double-submits cannot drain
// the pantry twice. Ingredients the pantry does not track are skipped;
// tracked stock depletes in location list order and clamps at zero.
//
// Unless force is set, a pantry that cannot fully cover the recipe fails
// with ErrShortStock before anything is consumed.
func CookMeal(l *Ledger, plan *models.MealPlanEntry, recipes map[string]*models.Recipe, force bool) error {
	if plan.Cooked {
		return ErrAlreadyCooked
	}
	recipe, ok := recipes[plan.RecipeID]
	if !ok {
		return ErrRecipeNotFound
	}
	mult := plan.ServingMultiplier
	if mult <= 0 {
		mult = 1
	}
	if !force {
		if missing := MissingIngredients(l, recipe, mult); len(missing) > 0 {
			return ErrShortStock
		}
	}
	for _, ing := range recipe.Ingredients {
		item := l.Find(ing.Name, ing.Unit)
		if item == nil {
			continue
		}
		l.Deplete(item, ing.Quantity*mult)
	}
	plan.Cooked = true
	return nil
}
