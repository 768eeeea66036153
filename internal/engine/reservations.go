package engine

import (
	"github.com/jdudgeon1993/chefs-kiss/internal/models"
)

// Reservations maps a pantry key (see Key) to the total quantity claimed
// by planned, uncooked meals on or after today.
type Reservations map[string]float64

// ComputeReservations walks the meal plan and sums ingredient demand.
// Entries in the past, entries already cooked, and entries whose recipe
// is unknown contribute nothing. Each ingredient line is scaled by the
// entry's serving multiplier (0 or negative multipliers count as 1).
func ComputeReservations(plans []*models.MealPlanEntry, recipes map[string]*models.Recipe, today models.Date) Reservations {
	reserved := make(Reservations)
	for _, plan := range plans {
		if plan.Cooked {
			continue
		}
		if plan.Date.Before(today) {
			continue
		}
		recipe, ok := recipes[plan.RecipeID]
		if !ok {
			continue
		}
		mult := plan.ServingMultiplier
		if mult <= 0 {
			mult = 1
		}
		for _, ing := range recipe.Ingredients {
			reserved[Key(ing.Name, ing.Unit)] += ing.Quantity * mult
		}
	}
	return reserved
}

// RecipeIndex builds the id -> recipe lookup that reservation and
// readiness passes share.
func RecipeIndex(recipes []*models.Recipe) map[string]*models.Recipe {
	index := make(map[string]*models.Recipe, len(recipes))
	for _, r := range recipes {
		index[r.ID] = r
	}
	return index
}
