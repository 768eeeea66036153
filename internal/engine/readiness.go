package engine

import (
	"github.com/jdudgeon1993/chefs-kiss/internal/models"
)

// IsReady reports whether every ingredient of the recipe is physically on
// hand right now, ignoring reservations. This is the "could I cook it
// this minute" view shown on recipe cards.
func IsReady(l *Ledger, recipe *models.Recipe) bool {
	for _, ing := range recipe.Ingredients {
		if l.OnHand(ing.Name, ing.Unit) < ing.Quantity {
			return false
		}
	}
	return true
}

// MissingIngredients lists each ingredient the pantry cannot cover at the
// given multiplier, with the shortfall amount. Empty result means the
// recipe can be cooked.
func MissingIngredients(l *Ledger, recipe *models.Recipe, multiplier float64) []models.MissingIngredient {
	if multiplier <= 0 {
		multiplier = 1
	}
	var missing []models.MissingIngredient
	for _, ing := range recipe.Ingredients {
		needed := ing.Quantity * multiplier
		have := l.OnHand(ing.Name, ing.Unit)
		if have < needed {
			missing = append(missing, models.MissingIngredient{
				Ingredient: ing.Name,
				Unit:       ing.Unit,
				Needed:     round2(needed),
				Available:  round2(have),
				Short:      round2(needed - have),
			})
		}
	}
	return missing
}

// ReadyRecipeIDs returns the ids of recipes whose ingredients are covered
// by unreserved stock, i.e. on-hand minus reservations. A recipe already
// claimed in full by the meal plan does not count as ready again.
func ReadyRecipeIDs(l *Ledger, recipes []*models.Recipe, reserved Reservations) []string {
	var ready []string
	for _, recipe := range recipes {
		ok := true
		for _, ing := range recipe.Ingredients {
			item := l.Find(ing.Name, ing.Unit)
			if item == nil || Available(item, reserved) < ing.Quantity {
				ok = false
				break
			}
		}
		if ok {
			ready = append(ready, recipe.ID)
		}
	}
	return ready
}

// ReadyCount is the dashboard counter over the raw on-hand view.
func ReadyCount(l *Ledger, recipes []*models.Recipe) int {
	n := 0
	for _, r := range recipes {
		if IsReady(l, r) {
			n++
		}
	}
	return n
}
