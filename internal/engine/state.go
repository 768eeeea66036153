package engine

import (
	"sort"
	"strings"

	"github.com/jdudgeon1993/chefs-kiss/internal/models"
)

// State holds one household's full working set. Derived values
// (reservations, readiness, the shopping list) are recomputed from it on
// every change rather than maintained incrementally.
type State struct {
	Ledger  *Ledger
	Recipes []*models.Recipe
	Plans   []*models.MealPlanEntry
	Manual  []*models.ShoppingEntry
	Today   models.Date
}

// Derived is the recomputed view layered over State.
type Derived struct {
	Reserved     Reservations            `json:"-"`
	ShoppingList []*models.ShoppingEntry `json:"shopping_list"`
	ReadyIDs     []string                `json:"ready_recipe_ids"`
	ReadyCount   int                     `json:"ready_count"`
}

// NewState builds a State for the given working set. Today defaults to the
// current calendar day when zero.
func NewState(items []*models.PantryItem, recipes []*models.Recipe, plans []*models.MealPlanEntry, manual []*models.ShoppingEntry, today models.Date) *State {
	if today.IsZero() {
		today = models.Today()
	}
	return &State{
		Ledger:  NewLedger(items),
		Recipes: recipes,
		Plans:   plans,
		Manual:  manual,
		Today:   today,
	}
}

// Recalculate recomputes every derived value from scratch. Running it
// twice on unchanged state yields identical results.
func (s *State) Recalculate() *Derived {
	index := RecipeIndex(s.Recipes)
	reserved := ComputeReservations(s.Plans, index, s.Today)
	return &Derived{
		Reserved:     reserved,
		ShoppingList: GenerateShoppingList(s.Ledger, reserved, s.Manual, nil),
		ReadyIDs:     ReadyRecipeIDs(s.Ledger, s.Recipes, reserved),
		ReadyCount:   ReadyCount(s.Ledger, s.Recipes),
	}
}

// ExpiringSoon lists every pantry location whose expiration falls within
// the window, already-expired ones included, soonest first.
func (s *State) ExpiringSoon(withinDays int) []models.ExpiringLocation {
	var out []models.ExpiringLocation
	for _, item := range s.Ledger.Items() {
		for _, loc := range item.Locations {
			if loc.Expiry == nil {
				continue
			}
			days := s.Today.DaysUntil(*loc.Expiry)
			if days > withinDays {
				continue
			}
			out = append(out, models.ExpiringLocation{
				ItemID:        item.ID,
				ItemName:      item.Name,
				Place:         loc.Place,
				Quantity:      loc.Quantity,
				Unit:          item.Unit,
				ExpiresOn:     *loc.Expiry,
				ExpiresInDays: days,
				IsExpired:     days < 0,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ExpiresInDays < out[j].ExpiresInDays
	})
	return out
}

// healthExpiryDays is the expiring window health scoring counts against,
// tighter than the expiring-soon report's default.
const healthExpiryDays = 3

// Health scores the pantry: start from 100, subtract 10 per item below
// its threshold and 5 per location expiring within three days, floor at 0.
func (s *State) Health() models.PantryHealth {
	below := 0
	for _, item := range s.Ledger.Items() {
		if item.MinThreshold > 0 && item.TotalQuantity() < item.MinThreshold {
			below++
		}
	}
	expiring := len(s.ExpiringSoon(healthExpiryDays))
	score := 100 - 10*below - 5*expiring
	if score < 0 {
		score = 0
	}
	status := "poor"
	switch {
	case score >= 80:
		status = "excellent"
	case score >= 60:
		status = "good"
	case score >= 40:
		status = "fair"
	}
	return models.PantryHealth{
		TotalItems:     len(s.Ledger.Items()),
		BelowThreshold: below,
		ExpiringSoon:   expiring,
		HealthScore:    score,
		Status:         status,
	}
}

// SuggestForExpiring pairs each location expiring within the window with
// the recipes that use that ingredient, flagging which are cookable from
// current stock. Already-expired stock is still suggested for rescue.
// Items no recipe uses are omitted.
func (s *State) SuggestForExpiring(withinDays int) []models.RecipeSuggestion {
	var out []models.RecipeSuggestion
	seen := make(map[string]bool)
	for _, exp := range s.ExpiringSoon(withinDays) {
		nameKey := strings.ToLower(exp.ItemName)
		if seen[nameKey] {
			continue
		}
		seen[nameKey] = true
		var matches []models.SuggestedRecipe
		for _, recipe := range s.Recipes {
			uses := false
			for _, ing := range recipe.Ingredients {
				if strings.EqualFold(strings.TrimSpace(ing.Name), strings.TrimSpace(exp.ItemName)) {
					uses = true
					break
				}
			}
			if uses {
				matches = append(matches, models.SuggestedRecipe{
					ID:          recipe.ID,
					Name:        recipe.Name,
					Tags:        recipe.Tags,
					ReadyToCook: IsReady(s.Ledger, recipe),
				})
			}
		}
		if len(matches) == 0 {
			continue
		}
		out = append(out, models.RecipeSuggestion{
			ExpiringItem:  exp.ItemName,
			ExpiresInDays: exp.ExpiresInDays,
			Quantity:      exp.Quantity,
			Unit:          exp.Unit,
			Recipes:       matches,
		})
	}
	return out
}
