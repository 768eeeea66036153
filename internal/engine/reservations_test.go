package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jdudgeon1993/chefs-kiss/internal/models"
)

var testToday = models.NewDate(2026, time.March, 10)

func recipe(id, name string, ings ...models.IngredientLine) *models.Recipe {
	return &models.Recipe{ID: id, Name: name, Servings: 4, Ingredients: ings}
}

func ing(name string, qty float64, unit string) models.IngredientLine {
	return models.IngredientLine{Name: name, Quantity: qty, Unit: unit}
}

func plan(recipeID string, date models.Date, mult float64, cooked bool) *models.MealPlanEntry {
	return &models.MealPlanEntry{
		ID:                "plan-" + recipeID + "-" + date.String(),
		RecipeID:          recipeID,
		Date:              date,
		MealType:          "dinner",
		ServingMultiplier: mult,
		Cooked:            cooked,
	}
}

func TestReservationsSumFutureUncookedMeals(t *testing.T) {
	recipes := RecipeIndex([]*models.Recipe{
		recipe("r1", "Pancakes", ing("flour", 2, "cups"), ing("milk", 1, "cups")),
		recipe("r2", "Bread", ing("flour", 3, "cups")),
	})
	plans := []*models.MealPlanEntry{
		plan("r1", testToday, 1, false),
		plan("r2", testToday.AddDays(2), 1, false),
	}

	reserved := ComputeReservations(plans, recipes, testToday)

	assert.Equal(t, 5.0, reserved[Key("flour", "cups")])
	assert.Equal(t, 1.0, reserved[Key("milk", "cups")])
}

func TestReservationsExcludePastAndCooked(t *testing.T) {
	recipes := RecipeIndex([]*models.Recipe{
		recipe("r1", "Pancakes", ing("flour", 2, "cups")),
	})
	plans := []*models.MealPlanEntry{
		plan("r1", testToday.AddDays(-1), 1, false), // yesterday
		plan("r1", testToday.AddDays(1), 1, true),   // already cooked
	}

	reserved := ComputeReservations(plans, recipes, testToday)

	assert.Empty(t, reserved)
}

func TestReservationsScaleByMultiplier(t *testing.T) {
	recipes := RecipeIndex([]*models.Recipe{
		recipe("r1", "Pancakes", ing("flour", 2, "cups")),
	})
	plans := []*models.MealPlanEntry{
		plan("r1", testToday, 1.5, false),
		plan("r1", testToday.AddDays(1), 0, false), // zero multiplier counts as 1
	}

	reserved := ComputeReservations(plans, recipes, testToday)

	assert.Equal(t, 5.0, reserved[Key("flour", "cups")])
}

func TestReservationsSkipUnknownRecipes(t *testing.T) {
	plans := []*models.MealPlanEntry{
		plan("gone", testToday, 1, false),
	}

	reserved := ComputeReservations(plans, RecipeIndex(nil), testToday)

	assert.Empty(t, reserved, "dangling recipe references contribute nothing")
}

func TestIsReadyRequiresEveryIngredientOnHand(t *testing.T) {
	l := NewLedger([]*models.PantryItem{
		item("Flour", "cups", 0, loc("Pantry", 5)),
		item("Milk", "cups", 0, loc("Fridge", 0.5)),
	})
	pancakes := recipe("r1", "Pancakes", ing("flour", 2, "cups"), ing("milk", 1, "cups"))
	bread := recipe("r2", "Bread", ing("flour", 3, "cups"))
	omelette := recipe("r3", "Omelette", ing("eggs", 2, "count"))

	assert.False(t, IsReady(l, pancakes), "milk short")
	assert.True(t, IsReady(l, bread))
	assert.False(t, IsReady(l, omelette), "untracked ingredient means not ready")
	assert.Equal(t, 1, ReadyCount(l, []*models.Recipe{pancakes, bread, omelette}))
}

func TestReadyRecipeIDsAccountForReservations(t *testing.T) {
	l := NewLedger([]*models.PantryItem{
		item("Flour", "cups", 0, loc("Pantry", 3)),
	})
	bread := recipe("r2", "Bread", ing("flour", 3, "cups"))
	recipes := []*models.Recipe{bread}

	assert.Equal(t, []string{"r2"}, ReadyRecipeIDs(l, recipes, Reservations{}))

	// A planned meal claims all the flour, so bread is no longer cookable
	// without shopping even though stock physically covers it.
	reserved := Reservations{Key("flour", "cups"): 3}
	assert.Empty(t, ReadyRecipeIDs(l, recipes, reserved))
	assert.True(t, IsReady(l, bread), "raw readiness ignores reservations")
}

func TestMissingIngredientsReportsShortfall(t *testing.T) {
	l := NewLedger([]*models.PantryItem{
		item("Flour", "cups", 0, loc("Pantry", 1)),
	})
	pancakes := recipe("r1", "Pancakes", ing("flour", 2, "cups"), ing("milk", 1, "cups"))

	missing := MissingIngredients(l, pancakes, 2)

	assert.Len(t, missing, 2)
	assert.Equal(t, models.MissingIngredient{
		Ingredient: "flour", Unit: "cups", Needed: 4, Available: 1, Short: 3,
	}, missing[0])
	assert.Equal(t, 2.0, missing[1].Needed, "untracked milk is fully short")
	assert.Equal(t, 0.0, missing[1].Available)
}
