package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdudgeon1993/chefs-kiss/internal/models"
)

func findEntry(list []*models.ShoppingEntry, name, unit string) *models.ShoppingEntry {
	for _, e := range list {
		if e.Name == name && e.Unit == unit {
			return e
		}
	}
	return nil
}

func TestShoppingListMealShortfall(t *testing.T) {
	// Flour 2 cups on hand, Bread planned needing 3 cups, no threshold:
	// the list asks for exactly the 1-cup gap, attributed to meals.
	flour := item("Flour", "cups", 0, loc("Pantry", 2))
	l := NewLedger([]*models.PantryItem{flour})
	reserved := Reservations{Key("flour", "cups"): 3}

	list := GenerateShoppingList(l, reserved, nil, nil)

	require.Len(t, list, 1)
	entry := list[0]
	assert.Equal(t, "Flour", entry.Name)
	assert.Equal(t, 1.0, entry.Quantity)
	assert.Equal(t, models.SourceMeals, entry.Source)
	require.NotNil(t, entry.Breakdown)
	assert.Equal(t, 1.0, entry.Breakdown.Meals)
	assert.Equal(t, 0.0, entry.Breakdown.Threshold)
	assert.False(t, entry.Manual())
}

func TestShoppingListThresholdGap(t *testing.T) {
	// 1 cup on hand against a minimum of 3, nothing planned.
	rice := item("Rice", "cups", 3, loc("Pantry", 1))
	l := NewLedger([]*models.PantryItem{rice})

	list := GenerateShoppingList(l, Reservations{}, nil, nil)

	require.Len(t, list, 1)
	assert.Equal(t, 2.0, list[0].Quantity)
	assert.Equal(t, models.SourceThreshold, list[0].Source)
}

func TestShoppingListMergesMealsAndThreshold(t *testing.T) {
	// 2 on hand, min 2, 3 reserved: meals shortfall 1, and since planned
	// meals leave nothing, the threshold wants its full 2 back.
	flour := item("Flour", "cups", 2, loc("Pantry", 2))
	l := NewLedger([]*models.PantryItem{flour})
	reserved := Reservations{Key("flour", "cups"): 3}

	list := GenerateShoppingList(l, reserved, nil, nil)

	require.Len(t, list, 1)
	entry := list[0]
	assert.Equal(t, models.SourceMealsThreshold, entry.Source)
	assert.Equal(t, 3.0, entry.Quantity)
	assert.Equal(t, 1.0, entry.Breakdown.Meals)
	assert.Equal(t, 2.0, entry.Breakdown.Threshold)
}

func TestShoppingListUntrackedIngredientIsPureShortfall(t *testing.T) {
	l := NewLedger(nil)
	reserved := Reservations{Key("saffron", "g"): 0.5}

	list := GenerateShoppingList(l, reserved, nil, func(string) string { return "Spices & Seasonings" })

	require.Len(t, list, 1)
	assert.Equal(t, "Saffron", list[0].Name, "derived names are title-cased")
	assert.Equal(t, 0.5, list[0].Quantity)
	assert.Equal(t, "Spices & Seasonings", list[0].Category)
}

func TestShoppingListIncludesManualAndSorts(t *testing.T) {
	l := NewLedger([]*models.PantryItem{
		item("Rice", "cups", 3, loc("Pantry", 1)), // category Pantry Staples
	})
	manual := []*models.ShoppingEntry{{
		ID: "m1", Name: "Paper Towels", Unit: "rolls", Category: "Household",
		Quantity: 2, Source: models.SourceManual,
	}}

	list := GenerateShoppingList(l, Reservations{}, manual, nil)

	require.Len(t, list, 2)
	assert.Equal(t, "Paper Towels", list[0].Name, "sorted by category, Household < Pantry Staples")
	assert.Equal(t, "Rice", list[1].Name)
	assert.True(t, list[0].Manual())
	assert.Equal(t, "m1", list[0].Key())
	assert.Equal(t, "Rice|cups", list[1].Key())
}

func TestShoppingListIsIdempotent(t *testing.T) {
	l := NewLedger([]*models.PantryItem{
		item("Flour", "cups", 2, loc("Pantry", 1)),
		item("Milk", "cups", 0, loc("Fridge", 0.5)),
	})
	reserved := Reservations{
		Key("flour", "cups"): 3,
		Key("milk", "cups"):  2,
	}

	first := GenerateShoppingList(l, reserved, nil, nil)
	second := GenerateShoppingList(l, reserved, nil, nil)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, *first[i], *second[i])
	}
}

func TestShoppingListRoundsQuantities(t *testing.T) {
	l := NewLedger([]*models.PantryItem{
		item("Milk", "cups", 0, loc("Fridge", 1)),
	})
	reserved := Reservations{Key("milk", "cups"): 1 + 1.0/3.0}

	list := GenerateShoppingList(l, reserved, nil, nil)

	require.Len(t, list, 1)
	assert.Equal(t, 0.33, list[0].Quantity)
}

func TestCheckoutRoundTrip(t *testing.T) {
	// Buying the listed shortfall clears the list on regeneration.
	flour := item("Flour", "cups", 0, loc("Pantry", 2))
	l := NewLedger([]*models.PantryItem{flour})
	reserved := Reservations{Key("flour", "cups"): 3}

	list := GenerateShoppingList(l, reserved, nil, nil)
	require.Len(t, list, 1)

	result := Checkout(l, []models.Purchase{
		{Name: list[0].Name, Unit: list[0].Unit, Quantity: list[0].Quantity, Place: "Pantry"},
	})

	assert.Equal(t, 2.0, flour.TotalQuantity(), "checkout works on a snapshot")
	after := NewLedger(result.Items)
	assert.Equal(t, 3.0, after.OnHand("flour", "cups"))
	assert.Empty(t, GenerateShoppingList(after, reserved, nil, nil))
	assert.Empty(t, result.CreatedKeys)
}

func TestCheckoutCreatesMissingItems(t *testing.T) {
	l := NewLedger(nil)
	purchases := []models.Purchase{
		{Name: "Olive Oil", Unit: "ml", Category: "Oils & Vinegars", Place: "Pantry", Quantity: 500},
		{Name: "Flour", Unit: "cups", Place: "Pantry", Quantity: 2},
	}

	result := Checkout(l, purchases)

	assert.ElementsMatch(t, []string{"olive oil|ml", "flour|cups"}, result.CreatedKeys)
	require.Len(t, result.Items, 2)
	after := NewLedger(result.Items)
	assert.Equal(t, 500.0, after.OnHand("olive oil", "ml"))
}

func TestCheckoutAccumulatesSequentially(t *testing.T) {
	l := NewLedger(nil)
	purchases := []models.Purchase{
		{Name: "Eggs", Unit: "count", Place: "Fridge", Quantity: 6},
		{Name: "eggs", Unit: "COUNT", Place: "Fridge", Quantity: 6},
	}

	result := Checkout(l, purchases)

	require.Len(t, result.Items, 1, "same item credited twice, not duplicated")
	assert.Equal(t, 12.0, result.Items[0].TotalQuantity())
}

func TestCheckoutHonorsPerPurchaseCorrections(t *testing.T) {
	milk := item("Milk", "cups", 0, loc("Fridge", 1))
	l := NewLedger([]*models.PantryItem{milk})
	expiry := testToday.AddDays(10)
	purchases := []models.Purchase{
		{Name: "Milk", Unit: "cups", Place: "Garage Fridge", Quantity: 4, Expiry: &expiry},
		{Name: "Bread", Unit: "loaves", Place: "Counter", Quantity: 1},
		{Name: "Skipped", Unit: "each", Place: "Pantry", Quantity: 0},
	}

	result := Checkout(l, purchases)

	after := NewLedger(result.Items)
	got := after.Find("milk", "cups")
	require.NotNil(t, got)
	require.Len(t, got.Locations, 2, "a corrected destination lands in its own location")
	assert.Equal(t, "Garage Fridge", got.Locations[1].Place)
	require.NotNil(t, got.Locations[1].Expiry)
	assert.Equal(t, expiry, *got.Locations[1].Expiry)
	assert.Equal(t, []string{"bread|loaves"}, result.CreatedKeys, "non-positive purchases are dropped")
}
