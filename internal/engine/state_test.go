package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdudgeon1993/chefs-kiss/internal/models"
)

func expiringLoc(place string, qty float64, expiry models.Date) models.Location {
	return models.Location{Place: place, Quantity: qty, Expiry: &expiry}
}

func TestRecalculateTiesDerivedValuesTogether(t *testing.T) {
	items := []*models.PantryItem{
		item("Flour", "cups", 0, loc("Pantry", 3)),
	}
	recipes := []*models.Recipe{
		recipe("r2", "Bread", ing("flour", 3, "cups")),
	}
	plans := []*models.MealPlanEntry{
		plan("r2", testToday.AddDays(1), 1, false),
	}
	s := NewState(items, recipes, plans, nil, testToday)

	d := s.Recalculate()

	assert.Equal(t, 3.0, d.Reserved[Key("flour", "cups")])
	assert.Equal(t, 1, d.ReadyCount, "raw stock covers bread")
	assert.Empty(t, d.ReadyIDs, "the planned bread claims all the flour")
	assert.Empty(t, d.ShoppingList, "stock exactly covers the reservation")
}

func TestExpiringSoonSortsAndFlagsExpired(t *testing.T) {
	items := []*models.PantryItem{
		item("Milk", "cups", 0, expiringLoc("Fridge", 1, testToday.AddDays(2))),
		item("Yogurt", "count", 0, expiringLoc("Fridge", 4, testToday.AddDays(-1))),
		item("Rice", "cups", 0, expiringLoc("Pantry", 5, testToday.AddDays(90))),
		item("Salt", "tsp", 0, loc("Pantry", 100)), // no expiry, never listed
	}
	s := NewState(items, nil, nil, nil, testToday)

	out := s.ExpiringSoon(7)

	require.Len(t, out, 2)
	assert.Equal(t, "Yogurt", out[0].ItemName)
	assert.True(t, out[0].IsExpired)
	assert.Equal(t, -1, out[0].ExpiresInDays)
	assert.Equal(t, "Milk", out[1].ItemName)
	assert.False(t, out[1].IsExpired)
}

func TestHealthScore(t *testing.T) {
	items := []*models.PantryItem{
		item("Flour", "cups", 5, loc("Pantry", 1)),                              // below threshold: -10
		item("Milk", "cups", 0, expiringLoc("Fridge", 1, testToday.AddDays(3))), // expiring: -5
		item("Rice", "cups", 1, loc("Pantry", 4)),
		item("Yogurt", "count", 0, expiringLoc("Fridge", 4, testToday.AddDays(5))), // outside the 3-day window
	}
	s := NewState(items, nil, nil, nil, testToday)

	h := s.Health()

	assert.Equal(t, 4, h.TotalItems)
	assert.Equal(t, 1, h.BelowThreshold)
	assert.Equal(t, 1, h.ExpiringSoon, "health counts a tighter window than the expiring report")
	assert.Equal(t, 85, h.HealthScore)
	assert.Equal(t, "excellent", h.Status)
}

func TestHealthStatusBuckets(t *testing.T) {
	// Each item below threshold costs 10 points.
	belowN := func(n int) []*models.PantryItem {
		var items []*models.PantryItem
		for i := 0; i < n; i++ {
			items = append(items, item(string(rune('A'+i)), "cups", 5, loc("Pantry", 0)))
		}
		return items
	}

	cases := []struct {
		below  int
		score  int
		status string
	}{
		{0, 100, "excellent"},
		{2, 80, "excellent"},
		{3, 70, "good"},
		{4, 60, "good"},
		{5, 50, "fair"},
		{6, 40, "fair"},
		{7, 30, "poor"},
	}
	for _, tc := range cases {
		h := NewState(belowN(tc.below), nil, nil, nil, testToday).Health()
		assert.Equal(t, tc.score, h.HealthScore, "below=%d", tc.below)
		assert.Equal(t, tc.status, h.Status, "below=%d", tc.below)
	}
}

func TestHealthScoreFloorsAtZero(t *testing.T) {
	var items []*models.PantryItem
	for _, name := range []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K"} {
		items = append(items, item(name, "cups", 5, loc("Pantry", 0)))
	}
	s := NewState(items, nil, nil, nil, testToday)

	h := s.Health()

	assert.Equal(t, 0, h.HealthScore)
	assert.Equal(t, "poor", h.Status)
}

func TestSuggestForExpiring(t *testing.T) {
	items := []*models.PantryItem{
		item("Milk", "cups", 0, expiringLoc("Fridge", 2, testToday.AddDays(2))),
		item("Flour", "cups", 0, loc("Pantry", 5)),
	}
	recipes := []*models.Recipe{
		recipe("r1", "Pancakes", ing("flour", 2, "cups"), ing("milk", 1, "cups")),
		recipe("r2", "Bread", ing("flour", 3, "cups")),
	}
	s := NewState(items, recipes, nil, nil, testToday)

	out := s.SuggestForExpiring(7)

	require.Len(t, out, 1)
	assert.Equal(t, "Milk", out[0].ExpiringItem)
	assert.Equal(t, 2, out[0].ExpiresInDays)
	require.Len(t, out[0].Recipes, 1)
	assert.Equal(t, "Pancakes", out[0].Recipes[0].Name)
	assert.True(t, out[0].Recipes[0].ReadyToCook)
}

func TestSuggestForExpiringSkipsUnusedItems(t *testing.T) {
	items := []*models.PantryItem{
		item("Cilantro", "bunches", 0, expiringLoc("Fridge", 1, testToday.AddDays(1))),
	}
	recipes := []*models.Recipe{
		recipe("r1", "Pancakes", ing("flour", 2, "cups")),
	}
	s := NewState(items, recipes, nil, nil, testToday)

	assert.Empty(t, s.SuggestForExpiring(7))
}

func TestSuggestForExpiringIncludesExpiredStock(t *testing.T) {
	items := []*models.PantryItem{
		item("Yogurt", "count", 0, expiringLoc("Fridge", 4, testToday.AddDays(-2))),
	}
	recipes := []*models.Recipe{
		recipe("r1", "Parfait", ing("yogurt", 2, "count")),
	}
	s := NewState(items, recipes, nil, nil, testToday)

	out := s.SuggestForExpiring(7)

	require.Len(t, out, 1)
	assert.Equal(t, "Yogurt", out[0].ExpiringItem)
	assert.Equal(t, -2, out[0].ExpiresInDays)
	require.Len(t, out[0].Recipes, 1)
	assert.Equal(t, "Parfait", out[0].Recipes[0].Name)
}
