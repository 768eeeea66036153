package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdudgeon1993/chefs-kiss/internal/models"
)

func item(name, unit string, min float64, locs ...models.Location) *models.PantryItem {
	return &models.PantryItem{
		Name:         name,
		Unit:         unit,
		Category:     "Pantry Staples",
		MinThreshold: min,
		Locations:    locs,
	}
}

func loc(place string, qty float64) models.Location {
	return models.Location{Place: place, Quantity: qty}
}

func TestKeyNormalization(t *testing.T) {
	assert.Equal(t, "flour|cups", Key("Flour", "Cups"))
	assert.Equal(t, "flour|cups", Key("  flour ", " cups "))
	assert.NotEqual(t, Key("flour", "cups"), Key("flour", "oz"))
}

func TestAddRejectsUnitMismatch(t *testing.T) {
	_, err := Add(Quantity{2, "cups"}, Quantity{16, "oz"})
	assert.ErrorIs(t, err, ErrUnitMismatch)

	sum, err := Add(Quantity{2, "Cups"}, Quantity{1.5, "cups"})
	require.NoError(t, err)
	assert.Equal(t, 3.5, sum.Amount)
}

func TestFindIsCaseInsensitive(t *testing.T) {
	l := NewLedger([]*models.PantryItem{item("Flour", "cups", 0, loc("Pantry", 3))})

	assert.NotNil(t, l.Find("flour", "CUPS"))
	assert.NotNil(t, l.FindByName("FLOUR"))
	assert.Nil(t, l.Find("flour", "oz"), "same name, different unit is a different item")
	assert.Nil(t, l.FindByName("flours"), "no fuzzy matching")
}

func TestDepleteConsumesLocationsInListOrder(t *testing.T) {
	it := item("Rice", "cups", 0, loc("Pantry", 2), loc("Backup Shelf", 5))
	l := NewLedger([]*models.PantryItem{it})

	l.Deplete(it, 3)

	require.Len(t, it.Locations, 1, "first location emptied and removed")
	assert.Equal(t, "Backup Shelf", it.Locations[0].Place)
	assert.Equal(t, 4.0, it.Locations[0].Quantity)
	assert.Equal(t, 4.0, it.TotalQuantity())
}

func TestDepleteClampsAtZero(t *testing.T) {
	it := item("Milk", "cups", 0, loc("Fridge", 2))
	l := NewLedger([]*models.PantryItem{it})

	l.Deplete(it, 10)

	assert.Equal(t, 0.0, it.TotalQuantity(), "overdraft is dropped, never negative")
	assert.Empty(t, it.Locations)
}

func TestDepletePartialLeavesLocation(t *testing.T) {
	it := item("Oats", "cups", 0, loc("Pantry", 5))
	l := NewLedger([]*models.PantryItem{it})

	l.Deplete(it, 1.5)

	require.Len(t, it.Locations, 1)
	assert.Equal(t, 3.5, it.Locations[0].Quantity)
}

func TestDepleteIgnoresNonPositiveAmounts(t *testing.T) {
	it := item("Salt", "tsp", 0, loc("Pantry", 10))
	l := NewLedger([]*models.PantryItem{it})

	l.Deplete(it, 0)
	l.Deplete(it, -3)

	assert.Equal(t, 10.0, it.TotalQuantity())
}

func TestCreditMergesByPlace(t *testing.T) {
	it := item("Sugar", "cups", 0, loc("Pantry", 2))
	l := NewLedger([]*models.PantryItem{it})

	l.Credit(it, "Pantry", 3, nil)
	require.Len(t, it.Locations, 1)
	assert.Equal(t, 5.0, it.Locations[0].Quantity)

	l.Credit(it, "Freezer", 1, nil)
	require.Len(t, it.Locations, 2)
	assert.Equal(t, "Freezer", it.Locations[1].Place)
}

func TestUpsertFromPurchase(t *testing.T) {
	existing := item("Butter", "sticks", 0, loc("Fridge", 1))
	l := NewLedger([]*models.PantryItem{existing})

	got, created := l.UpsertFromPurchase(models.Purchase{
		Name: "BUTTER", Unit: "Sticks", Place: "Fridge", Quantity: 2,
	})
	assert.False(t, created, "case-insensitive match credits the existing item")
	assert.Same(t, existing, got)
	assert.Equal(t, 3.0, existing.TotalQuantity())

	fresh, created := l.UpsertFromPurchase(models.Purchase{
		Name: "Eggs", Unit: "count", Category: "Dairy & Eggs", Place: "Fridge", Quantity: 12,
	})
	assert.True(t, created)
	assert.Equal(t, 12.0, fresh.TotalQuantity())
	assert.NotNil(t, l.Find("eggs", "count"), "new item is findable afterwards")
}

func TestSnapshotIsIndependent(t *testing.T) {
	it := item("Flour", "cups", 0, loc("Pantry", 4))
	l := NewLedger([]*models.PantryItem{it})

	snap := l.Snapshot()
	snap.Deplete(snap.Find("flour", "cups"), 4)

	assert.Equal(t, 4.0, it.TotalQuantity(), "original untouched by snapshot mutation")
	assert.Equal(t, 0.0, snap.Find("flour", "cups").TotalQuantity())
}

func TestAvailableMayGoNegative(t *testing.T) {
	it := item("Flour", "cups", 0, loc("Pantry", 2))
	reserved := Reservations{Key("flour", "cups"): 5}

	assert.Equal(t, -3.0, Available(it, reserved))
}
