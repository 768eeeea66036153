package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jdudgeon1993/chefs-kiss/internal/models"
)

func TestUnitHintsMergesPantryAndRecipes(t *testing.T) {
	items := []*models.PantryItem{
		item("Flour", "cups", 0, loc("Pantry", 5)),
		item("Milk", "CUPS", 0, loc("Fridge", 2)),
		item("Eggs", "count", 0, loc("Fridge", 12)),
		item("Rice", "g", 0, loc("Pantry", 500)),
		item("Olive Oil", "ml", 0, loc("Pantry", 250)),
	}
	recipes := []*models.Recipe{
		recipe("r1", "Pancakes", ing("flour", 2, "cups"), ing("butter", 1, "tbsp")),
	}

	units, names := UnitHints(items, recipes)

	assert.Equal(t, []string{"count", "cups", "g", "ml", "tbsp"}, units,
		"units are lowercased, deduplicated and sorted; five in use means no padding")
	assert.Contains(t, names, "Eggs")
	assert.Contains(t, names, "butter", "recipe-only ingredients are suggested too")
}

func TestUnitHintsPadsSparseUnits(t *testing.T) {
	items := []*models.PantryItem{
		item("Flour", "cups", 0, loc("Pantry", 5)),
	}

	units, names := UnitHints(items, nil)

	assert.Contains(t, units, "cups")
	for _, u := range commonUnits {
		assert.Contains(t, units, u)
	}
	assert.Equal(t, []string{"Flour"}, names)
}

func TestUnitHintsEmptyHousehold(t *testing.T) {
	units, names := UnitHints(nil, nil)

	assert.Len(t, units, len(commonUnits))
	assert.Empty(t, names)
}
