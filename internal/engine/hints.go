package engine

import (
	"sort"
	"strings"

	"github.com/jdudgeon1993/chefs-kiss/internal/models"
)

// commonUnits pads autocomplete for sparse pantries.
var commonUnits = []string{"each", "lb", "oz", "cup", "tbsp", "tsp", "gallon", "quart", "pint", "g"}

// UnitHints collects the distinct units and ingredient names across the
// pantry and recipe book, for autocomplete when adding items. When fewer
// than five units are in use the common defaults are mixed in. Both
// slices come back sorted.
func UnitHints(items []*models.PantryItem, recipes []*models.Recipe) (units, names []string) {
	unitSet := make(map[string]bool)
	nameSet := make(map[string]bool)
	add := func(unit, name string) {
		if u := normalizeUnit(unit); u != "" {
			unitSet[u] = true
		}
		if n := strings.TrimSpace(name); n != "" {
			nameSet[n] = true
		}
	}

	for _, item := range items {
		add(item.Unit, item.Name)
	}
	for _, r := range recipes {
		for _, ing := range r.Ingredients {
			add(ing.Unit, ing.Name)
		}
	}

	if len(unitSet) < 5 {
		for _, u := range commonUnits {
			unitSet[u] = true
		}
	}

	units = make([]string, 0, len(unitSet))
	for u := range unitSet {
		units = append(units, u)
	}
	names = make([]string, 0, len(nameSet))
	for n := range nameSet {
		names = append(names, n)
	}
	sort.Strings(units)
	sort.Strings(names)
	return units, names
}
