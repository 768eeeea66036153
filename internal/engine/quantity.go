// Package engine implements the household reconciliation core: pantry
// ledger arithmetic, meal-plan reservations, recipe readiness, and derived
// shopping-list generation. Everything here is pure and synchronous;
// persistence and transport live elsewhere.
package engine

import (
	"errors"
	"math"
	"strings"
)

// ErrUnitMismatch is returned when two quantities with different
// normalized units are combined. The system never converts units; "2 cups"
// and "16 oz" of the same ingredient are unrelated entries.
var ErrUnitMismatch = errors.New("quantities have different units")

// Quantity is an amount of something in a free-text unit.
type Quantity struct {
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}

// Key builds the normalized identity used everywhere two quantities are
// compared or summed: lowercased, trimmed, joined with "|".
func Key(name, unit string) string {
	return strings.ToLower(strings.TrimSpace(name)) + "|" + strings.ToLower(strings.TrimSpace(unit))
}

// Add combines two quantities of the same unit. Units are matched by
// normalized string equality only.
func Add(a, b Quantity) (Quantity, error) {
	if normalizeUnit(a.Unit) != normalizeUnit(b.Unit) {
		return Quantity{}, ErrUnitMismatch
	}
	return Quantity{Amount: a.Amount + b.Amount, Unit: a.Unit}, nil
}

func normalizeUnit(unit string) string {
	return strings.ToLower(strings.TrimSpace(unit))
}

// round2 keeps quantities to two decimals, matching how the shopping list
// presents them.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// titleCase capitalizes the first letter of each space-separated word.
// Derived shopping entries display ingredient names this way.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		if len(r) > 0 {
			r[0] = []rune(strings.ToUpper(string(r[0])))[0]
		}
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
