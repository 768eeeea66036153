package engine

import (
	"sort"
	"strings"

	"github.com/jdudgeon1993/chefs-kiss/internal/models"
)

// GenerateShoppingList derives what to buy from the current ledger, the
// reservation map, and the household's manual additions. Two derived
// needs feed it:
//
//   - meal shortfall: planned demand exceeding physical stock,
//     max(0, reserved - onHand), including ingredients with no pantry
//     item at all;
//   - threshold gap: staples dipping under their minimum once planned
//     meals are accounted for, max(0, min - max(0, onHand - reserved)).
//
// When both apply to the same (name, unit) the quantities add and the
// source reads "Meals + Threshold". Manual entries pass through as-is.
// Regeneration is idempotent: the same inputs always produce the same
// list, so derived entries carry no identity of their own.
func GenerateShoppingList(l *Ledger, reserved Reservations, manual []*models.ShoppingEntry, categoryOf func(name string) string) []*models.ShoppingEntry {
	type need struct {
		name      string
		unit      string
		category  string
		meals     float64
		threshold float64
	}
	needs := make(map[string]*need)
	get := func(name, unit, category string) *need {
		k := Key(name, unit)
		n, ok := needs[k]
		if !ok {
			n = &need{name: name, unit: unit, category: category}
			needs[k] = n
		}
		return n
	}

	// Planned demand not covered by stock. Reservation keys with no
	// backing pantry item are pure shortfall.
	for k, amount := range reserved {
		name, unit := splitKey(k)
		item := l.Find(name, unit)
		onHand := 0.0
		if item != nil {
			onHand = item.TotalQuantity()
			name, unit = item.Name, item.Unit
		}
		short := amount - onHand
		if short > 0 {
			category := ""
			if item != nil {
				category = item.Category
			} else if categoryOf != nil {
				category = categoryOf(name)
			}
			get(name, unit, category).meals += short
		}
	}

	// Staples below their minimum after planned meals are served.
	for _, item := range l.Items() {
		if item.MinThreshold <= 0 {
			continue
		}
		after := item.TotalQuantity() - reserved[Key(item.Name, item.Unit)]
		if after < 0 {
			after = 0
		}
		gap := item.MinThreshold - after
		if gap > 0 {
			get(item.Name, item.Unit, item.Category).threshold += gap
		}
	}

	entries := make([]*models.ShoppingEntry, 0, len(needs)+len(manual))
	for _, n := range needs {
		source := models.SourceMealsThreshold
		switch {
		case n.threshold == 0:
			source = models.SourceMeals
		case n.meals == 0:
			source = models.SourceThreshold
		}
		entries = append(entries, &models.ShoppingEntry{
			Name:     titleCase(n.name),
			Unit:     n.unit,
			Category: n.category,
			Quantity: round2(n.meals + n.threshold),
			Source:   source,
			Breakdown: &models.Breakdown{
				Meals:     round2(n.meals),
				Threshold: round2(n.threshold),
			},
		})
	}
	entries = append(entries, manual...)

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Category != entries[j].Category {
			return entries[i].Category < entries[j].Category
		}
		ni, nj := strings.ToLower(entries[i].Name), strings.ToLower(entries[j].Name)
		if ni != nj {
			return ni < nj
		}
		return entries[i].Unit < entries[j].Unit
	})
	return entries
}

func splitKey(k string) (name, unit string) {
	if i := strings.LastIndex(k, "|"); i >= 0 {
		return k[:i], k[i+1:]
	}
	return k, ""
}
