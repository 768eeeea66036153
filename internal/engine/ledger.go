package engine

import (
	"strings"

	"github.com/jdudgeon1993/chefs-kiss/internal/models"
)

// Ledger is an in-memory view of a household's pantry with the mutation
// rules the rest of the system relies on: stock never goes negative,
// depletion consumes locations in list order, and overdrafts are silently
// clamped rather than rejected.
type Ledger struct {
	items []*models.PantryItem
	byKey map[string]*models.PantryItem
}

// NewLedger wraps the given items. The items are referenced, not copied;
// use Snapshot when mutations must stay local.
func NewLedger(items []*models.PantryItem) *Ledger {
	l := &Ledger{
		items: items,
		byKey: make(map[string]*models.PantryItem, len(items)),
	}
	for _, item := range items {
		l.byKey[Key(item.Name, item.Unit)] = item
	}
	return l
}

// Snapshot deep-copies the ledger so a multi-step transaction (checkout)
// can accumulate against consistent state without touching the original.
func (l *Ledger) Snapshot() *Ledger {
	items := make([]*models.PantryItem, len(l.items))
	for i, item := range l.items {
		items[i] = item.Clone()
	}
	return NewLedger(items)
}

// Items returns the backing slice.
func (l *Ledger) Items() []*models.PantryItem {
	return l.items
}

// Find looks up an item by case-insensitive (name, unit).
func (l *Ledger) Find(name, unit string) *models.PantryItem {
	return l.byKey[Key(name, unit)]
}

// FindByName returns the first item whose name matches case-insensitively,
// regardless of unit. Exact match only; no fuzzy matching.
func (l *Ledger) FindByName(name string) *models.PantryItem {
	want := strings.ToLower(strings.TrimSpace(name))
	for _, item := range l.items {
		if strings.ToLower(strings.TrimSpace(item.Name)) == want {
			return item
		}
	}
	return nil
}

// OnHand returns the physical stock for (name, unit), 0 when untracked.
func (l *Ledger) OnHand(name, unit string) float64 {
	if item := l.Find(name, unit); item != nil {
		return item.TotalQuantity()
	}
	return 0
}

// Deplete removes amount from the item's locations in list order,
// consuming each location before moving to the next. Any remainder beyond
// total stock is dropped: stock clamps at zero and no error is reported.
// Emptied locations are removed. Zero or negative amounts are no-ops.
func (l *Ledger) Deplete(item *models.PantryItem, amount float64) {
	if item == nil || amount <= 0 {
		return
	}
	remaining := amount
	kept := item.Locations[:0]
	for _, loc := range item.Locations {
		switch {
		case remaining <= 0:
			kept = append(kept, loc)
		case loc.Quantity > remaining:
			loc.Quantity -= remaining
			remaining = 0
			kept = append(kept, loc)
		default:
			remaining -= loc.Quantity
			// fully consumed, drop the location
		}
	}
	item.Locations = kept
}

// Credit adds amount to the location matching place (by name), appending a
// new location when none matches. Zero or negative amounts are clamped to
// no-ops.
func (l *Ledger) Credit(item *models.PantryItem, place string, amount float64, expiry *models.Date) {
	if item == nil || amount <= 0 {
		return
	}
	for i := range item.Locations {
		if item.Locations[i].Place == place {
			item.Locations[i].Quantity += amount
			if expiry != nil {
				item.Locations[i].Expiry = expiry
			}
			return
		}
	}
	item.Locations = append(item.Locations, models.Location{
		Place:    place,
		Quantity: amount,
		Expiry:   expiry,
	})
}

// UpsertFromPurchase applies one purchase: credit the existing item
// matching (name, unit) case-insensitively, or create a new item with a
// single location. Returns the affected item and whether it was created.
func (l *Ledger) UpsertFromPurchase(p models.Purchase) (*models.PantryItem, bool) {
	if item := l.Find(p.Name, p.Unit); item != nil {
		l.Credit(item, p.Place, p.Quantity, p.Expiry)
		return item, false
	}
	item := &models.PantryItem{
		Name:     p.Name,
		Category: p.Category,
		Unit:     p.Unit,
	}
	l.Credit(item, p.Place, p.Quantity, p.Expiry)
	l.items = append(l.items, item)
	l.byKey[Key(p.Name, p.Unit)] = item
	return item, true
}

// Available is on-hand minus reserved for the item. May be negative when
// planned meals claim more than the pantry holds; callers surface that as
// a shortfall rather than clamping it.
func Available(item *models.PantryItem, reserved Reservations) float64 {
	return item.TotalQuantity() - reserved[Key(item.Name, item.Unit)]
}
