package models

import (
	"time"
)

// ShoppingSource identifies why an entry is on the list.
type ShoppingSource string

const (
	SourceMeals          ShoppingSource = "Meals"
	SourceThreshold      ShoppingSource = "Threshold"
	SourceMealsThreshold ShoppingSource = "Meals + Threshold"
	SourceManual         ShoppingSource = "Manual"
)

// Breakdown decomposes a derived entry's quantity into the portion needed
// for planned meals and the portion needed to restore a stock threshold.
type Breakdown struct {
	Meals     float64 `json:"meals,omitempty"`
	Threshold float64 `json:"threshold,omitempty"`
}

// ShoppingEntry is one line on the unified shopping list. Derived entries
// are regenerated from shortfall and have no ID; their identity is
// name|unit and their checked state lives client-side. Manual entries are
// user-added, carry a stable ID, and persist their checked state.
type ShoppingEntry struct {
	ID        string         `json:"id,omitempty"`
	Name      string         `json:"name"`
	Quantity  float64        `json:"quantity"`
	Unit      string         `json:"unit"`
	Category  string         `json:"category"`
	Source    ShoppingSource `json:"source"`
	Checked   bool           `json:"checked"`
	Breakdown *Breakdown     `json:"breakdown,omitempty"`
	CreatedAt time.Time      `json:"created_at,omitempty"`
}

// Manual reports whether the entry is user-added (has a stable identity)
// as opposed to derived from shortfall.
func (e *ShoppingEntry) Manual() bool {
	return e.ID != ""
}

// Key is the natural identity of an entry: its stable ID for manual
// entries, name|unit for derived ones.
func (e *ShoppingEntry) Key() string {
	if e.ID != "" {
		return e.ID
	}
	return e.Name + "|" + e.Unit
}

// CreateShoppingItemRequest is the request body for adding a manual entry.
type CreateShoppingItemRequest struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
	Category string  `json:"category"`
}

// UpdateShoppingItemRequest is the request body for PATCHing a manual
// entry (rename, requantify, check/uncheck).
type UpdateShoppingItemRequest struct {
	Name     *string  `json:"name,omitempty"`
	Quantity *float64 `json:"quantity,omitempty"`
	Unit     *string  `json:"unit,omitempty"`
	Category *string  `json:"category,omitempty"`
	Checked  *bool    `json:"checked,omitempty"`
}
