package models

import (
	"time"
)

// Location is one physical place a pantry item is stored, with the
// quantity held there and an optional expiration date.
type Location struct {
	ID       string  `json:"id,omitempty"`
	Place    string  `json:"location"`
	Quantity float64 `json:"quantity"`
	Expiry   *Date   `json:"expiration_date,omitempty"`
}

// PantryItem is one tracked ingredient in a household's pantry. Stock is
// the sum of its location quantities; an item with no locations is tracked
// but has no known stock. Items are deduplicated across the system by
// case-insensitive (name, unit).
type PantryItem struct {
	ID           string     `json:"id"`
	HouseholdID  string     `json:"household_id,omitempty"`
	Name         string     `json:"name"`
	Category     string     `json:"category"`
	Unit         string     `json:"unit"`
	MinThreshold float64    `json:"min_threshold"`
	Locations    []Location `json:"locations"`
	CreatedAt    time.Time  `json:"created_at,omitempty"`
	UpdatedAt    time.Time  `json:"updated_at,omitempty"`
}

// TotalQuantity sums stock across all locations. Never negative as long as
// location quantities are kept non-negative by the ledger operations.
func (p *PantryItem) TotalQuantity() float64 {
	var total float64
	for _, loc := range p.Locations {
		total += loc.Quantity
	}
	return total
}

// Clone deep-copies the item so ledger snapshots can be mutated without
// touching the caller's state.
func (p *PantryItem) Clone() *PantryItem {
	dup := *p
	dup.Locations = make([]Location, len(p.Locations))
	copy(dup.Locations, p.Locations)
	return &dup
}

// CreatePantryItemRequest is the request body for adding a pantry item.
type CreatePantryItemRequest struct {
	Name         string     `json:"name"`
	Category     string     `json:"category"`
	Unit         string     `json:"unit"`
	MinThreshold float64    `json:"min_threshold"`
	Locations    []Location `json:"locations"`
}

// UpdatePantryItemRequest is the request body for editing a pantry item.
// A non-nil Locations slice full-replaces the stored locations.
type UpdatePantryItemRequest struct {
	Name         *string    `json:"name,omitempty"`
	Category     *string    `json:"category,omitempty"`
	Unit         *string    `json:"unit,omitempty"`
	MinThreshold *float64   `json:"min_threshold,omitempty"`
	Locations    []Location `json:"locations,omitempty"`
}

// Purchase is one checked-out shopping entry headed into the pantry, after
// the user confirmed (or corrected) where it goes and how much arrived.
type Purchase struct {
	Name     string  `json:"name"`
	Unit     string  `json:"unit"`
	Category string  `json:"category"`
	Place    string  `json:"location"`
	Quantity float64 `json:"quantity"`
	Expiry   *Date   `json:"expiration_date,omitempty"`
}

// ExpiringLocation is one pantry location close to (or past) expiry.
type ExpiringLocation struct {
	ItemID        string  `json:"item_id"`
	ItemName      string  `json:"item_name"`
	Place         string  `json:"location"`
	Quantity      float64 `json:"quantity"`
	Unit          string  `json:"unit"`
	ExpiresOn     Date    `json:"expires_on"`
	ExpiresInDays int     `json:"expires_in_days"`
	IsExpired     bool    `json:"is_expired"`
}

// PantryHealth is a coarse score of how well-stocked the pantry is.
type PantryHealth struct {
	TotalItems     int    `json:"total_items"`
	BelowThreshold int    `json:"below_threshold"`
	ExpiringSoon   int    `json:"expiring_soon"`
	HealthScore    int    `json:"health_score"`
	Status         string `json:"status"`
}
