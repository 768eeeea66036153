package models

// HouseholdSettings holds the data-driven option sets a household uses for
// storage locations and item categories. These are free-form lists, not a
// fixed enumeration; membership is validated at the boundary.
type HouseholdSettings struct {
	HouseholdID    string            `json:"household_id,omitempty"`
	Locations      []string          `json:"locations"`
	Categories     []string          `json:"categories"`
	CategoryEmojis map[string]string `json:"category_emojis"`
}

// DefaultSettings are applied when a household is created.
func DefaultSettings() *HouseholdSettings {
	return &HouseholdSettings{
		Locations: []string{"Pantry", "Fridge", "Freezer"},
		Categories: []string{
			"Meat", "Dairy", "Produce", "Pantry", "Frozen", "Spices",
			"Beverages", "Snacks", "Grains", "Baking", "Canned Goods",
			"Condiments", "Seafood", "Deli", "Other",
		},
		CategoryEmojis: map[string]string{},
	}
}

// HasLocation reports whether place is one of the household's configured
// storage locations (case-sensitive, as stored).
func (s *HouseholdSettings) HasLocation(place string) bool {
	for _, l := range s.Locations {
		if l == place {
			return true
		}
	}
	return false
}

// HasCategory reports whether cat is one of the configured categories.
func (s *HouseholdSettings) HasCategory(cat string) bool {
	for _, c := range s.Categories {
		if c == cat {
			return true
		}
	}
	return false
}
