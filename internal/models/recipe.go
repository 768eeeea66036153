package models

import (
	"time"
)

// IngredientLine is one ingredient requirement in a recipe. Lines reference
// pantry items by name, not id; matching happens at query time.
type IngredientLine struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

// Recipe is a household recipe definition.
type Recipe struct {
	ID           string           `json:"id"`
	HouseholdID  string           `json:"household_id,omitempty"`
	Name         string           `json:"name"`
	Category     string           `json:"category"`
	Tags         []string         `json:"tags"`
	Servings     int              `json:"servings"`
	Ingredients  []IngredientLine `json:"ingredients"`
	Instructions string           `json:"instructions"`
	PhotoURL     string           `json:"photo_url,omitempty"`
	CreatedAt    time.Time        `json:"created_at,omitempty"`
	UpdatedAt    time.Time        `json:"updated_at,omitempty"`
}

// Scaled returns a copy with every ingredient quantity multiplied. Used for
// serving adjustments; the stored recipe is never modified.
func (r *Recipe) Scaled(multiplier float64) *Recipe {
	dup := *r
	dup.Ingredients = make([]IngredientLine, len(r.Ingredients))
	for i, line := range r.Ingredients {
		line.Quantity = line.Quantity * multiplier
		dup.Ingredients[i] = line
	}
	return &dup
}

// CreateRecipeRequest is the request body for adding or replacing a recipe.
type CreateRecipeRequest struct {
	Name         string           `json:"name"`
	Category     string           `json:"category"`
	Tags         []string         `json:"tags"`
	Servings     int              `json:"servings"`
	Ingredients  []IngredientLine `json:"ingredients"`
	Instructions string           `json:"instructions"`
}

// RecipeSuggestion pairs an expiring pantry item with the recipes that
// would use it up.
type RecipeSuggestion struct {
	ExpiringItem  string            `json:"expiring_item"`
	ExpiresInDays int               `json:"expires_in_days"`
	Quantity      float64           `json:"quantity"`
	Unit          string            `json:"unit"`
	Recipes       []SuggestedRecipe `json:"recipes"`
}

// SuggestedRecipe is a recipe reference inside a suggestion.
type SuggestedRecipe struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Tags        []string `json:"tags"`
	ReadyToCook bool     `json:"ready_to_cook"`
}
