package models

import (
	"time"
)

// MealPlanEntry assigns a recipe to a calendar date. Cooked is a one-way
// flag: flipping it depletes the pantry exactly once, and a cooked entry
// no longer reserves ingredients.
type MealPlanEntry struct {
	ID                string    `json:"id"`
	HouseholdID       string    `json:"household_id,omitempty"`
	Date              Date      `json:"date"`
	RecipeID          string    `json:"recipe_id"`
	MealType          string    `json:"meal_type"`
	ServingMultiplier float64   `json:"serving_multiplier"`
	Cooked            bool      `json:"cooked"`
	CreatedAt         time.Time `json:"created_at,omitempty"`
}

// CreateMealPlanRequest is the request body for planning a meal.
type CreateMealPlanRequest struct {
	Date              Date    `json:"date"`
	RecipeID          string  `json:"recipe_id"`
	MealType          string  `json:"meal_type"`
	ServingMultiplier float64 `json:"serving_multiplier"`
}

// UpdateMealPlanRequest is the request body for rescheduling or editing a
// planned meal. Cooked cannot be set here; cooking goes through the cook
// endpoint so the pantry depletion happens with it.
type UpdateMealPlanRequest struct {
	Date              *Date    `json:"date,omitempty"`
	RecipeID          *string  `json:"recipe_id,omitempty"`
	MealType          *string  `json:"meal_type,omitempty"`
	ServingMultiplier *float64 `json:"serving_multiplier,omitempty"`
}

// MissingIngredient is one shortfall found when validating a cook.
type MissingIngredient struct {
	Ingredient string  `json:"ingredient"`
	Unit       string  `json:"unit"`
	Needed     float64 `json:"needed"`
	Available  float64 `json:"available"`
	Short      float64 `json:"short"`
}

// CookValidation reports whether a planned meal can be cooked from current
// physical stock, and what is missing if not.
type CookValidation struct {
	CanCook    bool                `json:"can_cook"`
	RecipeName string              `json:"recipe_name,omitempty"`
	Missing    []MissingIngredient `json:"missing"`
}
