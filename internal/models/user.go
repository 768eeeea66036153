package models

import (
	"time"
)

// User is an account belonging to exactly one household.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	HouseholdID  string    `json:"household_id"`
	CreatedAt    time.Time `json:"created_at"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
}

// Household groups users sharing one pantry, recipe book, meal plan and
// shopping list.
type Household struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// RegisterRequest is the request body for account creation. A new
// household is created with the account.
type RegisterRequest struct {
	Email         string `json:"email"`
	Password      string `json:"password"`
	HouseholdName string `json:"household_name"`
}

// LoginRequest is the request body for sign-in.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest carries the long-lived token used to mint a fresh access
// token.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// AuthResponse is returned from register, login and refresh.
type AuthResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	HouseholdID  string `json:"household_id"`
	User         *User  `json:"user,omitempty"`
}
