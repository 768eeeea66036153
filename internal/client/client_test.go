package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdudgeon1993/chefs-kiss/internal/models"
)

func writeEnvelope(w http.ResponseWriter, data interface{}) {
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"data":    data,
	})
}

func TestDoRefreshesOnceOn401(t *testing.T) {
	var pantryCalls, refreshCalls int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/pantry/":
			if atomic.AddInt32(&pantryCalls, 1) == 1 {
				require.Equal(t, "Bearer stale", r.Header.Get("Authorization"))
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			require.Equal(t, "Bearer fresh", r.Header.Get("Authorization"))
			writeEnvelope(w, []*models.PantryItem{{Name: "Flour", Unit: "cups"}})
		case "/api/auth/refresh":
			atomic.AddInt32(&refreshCalls, 1)
			var req models.RefreshRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			require.Equal(t, "r1", req.RefreshToken)
			json.NewEncoder(w).Encode(models.AuthResponse{AccessToken: "fresh", RefreshToken: "r2"})
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := New(srv.URL)
	c.SetTokens("stale", "r1")

	items, err := c.Pantry(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Flour", items[0].Name)
	assert.Equal(t, int32(1), atomic.LoadInt32(&refreshCalls))
	assert.Equal(t, "fresh", c.AccessToken())
}

func TestDoSecondUnauthorizedSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/auth/refresh" {
			json.NewEncoder(w).Encode(models.AuthResponse{AccessToken: "fresh", RefreshToken: "r2"})
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := New(srv.URL)
	c.SetTokens("stale", "r1")

	_, err := c.Pantry(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestDoWithoutRefreshTokenIsUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := New(srv.URL)

	_, err := c.Recipes(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestDoFailedRefreshIsUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/auth/refresh" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"success": false,
				"error":   "Invalid refresh token",
			})
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := New(srv.URL)
	c.SetTokens("stale", "revoked")

	_, err := c.MealPlans(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestDoDecodesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"error":   "Meal has already been cooked",
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	c.SetTokens("good", "r1")

	err := c.CookMeal(context.Background(), "plan-1", false)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, "Meal has already been cooked", apiErr.Message)
}

func TestLoginStoresTokens(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/login", r.URL.Path)
		var req models.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "cook@example.com", req.Email)
		json.NewEncoder(w).Encode(models.AuthResponse{
			AccessToken:  "a1",
			RefreshToken: "r1",
			User:         &models.User{Email: "cook@example.com"},
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	resp, err := c.Login(context.Background(), "cook@example.com", "secretpass")
	require.NoError(t, err)
	assert.Equal(t, "cook@example.com", resp.User.Email)
	assert.Equal(t, "a1", c.AccessToken())
}

func TestShoppingListDecodesEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"success":true,"data":[
			{"name":"Flour","quantity":1,"unit":"cups","category":"Pantry Staples","source":"Meals","breakdown":{"meals":1}},
			{"id":"m-1","name":"Coffee","quantity":1,"unit":"bag","category":"Beverages","source":"Manual","checked":true}
		]}`)
	}))
	defer srv.Close()

	c := New(srv.URL)
	c.SetTokens("good", "r1")

	entries, err := c.ShoppingList(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.False(t, entries[0].Manual())
	assert.Equal(t, "Flour|cups", entries[0].Key())
	require.NotNil(t, entries[0].Breakdown)
	assert.Equal(t, 1.0, entries[0].Breakdown.Meals)
	assert.True(t, entries[1].Manual())
	assert.Equal(t, "m-1", entries[1].Key())
}
