// Package client is the consuming half of the kitchen service: a typed
// API wrapper with transparent token refresh, a session cache that keeps
// derived shopping-entry checked state across regenerations, and a change
// listener that debounces server notifications into class refetches.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/jdudgeon1993/chefs-kiss/internal/models"
)

// ErrUnauthorized is returned when a request fails authentication even
// after a refresh attempt.
var ErrUnauthorized = errors.New("unauthorized")

// APIError carries a non-2xx response's status and server message.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Client talks to the kitchen service. Safe for concurrent use; the token
// pair is guarded so parallel requests share one refresh.
type Client struct {
	baseURL string
	http    *http.Client

	mu           sync.Mutex
	accessToken  string
	refreshToken string
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// SetTokens installs a token pair obtained out of band.
func (c *Client) SetTokens(access, refresh string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken = access
	c.refreshToken = refresh
}

// AccessToken returns the current access token, for the event stream URL.
func (c *Client) AccessToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accessToken
}

// Login authenticates and stores the issued token pair.
func (c *Client) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	err := c.doPlain(ctx, http.MethodPost, "/api/auth/login", models.LoginRequest{
		Email:    email,
		Password: password,
	}, &resp)
	if err != nil {
		return nil, err
	}
	c.SetTokens(resp.AccessToken, resp.RefreshToken)
	return &resp, nil
}

// Register creates an account and stores the issued token pair.
func (c *Client) Register(ctx context.Context, email, password, householdName string) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	err := c.doPlain(ctx, http.MethodPost, "/api/auth/register", models.RegisterRequest{
		Email:         email,
		Password:      password,
		HouseholdName: householdName,
	}, &resp)
	if err != nil {
		return nil, err
	}
	c.SetTokens(resp.AccessToken, resp.RefreshToken)
	return &resp, nil
}

// refresh exchanges the stored refresh token for a new pair. Returns
// ErrUnauthorized when no refresh token is held or the exchange fails.
func (c *Client) refresh(ctx context.Context) error {
	c.mu.Lock()
	token := c.refreshToken
	c.mu.Unlock()
	if token == "" {
		return ErrUnauthorized
	}

	var resp models.AuthResponse
	err := c.doPlain(ctx, http.MethodPost, "/api/auth/refresh", models.RefreshRequest{RefreshToken: token}, &resp)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
			return ErrUnauthorized
		}
		return err
	}
	c.SetTokens(resp.AccessToken, resp.RefreshToken)
	return nil
}

// do performs an authenticated request. On a 401 it refreshes the session
// and retries exactly once; a second 401 surfaces as ErrUnauthorized.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	status, err := c.attempt(ctx, method, path, body, out)
	if err != nil {
		return err
	}
	if status != http.StatusUnauthorized {
		return nil
	}

	if err := c.refresh(ctx); err != nil {
		return err
	}
	status, err = c.attempt(ctx, method, path, body, out)
	if err != nil {
		return err
	}
	if status == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return nil
}

// attempt runs one request. A 401 is reported via the status return so
// the caller can decide to refresh; other failures become errors.
func (c *Client) attempt(ctx context.Context, method, path string, body, out interface{}) (int, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return 0, err
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.mu.Lock()
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}
	c.mu.Unlock()

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, nil
	}
	if resp.StatusCode >= 400 {
		return resp.StatusCode, decodeAPIError(resp)
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, nil
	}
	return resp.StatusCode, decodeEnvelope(resp.Body, out)
}

// doPlain is for auth endpoints, whose responses are not wrapped in the
// success envelope.
func (c *Client) doPlain(ctx context.Context, method, path string, body, out interface{}) error {
	buf, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(buf))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeAPIError(resp)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// envelope mirrors the server's standard response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func decodeEnvelope(r io.Reader, out interface{}) error {
	var env envelope
	if err := json.NewDecoder(r).Decode(&env); err != nil {
		return err
	}
	if !env.Success {
		return errors.New(env.Error)
	}
	if len(env.Data) == 0 {
		return nil
	}
	return json.Unmarshal(env.Data, out)
}

func decodeAPIError(resp *http.Response) error {
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil || env.Error == "" {
		return &APIError{Status: resp.StatusCode, Message: resp.Status}
	}
	return &APIError{Status: resp.StatusCode, Message: env.Error}
}

// Pantry fetches the full pantry.
func (c *Client) Pantry(ctx context.Context) ([]*models.PantryItem, error) {
	var items []*models.PantryItem
	err := c.do(ctx, http.MethodGet, "/api/pantry/", nil, &items)
	return items, err
}

// Recipes fetches the recipe book.
func (c *Client) Recipes(ctx context.Context) ([]*models.Recipe, error) {
	var recipes []*models.Recipe
	err := c.do(ctx, http.MethodGet, "/api/recipes/", nil, &recipes)
	return recipes, err
}

// MealPlans fetches the meal plan.
func (c *Client) MealPlans(ctx context.Context) ([]*models.MealPlanEntry, error) {
	var plans []*models.MealPlanEntry
	err := c.do(ctx, http.MethodGet, "/api/meal-plans/", nil, &plans)
	return plans, err
}

// ShoppingList fetches the unified shopping list.
func (c *Client) ShoppingList(ctx context.Context) ([]*models.ShoppingEntry, error) {
	var entries []*models.ShoppingEntry
	err := c.do(ctx, http.MethodGet, "/api/shopping-list/", nil, &entries)
	return entries, err
}

// CookMeal asks the server to cook a planned meal.
func (c *Client) CookMeal(ctx context.Context, planID string, force bool) error {
	return c.do(ctx, http.MethodPost, "/api/meal-plans/"+planID+"/cook",
		map[string]bool{"force": force}, nil)
}

// Checkout submits checked entries for pantry restock.
func (c *Client) Checkout(ctx context.Context, entries []*models.ShoppingEntry, location string) error {
	return c.do(ctx, http.MethodPost, "/api/shopping-list/checkout", map[string]interface{}{
		"entries":  entries,
		"location": location,
	}, nil)
}
