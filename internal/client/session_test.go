package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdudgeon1993/chefs-kiss/internal/models"
)

// shoppingServer serves a mutable shopping list and records PATCHes to
// manual entries.
type shoppingServer struct {
	mu                sync.Mutex
	entries           []*models.ShoppingEntry
	patches           []models.UpdateShoppingItemRequest
	clearCheckedCalls int
}

func (s *shoppingServer) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/shopping-list/":
			writeEnvelope(w, s.entries)
		case r.Method == "PATCH":
			var req models.UpdateShoppingItemRequest
			json.NewDecoder(r.Body).Decode(&req)
			s.patches = append(s.patches, req)
			writeEnvelope(w, nil)
		case r.Method == http.MethodPost && r.URL.Path == "/api/shopping-list/checkout":
			writeEnvelope(w, nil)
		case r.Method == http.MethodPost && r.URL.Path == "/api/shopping-list/clear-checked":
			s.clearCheckedCalls++
			kept := s.entries[:0]
			for _, e := range s.entries {
				if !e.Manual() || !e.Checked {
					kept = append(kept, e)
				}
			}
			s.entries = kept
			writeEnvelope(w, nil)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

func (s *shoppingServer) setEntries(entries []*models.ShoppingEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = entries
}

func derived(name, unit string) *models.ShoppingEntry {
	return &models.ShoppingEntry{Name: name, Unit: unit, Quantity: 1, Source: models.SourceMeals}
}

func manualEntry(id, name string) *models.ShoppingEntry {
	return &models.ShoppingEntry{ID: id, Name: name, Unit: "each", Quantity: 1, Source: models.SourceManual}
}

func newTestSession(t *testing.T, backend *shoppingServer) (*Session, func()) {
	t.Helper()
	srv := httptest.NewServer(backend.handler())
	c := New(srv.URL)
	c.SetTokens("good", "r1")
	return NewSession(c), srv.Close
}

func TestDerivedCheckedStateSurvivesRegeneration(t *testing.T) {
	ctx := context.Background()
	backend := &shoppingServer{entries: []*models.ShoppingEntry{
		derived("Flour", "cups"),
		derived("Milk", "cups"),
	}}
	session, done := newTestSession(t, backend)
	defer done()

	require.NoError(t, session.Refresh(ctx, models.ResourceShopping))
	list := session.ShoppingList()
	require.Len(t, list, 2)
	require.NoError(t, session.ToggleChecked(ctx, list[0]))

	// Server regenerates the list; new entry values, same identity.
	backend.setEntries([]*models.ShoppingEntry{
		derived("Flour", "cups"),
		derived("Milk", "cups"),
	})
	require.NoError(t, session.Refresh(ctx, models.ResourceShopping))

	list = session.ShoppingList()
	assert.True(t, list[0].Checked, "Flour should stay checked across regeneration")
	assert.False(t, list[1].Checked)
}

func TestDerivedCheckedStatePrunedWhenEntryDisappears(t *testing.T) {
	ctx := context.Background()
	backend := &shoppingServer{entries: []*models.ShoppingEntry{derived("Flour", "cups")}}
	session, done := newTestSession(t, backend)
	defer done()

	require.NoError(t, session.Refresh(ctx, models.ResourceShopping))
	require.NoError(t, session.ToggleChecked(ctx, session.ShoppingList()[0]))

	// Shortfall resolved; the entry drops off the list.
	backend.setEntries(nil)
	require.NoError(t, session.Refresh(ctx, models.ResourceShopping))
	assert.Empty(t, session.ShoppingList())

	// If it comes back later it starts unchecked.
	backend.setEntries([]*models.ShoppingEntry{derived("Flour", "cups")})
	require.NoError(t, session.Refresh(ctx, models.ResourceShopping))
	assert.False(t, session.ShoppingList()[0].Checked)
}

func TestToggleCheckedManualPatchesServer(t *testing.T) {
	ctx := context.Background()
	backend := &shoppingServer{entries: []*models.ShoppingEntry{manualEntry("m-1", "Coffee")}}
	session, done := newTestSession(t, backend)
	defer done()

	require.NoError(t, session.Refresh(ctx, models.ResourceShopping))
	require.NoError(t, session.ToggleChecked(ctx, session.ShoppingList()[0]))

	backend.mu.Lock()
	defer backend.mu.Unlock()
	require.Len(t, backend.patches, 1)
	require.NotNil(t, backend.patches[0].Checked)
	assert.True(t, *backend.patches[0].Checked)
}

func TestCheckoutClearsSubmittedDerivedState(t *testing.T) {
	ctx := context.Background()
	backend := &shoppingServer{entries: []*models.ShoppingEntry{
		derived("Flour", "cups"),
		derived("Milk", "cups"),
	}}
	session, done := newTestSession(t, backend)
	defer done()

	require.NoError(t, session.Refresh(ctx, models.ResourceShopping))
	require.NoError(t, session.ToggleChecked(ctx, session.ShoppingList()[0]))
	require.Len(t, session.CheckedEntries(), 1)

	require.NoError(t, session.Checkout(ctx, "Pantry"))

	// The server will regenerate without Flour; even before that refresh
	// arrives, the local checked state for the submitted entry is gone.
	backend.setEntries([]*models.ShoppingEntry{derived("Flour", "cups")})
	require.NoError(t, session.Refresh(ctx, models.ResourceShopping))
	assert.False(t, session.ShoppingList()[0].Checked)
}

func TestClearCheckedWipesDerivedStateAndCallsServer(t *testing.T) {
	ctx := context.Background()
	manual := manualEntry("m-1", "Coffee")
	manual.Checked = true
	backend := &shoppingServer{entries: []*models.ShoppingEntry{
		derived("Flour", "cups"),
		derived("Milk", "cups"),
		manual,
	}}
	session, done := newTestSession(t, backend)
	defer done()

	require.NoError(t, session.Refresh(ctx, models.ResourceShopping))
	require.NoError(t, session.ToggleChecked(ctx, session.ShoppingList()[0]))

	require.NoError(t, session.ClearChecked(ctx))

	for _, e := range session.CheckedEntries() {
		assert.True(t, e.Manual(), "no derived entry stays checked")
	}

	backend.mu.Lock()
	assert.Equal(t, 1, backend.clearCheckedCalls)
	backend.mu.Unlock()

	// The next reload starts from a clean slate even if the same derived
	// entries regenerate.
	backend.setEntries([]*models.ShoppingEntry{derived("Flour", "cups")})
	require.NoError(t, session.Refresh(ctx, models.ResourceShopping))
	assert.False(t, session.ShoppingList()[0].Checked)
}

func TestCheckoutWithEmptyBasketIsNoop(t *testing.T) {
	ctx := context.Background()
	backend := &shoppingServer{entries: []*models.ShoppingEntry{derived("Flour", "cups")}}
	session, done := newTestSession(t, backend)
	defer done()

	require.NoError(t, session.Refresh(ctx, models.ResourceShopping))
	require.NoError(t, session.Checkout(ctx, "Pantry"))
}
