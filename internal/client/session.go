package client

import (
	"context"
	"sync"

	"github.com/jdudgeon1993/chefs-kiss/internal/models"
)

// Session is the client-side cache of one household's state. Derived
// shopping entries have no server identity, so their checked state lives
// here, keyed by name|unit, and survives list regeneration. Manual
// entries' checked state is server truth and passes through.
type Session struct {
	api *Client

	mu       sync.RWMutex
	pantry   []*models.PantryItem
	recipes  []*models.Recipe
	plans    []*models.MealPlanEntry
	shopping []*models.ShoppingEntry

	// checked name|unit keys for derived entries only
	derivedChecked map[string]bool
}

func NewSession(api *Client) *Session {
	return &Session{
		api:            api,
		derivedChecked: make(map[string]bool),
	}
}

// RefreshAll loads every resource class.
func (s *Session) RefreshAll(ctx context.Context) error {
	for _, class := range []models.ResourceClass{
		models.ResourcePantry, models.ResourceRecipes,
		models.ResourceMeals, models.ResourceShopping,
	} {
		if err := s.Refresh(ctx, class); err != nil {
			return err
		}
	}
	return nil
}

// Refresh reloads one resource class from the server.
func (s *Session) Refresh(ctx context.Context, class models.ResourceClass) error {
	switch class {
	case models.ResourcePantry:
		items, err := s.api.Pantry(ctx)
		if err != nil {
			return err
		}
		s.mu.Lock()
		s.pantry = items
		s.mu.Unlock()
	case models.ResourceRecipes:
		recipes, err := s.api.Recipes(ctx)
		if err != nil {
			return err
		}
		s.mu.Lock()
		s.recipes = recipes
		s.mu.Unlock()
	case models.ResourceMeals:
		plans, err := s.api.MealPlans(ctx)
		if err != nil {
			return err
		}
		s.mu.Lock()
		s.plans = plans
		s.mu.Unlock()
	case models.ResourceShopping:
		entries, err := s.api.ShoppingList(ctx)
		if err != nil {
			return err
		}
		s.setShopping(entries)
	}
	return nil
}

// setShopping installs a fresh list, re-applying locally held checked
// state to derived entries and dropping state for entries that no longer
// exist.
func (s *Session) setShopping(entries []*models.ShoppingEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	present := make(map[string]bool, len(entries))
	for _, e := range entries {
		if !e.Manual() {
			key := e.Key()
			present[key] = true
			e.Checked = s.derivedChecked[key]
		}
	}
	for key := range s.derivedChecked {
		if !present[key] {
			delete(s.derivedChecked, key)
		}
	}
	s.shopping = entries
}

// ToggleChecked flips an entry's checked state. Derived entries toggle
// locally; manual entries persist the flip to the server.
func (s *Session) ToggleChecked(ctx context.Context, entry *models.ShoppingEntry) error {
	if entry.Manual() {
		checked := !entry.Checked
		return s.api.do(ctx, "PATCH", "/api/shopping-list/items/"+entry.ID,
			models.UpdateShoppingItemRequest{Checked: &checked}, nil)
	}

	s.mu.Lock()
	key := entry.Key()
	entry.Checked = !entry.Checked
	if entry.Checked {
		s.derivedChecked[key] = true
	} else {
		delete(s.derivedChecked, key)
	}
	s.mu.Unlock()
	return nil
}

// ClearChecked sweeps every checked entry off the list: checked manual
// entries are deleted server-side and the local checked state for derived
// entries is wiped.
func (s *Session) ClearChecked(ctx context.Context) error {
	if err := s.api.do(ctx, "POST", "/api/shopping-list/clear-checked", nil, nil); err != nil {
		return err
	}

	s.mu.Lock()
	s.derivedChecked = make(map[string]bool)
	for _, e := range s.shopping {
		if !e.Manual() {
			e.Checked = false
		}
	}
	s.mu.Unlock()
	return nil
}

// CheckedEntries returns the basket for checkout: every checked entry,
// derived and manual alike.
func (s *Session) CheckedEntries() []*models.ShoppingEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.ShoppingEntry
	for _, e := range s.shopping {
		if e.Checked {
			out = append(out, e)
		}
	}
	return out
}

// Checkout submits the checked basket and clears local checked state for
// the submitted derived entries. The refreshed list arrives via the
// change stream.
func (s *Session) Checkout(ctx context.Context, location string) error {
	basket := s.CheckedEntries()
	if len(basket) == 0 {
		return nil
	}
	if err := s.api.Checkout(ctx, basket, location); err != nil {
		return err
	}

	s.mu.Lock()
	for _, e := range basket {
		if !e.Manual() {
			delete(s.derivedChecked, e.Key())
		}
	}
	s.mu.Unlock()
	return nil
}

// Pantry returns the cached pantry.
func (s *Session) Pantry() []*models.PantryItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pantry
}

// Recipes returns the cached recipe book.
func (s *Session) Recipes() []*models.Recipe {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.recipes
}

// MealPlans returns the cached meal plan.
func (s *Session) MealPlans() []*models.MealPlanEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.plans
}

// ShoppingList returns the cached shopping list.
func (s *Session) ShoppingList() []*models.ShoppingEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.shopping
}
