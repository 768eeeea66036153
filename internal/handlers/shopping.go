package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jdudgeon1993/chefs-kiss/internal/database"
	"github.com/jdudgeon1993/chefs-kiss/internal/engine"
	"github.com/jdudgeon1993/chefs-kiss/internal/middleware"
	"github.com/jdudgeon1993/chefs-kiss/internal/models"
)

// ListShopping returns the unified shopping list: derived entries
// recomputed from current shortfall plus the household's manual entries.
// Derived entries carry no id; their checked state lives client-side.
func (h *Handler) ListShopping(c *fiber.Ctx) error {
	bundle, err := h.loadState(c)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to load shopping list")
	}
	return Success(c, bundle.state().Recalculate().ShoppingList)
}

// CreateShoppingItem adds a manual entry
func (h *Handler) CreateShoppingItem(c *fiber.Ctx) error {
	var req models.CreateShoppingItemRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if req.Name == "" {
		return Error(c, fiber.StatusBadRequest, "name is required")
	}
	if req.Quantity <= 0 {
		req.Quantity = 1
	}

	entry, err := h.db.CreateManualShoppingItem(c.Context(), middleware.GetHouseholdID(c), &req)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to add shopping item")
	}

	h.notify(c, models.ResourceShopping, "INSERT")
	return c.Status(fiber.StatusCreated).JSON(APIResponse{Success: true, Data: entry})
}

// UpdateShoppingItem patches a manual entry (including check/uncheck,
// which persists server-side for manual entries only).
func (h *Handler) UpdateShoppingItem(c *fiber.Ctx) error {
	var req models.UpdateShoppingItemRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	entry, err := h.db.UpdateManualShoppingItem(c.Context(), c.Params("id"), middleware.GetHouseholdID(c), &req)
	if err != nil {
		if errors.Is(err, database.ErrShoppingItemNotFound) {
			return Error(c, fiber.StatusNotFound, "shopping item not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to update shopping item")
	}

	h.notify(c, models.ResourceShopping, "UPDATE")
	return Success(c, entry)
}

// DeleteShoppingItem removes a manual entry
func (h *Handler) DeleteShoppingItem(c *fiber.Ctx) error {
	err := h.db.DeleteManualShoppingItem(c.Context(), c.Params("id"), middleware.GetHouseholdID(c))
	if err != nil {
		if errors.Is(err, database.ErrShoppingItemNotFound) {
			return Error(c, fiber.StatusNotFound, "shopping item not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to delete shopping item")
	}

	h.notify(c, models.ResourceShopping, "DELETE")
	return Success(c, fiber.Map{"deleted": true})
}

// ClearChecked removes every checked manual entry in one go
func (h *Handler) ClearChecked(c *fiber.Ctx) error {
	removed, err := h.db.ClearCheckedManualItems(c.Context(), middleware.GetHouseholdID(c))
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to clear checked items")
	}

	if removed > 0 {
		h.notify(c, models.ResourceShopping, "DELETE")
	}
	return Success(c, fiber.Map{"removed": removed})
}

// checkoutLine is one checked entry plus the corrections the user can
// make on that row before confirming: quantity, destination, category
// and an optional expiry date.
type checkoutLine struct {
	ID       string       `json:"id,omitempty"`
	Name     string       `json:"name"`
	Quantity float64      `json:"quantity"`
	Unit     string       `json:"unit"`
	Category string       `json:"category"`
	Location string       `json:"location,omitempty"`
	Expiry   *models.Date `json:"expiration_date,omitempty"`
}

type checkoutRequest struct {
	Entries []checkoutLine `json:"entries"`
	// Location is the default destination for lines that carry none.
	Location string `json:"location"`
}

// Checkout stocks the pantry from the checked entries and clears the
// consumed manual entries atomically.
func (h *Handler) Checkout(c *fiber.Ctx) error {
	var req checkoutRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if len(req.Entries) == 0 {
		return Error(c, fiber.StatusBadRequest, "no entries to check out")
	}
	if req.Location == "" {
		req.Location = "Pantry"
	}

	householdID := middleware.GetHouseholdID(c)
	settings, err := h.db.GetSettings(c.Context(), householdID)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to load household settings")
	}

	purchases := make([]models.Purchase, 0, len(req.Entries))
	var clearedManual []string
	for _, line := range req.Entries {
		if line.Name == "" || line.Quantity <= 0 {
			return Error(c, fiber.StatusBadRequest, "each entry needs a name and positive quantity")
		}
		place := line.Location
		if place == "" {
			place = req.Location
		}
		if !settings.HasLocation(place) {
			return Error(c, fiber.StatusBadRequest, "unknown storage location: "+place)
		}
		if line.Category != "" && !settings.HasCategory(line.Category) {
			return Error(c, fiber.StatusBadRequest, "unknown category: "+line.Category)
		}
		purchases = append(purchases, models.Purchase{
			Name:     line.Name,
			Unit:     line.Unit,
			Category: line.Category,
			Place:    place,
			Quantity: line.Quantity,
			Expiry:   line.Expiry,
		})
		if line.ID != "" {
			clearedManual = append(clearedManual, line.ID)
		}
	}

	items, err := h.db.ListPantryItems(c.Context(), householdID)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to load pantry")
	}

	result := engine.Checkout(engine.NewLedger(items), purchases)
	if err := h.db.ApplyCheckout(c.Context(), householdID, result.Items, clearedManual); err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to apply checkout")
	}

	h.notify(c, models.ResourcePantry, "UPDATE")
	h.notify(c, models.ResourceShopping, "UPDATE")
	return Success(c, fiber.Map{
		"stocked":        len(purchases),
		"created_items":  len(result.CreatedKeys),
		"cleared_manual": len(clearedManual),
	})
}
