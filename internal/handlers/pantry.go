package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jdudgeon1993/chefs-kiss/internal/database"
	"github.com/jdudgeon1993/chefs-kiss/internal/engine"
	"github.com/jdudgeon1993/chefs-kiss/internal/middleware"
	"github.com/jdudgeon1993/chefs-kiss/internal/models"
)

// pantryItemView decorates a pantry item with the reservation-adjusted
// numbers the UI shows next to raw stock. Available is deliberately not
// clamped: a negative value is the signal that planned meals outrun the
// pantry.
type pantryItemView struct {
	*models.PantryItem
	TotalQuantity float64 `json:"total_quantity"`
	Reserved      float64 `json:"reserved"`
	Available     float64 `json:"available"`
}

func pantryViews(items []*models.PantryItem, reserved engine.Reservations) []pantryItemView {
	views := make([]pantryItemView, 0, len(items))
	for _, item := range items {
		r := reserved[engine.Key(item.Name, item.Unit)]
		views = append(views, pantryItemView{
			PantryItem:    item,
			TotalQuantity: item.TotalQuantity(),
			Reserved:      r,
			Available:     item.TotalQuantity() - r,
		})
	}
	return views
}

// ListPantry returns the household's pantry with reservation-adjusted
// availability per item.
func (h *Handler) ListPantry(c *fiber.Ctx) error {
	bundle, err := h.loadState(c)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to load pantry")
	}
	derived := bundle.state().Recalculate()
	return Success(c, pantryViews(bundle.Items, derived.Reserved))
}

// GetPantryItem returns one item
func (h *Handler) GetPantryItem(c *fiber.Ctx) error {
	item, err := h.db.GetPantryItem(c.Context(), c.Params("id"), middleware.GetHouseholdID(c))
	if err != nil {
		if errors.Is(err, database.ErrPantryItemNotFound) {
			return Error(c, fiber.StatusNotFound, "pantry item not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to load pantry item")
	}
	return Success(c, item)
}

// CreatePantryItem adds an item
func (h *Handler) CreatePantryItem(c *fiber.Ctx) error {
	var req models.CreatePantryItemRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if req.Name == "" {
		return Error(c, fiber.StatusBadRequest, "name is required")
	}
	if err := h.validateQuantities(req.Locations); err != nil {
		return Error(c, fiber.StatusBadRequest, err.Error())
	}
	if err := h.validateOptions(c, req.Category, req.Locations); err != nil {
		return Error(c, fiber.StatusBadRequest, err.Error())
	}

	item, err := h.db.CreatePantryItem(c.Context(), middleware.GetHouseholdID(c), &req)
	if err != nil {
		if errors.Is(err, database.ErrPantryItemExists) {
			return Error(c, fiber.StatusConflict, "an item with this name and unit already exists")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to create pantry item")
	}

	h.notify(c, models.ResourcePantry, "INSERT")
	return c.Status(fiber.StatusCreated).JSON(APIResponse{Success: true, Data: item})
}

// UpdatePantryItem patches an item
func (h *Handler) UpdatePantryItem(c *fiber.Ctx) error {
	var req models.UpdatePantryItemRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validateQuantities(req.Locations); err != nil {
		return Error(c, fiber.StatusBadRequest, err.Error())
	}
	category := ""
	if req.Category != nil {
		category = *req.Category
	}
	if err := h.validateOptions(c, category, req.Locations); err != nil {
		return Error(c, fiber.StatusBadRequest, err.Error())
	}

	item, err := h.db.UpdatePantryItem(c.Context(), c.Params("id"), middleware.GetHouseholdID(c), &req)
	if err != nil {
		if errors.Is(err, database.ErrPantryItemNotFound) {
			return Error(c, fiber.StatusNotFound, "pantry item not found")
		}
		if errors.Is(err, database.ErrPantryItemExists) {
			return Error(c, fiber.StatusConflict, "an item with this name and unit already exists")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to update pantry item")
	}

	h.notify(c, models.ResourcePantry, "UPDATE")
	return Success(c, item)
}

// DeletePantryItem removes an item
func (h *Handler) DeletePantryItem(c *fiber.Ctx) error {
	err := h.db.DeletePantryItem(c.Context(), c.Params("id"), middleware.GetHouseholdID(c))
	if err != nil {
		if errors.Is(err, database.ErrPantryItemNotFound) {
			return Error(c, fiber.StatusNotFound, "pantry item not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to delete pantry item")
	}

	h.notify(c, models.ResourcePantry, "DELETE")
	return Success(c, fiber.Map{"deleted": true})
}

type depleteRequest struct {
	Quantity float64 `json:"quantity"`
}

// DepletePantryItem is the quick-use action: subtract a quantity from an
// item, consuming locations in list order and clamping at zero.
func (h *Handler) DepletePantryItem(c *fiber.Ctx) error {
	var req depleteRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if req.Quantity <= 0 {
		return Error(c, fiber.StatusBadRequest, "quantity must be positive")
	}

	householdID := middleware.GetHouseholdID(c)
	item, err := h.db.GetPantryItem(c.Context(), c.Params("id"), householdID)
	if err != nil {
		if errors.Is(err, database.ErrPantryItemNotFound) {
			return Error(c, fiber.StatusNotFound, "pantry item not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to load pantry item")
	}

	ledger := engine.NewLedger([]*models.PantryItem{item})
	ledger.Deplete(item, req.Quantity)

	if err := h.db.SavePantryItems(c.Context(), householdID, []*models.PantryItem{item}); err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to save pantry item")
	}

	h.notify(c, models.ResourcePantry, "UPDATE")
	return Success(c, item)
}

// BulkAddPurchases applies a batch of purchases outside of checkout, e.g.
// after an unplanned store run.
func (h *Handler) BulkAddPurchases(c *fiber.Ctx) error {
	var purchases []models.Purchase
	if err := c.BodyParser(&purchases); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if len(purchases) == 0 {
		return Error(c, fiber.StatusBadRequest, "no purchases given")
	}
	for _, p := range purchases {
		if p.Name == "" || p.Quantity <= 0 {
			return Error(c, fiber.StatusBadRequest, "each purchase needs a name and positive quantity")
		}
	}

	householdID := middleware.GetHouseholdID(c)
	items, err := h.db.ListPantryItems(c.Context(), householdID)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to load pantry")
	}

	ledger := engine.NewLedger(items)
	touched := make(map[*models.PantryItem]struct{})
	for _, p := range purchases {
		item, _ := ledger.UpsertFromPurchase(p)
		touched[item] = struct{}{}
	}

	changed := make([]*models.PantryItem, 0, len(touched))
	for item := range touched {
		changed = append(changed, item)
	}
	if err := h.db.SavePantryItems(c.Context(), householdID, changed); err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to save purchases")
	}

	h.notify(c, models.ResourcePantry, "UPDATE")
	return Success(c, fiber.Map{"applied": len(purchases)})
}

// ListUnits returns the distinct units and ingredient names across the
// pantry and recipe book, for autocomplete when adding items.
func (h *Handler) ListUnits(c *fiber.Ctx) error {
	bundle, err := h.loadState(c)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to load suggestions")
	}
	units, names := engine.UnitHints(bundle.Items, bundle.Recipes)
	return Success(c, fiber.Map{
		"units":            units,
		"ingredient_names": names,
	})
}

func (h *Handler) validateQuantities(locs []models.Location) error {
	for _, loc := range locs {
		if loc.Quantity < 0 {
			return errors.New("location quantities cannot be negative")
		}
	}
	return nil
}

// validateOptions checks category and storage locations against the
// household's configured option sets. Empty values pass; the option sets
// are data, not a type system.
func (h *Handler) validateOptions(c *fiber.Ctx, category string, locs []models.Location) error {
	settings, err := h.db.GetSettings(c.Context(), middleware.GetHouseholdID(c))
	if err != nil {
		return errors.New("failed to load household settings")
	}
	if category != "" && !settings.HasCategory(category) {
		return errors.New("unknown category: " + category)
	}
	for _, loc := range locs {
		if loc.Place != "" && !settings.HasLocation(loc.Place) {
			return errors.New("unknown storage location: " + loc.Place)
		}
	}
	return nil
}
