package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jdudgeon1993/chefs-kiss/internal/config"
	"github.com/jdudgeon1993/chefs-kiss/internal/database"
	"github.com/jdudgeon1993/chefs-kiss/internal/engine"
	"github.com/jdudgeon1993/chefs-kiss/internal/events"
	"github.com/jdudgeon1993/chefs-kiss/internal/middleware"
	"github.com/jdudgeon1993/chefs-kiss/internal/models"
	"github.com/jdudgeon1993/chefs-kiss/internal/services"
)

// Handler holds all handler dependencies
type Handler struct {
	db      *database.DB
	cfg     *config.Config
	hub     *events.Hub
	storage *services.StorageService
}

// New creates a new Handler instance. storage may be nil when photo
// uploads are not configured.
func New(db *database.DB, cfg *config.Config, hub *events.Hub, storage *services.StorageService) *Handler {
	return &Handler{
		db:      db,
		cfg:     cfg,
		hub:     hub,
		storage: storage,
	}
}

// ErrorHandler is a custom error handler for Fiber
func ErrorHandler(c *fiber.Ctx, err error) error {
	// Default to 500
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	// Check if it's a Fiber error
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"error": message,
	})
}

// APIResponse is a standard API response structure
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Success returns a successful response
func Success(c *fiber.Ctx, data interface{}) error {
	return c.JSON(APIResponse{
		Success: true,
		Data:    data,
	})
}

// Error returns an error response
func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(APIResponse{
		Success: false,
		Error:   message,
	})
}

// notify publishes a change event for the caller's household after a
// successful mutation.
func (h *Handler) notify(c *fiber.Ctx, class models.ResourceClass, eventType string) {
	if h.hub == nil {
		return
	}
	h.hub.Publish(middleware.GetHouseholdID(c), models.ChangeEvent{
		ResourceClass: class,
		EventType:     eventType,
	})
}

// stateBundle is a household's full working set, loaded in one shot so
// every derived value in a response reflects the same data.
type stateBundle struct {
	Items   []*models.PantryItem
	Recipes []*models.Recipe
	Plans   []*models.MealPlanEntry
	Manual  []*models.ShoppingEntry
}

// loadState assembles the household's full working set for reconciliation.
func (h *Handler) loadState(c *fiber.Ctx) (*stateBundle, error) {
	householdID := middleware.GetHouseholdID(c)
	ctx := c.Context()

	items, err := h.db.ListPantryItems(ctx, householdID)
	if err != nil {
		return nil, err
	}
	recipes, err := h.db.ListRecipes(ctx, householdID)
	if err != nil {
		return nil, err
	}
	plans, err := h.db.ListMealPlans(ctx, householdID, nil, nil)
	if err != nil {
		return nil, err
	}
	manual, err := h.db.ListManualShoppingItems(ctx, householdID)
	if err != nil {
		return nil, err
	}

	return &stateBundle{
		Items:   items,
		Recipes: recipes,
		Plans:   plans,
		Manual:  manual,
	}, nil
}

func (b *stateBundle) state() *engine.State {
	return engine.NewState(b.Items, b.Recipes, b.Plans, b.Manual, models.Date{})
}
