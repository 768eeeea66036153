package models

// ResourceClass names one of the four shared resource groups a change
// notification can refer to. Clients reload the whole class on a change
// rather than merging deltas.
type ResourceClass string

const (
	ResourcePantry   ResourceClass = "pantry"
	ResourceRecipes  ResourceClass = "recipes"
	ResourceMeals    ResourceClass = "meals"
	ResourceShopping ResourceClass = "shopping"
)

// ChangeEvent is one notification on a household's event channel.
type ChangeEvent struct {
	ResourceClass ResourceClass `json:"resource_class"`
	EventType     string        `json:"event_type"` // INSERT, UPDATE, DELETE
}
