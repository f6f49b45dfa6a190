package recommend

import (
	"context"
	"fmt"
	"strings"
)

// Recipe is a catalog entry as seen by the engine. Recipes are read fresh
// for every request and never mutated by the engine.
type Recipe struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Ingredients []string `json:"ingredients"`
	Tags        []string `json:"tags"`

	// IngredientIDs is the recipe-ingredient mapping used for exact
	// coverage matching. IngredientIDs[i] is named Ingredients[i] when the
	// two slices have the same length.
	IngredientIDs []int64 `json:"ingredient_ids"`
}

// CompositeText is the text embedded for the recipe: description,
// ingredients and tags.
func (r Recipe) CompositeText() string {
	return fmt.Sprintf("%s. Ingredients: %s. Tags: %s.",
		r.Description,
		strings.Join(r.Ingredients, ", "),
		strings.Join(r.Tags, ", "))
}

// IngredientNames maps ingredient IDs to display names.
func (r Recipe) IngredientNames() map[int64]string {
	names := make(map[int64]string, len(r.IngredientIDs))
	if len(r.IngredientIDs) != len(r.Ingredients) {
		return names
	}
	for i, id := range r.IngredientIDs {
		names[id] = r.Ingredients[i]
	}
	return names
}

// InventoryItem is a single pantry entry.
type InventoryItem struct {
	IngredientID   int64   `json:"ingredient_id"`
	Name           string  `json:"name,omitempty"`
	Quantity       float64 `json:"quantity"`
	Unit           string  `json:"unit,omitempty"`
	ExpirationDate string  `json:"expiration_date,omitempty"`
}

// Pantry maps an ingredient ID to its inventory item.
type Pantry map[int64]InventoryItem

// NewPantry builds a pantry from a list of items. When the same ingredient
// appears more than once the last item in input order wins.
func NewPantry(items []InventoryItem) Pantry {
	p := make(Pantry, len(items))
	for _, item := range items {
		p[item.IngredientID] = item
	}
	return p
}

// ExpiringItem annotates a covered ingredient that expires soon.
type ExpiringItem struct {
	Name string `json:"name"`
	Days int    `json:"days"`
}

// ScoredCandidate is a recipe annotated with the scores of one
// recommendation call.
type ScoredCandidate struct {
	Recipe Recipe `json:"recipe"`

	Similarity        float64 `json:"similarity"`
	Coverage          float64 `json:"coverage"`
	ExpirationUrgency float64 `json:"expiration_urgency"`
	ExpirationBonus   float64 `json:"expiration_bonus"`

	// Score is the ordering field for ranking and diversity selection.
	Score float64 `json:"score"`

	Missing      []int64        `json:"missing,omitempty"`
	MissingNames []string       `json:"missing_names,omitempty"`
	Available    []string       `json:"available,omitempty"`
	Expiring     []ExpiringItem `json:"expiring,omitempty"`
	Reason       string         `json:"reason,omitempty"`
}

// RecommendationResult is the output of an inventory recommendation.
type RecommendationResult struct {
	RequestID           string            `json:"request_id"`
	Recipes             []ScoredCandidate `json:"recipes"`
	ShoppingSuggestions []string          `json:"shopping_suggestions"`
	Summary             string            `json:"summary"`
}

// MealPlanEntry is one meal of a goal-based meal plan.
type MealPlanEntry struct {
	ID              int64    `json:"id"`
	MealNumber      int      `json:"meal_number"`
	Name            string   `json:"name"`
	Tags            []string `json:"tags"`
	KeyIngredients  []string `json:"key_ingredients"`
	Reason          string   `json:"reason"`
	SimilarityScore float64  `json:"similarity_score"`
	Recipe          string   `json:"recipe"`
}

// MealPlan is the output of a goal recommendation.
type MealPlan struct {
	RequestID    string          `json:"request_id"`
	Meals        []MealPlanEntry `json:"recipes"`
	ExpandedGoal string          `json:"goal_expanded"`
}

// CatalogProvider returns the full recipe catalog.
type CatalogProvider interface {
	Recipes(ctx context.Context) ([]Recipe, error)
}

// Embedder turns text into fixed-length vectors. All vectors returned
// within a process lifetime share one dimensionality.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Completer is a text completion service. Configured reports whether the
// service has credentials; an unconfigured completer is never called.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Configured() bool
}

// Services bundles the collaborators an Engine depends on. It is built once
// at process start and shared by all requests.
type Services struct {
	Catalog   CatalogProvider
	Embedder  Embedder
	Completer Completer
}
