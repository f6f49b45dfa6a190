package api

import (
	"math"

	"github.com/pageza/epicourier/backend/internal/recommend"
)

// RecommenderRequest is the body of POST /recommender.
type RecommenderRequest struct {
	Goal     string `json:"goal" binding:"required"`
	NumMeals int    `json:"numMeals" binding:"required,oneof=3 5 7"`
}

// RecommenderResponse is the meal plan returned by POST /recommender.
type RecommenderResponse struct {
	Recipes      []recommend.MealPlanEntry `json:"recipes"`
	GoalExpanded string                    `json:"goal_expanded"`
}

// InventoryItemRequest is one pantry entry of an inventory request.
type InventoryItemRequest struct {
	IngredientID   int64   `json:"ingredient_id" binding:"required,gt=0"`
	Name           string  `json:"name" binding:"required"`
	Quantity       float64 `json:"quantity" binding:"gte=0"`
	Unit           *string `json:"unit"`
	ExpirationDate *string `json:"expiration_date"`
}

// InventoryRecommendRequest is the body of POST /inventory-recommend.
type InventoryRecommendRequest struct {
	Inventory   []InventoryItemRequest `json:"inventory" binding:"required,min=1,dive"`
	Preferences string                 `json:"preferences"`
	NumRecipes  *int                   `json:"num_recipes" binding:"omitempty,min=1,max=10"`
}

func (r InventoryRecommendRequest) toEngine() recommend.InventoryRequest {
	items := make([]recommend.InventoryItem, len(r.Inventory))
	for i, it := range r.Inventory {
		items[i] = recommend.InventoryItem{
			IngredientID:   it.IngredientID,
			Name:           it.Name,
			Quantity:       it.Quantity,
			Unit:           deref(it.Unit),
			ExpirationDate: deref(it.ExpirationDate),
		}
	}
	req := recommend.InventoryRequest{
		Items:       items,
		Preferences: r.Preferences,
	}
	if r.NumRecipes != nil {
		req.NumRecipes = *r.NumRecipes
	}
	return req
}

// RecommendedRecipe is one inventory recommendation.
type RecommendedRecipe struct {
	RecipeID                int64    `json:"recipe_id"`
	RecipeName              string   `json:"recipe_name"`
	MatchScore              int      `json:"match_score"`
	Score                   float64  `json:"score"`
	Coverage                float64  `json:"coverage"`
	ExpirationBonus         float64  `json:"expiration_bonus"`
	IngredientsAvailable    []string `json:"ingredients_available"`
	IngredientsMissing      []string `json:"ingredients_missing"`
	ExpiringIngredientsUsed []string `json:"expiring_ingredients_used"`
	Reason                  string   `json:"reason"`
}

// InventoryRecommendResponse is returned by POST /inventory-recommend.
type InventoryRecommendResponse struct {
	Recommendations     []RecommendedRecipe `json:"recommendations"`
	ShoppingSuggestions []string            `json:"shopping_suggestions"`
	OverallReasoning    string              `json:"overall_reasoning"`
}

func newInventoryResponse(res *recommend.RecommendationResult) InventoryRecommendResponse {
	out := InventoryRecommendResponse{
		Recommendations:     make([]RecommendedRecipe, 0, len(res.Recipes)),
		ShoppingSuggestions: res.ShoppingSuggestions,
		OverallReasoning:    res.Summary,
	}
	if out.ShoppingSuggestions == nil {
		out.ShoppingSuggestions = []string{}
	}
	for _, c := range res.Recipes {
		expiring := make([]string, len(c.Expiring))
		for i, e := range c.Expiring {
			expiring[i] = e.Name
		}
		out.Recommendations = append(out.Recommendations, RecommendedRecipe{
			RecipeID:                c.Recipe.ID,
			RecipeName:              c.Recipe.Name,
			MatchScore:              int(math.Round(c.Coverage * 100)),
			Score:                   c.Score,
			Coverage:                c.Coverage,
			ExpirationBonus:         c.ExpirationBonus,
			IngredientsAvailable:    nonNil(c.Available),
			IngredientsMissing:      nonNil(c.MissingNames),
			ExpiringIngredientsUsed: expiring,
			Reason:                  c.Reason,
		})
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
