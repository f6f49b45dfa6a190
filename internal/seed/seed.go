// Package seed loads the sample recipe catalog.
package seed

import (
	"context"
	"fmt"

	pgvector "github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/epicourier/backend/internal/model"
	"github.com/pageza/epicourier/backend/internal/recommend"
)

// SampleRecipe is a catalog entry with its ingredient and tag names.
type SampleRecipe struct {
	ID          int64
	Name        string
	Description string
	ImageURL    string
	MinPrepTime int
	GreenScore  float64
	Ingredients []string
	Tags        []string
}

// Samples is the default development catalog.
var Samples = []SampleRecipe{
	{
		ID:          1,
		Name:        "Grilled Chicken Breast",
		Description: "Lean protein source, perfect for muscle building",
		ImageURL:    "https://example.com/chicken.jpg",
		MinPrepTime: 15,
		GreenScore:  85.5,
		Ingredients: []string{"chicken breast", "olive oil", "garlic", "lemon", "black pepper"},
		Tags:        []string{"high-protein", "low-carb", "gluten-free"},
	},
	{
		ID:          2,
		Name:        "Greek Salad with Feta",
		Description: "Fresh vegetables with Mediterranean flavors",
		ImageURL:    "https://example.com/salad.jpg",
		MinPrepTime: 10,
		GreenScore:  95.0,
		Ingredients: []string{"cucumber", "tomato", "red onion", "feta cheese", "olive oil", "kalamata olives"},
		Tags:        []string{"vegetarian", "mediterranean", "quick"},
	},
	{
		ID:          3,
		Name:        "Salmon with Broccoli",
		Description: "Omega-3 rich fish with nutrient-dense vegetables",
		ImageURL:    "https://example.com/salmon.jpg",
		MinPrepTime: 10,
		GreenScore:  88.0,
		Ingredients: []string{"salmon fillet", "broccoli", "olive oil", "lemon", "garlic"},
		Tags:        []string{"high-protein", "pescatarian", "heart-healthy"},
	},
	{
		ID:          4,
		Name:        "Quinoa Bowl",
		Description: "Complete protein with whole grains",
		ImageURL:    "https://example.com/quinoa.jpg",
		MinPrepTime: 15,
		GreenScore:  92.0,
		Ingredients: []string{"quinoa", "black beans", "avocado", "tomato", "lime", "cilantro"},
		Tags:        []string{"vegan", "high-fiber", "gluten-free"},
	},
	{
		ID:          5,
		Name:        "Egg White Omelet",
		Description: "High protein, low fat breakfast",
		ImageURL:    "https://example.com/omelet.jpg",
		MinPrepTime: 10,
		GreenScore:  80.0,
		Ingredients: []string{"egg whites", "spinach", "mushrooms", "tomato", "black pepper"},
		Tags:        []string{"breakfast", "high-protein", "low-fat"},
	},
}

// Catalog assigns ingredient and tag IDs in first-seen order and returns
// the rows to insert alongside the engine view of every recipe.
type Catalog struct {
	Recipes     []model.Recipe
	Ingredients []model.Ingredient
	Tags        []model.RecipeTag
	IngMap      []model.RecipeIngredientMap
	TagMap      []model.RecipeTagMap
	Engine      []recommend.Recipe
}

// Build normalises samples into catalog rows.
func Build(samples []SampleRecipe) Catalog {
	var c Catalog
	ingIDs := map[string]int64{}
	tagIDs := map[string]int64{}

	for _, s := range samples {
		c.Recipes = append(c.Recipes, model.Recipe{
			ID:          s.ID,
			Name:        s.Name,
			Description: s.Description,
			ImageURL:    s.ImageURL,
			MinPrepTime: s.MinPrepTime,
			GreenScore:  s.GreenScore,
		})
		er := recommend.Recipe{
			ID:            s.ID,
			Name:          s.Name,
			Description:   s.Description,
			Ingredients:   []string{},
			Tags:          []string{},
			IngredientIDs: []int64{},
		}

		for _, name := range s.Ingredients {
			id, ok := ingIDs[name]
			if !ok {
				id = int64(len(ingIDs) + 1)
				ingIDs[name] = id
				c.Ingredients = append(c.Ingredients, model.Ingredient{ID: id, Name: name})
			}
			c.IngMap = append(c.IngMap, model.RecipeIngredientMap{RecipeID: s.ID, IngredientID: id})
			er.Ingredients = append(er.Ingredients, name)
			er.IngredientIDs = append(er.IngredientIDs, id)
		}
		for _, name := range s.Tags {
			id, ok := tagIDs[name]
			if !ok {
				id = int64(len(tagIDs) + 1)
				tagIDs[name] = id
				c.Tags = append(c.Tags, model.RecipeTag{ID: id, Name: name})
			}
			c.TagMap = append(c.TagMap, model.RecipeTagMap{RecipeID: s.ID, TagID: id})
			er.Tags = append(er.Tags, name)
		}
		c.Engine = append(c.Engine, er)
	}
	return c
}

// Insert upserts the catalog in one transaction. When emb is not nil each
// recipe's composite text is embedded and stored with it.
func Insert(ctx context.Context, db *gorm.DB, c Catalog, emb recommend.Embedder) error {
	if emb != nil && len(c.Engine) > 0 {
		texts := make([]string, len(c.Engine))
		for i, r := range c.Engine {
			texts[i] = r.CompositeText()
		}
		vectors, err := emb.EmbedBatch(ctx, texts)
		if err != nil {
			return fmt.Errorf("failed to embed recipes: %w", err)
		}
		for i := range c.Recipes {
			v := pgvector.NewVector(vectors[i])
			c.Recipes[i].Embedding = &v
		}
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		upsert := clause.OnConflict{UpdateAll: true}
		ignore := clause.OnConflict{DoNothing: true}
		if err := tx.Clauses(upsert).Create(&c.Ingredients).Error; err != nil {
			return fmt.Errorf("failed to insert ingredients: %w", err)
		}
		if err := tx.Clauses(upsert).Create(&c.Tags).Error; err != nil {
			return fmt.Errorf("failed to insert tags: %w", err)
		}
		if err := tx.Clauses(upsert).Create(&c.Recipes).Error; err != nil {
			return fmt.Errorf("failed to insert recipes: %w", err)
		}
		if err := tx.Clauses(ignore).Create(&c.IngMap).Error; err != nil {
			return fmt.Errorf("failed to insert recipe ingredients: %w", err)
		}
		if err := tx.Clauses(ignore).Create(&c.TagMap).Error; err != nil {
			return fmt.Errorf("failed to insert recipe tags: %w", err)
		}
		return nil
	})
}
