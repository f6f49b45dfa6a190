package service

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/pageza/epicourier/backend/internal/model"
	"github.com/pageza/epicourier/backend/internal/recommend"
)

// CatalogService reads the recipe catalog from the database. It implements
// recommend.CatalogProvider.
type CatalogService struct {
	db *gorm.DB
}

// NewCatalogService creates a catalog reader over db.
func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// Recipes loads every recipe with its ingredients and tags. The five
// catalog tables are read concurrently and joined in memory. Recipes are
// returned in ID order; ingredients and tags in ID order within a recipe.
func (s *CatalogService) Recipes(ctx context.Context) ([]recommend.Recipe, error) {
	var (
		recipes     []model.Recipe
		ingredients []model.Ingredient
		tags        []model.RecipeTag
		ingMap      []model.RecipeIngredientMap
		tagMap      []model.RecipeTagMap
	)

	g, gctx := errgroup.WithContext(ctx)
	db := s.db.WithContext(gctx)
	g.Go(func() error {
		if err := db.Select("id", "name", "description").Order("id").Find(&recipes).Error; err != nil {
			return fmt.Errorf("failed to load recipes: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := db.Find(&ingredients).Error; err != nil {
			return fmt.Errorf("failed to load ingredients: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := db.Find(&tags).Error; err != nil {
			return fmt.Errorf("failed to load recipe tags: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := db.Order("recipe_id, ingredient_id").Find(&ingMap).Error; err != nil {
			return fmt.Errorf("failed to load recipe ingredient map: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := db.Order("recipe_id, tag_id").Find(&tagMap).Error; err != nil {
			return fmt.Errorf("failed to load recipe tag map: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return assembleCatalog(recipes, ingredients, tags, ingMap, tagMap), nil
}

// assembleCatalog joins the catalog tables. Map rows pointing at unknown
// ingredients or tags are skipped.
func assembleCatalog(
	recipes []model.Recipe,
	ingredients []model.Ingredient,
	tags []model.RecipeTag,
	ingMap []model.RecipeIngredientMap,
	tagMap []model.RecipeTagMap,
) []recommend.Recipe {
	ingNames := make(map[int64]string, len(ingredients))
	for _, ing := range ingredients {
		ingNames[ing.ID] = ing.Name
	}
	tagNames := make(map[int64]string, len(tags))
	for _, t := range tags {
		tagNames[t.ID] = t.Name
	}

	out := make([]recommend.Recipe, len(recipes))
	index := make(map[int64]int, len(recipes))
	for i, r := range recipes {
		out[i] = recommend.Recipe{
			ID:            r.ID,
			Name:          r.Name,
			Description:   r.Description,
			Ingredients:   []string{},
			Tags:          []string{},
			IngredientIDs: []int64{},
		}
		index[r.ID] = i
	}

	for _, m := range ingMap {
		i, ok := index[m.RecipeID]
		if !ok {
			continue
		}
		name, ok := ingNames[m.IngredientID]
		if !ok {
			continue
		}
		out[i].Ingredients = append(out[i].Ingredients, name)
		out[i].IngredientIDs = append(out[i].IngredientIDs, m.IngredientID)
	}
	for _, m := range tagMap {
		i, ok := index[m.RecipeID]
		if !ok {
			continue
		}
		if name, ok := tagNames[m.TagID]; ok {
			out[i].Tags = append(out[i].Tags, name)
		}
	}
	return out
}
