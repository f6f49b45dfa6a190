package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/epicourier/backend/config"
	"github.com/pageza/epicourier/backend/internal/database"
	"github.com/pageza/epicourier/backend/internal/model"
	"github.com/pageza/epicourier/backend/internal/service"
)

func TestBuild(t *testing.T) {
	c := Build(Samples)

	assert.Len(t, c.Recipes, 5)
	assert.Len(t, c.Engine, 5)

	t.Run("should share ingredient IDs across recipes", func(t *testing.T) {
		names := map[int64]string{}
		for _, ing := range c.Ingredients {
			_, dup := names[ing.ID]
			require.False(t, dup)
			names[ing.ID] = ing.Name
		}
		chicken := c.Engine[0].IngredientNames()
		salmon := c.Engine[2].IngredientNames()
		var oil int64
		for id, n := range chicken {
			if n == "olive oil" {
				oil = id
			}
		}
		require.NotZero(t, oil)
		assert.Equal(t, "olive oil", salmon[oil])
	})

	t.Run("should keep ingredient names and IDs aligned", func(t *testing.T) {
		for _, r := range c.Engine {
			assert.Len(t, r.IngredientIDs, len(r.Ingredients))
		}
	})
}

func TestInsert(t *testing.T) {
	db, err := database.Open(config.DatabaseConfig{Driver: "sqlite", Path: "file::memory:"})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	ctx := context.Background()
	c := Build(Samples)
	require.NoError(t, Insert(ctx, db, c, service.NewHashEmbedder(8)))

	t.Run("should store embeddings", func(t *testing.T) {
		var r model.Recipe
		require.NoError(t, db.First(&r, 1).Error)
		require.NotNil(t, r.Embedding)
		assert.Len(t, r.Embedding.Slice(), 8)
	})

	t.Run("should be idempotent", func(t *testing.T) {
		require.NoError(t, Insert(ctx, db, Build(Samples), nil))

		var count int64
		require.NoError(t, db.Model(&model.Recipe{}).Count(&count).Error)
		assert.Equal(t, int64(5), count)
	})

	t.Run("should round-trip through the catalog service", func(t *testing.T) {
		recipes, err := service.NewCatalogService(db).Recipes(ctx)
		require.NoError(t, err)
		require.Len(t, recipes, 5)
		assert.Equal(t, c.Engine[0].Name, recipes[0].Name)
		assert.ElementsMatch(t, c.Engine[0].Ingredients, recipes[0].Ingredients)
		assert.ElementsMatch(t, c.Engine[0].Tags, recipes[0].Tags)
	})
}
