//go:build integration

package testdb

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/epicourier/backend/internal/database"
	"github.com/pageza/epicourier/backend/internal/model"
	"github.com/pageza/epicourier/backend/internal/seed"
	"github.com/pageza/epicourier/backend/internal/service"
)

const migrationsDir = "../../migrations"

func TestPostgresCatalog(t *testing.T) {
	tdb := SetupTestDB(t, migrationsDir)
	ctx := context.Background()

	catalog := seed.Build(seed.Samples)
	require.NoError(t, seed.Insert(ctx, tdb.DB, catalog, service.NewHashEmbedder(384)))

	t.Run("should load the seeded catalog", func(t *testing.T) {
		recipes, err := service.NewCatalogService(tdb.DB).Recipes(ctx)
		require.NoError(t, err)
		require.Len(t, recipes, len(seed.Samples))
		for i, r := range recipes {
			assert.Equal(t, catalog.Engine[i].ID, r.ID)
			assert.ElementsMatch(t, catalog.Engine[i].IngredientIDs, r.IngredientIDs)
		}
	})

	t.Run("should store pgvector embeddings", func(t *testing.T) {
		var r model.Recipe
		require.NoError(t, tdb.DB.First(&r, 3).Error)
		require.NotNil(t, r.Embedding)
		assert.Len(t, r.Embedding.Slice(), 384)
	})

	t.Run("should roll back the last migration", func(t *testing.T) {
		sqlDB, err := sql.Open("postgres", tdb.Config.DSN())
		require.NoError(t, err)
		defer sqlDB.Close()

		name, err := database.Rollback(ctx, sqlDB, migrationsDir)
		require.NoError(t, err)
		assert.Equal(t, "000002_add_recipe_embedding.sql", name)

		applied, err := database.RunMigrations(ctx, sqlDB, migrationsDir)
		require.NoError(t, err)
		assert.Equal(t, []string{"000002_add_recipe_embedding.sql"}, applied)
	})
}
