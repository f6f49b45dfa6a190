package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/epicourier/backend/config"
)

func testProviderConfig() *config.Config {
	return &config.Config{
		Database: config.DatabaseConfig{Driver: "sqlite", Path: "file::memory:"},
		Embedding: config.EmbeddingConfig{
			Model:      "all-MiniLM-L6-v2",
			Dimensions: 32,
		},
		Catalog: config.CatalogConfig{Source: "database"},
	}
}

func TestProvider(t *testing.T) {
	p := NewProvider(testProviderConfig())
	t.Cleanup(func() { _ = p.Close() })

	t.Run("should skip redis when not configured", func(t *testing.T) {
		assert.Nil(t, p.Redis())
	})

	t.Run("should fall back to hashed embeddings", func(t *testing.T) {
		emb := p.Embedder()
		h, ok := emb.(*HashEmbedder)
		require.True(t, ok)
		assert.Equal(t, 32, h.dim)
		assert.Same(t, h, p.Embedder())
	})

	t.Run("should report an unconfigured completer", func(t *testing.T) {
		assert.False(t, p.Completer().Configured())
		assert.Same(t, p.Completer(), p.Completer())
	})

	t.Run("should assemble services over the database catalog", func(t *testing.T) {
		svc, err := p.Services(context.Background())
		require.NoError(t, err)
		assert.IsType(t, &CatalogService{}, svc.Catalog)
		assert.NotNil(t, svc.Embedder)
		assert.NotNil(t, svc.Completer)

		recipes, err := svc.Catalog.Recipes(context.Background())
		require.NoError(t, err)
		assert.Empty(t, recipes)
	})
}

func TestProvider_DatabaseError(t *testing.T) {
	cfg := testProviderConfig()
	cfg.Database.Driver = "oracle"
	p := NewProvider(cfg)

	_, err := p.Services(context.Background())
	assert.Error(t, err)
}
