package service

import "github.com/pageza/epicourier/backend/internal/recommend"

var (
	_ recommend.Completer       = (*LLMService)(nil)
	_ recommend.Embedder        = (*EmbeddingService)(nil)
	_ recommend.Embedder        = (*HashEmbedder)(nil)
	_ recommend.CatalogProvider = (*CatalogService)(nil)
	_ recommend.CatalogProvider = (*SnapshotCatalog)(nil)
)
