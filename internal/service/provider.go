package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/pageza/epicourier/backend/config"
	"github.com/pageza/epicourier/backend/internal/database"
	"github.com/pageza/epicourier/backend/internal/logging"
	"github.com/pageza/epicourier/backend/internal/recommend"
)

// Provider builds the process-wide collaborators lazily. Every accessor
// initialises its value at most once and is safe for concurrent use.
type Provider struct {
	cfg *config.Config
	log zerolog.Logger

	dbOnce sync.Once
	db     *gorm.DB
	dbErr  error

	redisOnce sync.Once
	redis     *redis.Client

	embedderOnce sync.Once
	embedder     recommend.Embedder

	completerOnce sync.Once
	completer     *LLMService

	catalogOnce sync.Once
	catalog     recommend.CatalogProvider
	catalogErr  error
}

// NewProvider creates a provider for cfg. Nothing is connected until an
// accessor is called.
func NewProvider(cfg *config.Config) *Provider {
	return &Provider{
		cfg: cfg,
		log: logging.WithComponent("provider"),
	}
}

// DB returns the catalog database.
func (p *Provider) DB() (*gorm.DB, error) {
	p.dbOnce.Do(func() {
		p.db, p.dbErr = database.Open(p.cfg.Database)
		if p.dbErr == nil && p.cfg.Database.Driver == "sqlite" {
			p.dbErr = database.AutoMigrate(p.db)
		}
	})
	return p.db, p.dbErr
}

// Redis returns the redis client, or nil when redis is not configured or
// not reachable. Callers treat a nil client as "no cache".
func (p *Provider) Redis() *redis.Client {
	p.redisOnce.Do(func() {
		if !p.cfg.Redis.Enabled() {
			return
		}
		client, err := database.NewRedisClient(context.Background(), p.cfg.Redis)
		if err != nil {
			p.log.Warn().Err(err).Msg("Redis unavailable, continuing without cache")
			return
		}
		p.redis = client
	})
	return p.redis
}

// Embedder returns the remote embedding client when an API URL is
// configured and the local hashing embedder otherwise.
func (p *Provider) Embedder() recommend.Embedder {
	p.embedderOnce.Do(func() {
		cfg := p.cfg.Embedding
		if !cfg.Remote() {
			p.log.Info().Int("dimensions", cfg.Dimensions).Msg("Using local hashed embeddings")
			p.embedder = NewHashEmbedder(cfg.Dimensions)
			return
		}
		cache := NewEmbeddingCache(p.Redis(), cfg.CacheTTL)
		p.embedder = NewEmbeddingService(cfg, &http.Client{Timeout: cfg.Timeout}, cache)
	})
	return p.embedder
}

// Completer returns the language model client.
func (p *Provider) Completer() *LLMService {
	p.completerOnce.Do(func() {
		p.completer = NewLLMService(p.cfg.LLM, &http.Client{Timeout: p.cfg.LLM.Timeout})
		if !p.completer.Configured() {
			p.log.Warn().Msg("LLM API key not set, goal expansion falls back to a template")
		}
	})
	return p.completer
}

// Catalog returns the recipe source selected by the catalog config.
func (p *Provider) Catalog(ctx context.Context) (recommend.CatalogProvider, error) {
	p.catalogOnce.Do(func() {
		switch p.cfg.Catalog.Source {
		case "s3":
			s3cfg, err := config.NewS3Config(ctx, p.cfg.Catalog)
			if err != nil {
				p.catalogErr = err
				return
			}
			p.catalog = NewSnapshotCatalog(s3cfg.Client, s3cfg.BucketName, s3cfg.Key)
		default:
			db, err := p.DB()
			if err != nil {
				p.catalogErr = fmt.Errorf("failed to open catalog database: %w", err)
				return
			}
			p.catalog = NewCatalogService(db)
		}
	})
	return p.catalog, p.catalogErr
}

// Services assembles the engine collaborators.
func (p *Provider) Services(ctx context.Context) (recommend.Services, error) {
	catalog, err := p.Catalog(ctx)
	if err != nil {
		return recommend.Services{}, err
	}
	return recommend.Services{
		Catalog:   catalog,
		Embedder:  p.Embedder(),
		Completer: p.Completer(),
	}, nil
}

// Close releases the connections that were opened.
func (p *Provider) Close() error {
	var errs []error
	if p.redis != nil {
		errs = append(errs, p.redis.Close())
	}
	if p.db != nil {
		if sqlDB, err := p.db.DB(); err == nil {
			errs = append(errs, sqlDB.Close())
		}
	}
	return errors.Join(errs...)
}
