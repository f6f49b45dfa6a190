package main

import (
	"context"
	"flag"

	"github.com/pageza/epicourier/backend/config"
	"github.com/pageza/epicourier/backend/internal/logging"
	"github.com/pageza/epicourier/backend/internal/seed"
	"github.com/pageza/epicourier/backend/internal/service"
)

func main() {
	snapshot := flag.Bool("snapshot", false, "Also upload the catalog as a JSON snapshot to S3")
	flag.Parse()

	log := logging.WithComponent("seed")
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	ctx := context.Background()
	provider := service.NewProvider(cfg)
	defer provider.Close()

	db, err := provider.DB()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}

	catalog := seed.Build(seed.Samples)
	if err := seed.Insert(ctx, db, catalog, provider.Embedder()); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed recipes")
	}
	log.Info().
		Int("recipes", len(catalog.Recipes)).
		Int("ingredients", len(catalog.Ingredients)).
		Int("tags", len(catalog.Tags)).
		Msg("Seeded recipe catalog")

	if !*snapshot {
		return
	}
	s3cfg, err := config.NewS3Config(ctx, cfg.Catalog)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create S3 client")
	}
	snap := service.NewSnapshotCatalog(s3cfg.Client, s3cfg.BucketName, s3cfg.Key)
	if err := snap.UploadSnapshot(ctx, catalog.Engine); err != nil {
		log.Fatal().Err(err).Msg("Failed to upload snapshot")
	}
	log.Info().Str("bucket", s3cfg.BucketName).Str("key", s3cfg.Key).Msg("Uploaded catalog snapshot")
}
