package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pageza/epicourier/backend/config"
	"github.com/pageza/epicourier/backend/internal/api"
	"github.com/pageza/epicourier/backend/internal/database"
	"github.com/pageza/epicourier/backend/internal/logging"
	"github.com/pageza/epicourier/backend/internal/recommend"
	"github.com/pageza/epicourier/backend/internal/server"
	"github.com/pageza/epicourier/backend/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: !config.IsProduction(),
		Output: os.Stdout,
	})
	log := logging.WithComponent("main")
	log.Info().Str("environment", string(cfg.Environment)).Msg("Configuration loaded")

	ctx := context.Background()
	provider := service.NewProvider(cfg)
	defer func() {
		if err := provider.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close connections")
		}
	}()

	svc, err := provider.Services(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize recommendation services")
	}
	engine, err := recommend.NewEngine(svc, cfg.Recommend, logging.Logger())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create recommendation engine")
	}

	checks := map[string]api.HealthChecker{}
	if cfg.Catalog.Source != "s3" {
		db, err := provider.DB()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to database")
		}
		checks["database"] = func(ctx context.Context) error {
			return database.HealthCheck(ctx, db)
		}
	}
	rdb := provider.Redis()
	if rdb != nil {
		checks["redis"] = func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}
	}

	srv := server.New(cfg.Server, api.NewRecommendHandler(engine), checks, rdb)

	// Channel to listen for errors coming from the server
	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			log.Fatal().Err(err).Msg("Server error")
		}
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("Received signal")
	}

	log.Info().Msg("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown error")
	}
	log.Info().Msg("Server stopped")
}
