package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/pageza/epicourier/backend/config"
	"github.com/pageza/epicourier/backend/internal/api"
	"github.com/pageza/epicourier/backend/internal/logging"
	"github.com/pageza/epicourier/backend/internal/middleware"
)

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
	log    zerolog.Logger
}

// New wires the middleware chain and routes. rdb enables rate limiting
// on the recommendation routes and may be nil.
func New(cfg config.ServerConfig, handler *api.RecommendHandler, checks map[string]api.HealthChecker, rdb *redis.Client) *Server {
	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.ErrorHandler(),
		middleware.PrometheusMetrics(),
		middleware.CORS(cfg.CORSOrigins),
	)

	var limiters []gin.HandlerFunc
	if rdb != nil && cfg.RateLimit > 0 {
		rl := middleware.NewRecommendationRateLimiter(rdb, cfg.RateLimit, cfg.RateWindow)
		limiters = append(limiters, rl.RateLimitMiddleware())
	}
	api.RegisterRoutes(router, handler, checks, limiters...)

	return &Server{
		router: router,
		http: &http.Server{
			Addr:         cfg.Addr(),
			Handler:      router,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		log: logging.WithComponent("server"),
	}
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.http.Addr).Msg("Starting server")
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
