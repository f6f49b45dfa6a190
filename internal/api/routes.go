package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthChecker reports whether a dependency is reachable.
type HealthChecker func(ctx context.Context) error

// HealthCheck returns the health status of the API. Every checker is run
// with a short timeout; any failure reports the service as degraded.
func HealthCheck(checks map[string]HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		results := make(map[string]string, len(checks))
		for name, check := range checks {
			if err := check(ctx); err != nil {
				results[name] = err.Error()
				status = http.StatusServiceUnavailable
				continue
			}
			results[name] = "ok"
		}

		body := gin.H{
			"status":  "healthy",
			"message": "Epicourier recommender is running",
			"checks":  results,
		}
		if status != http.StatusOK {
			body["status"] = "degraded"
		}
		c.JSON(status, body)
	}
}

// RegisterRoutes registers all API routes
func RegisterRoutes(router *gin.Engine, handler *RecommendHandler, checks map[string]HealthChecker, limiters ...gin.HandlerFunc) {
	router.GET("/health", HealthCheck(checks))
	router.GET("/api/health", HealthCheck(checks))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	v1.Use(limiters...)
	handler.RegisterRoutes(v1)
}
