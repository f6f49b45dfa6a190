package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/pageza/epicourier/backend/internal/logging"
	"github.com/pageza/epicourier/backend/internal/middleware"
	"github.com/pageza/epicourier/backend/internal/recommend"
)

// Recommender is the engine surface used by the handlers.
type Recommender interface {
	CreateMealPlan(ctx context.Context, goal string, numMeals int) (*recommend.MealPlan, error)
	RecommendFromInventory(ctx context.Context, req recommend.InventoryRequest) (*recommend.RecommendationResult, error)
}

// RecommendHandler serves the recommendation endpoints.
type RecommendHandler struct {
	engine Recommender
	log    zerolog.Logger
}

// NewRecommendHandler creates a handler backed by engine.
func NewRecommendHandler(engine Recommender) *RecommendHandler {
	return &RecommendHandler{
		engine: engine,
		log:    logging.WithComponent("api"),
	}
}

// RegisterRoutes mounts the recommendation routes on router.
func (h *RecommendHandler) RegisterRoutes(router gin.IRoutes) {
	router.POST("/recommender", h.Recommend)
	router.POST("/inventory-recommend", h.InventoryRecommend)
}

// Recommend builds a diversified meal plan for a dietary goal.
func (h *RecommendHandler) Recommend(c *gin.Context) {
	var req RecommenderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}
	goal := strings.TrimSpace(req.Goal)
	if goal == "" {
		c.JSON(http.StatusBadRequest, middleware.ErrorResponse{Error: "Goal cannot be empty"})
		return
	}

	plan, err := h.engine.CreateMealPlan(c.Request.Context(), goal, req.NumMeals)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	meals := plan.Meals
	if meals == nil {
		meals = []recommend.MealPlanEntry{}
	}
	c.JSON(http.StatusOK, RecommenderResponse{
		Recipes:      meals,
		GoalExpanded: plan.ExpandedGoal,
	})
}

// InventoryRecommend ranks recipes against the caller's pantry.
func (h *RecommendHandler) InventoryRecommend(c *gin.Context) {
	var req InventoryRecommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	res, err := h.engine.RecommendFromInventory(c.Request.Context(), req.toEngine())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, newInventoryResponse(res))
}
