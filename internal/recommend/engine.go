package recommend

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pageza/epicourier/backend/internal/metrics"
)

const (
	modeGoal      = "goal"
	modeInventory = "inventory"
)

// InventoryRequest asks for recipes that use a pantry.
type InventoryRequest struct {
	Items       []InventoryItem
	Preferences string
	NumRecipes  int

	// ReferenceDate anchors expiration math. Zero means now.
	ReferenceDate time.Time
}

// Engine ties the scoring functions to the catalog, embedding and language
// model services. It holds no per-request state and is safe for concurrent
// use.
type Engine struct {
	svc    Services
	cfg    Config
	logger zerolog.Logger
	now    func() time.Time
}

// NewEngine validates cfg and returns an engine using svc.
func NewEngine(svc Services, cfg Config, logger zerolog.Logger) (*Engine, error) {
	if cfg.Seed == 0 {
		cfg.Seed = kmeansSeed
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid recommend config: %w", err)
	}
	if svc.Catalog == nil || svc.Embedder == nil {
		return nil, errServicesMissing
	}
	return &Engine{
		svc:    svc,
		cfg:    cfg,
		logger: logger.With().Str("component", "recommend").Logger(),
		now:    time.Now,
	}, nil
}

// Config returns the engine's configuration.
func (e *Engine) Config() Config { return e.cfg }

// RankByGoal ranks the catalog against a free-text goal and returns the top
// topK candidates with the expanded goal text. topK <= 0 uses the
// configured default.
func (e *Engine) RankByGoal(ctx context.Context, goal string, topK int) ([]ScoredCandidate, string, error) {
	if topK <= 0 {
		topK = e.cfg.TopK
	}
	return rankByGoal(ctx, e.svc, goal, topK)
}

// Diversify reduces candidates to at most count mutually dissimilar ones.
// If clustering fails the engine falls back to the top count by Score.
func (e *Engine) Diversify(ctx context.Context, candidates []ScoredCandidate, count int) []ScoredCandidate {
	out, err := SelectDiverse(ctx, e.svc.Embedder, candidates, count, e.cfg.Seed)
	if err != nil {
		metrics.DiversityFallbacks.Inc()
		e.logger.Warn().Err(err).
			Int("candidates", len(candidates)).
			Int("count", count).
			Msg("diversity selection failed, truncating by score")
		return TopN(candidates, count)
	}
	return out
}

// CreateMealPlan builds a meal plan of numMeals diverse recipes for goal.
func (e *Engine) CreateMealPlan(ctx context.Context, goal string, numMeals int) (plan *MealPlan, err error) {
	start := time.Now()
	requestID := uuid.NewString()
	log := e.logger.With().Str("request_id", requestID).Str("mode", modeGoal).Logger()
	defer func() { metrics.RecordRecommendation(modeGoal, time.Since(start), err) }()

	goal = strings.TrimSpace(goal)
	if goal == "" {
		return nil, fmt.Errorf("%w: goal must not be empty", ErrInvalidRequest)
	}
	if numMeals <= 0 {
		return nil, fmt.Errorf("%w: numMeals must be positive", ErrInvalidRequest)
	}

	ranked, expanded, err := e.RankByGoal(ctx, goal, e.cfg.TopK)
	if err != nil {
		log.Error().Err(err).Msg("goal ranking failed")
		return nil, err
	}
	metrics.RecommendCandidates.WithLabelValues(modeGoal).Observe(float64(len(ranked)))

	diverse := e.Diversify(ctx, ranked, numMeals)

	plan = &MealPlan{
		RequestID:    requestID,
		Meals:        make([]MealPlanEntry, 0, len(diverse)),
		ExpandedGoal: expanded,
	}
	reason := fmt.Sprintf("Selected because it aligns with goal '%s' and differs from other meals.", goal)
	for i, c := range diverse {
		id := c.Recipe.ID
		if id == 0 {
			id = int64(i + 1)
		}
		ings := c.Recipe.Ingredients
		if len(ings) > 10 {
			ings = ings[:10]
		}
		plan.Meals = append(plan.Meals, MealPlanEntry{
			ID:              id,
			MealNumber:      i + 1,
			Name:            c.Recipe.Name,
			Tags:            nonNil(c.Recipe.Tags),
			KeyIngredients:  nonNil(ings),
			Reason:          reason,
			SimilarityScore: math.Round(c.Similarity*1000) / 1000,
			Recipe:          c.Recipe.CompositeText(),
		})
	}

	log.Info().
		Int("ranked", len(ranked)).
		Int("meals", len(plan.Meals)).
		Dur("elapsed", time.Since(start)).
		Msg("meal plan created")
	return plan, nil
}

// RecommendFromInventory recommends recipes that make the best use of the
// pantry in req.
func (e *Engine) RecommendFromInventory(ctx context.Context, req InventoryRequest) (res *RecommendationResult, err error) {
	start := time.Now()
	requestID := uuid.NewString()
	log := e.logger.With().Str("request_id", requestID).Str("mode", modeInventory).Logger()
	defer func() { metrics.RecordRecommendation(modeInventory, time.Since(start), err) }()

	n := req.NumRecipes
	if n == 0 {
		n = e.cfg.DefaultNumRecipes
	}
	if n < 0 || n > e.cfg.MaxNumRecipes {
		return nil, fmt.Errorf("%w: num_recipes must be between 1 and %d", ErrInvalidRequest, e.cfg.MaxNumRecipes)
	}

	res = &RecommendationResult{
		RequestID:           requestID,
		Recipes:             []ScoredCandidate{},
		ShoppingSuggestions: []string{},
	}
	if len(req.Items) == 0 {
		res.Summary = "Your inventory is empty. Add some ingredients to get recipe recommendations."
		return res, nil
	}

	ref := req.ReferenceDate
	if ref.IsZero() {
		ref = e.now()
	}
	pantry := NewPantry(req.Items)

	catalog, err := e.svc.Catalog.Recipes(ctx)
	if err != nil {
		err = upstream("catalog", "load recipes", err)
		log.Error().Err(err).Msg("catalog fetch failed")
		return nil, err
	}

	scored := ScoreByInventory(pantry, catalog, ref)
	metrics.RecommendCandidates.WithLabelValues(modeInventory).Observe(float64(len(scored)))

	if strings.TrimSpace(req.Preferences) != "" {
		filtered, ferr := FilterByPreference(ctx, e.svc.Completer, scored, req.Preferences)
		if ferr != nil {
			metrics.PreferenceFailOpen.Inc()
			log.Warn().Err(ferr).Str("preferences", req.Preferences).Msg("preference filter skipped")
		}
		scored = filtered
	}

	final := e.Diversify(ctx, scored, n)
	for i := range final {
		c := &final[i]
		c.Reason = GenerateReasoning(c.Coverage, c.Expiring, c.MissingNames)
	}

	res.Recipes = final
	res.ShoppingSuggestions = ShoppingSuggestions(final, e.cfg.ShoppingSuggestions)
	res.Summary = inventorySummary(final, len(pantry))

	log.Info().
		Int("pantry", len(pantry)).
		Int("scored", len(scored)).
		Int("recommended", len(final)).
		Dur("elapsed", time.Since(start)).
		Msg("inventory recommendation complete")
	return res, nil
}

func inventorySummary(recipes []ScoredCandidate, pantrySize int) string {
	if len(recipes) == 0 {
		return "None of the available recipes use your current inventory."
	}

	noun := "recipes"
	if len(recipes) == 1 {
		noun = "recipe"
	}
	items := "ingredients"
	if pantrySize == 1 {
		items = "ingredient"
	}
	parts := []string{fmt.Sprintf("Found %d %s using the %d %s in your inventory", len(recipes), noun, pantrySize, items)}

	complete, expiring := 0, 0
	for _, c := range recipes {
		if c.Coverage >= 1 {
			complete++
		}
		if len(c.Expiring) > 0 {
			expiring++
		}
	}
	if complete > 0 {
		parts = append(parts, fmt.Sprintf("%d can be made with what you have", complete))
	}
	if expiring > 0 {
		parts = append(parts, fmt.Sprintf("%d use ingredients that expire within a week", expiring))
	}
	return strings.Join(parts, ". ") + "."
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
