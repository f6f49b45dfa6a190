package recommend

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func goalCatalog() []Recipe {
	return []Recipe{
		{ID: 1, Name: "Grilled Chicken", Description: "chicken", Tags: []string{"protein"}},
		{ID: 2, Name: "Greek Salad", Description: "salad", Tags: []string{"vegetable"}},
		{ID: 3, Name: "Beef Stew", Description: "beef", Tags: []string{"protein"}},
		{ID: 4, Name: "Chocolate Cake", Description: "cake", Tags: []string{"dessert"}},
	}
}

func goalEmbedder() *keywordEmbedder {
	e := clusteredEmbedder()
	e.keys = append([]string{"protein goal"}, e.keys...)
	e.vectors["protein goal"] = []float32{1, 0, 0}
	return e
}

func TestExpandGoal(t *testing.T) {
	ctx := context.Background()

	t.Run("should fall back when no model is configured", func(t *testing.T) {
		got, err := ExpandGoal(ctx, &stubCompleter{}, "lose weight")
		require.NoError(t, err)
		assert.Equal(t, "Meal plan personalized for your goal: lose weight", got)

		got, err = ExpandGoal(ctx, nil, "lose weight")
		require.NoError(t, err)
		assert.Equal(t, GoalFallback("lose weight"), got)
	})

	t.Run("should return the trimmed model answer", func(t *testing.T) {
		lm := &stubCompleter{configured: true, response: "  calories_kcal: 1800\n"}
		got, err := ExpandGoal(ctx, lm, "lose weight")
		require.NoError(t, err)
		assert.Equal(t, "calories_kcal: 1800", got)
		assert.Contains(t, lm.prompts[0], "**GOAL:** lose weight")
	})

	t.Run("should surface model failures as upstream errors", func(t *testing.T) {
		lm := &stubCompleter{configured: true, err: errors.New("timeout")}
		_, err := ExpandGoal(ctx, lm, "lose weight")
		assert.ErrorIs(t, err, ErrUpstream)

		var ue *UpstreamError
		require.ErrorAs(t, err, &ue)
		assert.Equal(t, "llm", ue.Service)
	})
}

func TestRankBySimilarity(t *testing.T) {
	recipes := goalCatalog()
	vectors := [][]float32{{1, 0}, {0, 1}, {1, 0}, {-1, 0}}

	got := RankBySimilarity(recipes, vectors, []float32{1, 0}, 3)
	require.Len(t, got, 3)
	assert.Equal(t, []int64{1, 3, 2}, ids(got), "ties keep catalog order")
	assert.InDelta(t, 1.0, got[0].Similarity, 1e-9)
	assert.Equal(t, got[0].Similarity, got[0].Score)

	assert.Len(t, RankBySimilarity(recipes, vectors, []float32{1, 0}, 0), 4, "default top k")

	t.Run("should skip recipes without a vector", func(t *testing.T) {
		got := RankBySimilarity(recipes, vectors[:2], []float32{1, 0}, 10)
		assert.Equal(t, []int64{1, 2}, ids(got))
	})
}

func TestRankByGoalServices(t *testing.T) {
	ctx := context.Background()

	t.Run("should rank the catalog by similarity to the expanded goal", func(t *testing.T) {
		svc := Services{
			Catalog:   staticCatalog{recipes: goalCatalog()},
			Embedder:  goalEmbedder(),
			Completer: &stubCompleter{configured: true, response: "protein goal"},
		}
		ranked, expanded, err := rankByGoal(ctx, svc, "build muscle", 2)
		require.NoError(t, err)
		assert.Equal(t, "protein goal", expanded)
		assert.Equal(t, []int64{1, 3}, ids(ranked))
	})

	t.Run("should handle an empty catalog", func(t *testing.T) {
		lm := &stubCompleter{configured: true}
		svc := Services{Catalog: staticCatalog{}, Embedder: goalEmbedder(), Completer: lm}
		ranked, expanded, err := rankByGoal(ctx, svc, "build muscle", 20)
		require.NoError(t, err)
		assert.Empty(t, ranked)
		assert.Equal(t, "No recipes available", expanded)
		assert.Empty(t, lm.prompts)
	})

	t.Run("should wrap catalog failures", func(t *testing.T) {
		svc := Services{Catalog: staticCatalog{err: errors.New("db down")}, Embedder: goalEmbedder()}
		_, _, err := rankByGoal(ctx, svc, "build muscle", 20)
		assert.ErrorIs(t, err, ErrUpstream)
	})

	t.Run("should reject goal and recipe vectors of different dimensions", func(t *testing.T) {
		emb := goalEmbedder()
		emb.vectors["protein goal"] = []float32{1, 0}
		svc := Services{
			Catalog:   staticCatalog{recipes: goalCatalog()},
			Embedder:  emb,
			Completer: &stubCompleter{configured: true, response: "protein goal"},
		}
		_, _, err := rankByGoal(ctx, svc, "build muscle", 20)
		assert.ErrorIs(t, err, ErrUpstream)
		assert.Contains(t, err.Error(), "dimensions")
	})

	t.Run("should wrap embedding failures", func(t *testing.T) {
		emb := goalEmbedder()
		emb.err = errors.New("model offline")
		svc := Services{Catalog: staticCatalog{recipes: goalCatalog()}, Embedder: emb}
		_, _, err := rankByGoal(ctx, svc, "build muscle", 20)
		assert.ErrorIs(t, err, ErrUpstream)
	})
}
