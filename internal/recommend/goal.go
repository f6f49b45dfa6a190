package recommend

import (
	"context"
	"fmt"
	"strings"
)

const (
	// DefaultTopK is how many catalog recipes goal ranking keeps.
	DefaultTopK = 20

	noRecipesText = "No recipes available"
)

// GoalFallback is the expanded goal used when no language model is
// configured.
func GoalFallback(goal string) string {
	return "Meal plan personalized for your goal: " + goal
}

func goalExpansionPrompt(goal string) string {
	var b strings.Builder
	b.WriteString("Your task is to translate a user's specific diet goal into precise, ")
	b.WriteString("target nutritional values for a daily meal plan.\n")
	b.WriteString("Just provide the nutritional values without any additional explanation or context.\n\n")
	fmt.Fprintf(&b, "**GOAL:** %s\n\n", goal)
	b.WriteString("You may include: calories_kcal, protein_g, carbs_g, sugars_g, total_fats_g, ")
	b.WriteString("cholesterol_mg, total_minerals_mg, vit_a_microg, total_vit_b_mg, ")
	b.WriteString("vit_c_mg, vit_d_microg, vit_e_mg, vit_k_microg")
	return b.String()
}

// ExpandGoal asks the language model to restate goal as nutritional
// targets. An unconfigured (or nil) completer yields GoalFallback. A
// configured completer that fails returns an UpstreamError.
func ExpandGoal(ctx context.Context, c Completer, goal string) (string, error) {
	if c == nil || !c.Configured() {
		return GoalFallback(goal), nil
	}
	text, err := c.Complete(ctx, goalExpansionPrompt(goal))
	if err != nil {
		return "", upstream("llm", "expand goal", err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return GoalFallback(goal), nil
	}
	return text, nil
}

// RankBySimilarity scores every recipe by cosine similarity between its
// vector and the goal vector, sorts descending (ties keep catalog order)
// and keeps the first topK. Score and Similarity carry the same value.
// Recipes without a matching vector are left out.
func RankBySimilarity(recipes []Recipe, vectors [][]float32, goal []float32, topK int) []ScoredCandidate {
	if topK <= 0 {
		topK = DefaultTopK
	}
	n := min(len(recipes), len(vectors))
	out := make([]ScoredCandidate, n)
	for i, r := range recipes[:n] {
		sim := CosineSimilarity(goal, vectors[i])
		out[i] = ScoredCandidate{Recipe: r, Similarity: sim, Score: sim}
	}
	sortByScore(out)
	if len(out) > topK {
		out = out[:topK]
	}
	return out
}

// rankByGoal runs goal mode against the injected services: fetch the
// catalog, expand the goal, embed both sides and rank.
func rankByGoal(ctx context.Context, svc Services, goal string, topK int) ([]ScoredCandidate, string, error) {
	if svc.Catalog == nil || svc.Embedder == nil {
		return nil, "", fmt.Errorf("goal ranking: %w", errServicesMissing)
	}
	recipes, err := svc.Catalog.Recipes(ctx)
	if err != nil {
		return nil, "", upstream("catalog", "load recipes", err)
	}
	if len(recipes) == 0 {
		return []ScoredCandidate{}, noRecipesText, nil
	}

	expanded, err := ExpandGoal(ctx, svc.Completer, goal)
	if err != nil {
		return nil, "", err
	}

	texts := make([]string, len(recipes))
	for i, r := range recipes {
		texts[i] = r.CompositeText()
	}
	vectors, err := svc.Embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, "", upstream("embedding", "embed catalog", err)
	}
	if len(vectors) != len(recipes) {
		return nil, "", upstream("embedding", "embed catalog",
			fmt.Errorf("got %d embeddings for %d recipes", len(vectors), len(recipes)))
	}
	goalVec, err := svc.Embedder.Embed(ctx, expanded)
	if err != nil {
		return nil, "", upstream("embedding", "embed goal", err)
	}
	for i, v := range vectors {
		if len(v) != len(goalVec) {
			return nil, "", upstream("embedding", "embed catalog",
				fmt.Errorf("recipe %d has %d dimensions, goal has %d", recipes[i].ID, len(v), len(goalVec)))
		}
	}

	return RankBySimilarity(recipes, vectors, goalVec, topK), expanded, nil
}
