package recommend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// preferencePromptLimit caps how many candidates are listed in the prompt.
// Candidates beyond the limit cannot be matched and are dropped by a
// successful filter.
const preferencePromptLimit = 80

var (
	errNoCompleter       = errors.New("language model not configured")
	errNoPreferenceMatch = errors.New("no candidate matched the preferences")
)

type preferenceResponse struct {
	RecipeIDs []int64 `json:"recipe_ids"`
}

func preferencePrompt(candidates []ScoredCandidate, preferences string) string {
	var b strings.Builder
	b.WriteString("You are a smart meal planning assistant.\n")
	b.WriteString("Select the recipes below that fit the user's preferences.\n\n")
	fmt.Fprintf(&b, "## User Preferences:\n%s\n\n## Recipes:\n", preferences)
	for i, c := range candidates {
		if i == preferencePromptLimit {
			break
		}
		ings := c.Recipe.Ingredients
		line := strings.Join(ings, ", ")
		if len(ings) > 10 {
			line = strings.Join(ings[:10], ", ") + fmt.Sprintf(" (+%d more)", len(ings)-10)
		}
		fmt.Fprintf(&b, "ID:%d | %s | Ingredients: %s\n", c.Recipe.ID, c.Recipe.Name, line)
	}
	b.WriteString("\n## Output Format (strict JSON):\n")
	b.WriteString(`{"recipe_ids": [<integer ids from the list above>]}`)
	b.WriteString("\n\nRespond ONLY with valid JSON. No markdown, no explanation outside JSON.")
	return b.String()
}

// stripCodeFence removes a surrounding markdown code fence, if any.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// ParsePreferenceResponse decodes the model's {"recipe_ids": [...]} answer.
// Decoding failures are returned as *ParseError.
func ParsePreferenceResponse(raw string) ([]int64, error) {
	var resp preferenceResponse
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &resp); err != nil {
		return nil, NewParseError(raw, err)
	}
	return resp.RecipeIDs, nil
}

// FilterByPreference keeps the candidates the language model judges to match
// the free-text preferences, in their original order. Blank preferences
// return the input unchanged with no model call.
//
// The filter fails open: when the model is unavailable, errors, answers
// with unparseable output or matches nothing, the unfiltered candidates are
// returned together with the reason, so callers can log it and carry on.
func FilterByPreference(ctx context.Context, c Completer, candidates []ScoredCandidate, preferences string) ([]ScoredCandidate, error) {
	preferences = strings.TrimSpace(preferences)
	if preferences == "" || len(candidates) == 0 {
		return candidates, nil
	}
	if c == nil || !c.Configured() {
		return candidates, errNoCompleter
	}

	raw, err := c.Complete(ctx, preferencePrompt(candidates, preferences))
	if err != nil {
		return candidates, upstream("llm", "filter preferences", err)
	}
	ids, err := ParsePreferenceResponse(raw)
	if err != nil {
		return candidates, err
	}

	keep := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		keep[id] = struct{}{}
	}
	limit := min(len(candidates), preferencePromptLimit)
	out := make([]ScoredCandidate, 0, len(ids))
	for _, cand := range candidates[:limit] {
		if _, ok := keep[cand.Recipe.ID]; ok {
			out = append(out, cand)
		}
	}
	if len(out) == 0 {
		return candidates, errNoPreferenceMatch
	}
	return out, nil
}
