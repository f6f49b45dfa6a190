package recommend

import (
	"context"
	"errors"
	"strings"
)

// keywordEmbedder maps any text containing a key to that key's vector.
// Keys are tried in order so tests control precedence.
type keywordEmbedder struct {
	keys    []string
	vectors map[string][]float32
	err     error
	calls   int
}

func newKeywordEmbedder(pairs ...any) *keywordEmbedder {
	e := &keywordEmbedder{vectors: map[string][]float32{}}
	for i := 0; i+1 < len(pairs); i += 2 {
		k := pairs[i].(string)
		e.keys = append(e.keys, k)
		e.vectors[k] = pairs[i+1].([]float32)
	}
	return e
}

func (e *keywordEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	e.calls++
	if e.err != nil {
		return nil, e.err
	}
	for _, k := range e.keys {
		if strings.Contains(text, k) {
			return e.vectors[k], nil
		}
	}
	return nil, errors.New("no vector for text: " + text)
}

func (e *keywordEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := e.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

type stubCompleter struct {
	configured bool
	response   string
	err        error
	prompts    []string
}

func (s *stubCompleter) Complete(_ context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	return s.response, s.err
}

func (s *stubCompleter) Configured() bool { return s.configured }

type staticCatalog struct {
	recipes []Recipe
	err     error
}

func (c staticCatalog) Recipes(context.Context) ([]Recipe, error) {
	return c.recipes, c.err
}

func candidate(id int64, desc string, score float64) ScoredCandidate {
	return ScoredCandidate{
		Recipe: Recipe{ID: id, Name: desc, Description: desc},
		Score:  score,
	}
}

func ids(cs []ScoredCandidate) []int64 {
	out := make([]int64, len(cs))
	for i, c := range cs {
		out[i] = c.Recipe.ID
	}
	return out
}
