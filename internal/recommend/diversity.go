package recommend

import (
	"context"
	"fmt"
	"sort"
)

// SelectDiverse picks at most count candidates that are far apart in
// embedding space. Candidate composite texts are embedded, clustered into
// count groups with a seeded k-means, and the highest-scoring member of
// every non-empty cluster is kept. Ties inside a cluster go to the earlier
// candidate. The selection is returned ordered by Score, descending.
//
// When there are no more candidates than count the input is returned
// unchanged. Errors from the embedder or the clustering step are returned
// to the caller, which decides how to degrade.
func SelectDiverse(ctx context.Context, emb Embedder, candidates []ScoredCandidate, count int, seed int64) ([]ScoredCandidate, error) {
	if count <= 0 {
		return []ScoredCandidate{}, nil
	}
	if len(candidates) <= count {
		return candidates, nil
	}
	if emb == nil {
		return nil, errNoEmbedder
	}

	texts := make([]string, len(candidates))
	for i, c := range candidates {
		texts[i] = c.Recipe.CompositeText()
	}
	vectors, err := emb.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, upstream("embedding", "embed candidates", err)
	}
	if len(vectors) != len(candidates) {
		return nil, fmt.Errorf("diversity selection: got %d embeddings for %d candidates", len(vectors), len(candidates))
	}

	points, err := normalizeAll(vectors)
	if err != nil {
		return nil, fmt.Errorf("diversity selection: %w", err)
	}
	labels, err := kmeans(points, count, seed)
	if err != nil {
		return nil, fmt.Errorf("diversity selection: %w", err)
	}

	best := make([]int, count)
	for c := range best {
		best[c] = -1
	}
	for i, label := range labels {
		cur := best[label]
		if cur == -1 || candidates[i].Score > candidates[cur].Score {
			best[label] = i
		}
	}

	picked := make([]int, 0, count)
	for _, idx := range best {
		if idx >= 0 {
			picked = append(picked, idx)
		}
	}
	sort.Ints(picked)

	out := make([]ScoredCandidate, len(picked))
	for i, idx := range picked {
		out[i] = candidates[idx]
	}
	sortByScore(out)
	return out, nil
}

// TopN returns the first n candidates by Score without reordering ties.
func TopN(candidates []ScoredCandidate, n int) []ScoredCandidate {
	if n <= 0 {
		return []ScoredCandidate{}
	}
	out := append([]ScoredCandidate(nil), candidates...)
	sortByScore(out)
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func sortByScore(cs []ScoredCandidate) {
	sort.SliceStable(cs, func(i, j int) bool { return cs[i].Score > cs[j].Score })
}
