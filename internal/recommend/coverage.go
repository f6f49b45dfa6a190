package recommend

import "sort"

// CoverageResult is the fraction of a recipe's required ingredients present
// in a pantry, together with the IDs that are absent.
type CoverageResult struct {
	Score   float64 `json:"score"`
	Missing []int64 `json:"missing"`
}

// Coverage computes how much of required is satisfied by pantry. Duplicate
// IDs in required collapse. An empty requirement set is fully covered.
// Missing is sorted ascending.
func Coverage(required []int64, pantry Pantry) CoverageResult {
	if len(required) == 0 {
		return CoverageResult{Score: 1.0, Missing: []int64{}}
	}

	seen := make(map[int64]struct{}, len(required))
	missing := []int64{}
	matched := 0
	for _, id := range required {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if _, ok := pantry[id]; ok {
			matched++
		} else {
			missing = append(missing, id)
		}
	}

	sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
	return CoverageResult{
		Score:   float64(matched) / float64(len(seen)),
		Missing: missing,
	}
}
