package recommend

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// Weights of the inventory score blend.
const (
	coverageWeight = 0.7
	urgencyWeight  = 0.3
)

// Per-ingredient expiration bonus and its cap.
const (
	urgentBonus   = 0.15
	soonBonus     = 0.05
	maxBonus      = 0.30
	expiringLimit = soonDays
)

// CombinedScore blends ingredient coverage with pantry urgency.
func CombinedScore(coverage, urgency float64) float64 {
	return coverageWeight*coverage + urgencyWeight*urgency
}

// ExpirationBonus sums a per-ingredient bonus over the pantry items a recipe
// uses: 0.15 for items expiring within two days (expired included), 0.05
// within a week. The total is capped at 0.30.
func ExpirationBonus(used []int64, pantry Pantry, ref time.Time) float64 {
	var bonus float64
	for _, id := range used {
		item, ok := pantry[id]
		if !ok {
			continue
		}
		exp, ok := ParseExpiration(item.ExpirationDate)
		if !ok {
			continue
		}
		switch d := DaysUntil(exp, ref); {
		case d <= urgentDays:
			bonus += urgentBonus
		case d <= soonDays:
			bonus += soonBonus
		}
	}
	return math.Min(bonus, maxBonus)
}

// ScoreByInventory scores every catalog recipe the pantry touches. Recipes
// that use no pantry item are dropped, including recipes with no mapped
// ingredients. The result is sorted by Score descending;
// ties keep catalog order.
func ScoreByInventory(pantry Pantry, catalog []Recipe, ref time.Time) []ScoredCandidate {
	urgency := PantryUrgency(pantry, ref)
	out := make([]ScoredCandidate, 0, len(catalog))

	for _, r := range catalog {
		used := coveredIDs(r.IngredientIDs, pantry)
		if len(used) == 0 {
			continue
		}
		cov := Coverage(r.IngredientIDs, pantry)
		names := r.IngredientNames()

		c := ScoredCandidate{
			Recipe:            r,
			Coverage:          cov.Score,
			ExpirationUrgency: urgency,
			ExpirationBonus:   ExpirationBonus(used, pantry, ref),
			Score:             CombinedScore(cov.Score, urgency),
			Missing:           cov.Missing,
			MissingNames:      make([]string, 0, len(cov.Missing)),
			Available:         make([]string, 0, len(used)),
			Expiring:          expiringItems(used, pantry, names, ref),
		}
		for _, id := range cov.Missing {
			c.MissingNames = append(c.MissingNames, ingredientName(id, names, pantry))
		}
		for _, id := range used {
			c.Available = append(c.Available, ingredientName(id, names, pantry))
		}
		out = append(out, c)
	}

	sortByScore(out)
	return out
}

// coveredIDs returns the distinct required IDs present in the pantry, in
// recipe order.
func coveredIDs(required []int64, pantry Pantry) []int64 {
	seen := make(map[int64]struct{}, len(required))
	out := make([]int64, 0, len(required))
	for _, id := range required {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if _, ok := pantry[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

// expiringItems lists used pantry items expiring within a week, soonest
// first, then by name.
func expiringItems(used []int64, pantry Pantry, names map[int64]string, ref time.Time) []ExpiringItem {
	var out []ExpiringItem
	for _, id := range used {
		exp, ok := ParseExpiration(pantry[id].ExpirationDate)
		if !ok {
			continue
		}
		if d := DaysUntil(exp, ref); d <= expiringLimit {
			out = append(out, ExpiringItem{Name: ingredientName(id, names, pantry), Days: d})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Days != out[j].Days {
			return out[i].Days < out[j].Days
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func ingredientName(id int64, names map[int64]string, pantry Pantry) string {
	if n, ok := names[id]; ok && n != "" {
		return n
	}
	if item, ok := pantry[id]; ok && item.Name != "" {
		return item.Name
	}
	return fmt.Sprintf("ingredient #%d", id)
}

// ShoppingSuggestions returns up to limit ingredient names that are missing
// from the most recommendations, most frequent first, ties by name.
func ShoppingSuggestions(candidates []ScoredCandidate, limit int) []string {
	counts := map[string]int{}
	for _, c := range candidates {
		for _, n := range c.MissingNames {
			counts[n]++
		}
	}
	names := make([]string, 0, len(counts))
	for n := range counts {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})
	if len(names) > limit {
		names = names[:limit]
	}
	return names
}
