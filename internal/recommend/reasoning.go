package recommend

import (
	"fmt"
	"math"
	"strings"
)

// GenerateReasoning explains a recommendation in one or more short
// sentences: how much of the recipe the pantry covers, which expiring items
// it uses and what is still missing.
func GenerateReasoning(coverage float64, expiring []ExpiringItem, missing []string) string {
	clauses := make([]string, 0, 3)

	pct := int(math.Round(coverage * 100))
	if pct >= 100 {
		clauses = append(clauses, "You have all the ingredients needed")
	} else {
		clauses = append(clauses, fmt.Sprintf("Uses %d%% of required ingredients", pct))
	}

	switch len(expiring) {
	case 0:
	case 1:
		clauses = append(clauses, "Uses expiring "+expiring[0].Name)
	default:
		names := make([]string, 0, 3)
		for i := 0; i < len(expiring) && i < 3; i++ {
			names = append(names, expiring[i].Name)
		}
		clauses = append(clauses, "Uses expiring ingredients: "+strings.Join(names, ", "))
	}

	switch {
	case len(missing) == 0:
	case len(missing) <= 2:
		clauses = append(clauses, "Missing "+strings.Join(missing, ", "))
	default:
		clauses = append(clauses, fmt.Sprintf("Missing %d ingredients", len(missing)))
	}

	return strings.Join(clauses, ". ") + "."
}
