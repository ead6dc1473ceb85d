package classify

import (
	"strings"

	"github.com/agrovista/finsight/config"
)

// Flags are the independent topic predicates over a query, used only by the
// fallback router. They are not mutually exclusive and carry no ordering:
// any combination can be true for the same query.
type Flags struct {
	BudgetComparison     bool
	CropQuery            bool
	FinancialPerformance bool
	ActionRequest        bool
}

// Detector evaluates the four topic predicates against query text using
// keyword containment over the configured vocabularies.
type Detector struct {
	budget      []string
	crop        []string
	performance []string
	exclusions  []string
	action      []string
}

// NewDetector builds a Detector from the configured topic vocabularies.
func NewDetector(cfg *config.Config) *Detector {
	t := cfg.Patterns.Topics
	return &Detector{
		budget:      lowerAll(t.BudgetComparison),
		crop:        lowerAll(t.Crop),
		performance: lowerAll(t.FinancialPerformance),
		exclusions:  lowerAll(t.PerformanceExclusions),
		action:      lowerAll(t.Action),
	}
}

// Detect evaluates all four predicates for the query.
func (d *Detector) Detect(query string) Flags {
	lower := strings.ToLower(query)
	return Flags{
		BudgetComparison:     containsAny(lower, d.budget),
		CropQuery:            containsAny(lower, d.crop),
		FinancialPerformance: d.isFinancialPerformance(lower),
		ActionRequest:        containsAny(lower, d.action),
	}
}

// isFinancialPerformance matches the performance vocabulary but yields to
// action vocabulary: "how can we improve revenue" is an action request, not
// a performance lookup, even though it mentions revenue.
func (d *Detector) isFinancialPerformance(lower string) bool {
	if containsAny(lower, d.exclusions) {
		return false
	}
	return containsAny(lower, d.performance)
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}
