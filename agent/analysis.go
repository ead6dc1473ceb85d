package agent

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/agrovista/finsight/classify"
	"github.com/agrovista/finsight/drivertree"
)

var percentPattern = regexp.MustCompile(`(\d+)\s*%`)

// driverAnalysis selects and runs the driver-tree calculation implied by the
// query category. Diagnostic queries get a variance decomposition, predictive
// ones a sensitivity scenario, prescriptive ones the crop ranking, and
// everything else a gross-margin lookup for the mentioned crop (or the whole
// portfolio).
func (a *Agent) driverAnalysis(message string, category classify.Category) *drivertree.Result {
	lower := strings.ToLower(message)

	switch category {
	case classify.Diagnostic:
		if containsAny(lower, "variance", "why", "explain", "drove", "cause") {
			metric := "net_income"
			if strings.Contains(lower, "revenue") {
				metric = "revenue"
			} else if strings.Contains(lower, "ebitda") {
				metric = "ebitda"
			}
			return &drivertree.Result{
				Kind:     drivertree.KindVariance,
				Variance: a.calc.Variance(metric),
			}
		}

	case classify.Predictive:
		if containsAny(lower, "if", "scenario", "what if", "sensitivity", "impact") {
			return &drivertree.Result{
				Kind:        drivertree.KindSensitivity,
				Sensitivity: a.calc.Sensitivity(inferDriver(lower), extractChangePct(message)),
			}
		}

	case classify.Prescriptive:
		return &drivertree.Result{
			Kind:    drivertree.KindRanking,
			Ranking: a.calc.CropRanking(),
		}
	}

	return &drivertree.Result{
		Kind:        drivertree.KindGrossMargin,
		GrossMargin: a.calc.GrossMargin(a.kb.ResolveCrop(lower)),
	}
}

// inferDriver maps query vocabulary to a sensitivity-table driver. Wheat is
// the default since it is the largest sensitivity position.
func inferDriver(lower string) string {
	switch {
	case strings.Contains(lower, "maize") || strings.Contains(lower, "corn"):
		return "maize_price"
	case strings.Contains(lower, "osr") || strings.Contains(lower, "canola"):
		return "osr_price"
	case strings.Contains(lower, "soybean"):
		return "soybean_price"
	case strings.Contains(lower, "sunflower"):
		return "sunflower_price"
	case strings.Contains(lower, "yield"):
		return "yield_all_crops"
	case strings.Contains(lower, "fertilizer") || strings.Contains(lower, "cost"):
		return "fertilizer_cost"
	case strings.Contains(lower, "fx") || strings.Contains(lower, "exchange"):
		return "usd_uah_fx"
	default:
		return "wheat_price"
	}
}

// extractChangePct pulls an explicit percentage out of the message, default
// 10 when none is mentioned.
func extractChangePct(message string) float64 {
	if m := percentPattern.FindStringSubmatch(message); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return float64(n)
		}
	}
	return 10
}

func containsAny(s string, keywords ...string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
