package agent

import (
	"context"
	"log"

	"github.com/agrovista/finsight/classify"
	"github.com/agrovista/finsight/drivertree"
	"github.com/agrovista/finsight/warehouse"
)

const maxSuggestions = 3

// defaultSuggestions are the static follow-ups per category, used when the
// LLM is unavailable and to pad its output.
func defaultSuggestions(category classify.Category) []string {
	switch category {
	case classify.Diagnostic:
		return []string{
			"What was the biggest driver of this variance?",
			"How does this compare to last year?",
			"Which crops contributed most to the change?",
		}
	case classify.Predictive:
		return []string{
			"What if prices move in the opposite direction?",
			"How sensitive is EBITDA to yield changes?",
			"What is the downside scenario for net income?",
		}
	case classify.Prescriptive:
		return []string{
			"What is the expected impact of these changes?",
			"Which action has the fastest payback?",
			"What are the risks of changing the crop mix?",
		}
	default:
		return []string{
			"How does this compare to budget?",
			"Show me the monthly breakdown",
			"Which crop drives the most revenue?",
		}
	}
}

// vdtSuggestion is the analysis-specific follow-up inserted ahead of the
// defaults when a driver-tree result is present.
func vdtSuggestion(vdt *drivertree.Result) string {
	if vdt == nil {
		return ""
	}
	switch vdt.Kind {
	case drivertree.KindVariance:
		return "Break down the price effect by crop"
	case drivertree.KindSensitivity:
		return "What's the combined impact of multiple drivers?"
	case drivertree.KindRanking:
		return "What are the rotation constraints for OSR?"
	}
	return ""
}

// suggestions blends LLM-generated follow-ups with the static ones: up to two
// from the LLM, topped up from the driver-tree insert and category defaults,
// capped at three. LLM failure silently degrades to the static list.
func (a *Agent) suggestions(ctx context.Context, category classify.Category, question string, vdt *drivertree.Result, probe *warehouse.ProbeResult) []string {
	var out []string

	if a.responder != nil {
		generated, err := a.responder.SuggestFollowUps(ctx, string(category), question, dataSummary(probe))
		if err != nil {
			log.Printf("agent: follow-up suggestions failed: %v", err)
		} else {
			if len(generated) > 2 {
				generated = generated[:2]
			}
			out = append(out, generated...)
		}
	}

	if s := vdtSuggestion(vdt); s != "" {
		out = appendUnique(out, s)
	}
	for _, s := range defaultSuggestions(category) {
		out = appendUnique(out, s)
	}

	if len(out) > maxSuggestions {
		out = out[:maxSuggestions]
	}
	return out
}

func appendUnique(list []string, s string) []string {
	for _, have := range list {
		if have == s {
			return list
		}
	}
	return append(list, s)
}
