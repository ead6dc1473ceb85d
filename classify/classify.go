// Package classify implements the hybrid query classifier: a tiered
// rule-engine over regex vocabularies with an LLM oracle fallback for
// ambiguous queries, plus the independent topic predicates used by the
// fallback router.
package classify

import (
	"context"
	"log"
	"regexp"
	"strings"

	"github.com/agrovista/finsight/config"
)

// Category is the analytic intent of a query. Exactly one is assigned per
// query and it is never revised downstream.
type Category string

const (
	Descriptive  Category = "DESCRIPTIVE"
	Diagnostic   Category = "DIAGNOSTIC"
	Predictive   Category = "PREDICTIVE"
	Prescriptive Category = "PRESCRIPTIVE"
)

// Categories lists the four categories in their canonical order.
var Categories = []Category{Descriptive, Diagnostic, Predictive, Prescriptive}

// Description returns the one-line analytics framing for a category.
func (c Category) Description() string {
	switch c {
	case Descriptive:
		return "What happened?"
	case Diagnostic:
		return "Why did it happen?"
	case Predictive:
		return "What will happen?"
	case Prescriptive:
		return "What should we do?"
	}
	return "Analysis"
}

// ParseCategory extracts a category token from oracle output. The oracle is
// only required to embed one of the four uppercase tokens somewhere in its
// reply; anything else maps to Descriptive.
func ParseCategory(s string) Category {
	upper := strings.ToUpper(s)
	for _, c := range Categories {
		if strings.Contains(upper, string(c)) {
			return c
		}
	}
	return Descriptive
}

// Confidence labels attached to classification results for diagnostics. They
// never alter the returned category.
const (
	ConfidenceHigh   = "HIGH"
	ConfidenceMedium = "MEDIUM"
	ConfidenceLow    = "LOW"
)

// Oracle is the external LLM classification endpoint. Implementations return
// free text expected to contain one of the four category tokens.
type Oracle interface {
	ClassifyQuery(ctx context.Context, query string) (string, error)
}

// Result is a classification with diagnostic metadata.
type Result struct {
	Category   Category
	Confidence string
	Method     string
	Reasoning  string
}

// Classifier maps raw query text to a Category. All patterns are compiled
// once at construction time so Classify is cheap; only the oracle fallback
// performs I/O.
type Classifier struct {
	oracle              Oracle
	predictiveOverride  []*regexp.Regexp
	descriptiveOverride []*regexp.Regexp
	strong              map[Category][]*regexp.Regexp
	weak                map[Category][]*regexp.Regexp
}

// NewClassifier constructs a Classifier from the configured vocabularies and
// pre-compiles all regex patterns. Invalid patterns are silently skipped.
// The oracle may be nil, in which case ambiguous queries default to
// Descriptive.
func NewClassifier(cfg *config.Config, oracle Oracle) *Classifier {
	c := &Classifier{
		oracle: oracle,
		strong: make(map[Category][]*regexp.Regexp),
		weak:   make(map[Category][]*regexp.Regexp),
	}

	c.predictiveOverride = compileAll(cfg.Patterns.Overrides.Predictive)
	c.descriptiveOverride = compileAll(cfg.Patterns.Overrides.Descriptive)

	for name, set := range cfg.Patterns.Signals {
		cat := Category(strings.ToUpper(name))
		c.strong[cat] = compileAll(set.Strong)
		c.weak[cat] = compileAll(set.Weak)
	}

	return c
}

func compileAll(patterns []string) []*regexp.Regexp {
	var out []*regexp.Regexp
	for _, p := range patterns {
		re, err := regexp.Compile("(?i)" + p)
		if err == nil {
			out = append(out, re)
		}
	}
	return out
}

// Classify assigns a category to the query. Priority order, first match wins:
//
//  1. Override patterns (what-if scenarios, what-is value lookups).
//  2. Strong signal patterns — exactly one category matching wins outright.
//  3. Oracle fallback, for zero or multiple strong matches.
//
// Classification never fails: an unreachable or malformed oracle degrades to
// Descriptive.
func (c *Classifier) Classify(ctx context.Context, query string) Category {
	return c.ClassifyWithConfidence(ctx, query).Category
}

// ClassifyWithConfidence runs the same cascade as Classify and additionally
// reports how the decision was reached and a confidence label derived from a
// weak-pattern cross-check of oracle answers.
func (c *Classifier) ClassifyWithConfidence(ctx context.Context, query string) Result {
	lower := strings.ToLower(strings.TrimSpace(query))

	if cat, ok := c.checkOverrides(lower); ok {
		return Result{
			Category:   cat,
			Confidence: ConfidenceHigh,
			Method:     "override_pattern",
			Reasoning:  "query matches a high-confidence " + string(cat) + " pattern",
		}
	}

	strong := c.countMatches(lower, c.strong)

	if len(strong) == 1 {
		for cat := range strong {
			return Result{
				Category:   cat,
				Confidence: ConfidenceHigh,
				Method:     "strong_pattern",
				Reasoning:  "query has strong signals for " + string(cat),
			}
		}
	}

	// Zero or multiple strong matches: defer to the oracle. Rule-based
	// tie-breaking proved unreliable here.
	cat := c.classifyWithOracle(ctx, query)

	if len(strong) > 1 {
		if _, voted := strong[cat]; !voted {
			log.Printf("classify: oracle chose %s but matched rule categories were %v", cat, keys(strong))
		}
		return Result{
			Category:   cat,
			Confidence: ConfidenceMedium,
			Method:     "oracle_tiebreaker",
			Reasoning:  "multiple strong categories matched; oracle resolved to " + string(cat),
		}
	}

	weak := c.countMatches(lower, c.weak)
	confidence := ConfidenceLow
	reasoning := "oracle classified as " + string(cat)
	if _, ok := weak[cat]; ok {
		confidence = ConfidenceMedium
		reasoning += " (supported by weak patterns)"
	}
	return Result{
		Category:   cat,
		Confidence: confidence,
		Method:     "oracle",
		Reasoning:  reasoning,
	}
}

// checkOverrides applies the highest-confidence patterns. Predictive
// overrides win over descriptive ones so that "what if revenue drops by 10%"
// is not captured by the what-is lookup pattern.
func (c *Classifier) checkOverrides(lower string) (Category, bool) {
	for _, re := range c.predictiveOverride {
		if re.MatchString(lower) {
			return Predictive, true
		}
	}
	for _, re := range c.descriptiveOverride {
		if re.MatchString(lower) {
			return Descriptive, true
		}
	}
	return "", false
}

// countMatches returns the categories with at least one matching pattern and
// their hit counts.
func (c *Classifier) countMatches(lower string, sets map[Category][]*regexp.Regexp) map[Category]int {
	matches := make(map[Category]int)
	for cat, patterns := range sets {
		n := 0
		for _, re := range patterns {
			if re.MatchString(lower) {
				n++
			}
		}
		if n > 0 {
			matches[cat] = n
		}
	}
	return matches
}

func (c *Classifier) classifyWithOracle(ctx context.Context, query string) Category {
	if c.oracle == nil {
		return Descriptive
	}
	reply, err := c.oracle.ClassifyQuery(ctx, query)
	if err != nil {
		log.Printf("classify: oracle error, defaulting to DESCRIPTIVE: %v", err)
		return Descriptive
	}
	return ParseCategory(reply)
}

func keys(m map[Category]int) []Category {
	out := make([]Category, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
