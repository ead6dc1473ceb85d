package warehouse

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/agrovista/finsight/llm"
)

// SQLBackend generates SQL via the LLM when no template matches.
type SQLBackend interface {
	GenerateSQL(ctx context.Context, schemaInfo, category, question string, history []llm.Exchange) (string, error)
}

// Generator turns natural-language questions into warehouse SQL. Templates
// are tried first; the LLM backend covers the long tail, with its output
// cleaned and repaired before use.
type Generator struct {
	backend SQLBackend
}

// NewGenerator returns a Generator over the given backend. A nil backend
// restricts generation to template matches.
func NewGenerator(backend SQLBackend) *Generator {
	return &Generator{backend: backend}
}

// GeneratedSQL carries the query plus where it came from, for telemetry.
type GeneratedSQL struct {
	SQL    string
	Source string
}

// Generate produces SQL for the question. Source is the template name or
// "llm".
func (g *Generator) Generate(ctx context.Context, category, question string, history []llm.Exchange) (*GeneratedSQL, error) {
	if sql, name, ok := MatchTemplate(question); ok {
		return &GeneratedSQL{SQL: sql, Source: name}, nil
	}

	if g.backend == nil {
		return nil, fmt.Errorf("no template matched and no SQL backend configured")
	}

	raw, err := g.backend.GenerateSQL(ctx, SchemaInfo, category, question, history)
	if err != nil {
		return nil, fmt.Errorf("sql generation: %w", err)
	}

	sql := FixCommonIssues(CleanSQL(raw))
	return &GeneratedSQL{SQL: sql, Source: "llm"}, nil
}

var codeFencePattern = regexp.MustCompile("```(?:sql)?\\s*")

// CleanSQL strips markdown code fences and surrounding whitespace from LLM
// output.
func CleanSQL(sql string) string {
	return strings.TrimSpace(codeFencePattern.ReplaceAllString(sql, ""))
}

var invalidTables = []string{
	"vw_Crop_Performance",
	"vw_Sales_Detail",
	"crop_performance",
}

// FixCommonIssues repairs known failure modes of generated SQL. A query that
// references a non-existent crop view is replaced wholesale with the default
// financial summary, since crop detail is answered from the knowledge base.
func FixCommonIssues(sql string) string {
	lower := strings.ToLower(sql)
	for _, table := range invalidTables {
		if strings.Contains(lower, strings.ToLower(table)) {
			return fmt.Sprintf(financialSummaryTemplate, 2025)
		}
	}
	return sql
}

// Validation is the outcome of a safety check on generated SQL.
type Validation struct {
	Valid    bool
	Issues   []string
	Warnings []string
}

var dangerousKeywords = []string{
	"DROP", "DELETE", "TRUNCATE", "UPDATE", "INSERT", "ALTER", "CREATE", "EXEC",
}

// Validate checks generated SQL before execution. Issues make the query
// unrunnable; warnings are advisory only.
func Validate(sql string) Validation {
	var v Validation
	upper := strings.ToUpper(sql)
	lower := strings.ToLower(sql)

	for _, kw := range dangerousKeywords {
		if strings.Contains(upper, kw+" ") {
			v.Issues = append(v.Issues, fmt.Sprintf("dangerous operation detected: %s", kw))
		}
	}

	for _, table := range invalidTables {
		if strings.Contains(lower, strings.ToLower(table)) {
			v.Issues = append(v.Issues,
				fmt.Sprintf("invalid table reference: %s does not exist, use Fact_Financials instead", table))
		}
	}

	if strings.Contains(sql, "Fact_Financials") {
		if !strings.Contains(upper, "JOIN") {
			v.Warnings = append(v.Warnings, "missing dimension joins, results may show keys instead of names")
		}
		if !strings.Contains(upper, "SCENARIONAME") && !strings.Contains(upper, "SCENARIOKEY") {
			v.Warnings = append(v.Warnings, "no scenario filter, may mix Actual, Budget, and Forecast data")
		}
	}

	v.Valid = len(v.Issues) == 0
	return v
}

// SuggestedQueries returns example questions spanning the four analytics
// categories, surfaced by the capabilities endpoint.
func SuggestedQueries() []string {
	return []string{
		"What is the revenue for 2025?",
		"Show me G&A expenses by month",
		"How did we do vs budget this year?",
		"Why did net income beat budget?",
		"What if wheat prices drop by 15%?",
		"Forecast next quarter EBITDA",
		"How should we optimize the crop mix?",
		"Which crop has the highest margin per hectare?",
	}
}
