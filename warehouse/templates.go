package warehouse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Pre-built queries for recurring question shapes. Template matching runs
// before LLM generation so the common paths stay deterministic and free.

const financialSummaryTemplate = `SELECT
    a.FinalParentAccountCode,
    SUM(f.Amount) AS TotalAmount
FROM Fact_Financials f
JOIN Dim_Account a ON f.AccountKey = a.AccountKey
JOIN Dim_Year y ON f.YearKey = y.YearKey
JOIN Dim_Scenario s ON f.ScenarioKey = s.ScenarioKey
WHERE s.ScenarioName = 'Actual'
  AND y.CalendarYear = %d
GROUP BY a.FinalParentAccountCode
ORDER BY TotalAmount DESC;`

const monthlyFinancialsTemplate = `SELECT
    y.CalendarYear,
    p.PeriodName,
    p.PeriodNumber,
    p.FiscalQuarter,
    a.FinalParentAccountCode,
    SUM(f.Amount) AS Amount
FROM Fact_Financials f
JOIN Dim_Account a ON f.AccountKey = a.AccountKey
JOIN Dim_Period p ON f.PeriodKey = p.PeriodKey
JOIN Dim_Year y ON f.YearKey = y.YearKey
JOIN Dim_Scenario s ON f.ScenarioKey = s.ScenarioKey
WHERE a.FinalParentAccountCode = '%s'
  AND s.ScenarioName = 'Actual'
  AND y.CalendarYear = %d
GROUP BY y.CalendarYear, p.PeriodName, p.PeriodNumber, p.FiscalQuarter, a.FinalParentAccountCode
ORDER BY p.PeriodNumber;`

const budgetVsActualTemplate = `SELECT
    a.FinalParentAccountCode,
    SUM(CASE WHEN s.ScenarioName = 'Actual' THEN f.Amount ELSE 0 END) AS Actual,
    SUM(CASE WHEN s.ScenarioName = 'OEP_Plan' THEN f.Amount ELSE 0 END) AS Budget,
    SUM(CASE WHEN s.ScenarioName = 'Actual' THEN f.Amount ELSE 0 END) -
    SUM(CASE WHEN s.ScenarioName = 'OEP_Plan' THEN f.Amount ELSE 0 END) AS Variance
FROM Fact_Financials f
JOIN Dim_Account a ON f.AccountKey = a.AccountKey
JOIN Dim_Year y ON f.YearKey = y.YearKey
JOIN Dim_Scenario s ON f.ScenarioKey = s.ScenarioKey
WHERE y.CalendarYear = %d
GROUP BY a.FinalParentAccountCode
ORDER BY ABS(SUM(CASE WHEN s.ScenarioName = 'Actual' THEN f.Amount ELSE 0 END) -
    SUM(CASE WHEN s.ScenarioName = 'OEP_Plan' THEN f.Amount ELSE 0 END)) DESC;`

const quarterlySummaryTemplate = `SELECT
    y.CalendarYear,
    p.FiscalQuarter,
    a.FinalParentAccountCode,
    SUM(f.Amount) AS Amount
FROM Fact_Financials f
JOIN Dim_Account a ON f.AccountKey = a.AccountKey
JOIN Dim_Period p ON f.PeriodKey = p.PeriodKey
JOIN Dim_Year y ON f.YearKey = y.YearKey
JOIN Dim_Scenario s ON f.ScenarioKey = s.ScenarioKey
WHERE s.ScenarioName = 'Actual'
  AND y.CalendarYear = %d
GROUP BY y.CalendarYear, p.FiscalQuarter, a.FinalParentAccountCode
ORDER BY p.FiscalQuarter, a.FinalParentAccountCode;`

const varianceAnalysisTemplate = `WITH actuals AS (
    SELECT
        a.FinalParentAccountCode,
        SUM(f.Amount) AS actual_amount
    FROM Fact_Financials f
    JOIN Dim_Account a ON f.AccountKey = a.AccountKey
    JOIN Dim_Year y ON f.YearKey = y.YearKey
    JOIN Dim_Scenario s ON f.ScenarioKey = s.ScenarioKey
    WHERE s.ScenarioName = 'Actual' AND y.CalendarYear = %d
    GROUP BY a.FinalParentAccountCode
),
budget AS (
    SELECT
        a.FinalParentAccountCode,
        SUM(f.Amount) AS budget_amount
    FROM Fact_Financials f
    JOIN Dim_Account a ON f.AccountKey = a.AccountKey
    JOIN Dim_Year y ON f.YearKey = y.YearKey
    JOIN Dim_Scenario s ON f.ScenarioKey = s.ScenarioKey
    WHERE s.ScenarioName = 'OEP_Plan' AND y.CalendarYear = %d
    GROUP BY a.FinalParentAccountCode
)
SELECT
    COALESCE(a.FinalParentAccountCode, b.FinalParentAccountCode) AS AccountCategory,
    COALESCE(a.actual_amount, 0) AS Actual,
    COALESCE(b.budget_amount, 0) AS Budget,
    COALESCE(a.actual_amount, 0) - COALESCE(b.budget_amount, 0) AS Variance,
    CASE
        WHEN COALESCE(b.budget_amount, 0) != 0
        THEN ((COALESCE(a.actual_amount, 0) / b.budget_amount) - 1) * 100
        ELSE 0
    END AS Variance_Pct
FROM actuals a
FULL OUTER JOIN budget b ON a.FinalParentAccountCode = b.FinalParentAccountCode
ORDER BY ABS(COALESCE(a.actual_amount, 0) - COALESCE(b.budget_amount, 0)) DESC;`

const yoyComparisonTemplate = `SELECT
    a.FinalParentAccountCode,
    SUM(CASE WHEN y.CalendarYear = %[1]d THEN f.Amount ELSE 0 END) AS CurrentYear,
    SUM(CASE WHEN y.CalendarYear = %[2]d THEN f.Amount ELSE 0 END) AS PriorYear,
    SUM(CASE WHEN y.CalendarYear = %[1]d THEN f.Amount ELSE 0 END) -
    SUM(CASE WHEN y.CalendarYear = %[2]d THEN f.Amount ELSE 0 END) AS YoY_Change
FROM Fact_Financials f
JOIN Dim_Account a ON f.AccountKey = a.AccountKey
JOIN Dim_Year y ON f.YearKey = y.YearKey
JOIN Dim_Scenario s ON f.ScenarioKey = s.ScenarioKey
WHERE s.ScenarioName = 'Actual'
  AND y.CalendarYear IN (%[1]d, %[2]d)
GROUP BY a.FinalParentAccountCode
ORDER BY ABS(SUM(CASE WHEN y.CalendarYear = %[1]d THEN f.Amount ELSE 0 END) -
    SUM(CASE WHEN y.CalendarYear = %[2]d THEN f.Amount ELSE 0 END)) DESC;`

const accountSummaryTemplate = `SELECT
    a.FinalParentAccountCode,
    SUM(f.Amount) AS TotalAmount
FROM Fact_Financials f
JOIN Dim_Account a ON f.AccountKey = a.AccountKey
JOIN Dim_Scenario s ON f.ScenarioKey = s.ScenarioKey
WHERE s.ScenarioName = 'Actual'
GROUP BY a.FinalParentAccountCode
ORDER BY TotalAmount DESC;`

// accountKeywords maps question vocabulary to FinalParentAccountCode values
// for the monthly trend template.
var accountKeywords = []struct {
	keyword string
	account string
}{
	{"g&a", "General and administrative expenses"},
	{"g & a", "General and administrative expenses"},
	{"administrative", "General and administrative expenses"},
	{"admin", "General and administrative expenses"},
	{"selling", "Selling and distribution expenses"},
	{"distribution", "Selling and distribution expenses"},
	{"finance charge", "Finance charge"},
	{"interest", "Finance charge"},
	{"cost of sales", "Cost of Sales"},
	{"gross margin", "Gross Margin"},
	{"revenue", "Revenue"},
}

var cropWords = []string{
	"crop", "wheat", "barley", "osr", "maize", "soybean", "sunflower", "yield", "harvest",
}

var yearPattern = regexp.MustCompile(`20\d{2}`)

// MatchTemplate matches the question against the pre-built query shapes.
// Returns the filled SQL and the template name, or ok=false when no template
// applies and the LLM should generate instead.
func MatchTemplate(question string) (sql, name string, ok bool) {
	lower := strings.ToLower(question)

	year := 2025
	if m := yearPattern.FindString(question); m != "" {
		year, _ = strconv.Atoi(m)
	}
	priorYear := year - 1

	switch {
	case containsAny(lower, "budget vs actual", "budget variance", "vs budget"):
		return fmt.Sprintf(budgetVsActualTemplate, year), "budget_vs_actual", true
	case containsAny(lower, "variance analysis", "explain variance", "why did"):
		return fmt.Sprintf(varianceAnalysisTemplate, year, year), "variance_analysis", true
	case containsAny(lower, "year over year", "yoy", "compared to last year"):
		return fmt.Sprintf(yoyComparisonTemplate, year, priorYear), "yoy_comparison", true
	case containsAny(lower, "quarterly", "by quarter"):
		return fmt.Sprintf(quarterlySummaryTemplate, year), "quarterly_summary", true
	case containsAny(lower, cropWords...):
		// Crop specifics live in the knowledge base; the warehouse only
		// contributes the financial backdrop.
		return fmt.Sprintf(financialSummaryTemplate, year), "financial_summary", true
	case containsAny(lower, "all accounts", "account summary", "account categories"):
		return accountSummaryTemplate, "account_summary", true
	}

	if containsAny(lower, "monthly", "by month", "trend", "expenses", "balance", "show") {
		for _, ak := range accountKeywords {
			if strings.Contains(lower, ak.keyword) {
				return fmt.Sprintf(monthlyFinancialsTemplate, ak.account, year), "monthly_financials", true
			}
		}
	}

	return "", "", false
}

func containsAny(s string, keywords ...string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
