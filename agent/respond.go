package agent

import (
	"fmt"
	"strings"

	"github.com/agrovista/finsight/config"
	"github.com/agrovista/finsight/drivertree"
	"github.com/agrovista/finsight/warehouse"
)

// Knowledge-base response templates. These render deterministic markdown
// directly from the static dataset when the warehouse has nothing usable,
// without an LLM round trip.

func renderBudgetComparison(kb *config.Knowledge, vdt *drivertree.Result) string {
	fin := kb.Financials
	var b strings.Builder

	b.WriteString("**FY2025 Forecast vs Budget Comparison**\n\n")
	b.WriteString("| Metric | YTD | Full Year Forecast | Budget | Variance |\n")
	b.WriteString("|--------|-----|-------------------|--------|----------|\n")
	writeBudgetRow(&b, "Revenue", fin.YTD.Revenue, fin.Forecast.Revenue, fin.Budget.Revenue)
	writeBudgetRow(&b, "EBITDA", fin.YTD.EBITDA, fin.Forecast.EBITDA, fin.Budget.EBITDA)
	writeBudgetRow(&b, "Net Income", fin.YTD.NetIncome, fin.Forecast.NetIncome, fin.Budget.NetIncome)

	revPct := variancePct(fin.Forecast.Revenue, fin.Budget.Revenue)
	niPct := variancePct(fin.Forecast.NetIncome, fin.Budget.NetIncome)
	fmt.Fprintf(&b, `
**Executive Summary:**
%s is forecasting significant outperformance against budget across all key metrics. Revenue is expected to exceed budget by %sm SAR (%+.0f%%), driven primarily by favorable commodity prices. Net Income shows the strongest relative performance at %+.0f%% vs budget, reflecting both revenue growth and operational efficiency.

**Key Variance Drivers:**
%s
**Risk Factors to Monitor:**
- Commodity price volatility in H2
- UAH/USD exchange rate fluctuations
- Weather impact on remaining harvest
`, kb.Entity, millions(fin.Forecast.Revenue-fin.Budget.Revenue), revPct, niPct, priceVarianceBullets(kb))

	if vdt != nil && vdt.Kind == drivertree.KindVariance {
		b.WriteString(varianceBreakdown(vdt.Variance))
	}

	b.WriteString("\n*Data sourced from the CFG Ukraine knowledge base.*\n")
	return b.String()
}

func writeBudgetRow(b *strings.Builder, name string, ytd, forecast, budget float64) {
	fmt.Fprintf(b, "| %s | %sm SAR | %sm SAR | %sm SAR | %sm (%+.0f%%) |\n",
		name, millions(ytd), millions(forecast), millions(budget),
		signedMillions(forecast-budget), variancePct(forecast, budget))
}

func renderFinancialPerformance(kb *config.Knowledge) string {
	fin := kb.Financials
	var b strings.Builder

	fmt.Fprintf(&b, "**%s Financial Performance (FY%s)**\n\n", kb.Entity, kb.FiscalYear)
	b.WriteString("**Performance Summary:**\n\n")
	b.WriteString("| Metric | YTD | Full Year Forecast | Budget | Variance |\n")
	b.WriteString("|--------|-----|-------------------|--------|----------|\n")
	writeBudgetRow(&b, "Revenue", fin.YTD.Revenue, fin.Forecast.Revenue, fin.Budget.Revenue)
	writeBudgetRow(&b, "EBITDA", fin.YTD.EBITDA, fin.Forecast.EBITDA, fin.Budget.EBITDA)
	writeBudgetRow(&b, "Net Income", fin.YTD.NetIncome, fin.Forecast.NetIncome, fin.Budget.NetIncome)

	revPct := variancePct(fin.Forecast.Revenue, fin.Budget.Revenue)
	fmt.Fprintf(&b, `
**Executive Analysis:**

%s is delivering exceptional performance in FY%s, with all key financial metrics significantly exceeding budget. The full-year forecast projects Revenue of %sm SAR, a %+.0f%% outperformance versus budget.

**Key Performance Indicators:**
- EBITDA Margin: %.1f%% (Forecast) vs %.1f%% (Budget)
- Net Income Margin: %.1f%%

**Operational Metrics:**
- Total Cultivated Area: %s hectares
- Crop Portfolio: %d crops

**Performance Drivers:**

1. **Revenue Outperformance (%+.0f%%):** Driven by favorable commodity prices, particularly OSR (+$85/t), Sunflower (+$114/t), and Wheat (+$16/t) versus budget assumptions.
2. **Margin Expansion:** Strong price realization combined with cost discipline has expanded EBITDA margins beyond budget expectations.
3. **Operational Excellence:** Yields across all crops are meeting or exceeding targets.

**Outlook:**
Based on current commodity price trends and operational performance, %s is well-positioned to deliver a record year. Key risks to monitor include H2 price volatility and FX movements.

*Data sourced from the CFG Ukraine knowledge base (FY%s forecast).*
`,
		kb.Entity, kb.FiscalYear, millions(fin.Forecast.Revenue), revPct,
		safeRatioPct(fin.Forecast.EBITDA, fin.Forecast.Revenue),
		safeRatioPct(fin.Budget.EBITDA, fin.Budget.Revenue),
		safeRatioPct(fin.Forecast.NetIncome, fin.Forecast.Revenue),
		comma(int64(kb.TotalAreaHa)), len(kb.Crops),
		revPct, kb.Entity, kb.FiscalYear)
	return b.String()
}

func renderActionPlan(kb *config.Knowledge, ranking []drivertree.RankedCrop) string {
	if len(ranking) == 0 {
		return "No crop data available for recommendations."
	}
	top := ranking[0]
	bottom := ranking[len(ranking)-1]
	shiftGain := (top.GMPerHa - bottom.GMPerHa) * 5000

	var b strings.Builder
	fmt.Fprintf(&b, "**Action Plan: Improving %s Profitability**\n\n", kb.Entity)

	b.WriteString("**Priority 1: Optimize Crop Mix (High Impact, Medium Term)**\n\n")
	fmt.Fprintf(&b, "| Action | Expected Impact | Timeline |\n|--------|-----------------|----------|\n")
	fmt.Fprintf(&b, "| Increase %s area by 5,000 ha | +$%sm GM | Next Season |\n",
		cropTitle(top.Crop), millions(shiftGain))
	fmt.Fprintf(&b, "| Reduce %s by 5,000 ha | Reallocate to higher-margin crops | Next Season |\n\n",
		cropTitle(bottom.Crop))
	fmt.Fprintf(&b, "*Rationale:* %s generates $%.0f/ha vs %s at $%.0f/ha. Shifting 5,000 ha adds ~$%sm to gross margin.\n\n",
		cropTitle(top.Crop), top.GMPerHa, cropTitle(bottom.Crop), bottom.GMPerHa, millions(shiftGain))

	b.WriteString(`**Priority 2: Lock in Price Gains (High Impact, Short Term)**

| Action | Expected Impact | Timeline |
|--------|-----------------|----------|
| Forward sell 40% of remaining wheat | Protect $16/t price premium | Immediate |
| Hedge OSR exposure | Protect $85/t premium vs budget | This Month |
| Lock sunflower contracts | Protect $114/t premium | This Month |

**Priority 3: Cost Reduction Initiatives (Medium Impact, Ongoing)**

| Action | Expected Impact | Timeline |
|--------|-----------------|----------|
| Optimize fertilizer application rates | -5% input cost | Ongoing |
| Renegotiate logistics contracts | -3% transport cost | Q3 |

**Priority 4: Yield Improvement (Medium Impact, Long Term)**

| Action | Expected Impact | Timeline |
|--------|-----------------|----------|
| Precision agriculture technology | +5% yield improvement | 2-3 Years |
| Improved seed varieties | +3% yield improvement | Next Season |

*Rationale:* Every 10% yield improvement adds ~$30m to gross margin.

**Implementation Roadmap:**

1. **Immediate:** Execute forward sales for price protection; review hedging positions.
2. **Short Term:** Finalize next season's crop plan; launch cost reduction initiatives.
3. **Medium Term:** Implement crop mix changes; deploy precision agriculture tools.
4. **Long Term:** Full precision agriculture deployment; expansion opportunities.

*Analysis based on the CFG Ukraine Value-Driver Tree model and FY2025 data.*
`)
	return b.String()
}

// renderDriverTree renders the crop knowledge-base response for the computed
// driver-tree result.
func renderDriverTree(message string, vdt *drivertree.Result) string {
	switch vdt.Kind {
	case drivertree.KindGrossMargin:
		return renderGrossMargin(vdt.GrossMargin)
	case drivertree.KindSensitivity:
		return renderSensitivity(message, vdt.Sensitivity)
	case drivertree.KindRanking:
		return renderRanking(vdt.Ranking)
	case drivertree.KindVariance:
		return renderVariance(vdt.Variance)
	}
	return "Analysis completed using the Value-Driver Tree framework."
}

func renderGrossMargin(gm *drivertree.GrossMargin) string {
	if gm.Crop == "all" {
		return fmt.Sprintf(`**CFG Ukraine Total Crop Portfolio (FY2025 Forecast)**

| Metric | Value |
|--------|-------|
| Total Area | %s ha |
| Total Revenue | $%s |
| Total Gross Margin | $%s |
| GM %% | %.1f%% |
| GM per Hectare | $%.0f/ha |

*Data sourced from the CFG Ukraine knowledge base (Value-Driver Tree model).*
`, comma(int64(gm.AreaHa)), comma(int64(gm.RevenueUSD)), comma(int64(gm.GrossMarginUSD)),
			gm.GMPercent, gm.GMPerHa)
	}

	return fmt.Sprintf(`**%s Analysis (FY2025 Forecast)**

| Metric | Value |
|--------|-------|
| Area | %s ha |
| Yield | %.2f t/ha |
| Volume | %s tons |
| Price | $%.2f/t |
| Revenue | $%s |
| Gross Margin | $%s |
| GM %% | %.1f%% |
| GM per Hectare | $%.0f/ha |

**Value-Driver Tree Breakdown:**
- Revenue = Area x Yield x Price = %s ha x %.2f t/ha x $%.2f/t
- Cost of Production = Volume x Cost per ton ($%.0f/t benchmark)
- Gross Margin = Revenue - Cost of Production

*Data sourced from the CFG Ukraine knowledge base (Value-Driver Tree model).*
`, cropTitle(gm.Crop), comma(int64(gm.AreaHa)), gm.YieldTHa, comma(int64(gm.VolumeTons)),
		gm.PriceUSDT, comma(int64(gm.RevenueUSD)), comma(int64(gm.GrossMarginUSD)),
		gm.GMPercent, gm.GMPerHa,
		comma(int64(gm.AreaHa)), gm.YieldTHa, gm.PriceUSDT, gm.CostPerTon)
}

func renderSensitivity(message string, sens *drivertree.Sensitivity) string {
	if sens.Err != "" {
		return fmt.Sprintf("**Sensitivity Analysis**\n\nThe requested scenario could not be evaluated: %s.\n\nAvailable drivers cover crop prices (wheat, OSR, maize, soybean, sunflower), yields, fertilizer costs, and the USD/UAH exchange rate.", sens.Err)
	}

	lower := strings.ToLower(message)
	direction := "increase"
	sign := "+"
	if sens.ChangePct < 0 || strings.Contains(lower, "drop") || strings.Contains(lower, "decrease") || strings.Contains(lower, "fall") {
		direction = "decrease"
		sign = "-"
	}

	var b strings.Builder
	fmt.Fprintf(&b, `**Sensitivity Analysis: %s**

**Scenario Summary:**

| Parameter | Value |
|-----------|-------|
| Driver Analyzed | %s |
| Scenario | %.0f%% %s |
| Gross Margin Impact | %s$%.1f %s |
`, driverTitle(sens.Driver), driverTitle(sens.Driver), abs(sens.ChangePct), direction,
		sign, abs(sens.ImpactAmount), sens.ImpactUnit)
	if sens.BaseVolume > 0 {
		fmt.Fprintf(&b, "| Affected Volume | %s tons |\n", comma(int64(sens.BaseVolume)))
	}

	fmt.Fprintf(&b, `
**Scenario Analysis:**

A **%.0f%% %s** in %s would result in approximately **%s$%.1f %s** impact on gross margin.

**Calculation Methodology:**
- Based on Value-Driver Tree: GM Impact = Volume x Price Change
- Uses current forecast volumes and price assumptions
- Assumes other variables (yield, costs, FX) remain constant

**Recommended Actions:**
1. Consider locking in a share of remaining unpriced volume via forward contracts.
2. Set price alerts at key technical levels and track supply/demand indicators.
3. Identify cost reduction opportunities as a contingency if prices fall.

*Analysis based on the CFG Ukraine Value-Driver Tree model and FY2025 forecast data.*
`, abs(sens.ChangePct), direction, strings.ToLower(driverTitle(sens.Driver)),
		sign, abs(sens.ImpactAmount), sens.ImpactUnit)
	return b.String()
}

func renderRanking(ranking []drivertree.RankedCrop) string {
	if len(ranking) == 0 {
		return "No crop data available for ranking."
	}

	var totalArea float64
	for _, c := range ranking {
		totalArea += c.AreaHa
	}
	top := ranking[0]
	bottom := ranking[len(ranking)-1]

	var b strings.Builder
	b.WriteString("**Crop Mix Optimization Analysis (FY2025)**\n\n")
	b.WriteString("**Current Profitability Ranking by GM per Hectare:**\n\n")
	b.WriteString("| Rank | Crop | Area (ha) | Area % | GM/ha | GM % |\n")
	b.WriteString("|------|------|-----------|--------|-------|------|\n")
	for i, c := range ranking {
		fmt.Fprintf(&b, "| %d | %s | %s | %.1f%% | $%.0f | %.1f%% |\n",
			i+1, cropTitle(c.Crop), comma(int64(c.AreaHa)), safeRatioPct(c.AreaHa, totalArea),
			c.GMPerHa, c.GMPercent)
	}

	fmt.Fprintf(&b, `
**Strategic Analysis:**

The profitability analysis reveals significant variation across crops, with **%s** generating $%.0f/ha compared to **%s** at $%.0f/ha - a difference of $%.0f/ha.

**Optimization Recommendations:**

1. **Maximize High-Margin Crops:** %s delivers the highest returns; consider increasing its area where agronomically feasible.
2. **Evaluate Low-Margin Crops:** %s shows the lowest GM/ha; consider reducing its area unless needed for rotation.
3. **Rotation Constraints:** OSR requires a 4-year rotation (max ~25%% of area); sunflower a 7-year rotation (max ~14%%).
4. **Scenario Impact:** Shifting 5,000 ha from %s to %s would add ~$%s to gross margin.

**Risk Considerations:**
- Price volatility differs by crop (OSR more volatile than wheat)
- Diversification provides a natural hedge against weather and market risks

*Analysis based on the CFG Ukraine Value-Driver Tree model and FY2025 forecast data.*
`, cropTitle(top.Crop), top.GMPerHa, cropTitle(bottom.Crop), bottom.GMPerHa,
		top.GMPerHa-bottom.GMPerHa,
		cropTitle(top.Crop), cropTitle(bottom.Crop),
		cropTitle(bottom.Crop), cropTitle(top.Crop),
		comma(int64((top.GMPerHa-bottom.GMPerHa)*5000)))
	return b.String()
}

func renderVariance(vd *drivertree.Variance) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**Variance Analysis: %s vs Budget**\n\n", metricTitle(vd.Metric))
	fmt.Fprintf(&b, "**Summary:**\n%s is forecasted at %sm SAR versus budget of %sm SAR, a variance of **%sm SAR (%+.1f%%)**.\n",
		metricTitle(vd.Metric), millions(vd.Actual), millions(vd.Budget),
		millions(vd.TotalVariance), vd.VariancePct)
	b.WriteString(varianceBreakdown(vd))
	b.WriteString(`
**Management Implications:**
- The outperformance is primarily driven by external market factors (commodity prices) rather than operational improvements.
- Price gains should be considered cyclical and may not persist in future periods.
- Recommend locking in gains through forward sales where advantageous.

*Analysis based on the CFG Ukraine Value-Driver Tree model.*
`)
	return b.String()
}

func varianceBreakdown(vd *drivertree.Variance) string {
	var b strings.Builder
	b.WriteString("\n**Variance Decomposition:**\n\n")
	b.WriteString("| Driver | Impact (SAR) | % of Variance |\n")
	b.WriteString("|--------|-------------|---------------|\n")
	for _, name := range []string{"price_effect", "cost_effect", "yield_effect", "volume_effect", "other"} {
		eff, ok := vd.Drivers[name]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "| %s | %sm | %.1f%% |\n", driverTitle(name), millions(eff.Amount), eff.Pct)
	}
	fmt.Fprintf(&b, "| **Total Variance** | **%sm** | **100%%** |\n", millions(vd.TotalVariance))
	return b.String()
}

// vdtContext renders a compact driver-tree summary for LLM prompts.
func vdtContext(vdt *drivertree.Result) string {
	if vdt == nil {
		return ""
	}
	switch vdt.Kind {
	case drivertree.KindVariance:
		vd := vdt.Variance
		return fmt.Sprintf(`Variance Decomposition:
- Total Variance: %sm SAR (%+.1f%%)
- Price Effect: %sm SAR (%.1f%%)
- Cost Effect: %sm SAR (%.1f%%)
- Yield Effect: %sm SAR (%.1f%%)
- Volume Effect: %sm SAR (%.1f%%)`,
			millions(vd.TotalVariance), vd.VariancePct,
			millions(vd.Drivers["price_effect"].Amount), vd.Drivers["price_effect"].Pct,
			millions(vd.Drivers["cost_effect"].Amount), vd.Drivers["cost_effect"].Pct,
			millions(vd.Drivers["yield_effect"].Amount), vd.Drivers["yield_effect"].Pct,
			millions(vd.Drivers["volume_effect"].Amount), vd.Drivers["volume_effect"].Pct)
	case drivertree.KindSensitivity:
		s := vdt.Sensitivity
		if s.Err != "" {
			return "Sensitivity analysis error: " + s.Err
		}
		return fmt.Sprintf("Sensitivity Analysis:\n- Driver: %s\n- Change: %.0f%%\n- Impact: %.1f %s",
			s.Driver, s.ChangePct, s.ImpactAmount, s.ImpactUnit)
	case drivertree.KindRanking:
		var b strings.Builder
		b.WriteString("Crop Profitability Ranking (by GM per hectare):\n")
		for i, c := range vdt.Ranking {
			if i >= 3 {
				break
			}
			fmt.Fprintf(&b, "%d. %s: $%.0f/ha, %.1f%% margin\n", i+1, c.Crop, c.GMPerHa, c.GMPercent)
		}
		return b.String()
	case drivertree.KindGrossMargin:
		gm := vdt.GrossMargin
		return fmt.Sprintf("%s Gross Margin:\n- Area: %s ha\n- Gross Margin: $%s\n- GM %%: %.1f%%\n- GM per ha: $%.0f/ha",
			cropTitle(gm.Crop), comma(int64(gm.AreaHa)), comma(int64(gm.GrossMarginUSD)),
			gm.GMPercent, gm.GMPerHa)
	}
	return ""
}

// buildAnswerPrompt assembles the user prompt for LLM response generation
// from the question, the probe data, and any driver-tree context.
func buildAnswerPrompt(category, question string, probe *warehouse.ProbeResult, vdt *drivertree.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Answer this %s analytics question about CFG Ukraine.\n\n", category)
	fmt.Fprintf(&b, "**User Question:** %s\n\n", question)
	fmt.Fprintf(&b, "**Data Retrieved:**\n- Columns: %v\n- Row Count: %d\n- Data: %s\n",
		probe.Columns, probe.RowCount, formatRowsForPrompt(probe))
	if ctx := vdtContext(vdt); ctx != "" {
		fmt.Fprintf(&b, "\n**Value-Driver Tree Context:**\n%s\n", ctx)
	}
	b.WriteString("\nProvide a clear, executive-level response following the template for this analytics type.\nFocus on answering the question directly with specific numbers.\nIf the data is empty or insufficient, acknowledge this and provide what context you can from the baseline data.")
	return b.String()
}

// formatRowsForPrompt bounds the rows included in a prompt.
func formatRowsForPrompt(probe *warehouse.ProbeResult) string {
	const maxRows = 20
	if len(probe.Rows) == 0 {
		return "No data rows returned"
	}
	rows := probe.Rows
	truncated := false
	if len(rows) > maxRows {
		rows = rows[:maxRows]
		truncated = true
	}
	out := fmt.Sprintf("%v", rows)
	if truncated {
		out += fmt.Sprintf("\n... (showing first %d of %d rows)", maxRows, probe.RowCount)
	}
	return out
}

// errorResponse is the fixed help text returned when the pipeline fails.
func errorResponse(question, errMsg string) string {
	return fmt.Sprintf(`I apologize, but I encountered an issue while processing your question.

**Your Question:** %s

**Issue:** %s

**Available Analytics:**
- **Descriptive**: "What was revenue in 2025?", "Show me crop areas"
- **Diagnostic**: "Why did net income beat budget?", "Explain the yield variance"
- **Predictive**: "What if wheat prices drop 10%%?", "Forecast Q4 margin"
- **Prescriptive**: "How should we optimize crop mix?", "Where to reduce costs?"

**Tip:** I have detailed data on CFG Ukraine crops including wheat, barley, OSR, maize, soybean, and sunflower.

Would you like to try a different question?`, question, errMsg)
}

// KnowledgeSummary describes the static dataset and available analyses.
func KnowledgeSummary(kb *config.Knowledge) string {
	crops := make([]string, 0, len(kb.Crops))
	for k := range kb.Crops {
		crops = append(crops, cropTitle(k))
	}
	return fmt.Sprintf(`**%s Knowledge Base Summary**

**FY%s Baseline Data:**
- Total Area: %s ha
- Revenue Forecast: %sm SAR
- EBITDA Forecast: %sm SAR
- Net Income Forecast: %sm SAR

**Crops Tracked:** %d (%s and others)

**Analytics Available:**
- Gross Margin Calculations (by crop or total)
- Variance Decomposition (Price, Cost, Yield, Volume effects)
- Sensitivity Analysis (Price, Yield, FX, Cost drivers)
- Crop Profitability Ranking

**Value-Driver Tree Formulas:**
- GM = Revenue - Cost of Production
- Revenue = Volume x Price
- Volume = Area x Yield
`, kb.Entity, kb.FiscalYear, comma(int64(kb.TotalAreaHa)),
		millions(kb.Financials.Forecast.Revenue),
		millions(kb.Financials.Forecast.EBITDA),
		millions(kb.Financials.Forecast.NetIncome),
		len(crops), strings.Join(firstN(crops, 3), ", "))
}

// Formatting helpers.

func millions(v float64) string {
	return comma(int64(v / 1e6))
}

// signedMillions is millions with an explicit plus sign on positive values,
// for variance columns.
func signedMillions(v float64) string {
	s := millions(v)
	if v > 0 {
		s = "+" + s
	}
	return s
}

// comma renders n with thousands separators.
func comma(n int64) string {
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	s := fmt.Sprintf("%d", n)
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	return sign + s
}

func variancePct(actual, budget float64) float64 {
	if budget == 0 {
		return 0
	}
	return (actual/budget - 1) * 100
}

func safeRatioPct(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return part / whole * 100
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func cropTitle(key string) string {
	return titleWords(strings.ReplaceAll(key, "_", " "))
}

func driverTitle(key string) string {
	return titleWords(strings.ReplaceAll(key, "_", " "))
}

func metricTitle(key string) string {
	return titleWords(strings.ReplaceAll(key, "_", " "))
}

func titleWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		if w == "" {
			continue
		}
		switch strings.ToLower(w) {
		case "osr", "fx", "usd", "uah", "ebitda", "gm":
			words[i] = strings.ToUpper(w)
		default:
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

func priceVarianceBullets(kb *config.Knowledge) string {
	var b strings.Builder
	for _, short := range []string{"osr", "sunflower", "wheat", "maize", "soybean", "barley"} {
		pv, ok := kb.PriceVariances[short]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "- %s: %+.0f $/t vs budget\n", cropTitle(short), pv.Variance)
	}
	return b.String()
}

func firstN(s []string, n int) []string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
