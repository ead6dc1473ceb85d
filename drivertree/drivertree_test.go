package drivertree

import (
	"math"
	"testing"

	"github.com/agrovista/finsight/config"
)

func loadTestKnowledge(t *testing.T) *config.Knowledge {
	t.Helper()
	cfg, err := config.Load("../config")
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	return &cfg.Knowledge
}

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestGrossMarginIdentities(t *testing.T) {
	kb := loadTestKnowledge(t)
	calc := NewCalculator(kb)

	for key, data := range kb.Crops {
		gm := calc.GrossMargin(key)

		if !approxEqual(gm.VolumeTons, data.AreaHa*data.YieldTHa, 1e-6) {
			t.Errorf("%s: volume = %f, want area*yield = %f", key, gm.VolumeTons, data.AreaHa*data.YieldTHa)
		}
		if !approxEqual(gm.RevenueUSD, gm.VolumeTons*gm.PriceUSDT, 1e-3) {
			t.Errorf("%s: revenue = %f, want volume*price", key, gm.RevenueUSD)
		}
		if !approxEqual(gm.GrossMarginUSD, gm.RevenueUSD-gm.CostUSD, 1e-6) {
			t.Errorf("%s: gm = %f, want revenue-cost", key, gm.GrossMarginUSD)
		}
		if gm.RevenueUSD > 0 && !approxEqual(gm.GMPercent, gm.GrossMarginUSD/gm.RevenueUSD*100, 1e-6) {
			t.Errorf("%s: gm%% = %f inconsistent with gm/revenue", key, gm.GMPercent)
		}
		if data.AreaHa > 0 && !approxEqual(gm.GMPerHa, gm.GrossMarginUSD/data.AreaHa, 1e-6) {
			t.Errorf("%s: gm/ha = %f inconsistent with gm/area", key, gm.GMPerHa)
		}
	}
}

func TestGrossMarginBenchmarkCost(t *testing.T) {
	kb := loadTestKnowledge(t)
	calc := NewCalculator(kb)

	// winter_wheat maps to the wheat benchmark; soybean has no benchmark and
	// takes the default.
	if gm := calc.GrossMargin("winter_wheat"); gm.CostPerTon != 115 {
		t.Errorf("winter_wheat cost/ton = %f, want 115", gm.CostPerTon)
	}
	if gm := calc.GrossMargin("soybean"); gm.CostPerTon != kb.Benchmarks.DefaultCostPerTon {
		t.Errorf("soybean cost/ton = %f, want default %f", gm.CostPerTon, kb.Benchmarks.DefaultCostPerTon)
	}
}

func TestGrossMarginPortfolioAggregate(t *testing.T) {
	kb := loadTestKnowledge(t)
	calc := NewCalculator(kb)

	total := calc.GrossMargin("")
	if total.Crop != "all" {
		t.Fatalf("crop = %q, want all", total.Crop)
	}

	var revenue, cost float64
	for key := range kb.Crops {
		gm := calc.GrossMargin(key)
		revenue += gm.RevenueUSD
		cost += gm.CostUSD
	}
	if !approxEqual(total.RevenueUSD, revenue, 1e-3) {
		t.Errorf("portfolio revenue = %f, want sum of crops %f", total.RevenueUSD, revenue)
	}
	if !approxEqual(total.GrossMarginUSD, revenue-cost, 1e-3) {
		t.Errorf("portfolio gm = %f, want %f", total.GrossMarginUSD, revenue-cost)
	}
	if total.GMPerHa <= 0 {
		t.Errorf("portfolio gm/ha = %f, want positive", total.GMPerHa)
	}

	// Unknown crops aggregate too rather than erroring.
	unknown := calc.GrossMargin("rice")
	if unknown.Crop != "all" {
		t.Errorf("unknown crop fell through to %q, want portfolio aggregate", unknown.Crop)
	}
}

func TestGrossMarginZeroGuards(t *testing.T) {
	kb := &config.Knowledge{
		Crops: map[string]config.Crop{
			"fallow": {AreaHa: 0, YieldTHa: 0, PriceUSDT: 0},
		},
		Benchmarks: config.Benchmarks{DefaultCostPerTon: 150},
	}
	calc := NewCalculator(kb)

	gm := calc.GrossMargin("fallow")
	if gm.GMPercent != 0 {
		t.Errorf("gm%% = %f with zero revenue, want 0", gm.GMPercent)
	}
	if gm.GMPerHa != 0 {
		t.Errorf("gm/ha = %f with zero area, want 0", gm.GMPerHa)
	}
}

func TestVarianceNetIncome(t *testing.T) {
	kb := loadTestKnowledge(t)
	calc := NewCalculator(kb)

	v := calc.Variance("net_income")
	wantTotal := kb.Financials.Forecast.NetIncome - kb.Financials.Budget.NetIncome
	if !approxEqual(v.TotalVariance, wantTotal, 1e-6) {
		t.Errorf("total variance = %f, want %f", v.TotalVariance, wantTotal)
	}
	if v.TotalVariance <= 0 {
		t.Errorf("expected favorable net income variance, got %f", v.TotalVariance)
	}

	// Drivers must partition the total exactly: other absorbs the remainder.
	var sum float64
	for _, eff := range v.Drivers {
		sum += eff.Amount
	}
	if !approxEqual(sum, v.TotalVariance, 1e-3) {
		t.Errorf("driver effects sum to %f, want total %f", sum, v.TotalVariance)
	}

	// Fixed allocation shares for the modeled effects.
	if !approxEqual(v.Drivers["yield_effect"].Amount, v.TotalVariance*0.15, 1e-6) {
		t.Errorf("yield effect = %f, want 15%% of total", v.Drivers["yield_effect"].Amount)
	}
	if !approxEqual(v.Drivers["cost_effect"].Amount, v.TotalVariance*0.25, 1e-6) {
		t.Errorf("cost effect = %f, want 25%% of total", v.Drivers["cost_effect"].Amount)
	}
	if !approxEqual(v.Drivers["volume_effect"].Amount, v.TotalVariance*0.05, 1e-6) {
		t.Errorf("volume effect = %f, want 5%% of total", v.Drivers["volume_effect"].Amount)
	}
}

func TestVarianceMetricSelection(t *testing.T) {
	kb := loadTestKnowledge(t)
	calc := NewCalculator(kb)

	tests := []struct {
		metric     string
		wantMetric string
		wantActual float64
		wantBudget float64
	}{
		{"revenue", "revenue", kb.Financials.Forecast.Revenue, kb.Financials.Budget.Revenue},
		{"ebitda", "ebitda", kb.Financials.Forecast.EBITDA, kb.Financials.Budget.EBITDA},
		{"net_income", "net_income", kb.Financials.Forecast.NetIncome, kb.Financials.Budget.NetIncome},
		{"cash_flow", "net_income", kb.Financials.Forecast.NetIncome, kb.Financials.Budget.NetIncome},
	}
	for _, tt := range tests {
		v := calc.Variance(tt.metric)
		if v.Metric != tt.wantMetric {
			t.Errorf("Variance(%q).Metric = %q, want %q", tt.metric, v.Metric, tt.wantMetric)
		}
		if v.Actual != tt.wantActual || v.Budget != tt.wantBudget {
			t.Errorf("Variance(%q) = %f vs %f, want %f vs %f",
				tt.metric, v.Actual, v.Budget, tt.wantActual, tt.wantBudget)
		}
	}
}

func TestVariancePriceEffectBottomUp(t *testing.T) {
	kb := loadTestKnowledge(t)
	calc := NewCalculator(kb)

	var wantUSD float64
	for short, pv := range kb.PriceVariances {
		key := kb.ResolveCrop(short)
		if key == "" {
			t.Fatalf("price variance key %q does not resolve to a crop", short)
		}
		wantUSD += kb.Crops[key].VolumeTons * pv.Variance
	}
	want := wantUSD * kb.FXRates.USDSAR

	v := calc.Variance("net_income")
	if !approxEqual(v.Drivers["price_effect"].Amount, want, 1e-3) {
		t.Errorf("price effect = %f, want %f", v.Drivers["price_effect"].Amount, want)
	}
}

func TestSensitivityScaling(t *testing.T) {
	kb := loadTestKnowledge(t)
	calc := NewCalculator(kb)

	tests := []struct {
		driver     string
		changePct  float64
		wantImpact float64
	}{
		{"wheat_price", 10, 16.5},
		{"wheat_price", 15, 24.75},
		{"wheat_price", -10, -16.5},
		{"osr_price", 20, 11.6},
		{"yield_all_crops", 5, 15},
	}
	for _, tt := range tests {
		s := calc.Sensitivity(tt.driver, tt.changePct)
		if s.Err != "" {
			t.Fatalf("Sensitivity(%q, %f) unexpected error %q", tt.driver, tt.changePct, s.Err)
		}
		if !approxEqual(s.ImpactAmount, tt.wantImpact, 1e-9) {
			t.Errorf("Sensitivity(%q, %f) = %f, want %f", tt.driver, tt.changePct, s.ImpactAmount, tt.wantImpact)
		}
	}
}

func TestSensitivityUnknownDriver(t *testing.T) {
	kb := loadTestKnowledge(t)
	calc := NewCalculator(kb)

	s := calc.Sensitivity("cocoa_price", 10)
	if s.Err == "" {
		t.Fatal("expected structured error for unknown driver")
	}
	if s.ImpactAmount != 0 {
		t.Errorf("impact = %f for unknown driver, want 0", s.ImpactAmount)
	}
}

func TestCropRanking(t *testing.T) {
	kb := loadTestKnowledge(t)
	calc := NewCalculator(kb)

	ranking := calc.CropRanking()
	if len(ranking) != len(kb.Crops) {
		t.Fatalf("ranking has %d crops, want %d", len(ranking), len(kb.Crops))
	}
	for i := 1; i < len(ranking); i++ {
		if ranking[i-1].GMPerHa < ranking[i].GMPerHa {
			t.Errorf("ranking not descending at %d: %f < %f",
				i, ranking[i-1].GMPerHa, ranking[i].GMPerHa)
		}
	}

	// Ranking is pure over unchanged data.
	again := calc.CropRanking()
	for i := range ranking {
		if ranking[i] != again[i] {
			t.Errorf("ranking changed between calls at %d: %+v vs %+v", i, ranking[i], again[i])
		}
	}
}

func TestResultFindings(t *testing.T) {
	kb := loadTestKnowledge(t)
	calc := NewCalculator(kb)

	gm := &Result{Kind: KindGrossMargin, GrossMargin: calc.GrossMargin("maize")}
	if got := gm.Findings(); len(got) != 3 || got[0].Label != "gross_margin_usd" {
		t.Errorf("gross margin findings = %+v", got)
	}

	sens := &Result{Kind: KindSensitivity, Sensitivity: calc.Sensitivity("unknown", 10)}
	findings := sens.Findings()
	if len(findings) != 1 || findings[0].Label != "sensitivity_error" {
		t.Errorf("error sensitivity findings = %+v", findings)
	}

	empty := &Result{Kind: KindRanking}
	if got := empty.Findings(); got != nil {
		t.Errorf("empty ranking findings = %+v, want nil", got)
	}
}
