package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the immutable configuration for the analytics agent. It is built
// once at startup by Load and passed by reference; nothing mutates it at
// runtime.
type Config struct {
	Knowledge Knowledge
	Patterns  Patterns
}

// Knowledge is the static financial knowledge base for the entity: baseline
// crop data, financials, price variances vs budget, sensitivity factors, and
// benchmarks. It backs the driver-tree calculator and the knowledge-base
// response templates.
type Knowledge struct {
	Entity            string                   `yaml:"entity"`
	FiscalYear        string                   `yaml:"fiscal_year"`
	ReportingCurrency string                   `yaml:"reporting_currency"`
	TotalAreaHa       float64                  `yaml:"total_area_ha"`
	Crops             map[string]Crop          `yaml:"crops"`
	Financials        Financials               `yaml:"financials"`
	PriceVariances    map[string]PriceVariance `yaml:"price_variances"`
	Sensitivities     map[string]Sensitivity   `yaml:"sensitivities"`
	Benchmarks        Benchmarks               `yaml:"benchmarks"`
	FXRates           FXRates                  `yaml:"fx_rates"`
}

// Crop holds the baseline operational figures for one crop.
type Crop struct {
	AreaHa     float64 `yaml:"area_ha"`
	YieldTHa   float64 `yaml:"yield_t_ha"`
	VolumeTons float64 `yaml:"volume_tons"`
	PriceUSDT  float64 `yaml:"price_usd_t"`
}

// Financials carries the entity-level figures for the three scenarios in the
// reporting currency.
type Financials struct {
	YTD      Scenario `yaml:"ytd"`
	Forecast Scenario `yaml:"forecast"`
	Budget   Scenario `yaml:"budget"`
}

// Scenario is one revenue/EBITDA/net-income triple.
type Scenario struct {
	Revenue   float64 `yaml:"revenue"`
	EBITDA    float64 `yaml:"ebitda"`
	NetIncome float64 `yaml:"net_income"`
}

// PriceVariance is the budget-vs-actual price position for one crop, USD/t.
type PriceVariance struct {
	Budget   float64 `yaml:"budget"`
	Actual   float64 `yaml:"actual"`
	Variance float64 `yaml:"variance"`
}

// Sensitivity is the stored impact of a 10% move in one driver.
type Sensitivity struct {
	Per10Pct   float64 `yaml:"per_10pct"`
	Unit       string  `yaml:"unit"`
	VolumeTons float64 `yaml:"volume_tons,omitempty"`
}

// Benchmarks holds target ratios and per-crop production cost benchmarks.
// CostPerTon is keyed by short crop name (wheat, osr, maize); crops without
// an entry fall back to DefaultCostPerTon.
type Benchmarks struct {
	GMPercentTarget    float64            `yaml:"gm_percent_target"`
	EBITDAMarginTarget float64            `yaml:"ebitda_margin_target"`
	GMPerHaTarget      float64            `yaml:"gm_per_ha_target"`
	CostPerTon         map[string]float64 `yaml:"cost_per_ton"`
	DefaultCostPerTon  float64            `yaml:"default_cost_per_ton"`
}

// FXRates holds the conversion rates used to express USD driver effects in
// the reporting currency.
type FXRates struct {
	USDUAH float64 `yaml:"usd_uah"`
	USDSAR float64 `yaml:"usd_sar"`
}

// Patterns holds the classifier vocabularies: override and signal regexes per
// category, and the keyword lists behind the topic predicates.
type Patterns struct {
	Overrides Overrides            `yaml:"overrides"`
	Signals   map[string]SignalSet `yaml:"signals"`
	Topics    Topics               `yaml:"topics"`
}

// Overrides are the highest-confidence patterns, checked before any signal
// counting. Predictive overrides are evaluated before descriptive ones.
type Overrides struct {
	Predictive  []string `yaml:"predictive"`
	Descriptive []string `yaml:"descriptive"`
}

// SignalSet is the strong and weak regex lists for one category.
type SignalSet struct {
	Strong []string `yaml:"strong"`
	Weak   []string `yaml:"weak"`
}

// Topics holds the keyword vocabularies for the four routing predicates.
// PerformanceExclusions lists the action vocabulary that suppresses the
// financial-performance predicate.
type Topics struct {
	BudgetComparison      []string `yaml:"budget_comparison"`
	Crop                  []string `yaml:"crop"`
	FinancialPerformance  []string `yaml:"financial_performance"`
	PerformanceExclusions []string `yaml:"performance_exclusions"`
	Action                []string `yaml:"action"`
}

// Load reads knowledge.yaml and patterns.yaml from configDir and merges them
// into a single Config.
func Load(configDir string) (*Config, error) {
	cfg := &Config{}

	knowledgeFile := filepath.Join(configDir, "knowledge.yaml")
	if err := loadYAML(knowledgeFile, &cfg.Knowledge); err != nil {
		return nil, fmt.Errorf("loading knowledge.yaml: %w", err)
	}

	patternsFile := filepath.Join(configDir, "patterns.yaml")
	if err := loadYAML(patternsFile, &cfg.Patterns); err != nil {
		return nil, fmt.Errorf("loading patterns.yaml: %w", err)
	}

	return cfg, nil
}

func loadYAML(path string, target interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, target)
}

// CostPerTon returns the production cost benchmark for a crop key such as
// "winter_wheat" or "maize". The lookup strips any season prefix so that
// winter_wheat resolves the wheat benchmark; crops with no benchmark use the
// configured default.
func (k *Knowledge) CostPerTon(cropKey string) float64 {
	short := cropKey
	if i := strings.LastIndexByte(cropKey, '_'); i >= 0 {
		short = cropKey[i+1:]
	}
	if c, ok := k.Benchmarks.CostPerTon[short]; ok {
		return c
	}
	return k.Benchmarks.DefaultCostPerTon
}

// ResolveCrop maps a short crop mention from query text (wheat, corn, canola)
// to the knowledge-base crop key, or "" if the text names no known crop.
func (k *Knowledge) ResolveCrop(text string) string {
	lower := strings.ToLower(text)
	aliases := map[string]string{
		"corn":   "maize",
		"canola": "osr",
	}
	for alias, short := range aliases {
		if strings.Contains(lower, alias) {
			lower += " " + short
		}
	}
	for _, short := range []string{"wheat", "barley", "osr", "maize", "soybean", "sunflower"} {
		if !strings.Contains(lower, short) {
			continue
		}
		for key := range k.Crops {
			if key == short || strings.HasSuffix(key, "_"+short) {
				return key
			}
		}
	}
	return ""
}
