// Package drivertree implements the value-driver tree arithmetic over the
// static knowledge base: gross margin, variance decomposition, sensitivity
// scaling, and crop profitability ranking. Every function is deterministic
// and performs no I/O.
package drivertree

import (
	"fmt"
	"sort"

	"github.com/agrovista/finsight/config"
)

// Kind tags a Result with the analysis that produced it.
type Kind string

const (
	KindGrossMargin Kind = "gross_margin"
	KindVariance    Kind = "variance_decomposition"
	KindSensitivity Kind = "sensitivity_analysis"
	KindRanking     Kind = "optimization_ranking"
)

// Result is the tagged outcome of one driver-tree analysis. Exactly one of
// the payload fields is set, matching Kind. Results are computed fresh per
// query and never mutated after creation.
type Result struct {
	Kind        Kind
	GrossMargin *GrossMargin
	Variance    *Variance
	Sensitivity *Sensitivity
	Ranking     []RankedCrop
}

// Findings returns the headline numbers of the analysis as structured
// label/value pairs. The multi-question synthesizer aggregates these instead
// of grepping rendered text.
func (r *Result) Findings() []Finding {
	switch r.Kind {
	case KindGrossMargin:
		gm := r.GrossMargin
		return []Finding{
			{Label: "gross_margin_usd", Value: fmt.Sprintf("$%.0f", gm.GrossMarginUSD)},
			{Label: "gm_percent", Value: fmt.Sprintf("%.1f%%", gm.GMPercent)},
			{Label: "gm_per_ha", Value: fmt.Sprintf("$%.0f/ha", gm.GMPerHa)},
		}
	case KindVariance:
		v := r.Variance
		return []Finding{
			{Label: "metric", Value: v.Metric},
			{Label: "total_variance", Value: fmt.Sprintf("%.0f", v.TotalVariance)},
			{Label: "variance_pct", Value: fmt.Sprintf("%+.1f%%", v.VariancePct)},
		}
	case KindSensitivity:
		s := r.Sensitivity
		if s.Err != "" {
			return []Finding{{Label: "sensitivity_error", Value: s.Err}}
		}
		return []Finding{
			{Label: "driver", Value: s.Driver},
			{Label: "impact", Value: fmt.Sprintf("%.1f %s", s.ImpactAmount, s.ImpactUnit)},
		}
	case KindRanking:
		if len(r.Ranking) == 0 {
			return nil
		}
		top := r.Ranking[0]
		return []Finding{
			{Label: "top_crop", Value: top.Crop},
			{Label: "top_gm_per_ha", Value: fmt.Sprintf("$%.0f/ha", top.GMPerHa)},
		}
	}
	return nil
}

// Finding is one structured headline number extracted from a Result.
type Finding struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// GrossMargin is the value-driver breakdown for one crop, or for the whole
// portfolio when Crop == "all".
type GrossMargin struct {
	Crop           string
	AreaHa         float64
	YieldTHa       float64
	VolumeTons     float64
	PriceUSDT      float64
	RevenueUSD     float64
	CostPerTon     float64
	CostUSD        float64
	GrossMarginUSD float64
	GMPercent      float64
	GMPerHa        float64
}

// Variance is a budget-vs-forecast variance decomposed into driver effects.
type Variance struct {
	Metric        string
	Actual        float64
	Budget        float64
	TotalVariance float64
	VariancePct   float64
	Drivers       map[string]DriverEffect
}

// DriverEffect is one driver's contribution to a variance.
type DriverEffect struct {
	Amount float64
	Pct    float64
}

// Sensitivity is the scaled impact of a driver change. Err is set instead of
// the numeric fields when the driver is not in the sensitivity table; callers
// must check it before formatting.
type Sensitivity struct {
	Driver       string
	ChangePct    float64
	ImpactAmount float64
	ImpactUnit   string
	BaseVolume   float64
	Err          string
}

// RankedCrop is one row of the crop profitability ranking.
type RankedCrop struct {
	Crop      string
	AreaHa    float64
	GMPerHa   float64
	GMPercent float64
	PriceUSDT float64
}

// Calculator evaluates driver-tree analyses against an injected, read-only
// knowledge base.
type Calculator struct {
	kb *config.Knowledge
}

// NewCalculator returns a Calculator over the given knowledge base.
func NewCalculator(kb *config.Knowledge) *Calculator {
	return &Calculator{kb: kb}
}

// cropOrder returns the crop keys in a stable order so that aggregation and
// ranking are deterministic run to run.
func (c *Calculator) cropOrder() []string {
	keys := make([]string, 0, len(c.kb.Crops))
	for k := range c.kb.Crops {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// GrossMargin computes the value-driver tree for one crop:
//
//	Volume = Area x Yield
//	Revenue = Volume x Price
//	Cost = Volume x benchmark cost per ton
//	GM = Revenue - Cost
//
// An empty crop aggregates across the whole portfolio. Ratio outputs are
// guarded against zero revenue and zero area.
func (c *Calculator) GrossMargin(crop string) *GrossMargin {
	if crop != "" {
		if data, ok := c.kb.Crops[crop]; ok {
			return c.cropGrossMargin(crop, data)
		}
	}

	total := &GrossMargin{Crop: "all", AreaHa: c.kb.TotalAreaHa}
	for _, key := range c.cropOrder() {
		gm := c.cropGrossMargin(key, c.kb.Crops[key])
		total.RevenueUSD += gm.RevenueUSD
		total.CostUSD += gm.CostUSD
		total.GrossMarginUSD += gm.GrossMarginUSD
		total.VolumeTons += gm.VolumeTons
	}
	total.GMPercent = safePct(total.GrossMarginUSD, total.RevenueUSD)
	if total.AreaHa > 0 {
		total.GMPerHa = total.GrossMarginUSD / total.AreaHa
	}
	return total
}

func (c *Calculator) cropGrossMargin(key string, data config.Crop) *GrossMargin {
	volume := data.AreaHa * data.YieldTHa
	revenue := volume * data.PriceUSDT
	costPerTon := c.kb.CostPerTon(key)
	cost := volume * costPerTon
	gm := revenue - cost

	out := &GrossMargin{
		Crop:           key,
		AreaHa:         data.AreaHa,
		YieldTHa:       data.YieldTHa,
		VolumeTons:     volume,
		PriceUSDT:      data.PriceUSDT,
		RevenueUSD:     revenue,
		CostPerTon:     costPerTon,
		CostUSD:        cost,
		GrossMarginUSD: gm,
		GMPercent:      safePct(gm, revenue),
	}
	if data.AreaHa > 0 {
		out.GMPerHa = gm / data.AreaHa
	}
	return out
}

// Variance decomposes the forecast-vs-budget variance for a metric
// (net_income, revenue, or ebitda; anything else falls back to net_income).
//
// The price effect is computed bottom-up from per-crop price variances and
// volumes, converted to the reporting currency. The yield, cost, and volume
// effects are allocated as fixed proportions of the total variance (15%, 25%,
// 5%) with the remainder in "other". The fixed split is a known
// approximation carried over from the reference model, not a first-principles
// decomposition.
func (c *Calculator) Variance(metric string) *Variance {
	fin := c.kb.Financials
	var actual, budget float64
	switch metric {
	case "revenue":
		actual, budget = fin.Forecast.Revenue, fin.Budget.Revenue
	case "ebitda":
		actual, budget = fin.Forecast.EBITDA, fin.Budget.EBITDA
	case "net_income":
		actual, budget = fin.Forecast.NetIncome, fin.Budget.NetIncome
	default:
		metric = "net_income"
		actual, budget = fin.Forecast.NetIncome, fin.Budget.NetIncome
	}

	total := actual - budget

	priceEffectUSD := 0.0
	for short, pv := range c.kb.PriceVariances {
		key := c.kb.ResolveCrop(short)
		if key == "" {
			continue
		}
		priceEffectUSD += c.kb.Crops[key].VolumeTons * pv.Variance
	}
	priceEffect := priceEffectUSD * c.kb.FXRates.USDSAR

	yieldEffect := total * 0.15
	costEffect := total * 0.25
	volumeEffect := total * 0.05
	otherEffect := total - priceEffect - yieldEffect - costEffect - volumeEffect

	variancePct := 0.0
	if budget != 0 {
		variancePct = (actual/budget - 1) * 100
	}

	return &Variance{
		Metric:        metric,
		Actual:        actual,
		Budget:        budget,
		TotalVariance: total,
		VariancePct:   variancePct,
		Drivers: map[string]DriverEffect{
			"price_effect":  {Amount: priceEffect, Pct: safePct(priceEffect, total)},
			"cost_effect":   {Amount: costEffect, Pct: safePct(costEffect, total)},
			"yield_effect":  {Amount: yieldEffect, Pct: safePct(yieldEffect, total)},
			"volume_effect": {Amount: volumeEffect, Pct: safePct(volumeEffect, total)},
			"other":         {Amount: otherEffect, Pct: safePct(otherEffect, total)},
		},
	}
}

// Sensitivity linearly scales the stored per-10% impact of a driver by
// changePct/10. An unknown driver yields a Result with Err set rather than
// an error return.
func (c *Calculator) Sensitivity(driver string, changePct float64) *Sensitivity {
	sens, ok := c.kb.Sensitivities[driver]
	if !ok {
		return &Sensitivity{
			Driver: driver,
			Err:    fmt.Sprintf("driver %q not found in sensitivity table", driver),
		}
	}
	return &Sensitivity{
		Driver:       driver,
		ChangePct:    changePct,
		ImpactAmount: sens.Per10Pct * (changePct / 10),
		ImpactUnit:   sens.Unit,
		BaseVolume:   sens.VolumeTons,
	}
}

// CropRanking ranks every crop by gross margin per hectare, descending. The
// sort is stable, so equal GM/ha preserves the (alphabetical) input order,
// and repeated calls on unchanged data produce identical output.
func (c *Calculator) CropRanking() []RankedCrop {
	var out []RankedCrop
	for _, key := range c.cropOrder() {
		gm := c.cropGrossMargin(key, c.kb.Crops[key])
		out = append(out, RankedCrop{
			Crop:      key,
			AreaHa:    gm.AreaHa,
			GMPerHa:   gm.GMPerHa,
			GMPercent: gm.GMPercent,
			PriceUSDT: gm.PriceUSDT,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].GMPerHa > out[j].GMPerHa
	})
	return out
}

func safePct(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return part / whole * 100
}
