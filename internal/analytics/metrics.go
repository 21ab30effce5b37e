package analytics

import "math"

// MetricTotals are the base facts reported for one campaign.
type MetricTotals struct {
	Reach       float64 `json:"reach" yaml:"reach" validate:"gte=0"`
	Impressions float64 `json:"impressions" yaml:"impressions" validate:"gte=0"`
	LPV         float64 `json:"lpv" yaml:"lpv" validate:"gte=0"`
	Spend       float64 `json:"spend" yaml:"spend" validate:"gte=0"`
}

// Derived holds the ratios computed from MetricTotals.
type Derived struct {
	CostPerMille    float64 `json:"cpm"`
	Frequency       float64 `json:"frequency"`
	OutcomeRate     float64 `json:"outcome_rate"`
	OutcomePerMille float64 `json:"outcome_per_mille"`
	CostPerOutcome  float64 `json:"cost_per_outcome"`
}

// Derive computes CPM, frequency, outcome rate, outcomes per mille and
// cost per outcome. A zero denominator yields 0 for that metric.
func Derive(t MetricTotals) Derived {
	return Derived{
		CostPerMille:    SafeDiv(t.Spend, t.Impressions) * 1000,
		Frequency:       SafeDiv(t.Impressions, t.Reach),
		OutcomeRate:     SafeDiv(t.LPV, t.Impressions) * 100,
		OutcomePerMille: SafeDiv(t.LPV, t.Impressions) * 1000,
		CostPerOutcome:  SafeDiv(t.Spend, t.LPV),
	}
}

// SafeDiv divides num by den and returns 0 whenever the result would not be
// a finite number.
func SafeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return Finite(num / den)
}

// Finite replaces NaN and infinities with 0.
func Finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
