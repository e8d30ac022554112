// Package usage estimates residential electricity consumption from floor area.
package usage

import (
	"fmt"
	"math"
)

// Model is a quadratic annual-usage model in floor area: A*sqft² + B*sqft + C (kWh/year).
type Model struct {
	A float64 `yaml:"a" json:"a"`
	B float64 `yaml:"b" json:"b"`
	C float64 `yaml:"c" json:"c"`
}

// DefaultModel is the generic Texas residential fit.
var DefaultModel = Model{A: -0.000307, B: 4, C: 11000}

// MonthlyShape is the share of annual usage falling in each calendar month, January first.
var MonthlyShape = [12]float64{0.07, 0.06, 0.05, 0.06, 0.07, 0.11, 0.13, 0.14, 0.1, 0.08, 0.06, 0.07}

// EstimateAnnual estimates annual kWh for sqft of floor area using DefaultModel.
func EstimateAnnual(sqft float64) (float64, error) {
	return DefaultModel.EstimateAnnual(sqft)
}

// EstimateAnnual evaluates the model. The floor area must be positive and the
// estimate must come out positive; the quadratic turns over for very large homes.
func (m Model) EstimateAnnual(sqft float64) (float64, error) {
	if !(sqft > 0) || math.IsInf(sqft, 1) {
		return 0, fmt.Errorf("sq_ft must be > 0 and finite, got %v", sqft)
	}
	kwh := m.A*sqft*sqft + m.B*sqft + m.C
	if !(kwh > 0) {
		return 0, fmt.Errorf("usage model gives non-positive usage %.1f kWh for %.0f sq ft", kwh, sqft)
	}
	return kwh, nil
}

// Monthly spreads annual usage over the calendar using MonthlyShape.
func Monthly(annualKWh float64) [12]float64 {
	var out [12]float64
	for i, share := range MonthlyShape {
		out[i] = annualKWh * share
	}
	return out
}
