package billing

import (
	"fmt"
	"time"

	"plan-picker/internal/model"
	"plan-picker/internal/usage"

	"github.com/shopspring/decimal"
)

// Engine projects monthly bills for a valued plan.
type Engine struct{}

// New returns a bill projection engine.
func New() *Engine { return &Engine{} }

var hundred = decimal.NewFromInt(100)

// Run projects monthly bills for plan over months starting at start, spreading
// annualKWh over the calendar with usage.MonthlyShape.
func (e *Engine) Run(plan model.ValuedPlan, annualKWh float64, start time.Time, months int) (*Result, error) {
	if months <= 0 {
		return nil, fmt.Errorf("months must be > 0, got %d", months)
	}
	if !(annualKWh > 0) {
		return nil, fmt.Errorf("annual usage must be > 0, got %v", annualKWh)
	}

	metered := decimal.NewFromFloat(plan.MeteredCentsPerKWh)
	fixed := decimal.NewFromFloat(plan.FixedCentsPerMonth).Div(hundred).Round(2)
	start = time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)

	ledger := make([]LedgerRow, 0, months)
	cum := decimal.Zero
	totalKWh := 0.0

	for i := 0; i < months; i++ {
		month := start.AddDate(0, i, 0)
		kwh := annualKWh * usage.MonthlyShape[month.Month()-1]
		totalKWh += kwh

		energy := metered.Mul(decimal.NewFromFloat(kwh)).Div(hundred).Round(2)
		bill := energy.Add(fixed)
		cum = cum.Add(bill)

		ledger = append(ledger, LedgerRow{
			Index:        i,
			Month:        month,
			UsageKWh:     kwh,
			EnergyCharge: energy,
			FixedCharge:  fixed,
			Bill:         bill,
			CumBill:      cum,
		})
	}

	avg, _ := cum.Div(decimal.NewFromFloat(totalKWh)).Float64()
	return &Result{
		PlanKey: plan.Plan.Key(),
		Ledger:  ledger,
		Total:   cum,
		AvgRate: avg,
	}, nil
}
