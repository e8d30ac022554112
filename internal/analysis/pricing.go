package analysis

import (
	"plan-picker/internal/model"
)

// Pricing is a plan's price split into a marginal energy charge and a fixed
// monthly charge, backed out of the 1000 and 2000 kWh tier prices.
type Pricing struct {
	MeteredCentsPerKWh float64
	FixedCentsPerMonth float64
}

// DerivePricing assumes a bill linear in usage between the two reference tiers:
// bill(q) = metered*q + fixed, with bill(1000) and bill(2000) taken from the
// tier averages.
func DerivePricing(p model.Plan) Pricing {
	metered := (p.PriceKWh2000*2000 - p.PriceKWh1000*1000) / 1000
	fixed := p.PriceKWh2000*2000 - metered*2000
	return Pricing{MeteredCentsPerKWh: metered, FixedCentsPerMonth: fixed}
}

// Bill is the monthly bill in cents for kwh of usage.
func (pr Pricing) Bill(kwh float64) float64 {
	return pr.MeteredCentsPerKWh*kwh + pr.FixedCentsPerMonth
}

// CostBase12 is the 12-month cost in $ at annualKWh of usage.
func (pr Pricing) CostBase12(annualKWh float64) float64 {
	return (annualKWh*pr.MeteredCentsPerKWh + pr.FixedCentsPerMonth*12) / 100
}

// Filter selects the plans eligible for a recommendation.
type Filter struct {
	MinTermMonths    int
	RenewableOnly    bool
	RenewablePercent int
}

// Apply drops minimum-usage and time-of-use plans and short terms, then
// non-renewable plans when requested. considered is the count before the
// renewable filter.
func (f Filter) Apply(plans []model.Plan) (selected []model.Plan, considered int) {
	for _, p := range plans {
		if p.MinimumUsage || p.TimeOfUse {
			continue
		}
		if p.TermValue < f.MinTermMonths {
			continue
		}
		considered++
		if f.RenewableOnly && p.RenewableEnergyID != f.RenewablePercent {
			continue
		}
		selected = append(selected, p)
	}
	return selected, considered
}
