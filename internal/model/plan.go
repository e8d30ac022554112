package model

// CatalogResponse matches the JSON envelope returned by the PowerToChoose plans endpoint.
//
// Example:
// {
//   "data": [ { "company_name": "...", "price_kwh1000": 14.2, ... } ]
// }
type CatalogResponse struct {
	Data []Plan `json:"data"`
}

// Plan is one retail electricity offer from the marketplace.
// Prices are in ¢/kWh at the 500/1000/2000 kWh reference usage tiers.
type Plan struct {
	CompanyID   string `json:"company_id"`
	CompanyName string `json:"company_name"`
	PlanID      string `json:"plan_id"`
	PlanName    string `json:"plan_name"`

	PriceKWh500  float64 `json:"price_kwh500"`
	PriceKWh1000 float64 `json:"price_kwh1000"`
	PriceKWh2000 float64 `json:"price_kwh2000"`

	TermValue int `json:"term_value"`

	// PricingDetails holds the free-text early termination disclosure,
	// e.g. "Cancellation Fee: $20 per month remaining".
	PricingDetails string `json:"pricing_details"`

	MinimumUsage      bool `json:"minimum_usage"`
	TimeOfUse         bool `json:"timeofuse"`
	RenewableEnergyID int  `json:"renewable_energy_id"` // percent renewable

	TDSPDuns string `json:"tdsp_duns,omitempty"`
	TDSPName string `json:"tdsp_name,omitempty"`

	FactSheet string `json:"fact_sheet,omitempty"`
	GoToPlan  string `json:"go_to_plan,omitempty"`
}

// Key identifies a plan for deterministic ordering and lookups.
func (p Plan) Key() string {
	if p.PlanID != "" {
		return p.PlanID
	}
	return p.CompanyName + "/" + p.PlanName
}

// ValuedPlan is a plan after pricing derivation and option valuation.
// Rates are in $/kWh, money in $.
type ValuedPlan struct {
	Plan Plan

	MeteredCentsPerKWh float64 // marginal energy charge
	FixedCentsPerMonth float64 // fixed monthly charge

	CostBase12 float64 // 12-month cost at the estimated usage
	AvgRate    float64

	CancellationFee  float64 // resolved fee fed to the pricer
	FeePerMonth      bool
	OptionValue      float64
	OptionPerKWh     float64
	EffectiveRate    float64
	DeliveryEstimate float64 // 12-month TDSP delivery share, 0 when the utility is unknown
}
