package models

import "time"

// RecommendResponse represents the response from a recommendation run
type RecommendResponse struct {
	ID              string          `json:"id"`
	GoodToGo        bool            `json:"good_to_go"`
	Reason          string          `json:"reason,omitempty"`
	AnnualUsageKWh  float64         `json:"annual_usage_kwh"`
	ReferenceRate   float64         `json:"reference_rate"`
	Strategy        string          `json:"strategy"`
	PlansOffered    int             `json:"plans_offered"`
	PlansConsidered int             `json:"plans_considered"`
	Plans           []RankedPlan    `json:"plans"`
	Skipped         []SkippedPlan   `json:"skipped,omitempty"`
	Summary         *MarketSummary  `json:"summary,omitempty"`
	Bills           *BillProjection `json:"bills,omitempty"`
}

// RankedPlan represents one ranked plan. Rates are $/kWh unless the field says cents.
type RankedPlan struct {
	Rank              int     `json:"rank"`
	CompanyName       string  `json:"company_name"`
	PlanName          string  `json:"plan_name"`
	PlanID            string  `json:"plan_id,omitempty"`
	TermMonths        int     `json:"term_months"`
	RenewablePercent  int     `json:"renewable_percent"`
	MeteredCents      float64 `json:"metered_cents_per_kwh"`
	FixedCents        float64 `json:"fixed_cents_per_month"`
	Cost12Months      float64 `json:"cost_12_months"`
	AvgRate           float64 `json:"avg_rate"`
	CancellationFee   float64 `json:"cancellation_fee"`
	FeePerMonth       bool    `json:"fee_per_month_remaining"`
	OptionValue       float64 `json:"option_value"`
	OptionCentsPerKWh float64 `json:"option_cents_per_kwh"`
	EffectiveRate     float64 `json:"effective_rate"`
	DeliveryEstimate  float64 `json:"delivery_estimate_12_months,omitempty"`
	FactSheet         string  `json:"fact_sheet,omitempty"`
	GoToPlan          string  `json:"go_to_plan,omitempty"`
}

// SkippedPlan is a plan left out of the ranking
type SkippedPlan struct {
	PlanKey     string `json:"plan_key"`
	CompanyName string `json:"company_name"`
	Reason      string `json:"reason"`
}

// MarketSummary contains rate statistics over valued plans
type MarketSummary struct {
	Count            int     `json:"count"`
	MinRate          float64 `json:"min_rate"`
	MaxRate          float64 `json:"max_rate"`
	MeanRate         float64 `json:"mean_rate"`
	MedianRate       float64 `json:"median_rate"`
	P05Rate          float64 `json:"p05_rate"`
	P95Rate          float64 `json:"p95_rate"`
	StdDevRate       float64 `json:"stddev_rate"`
	MeanOptionPerKWh float64 `json:"mean_option_per_kwh"`
	MinEffectiveRate float64 `json:"min_effective_rate"`
}

// BillProjection is the monthly bill ledger for the top plan
type BillProjection struct {
	PlanKey string    `json:"plan_key"`
	Total   string    `json:"total"`
	AvgRate float64   `json:"avg_rate"`
	Months  []BillRow `json:"months"`
}

// BillRow represents one projected month
type BillRow struct {
	Month        time.Time `json:"month"`
	UsageKWh     float64   `json:"usage_kwh"`
	EnergyCharge string    `json:"energy_charge"`
	FixedCharge  string    `json:"fixed_charge"`
	Bill         string    `json:"bill"`
	CumBill      string    `json:"cum_bill"`
}

// OptionValueResponse represents a single option valuation
type OptionValueResponse struct {
	OptionValue float64 `json:"option_value"`
	// OptionPerKWh is OptionValue spread over the term's total volume, $/kWh.
	OptionPerKWh float64 `json:"option_per_kwh"`
	Up           float64 `json:"up"`
	Down         float64 `json:"down"`
	P            float64 `json:"p"`
	Volatility   float64 `json:"volatility"`
}

// FeeParseResponse represents a parsed cancellation fee
type FeeParseResponse struct {
	Amount            float64  `json:"amount"`
	PerMonthRemaining bool     `json:"per_month_remaining"`
	Resolved          *float64 `json:"resolved,omitempty"`
}

// StrategyInfo represents information about a ranking strategy
type StrategyInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Default     bool   `json:"default"`
}

// TariffInfo represents a delivery utility tariff
type TariffInfo struct {
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	BaseMonthly float64 `json:"base_monthly"`
	PerKWhCents float64 `json:"per_kwh_cents"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
