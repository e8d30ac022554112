package models

// RecommendRequest represents the request body for a plan recommendation
type RecommendRequest struct {
	ZipCode       string  `json:"zip_code" binding:"required"`
	SqFt          float64 `json:"sq_ft" binding:"required,gt=0"`
	RenewableOnly bool    `json:"renewable_only,omitempty"`
	Strategy      string  `json:"strategy,omitempty"`   // default from config: "effective"
	Limit         int     `json:"limit,omitempty"`      // default from config
	Volatility    float64 `json:"volatility,omitempty"` // default from config
	IncludeBills  bool    `json:"include_bills,omitempty"`
}

// OptionValueRequest prices a single cancellation option.
// Volatility is optional; when omitted the configured volatility is used.
type OptionValueRequest struct {
	ContractRate    float64  `json:"contract_rate"`    // $/kWh
	ReferenceRate   float64  `json:"reference_rate"`   // $/kWh
	MonthlyVolume   float64  `json:"monthly_volume"`   // kWh/month
	TermMonths      int      `json:"term_months"`
	CancellationFee float64  `json:"cancellation_fee"` // $
	Volatility      *float64 `json:"volatility,omitempty"`
}

// FeeParseRequest parses a cancellation-fee disclosure.
type FeeParseRequest struct {
	Details       string `json:"details" binding:"required"`
	TermMonths    int    `json:"term_months,omitempty"`
	HoldingMonths int    `json:"holding_months,omitempty"`
}
