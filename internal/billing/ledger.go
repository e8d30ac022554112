package billing

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerRow is one projected monthly bill.
// Money columns are in $ and rounded to cents.
type LedgerRow struct {
	Index int
	Month time.Time

	UsageKWh float64

	EnergyCharge decimal.Decimal
	FixedCharge  decimal.Decimal
	Bill         decimal.Decimal
	CumBill      decimal.Decimal
}

type Result struct {
	PlanKey string
	Ledger  []LedgerRow
	Total   decimal.Decimal
	// AvgRate is Total over total usage, $/kWh.
	AvgRate float64
}
