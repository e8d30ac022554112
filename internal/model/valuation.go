package model

import (
	"errors"
	"fmt"
	"math"
)

// ValuationInput carries the six scalars the lattice pricer needs for one contract.
// Units:
// - ContractRate, ReferenceRate: $ per kWh
// - MonthlyVolume: kWh per month
// - CancellationFee: $
// - Volatility: annualized, e.g. 0.2
type ValuationInput struct {
	ContractRate    float64 `json:"contract_rate" yaml:"contract_rate"`
	ReferenceRate   float64 `json:"reference_rate" yaml:"reference_rate"`
	MonthlyVolume   float64 `json:"monthly_volume" yaml:"monthly_volume"`
	TermMonths      int     `json:"term_months" yaml:"term_months"`
	CancellationFee float64 `json:"cancellation_fee" yaml:"cancellation_fee"`
	Volatility      float64 `json:"volatility" yaml:"volatility"`
}

// Validate rejects inputs the lattice cannot price. It does not require
// ReferenceRate <= ContractRate.
func (in ValuationInput) Validate() error {
	if in.TermMonths <= 0 {
		return fmt.Errorf("term_months must be > 0, got %d", in.TermMonths)
	}
	if !(in.Volatility > 0) || math.IsInf(in.Volatility, 1) {
		return fmt.Errorf("volatility must be > 0 and finite, got %v", in.Volatility)
	}
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"contract_rate", in.ContractRate},
		{"reference_rate", in.ReferenceRate},
		{"monthly_volume", in.MonthlyVolume},
		{"cancellation_fee", in.CancellationFee},
	} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%s must be finite, got %v", f.name, f.v)
		}
	}
	if in.MonthlyVolume < 0 {
		return errors.New("monthly_volume must be >= 0")
	}
	if in.CancellationFee < 0 {
		return errors.New("cancellation_fee must be >= 0")
	}
	return nil
}
