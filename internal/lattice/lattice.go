// Package lattice values the early-termination option embedded in a fixed-rate
// retail energy contract with a recombining binomial lattice of monthly
// floating-rate levels.
//
// The lattice is never materialized as a graph: each period is an ordered slice
// of rate levels, and backward induction recombines adjacent pairs of child
// values into their parent.
package lattice

import (
	"errors"
	"fmt"
	"math"

	"plan-picker/internal/model"
)

// PeriodsPerYear is the number of lattice steps per year of volatility.
const PeriodsPerYear = 12

var (
	// ErrInvalidParameter is returned when an input violates the pricer's preconditions.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrNumericOverflow is returned when an intermediate rate level or node value
	// stops being finite.
	ErrNumericOverflow = errors.New("numeric overflow")
)

// Factors holds the per-period lattice parameters derived from an annualized volatility.
type Factors struct {
	Up   float64 // u = exp(vol / sqrt(12))
	Down float64 // d = 1/u
	// P weights the lower-rate child of each node; 1-P weights the upper one.
	P float64
}

// NewFactors computes u, d and p for a monthly step.
func NewFactors(volatility float64) (Factors, error) {
	if !(volatility > 0) || math.IsInf(volatility, 1) {
		return Factors{}, fmt.Errorf("%w: volatility must be > 0 and finite, got %v", ErrInvalidParameter, volatility)
	}
	u := math.Exp(volatility / math.Sqrt(PeriodsPerYear))
	d := 1 / u
	// Below ~1e-16 the step rounds to u == d == 1; 0.5 is the limit of p there.
	p := 0.5
	if d != u {
		p = (1 - u) / (d - u)
	}
	return Factors{
		Up:   u,
		Down: d,
		P:    p,
	}, nil
}

// Price returns the value of the option to cancel a fixed-rate contract,
// in the same monetary units as cancellationFee. The result is always >= 0.
//
// termMonths and volatility must be strictly positive; monthlyVolume and
// cancellationFee must be non-negative. All inputs must be finite.
func Price(contractRate, referenceRate, monthlyVolume float64, termMonths int, cancellationFee, volatility float64) (float64, error) {
	return PriceInput(model.ValuationInput{
		ContractRate:    contractRate,
		ReferenceRate:   referenceRate,
		MonthlyVolume:   monthlyVolume,
		TermMonths:      termMonths,
		CancellationFee: cancellationFee,
		Volatility:      volatility,
	})
}

// PriceInput is Price taking a model.ValuationInput.
func PriceInput(in model.ValuationInput) (float64, error) {
	if err := in.Validate(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidParameter, err)
	}
	f, err := NewFactors(in.Volatility)
	if err != nil {
		return 0, err
	}

	n := in.TermMonths
	floor := -in.CancellationFee

	rates := make([]float64, n)
	values := make([]float64, n)

	if err := fillRates(rates, n, in.ReferenceRate, f); err != nil {
		return 0, err
	}
	for k, r := range rates {
		values[k] = math.Max((r-in.ContractRate)*in.MonthlyVolume, floor)
		if !finite(values[k]) {
			return 0, fmt.Errorf("%w: terminal value at level %d", ErrNumericOverflow, k)
		}
	}

	q := 1 - f.P
	for i := n - 1; i >= 1; i-- {
		rates = rates[:i]
		if err := fillRates(rates, i, in.ReferenceRate, f); err != nil {
			return 0, err
		}
		// values[k] is only read again as values[k+1] by the level below it,
		// so the level can be overwritten in place.
		for k := 0; k < i; k++ {
			cont := values[k]*f.P + values[k+1]*q
			v := math.Max(cont+(rates[k]-in.ContractRate)*in.MonthlyVolume, floor)
			if !finite(v) {
				return 0, fmt.Errorf("%w: period %d level %d", ErrNumericOverflow, i, k)
			}
			values[k] = v
		}
		values = values[:i]
	}

	return math.Max(values[0], 0), nil
}

// Levels returns the floating-rate levels of a period with n levels, lowest first.
// Level k is referenceRate * u^k * d^(n-k), evaluated as u^(2k-n) since d = 1/u.
func Levels(n int, referenceRate float64, f Factors) ([]float64, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: level count must be > 0, got %d", ErrInvalidParameter, n)
	}
	out := make([]float64, n)
	if err := fillRates(out, n, referenceRate, f); err != nil {
		return nil, err
	}
	return out, nil
}

func fillRates(dst []float64, n int, referenceRate float64, f Factors) error {
	for k := 0; k < n; k++ {
		r := math.Pow(f.Up, float64(2*k-n)) * referenceRate
		if !finite(r) {
			return fmt.Errorf("%w: rate level %d of %d", ErrNumericOverflow, k, n)
		}
		dst[k] = r
	}
	return nil
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
