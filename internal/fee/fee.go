// Package fee turns the marketplace's free-text early termination disclosure
// into a cancellation fee the pricer can use.
package fee

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrNoFee is returned when the disclosure carries no numeric amount.
var ErrNoFee = errors.New("no cancellation fee amount found")

var numberRe = regexp.MustCompile(`[-+]?[.]?\d+(?:,\d\d\d)*[.]?\d*(?:[eE][-+]?\d+)?`)

// Fee is a parsed cancellation fee.
type Fee struct {
	Amount            float64 `json:"amount"`
	PerMonthRemaining bool    `json:"per_month_remaining"`
}

// Parse reads a disclosure such as "Cancellation Fee: $20 per month remaining".
// When a colon is present only the clause between the first and second colon
// is considered.
func Parse(details string) (Fee, error) {
	clause := details
	if i := strings.Index(details, ":"); i >= 0 {
		clause = details[i+1:]
		if j := strings.Index(clause, ":"); j >= 0 {
			clause = clause[:j]
		}
	}
	clause = strings.TrimSpace(clause)
	if clause == "" {
		return Fee{}, fmt.Errorf("%w: empty disclosure %q", ErrNoFee, details)
	}

	m := numberRe.FindString(clause)
	if m == "" {
		return Fee{}, fmt.Errorf("%w in %q", ErrNoFee, clause)
	}
	amount, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", ""), 64)
	if err != nil {
		return Fee{}, fmt.Errorf("parse fee amount %q: %w", m, err)
	}

	return Fee{
		Amount:            amount,
		PerMonthRemaining: strings.Contains(strings.ToLower(clause), "month"),
	}, nil
}

// Resolve converts the fee into a single amount for a contract of termMonths,
// assuming the holder cancels after holdingMonths. Per-month fees are charged
// for the months remaining after that point, never less than zero.
func (f Fee) Resolve(termMonths, holdingMonths int) float64 {
	if !f.PerMonthRemaining {
		return f.Amount
	}
	remaining := termMonths - holdingMonths
	if remaining < 0 {
		remaining = 0
	}
	return f.Amount * float64(remaining)
}
