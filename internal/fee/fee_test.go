package fee

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want Fee
	}{
		{"Cancellation Fee: $150", Fee{Amount: 150}},
		{"Cancellation Fee: $20 per month remaining on contract", Fee{Amount: 20, PerMonthRemaining: true}},
		{"Early Termination Fee: $1,000.00 flat", Fee{Amount: 1000}},
		{"ETF: 9.95/Month remaining", Fee{Amount: 9.95, PerMonthRemaining: true}},
		{"Cancellation Fee: $0", Fee{Amount: 0}},
		{"$135 termination charge", Fee{Amount: 135}},
		// only the clause after the first colon counts
		{"Plan 24: Cancellation $295", Fee{Amount: 295}},
		// and it stops at the next colon
		{"Early Termination Fee: $150. See terms: $10/month", Fee{Amount: 150}},
		{"ETF: $15 per month remaining. Deposit: $100", Fee{Amount: 15, PerMonthRemaining: true}},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := Parse(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseNoAmount(t *testing.T) {
	for _, in := range []string{"", "Cancellation Fee:", "Cancellation Fee: none", "   "} {
		_, err := Parse(in)
		assert.ErrorIs(t, err, ErrNoFee, in)
	}
}

func TestResolve(t *testing.T) {
	t.Run("flat fee is unchanged", func(t *testing.T) {
		assert.Equal(t, 150.0, Fee{Amount: 150}.Resolve(36, 12))
	})

	t.Run("per month fee covers months after holding period", func(t *testing.T) {
		assert.Equal(t, 240.0, Fee{Amount: 10, PerMonthRemaining: true}.Resolve(36, 12))
	})

	t.Run("per month fee never goes negative", func(t *testing.T) {
		assert.Equal(t, 0.0, Fee{Amount: 10, PerMonthRemaining: true}.Resolve(6, 12))
	})
}
