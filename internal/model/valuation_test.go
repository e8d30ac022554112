package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func validInput() ValuationInput {
	return ValuationInput{
		ContractRate:    0.12,
		ReferenceRate:   0.10,
		MonthlyVolume:   1000,
		TermMonths:      24,
		CancellationFee: 150,
		Volatility:      0.2,
	}
}

func TestValuationInputValidate(t *testing.T) {
	t.Run("accepts a typical contract", func(t *testing.T) {
		assert.NoError(t, validInput().Validate())
	})

	t.Run("accepts zero fee and zero volume", func(t *testing.T) {
		in := validInput()
		in.CancellationFee = 0
		in.MonthlyVolume = 0
		assert.NoError(t, in.Validate())
	})

	t.Run("accepts a reference rate above the contract rate", func(t *testing.T) {
		in := validInput()
		in.ReferenceRate = 1.5
		assert.NoError(t, in.Validate())
	})

	cases := []struct {
		name   string
		mutate func(*ValuationInput)
	}{
		{"zero term", func(in *ValuationInput) { in.TermMonths = 0 }},
		{"negative term", func(in *ValuationInput) { in.TermMonths = -3 }},
		{"zero volatility", func(in *ValuationInput) { in.Volatility = 0 }},
		{"negative volatility", func(in *ValuationInput) { in.Volatility = -0.1 }},
		{"nan volatility", func(in *ValuationInput) { in.Volatility = math.NaN() }},
		{"infinite volatility", func(in *ValuationInput) { in.Volatility = math.Inf(1) }},
		{"nan contract rate", func(in *ValuationInput) { in.ContractRate = math.NaN() }},
		{"infinite reference rate", func(in *ValuationInput) { in.ReferenceRate = math.Inf(-1) }},
		{"negative volume", func(in *ValuationInput) { in.MonthlyVolume = -1 }},
		{"negative fee", func(in *ValuationInput) { in.CancellationFee = -5 }},
	}
	for _, tc := range cases {
		t.Run("rejects "+tc.name, func(t *testing.T) {
			in := validInput()
			tc.mutate(&in)
			assert.Error(t, in.Validate())
		})
	}
}
