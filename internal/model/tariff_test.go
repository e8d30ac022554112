package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupTariff(t *testing.T) {
	t.Run("by marketplace code", func(t *testing.T) {
		tr, ok := LookupTariff("ELSQL01DB1245281100006")
		require.True(t, ok)
		assert.Equal(t, "ONCOR", tr.Name)
		assert.Equal(t, 3.42, tr.BaseMonthly)
	})

	t.Run("by name, case-insensitive", func(t *testing.T) {
		tr, ok := LookupTariff("aep north")
		require.True(t, ok)
		assert.Equal(t, "ELSQL01DB1245281100003", tr.Code)
	})

	t.Run("unknown code", func(t *testing.T) {
		_, ok := LookupTariff("nope")
		assert.False(t, ok)
	})
}

func TestTariffsReturnsACopy(t *testing.T) {
	all := Tariffs()
	require.Len(t, all, 5)
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].Code, all[i].Code)
	}

	all[0].BaseMonthly = 999
	tr, _ := LookupTariff(all[0].Code)
	assert.NotEqual(t, 999.0, tr.BaseMonthly)
}

func TestDeliveryTariffAnnualCost(t *testing.T) {
	tr := DeliveryTariff{BaseMonthly: 5, PerKWhCents: 4}
	assert.InDelta(t, 5*12+0.04*12000, tr.AnnualCost(12000), 1e-9)
}
