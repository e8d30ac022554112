package analysis

import (
	"context"
	"math"
	"testing"

	"plan-picker/internal/lattice"
	"plan-picker/internal/model"
	"plan-picker/internal/strategy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPlans() []model.Plan {
	return []model.Plan{
		{
			CompanyName: "Zeta Energy", PlanName: "Zeta 24", PlanID: "z24",
			PriceKWh1000: 12.0, PriceKWh2000: 11.5, TermValue: 24,
			PricingDetails: "Cancellation Fee: $20 per month remaining", RenewableEnergyID: 100,
			TDSPDuns: "ELSQL01DB1245281100006",
		},
		{
			CompanyName: "Acme Power", PlanName: "Acme 12", PlanID: "a12",
			PriceKWh1000: 11.0, PriceKWh2000: 10.8, TermValue: 12,
			PricingDetails: "Cancellation Fee: $150", RenewableEnergyID: 6,
		},
		{
			CompanyName: "Bolt", PlanName: "Bolt 36", PlanID: "b36",
			PriceKWh1000: 13.0, PriceKWh2000: 12.2, TermValue: 36,
			PricingDetails: "Cancellation Fee: $0", RenewableEnergyID: 100,
		},
		{
			CompanyName: "Gimmick Co", PlanName: "Minimum", PlanID: "g1",
			PriceKWh1000: 5, PriceKWh2000: 5, TermValue: 12, MinimumUsage: true,
			PricingDetails: "Cancellation Fee: $150",
		},
		{
			CompanyName: "Gimmick Co", PlanName: "Nights Free", PlanID: "g2",
			PriceKWh1000: 6, PriceKWh2000: 6, TermValue: 12, TimeOfUse: true,
			PricingDetails: "Cancellation Fee: $150",
		},
		{
			CompanyName: "Short Inc", PlanName: "Month to Month", PlanID: "s1",
			PriceKWh1000: 9, PriceKWh2000: 9, TermValue: 1,
			PricingDetails: "Cancellation Fee: $0",
		},
	}
}

func testOptions(t *testing.T) Options {
	t.Helper()
	s, err := strategy.Lookup("effective")
	require.NoError(t, err)
	return Options{
		AnnualKWh:     14000,
		Filter:        Filter{MinTermMonths: 12, RenewablePercent: 100},
		HoldingMonths: 12,
		Volatility:    0.2,
		Strategy:      s,
	}
}

func TestDerivePricing(t *testing.T) {
	pr := DerivePricing(model.Plan{PriceKWh1000: 12.0, PriceKWh2000: 11.5})
	assert.InDelta(t, 11.0, pr.MeteredCentsPerKWh, 1e-9)
	assert.InDelta(t, 1000.0, pr.FixedCentsPerMonth, 1e-9)

	// the linear bill reproduces both tier averages
	assert.InDelta(t, 12.0*1000, pr.Bill(1000), 1e-9)
	assert.InDelta(t, 11.5*2000, pr.Bill(2000), 1e-9)

	assert.InDelta(t, (12000*11.0+1000*12)/100, pr.CostBase12(12000), 1e-9)
}

func TestFilterApply(t *testing.T) {
	sel, considered := Filter{MinTermMonths: 12}.Apply(testPlans())
	assert.Equal(t, 3, considered)
	assert.Len(t, sel, 3)

	sel, considered = Filter{MinTermMonths: 12, RenewableOnly: true, RenewablePercent: 100}.Apply(testPlans())
	assert.Equal(t, 3, considered)
	require.Len(t, sel, 2)
	for _, p := range sel {
		assert.Equal(t, 100, p.RenewableEnergyID)
	}
}

func TestRecommend(t *testing.T) {
	opts := testOptions(t)
	rec, err := Recommend(context.Background(), testPlans(), opts)
	require.NoError(t, err)

	assert.True(t, rec.GoodToGo)
	assert.Equal(t, 6, rec.PlansOffered)
	assert.Equal(t, 3, rec.PlansConsidered)
	assert.Equal(t, "effective", rec.Strategy)
	require.Len(t, rec.Ranked, 3)
	assert.Empty(t, rec.Skipped)

	minRate := math.Inf(1)
	for _, p := range rec.Ranked {
		minRate = math.Min(minRate, p.AvgRate)
	}
	assert.Equal(t, minRate, rec.ReferenceRate)

	for i, p := range rec.Ranked {
		assert.GreaterOrEqual(t, p.OptionValue, 0.0)
		assert.InDelta(t, p.AvgRate-p.OptionPerKWh, p.EffectiveRate, 1e-15)
		if i > 0 {
			assert.LessOrEqual(t, rec.Ranked[i-1].EffectiveRate, p.EffectiveRate)
		}

		want, err := lattice.Price(p.AvgRate, rec.ReferenceRate, opts.AnnualKWh/12, p.Plan.TermValue, p.CancellationFee, opts.Volatility)
		require.NoError(t, err)
		assert.Equal(t, want, p.OptionValue)
	}

	byID := map[string]model.ValuedPlan{}
	for _, p := range rec.Ranked {
		byID[p.Plan.PlanID] = p
	}
	assert.Equal(t, 240.0, byID["z24"].CancellationFee)
	assert.True(t, byID["z24"].FeePerMonth)
	assert.Equal(t, 150.0, byID["a12"].CancellationFee)
	assert.Greater(t, byID["z24"].DeliveryEstimate, 0.0)
	assert.Equal(t, 0.0, byID["a12"].DeliveryEstimate)

	assert.Equal(t, 3, rec.Summary.Count)
	assert.LessOrEqual(t, rec.Summary.MinRate, rec.Summary.MedianRate)
	assert.LessOrEqual(t, rec.Summary.MedianRate, rec.Summary.MaxRate)
}

func TestRecommendDeterministic(t *testing.T) {
	opts := testOptions(t)
	opts.Workers = 1
	first, err := Recommend(context.Background(), testPlans(), opts)
	require.NoError(t, err)

	// reversed input order and more workers must not change the answer
	plans := testPlans()
	for i, j := 0, len(plans)-1; i < j; i, j = i+1, j-1 {
		plans[i], plans[j] = plans[j], plans[i]
	}
	opts.Workers = 8
	second, err := Recommend(context.Background(), plans, opts)
	require.NoError(t, err)

	assert.Equal(t, first.Ranked, second.Ranked)
}

func TestRecommendTieBreakByCompany(t *testing.T) {
	plans := []model.Plan{
		{CompanyName: "Bravo", PlanName: "B", PriceKWh1000: 11, PriceKWh2000: 11, TermValue: 12, PricingDetails: "Fee: $100"},
		{CompanyName: "Alpha", PlanName: "A", PriceKWh1000: 11, PriceKWh2000: 11, TermValue: 12, PricingDetails: "Fee: $100"},
	}
	rec, err := Recommend(context.Background(), plans, testOptions(t))
	require.NoError(t, err)
	require.Len(t, rec.Ranked, 2)
	assert.Equal(t, "Alpha", rec.Ranked[0].Plan.CompanyName)
	assert.Equal(t, "Bravo", rec.Ranked[1].Plan.CompanyName)
}

func TestRecommendEmptyCatalog(t *testing.T) {
	rec, err := Recommend(context.Background(), nil, testOptions(t))
	require.NoError(t, err)
	assert.False(t, rec.GoodToGo)
	assert.Empty(t, rec.Ranked)
}

func TestRecommendNothingSelected(t *testing.T) {
	opts := testOptions(t)
	opts.Filter.MinTermMonths = 48
	rec, err := Recommend(context.Background(), testPlans(), opts)
	require.NoError(t, err)
	assert.False(t, rec.GoodToGo)
	assert.Equal(t, "no plans match the selection criteria", rec.Reason)
}

func TestRecommendSkipsUnparseableFee(t *testing.T) {
	plans := testPlans()
	plans[1].PricingDetails = "Cancellation Fee: see terms"
	rec, err := Recommend(context.Background(), plans, testOptions(t))
	require.NoError(t, err)
	require.Len(t, rec.Skipped, 1)
	assert.Equal(t, "a12", rec.Skipped[0].PlanKey)
	assert.Len(t, rec.Ranked, 2)
}

func TestRecommendLimitAndRenewable(t *testing.T) {
	opts := testOptions(t)
	opts.Filter.RenewableOnly = true
	opts.Limit = 1
	rec, err := Recommend(context.Background(), testPlans(), opts)
	require.NoError(t, err)
	require.Len(t, rec.Ranked, 1)
	assert.Equal(t, 100, rec.Ranked[0].Plan.RenewableEnergyID)
	assert.Equal(t, 2, rec.Summary.Count)
}

func TestRecommendFindBelowLimit(t *testing.T) {
	opts := testOptions(t)
	opts.Limit = 1
	rec, err := Recommend(context.Background(), testPlans(), opts)
	require.NoError(t, err)
	require.Len(t, rec.Ranked, 1)

	for _, key := range []string{"z24", "a12", "b36"} {
		p, ok := rec.Find(key)
		require.True(t, ok, key)
		assert.Equal(t, key, p.Plan.Key())
		assert.Greater(t, p.AvgRate, 0.0)
	}

	// filtered out before valuation
	_, ok := rec.Find("g1")
	assert.False(t, ok)
	_, ok = rec.Find("missing")
	assert.False(t, ok)
}

func TestRecommendValidatesOptions(t *testing.T) {
	opts := testOptions(t)
	opts.AnnualKWh = 0
	_, err := Recommend(context.Background(), testPlans(), opts)
	assert.Error(t, err)

	opts = testOptions(t)
	opts.Strategy = nil
	_, err = Recommend(context.Background(), testPlans(), opts)
	assert.Error(t, err)
}

func TestRecommendCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Recommend(ctx, testPlans(), testOptions(t))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSummarize(t *testing.T) {
	s, err := Summarize(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Count)

	s, err = Summarize([]model.ValuedPlan{
		{AvgRate: 0.10, EffectiveRate: 0.09, OptionPerKWh: 0.01},
		{AvgRate: 0.12, EffectiveRate: 0.12},
		{AvgRate: 0.14, EffectiveRate: 0.13, OptionPerKWh: 0.01},
	})
	require.NoError(t, err)
	assert.Equal(t, 0.10, s.MinRate)
	assert.Equal(t, 0.14, s.MaxRate)
	assert.InDelta(t, 0.12, s.MeanRate, 1e-12)
	assert.InDelta(t, 0.12, s.MedianRate, 1e-12)
	assert.Equal(t, 0.09, s.MinEffectiveRate)
	assert.LessOrEqual(t, s.P05Rate, s.P95Rate)
}
