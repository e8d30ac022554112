package analysis

import (
	"plan-picker/internal/model"

	"github.com/montanaflynn/stats"
)

// MarketSummary describes the spread of rates across valued plans, in $/kWh.
type MarketSummary struct {
	Count int

	MinRate    float64
	MaxRate    float64
	MeanRate   float64
	MedianRate float64
	P05Rate    float64
	P95Rate    float64
	StdDevRate float64

	MeanOptionPerKWh float64
	MinEffectiveRate float64
}

// Summarize computes rate statistics for plans. An empty input gives a zero summary.
func Summarize(plans []model.ValuedPlan) (MarketSummary, error) {
	s := MarketSummary{Count: len(plans)}
	if len(plans) == 0 {
		return s, nil
	}

	rates := make([]float64, len(plans))
	options := make([]float64, len(plans))
	effective := make([]float64, len(plans))
	for i, p := range plans {
		rates[i] = p.AvgRate
		options[i] = p.OptionPerKWh
		effective[i] = p.EffectiveRate
	}

	var err error
	if s.MinRate, err = stats.Min(rates); err != nil {
		return s, err
	}
	if s.MaxRate, err = stats.Max(rates); err != nil {
		return s, err
	}
	if s.MeanRate, err = stats.Mean(rates); err != nil {
		return s, err
	}
	if s.MedianRate, err = stats.Median(rates); err != nil {
		return s, err
	}
	if s.P05Rate, err = stats.PercentileNearestRank(rates, 5); err != nil {
		return s, err
	}
	if s.P95Rate, err = stats.PercentileNearestRank(rates, 95); err != nil {
		return s, err
	}
	if s.StdDevRate, err = stats.StandardDeviation(rates); err != nil {
		return s, err
	}
	if s.MeanOptionPerKWh, err = stats.Mean(options); err != nil {
		return s, err
	}
	if s.MinEffectiveRate, err = stats.Min(effective); err != nil {
		return s, err
	}
	return s, nil
}
