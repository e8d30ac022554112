package model

import (
	"sort"
	"strings"
)

// DeliveryTariff is a transmission and distribution utility (TDSP) charge schedule.
// BaseMonthly is $/month; PerKWhCents is ¢/kWh.
type DeliveryTariff struct {
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	BaseMonthly float64 `json:"base_monthly"`
	PerKWhCents float64 `json:"per_kwh_cents"`
}

// AnnualCost is the delivery share of a year of usage, in $.
func (t DeliveryTariff) AnnualCost(annualKWh float64) float64 {
	return t.BaseMonthly*12 + t.PerKWhCents*annualKWh/100
}

// TDSP charges as of 2022-07-31, keyed by the marketplace's utility code.
var tariffs = func() map[string]DeliveryTariff {
	rows := []DeliveryTariff{
		{Code: "ELSQL01DB1245281100006", Name: "ONCOR", BaseMonthly: 3.42, PerKWhCents: 3.89070},
		{Code: "ELSQL01DB1245281100004", Name: "CENTERPOINT", BaseMonthly: 4.39, PerKWhCents: 3.80000},
		{Code: "ELSQL01DB1245281100002", Name: "AEP_CENTRAL", BaseMonthly: 5.88, PerKWhCents: 4.52130},
		{Code: "ELSQL01DB1245281100003", Name: "AEP_NORTH", BaseMonthly: 5.88, PerKWhCents: 4.10580},
		{Code: "ELSQL01DB1245281100008", Name: "TNMP", BaseMonthly: 7.85, PerKWhCents: 4.72740},
	}
	m := make(map[string]DeliveryTariff, len(rows)*2)
	for _, r := range rows {
		m[r.Code] = r
		m[r.Name] = r
	}
	return m
}()

// LookupTariff finds a tariff by utility code or name (case-insensitive for names).
func LookupTariff(code string) (DeliveryTariff, bool) {
	code = strings.TrimSpace(code)
	if t, ok := tariffs[code]; ok {
		return t, true
	}
	t, ok := tariffs[strings.ToUpper(strings.ReplaceAll(code, " ", "_"))]
	return t, ok
}

// Tariffs returns every known tariff, one entry per utility, in code order.
func Tariffs() []DeliveryTariff {
	out := make([]DeliveryTariff, 0, len(tariffs)/2)
	for k, t := range tariffs {
		if k == t.Code {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Code < out[j].Code
	})
	return out
}
