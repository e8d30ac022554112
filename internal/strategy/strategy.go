package strategy

import (
	"fmt"
	"sort"

	"plan-picker/internal/model"
)

// Strategy scores a valued plan; lower scores rank first.
type Strategy interface {
	Name() string
	Description() string
	Score(p model.ValuedPlan) float64
}

// Effective ranks by the 12-month average rate net of the cancellation option.
type Effective struct{}

func (Effective) Name() string { return "effective" }

func (Effective) Description() string {
	return "Average rate minus the per-kWh value of the early termination option."
}

func (Effective) Score(p model.ValuedPlan) float64 { return p.EffectiveRate }

// Nominal ranks by the 12-month average rate alone.
type Nominal struct{}

func (Nominal) Name() string { return "nominal" }

func (Nominal) Description() string {
	return "12-month average rate at the estimated usage, ignoring cancellation terms."
}

func (Nominal) Score(p model.ValuedPlan) float64 { return p.AvgRate }

var registry = map[string]Strategy{
	Effective{}.Name(): Effective{},
	Nominal{}.Name():   Nominal{},
}

// Lookup returns the strategy registered under name.
func Lookup(name string) (Strategy, error) {
	s, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unsupported strategy: %q", name)
	}
	return s, nil
}

// All lists registered strategies by name.
func All() []Strategy {
	out := make([]Strategy, 0, len(registry))
	for _, s := range registry {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}
