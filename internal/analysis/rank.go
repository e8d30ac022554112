package analysis

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"sort"

	"plan-picker/internal/fee"
	"plan-picker/internal/lattice"
	"plan-picker/internal/model"
	"plan-picker/internal/strategy"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Options controls a recommendation run.
type Options struct {
	AnnualKWh     float64
	Filter        Filter
	HoldingMonths int
	Volatility    float64
	Strategy      strategy.Strategy
	Limit         int // 0 = all
	Workers       int // 0 = GOMAXPROCS
}

func (o Options) validate() error {
	if !(o.AnnualKWh > 0) || math.IsInf(o.AnnualKWh, 1) {
		return fmt.Errorf("annual usage must be > 0, got %v", o.AnnualKWh)
	}
	if !(o.Volatility > 0) {
		return fmt.Errorf("volatility must be > 0, got %v", o.Volatility)
	}
	if o.Strategy == nil {
		return errors.New("strategy is nil")
	}
	return nil
}

// Skip records a plan left out of the ranking and why.
type Skip struct {
	PlanKey     string `json:"plan_key"`
	CompanyName string `json:"company_name"`
	Reason      string `json:"reason"`
}

// Recommendation is the outcome of ranking a catalog.
type Recommendation struct {
	GoodToGo bool
	Reason   string

	AnnualKWh     float64
	ReferenceRate float64
	Strategy      string

	PlansOffered    int
	PlansConsidered int

	Ranked  []model.ValuedPlan // cut to Options.Limit
	Skipped []Skip
	Summary MarketSummary

	all []model.ValuedPlan
}

// Find returns a valued plan by key, including plans ranked below the limit.
func (r *Recommendation) Find(key string) (model.ValuedPlan, bool) {
	for _, p := range r.all {
		if p.Plan.Key() == key {
			return p, true
		}
	}
	return model.ValuedPlan{}, false
}

// Recommend ranks plans for a household using annual usage and the
// cancellation option value of each plan. Identical inputs always produce the
// same ordering.
func Recommend(ctx context.Context, plans []model.Plan, opts Options) (*Recommendation, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	rec := &Recommendation{
		AnnualKWh:    opts.AnnualKWh,
		Strategy:     opts.Strategy.Name(),
		PlansOffered: len(plans),
	}
	if len(plans) == 0 {
		// Outside the retail market the marketplace answers with nothing.
		rec.Reason = "no plans offered for this location"
		return rec, nil
	}

	sorted := append([]model.Plan(nil), plans...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].CompanyName != sorted[j].CompanyName {
			return sorted[i].CompanyName < sorted[j].CompanyName
		}
		return sorted[i].PlanName < sorted[j].PlanName
	})

	selected, considered := opts.Filter.Apply(sorted)
	rec.PlansConsidered = considered
	if len(selected) == 0 {
		rec.Reason = "no plans match the selection criteria"
		return rec, nil
	}

	valued := make([]model.ValuedPlan, 0, len(selected))
	for _, p := range selected {
		pr := DerivePricing(p)
		cost := pr.CostBase12(opts.AnnualKWh)
		valued = append(valued, model.ValuedPlan{
			Plan:               p,
			MeteredCentsPerKWh: pr.MeteredCentsPerKWh,
			FixedCentsPerMonth: pr.FixedCentsPerMonth,
			CostBase12:         cost,
			AvgRate:            cost / opts.AnnualKWh,
		})
	}

	reference := math.Inf(1)
	for _, v := range valued {
		reference = math.Min(reference, v.AvgRate)
	}
	rec.ReferenceRate = reference

	ok, skipped, err := valueOptions(ctx, valued, reference, opts)
	if err != nil {
		return nil, err
	}
	rec.Skipped = skipped
	if len(ok) == 0 {
		rec.Reason = "no plan could be valued"
		return rec, nil
	}

	sort.SliceStable(ok, func(i, j int) bool {
		si, sj := opts.Strategy.Score(ok[i]), opts.Strategy.Score(ok[j])
		if si != sj {
			return si < sj
		}
		if ok[i].Plan.CompanyName != ok[j].Plan.CompanyName {
			return ok[i].Plan.CompanyName < ok[j].Plan.CompanyName
		}
		return ok[i].Plan.Key() < ok[j].Plan.Key()
	})

	summary, err := Summarize(ok)
	if err != nil {
		return nil, fmt.Errorf("summarize: %w", err)
	}
	rec.Summary = summary

	rec.all = ok
	if opts.Limit > 0 && opts.Limit < len(ok) {
		ok = ok[:opts.Limit]
	}
	rec.Ranked = ok
	rec.GoodToGo = true
	return rec, nil
}

// valueOptions prices the cancellation option of every plan concurrently.
// Plans whose fee cannot be read or whose valuation fails are returned as skips;
// only context cancellation aborts the run.
func valueOptions(ctx context.Context, valued []model.ValuedPlan, reference float64, opts Options) ([]model.ValuedPlan, []Skip, error) {
	monthly := opts.AnnualKWh / 12
	errs := make([]error, len(valued))

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range valued {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			errs[i] = valueOne(&valued[i], reference, monthly, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var (
		ok      []model.ValuedPlan
		skipped []Skip
	)
	for i, v := range valued {
		if errs[i] != nil {
			log.WithFields(log.Fields{
				"plan":    v.Plan.Key(),
				"company": v.Plan.CompanyName,
			}).Warnf("[Rank] Skipping plan: %v", errs[i])
			skipped = append(skipped, Skip{
				PlanKey:     v.Plan.Key(),
				CompanyName: v.Plan.CompanyName,
				Reason:      errs[i].Error(),
			})
			continue
		}
		ok = append(ok, v)
	}
	return ok, skipped, nil
}

func valueOne(v *model.ValuedPlan, reference, monthly float64, opts Options) error {
	f, err := fee.Parse(v.Plan.PricingDetails)
	if err != nil {
		return fmt.Errorf("cancellation fee: %w", err)
	}
	v.FeePerMonth = f.PerMonthRemaining
	v.CancellationFee = f.Resolve(v.Plan.TermValue, opts.HoldingMonths)

	option, err := lattice.Price(v.AvgRate, reference, monthly, v.Plan.TermValue, v.CancellationFee, opts.Volatility)
	if err != nil {
		return fmt.Errorf("option valuation: %w", err)
	}
	v.OptionValue = option
	v.OptionPerKWh = option / (monthly * float64(v.Plan.TermValue))
	v.EffectiveRate = v.AvgRate - v.OptionPerKWh

	if t, ok := model.LookupTariff(v.Plan.TDSPDuns); ok {
		v.DeliveryEstimate = t.AnnualCost(opts.AnnualKWh)
	} else if t, ok := model.LookupTariff(v.Plan.TDSPName); ok {
		v.DeliveryEstimate = t.AnnualCost(opts.AnnualKWh)
	}
	return nil
}
