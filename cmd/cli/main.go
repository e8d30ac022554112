package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"plan-picker/internal/analysis"
	"plan-picker/internal/billing"
	"plan-picker/internal/config"
	"plan-picker/internal/data"
	"plan-picker/internal/lattice"
	"plan-picker/internal/model"
	"plan-picker/internal/strategy"

	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cli",
	Short: "Rank retail electricity plans by their option-adjusted rate",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		_ = godotenv.Load()
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			log.SetLevel(log.DebugLevel)
		}
	},
}

var valueCmd = &cobra.Command{
	Use:   "value",
	Short: "Price the early-termination option of a single contract",
	Run: func(cmd *cobra.Command, args []string) {
		f := cmd.Flags()
		contract, _ := f.GetFloat64("contract-rate")
		reference, _ := f.GetFloat64("reference-rate")
		volume, _ := f.GetFloat64("volume")
		term, _ := f.GetInt("term")
		fee, _ := f.GetFloat64("fee")
		vol, _ := f.GetFloat64("volatility")

		value, err := lattice.Price(contract, reference, volume, term, fee, vol)
		if err != nil {
			log.Fatalf("valuation failed: %v", err)
		}
		fmt.Printf("Option value=$%.4f\n", value)
		if total := volume * float64(term); total > 0 {
			fmt.Printf("Per kWh=%.4f¢ Effective rate=%.4f\n", value/total*100, contract-value/total)
		}
	},
}

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank plans from a saved catalog for a household",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := mustConfig(cmd)
		rec, _ := mustRecommend(cmd, cfg)

		if !rec.GoodToGo {
			fmt.Printf("No recommendation: %s\n", rec.Reason)
			return
		}

		fmt.Printf("Annual usage=%.0f kWh Reference rate=$%.4f/kWh Strategy=%s\n",
			rec.AnnualKWh, rec.ReferenceRate, rec.Strategy)

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"rank", "company", "plan", "term", "avg $/kWh", "fee $", "option $", "option ¢/kWh", "effective $/kWh"})
		table.SetAlignment(tablewriter.ALIGN_RIGHT)
		for i, p := range rec.Ranked {
			table.Append([]string{
				fmt.Sprintf("%d", i+1),
				p.Plan.CompanyName,
				p.Plan.PlanName,
				fmt.Sprintf("%d", p.Plan.TermValue),
				fmt.Sprintf("%.4f", p.AvgRate),
				fmt.Sprintf("%.2f", p.CancellationFee),
				fmt.Sprintf("%.2f", p.OptionValue),
				fmt.Sprintf("%.3f", p.OptionPerKWh*100),
				fmt.Sprintf("%.4f", p.EffectiveRate),
			})
		}
		table.Render()

		for _, s := range rec.Skipped {
			log.Warnf("skipped %s (%s): %s", s.PlanKey, s.CompanyName, s.Reason)
		}
		if rec.Summary.Count > 0 {
			fmt.Printf("Market: n=%d min=%.4f median=%.4f p95=%.4f mean option=%.3f¢/kWh\n",
				rec.Summary.Count, rec.Summary.MinRate, rec.Summary.MedianRate, rec.Summary.P95Rate,
				rec.Summary.MeanOptionPerKWh*100)
		}
	},
}

var billsCmd = &cobra.Command{
	Use:   "bills",
	Short: "Project monthly bills for one plan and write them as CSV",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := mustConfig(cmd)
		rec, annual := mustRecommend(cmd, cfg)
		if len(rec.Ranked) == 0 {
			log.Fatalf("no plan could be ranked: %s", rec.Reason)
		}

		planID, _ := cmd.Flags().GetString("plan-id")
		months, _ := cmd.Flags().GetInt("months")
		outPath, _ := cmd.Flags().GetString("out")

		plan := rec.Ranked[0]
		if planID != "" {
			found, ok := rec.Find(planID)
			if !ok {
				log.Fatalf("plan %q not among valued plans", planID)
			}
			plan = found
		}

		res, err := billing.New().Run(plan, annual, time.Now(), months)
		if err != nil {
			log.Fatalf("bill projection failed: %v", err)
		}
		if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
			log.Fatalf("failed to create output directory: %v", err)
		}
		if err := billing.WriteLedgerCSV(outPath, res.Ledger); err != nil {
			log.Fatalf("failed to write %s: %v", outPath, err)
		}

		fmt.Printf("Wrote %d rows to %s\n", len(res.Ledger), outPath)
		fmt.Printf("Plan=%s Total=$%s Avg rate=$%.4f/kWh\n", res.PlanKey, res.Total.StringFixed(2), res.AvgRate)
	},
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Fetch the marketplace catalog for a ZIP code and save it as JSON",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := mustConfig(cmd)
		zip, _ := cmd.Flags().GetString("zip")
		outPath, _ := cmd.Flags().GetString("out")

		client := data.NewCatalogClient(cfg.Catalog.BaseURL, cfg.Catalog.Timeout, nil)
		resp, err := client.QueryPlans(context.Background(), zip)
		if err != nil {
			log.Fatalf("failed to fetch catalog: %v", err)
		}
		if err := data.SaveCatalog(resp, outPath); err != nil {
			log.Fatalf("failed to save catalog: %v", err)
		}
		fmt.Printf("Saved %d plans for %s to %s\n", len(resp.Data), zip, outPath)
	},
}

func mustConfig(cmd *cobra.Command) *config.Config {
	cfg := config.Default()
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
		cfg = loaded
	}
	cfg.ApplyEnv()
	return cfg
}

func mustRecommend(cmd *cobra.Command, cfg *config.Config) (*analysis.Recommendation, float64) {
	f := cmd.Flags()
	dataPath, _ := f.GetString("data")
	sqft, _ := f.GetFloat64("sqft")
	renewable, _ := f.GetBool("renewable")
	stratName, _ := f.GetString("strategy")
	limit, _ := f.GetInt("limit")

	if stratName == "" {
		stratName = cfg.Selection.Strategy
	}
	strat, err := strategy.Lookup(stratName)
	if err != nil {
		log.Fatal(err)
	}
	if limit <= 0 {
		limit = cfg.Selection.Limit
	}

	annual, err := cfg.Usage.EstimateAnnual(sqft)
	if err != nil {
		log.Fatalf("invalid --sqft: %v", err)
	}

	catalog, err := data.LoadCatalogJSON(dataPath)
	if err != nil {
		log.Fatal(err)
	}

	rec, err := analysis.Recommend(context.Background(), filterCompanies(catalog.Data, f), analysis.Options{
		AnnualKWh: annual,
		Filter: analysis.Filter{
			MinTermMonths:    cfg.Selection.MinTermMonths,
			RenewableOnly:    renewable,
			RenewablePercent: cfg.Selection.RenewablePercent,
		},
		HoldingMonths: cfg.Selection.HoldingMonths,
		Volatility:    cfg.Valuation.Volatility,
		Strategy:      strat,
		Limit:         limit,
		Workers:       cfg.Valuation.Workers,
	})
	if err != nil {
		log.Fatal(err)
	}
	return rec, annual
}

type flagGetter interface {
	GetString(name string) (string, error)
}

// filterCompanies keeps plans whose company name contains the --company substring.
func filterCompanies(plans []model.Plan, f flagGetter) []model.Plan {
	company, _ := f.GetString("company")
	company = strings.ToLower(strings.TrimSpace(company))
	if company == "" {
		return plans
	}
	var out []model.Plan
	for _, p := range plans {
		if strings.Contains(strings.ToLower(p.CompanyName), company) {
			out = append(out, p)
		}
	}
	return out
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to YAML config")
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable debug logging")

	valueCmd.Flags().Float64("contract-rate", 0, "Fixed contract rate ($/kWh)")
	valueCmd.Flags().Float64("reference-rate", 0, "Current market reference rate ($/kWh)")
	valueCmd.Flags().Float64("volume", 1000, "Monthly consumption (kWh)")
	valueCmd.Flags().Int("term", 12, "Remaining term (months)")
	valueCmd.Flags().Float64("fee", 0, "Cancellation fee ($)")
	valueCmd.Flags().Float64("volatility", 0.2, "Annualized rate volatility")

	for _, c := range []*cobra.Command{rankCmd, billsCmd} {
		c.Flags().String("data", "catalog.json", "Path to a saved marketplace catalog")
		c.Flags().Float64("sqft", 2000, "Home floor area (sq ft)")
		c.Flags().Bool("renewable", false, "Only 100% renewable plans")
		c.Flags().String("strategy", "", "Ranking strategy (effective, nominal)")
		c.Flags().Int("limit", 0, "Maximum plans to rank (0 = config)")
		c.Flags().String("company", "", "Only plans from companies matching this name")
	}

	billsCmd.Flags().String("plan-id", "", "Plan to project (default: top ranked)")
	billsCmd.Flags().Int("months", 12, "Months to project")
	billsCmd.Flags().String("out", "results/bills.csv", "Output CSV path")

	snapshotCmd.Flags().String("zip", "", "ZIP code to fetch")
	snapshotCmd.Flags().String("out", "data/catalog.json", "Output JSON path")
	_ = snapshotCmd.MarkFlagRequired("zip")

	rootCmd.AddCommand(valueCmd, rankCmd, billsCmd, snapshotCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
