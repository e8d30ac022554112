package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"plan-picker/internal/usage"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	// Optional: load valuation parameters from a separate YAML (e.g. examples/valuation/high_vol.yaml).
	// If both ValuationFile and Valuation are provided, Valuation overrides ValuationFile.
	ValuationFile string          `yaml:"valuation_file"`
	Valuation     ValuationConfig `yaml:"valuation"`
	Selection     SelectionConfig `yaml:"selection"`
	Catalog       CatalogConfig   `yaml:"catalog"`
	Cache         CacheConfig     `yaml:"cache"`
	Usage         usage.Model     `yaml:"usage"`
}

type ValuationConfig struct {
	// Volatility is the annualized volatility of the floating market rate.
	Volatility float64 `yaml:"volatility"`
	// Workers bounds concurrent plan valuations. 0 means GOMAXPROCS.
	Workers int `yaml:"workers"`
}

type SelectionConfig struct {
	MinTermMonths    int    `yaml:"min_term_months"`
	HoldingMonths    int    `yaml:"holding_months"`
	RenewablePercent int    `yaml:"renewable_percent"`
	Strategy         string `yaml:"strategy"`
	Limit            int    `yaml:"limit"`
}

type CatalogConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type CacheConfig struct {
	Enabled  bool          `yaml:"enabled"`
	TTL      time.Duration `yaml:"ttl"`
	RedisURL string        `yaml:"redis_url"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Valuation: ValuationConfig{Volatility: 0.2},
		Selection: SelectionConfig{
			MinTermMonths:    12,
			HoldingMonths:    12,
			RenewablePercent: 100,
			Strategy:         "effective",
			Limit:            10,
		},
		Catalog: CatalogConfig{
			BaseURL: "http://api.powertochoose.org",
			Timeout: 30 * time.Second,
		},
		Cache: CacheConfig{TTL: time.Hour},
		Usage: usage.DefaultModel,
	}
}

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads the file over the defaults, but does not validate it.
// Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file Config
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, err
	}
	if file.ValuationFile != "" {
		valuationPath := file.ValuationFile
		if !filepath.IsAbs(valuationPath) {
			// Prefer interpreting relative paths as relative to the config file directory,
			// but fall back to the provided path (relative to cwd) if that doesn't exist.
			cand := filepath.Join(filepath.Dir(path), valuationPath)
			if _, err := os.Stat(cand); err == nil {
				valuationPath = cand
			}
		}
		loaded, err := loadValuationFile(valuationPath)
		if err != nil {
			return nil, err
		}
		file.Valuation = MergeValuation(loaded, file.Valuation)
	}
	return Merge(Default(), &file), nil
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if !(c.Valuation.Volatility > 0) {
		return fmt.Errorf("valuation.volatility must be > 0, got %v", c.Valuation.Volatility)
	}
	if c.Valuation.Workers < 0 {
		return errors.New("valuation.workers must be >= 0")
	}
	if c.Selection.MinTermMonths < 1 {
		return errors.New("selection.min_term_months must be >= 1")
	}
	if c.Selection.HoldingMonths < 0 {
		return errors.New("selection.holding_months must be >= 0")
	}
	if c.Selection.RenewablePercent < 0 || c.Selection.RenewablePercent > 100 {
		return errors.New("selection.renewable_percent must be in [0, 100]")
	}
	if c.Selection.Strategy == "" {
		return errors.New("selection.strategy is required")
	}
	if c.Catalog.BaseURL == "" {
		return errors.New("catalog.base_url is required")
	}
	if c.Catalog.Timeout <= 0 {
		return errors.New("catalog.timeout must be > 0")
	}
	if c.Cache.Enabled && c.Cache.TTL <= 0 {
		return errors.New("cache.ttl must be > 0 when the cache is enabled")
	}
	if _, err := c.Usage.EstimateAnnual(1000); err != nil {
		return fmt.Errorf("usage model invalid: %w", err)
	}
	return nil
}

type valuationFileWrapper struct {
	Valuation ValuationConfig `yaml:"valuation"`
}

func loadValuationFile(path string) (ValuationConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return ValuationConfig{}, err
	}
	var w valuationFileWrapper
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return ValuationConfig{}, err
	}
	return w.Valuation, nil
}

// MergeValuation overlays non-zero fields from override onto base.
func MergeValuation(base, override ValuationConfig) ValuationConfig {
	out := base
	if override.Volatility != 0 {
		out.Volatility = override.Volatility
	}
	if override.Workers != 0 {
		out.Workers = override.Workers
	}
	return out
}

// Merge overlays non-zero fields from override onto a copy of base.
// This is used when loading a file over the defaults and when applying
// per-request overrides.
func Merge(base, override *Config) *Config {
	out := *base
	if override == nil {
		return &out
	}
	out.ValuationFile = override.ValuationFile
	out.Valuation = MergeValuation(base.Valuation, override.Valuation)

	if override.Selection.MinTermMonths != 0 {
		out.Selection.MinTermMonths = override.Selection.MinTermMonths
	}
	// Note: 0 is a valid holding period in theory, but a zero here means "not set".
	if override.Selection.HoldingMonths != 0 {
		out.Selection.HoldingMonths = override.Selection.HoldingMonths
	}
	if override.Selection.RenewablePercent != 0 {
		out.Selection.RenewablePercent = override.Selection.RenewablePercent
	}
	if override.Selection.Strategy != "" {
		out.Selection.Strategy = override.Selection.Strategy
	}
	if override.Selection.Limit != 0 {
		out.Selection.Limit = override.Selection.Limit
	}

	if override.Catalog.BaseURL != "" {
		out.Catalog.BaseURL = override.Catalog.BaseURL
	}
	if override.Catalog.Timeout != 0 {
		out.Catalog.Timeout = override.Catalog.Timeout
	}

	if override.Cache.Enabled {
		out.Cache.Enabled = true
	}
	if override.Cache.TTL != 0 {
		out.Cache.TTL = override.Cache.TTL
	}
	if override.Cache.RedisURL != "" {
		out.Cache.RedisURL = override.Cache.RedisURL
	}

	if override.Usage != (usage.Model{}) {
		out.Usage = override.Usage
	}
	return &out
}

// ApplyEnv overrides fields from environment variables, when set.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("CATALOG_BASE_URL"); v != "" {
		c.Catalog.BaseURL = v
	}
	if os.Getenv("ENABLE_CATALOG_CACHE") == "true" {
		c.Cache.Enabled = true
	}
	if v := os.Getenv("CATALOG_CACHE_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			c.Cache.TTL = parsed
		}
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		c.Cache.RedisURL = v
	}
}
