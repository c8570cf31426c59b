// Package config loads and validates the rrg YAML configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults for the rotation metrics.
const (
	DefaultWindow = 14
	DefaultPeriod = 52
)

// ---------------------------------------------------------------------------
// Configuration structs
// ---------------------------------------------------------------------------

// Config is the top-level configuration for rrg. It is immutable for the
// session once loaded.
type Config struct {
	// Benchmark is the ticker every watchlist symbol is measured against.
	// Required unless overridden on the command line.
	Benchmark string `yaml:"benchmark"`

	// Window is the rolling window length for the ratio/momentum
	// normalization. Must be >= 1.
	Window int `yaml:"window"`

	// Period is the momentum base lookback in observations. Must be >= 1.
	// Ignored when BaseDate is set.
	Period int `yaml:"period"`

	// BaseDate optionally pins the momentum base to a calendar date
	// (YYYY-MM-DD) instead of a lookback count.
	BaseDate string `yaml:"base_date"`

	Storage Storage `yaml:"storage"`
	Alpaca  Alpaca  `yaml:"alpaca"`
	Logging Logging `yaml:"logging"`
}

// Storage holds paths for data persistence.
type Storage struct {
	DataDir    string `yaml:"data_dir"`
	SQLitePath string `yaml:"sqlite_path"`
}

// Alpaca holds credentials and endpoints for the Alpaca market-data API,
// used to refresh the local bar cache.
type Alpaca struct {
	APIKey          string `yaml:"api_key"`
	APISecret       string `yaml:"api_secret"`
	DataURL         string `yaml:"data_url"`
	RateLimitPerMin int    `yaml:"rate_limit_per_min"`
}

// Logging configures the application logger.
type Logging struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// Load reads the YAML configuration file at the given path, applies
// environment variable overrides, fills defaults, and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns a configuration with all defaults filled and environment
// overrides applied, for running without a config file.
func Default() *Config {
	cfg := &Config{}
	applyEnvOverrides(cfg)
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Window == 0 {
		cfg.Window = DefaultWindow
	}
	if cfg.Period == 0 {
		cfg.Period = DefaultPeriod
	}
	if cfg.Storage.DataDir == "" {
		cfg.Storage.DataDir = "data"
	}
	if cfg.Storage.SQLitePath == "" {
		cfg.Storage.SQLitePath = "rrg.db"
	}
	if cfg.Alpaca.RateLimitPerMin == 0 {
		cfg.Alpaca.RateLimitPerMin = 200
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}

// applyEnvOverrides checks well-known environment variables and overrides
// the corresponding configuration fields when they are set.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("RRG_BENCHMARK"); v != "" {
		cfg.Benchmark = v
	}
	if v := os.Getenv("DATA_DIR"); v != "" {
		cfg.Storage.DataDir = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Storage.SQLitePath = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	if v := os.Getenv("ALPACA_DATA_URL"); v != "" {
		cfg.Alpaca.DataURL = v
	}

	// Standard Alpaca env vars (canonical names used by the SDK).
	if v := os.Getenv("APCA_API_KEY_ID"); v != "" {
		cfg.Alpaca.APIKey = v
	}
	if v := os.Getenv("APCA_API_SECRET_KEY"); v != "" {
		cfg.Alpaca.APISecret = v
	}
}

// Validate checks numeric and date fields. It does not require Benchmark,
// which may be supplied as a command-line override.
func (c *Config) Validate() error {
	if c.Window < 1 {
		return fmt.Errorf("window must be >= 1, got %d", c.Window)
	}
	if c.Period < 1 {
		return fmt.Errorf("period must be >= 1, got %d", c.Period)
	}
	if c.BaseDate != "" {
		if _, err := time.Parse("2006-01-02", c.BaseDate); err != nil {
			return fmt.Errorf("base_date %q: %w", c.BaseDate, err)
		}
	}
	return nil
}

// BaseDateTime returns the parsed base date and whether one is configured.
// Validate must have accepted the configuration first.
func (c *Config) BaseDateTime() (time.Time, bool) {
	if c.BaseDate == "" {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", c.BaseDate)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
