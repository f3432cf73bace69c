// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers a YAML file and TERRITORY_ env vars on top of the defaults.
// - Validation errors wrap ErrInvalidConfig.
package config

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/okian/territory/internal/domain/scoring"
)

// MaxThreshold bounds threshold_max. No account has more employees, and
// sweep arithmetic stays far from integer overflow.
const MaxThreshold = 100_000_000

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// Threshold is the default employee count at which an account is Enterprise.
	Threshold int `koanf:"threshold"`

	// ThresholdMin, ThresholdMax and ThresholdStep bound the threshold control and sweeps.
	ThresholdMin  int `koanf:"threshold_min"`
	ThresholdMax  int `koanf:"threshold_max"`
	ThresholdStep int `koanf:"threshold_step"`

	// Weights are the default load weights.
	Weights scoring.Weights `koanf:"weights"`

	// AccountsSource and RepsSource are CSV paths or http(s) URLs.
	AccountsSource string `koanf:"accounts_source"`
	RepsSource     string `koanf:"reps_source"`

	// WorkbookPath is an xlsx file with Accounts and Reps sheets.
	// When set it takes precedence over the CSV sources.
	WorkbookPath string `koanf:"workbook_path"`

	// SweepWorkers sets the number of goroutines evaluating thresholds.
	SweepWorkers int `koanf:"sweep_workers"`

	// CacheSize caps the number of memoized assignment runs.
	CacheSize int `koanf:"cache_size"`

	// ExportDir is where the CLI writes export files.
	ExportDir string `koanf:"export_dir"`

	// KafkaBrokers and KafkaTopic enable run summary publishing when both are set.
	KafkaBrokers []string `koanf:"kafka_brokers"`
	KafkaTopic   string   `koanf:"kafka_topic"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:       "info",
		LogFormat:      "text",
		Addr:           ":9080",
		Threshold:      100_000,
		ThresholdMin:   1_000,
		ThresholdMax:   200_000,
		ThresholdStep:  1_000,
		Weights:        scoring.DefaultWeights(),
		AccountsSource: "data/accounts.csv",
		RepsSource:     "data/reps.csv",
		SweepWorkers:   runtime.NumCPU(),
		CacheSize:      256,
		ExportDir:      ".",
		KafkaTopic:     "territory.runs",
	}
}

// PublishingEnabled reports whether a Kafka publisher should be built.
func (c *Config) PublishingEnabled() bool {
	return len(c.KafkaBrokers) > 0 && strings.TrimSpace(c.KafkaTopic) != ""
}

// Validate checks field consistency.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.ThresholdStep <= 0:
		return fmt.Errorf("%w: threshold_step must be positive, got %d", ErrInvalidConfig, c.ThresholdStep)
	case c.ThresholdMin < 0 || c.ThresholdMin > c.ThresholdMax:
		return fmt.Errorf("%w: threshold range [%d, %d] is not ordered", ErrInvalidConfig, c.ThresholdMin, c.ThresholdMax)
	case c.ThresholdMax > MaxThreshold:
		return fmt.Errorf("%w: threshold_max %d exceeds %d", ErrInvalidConfig, c.ThresholdMax, MaxThreshold)
	case c.Threshold < c.ThresholdMin || c.Threshold > c.ThresholdMax:
		return fmt.Errorf("%w: threshold %d outside [%d, %d]", ErrInvalidConfig, c.Threshold, c.ThresholdMin, c.ThresholdMax)
	case c.SweepWorkers < 0:
		return fmt.Errorf("%w: sweep_workers must not be negative", ErrInvalidConfig)
	case c.CacheSize < 0:
		return fmt.Errorf("%w: cache_size must not be negative", ErrInvalidConfig)
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: log_format %q is not text or json", ErrInvalidConfig, c.LogFormat)
	}
	if err := c.Weights.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}
