// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Config represents the CLI configuration that can be loaded from a JSON or
// YAML file. All fields are optional; missing values use defaults or must be
// provided via CLI flags.
type Config struct {
	// Paths
	Cases  string `json:"cases,omitempty" yaml:"cases,omitempty"`   // Path to a test-case file
	Output string `json:"output,omitempty" yaml:"output,omitempty"` // Where generated cases are written

	// Experiment
	Algorithms       []string `json:"algorithms,omitempty" yaml:"algorithms,omitempty" validate:"omitempty,dive,oneof=greedy backtrack dp dp-optimized oracle"`
	Sizes            []int    `json:"sizes,omitempty" yaml:"sizes,omitempty" validate:"omitempty,dive,gte=0"` // Worker pool sizes for random runs
	Repetitions      int      `json:"repetitions,omitempty" yaml:"repetitions,omitempty" validate:"gte=0"`
	Seed             int64    `json:"seed,omitempty" yaml:"seed,omitempty"` // 0 selects the default seed (42)
	OracleMaxWorkers int      `json:"oracle_max_workers,omitempty" yaml:"oracle_max_workers,omitempty" validate:"gte=0,lte=30"` // Oracle is skipped on larger pools
	Concurrency      int      `json:"concurrency,omitempty" yaml:"concurrency,omitempty" validate:"gte=0"`

	// Behavior
	Verbose     bool   `json:"verbose,omitempty" yaml:"verbose,omitempty"`
	LogLevel    string `json:"log_level,omitempty" yaml:"log_level,omitempty" validate:"omitempty,oneof=debug info warn error"`
	DatabaseURL string `json:"database_url,omitempty" yaml:"database_url,omitempty"` // PostgreSQL connection URL
}

// Defaults returns the values used when neither the config file nor a flag
// sets a field.
func Defaults() Config {
	return Config{
		Output:           "test_data/test_cases.json",
		Algorithms:       []string{"greedy", "backtrack", "dp", "dp-optimized"},
		Sizes:            []int{5, 10, 15},
		Repetitions:      5,
		Seed:             42,
		OracleMaxWorkers: 20,
		LogLevel:         "info",
	}
}

// LoadConfig loads configuration from a JSON or YAML file, chosen by extension.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	if c.Cases != "" {
		if _, err := os.Stat(c.Cases); os.IsNotExist(err) {
			return fmt.Errorf("config error: cases file not found: %s", c.Cases)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.Cases == "" {
		result.Cases = defaults.Cases
	}
	if result.Output == "" {
		result.Output = defaults.Output
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}

	// Slices: use default if empty
	if len(result.Algorithms) == 0 {
		result.Algorithms = append([]string(nil), defaults.Algorithms...)
	}
	if len(result.Sizes) == 0 {
		result.Sizes = append([]int(nil), defaults.Sizes...)
	}

	// Numeric fields: use default if zero
	if result.Repetitions == 0 {
		result.Repetitions = defaults.Repetitions
	}
	// A zero seed is indistinguishable from unset; the generator maps it to
	// the same default.
	if result.Seed == 0 {
		result.Seed = defaults.Seed
	}
	if result.OracleMaxWorkers == 0 {
		result.OracleMaxWorkers = defaults.OracleMaxWorkers
	}
	if result.Concurrency == 0 {
		result.Concurrency = defaults.Concurrency
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// SlogLevel maps LogLevel to a slog level; Verbose forces debug.
func (c *Config) SlogLevel() slog.Level {
	if c.Verbose {
		return slog.LevelDebug
	}
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
