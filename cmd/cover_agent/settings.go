package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/talent-cover/internal/config"
	"github.com/jonathan/talent-cover/internal/metrics"
)

// loadSettings reads --config when given and applies the global flags.
// Commands apply their own overrides and then call finish.
func loadSettings(cmd *cobra.Command) (config.Config, error) {
	var cfg config.Config
	if rootConfigPath != "" {
		loaded, err := config.LoadConfig(rootConfigPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		if err := loaded.Validate(); err != nil {
			return cfg, err
		}
		cfg = *loaded
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = rootVerbose
	}
	return cfg, nil
}

// finish fills unset values from the defaults and validates the result.
func finish(cfg config.Config) (config.Config, error) {
	cfg = cfg.MergeWithDefaults(config.Defaults())
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func newLogger(w io.Writer, cfg config.Config) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
}

// writeJSON writes v as indented JSON, creating the output directory.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}

	// Ensure output directory exists
	outputDir := filepath.Dir(path)
	if outputDir != "" && outputDir != "." {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", path, err)
	}
	return nil
}

// saveReport writes the per-result CSV report and tells the user where.
func saveReport(w io.Writer, path string, results []metrics.Result) error {
	if err := metrics.SaveCSV(path, results); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(w, "Report with %d results written to %s\n", len(results), path)
	return nil
}
