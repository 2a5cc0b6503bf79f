package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jonathan/talent-cover/internal/cases"
	"github.com/jonathan/talent-cover/internal/experiment"
	"github.com/jonathan/talent-cover/internal/observability"
	"github.com/jonathan/talent-cover/internal/schemas"
	"github.com/jonathan/talent-cover/internal/solver"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the solvers against a reference test-case file",
	Long:  "Runs the selected solvers on every case of a test-case file and compares them with the recorded optimum. Fails when an exact solver misses the optimum; the greedy heuristic is only reported.",
	RunE:  runValidate,
}

var (
	validateCases      string
	validateAlgorithms []string
	validateSchema     string
	validateReport     string
)

func init() {
	validateCmd.Flags().StringVarP(&validateCases, "cases", "c", "", "Path to test-case JSON file (defaults to the config cases)")
	validateCmd.Flags().StringSliceVarP(&validateAlgorithms, "algorithms", "a", nil, fmt.Sprintf("Solvers to check, from %v", solver.Algorithms()))
	validateCmd.Flags().StringVar(&validateSchema, "schema", "", "Additional JSON Schema file the case file must satisfy")
	validateCmd.Flags().StringVar(&validateReport, "report", "", "Write one CSV row per solver result to this file")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("cases") {
		cfg.Cases = validateCases
	}
	if cmd.Flags().Changed("algorithms") {
		cfg.Algorithms = validateAlgorithms
	}
	cfg, err = finish(cfg)
	if err != nil {
		return err
	}
	if cfg.Cases == "" {
		return fmt.Errorf("--cases is required (via flag or config)")
	}

	f, err := loadCases(cfg.Cases, validateSchema)
	if err != nil {
		return err
	}

	opts := experiment.DefaultOptions()
	opts.Algorithms = cfg.Algorithms
	opts.Concurrency = cfg.Concurrency
	return validateCasesWith(cmd.Context(), cmd.OutOrStdout(), newLogger(cmd.ErrOrStderr(), cfg), f, opts, validateReport)
}

// loadCases checks path against the user schema, when one is given, before
// the regular load and its built-in schema check.
func loadCases(path, schemaPath string) (*cases.File, error) {
	if schemaPath != "" {
		if err := schemas.ValidateJSON(schemaPath, path); err != nil {
			return nil, fmt.Errorf("case file does not match %s: %w", schemaPath, err)
		}
	}
	return cases.Load(path)
}

func validateCasesWith(ctx context.Context, w io.Writer, logger *slog.Logger, f *cases.File, opts experiment.Options, reportPath string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	runner, err := experiment.NewRunner(opts, logger, nil)
	if err != nil {
		return err
	}
	report, err := runner.RunCases(ctx, f)
	if err != nil {
		return err
	}

	printer := observability.NewPrinter(w)
	printer.PrintSummary(fmt.Sprintf("VALIDATION: %d CASES", report.Instances), report.Metrics.Summary())

	failures := report.Metrics.Failures()
	printer.PrintCaseFailures(failures)

	if reportPath != "" {
		if err := saveReport(w, reportPath, report.Metrics.Results()); err != nil {
			return err
		}
	}

	greedy := solver.NewGreedy(nil, nil).Name()
	exactMisses := 0
	for _, r := range failures {
		if r.Algorithm != greedy {
			exactMisses++
		}
	}
	if exactMisses > 0 {
		return fmt.Errorf("validation failed: %d exact results did not match the optimum", exactMisses)
	}
	_, _ = fmt.Fprintln(w, "Validation passed")
	return nil
}
