package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/talent-cover/internal/db"
	"github.com/jonathan/talent-cover/internal/experiment"
	"github.com/jonathan/talent-cover/internal/observability"
	"github.com/jonathan/talent-cover/internal/solver"
)

var experimentCmd = &cobra.Command{
	Use:   "experiment",
	Short: "Time the solvers on random instances",
	Long: `Generates random instances for each worker pool size, runs the selected solvers on each and compares them with the oracle on pools within the oracle limit.

Results can be stored in PostgreSQL with --db-url (or the DATABASE_URL env var).`,
	RunE: runExperiment,
}

var (
	experimentSizes       []int
	experimentReps        int
	experimentSeed        int64
	experimentAlgorithms  []string
	experimentOracleMax   int
	experimentConcurrency int
	experimentDatabaseURL string
	experimentReport      string
)

func init() {
	experimentCmd.Flags().IntSliceVar(&experimentSizes, "sizes", nil, "Worker pool sizes, e.g. 5,10,15")
	experimentCmd.Flags().IntVarP(&experimentReps, "reps", "r", 0, "Repetitions per size")
	experimentCmd.Flags().Int64Var(&experimentSeed, "seed", 0, "Random seed (0 selects the default seed 42)")
	experimentCmd.Flags().StringSliceVarP(&experimentAlgorithms, "algorithms", "a", nil, fmt.Sprintf("Solvers to run, from %v", solver.Algorithms()))
	experimentCmd.Flags().IntVar(&experimentOracleMax, "oracle-max", 0, "Largest pool the oracle is run on")
	experimentCmd.Flags().IntVar(&experimentConcurrency, "concurrency", 0, "Instances evaluated in parallel (default GOMAXPROCS)")
	experimentCmd.Flags().StringVar(&experimentDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	experimentCmd.Flags().StringVar(&experimentReport, "report", "", "Write one CSV row per solver result to this file")

	rootCmd.AddCommand(experimentCmd)
}

func runExperiment(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	// Apply CLI overrides (command-line args take priority)
	if cmd.Flags().Changed("sizes") {
		cfg.Sizes = experimentSizes
	}
	if cmd.Flags().Changed("reps") {
		cfg.Repetitions = experimentReps
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = experimentSeed
	}
	if cmd.Flags().Changed("algorithms") {
		cfg.Algorithms = experimentAlgorithms
	}
	if cmd.Flags().Changed("oracle-max") {
		cfg.OracleMaxWorkers = experimentOracleMax
	}
	if cmd.Flags().Changed("concurrency") {
		cfg.Concurrency = experimentConcurrency
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = experimentDatabaseURL
	}
	cfg, err = finish(cfg)
	if err != nil {
		return err
	}

	logger := newLogger(cmd.ErrOrStderr(), cfg)

	opts := experiment.DefaultOptions()
	opts.Algorithms = cfg.Algorithms
	opts.Seed = cfg.Seed
	opts.OracleMaxWorkers = cfg.OracleMaxWorkers
	opts.Concurrency = cfg.Concurrency

	var store experiment.Store
	if cfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer database.Close()
		if err := database.EnsureSchema(ctx); err != nil {
			return err
		}
		store = database
		logger.Info("storing results in database")
	}

	runner, err := experiment.NewRunner(opts, logger, store)
	if err != nil {
		return err
	}
	report, err := runner.RunRandom(ctx, cfg.Sizes, cfg.Repetitions)
	if err != nil {
		return err
	}

	printReport(cmd.OutOrStdout(), report, cfg.Verbose)
	if experimentReport != "" {
		return saveReport(cmd.OutOrStdout(), experimentReport, report.Metrics.Results())
	}
	return nil
}

func printReport(w io.Writer, report *experiment.Report, verbose bool) {
	printer := observability.NewPrinter(w)
	title := fmt.Sprintf("EXPERIMENT: %d INSTANCES", report.Instances)
	printer.PrintSummary(title, report.Metrics.Summary())
	if verbose {
		printer.PrintCaseFailures(report.Metrics.Failures())
	}
	_, _ = fmt.Fprintf(w, "Run %s finished in %s\n", report.RunID, report.Finished.Sub(report.Started).Round(time.Millisecond))
}
