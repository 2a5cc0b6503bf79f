package main

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/talent-cover/internal/db"
	"github.com/jonathan/talent-cover/internal/metrics"
	"github.com/jonathan/talent-cover/internal/observability"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Show experiment runs stored in PostgreSQL",
	Long: `Lists the most recent experiment runs, or with --id shows one run with a per-algorithm summary of its stored results.

Reads from --db-url (or the DATABASE_URL env var).`,
	RunE: runRuns,
}

var (
	runsDatabaseURL string
	runsLimit       int
	runsID          string
	runsReport      string
)

func init() {
	runsCmd.Flags().StringVar(&runsDatabaseURL, "db-url", "", "PostgreSQL connection URL (defaults to DATABASE_URL env var)")
	runsCmd.Flags().IntVarP(&runsLimit, "limit", "n", 20, "Number of runs to list")
	runsCmd.Flags().StringVar(&runsID, "id", "", "Show the run with this ID")
	runsCmd.Flags().StringVar(&runsReport, "report", "", "With --id, write the run's results as CSV to this file")

	rootCmd.AddCommand(runsCmd)
}

// runReader is the read side of the experiment store.
type runReader interface {
	ListRuns(ctx context.Context, limit int) ([]db.Run, error)
	GetRun(ctx context.Context, runID uuid.UUID) (*db.Run, error)
	ListResults(ctx context.Context, runID uuid.UUID) ([]db.SolverResult, error)
}

func runRuns(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = runsDatabaseURL
	}
	cfg, err = finish(cfg)
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("--db-url or DATABASE_URL is required")
	}
	if runsReport != "" && runsID == "" {
		return fmt.Errorf("--report needs --id")
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	if runsID == "" {
		return listRunsWith(ctx, cmd.OutOrStdout(), database, runsLimit)
	}
	id, err := uuid.Parse(runsID)
	if err != nil {
		return fmt.Errorf("invalid run id %q: %w", runsID, err)
	}
	return showRunWith(ctx, cmd.OutOrStdout(), database, id, runsReport)
}

func listRunsWith(ctx context.Context, w io.Writer, store runReader, limit int) error {
	runs, err := store.ListRuns(ctx, limit)
	if err != nil {
		return err
	}
	observability.NewPrinter(w).PrintRuns(runs)
	return nil
}

func showRunWith(ctx context.Context, w io.Writer, store runReader, id uuid.UUID, reportPath string) error {
	run, err := store.GetRun(ctx, id)
	if err != nil {
		return fmt.Errorf("run %s: %w", id, err)
	}
	rows, err := store.ListResults(ctx, id)
	if err != nil {
		return err
	}

	collector := metrics.NewCollector()
	for _, r := range rows {
		collector.Add(r.Result())
	}

	printer := observability.NewPrinter(w)
	printer.PrintRun(run, len(rows))
	printer.PrintSummary("STORED RESULTS", collector.Summary())
	if collector.Len() > 0 {
		printer.PrintCaseFailures(collector.Failures())
	}

	if reportPath != "" {
		return saveReport(w, reportPath, collector.Results())
	}
	return nil
}
