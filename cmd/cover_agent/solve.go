package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jonathan/talent-cover/internal/cases"
	"github.com/jonathan/talent-cover/internal/metrics"
	"github.com/jonathan/talent-cover/internal/observability"
	"github.com/jonathan/talent-cover/internal/solver"
	"github.com/jonathan/talent-cover/internal/types"
)

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Find the cheapest team for one instance",
	Long:  "Loads an instance JSON file (workers and requirements), runs the chosen solver and prints the selected workers. With --all every solver runs and the results are compared.",
	RunE:  runSolve,
}

var (
	solveInstance  string
	solveAlgorithm string
	solveAll       bool
	solveOutput    string
)

func init() {
	solveCmd.Flags().StringVarP(&solveInstance, "instance", "i", "", "Path to instance JSON file (required)")
	solveCmd.Flags().StringVarP(&solveAlgorithm, "algorithm", "a", solver.AlgorithmBacktrack, fmt.Sprintf("Solver to run, one of %v", solver.Algorithms()))
	solveCmd.Flags().BoolVar(&solveAll, "all", false, "Run every solver and compare the results")
	solveCmd.Flags().StringVarP(&solveOutput, "out", "o", "", "Path to write the solutions as JSON (optional)")

	if err := solveCmd.MarkFlagRequired("instance"); err != nil {
		panic(fmt.Sprintf("failed to mark instance flag as required: %v", err))
	}

	rootCmd.AddCommand(solveCmd)
}

func runSolve(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	cfg, err = finish(cfg)
	if err != nil {
		return err
	}

	in, err := cases.LoadInstance(solveInstance)
	if err != nil {
		return err
	}

	algorithms := []string{solveAlgorithm}
	if solveAll {
		algorithms = solver.Algorithms()
	}

	records, err := solveWith(cmd.OutOrStdout(), in, algorithms, cfg.OracleMaxWorkers, cfg.Verbose)
	if err != nil {
		return err
	}

	if solveOutput != "" {
		if err := writeJSON(solveOutput, records); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d solutions to %s\n", len(records), solveOutput)
	}
	return nil
}

// solveWith runs each algorithm on in and prints the outcome. With several
// algorithms the oracle is skipped on pools above oracleMax.
func solveWith(w io.Writer, in types.Instance, algorithms []string, oracleMax int, verbose bool) ([]types.SolutionRecord, error) {
	printer := observability.NewPrinter(w)
	if verbose {
		printer.PrintInstance(&in)
	}

	var (
		records []types.SolutionRecord
		results []metrics.Result
	)
	for _, name := range algorithms {
		if len(algorithms) > 1 && name == solver.AlgorithmOracle && len(in.Workers) > oracleMax {
			_, _ = fmt.Fprintf(w, "Skipping oracle: %d workers exceeds the limit of %d\n", len(in.Workers), oracleMax)
			continue
		}

		s, err := solver.New(name, in.Workers, in.Requirements)
		if err != nil {
			return nil, err
		}
		sol, res := metrics.Run(s)
		results = append(results, res)

		if len(algorithms) == 1 {
			if res.Failed() {
				return nil, res.Err
			}
			printer.PrintSolution(&res, sol, in.Requirements)
		}
		if res.Failed() {
			continue
		}

		rec := sol.Record()
		rec.Algorithm = res.Algorithm
		records = append(records, rec)
	}

	if len(algorithms) > 1 {
		printer.PrintComparison(results)
	}
	return records, nil
}
