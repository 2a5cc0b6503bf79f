package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jonathan/talent-cover/internal/cases"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate reference test cases solved by the oracle",
	Long:  "Builds the deterministic reference suite (simple, medium, complex, edge and special cases), solves every case with the brute-force oracle and writes the result as a test-case JSON file.",
	RunE:  runGenerate,
}

var (
	generateOutput     string
	generateCategories string
)

func init() {
	generateCmd.Flags().StringVarP(&generateOutput, "out", "o", "", "Path to output test-case JSON file (defaults to the config output)")
	generateCmd.Flags().StringVar(&generateCategories, "categories", "", "Comma-separated categories to build (default: all)")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("out") {
		cfg.Output = generateOutput
	}
	cfg, err = finish(cfg)
	if err != nil {
		return err
	}

	categories, err := cases.ParseCategories(generateCategories)
	if err != nil {
		return err
	}

	logger := newLogger(cmd.ErrOrStderr(), cfg)
	logger.Info("generating test cases", "categories", categories, "out", cfg.Output)

	return generateSuite(cmd.Context(), cmd.OutOrStdout(), categories, cfg.Output)
}

func generateSuite(ctx context.Context, w io.Writer, categories []cases.Category, out string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	f, err := cases.BuildSuite(ctx, categories)
	if err != nil {
		return fmt.Errorf("failed to build test cases: %w", err)
	}
	if err := cases.Save(out, f); err != nil {
		return err
	}

	perCategory := make(map[cases.Category]int)
	infeasible := 0
	for _, c := range f.Cases {
		perCategory[c.Category]++
		if !c.IsValid {
			infeasible++
		}
	}
	for _, cat := range categories {
		_, _ = fmt.Fprintf(w, "  %-8s %d cases\n", cat, perCategory[cat])
	}
	_, _ = fmt.Fprintf(w, "Successfully generated %d test cases (%d infeasible) to %s\n", len(f.Cases), infeasible, out)
	return nil
}
