// Package main provides the entry point for the cover_agent CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cover_agent",
	Short: "Minimum-cost team selection for skill requirements",
	Long: `cover_agent selects the cheapest set of workers whose combined skills meet every requirement of a client.

It solves single instances, generates reference test cases with the brute-force oracle, validates the solvers against those cases and runs timing experiments on random instances.`,
	SilenceUsage: true,
}

var (
	rootConfigPath string
	rootVerbose    bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&rootConfigPath, "config", "", "Path to a JSON or YAML config file (values can be overridden by other flags)")
	rootCmd.PersistentFlags().BoolVarP(&rootVerbose, "verbose", "v", false, "Print detailed debug information")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
