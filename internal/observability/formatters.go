// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/jonathan/talent-cover/internal/db"
	"github.com/jonathan/talent-cover/internal/metrics"
	"github.com/jonathan/talent-cover/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for the CLI
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

func formatCost(cost float64) string {
	if math.IsInf(cost, 1) {
		return "n/a"
	}
	return fmt.Sprintf("$%.2f", cost)
}

// PrintInstance outputs the size of an instance and its requirements.
func (p *Printer) PrintInstance(in *types.Instance) {
	if in == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Workers:      %d\n", len(in.Workers)))
	sb.WriteString(fmt.Sprintf("Requirements: %d\n", in.Requirements.Len()))
	for _, skill := range in.Requirements.Skills() {
		sb.WriteString(fmt.Sprintf("  • %s >= %d\n", skill, in.Requirements.Level(skill)))
	}

	p.printBox("INSTANCE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSolution outputs the selected workers and how they cover reqs.
func (p *Printer) PrintSolution(res *metrics.Result, sol types.Solution, reqs types.Requirements) {
	if res == nil {
		return
	}

	var sb strings.Builder
	if res.Failed() {
		sb.WriteString(fmt.Sprintf("Error: %v\n", res.Err))
		p.printBox(strings.ToUpper(res.Algorithm), strings.TrimSuffix(sb.String(), "\n"))
		return
	}

	status := "complete cover"
	if !sol.IsValid {
		status = "no complete cover"
	}
	sb.WriteString(fmt.Sprintf("Status:   %s\n", status))
	sb.WriteString(fmt.Sprintf("Cost:     %s/h\n", formatCost(sol.TotalCost)))
	sb.WriteString(fmt.Sprintf("Workers:  %d\n", len(sol.Selected)))
	sb.WriteString(fmt.Sprintf("Time:     %s\n", res.FormattedDuration))

	if len(sol.Selected) > 0 {
		sb.WriteString("\nSelected:\n")
		count := min(len(sol.Selected), maxItemsToShow)
		for i := 0; i < count; i++ {
			w := sol.Selected[i]
			name := w.Name
			if name == "" {
				name = fmt.Sprintf("#%d", w.ID)
			}
			sb.WriteString(fmt.Sprintf("  • %s (id %d) %s/h\n", name, w.ID, formatCost(w.HourlyCost)))
		}
		if len(sol.Selected) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(sol.Selected)-maxItemsToShow))
		}
	}

	if reqs.Len() > 0 {
		sb.WriteString("\nCoverage:\n")
		for _, skill := range reqs.Skills() {
			level := reqs.Level(skill)
			best := 0
			for _, w := range sol.Selected {
				best = max(best, w.Level(skill))
			}
			mark := "✓"
			if best < level {
				mark = "✗"
			}
			sb.WriteString(fmt.Sprintf("  %s %s: need %d, have %d\n", mark, skill, level, best))
		}
	}

	p.printBox(strings.ToUpper(res.Algorithm), strings.TrimSuffix(sb.String(), "\n"))
}

// PrintComparison outputs one line per result, for several solvers run on
// the same instance.
func (p *Printer) PrintComparison(results []metrics.Result) {
	if len(results) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-18s %10s %5s %13s\n", "Algorithm", "Cost", "Size", "Time"))
	for _, r := range results {
		if r.Failed() {
			sb.WriteString(fmt.Sprintf("%-18s %s\n", r.Algorithm, "error"))
			continue
		}
		cost := formatCost(r.Cost)
		if !r.IsValid {
			cost = "infeasible"
		}
		sb.WriteString(fmt.Sprintf("%-18s %10s %5d %13s\n", r.Algorithm, cost, r.SolutionSize, r.FormattedDuration))
	}

	p.printBox("SOLVER COMPARISON", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSummary outputs aggregated metrics per algorithm.
func (p *Printer) PrintSummary(title string, summaries []metrics.Summary) {
	if len(summaries) == 0 {
		return
	}

	var sb strings.Builder
	for i, s := range summaries {
		sb.WriteString(fmt.Sprintf("%s\n", s.Algorithm))
		sb.WriteString(fmt.Sprintf("  Runs: %d  Valid: %d  Errors: %d\n", s.Runs, s.Valid, s.Errors))
		if s.Compared > 0 {
			sb.WriteString(fmt.Sprintf("  Optimal: %d/%d (%.1f%%)\n", s.Optimal, s.Compared, s.OptimalRatio*100))
			sb.WriteString(fmt.Sprintf("  Avg cost ratio: %.3f  Avg size diff: %+.2f\n", s.AvgCostRatio, s.AvgSizeDiff))
		}
		sb.WriteString(fmt.Sprintf("  Time avg %s\n", metrics.FormatDuration(s.AvgTime)))
		sb.WriteString(fmt.Sprintf("  Time min %s  max %s\n", metrics.FormatDuration(s.MinTime), metrics.FormatDuration(s.MaxTime)))
		if i < len(summaries)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox(title, sb.String())
}

// PrintCaseFailures outputs the results that did not match the reference
// optimum.
func (p *Printer) PrintCaseFailures(failures []metrics.Result) {
	if len(failures) == 0 {
		p.printBox("FAILURES", "None: every compared result matched the optimum")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total failures: %d\n\n", len(failures)))

	count := min(len(failures), maxItemsToShow)
	for i := 0; i < count; i++ {
		f := failures[i]
		label := fmt.Sprintf("case %d", f.CaseID)
		if f.CaseID < 0 {
			label = fmt.Sprintf("%d workers", f.NumWorkers)
		}
		sb.WriteString(fmt.Sprintf("%s [%s]\n", f.Algorithm, label))
		if f.Correctness != nil {
			sb.WriteString(fmt.Sprintf("    Cost %s vs optimal %s\n", formatCost(f.Cost), formatCost(f.Correctness.OracleCost)))
		}
	}

	if len(failures) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more failures", len(failures)-maxItemsToShow))
	}

	p.printBox("FAILURES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRuns outputs stored experiment runs, newest first.
func (p *Printer) PrintRuns(runs []db.Run) {
	if len(runs) == 0 {
		p.printBox("EXPERIMENT RUNS", "No runs recorded")
		return
	}

	var sb strings.Builder
	for _, r := range runs {
		sb.WriteString(r.ID.String() + "\n")
		sb.WriteString(fmt.Sprintf("  %-6s %-9s seed %d  %s\n", r.Kind, r.Status, r.Seed, r.CreatedAt.Format(time.DateTime)))
	}

	p.printBox(fmt.Sprintf("EXPERIMENT RUNS (%d)", len(runs)), strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRun outputs the header of one stored run.
func (p *Printer) PrintRun(run *db.Run, results int) {
	if run == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("ID:         %s\n", run.ID))
	sb.WriteString(fmt.Sprintf("Kind:       %s\n", run.Kind))
	sb.WriteString(fmt.Sprintf("Status:     %s\n", run.Status))
	sb.WriteString(fmt.Sprintf("Seed:       %d\n", run.Seed))
	sb.WriteString(fmt.Sprintf("Algorithms: %s\n", strings.Join(run.Algorithms, ", ")))
	sb.WriteString(fmt.Sprintf("Started:    %s\n", run.CreatedAt.Format(time.DateTime)))
	if run.CompletedAt != nil {
		sb.WriteString(fmt.Sprintf("Elapsed:    %s\n", run.CompletedAt.Sub(run.CreatedAt).Round(time.Millisecond)))
	}
	sb.WriteString(fmt.Sprintf("Results:    %d", results))

	p.printBox("EXPERIMENT RUN", sb.String())
}
