package metrics

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
)

// ReportHeader is the column layout written by WriteCSV.
var ReportHeader = []string{
	"case_id", "algorithm", "num_workers", "num_requirements",
	"time_seconds", "time", "solution_size", "cost", "is_valid",
	"is_optimal", "cost_ratio", "cost_error_percent", "error",
}

// WriteCSV writes one row per result. Correctness columns are left empty
// for results that were never compared.
func WriteCSV(w io.Writer, results []Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ReportHeader); err != nil {
		return fmt.Errorf("failed to write report header: %w", err)
	}
	for i := range results {
		if err := cw.Write(reportRow(&results[i])); err != nil {
			return fmt.Errorf("failed to write report row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveCSV writes the report to path, creating parent directories.
func SaveCSV(path string, results []Result) (err error) {
	if path == "" {
		return fmt.Errorf("report path is empty")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close report: %w", cerr)
		}
	}()
	return WriteCSV(f, results)
}

func reportRow(r *Result) []string {
	row := []string{
		strconv.Itoa(r.CaseID),
		r.Algorithm,
		strconv.Itoa(r.NumWorkers),
		strconv.Itoa(r.NumRequirements),
		strconv.FormatFloat(r.Duration.Seconds(), 'f', 6, 64),
		r.FormattedDuration,
		strconv.Itoa(r.SolutionSize),
		formatFloat(r.Cost),
		strconv.FormatBool(r.IsValid),
		"", "", "",
		"",
	}
	if c := r.Correctness; c != nil {
		row[9] = strconv.FormatBool(c.IsOptimal)
		row[10] = formatFloat(c.CostRatio)
		row[11] = formatFloat(c.CostErrorPercent)
	}
	if r.Err != nil {
		row[12] = r.Err.Error()
	}
	return row
}

func formatFloat(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	case math.IsNaN(v):
		return "nan"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
