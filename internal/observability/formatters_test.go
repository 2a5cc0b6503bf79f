package observability

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/talent-cover/internal/db"
	"github.com/jonathan/talent-cover/internal/metrics"
	"github.com/jonathan/talent-cover/internal/types"
	"github.com/stretchr/testify/assert"
)

func sampleSolution() (types.Solution, types.Requirements) {
	workers := []types.Worker{
		{ID: 3, Name: "Ada", HourlyCost: 12, Skills: map[types.Skill]int{types.SkillPython: 7}},
		{ID: 8, Name: "Linus", HourlyCost: 9.5, Skills: map[types.Skill]int{types.SkillCPlusPlus: 4}},
	}
	sol := types.Solution{
		Selected:  []*types.Worker{&workers[0], &workers[1]},
		TotalCost: 21.5,
		IsValid:   true,
	}
	reqs := types.Requirements{types.SkillPython: 5, types.SkillCPlusPlus: 4}
	return sol, reqs
}

func TestPrintInstance(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	_, reqs := sampleSolution()
	p.PrintInstance(&types.Instance{Workers: make([]types.Worker, 4), Requirements: reqs})
	output := buf.String()

	assert.Contains(t, output, "INSTANCE")
	assert.Contains(t, output, "Workers:      4")
	assert.Contains(t, output, "Python >= 5")
	assert.Less(t, strings.Index(output, "Python"), strings.Index(output, "C++"))
}

func TestPrintInstance_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintInstance(nil)
	assert.Empty(t, buf.String())
}

func TestPrintSolution(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	sol, reqs := sampleSolution()
	res := &metrics.Result{Algorithm: "BacktrackSolver", FormattedDuration: "00:00:00.004"}
	p.PrintSolution(res, sol, reqs)
	output := buf.String()

	assert.Contains(t, output, "BACKTRACKSOLVER")
	assert.Contains(t, output, "complete cover")
	assert.Contains(t, output, "$21.50/h")
	assert.Contains(t, output, "Ada (id 3)")
	assert.Contains(t, output, "✓ Python: need 5, have 7")
	assert.Contains(t, output, "00:00:00.004")
}

func TestPrintSolution_Infeasible(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	_, reqs := sampleSolution()
	p.PrintSolution(&metrics.Result{Algorithm: "GreedySolver"}, types.InvalidSolution(), reqs)
	output := buf.String()

	assert.Contains(t, output, "no complete cover")
	assert.Contains(t, output, "n/a")
	assert.Contains(t, output, "✗ Python: need 5, have 0")
}

func TestPrintSolution_Error(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	res := &metrics.Result{Algorithm: "DPSolver", Err: errors.New("too many requirements")}
	p.PrintSolution(res, types.InvalidSolution(), nil)
	assert.Contains(t, buf.String(), "Error: too many requirements")

	buf.Reset()
	p.PrintSolution(nil, types.InvalidSolution(), nil)
	assert.Empty(t, buf.String())
}

func TestPrintComparison(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintComparison([]metrics.Result{
		{Algorithm: "GreedySolver", IsValid: true, Cost: 30, SolutionSize: 3, FormattedDuration: "00:00:00.000"},
		{Algorithm: "OracleSolver", Cost: math.Inf(1), FormattedDuration: "00:00:00.120"},
		{Algorithm: "DPSolver", Err: errors.New("boom")},
	})
	output := buf.String()

	assert.Contains(t, output, "SOLVER COMPARISON")
	assert.Contains(t, output, "$30.00")
	assert.Contains(t, output, "infeasible")
	assert.Contains(t, output, "error")
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintSummary("EXPERIMENT SUMMARY", []metrics.Summary{
		{Algorithm: "GreedySolver", Runs: 10, Valid: 9, Compared: 10, Optimal: 8, OptimalRatio: 0.8, AvgCostRatio: 1.05,
			AvgTime: time.Millisecond, MinTime: 0, MaxTime: 2 * time.Millisecond},
		{Algorithm: "DPSolver", Runs: 10, Errors: 2},
	})
	output := buf.String()

	assert.Contains(t, output, "EXPERIMENT SUMMARY")
	assert.Contains(t, output, "Optimal: 8/10 (80.0%)")
	assert.Contains(t, output, "Avg cost ratio: 1.050")
	assert.Contains(t, output, "Errors: 2")
	assert.Equal(t, 1, strings.Count(output, "Optimal:"))
}

func TestPrintCaseFailures(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	failures := make([]metrics.Result, 7)
	for i := range failures {
		failures[i] = metrics.Result{
			Algorithm:   "GreedySolver",
			CaseID:      i,
			Cost:        20,
			Correctness: &metrics.Correctness{OracleCost: 15},
		}
	}
	p.PrintCaseFailures(failures)
	output := buf.String()

	assert.Contains(t, output, "Total failures: 7")
	assert.Contains(t, output, "GreedySolver [case 0]")
	assert.Contains(t, output, "Cost $20.00 vs optimal $15.00")
	assert.Contains(t, output, "... and 2 more failures")
	assert.NotContains(t, output, "[case 5]")

	buf.Reset()
	p.PrintCaseFailures(nil)
	assert.Contains(t, buf.String(), "None")
}

func sampleRun() db.Run {
	created := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	completed := created.Add(2500 * time.Millisecond)
	return db.Run{
		ID:          uuid.MustParse("6f1c2a9e-3b7d-4e21-9a55-0c8d4f3e2b10"),
		Kind:        "random",
		Seed:        42,
		Algorithms:  []string{"greedy", "dp"},
		Status:      db.RunStatusCompleted,
		CreatedAt:   created,
		CompletedAt: &completed,
	}
}

func TestPrintRuns(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	running := sampleRun()
	running.ID = uuid.MustParse("0b6e7f52-1c44-4d8a-8f0e-5a9b2c3d4e5f")
	running.Status = db.RunStatusRunning
	running.CompletedAt = nil
	p.PrintRuns([]db.Run{sampleRun(), running})
	output := buf.String()

	assert.Contains(t, output, "EXPERIMENT RUNS (2)")
	assert.Contains(t, output, "6f1c2a9e-3b7d-4e21-9a55-0c8d4f3e2b10")
	assert.Contains(t, output, "0b6e7f52-1c44-4d8a-8f0e-5a9b2c3d4e5f")
	assert.Contains(t, output, "completed")
	assert.Contains(t, output, "running")
	assert.Contains(t, output, "2026-03-14 09:30:00")
}

func TestPrintRuns_Empty(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintRuns(nil)
	assert.Contains(t, buf.String(), "No runs recorded")
}

func TestPrintRun(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	run := sampleRun()
	p.PrintRun(&run, 12)
	output := buf.String()

	assert.Contains(t, output, "EXPERIMENT RUN")
	assert.Contains(t, output, "greedy, dp")
	assert.Contains(t, output, "Elapsed:    2.5s")
	assert.Contains(t, output, "Results:    12")

	buf.Reset()
	p.PrintRun(nil, 0)
	assert.Empty(t, buf.String())
}
