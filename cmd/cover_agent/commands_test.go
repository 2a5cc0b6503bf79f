package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/talent-cover/internal/cases"
	"github.com/jonathan/talent-cover/internal/config"
	"github.com/jonathan/talent-cover/internal/experiment"
	"github.com/jonathan/talent-cover/internal/metrics"
	"github.com/jonathan/talent-cover/internal/solver"
	"github.com/jonathan/talent-cover/internal/types"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// scenarioInstance: the cheapest cover pairs the two specialists.
func scenarioInstance() types.Instance {
	return types.Instance{
		Workers: []types.Worker{
			{ID: 1, Name: "Ana", HourlyCost: 30, Skills: map[types.Skill]int{types.SkillPython: 8, types.SkillJava: 7}},
			{ID: 2, Name: "Ben", HourlyCost: 12, Skills: map[types.Skill]int{types.SkillPython: 8}},
			{ID: 3, Name: "Caro", HourlyCost: 14, Skills: map[types.Skill]int{types.SkillJava: 9}},
		},
		Requirements: types.Requirements{types.SkillPython: 6, types.SkillJava: 6},
	}
}

func TestSolveWith_SingleAlgorithm(t *testing.T) {
	var buf bytes.Buffer
	records, err := solveWith(&buf, scenarioInstance(), []string{solver.AlgorithmDP}, 20, true)
	require.NoError(t, err)

	require.Len(t, records, 1)
	assert.Equal(t, "DPSolver", records[0].Algorithm)
	assert.Equal(t, []int{2, 3}, records[0].SelectedIDs)
	require.NotNil(t, records[0].TotalCost)
	assert.InDelta(t, 26.0, *records[0].TotalCost, 1e-9)

	output := buf.String()
	assert.Contains(t, output, "INSTANCE")
	assert.Contains(t, output, "DPSOLVER")
	assert.Contains(t, output, "$26.00/h")
}

func TestSolveWith_All(t *testing.T) {
	var buf bytes.Buffer
	records, err := solveWith(&buf, scenarioInstance(), solver.Algorithms(), 20, false)
	require.NoError(t, err)

	require.Len(t, records, len(solver.Algorithms()))
	for _, rec := range records {
		assert.True(t, rec.IsValid, rec.Algorithm)
	}
	assert.Contains(t, buf.String(), "SOLVER COMPARISON")
	assert.NotContains(t, buf.String(), "INSTANCE")
}

func TestSolveWith_OracleLimit(t *testing.T) {
	var buf bytes.Buffer
	records, err := solveWith(&buf, scenarioInstance(), solver.Algorithms(), 2, false)
	require.NoError(t, err)

	assert.Len(t, records, len(solver.Algorithms())-1)
	assert.Contains(t, buf.String(), "Skipping oracle")
}

func TestSolveWith_UnknownAlgorithm(t *testing.T) {
	_, err := solveWith(io.Discard, scenarioInstance(), []string{"annealing"}, 20, false)
	assert.ErrorIs(t, err, solver.ErrUnknownAlgorithm)
}

func TestSolveWith_DPCeiling(t *testing.T) {
	in := scenarioInstance()
	for i := 0; i < solver.MaxDPRequirements+1; i++ {
		in.Requirements[types.Skill(string(rune('a'+i)))] = 1
	}
	_, err := solveWith(io.Discard, in, []string{solver.AlgorithmDP}, 20, false)
	assert.ErrorIs(t, err, solver.ErrTooManyRequirements)
}

func TestGenerateAndValidate(t *testing.T) {
	out := filepath.Join(t.TempDir(), "data", "cases.json")

	var buf bytes.Buffer
	err := generateSuite(context.Background(), &buf, []cases.Category{cases.CategorySimple}, out)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Successfully generated 15 test cases")

	f, err := cases.Load(out)
	require.NoError(t, err)
	require.Len(t, f.Cases, 15)

	opts := experiment.DefaultOptions()
	opts.Algorithms = []string{solver.AlgorithmGreedy, solver.AlgorithmBacktrack, solver.AlgorithmDPOptimized}

	buf.Reset()
	require.NoError(t, validateCasesWith(context.Background(), &buf, discardLogger(), f, opts, ""))
	assert.Contains(t, buf.String(), "VALIDATION: 15 CASES")
	assert.Contains(t, buf.String(), "Validation passed")
}

func TestValidateCasesWith_DetectsWrongOptimum(t *testing.T) {
	c, err := cases.Solve(0, cases.CategorySimple, scenarioInstance())
	require.NoError(t, err)
	wrong := 1.0
	c.OptimalCost = &wrong

	opts := experiment.DefaultOptions()
	opts.Algorithms = []string{solver.AlgorithmBacktrack}

	var buf bytes.Buffer
	err = validateCasesWith(context.Background(), &buf, discardLogger(), cases.NewFile([]cases.Case{c}, "OracleSolver"), opts, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 exact results")
	assert.Contains(t, buf.String(), "FAILURES")
}

func TestValidateCasesWith_WritesReportOnFailure(t *testing.T) {
	c, err := cases.Solve(4, cases.CategorySimple, scenarioInstance())
	require.NoError(t, err)
	wrong := 1.0
	c.OptimalCost = &wrong

	opts := experiment.DefaultOptions()
	opts.Algorithms = []string{solver.AlgorithmGreedy, solver.AlgorithmBacktrack}
	path := filepath.Join(t.TempDir(), "reports", "validation_report.csv")

	var buf bytes.Buffer
	err = validateCasesWith(context.Background(), &buf, discardLogger(), cases.NewFile([]cases.Case{c}, "OracleSolver"), opts, path)
	require.Error(t, err)
	assert.Contains(t, buf.String(), "Report with 2 results written to")

	data, err := os.Open(path)
	require.NoError(t, err)
	defer data.Close()
	rows, err := csv.NewReader(data).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, metrics.ReportHeader, rows[0])

	algorithms := []string{rows[1][1], rows[2][1]}
	assert.ElementsMatch(t, []string{"GreedySolver", "BacktrackSolver"}, algorithms)
	for _, row := range rows[1:] {
		assert.Equal(t, "4", row[0])
		assert.Equal(t, "false", row[9], "no result matches a cost of 1")
	}
}

func TestLoadCases_UserSchema(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "cases.json")
	c, err := cases.Solve(0, cases.CategorySimple, scenarioInstance())
	require.NoError(t, err)
	require.NoError(t, cases.Save(out, cases.NewFile([]cases.Case{c}, "OracleSolver")))

	loose := filepath.Join(dir, "loose.json")
	require.NoError(t, os.WriteFile(loose, []byte(`{"type": "object", "required": ["test_cases"]}`), 0644))
	f, err := loadCases(out, loose)
	require.NoError(t, err)
	assert.Len(t, f.Cases, 1)

	strict := filepath.Join(dir, "strict.json")
	require.NoError(t, os.WriteFile(strict, []byte(`{"type": "object", "required": ["owner"]}`), 0644))
	_, err = loadCases(out, strict)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not match")
	assert.Contains(t, err.Error(), "owner")

	f, err = loadCases(out, "")
	require.NoError(t, err)
	assert.Len(t, f.Cases, 1)
}

func TestSaveReport_ExperimentResults(t *testing.T) {
	opts := experiment.DefaultOptions()
	opts.Algorithms = []string{solver.AlgorithmGreedy, solver.AlgorithmDP}
	runner, err := experiment.NewRunner(opts, discardLogger(), nil)
	require.NoError(t, err)
	report, err := runner.RunRandom(context.Background(), []int{5}, 3)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "experiment.csv")
	var buf bytes.Buffer
	require.NoError(t, saveReport(&buf, path, report.Metrics.Results()))
	assert.Contains(t, buf.String(), "Report with 6 results")

	data, err := os.Open(path)
	require.NoError(t, err)
	defer data.Close()
	rows, err := csv.NewReader(data).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 7)
	for _, row := range rows[1:] {
		assert.Equal(t, "-1", row[0])
		assert.Equal(t, "5", row[2])
		assert.NotEmpty(t, row[9], "pools within the oracle limit are compared")
	}
}

func TestPrintReport(t *testing.T) {
	opts := experiment.DefaultOptions()
	opts.Algorithms = []string{solver.AlgorithmGreedy}
	runner, err := experiment.NewRunner(opts, discardLogger(), nil)
	require.NoError(t, err)

	report, err := runner.RunRandom(context.Background(), []int{4}, 2)
	require.NoError(t, err)

	var buf bytes.Buffer
	printReport(&buf, report, true)
	assert.Contains(t, buf.String(), "EXPERIMENT: 2 INSTANCES")
	assert.Contains(t, buf.String(), "GreedySolver")
	assert.Contains(t, buf.String(), report.RunID.String())
}

func TestFinish(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://env")

	cfg, err := finish(config.Config{Repetitions: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Repetitions)
	assert.Equal(t, config.Defaults().Sizes, cfg.Sizes)
	assert.Equal(t, "postgres://env", cfg.DatabaseURL)

	cfg, err = finish(config.Config{DatabaseURL: "postgres://flag"})
	require.NoError(t, err)
	assert.Equal(t, "postgres://flag", cfg.DatabaseURL)

	_, err = finish(config.Config{Algorithms: []string{"annealing"}})
	assert.Error(t, err)
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.json")
	require.NoError(t, writeJSON(path, map[string]int{"a": 1}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got map[string]int
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, 1, got["a"])
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"solve", "generate", "validate", "experiment", "runs"} {
		assert.True(t, names[want], "missing command %s", want)
	}
}
