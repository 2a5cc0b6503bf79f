package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/talent-cover/internal/db"
	"github.com/jonathan/talent-cover/internal/metrics"
)

type fakeRunReader struct {
	runs      []db.Run
	results   map[uuid.UUID][]db.SolverResult
	lastLimit int
}

func (f *fakeRunReader) ListRuns(_ context.Context, limit int) ([]db.Run, error) {
	f.lastLimit = limit
	return f.runs, nil
}

func (f *fakeRunReader) GetRun(_ context.Context, runID uuid.UUID) (*db.Run, error) {
	for i := range f.runs {
		if f.runs[i].ID == runID {
			return &f.runs[i], nil
		}
	}
	return nil, db.ErrRunNotFound
}

func (f *fakeRunReader) ListResults(_ context.Context, runID uuid.UUID) ([]db.SolverResult, error) {
	return f.results[runID], nil
}

// storedRun holds one random run with an optimal backtrack row and a
// suboptimal greedy row.
func storedRun() (*fakeRunReader, uuid.UUID) {
	runID := uuid.New()
	created := time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC)
	completed := created.Add(time.Second)

	rows := []db.SolverResult{
		db.NewSolverResult(runID, metrics.Result{
			Algorithm: "BacktrackSolver", CaseID: -1, NumWorkers: 6, Duration: time.Millisecond,
			SolutionSize: 2, Cost: 26, IsValid: true, SelectedIDs: []int{2, 3},
			Correctness: &metrics.Correctness{OracleCost: 26, OracleSize: 2, IsOptimal: true, CostRatio: 1},
		}),
		db.NewSolverResult(runID, metrics.Result{
			Algorithm: "GreedySolver", CaseID: -1, NumWorkers: 6, Duration: time.Microsecond,
			SolutionSize: 1, Cost: 30, IsValid: true, SelectedIDs: []int{1},
			Correctness: &metrics.Correctness{OracleCost: 26, OracleSize: 2, CostRatio: 30.0 / 26.0, SizeDiff: -1},
		}),
	}
	reader := &fakeRunReader{
		runs: []db.Run{{
			ID: runID, Kind: "random", Seed: 7, Algorithms: []string{"greedy", "backtrack"},
			Status: db.RunStatusCompleted, CreatedAt: created, CompletedAt: &completed,
		}},
		results: map[uuid.UUID][]db.SolverResult{runID: rows},
	}
	return reader, runID
}

func TestListRunsWith(t *testing.T) {
	reader, runID := storedRun()

	var buf bytes.Buffer
	require.NoError(t, listRunsWith(context.Background(), &buf, reader, 5))
	assert.Equal(t, 5, reader.lastLimit)
	assert.Contains(t, buf.String(), "EXPERIMENT RUNS (1)")
	assert.Contains(t, buf.String(), runID.String())
}

func TestShowRunWith(t *testing.T) {
	reader, runID := storedRun()

	var buf bytes.Buffer
	require.NoError(t, showRunWith(context.Background(), &buf, reader, runID, ""))
	output := buf.String()

	assert.Contains(t, output, "EXPERIMENT RUN")
	assert.Contains(t, output, "Results:    2")
	assert.Contains(t, output, "STORED RESULTS")
	assert.Contains(t, output, "BacktrackSolver")
	assert.Contains(t, output, "Optimal: 1/1 (100.0%)")
	assert.Contains(t, output, "Total failures: 1")
	assert.Contains(t, output, "Cost $30.00 vs optimal $26.00")
}

func TestShowRunWith_Report(t *testing.T) {
	reader, runID := storedRun()
	path := filepath.Join(t.TempDir(), "run.csv")

	var buf bytes.Buffer
	require.NoError(t, showRunWith(context.Background(), &buf, reader, runID, path))
	assert.Contains(t, buf.String(), "Report with 2 results")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], "-1,BacktrackSolver,6,"))
}

func TestShowRunWith_UnknownRun(t *testing.T) {
	reader, _ := storedRun()

	var buf bytes.Buffer
	err := showRunWith(context.Background(), &buf, reader, uuid.New(), "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, db.ErrRunNotFound))
	assert.Empty(t, buf.String())
}
