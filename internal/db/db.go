// Package db provides PostgreSQL storage for experiment runs and solver results.
package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/talent-cover/internal/metrics"
)

// ErrRunNotFound is returned when a run ID has no record.
var ErrRunNotFound = errors.New("run not found")

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS experiment_runs (
	id           UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	kind         TEXT NOT NULL,
	seed         BIGINT NOT NULL,
	algorithms   TEXT[] NOT NULL,
	status       TEXT NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	completed_at TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS solver_results (
	id               UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	run_id           UUID NOT NULL REFERENCES experiment_runs(id) ON DELETE CASCADE,
	algorithm        TEXT NOT NULL,
	case_id          INTEGER,
	num_workers      INTEGER NOT NULL,
	num_requirements INTEGER NOT NULL,
	duration_us      BIGINT NOT NULL,
	solution_size    INTEGER NOT NULL,
	cost             DOUBLE PRECISION,
	is_valid         BOOLEAN NOT NULL,
	selected_ids     INTEGER[] NOT NULL,
	is_optimal       BOOLEAN,
	cost_ratio       DOUBLE PRECISION,
	oracle_cost      DOUBLE PRECISION,
	size_diff        INTEGER,
	error_message    TEXT,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS solver_results_run_id_idx ON solver_results (run_id);
`

// EnsureSchema creates the experiment tables if they do not exist.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// CreateRun creates a new experiment run record and returns its ID
func (db *DB) CreateRun(ctx context.Context, kind string, seed int64, algorithms []string) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO experiment_runs (kind, seed, algorithms, status)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		kind, seed, algorithms, RunStatusRunning,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create run: %w", err)
	}
	return id, nil
}

// CompleteRun marks an experiment run as finished with the given status
func (db *DB) CompleteRun(ctx context.Context, runID uuid.UUID, status string) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE experiment_runs SET status = $1, completed_at = NOW() WHERE id = $2`,
		status, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrRunNotFound
	}
	return nil
}

// GetRun retrieves a run by ID
func (db *DB) GetRun(ctx context.Context, runID uuid.UUID) (*Run, error) {
	var run Run
	err := db.pool.QueryRow(ctx,
		`SELECT id, kind, seed, algorithms, status, created_at, completed_at
		 FROM experiment_runs WHERE id = $1`,
		runID,
	).Scan(&run.ID, &run.Kind, &run.Seed, &run.Algorithms, &run.Status, &run.CreatedAt, &run.CompletedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return &run, nil
}

// ListRuns retrieves recent experiment runs
func (db *DB) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.pool.Query(ctx,
		`SELECT id, kind, seed, algorithms, status, created_at, completed_at
		 FROM experiment_runs ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.Kind, &run.Seed, &run.Algorithms, &run.Status, &run.CreatedAt, &run.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// SaveResult stores one solver measurement for a run
func (db *DB) SaveResult(ctx context.Context, runID uuid.UUID, res metrics.Result) error {
	r := NewSolverResult(runID, res)
	_, err := db.pool.Exec(ctx,
		`INSERT INTO solver_results (run_id, algorithm, case_id, num_workers, num_requirements,
		     duration_us, solution_size, cost, is_valid, selected_ids, is_optimal, cost_ratio,
		     oracle_cost, size_diff, error_message)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		r.RunID, r.Algorithm, r.CaseID, r.NumWorkers, r.NumRequirements,
		r.DurationUs, r.SolutionSize, r.Cost, r.IsValid, r.SelectedIDs, r.IsOptimal, r.CostRatio,
		r.OracleCost, r.SizeDiff, r.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("failed to save result: %w", err)
	}
	return nil
}

// ListResults retrieves every result of a run in insertion order
func (db *DB) ListResults(ctx context.Context, runID uuid.UUID) ([]SolverResult, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, run_id, algorithm, case_id, num_workers, num_requirements, duration_us,
		        solution_size, cost, is_valid, selected_ids, is_optimal, cost_ratio,
		        oracle_cost, size_diff, error_message, created_at
		 FROM solver_results WHERE run_id = $1 ORDER BY created_at, id`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	defer rows.Close()

	var results []SolverResult
	for rows.Next() {
		var r SolverResult
		if err := rows.Scan(&r.ID, &r.RunID, &r.Algorithm, &r.CaseID, &r.NumWorkers, &r.NumRequirements, &r.DurationUs,
			&r.SolutionSize, &r.Cost, &r.IsValid, &r.SelectedIDs, &r.IsOptimal, &r.CostRatio,
			&r.OracleCost, &r.SizeDiff, &r.ErrorMessage, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
