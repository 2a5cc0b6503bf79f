package db

import (
	"errors"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/talent-cover/internal/metrics"
)

// Run status values
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// Run represents an experiment run record
type Run struct {
	ID          uuid.UUID  `json:"id"`
	Kind        string     `json:"kind"`
	Seed        int64      `json:"seed"`
	Algorithms  []string   `json:"algorithms"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// SolverResult represents one stored solver measurement. Nullable columns
// map to pointers: CaseID for random instances, Cost for infeasible results,
// the correctness columns when no reference was available.
type SolverResult struct {
	ID              uuid.UUID `json:"id"`
	RunID           uuid.UUID `json:"run_id"`
	Algorithm       string    `json:"algorithm"`
	CaseID          *int      `json:"case_id,omitempty"`
	NumWorkers      int       `json:"num_workers"`
	NumRequirements int       `json:"num_requirements"`
	DurationUs      int64     `json:"duration_us"`
	SolutionSize    int       `json:"solution_size"`
	Cost            *float64  `json:"cost,omitempty"`
	IsValid         bool      `json:"is_valid"`
	SelectedIDs     []int     `json:"selected_ids"`
	IsOptimal       *bool     `json:"is_optimal,omitempty"`
	CostRatio       *float64  `json:"cost_ratio,omitempty"`
	OracleCost      *float64  `json:"oracle_cost,omitempty"`
	SizeDiff        *int      `json:"size_diff,omitempty"`
	ErrorMessage    *string   `json:"error_message,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// NewSolverResult converts a measurement into its row form.
func NewSolverResult(runID uuid.UUID, res metrics.Result) SolverResult {
	r := SolverResult{
		RunID:           runID,
		Algorithm:       res.Algorithm,
		NumWorkers:      res.NumWorkers,
		NumRequirements: res.NumRequirements,
		DurationUs:      res.Duration.Microseconds(),
		SolutionSize:    res.SolutionSize,
		IsValid:         res.IsValid,
		SelectedIDs:     res.SelectedIDs,
	}
	if r.SelectedIDs == nil {
		r.SelectedIDs = []int{}
	}
	if res.CaseID >= 0 {
		id := res.CaseID
		r.CaseID = &id
	}
	if finite(res.Cost) {
		cost := res.Cost
		r.Cost = &cost
	}
	if res.Err != nil {
		msg := res.Err.Error()
		r.ErrorMessage = &msg
	}
	if c := res.Correctness; c != nil {
		optimal := c.IsOptimal
		r.IsOptimal = &optimal
		if finite(c.CostRatio) {
			ratio := c.CostRatio
			r.CostRatio = &ratio
		}
		if finite(c.OracleCost) {
			oracle := c.OracleCost
			r.OracleCost = &oracle
		}
		diff := c.SizeDiff
		r.SizeDiff = &diff
	}
	return r
}

// Result converts a stored row back into a measurement. NULL costs and
// ratios come back as +Inf, and a NULL case id as -1.
func (r SolverResult) Result() metrics.Result {
	d := time.Duration(r.DurationUs) * time.Microsecond
	res := metrics.Result{
		Algorithm:         r.Algorithm,
		CaseID:            -1,
		NumWorkers:        r.NumWorkers,
		NumRequirements:   r.NumRequirements,
		Duration:          d,
		FormattedDuration: metrics.FormatDuration(d),
		SolutionSize:      r.SolutionSize,
		Cost:              orInf(r.Cost),
		IsValid:           r.IsValid,
		SelectedIDs:       r.SelectedIDs,
	}
	if r.CaseID != nil {
		res.CaseID = *r.CaseID
	}
	if r.ErrorMessage != nil {
		res.Err = errors.New(*r.ErrorMessage)
	}
	if r.IsOptimal != nil {
		c := &metrics.Correctness{
			OracleCost: orInf(r.OracleCost),
			IsOptimal:  *r.IsOptimal,
			CostRatio:  orInf(r.CostRatio),
		}
		if r.SizeDiff != nil {
			c.SizeDiff = *r.SizeDiff
			c.OracleSize = r.SolutionSize - c.SizeDiff
		}
		switch {
		case !finite(c.CostRatio):
			c.CostErrorPercent = math.Inf(1)
		case finite(res.Cost) && finite(c.OracleCost) && c.OracleCost > 0:
			c.CostErrorPercent = math.Abs(res.Cost-c.OracleCost) / c.OracleCost * 100
		}
		res.Correctness = c
	}
	return res
}

func orInf(f *float64) float64 {
	if f == nil {
		return math.Inf(1)
	}
	return *f
}

func finite(f float64) bool {
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}
