// Package metrics times solver runs and scores them against the oracle.
package metrics

import (
	"fmt"
	"math"
	"time"

	"github.com/jonathan/talent-cover/internal/solver"
	"github.com/jonathan/talent-cover/internal/types"
)

// costTolerance absorbs float summation order when comparing costs.
const costTolerance = 1e-9

// Result is the measurement of one Solve call.
type Result struct {
	Algorithm         string
	CaseID            int // -1 for randomly generated instances
	NumWorkers        int
	NumRequirements   int
	Duration          time.Duration
	FormattedDuration string
	SolutionSize      int
	Cost              float64 // +Inf when no cover was found
	IsValid           bool
	SelectedIDs       []int
	Err               error
	// Correctness is set once the result has been compared with the oracle.
	Correctness *Correctness
}

// Failed reports whether the solver returned an error.
func (r *Result) Failed() bool { return r.Err != nil }

// Correctness compares a result with the oracle's on the same instance.
type Correctness struct {
	OracleCost       float64
	OracleSize       int
	IsOptimal        bool
	CostRatio        float64 // solver cost / oracle cost
	CostErrorPercent float64
	SizeDiff         int // solver size - oracle size
}

// Evaluate runs s once and records its timing and outcome.
func Evaluate(s solver.Solver) Result {
	_, res := Run(s)
	return res
}

// Run is Evaluate that also returns the solution itself.
func Run(s solver.Solver) (types.Solution, Result) {
	start := time.Now()
	sol, err := s.Solve()
	elapsed := time.Since(start)

	res := Result{
		Algorithm:         s.Name(),
		CaseID:            -1,
		Duration:          elapsed,
		FormattedDuration: FormatDuration(elapsed),
		Err:               err,
	}
	if err != nil {
		res.Cost = math.Inf(1)
		return types.InvalidSolution(), res
	}
	res.SolutionSize = len(sol.Selected)
	res.Cost = sol.TotalCost
	res.IsValid = sol.IsValid
	res.SelectedIDs = sol.IDs()
	return sol, res
}

// Compare scores res against the oracle's result. Two infeasible results
// agree; a feasibility mismatch is never optimal and has an infinite ratio.
func Compare(res, oracle Result) Correctness {
	c := Correctness{
		OracleCost: oracle.Cost,
		OracleSize: oracle.SolutionSize,
		SizeDiff:   res.SolutionSize - oracle.SolutionSize,
	}

	switch {
	case !res.IsValid && !oracle.IsValid:
		c.IsOptimal = true
		c.CostRatio = 1
	case res.IsValid != oracle.IsValid:
		c.CostRatio = math.Inf(1)
		c.CostErrorPercent = math.Inf(1)
	default:
		c.IsOptimal = SameCost(res.Cost, oracle.Cost)
		switch {
		case oracle.Cost > 0:
			c.CostRatio = res.Cost / oracle.Cost
			c.CostErrorPercent = math.Abs(res.Cost-oracle.Cost) / oracle.Cost * 100
		case c.IsOptimal:
			c.CostRatio = 1
		default:
			c.CostRatio = math.Inf(1)
			c.CostErrorPercent = math.Inf(1)
		}
	}
	return c
}

// SameCost compares two costs with a tolerance relative to their magnitude.
func SameCost(a, b float64) bool {
	if math.IsInf(a, 1) || math.IsInf(b, 1) {
		return math.IsInf(a, 1) && math.IsInf(b, 1)
	}
	return math.Abs(a-b) <= costTolerance*math.Max(1, math.Abs(b))
}

// FormatDuration renders d as HH:MM:SS.mmm.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	ms := d.Milliseconds()
	h := ms / 3_600_000
	m := ms / 60_000 % 60
	s := ms / 1000 % 60
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms%1000)
}
