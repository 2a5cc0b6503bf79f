package metrics

import (
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/jonathan/talent-cover/internal/solver"
	"github.com/jonathan/talent-cover/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSolver struct {
	name string
	sol  types.Solution
	err  error
}

func (s stubSolver) Name() string                   { return s.name }
func (s stubSolver) Solve() (types.Solution, error) { return s.sol, s.err }

func TestEvaluate_ValidSolution(t *testing.T) {
	workers := []types.Worker{
		{ID: 4, HourlyCost: 10, Skills: map[types.Skill]int{types.SkillJava: 5}},
		{ID: 2, HourlyCost: 6, Skills: map[types.Skill]int{types.SkillPython: 5}},
	}
	reqs := types.Requirements{types.SkillJava: 5, types.SkillPython: 5}

	res := Evaluate(solver.NewBacktrack(workers, reqs))
	require.NoError(t, res.Err)
	assert.Equal(t, "BacktrackSolver", res.Algorithm)
	assert.Equal(t, -1, res.CaseID)
	assert.True(t, res.IsValid)
	assert.Equal(t, 2, res.SolutionSize)
	assert.InDelta(t, 16.0, res.Cost, 1e-9)
	assert.Equal(t, []int{2, 4}, res.SelectedIDs)
	assert.Len(t, res.FormattedDuration, len("00:00:00.000"))
}

func TestEvaluate_Error(t *testing.T) {
	boom := errors.New("boom")
	res := Evaluate(stubSolver{name: "Stub", err: boom})
	assert.True(t, res.Failed())
	assert.ErrorIs(t, res.Err, boom)
	assert.False(t, res.IsValid)
	assert.True(t, math.IsInf(res.Cost, 1))
}

func TestCompare(t *testing.T) {
	valid := func(cost float64, size int) Result {
		return Result{IsValid: true, Cost: cost, SolutionSize: size}
	}
	invalid := Result{Cost: math.Inf(1)}

	tests := []struct {
		name       string
		res        Result
		oracle     Result
		optimal    bool
		ratio      float64
		errPercent float64
		sizeDiff   int
	}{
		{name: "optimal", res: valid(20, 2), oracle: valid(20, 2), optimal: true, ratio: 1},
		{name: "suboptimal", res: valid(30, 3), oracle: valid(20, 2), ratio: 1.5, errPercent: 50, sizeDiff: 1},
		{name: "both infeasible", res: invalid, oracle: invalid, optimal: true, ratio: 1},
		{name: "missed cover", res: invalid, oracle: valid(20, 2), ratio: math.Inf(1), errPercent: math.Inf(1), sizeDiff: -2},
		{name: "zero cost optimum", res: valid(0, 1), oracle: valid(0, 1), optimal: true, ratio: 1},
		{name: "zero cost missed", res: valid(5, 1), oracle: valid(0, 1), ratio: math.Inf(1), errPercent: math.Inf(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Compare(tt.res, tt.oracle)
			assert.Equal(t, tt.optimal, c.IsOptimal)
			assert.Equal(t, tt.sizeDiff, c.SizeDiff)
			if math.IsInf(tt.ratio, 1) {
				assert.True(t, math.IsInf(c.CostRatio, 1))
				assert.True(t, math.IsInf(c.CostErrorPercent, 1))
			} else {
				assert.InDelta(t, tt.ratio, c.CostRatio, 1e-9)
				assert.InDelta(t, tt.errPercent, c.CostErrorPercent, 1e-9)
			}
		})
	}
}

func TestSameCost(t *testing.T) {
	assert.True(t, SameCost(0.1+0.2, 0.3))
	assert.True(t, SameCost(math.Inf(1), math.Inf(1)))
	assert.False(t, SameCost(10, math.Inf(1)))
	assert.False(t, SameCost(10, 10.5))
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "00:00:00.000"},
		{1500 * time.Millisecond, "00:00:01.500"},
		{time.Hour + 2*time.Minute + 3*time.Second + 45*time.Millisecond, "01:02:03.045"},
		{999 * time.Microsecond, "00:00:00.000"},
		{-time.Second, "00:00:00.000"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDuration(tt.in))
	}
}

func TestCollector_Summary(t *testing.T) {
	c := NewCollector()
	oracle := Result{IsValid: true, Cost: 10, SolutionSize: 1}

	add := func(algo string, d time.Duration, res Result) {
		res.Algorithm = algo
		res.Duration = d
		if !res.Failed() {
			corr := Compare(res, oracle)
			res.Correctness = &corr
		}
		c.Add(res)
	}
	add("GreedySolver", 2*time.Millisecond, Result{IsValid: true, Cost: 10, SolutionSize: 1})
	add("GreedySolver", 4*time.Millisecond, Result{IsValid: true, Cost: 20, SolutionSize: 2})
	add("DPSolver", time.Millisecond, Result{Err: errors.New("too many"), Cost: math.Inf(1)})
	add("DPSolver", 3*time.Millisecond, Result{IsValid: true, Cost: 10, SolutionSize: 1})

	summaries := c.Summary()
	require.Len(t, summaries, 2)

	g := summaries[0]
	assert.Equal(t, "GreedySolver", g.Algorithm)
	assert.Equal(t, 2, g.Runs)
	assert.Equal(t, 2, g.Valid)
	assert.Equal(t, 2, g.Compared)
	assert.Equal(t, 1, g.Optimal)
	assert.InDelta(t, 0.5, g.OptimalRatio, 1e-9)
	assert.InDelta(t, 1.5, g.AvgCostRatio, 1e-9)
	assert.InDelta(t, 0.5, g.AvgSizeDiff, 1e-9)
	assert.InDelta(t, 15.0, g.AvgCost, 1e-9)
	assert.Equal(t, 3*time.Millisecond, g.AvgTime)
	assert.Equal(t, 2*time.Millisecond, g.MinTime)
	assert.Equal(t, 4*time.Millisecond, g.MaxTime)

	d := summaries[1]
	assert.Equal(t, "DPSolver", d.Algorithm)
	assert.Equal(t, 2, d.Runs)
	assert.Equal(t, 1, d.Errors)
	assert.Equal(t, 1, d.Compared)
	assert.InDelta(t, 1.0, d.OptimalRatio, 1e-9)

	failures := c.Failures()
	require.Len(t, failures, 1)
	assert.InDelta(t, 20.0, failures[0].Cost, 1e-9)
}

func TestCollector_ConcurrentAdd(t *testing.T) {
	c := NewCollector()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Add(Result{Algorithm: "GreedySolver"})
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, c.Len())
	assert.Empty(t, NewCollector().Summary())
}
