package solver

import (
	"math"

	"github.com/jonathan/talent-cover/internal/types"
)

// Oracle enumerates every non-empty subset of the pool, smallest subsets
// first and lexicographically by pool position within a size, and keeps the
// first cheapest complete cover. It is exponential in the pool size and only
// meant to validate the other solvers on small instances.
type Oracle struct {
	workers   []types.Worker
	reqs      types.Requirements
	evaluated int
}

// NewOracle returns a brute-force reference solver over workers and reqs.
func NewOracle(workers []types.Worker, reqs types.Requirements) *Oracle {
	return &Oracle{workers: workers, reqs: reqs}
}

// Name implements Solver.
func (o *Oracle) Name() string { return "OracleSolver" }

// Evaluated returns how many subsets the last Solve examined.
func (o *Oracle) Evaluated() int { return o.evaluated }

// Solve implements Solver. It never returns an error.
func (o *Oracle) Solve() (types.Solution, error) {
	o.evaluated = 0
	if o.reqs.Len() == 0 {
		return types.EmptySolution(), nil
	}

	ix := newReqIndex(o.reqs)
	masks := ix.masks(o.workers)
	full := ix.full()

	n := len(o.workers)
	bestCost := math.Inf(1)
	var best []int
	covered := make(bitset, len(full))

	for r := 1; r <= n; r++ {
		comb := make([]int, r)
		for i := range comb {
			comb[i] = i
		}
		for {
			o.evaluated++
			clear(covered)
			cost := 0.0
			for _, i := range comb {
				covered.unionInto(masks[i])
				cost += o.workers[i].HourlyCost
			}
			if cost < bestCost && covered.equal(full) {
				bestCost = cost
				best = append([]int(nil), comb...)
			}

			if !nextCombination(comb, n) {
				break
			}
		}
	}

	if best == nil {
		return types.InvalidSolution(), nil
	}
	return BuildSolution(pick(o.workers, best), o.reqs), nil
}

// nextCombination advances comb to the next r-combination of [0,n) in
// lexicographic order, reporting false after the last one.
func nextCombination(comb []int, n int) bool {
	r := len(comb)
	i := r - 1
	for i >= 0 && comb[i] == n-r+i {
		i--
	}
	if i < 0 {
		return false
	}
	comb[i]++
	for j := i + 1; j < r; j++ {
		comb[j] = comb[j-1] + 1
	}
	return true
}
