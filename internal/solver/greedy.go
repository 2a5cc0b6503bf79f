package solver

import (
	"math"

	"github.com/jonathan/talent-cover/internal/types"
)

// Greedy approximates the optimum by repeatedly hiring the most cost-effective
// worker: the one covering the most still-uncovered requirements per unit of
// hourly cost.
//
// Ties are broken deterministically: higher efficiency first, then more newly
// covered requirements, then the earliest worker in the pool. A zero-cost
// worker that covers anything has infinite efficiency and is preferred over
// every priced worker.
//
// Runs in O(n²·m). There is no optimality guarantee; weighted set cover greedy
// is within a factor H(m) ≈ ln m of the optimum.
type Greedy struct {
	workers []types.Worker
	reqs    types.Requirements
}

// NewGreedy returns a greedy solver over workers and reqs.
func NewGreedy(workers []types.Worker, reqs types.Requirements) *Greedy {
	return &Greedy{workers: workers, reqs: reqs}
}

// Name implements Solver.
func (g *Greedy) Name() string { return "GreedySolver" }

// Solve implements Solver. It never returns an error.
func (g *Greedy) Solve() (types.Solution, error) {
	if g.reqs.Len() == 0 {
		return types.EmptySolution(), nil
	}

	ix := newReqIndex(g.reqs)
	masks := ix.masks(g.workers)
	full := ix.full()
	covered := newBitset(ix.len())
	used := make([]bool, len(g.workers))
	var chosen []int

	for !covered.equal(full) {
		best := g.selectBest(masks, covered, used)
		if best < 0 {
			// Nothing left covers any open requirement
			return types.InvalidSolution(), nil
		}
		used[best] = true
		chosen = append(chosen, best)
		covered.unionInto(masks[best])
	}

	return BuildSolution(pick(g.workers, chosen), g.reqs), nil
}

// selectBest returns the index of the most efficient unused worker, or -1
// when no unused worker covers an open requirement.
func (g *Greedy) selectBest(masks []bitset, covered bitset, used []bool) int {
	best := -1
	bestEff := 0.0
	bestGain := 0

	for i := range g.workers {
		if used[i] {
			continue
		}
		gain := masks[i].gain(covered)
		if gain == 0 {
			continue
		}
		eff := efficiency(gain, g.workers[i].HourlyCost)
		if best < 0 || eff > bestEff || (eff == bestEff && gain > bestGain) {
			best, bestEff, bestGain = i, eff, gain
		}
	}
	return best
}

func efficiency(gain int, cost float64) float64 {
	if cost <= 0 {
		return math.Inf(1)
	}
	return float64(gain) / cost
}
