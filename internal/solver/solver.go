// Package solver finds minimum-cost sets of workers whose combined skills cover
// a client's requirements (a weighted set cover).
//
// Four strategies share one contract: an exact branch-and-bound search, an
// exact bitmask dynamic program (plus a dominance-pruned variant), a greedy
// approximation and a brute-force oracle used as a correctness reference.
// Every solver is built over an immutable worker pool and requirement set and
// returns a types.Solution. Infeasibility is not an error: it is reported as
// types.InvalidSolution(). Errors are reserved for precondition failures.
package solver

import (
	"fmt"

	"github.com/jonathan/talent-cover/internal/types"
)

// Solver solves one fixed (workers, requirements) instance.
type Solver interface {
	// Name identifies the algorithm for reporting.
	Name() string
	// Solve runs the search to completion.
	Solve() (types.Solution, error)
}

// Registered algorithm names accepted by New.
const (
	AlgorithmGreedy      = "greedy"
	AlgorithmBacktrack   = "backtrack"
	AlgorithmDP          = "dp"
	AlgorithmDPOptimized = "dp-optimized"
	AlgorithmOracle      = "oracle"
)

// Algorithms returns every registered algorithm name.
func Algorithms() []string {
	return []string{AlgorithmGreedy, AlgorithmBacktrack, AlgorithmDP, AlgorithmDPOptimized, AlgorithmOracle}
}

// New builds the solver registered under algorithm.
func New(algorithm string, workers []types.Worker, reqs types.Requirements) (Solver, error) {
	switch algorithm {
	case AlgorithmGreedy:
		return NewGreedy(workers, reqs), nil
	case AlgorithmBacktrack:
		return NewBacktrack(workers, reqs), nil
	case AlgorithmDP:
		return NewDP(workers, reqs), nil
	case AlgorithmDPOptimized:
		return NewDPOptimized(workers, reqs), nil
	case AlgorithmOracle:
		return NewOracle(workers, reqs), nil
	default:
		return nil, &Error{
			Message: fmt.Sprintf("algorithm %q (known: %v)", algorithm, Algorithms()),
			Cause:   ErrUnknownAlgorithm,
		}
	}
}

// Covers reports whether w offers skill at level or above.
func Covers(w *types.Worker, skill types.Skill, level int) bool {
	return w.Has(skill, level)
}

// CoveredSkills returns the required skills satisfied by at least one worker in subset.
func CoveredSkills(subset []*types.Worker, reqs types.Requirements) map[types.Skill]bool {
	covered := make(map[types.Skill]bool, len(reqs))
	for skill, level := range reqs {
		for _, w := range subset {
			if Covers(w, skill, level) {
				covered[skill] = true
				break
			}
		}
	}
	return covered
}

// IsCompleteCover reports whether subset satisfies every requirement.
func IsCompleteCover(subset []*types.Worker, reqs types.Requirements) bool {
	return len(CoveredSkills(subset, reqs)) == len(reqs)
}

// UncoveredRequirements returns the requirements subset does not yet satisfy.
func UncoveredRequirements(subset []*types.Worker, reqs types.Requirements) types.Requirements {
	covered := CoveredSkills(subset, reqs)
	out := make(types.Requirements)
	for skill, level := range reqs {
		if !covered[skill] {
			out[skill] = level
		}
	}
	return out
}

// Cost sums the hourly cost of subset.
func Cost(subset []*types.Worker) float64 {
	total := 0.0
	for _, w := range subset {
		total += w.HourlyCost
	}
	return total
}

// BuildSolution wraps subset into a Solution, returning the invalid sentinel
// when it is not a complete cover.
func BuildSolution(subset []*types.Worker, reqs types.Requirements) types.Solution {
	if !IsCompleteCover(subset, reqs) {
		return types.InvalidSolution()
	}
	selected := make([]*types.Worker, len(subset))
	copy(selected, subset)
	return types.Solution{Selected: selected, TotalCost: Cost(selected), IsValid: true}
}

// pick resolves worker indexes into pointers into the pool.
func pick(workers []types.Worker, idx []int) []*types.Worker {
	out := make([]*types.Worker, len(idx))
	for i, j := range idx {
		out[i] = &workers[j]
	}
	return out
}
