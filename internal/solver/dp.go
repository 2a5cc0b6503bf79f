package solver

import (
	"fmt"
	"math"
	"sort"

	"github.com/jonathan/talent-cover/internal/types"
)

// MaxDPRequirements is the largest requirement count the bitmask DP accepts.
// The table holds 2^m states.
const MaxDPRequirements = 20

// DPStats describes the table of the last DP Solve.
type DPStats struct {
	TotalStates     int     `json:"total_states"`
	ReachableStates int     `json:"reachable_states"`
	CoverageRatio   float64 `json:"coverage_ratio"`
	Requirements    int     `json:"requirements"`
	Workers         int     `json:"workers"`
	UsefulWorkers   int     `json:"useful_workers"`
	SolutionFound   bool    `json:"solution_found"`
}

// candidate is a worker reduced to what the DP needs.
type candidate struct {
	index int // position in the pool
	mask  uint32
	cost  float64
}

// backpointer records which candidate produced a state and from where.
type backpointer struct {
	cand int32 // -1 when unset
	prev uint32
}

// DP solves the instance exactly with a 0/1-knapsack over requirement subsets.
//
// dp[S] is the minimum cost of a worker set covering at least the requirement
// bits in S. Each worker is applied once by sweeping states from the full
// mask down to 0, so states it produced are never extended by it again.
// Time O(n·2^m), space O(2^m).
//
// The optimized variant first keeps only the cheapest worker per coverage
// mask and then drops every worker dominated by another that covers a
// superset of its requirements at no greater cost.
type DP struct {
	workers   []types.Worker
	reqs      types.Requirements
	optimized bool

	full   uint32
	useful []candidate
	dp     []float64
	parent []backpointer
	stats  DPStats
}

// NewDP returns a bitmask DP solver over workers and reqs.
func NewDP(workers []types.Worker, reqs types.Requirements) *DP {
	return &DP{workers: workers, reqs: reqs}
}

// NewDPOptimized returns a bitmask DP solver that prunes dominated workers
// before running the table.
func NewDPOptimized(workers []types.Worker, reqs types.Requirements) *DP {
	return &DP{workers: workers, reqs: reqs, optimized: true}
}

// Name implements Solver.
func (d *DP) Name() string {
	if d.optimized {
		return "DPSolverOptimized"
	}
	return "DPSolver"
}

// Stats returns table statistics of the last Solve.
func (d *DP) Stats() DPStats { return d.stats }

// Solve implements Solver. It fails with ErrTooManyRequirements before any
// computation when the requirement count exceeds MaxDPRequirements.
func (d *DP) Solve() (types.Solution, error) {
	m := d.reqs.Len()
	d.stats = DPStats{Requirements: m, Workers: len(d.workers)}

	if m > MaxDPRequirements {
		return types.InvalidSolution(), &Error{
			Message: fmt.Sprintf("%s supports at most %d requirements, got %d; use greedy or backtrack instead",
				d.Name(), MaxDPRequirements, m),
			Cause: ErrTooManyRequirements,
		}
	}

	if m == 0 {
		d.stats.TotalStates = 1
		d.stats.ReachableStates = 1
		d.stats.CoverageRatio = 1
		d.stats.SolutionFound = true
		return types.EmptySolution(), nil
	}

	d.full = uint32(1)<<m - 1
	d.stats.TotalStates = int(d.full) + 1

	d.useful = usefulCandidates(newReqIndex(d.reqs), d.workers)
	if d.optimized {
		d.useful = pruneDominated(d.useful)
	}
	d.stats.UsefulWorkers = len(d.useful)

	if len(d.useful) == 0 {
		return types.InvalidSolution(), nil
	}

	d.run()
	return d.extract(), nil
}

func (d *DP) run() {
	size := int(d.full) + 1
	d.dp = make([]float64, size)
	d.parent = make([]backpointer, size)
	for s := range d.dp {
		d.dp[s] = math.Inf(1)
		d.parent[s] = backpointer{cand: -1}
	}
	d.dp[0] = 0

	for k, c := range d.useful {
		for s := int(d.full); s >= 0; s-- {
			if math.IsInf(d.dp[s], 1) {
				continue
			}
			next := uint32(s) | c.mask
			if cost := d.dp[s] + c.cost; cost < d.dp[next] {
				d.dp[next] = cost
				d.parent[next] = backpointer{cand: int32(k), prev: uint32(s)}
			}
		}
	}

	for _, v := range d.dp {
		if !math.IsInf(v, 1) {
			d.stats.ReachableStates++
		}
	}
	d.stats.CoverageRatio = float64(d.stats.ReachableStates) / float64(d.stats.TotalStates)
}

// extract follows backpointers from the full mask down to 0. Every step moves
// to a strict subset, so the walk terminates.
func (d *DP) extract() types.Solution {
	if math.IsInf(d.dp[d.full], 1) {
		return types.InvalidSolution()
	}
	d.stats.SolutionFound = true

	seen := make(map[int]bool)
	var idx []int
	for s := d.full; s != 0; {
		bp := d.parent[s]
		if bp.cand < 0 {
			break
		}
		c := d.useful[bp.cand]
		if !seen[c.index] {
			seen[c.index] = true
			idx = append(idx, c.index)
		}
		s = bp.prev
	}
	sort.Ints(idx)

	selected := pick(d.workers, idx)
	return types.Solution{Selected: selected, TotalCost: Cost(selected), IsValid: true}
}

// usefulCandidates keeps the workers covering at least one requirement.
func usefulCandidates(ix *reqIndex, workers []types.Worker) []candidate {
	out := make([]candidate, 0, len(workers))
	for i := range workers {
		m := ix.mask(&workers[i])
		if m.isZero() {
			continue
		}
		out = append(out, candidate{index: i, mask: uint32(m[0]), cost: workers[i].HourlyCost})
	}
	return out
}

// mergeMasks keeps the cheapest candidate per coverage mask; on equal cost the
// earliest one wins. First-seen order of masks is preserved.
func mergeMasks(cands []candidate) []candidate {
	pos := make(map[uint32]int, len(cands))
	out := make([]candidate, 0, len(cands))
	for _, c := range cands {
		if i, ok := pos[c.mask]; ok {
			if c.cost < out[i].cost {
				out[i] = c
			}
			continue
		}
		pos[c.mask] = len(out)
		out = append(out, c)
	}
	return out
}

// pruneDominated merges identical masks, then removes every candidate A for
// which some B covers a superset of A at cost ≤ A's, strictly better in mask
// or cost. Pairwise O(k²) over the merged list.
func pruneDominated(cands []candidate) []candidate {
	merged := mergeMasks(cands)
	if len(merged) <= 1 {
		return merged
	}

	out := make([]candidate, 0, len(merged))
	for i, a := range merged {
		dominated := false
		for j, b := range merged {
			if i == j {
				continue
			}
			if dominates(b, a) {
				dominated = true
				break
			}
		}
		if !dominated {
			out = append(out, a)
		}
	}
	return out
}

func dominates(b, a candidate) bool {
	coversAll := a.mask&b.mask == a.mask
	noDearer := b.cost <= a.cost
	strictly := b.mask != a.mask || b.cost < a.cost
	return coversAll && noDearer && strictly
}
