package solver

import (
	"math"

	"github.com/jonathan/talent-cover/internal/types"
)

// BacktrackStats counts search-tree events of the last Solve.
type BacktrackStats struct {
	Nodes             int // recursive calls entered
	CostPrunes        int // branches cut because cost reached the incumbent
	FeasibilityPrunes int // branches cut because the remaining workers cannot finish the cover
	Improvements      int // times a strictly cheaper complete cover was recorded
}

// Backtrack is an exact branch-and-bound search over the include/exclude tree
// of the workers, in the order they were given.
//
// A branch is abandoned when its cost already reaches the best complete cover
// found, or when some open requirement cannot be met by any worker still to be
// visited. A partial selection that is already a complete cover is recorded
// and never extended. Including a worker is only tried when it covers an open
// requirement, and is explored before excluding it.
//
// Worst case O(2ⁿ).
type Backtrack struct {
	workers []types.Worker
	reqs    types.Requirements

	masks  []bitset
	suffix []bitset // suffix[i] = union of masks[i:]
	full   bitset

	selected []int
	best     []int
	bestCost float64
	found    bool
	stats    BacktrackStats
}

// NewBacktrack returns a branch-and-bound solver over workers and reqs.
func NewBacktrack(workers []types.Worker, reqs types.Requirements) *Backtrack {
	return &Backtrack{workers: workers, reqs: reqs}
}

// Name implements Solver.
func (b *Backtrack) Name() string { return "BacktrackSolver" }

// Stats returns the counters of the last Solve.
func (b *Backtrack) Stats() BacktrackStats { return b.stats }

// Solve implements Solver. It never returns an error.
func (b *Backtrack) Solve() (types.Solution, error) {
	b.init()
	b.search(0, make(bitset, len(b.full)), 0)

	if !b.found {
		return types.InvalidSolution(), nil
	}
	selected := pick(b.workers, b.best)
	return types.Solution{Selected: selected, TotalCost: Cost(selected), IsValid: true}, nil
}

func (b *Backtrack) init() {
	ix := newReqIndex(b.reqs)
	b.masks = ix.masks(b.workers)
	b.full = ix.full()

	n := len(b.workers)
	b.suffix = make([]bitset, n+1)
	b.suffix[n] = newBitset(ix.len())
	for i := n - 1; i >= 0; i-- {
		b.suffix[i] = b.suffix[i+1].union(b.masks[i])
	}

	b.selected = b.selected[:0]
	b.best = nil
	b.bestCost = math.Inf(1)
	b.found = false
	b.stats = BacktrackStats{}
}

func (b *Backtrack) search(pos int, covered bitset, cost float64) {
	b.stats.Nodes++

	if cost >= b.bestCost {
		b.stats.CostPrunes++
		return
	}

	if covered.equal(b.full) {
		b.bestCost = cost
		b.best = append(b.best[:0], b.selected...)
		b.found = true
		b.stats.Improvements++
		return
	}

	if pos >= len(b.workers) {
		return
	}

	// Every open requirement must still be reachable from workers[pos:]
	if !covered.union(b.suffix[pos]).equal(b.full) {
		b.stats.FeasibilityPrunes++
		return
	}

	if b.masks[pos].gain(covered) > 0 {
		b.include(pos, covered, cost)
	}
	b.search(pos+1, covered, cost)
}

// include explores the branch with workers[pos] hired, releasing it on return.
func (b *Backtrack) include(pos int, covered bitset, cost float64) {
	b.selected = append(b.selected, pos)
	defer func() { b.selected = b.selected[:len(b.selected)-1] }()

	b.search(pos+1, covered.union(b.masks[pos]), cost+b.workers[pos].HourlyCost)
}
