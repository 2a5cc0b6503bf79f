package solver

import "github.com/jonathan/talent-cover/internal/types"

// reqIndex assigns every requirement a stable bit position (canonical skill
// order) for the duration of one solve.
type reqIndex struct {
	skills []types.Skill
	levels []int
}

func newReqIndex(reqs types.Requirements) *reqIndex {
	skills := reqs.Skills()
	levels := make([]int, len(skills))
	for i, s := range skills {
		levels[i] = reqs[s]
	}
	return &reqIndex{skills: skills, levels: levels}
}

func (ix *reqIndex) len() int {
	return len(ix.skills)
}

// mask returns the requirement positions w satisfies.
func (ix *reqIndex) mask(w *types.Worker) bitset {
	m := newBitset(ix.len())
	for i, s := range ix.skills {
		if w.Has(s, ix.levels[i]) {
			m.set(i)
		}
	}
	return m
}

func (ix *reqIndex) masks(workers []types.Worker) []bitset {
	out := make([]bitset, len(workers))
	for i := range workers {
		out[i] = ix.mask(&workers[i])
	}
	return out
}

func (ix *reqIndex) full() bitset {
	m := newBitset(ix.len())
	for i := range ix.skills {
		m.set(i)
	}
	return m
}
