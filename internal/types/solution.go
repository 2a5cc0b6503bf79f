package types

import (
	"math"
	"sort"
)

// Solution is the outcome of one solve: the selected workers, their total
// hourly cost and whether they cover every requirement.
//
// Selected points into the worker slice the solver was built from.
type Solution struct {
	Selected  []*Worker
	TotalCost float64
	IsValid   bool
}

// InvalidSolution is the sentinel for "no feasible cover found".
func InvalidSolution() Solution {
	return Solution{Selected: nil, TotalCost: math.Inf(1), IsValid: false}
}

// EmptySolution is the valid zero-cost solution for an empty requirement set.
func EmptySolution() Solution {
	return Solution{Selected: nil, TotalCost: 0, IsValid: true}
}

// IDs returns the selected worker IDs in ascending order.
func (s Solution) IDs() []int {
	ids := make([]int, 0, len(s.Selected))
	for _, w := range s.Selected {
		ids = append(ids, w.ID)
	}
	sort.Ints(ids)
	return ids
}

// Record converts the solution into its serialisable form. Infeasible
// solutions carry a nil cost since JSON has no infinity.
func (s Solution) Record() SolutionRecord {
	rec := SolutionRecord{SelectedIDs: s.IDs(), IsValid: s.IsValid}
	if !math.IsInf(s.TotalCost, 0) {
		cost := s.TotalCost
		rec.TotalCost = &cost
	}
	return rec
}

// SolutionRecord is the JSON representation of a Solution.
type SolutionRecord struct {
	Algorithm   string   `json:"algorithm,omitempty"`
	SelectedIDs []int    `json:"selected_ids"`
	TotalCost   *float64 `json:"total_cost"`
	IsValid     bool     `json:"is_valid"`
}
