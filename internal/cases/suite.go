package cases

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/talent-cover/internal/generator"
	"github.com/jonathan/talent-cover/internal/solver"
	"github.com/jonathan/talent-cover/internal/types"
)

// Category groups cases by shape.
type Category string

const (
	CategorySimple  Category = "simple"
	CategoryMedium  Category = "medium"
	CategoryComplex Category = "complex"
	CategoryEdge    Category = "edge"
	CategorySpecial Category = "special"
)

// Categories returns every category in suite order.
func Categories() []Category {
	return []Category{CategorySimple, CategoryMedium, CategoryComplex, CategoryEdge, CategorySpecial}
}

// ParseCategories parses comma-separated category names. An empty string
// selects every category.
func ParseCategories(s string) ([]Category, error) {
	if strings.TrimSpace(s) == "" {
		return Categories(), nil
	}
	var out []Category
	for _, part := range strings.Split(s, ",") {
		c := Category(strings.ToLower(strings.TrimSpace(part)))
		if _, ok := suitePlan[c]; !ok {
			return nil, fmt.Errorf("unknown category %q (known: %v)", part, Categories())
		}
		out = append(out, c)
	}
	return out, nil
}

// batch describes Count instances drawn with consecutive seeds from Seed.
type batch struct {
	Seed      int64
	Count     int
	Workers   int
	MinSkills int
	MaxSkills int
	MinReq    int
	MaxReq    int
	MinLevel  int
	MaxLevel  int
	MinCost   int // 0 keeps the default cost range
	MaxCost   int
	// Mixed draws half the pool as experts (levels up to 10) and half as
	// beginners (levels up to 3).
	Mixed bool
}

var suitePlan = map[Category][]batch{
	CategorySimple: {
		{Seed: 0, Count: 5, Workers: 3, MinSkills: 1, MaxSkills: 2, MinReq: 1, MaxReq: 1, MinLevel: 1, MaxLevel: 5},
		{Seed: 100, Count: 5, Workers: 5, MinSkills: 2, MaxSkills: 3, MinReq: 2, MaxReq: 2, MinLevel: 1, MaxLevel: 6},
		{Seed: 200, Count: 5, Workers: 8, MinSkills: 2, MaxSkills: 4, MinReq: 3, MaxReq: 3, MinLevel: 2, MaxLevel: 7},
	},
	CategoryMedium: {
		{Seed: 300, Count: 5, Workers: 10, MinSkills: 2, MaxSkills: 4, MinReq: 2, MaxReq: 4, MinLevel: 1, MaxLevel: 7},
		{Seed: 400, Count: 5, Workers: 13, MinSkills: 3, MaxSkills: 5, MinReq: 3, MaxReq: 5, MinLevel: 2, MaxLevel: 8},
		{Seed: 500, Count: 5, Workers: 16, MinSkills: 3, MaxSkills: 6, MinReq: 4, MaxReq: 5, MinLevel: 2, MaxLevel: 8},
	},
	CategoryComplex: {
		{Seed: 600, Count: 4, Workers: 18, MinSkills: 3, MaxSkills: 6, MinReq: 4, MaxReq: 5, MinLevel: 2, MaxLevel: 9},
		{Seed: 700, Count: 4, Workers: 22, MinSkills: 4, MaxSkills: 7, MinReq: 5, MaxReq: 7, MinLevel: 3, MaxLevel: 9},
		{Seed: 800, Count: 3, Workers: 25, MinSkills: 5, MaxSkills: 7, MinReq: 6, MaxReq: 7, MinLevel: 3, MaxLevel: 10},
	},
	CategoryEdge: {
		// single-skill workers against one mid-level requirement
		{Seed: 900, Count: 3, Workers: 7, MinSkills: 1, MaxSkills: 1, MinReq: 1, MaxReq: 1, MinLevel: 5, MaxLevel: 5},
		// more requirements than a small pool can usually meet
		{Seed: 950, Count: 3, Workers: 5, MinSkills: 2, MaxSkills: 3, MinReq: 6, MaxReq: 7, MinLevel: 1, MaxLevel: 10},
		// every worker knows every skill
		{Seed: 1000, Count: 3, Workers: 8, MinSkills: 7, MaxSkills: 7, MinReq: 3, MaxReq: 5, MinLevel: 1, MaxLevel: 5},
		{Seed: 1050, Count: 3, Workers: 12, MinSkills: 3, MaxSkills: 6, MinReq: 3, MaxReq: 5, MinLevel: 8, MaxLevel: 10},
		{Seed: 1100, Count: 3, Workers: 10, MinSkills: 2, MaxSkills: 4, MinReq: 2, MaxReq: 4, MinLevel: 1, MaxLevel: 3},
	},
	CategorySpecial: {
		{Seed: 1200, Count: 3, Workers: 10, MinSkills: 2, MaxSkills: 5, MinReq: 2, MaxReq: 4, MinLevel: 1, MaxLevel: 7, MinCost: 5, MaxCost: 200},
		{Seed: 1300, Count: 3, Workers: 10, MinSkills: 2, MaxSkills: 5, MinReq: 2, MaxReq: 4, MinLevel: 1, MaxLevel: 7, MinCost: 50, MaxCost: 55},
		{Seed: 1400, Count: 3, Workers: 12, MinSkills: 1, MaxSkills: 2, MinReq: 4, MaxReq: 6, MinLevel: 1, MaxLevel: 8, MinCost: 10, MaxCost: 100},
		{Seed: 1500, Count: 3, Workers: 8, MinSkills: 5, MaxSkills: 7, MinReq: 3, MaxReq: 5, MinLevel: 3, MaxLevel: 7, MinCost: 10, MaxCost: 100},
		{Seed: 1600, Count: 3, Workers: 12, MinSkills: 2, MaxSkills: 4, MinReq: 3, MaxReq: 5, MinLevel: 2, MaxLevel: 8, MinCost: 10, MaxCost: 100, Mixed: true},
	},
}

// BuildSuite generates the reference cases for the given categories and
// solves each one with the oracle. Case IDs are assigned in order from 0.
// The result is deterministic for a given category list.
func BuildSuite(ctx context.Context, categories []Category) (*File, error) {
	var out []Case
	for _, cat := range categories {
		plan, ok := suitePlan[cat]
		if !ok {
			return nil, fmt.Errorf("unknown category %q", cat)
		}
		for _, b := range plan {
			for i := 0; i < b.Count; i++ {
				if err := ctx.Err(); err != nil {
					return nil, err
				}
				in, err := b.instance(b.Seed + int64(i))
				if err != nil {
					return nil, fmt.Errorf("category %s: %w", cat, err)
				}
				c, err := Solve(len(out), cat, in)
				if err != nil {
					return nil, err
				}
				out = append(out, c)
			}
		}
	}
	return NewFile(out, solver.NewOracle(nil, nil).Name()), nil
}

// Solve builds a case for in, answered by the oracle.
func Solve(id int, cat Category, in types.Instance) (Case, error) {
	sol, err := solver.NewOracle(in.Workers, in.Requirements).Solve()
	if err != nil {
		return Case{}, fmt.Errorf("case %d: %w", id, err)
	}
	rec := sol.Record()
	return Case{
		CaseID:          id,
		Category:        cat,
		NumWorkers:      len(in.Workers),
		NumRequirements: in.Requirements.Len(),
		Workers:         in.Workers,
		Requirements:    in.Requirements,
		OptimalCost:     rec.TotalCost,
		OptimalIDs:      rec.SelectedIDs,
		IsValid:         rec.IsValid,
	}, nil
}

func (b batch) instance(seed int64) (types.Instance, error) {
	opts := generator.DefaultOptions()
	opts.MinSkills = b.MinSkills
	opts.MaxSkills = b.MaxSkills
	if b.MaxCost > 0 {
		opts.MinCost = b.MinCost
		opts.MaxCost = b.MaxCost
	}

	g, err := generator.New(seed, opts)
	if err != nil {
		return types.Instance{}, err
	}

	var workers []types.Worker
	if b.Mixed {
		half := b.Workers / 2
		workers = g.GenerateWorkers(half)
		opts.MaxSkillLevel = 3
		if err := g.SetOptions(opts); err != nil {
			return types.Instance{}, err
		}
		workers = append(workers, g.GenerateWorkersFrom(half+1, b.Workers-half)...)
	} else {
		workers = g.GenerateWorkers(b.Workers)
	}

	reqs, err := g.GenerateRequirements(b.MinReq, b.MaxReq, b.MinLevel, b.MaxLevel)
	if err != nil {
		return types.Instance{}, err
	}
	return types.Instance{Workers: workers, Requirements: reqs}, nil
}
