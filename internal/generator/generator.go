// Package generator produces reproducible random problem instances.
//
// A Generator is not safe for concurrent use: it owns a single *rand.Rand.
// Derive one generator per goroutine with Fork.
package generator

import (
	"fmt"
	"math/rand"

	"github.com/jonathan/talent-cover/internal/types"
)

// defaultSeed replaces a zero seed so the zero value stays reproducible.
const defaultSeed int64 = 42

// Options bound the random values a Generator draws.
type Options struct {
	MinSkills     int // per worker, inclusive
	MaxSkills     int // per worker, inclusive; capped at the skill domain size
	MaxSkillLevel int // worker levels are drawn from [1, MaxSkillLevel]
	MinCost       int // hourly cost, inclusive
	MaxCost       int // hourly cost, inclusive
}

// DefaultOptions mirrors the distribution used for the reference test suites.
func DefaultOptions() Options {
	return Options{
		MinSkills:     1,
		MaxSkills:     len(types.AllSkills()),
		MaxSkillLevel: 10,
		MinCost:       5,
		MaxCost:       20,
	}
}

// Validate checks the option ranges.
func (o Options) Validate() error {
	n := len(types.AllSkills())
	switch {
	case o.MinSkills < 0 || o.MinSkills > o.MaxSkills:
		return fmt.Errorf("invalid skill count range [%d, %d]", o.MinSkills, o.MaxSkills)
	case o.MaxSkills > n:
		return fmt.Errorf("max skills %d exceeds the %d known skills", o.MaxSkills, n)
	case o.MaxSkillLevel < types.MinLevel || o.MaxSkillLevel > types.MaxLevel:
		return fmt.Errorf("max skill level %d outside [%d, %d]", o.MaxSkillLevel, types.MinLevel, types.MaxLevel)
	case o.MinCost < 0 || o.MinCost > o.MaxCost:
		return fmt.Errorf("invalid cost range [%d, %d]", o.MinCost, o.MaxCost)
	}
	return nil
}

// Generator draws workers and requirement sets from a seeded source.
type Generator struct {
	rng  *rand.Rand
	seed int64
	opts Options
}

// New returns a Generator seeded with seed (0 selects a fixed default).
func New(seed int64, opts Options) (*Generator, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	g := &Generator{opts: opts}
	g.Reseed(seed)
	return g, nil
}

// Reseed restarts the random stream.
func (g *Generator) Reseed(seed int64) {
	if seed == 0 {
		seed = defaultSeed
	}
	g.seed = seed
	g.rng = rand.New(rand.NewSource(seed))
}

// Seed returns the seed of the current stream.
func (g *Generator) Seed() int64 { return g.seed }

// Options returns the generator's bounds.
func (g *Generator) Options() Options { return g.opts }

// SetOptions replaces the bounds without touching the random stream.
func (g *Generator) SetOptions(opts Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	g.opts = opts
	return nil
}

// Fork returns an independent generator whose seed is drawn from g.
func (g *Generator) Fork() *Generator {
	child := &Generator{opts: g.opts}
	child.Reseed(g.rng.Int63())
	return child
}

// GenerateWorkers draws n workers with IDs 1..n.
func (g *Generator) GenerateWorkers(n int) []types.Worker {
	return g.GenerateWorkersFrom(1, n)
}

// GenerateWorkersFrom draws n workers with consecutive IDs starting at firstID.
func (g *Generator) GenerateWorkersFrom(firstID, n int) []types.Worker {
	workers := make([]types.Worker, 0, n)
	for i := 0; i < n; i++ {
		id := firstID + i
		k := g.between(g.opts.MinSkills, g.opts.MaxSkills)
		skills := make(map[types.Skill]int, k)
		for _, s := range g.sample(k) {
			skills[s] = g.between(types.MinLevel, g.opts.MaxSkillLevel)
		}
		workers = append(workers, types.Worker{
			ID:         id,
			Name:       fmt.Sprintf("Worker_%d", id),
			HourlyCost: float64(g.between(g.opts.MinCost, g.opts.MaxCost)),
			Skills:     skills,
		})
	}
	return workers
}

// GenerateRequirements draws between minReq and maxReq distinct skills, each
// with a level in [minLevel, maxLevel].
func (g *Generator) GenerateRequirements(minReq, maxReq, minLevel, maxLevel int) (types.Requirements, error) {
	n := len(types.AllSkills())
	if minReq < 0 || minReq > maxReq || maxReq > n {
		return nil, fmt.Errorf("invalid requirement count range [%d, %d] for %d skills", minReq, maxReq, n)
	}
	if minLevel < types.MinLevel || minLevel > maxLevel || maxLevel > types.MaxLevel {
		return nil, fmt.Errorf("invalid requirement level range [%d, %d]", minLevel, maxLevel)
	}

	k := g.between(minReq, maxReq)
	reqs := make(types.Requirements, k)
	for _, s := range g.sample(k) {
		reqs[s] = g.between(minLevel, maxLevel)
	}
	return reqs, nil
}

// Generate draws a full instance of n workers.
func (g *Generator) Generate(n, minReq, maxReq, minLevel, maxLevel int) (types.Instance, error) {
	workers := g.GenerateWorkers(n)
	reqs, err := g.GenerateRequirements(minReq, maxReq, minLevel, maxLevel)
	if err != nil {
		return types.Instance{}, err
	}
	return types.Instance{Workers: workers, Requirements: reqs}, nil
}

// between returns a uniform integer in [lo, hi].
func (g *Generator) between(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + g.rng.Intn(hi-lo+1)
}

// sample returns k distinct skills in random order.
func (g *Generator) sample(k int) []types.Skill {
	skills := types.AllSkills()
	g.rng.Shuffle(len(skills), func(i, j int) { skills[i], skills[j] = skills[j], skills[i] })
	return skills[:k]
}
