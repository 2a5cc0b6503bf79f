package metrics

import (
	"math"
	"sync"
	"time"
)

// Collector accumulates results from concurrent runs.
type Collector struct {
	mu      sync.Mutex
	results []Result
}

// NewCollector returns an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Add records res.
func (c *Collector) Add(res Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results = append(c.results, res)
}

// Results returns a copy of everything recorded so far.
func (c *Collector) Results() []Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Result(nil), c.results...)
}

// Len returns the number of recorded results.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.results)
}

// Summary aggregates the results of one algorithm.
type Summary struct {
	Algorithm string
	Runs      int
	Errors    int
	Valid     int
	// Compared counts results scored against the oracle; the correctness
	// fields below are meaningful only when it is non-zero.
	Compared     int
	Optimal      int
	OptimalRatio float64
	AvgCostRatio float64
	AvgSizeDiff  float64
	AvgCost      float64 // over valid results
	AvgTime      time.Duration
	MinTime      time.Duration
	MaxTime      time.Duration
}

// Summary aggregates per algorithm, in order of first appearance.
func (c *Collector) Summary() []Summary {
	results := c.Results()

	var order []string
	byAlgo := make(map[string]*Summary)
	totalTime := make(map[string]time.Duration)
	costSum := make(map[string]float64)
	ratioSum := make(map[string]float64)
	ratioN := make(map[string]int)
	sizeSum := make(map[string]int)

	for _, r := range results {
		s, ok := byAlgo[r.Algorithm]
		if !ok {
			s = &Summary{Algorithm: r.Algorithm, MinTime: r.Duration, MaxTime: r.Duration}
			byAlgo[r.Algorithm] = s
			order = append(order, r.Algorithm)
		}

		s.Runs++
		totalTime[r.Algorithm] += r.Duration
		s.MinTime = min(s.MinTime, r.Duration)
		s.MaxTime = max(s.MaxTime, r.Duration)

		if r.Failed() {
			s.Errors++
			continue
		}
		if r.IsValid {
			s.Valid++
			costSum[r.Algorithm] += r.Cost
		}
		if r.Correctness != nil {
			s.Compared++
			if r.Correctness.IsOptimal {
				s.Optimal++
			}
			if !math.IsInf(r.Correctness.CostRatio, 0) {
				ratioSum[r.Algorithm] += r.Correctness.CostRatio
				ratioN[r.Algorithm]++
			}
			sizeSum[r.Algorithm] += r.Correctness.SizeDiff
		}
	}

	out := make([]Summary, 0, len(order))
	for _, name := range order {
		s := byAlgo[name]
		s.AvgTime = totalTime[name] / time.Duration(s.Runs)
		if s.Valid > 0 {
			s.AvgCost = costSum[name] / float64(s.Valid)
		}
		if s.Compared > 0 {
			s.OptimalRatio = float64(s.Optimal) / float64(s.Compared)
			s.AvgSizeDiff = float64(sizeSum[name]) / float64(s.Compared)
		}
		if ratioN[name] > 0 {
			s.AvgCostRatio = ratioSum[name] / float64(ratioN[name])
		}
		out = append(out, *s)
	}
	return out
}

// Failures returns the compared results that did not match the oracle.
func (c *Collector) Failures() []Result {
	var out []Result
	for _, r := range c.Results() {
		if r.Correctness != nil && !r.Correctness.IsOptimal {
			out = append(out, r)
		}
	}
	return out
}
