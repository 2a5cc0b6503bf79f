// Package experiment runs the solvers over generated instances or stored
// test cases, scores them against the oracle and aggregates the metrics.
package experiment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/talent-cover/internal/cases"
	"github.com/jonathan/talent-cover/internal/generator"
	"github.com/jonathan/talent-cover/internal/metrics"
	"github.com/jonathan/talent-cover/internal/solver"
	"github.com/jonathan/talent-cover/internal/types"
)

// Run kinds recorded with each experiment.
const (
	KindRandom = "random"
	KindCases  = "cases"
)

// Store persists experiment runs and their results.
type Store interface {
	CreateRun(ctx context.Context, kind string, seed int64, algorithms []string) (uuid.UUID, error)
	SaveResult(ctx context.Context, runID uuid.UUID, res metrics.Result) error
	CompleteRun(ctx context.Context, runID uuid.UUID, status string) error
}

// Options configures a Runner.
type Options struct {
	// Algorithms lists the solver names (see solver.Algorithms) to evaluate.
	Algorithms []string
	// OracleMaxWorkers skips the oracle on larger pools; 0 disables it.
	OracleMaxWorkers int
	// Concurrency bounds the instances evaluated at once; 0 uses GOMAXPROCS.
	Concurrency int
	Seed        int64
	Generator   generator.Options

	// Requirement bounds for random instances.
	MinRequirements int
	MaxRequirements int
	MinLevel        int
	MaxLevel        int
}

// DefaultOptions runs every non-oracle solver on small random instances.
func DefaultOptions() Options {
	return Options{
		Algorithms:       []string{solver.AlgorithmGreedy, solver.AlgorithmBacktrack, solver.AlgorithmDP, solver.AlgorithmDPOptimized},
		OracleMaxWorkers: 20,
		Seed:             42,
		Generator:        generator.DefaultOptions(),
		MinRequirements:  1,
		MaxRequirements:  4,
		MinLevel:         1,
		MaxLevel:         5,
	}
}

// Report is the outcome of one experiment.
type Report struct {
	RunID     uuid.UUID
	Kind      string
	Instances int
	Started   time.Time
	Finished  time.Time
	Metrics   *metrics.Collector
}

// Runner evaluates solvers over many instances in parallel.
type Runner struct {
	opts   Options
	logger *slog.Logger
	store  Store
}

// NewRunner validates opts and returns a Runner. store may be nil.
func NewRunner(opts Options, logger *slog.Logger, store Store) (*Runner, error) {
	if len(opts.Algorithms) == 0 {
		return nil, fmt.Errorf("no algorithms configured")
	}
	for _, name := range opts.Algorithms {
		if _, err := solver.New(name, nil, nil); err != nil {
			return nil, err
		}
	}
	if opts.Concurrency < 0 || opts.OracleMaxWorkers < 0 {
		return nil, fmt.Errorf("concurrency and oracle ceiling must not be negative")
	}
	if opts.Concurrency == 0 {
		opts.Concurrency = runtime.GOMAXPROCS(0)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{opts: opts, logger: logger, store: store}, nil
}

// job is one instance to evaluate, with its reference answer when known.
type job struct {
	caseID   int
	instance types.Instance
	// reference replaces the oracle run for stored cases.
	reference *metrics.Result
}

// RunRandom evaluates reps random instances for each pool size.
func (r *Runner) RunRandom(ctx context.Context, sizes []int, reps int) (*Report, error) {
	if len(sizes) == 0 || reps < 1 {
		return nil, fmt.Errorf("need at least one size and one repetition, got sizes=%v reps=%d", sizes, reps)
	}

	g, err := generator.New(r.opts.Seed, r.opts.Generator)
	if err != nil {
		return nil, fmt.Errorf("failed to create generator: %w", err)
	}

	// Instances are drawn up front so the set does not depend on scheduling.
	// Each size draws from its own fork, so appending a size leaves the
	// earlier sizes' instances unchanged.
	var jobs []job
	for _, n := range sizes {
		if n < 0 {
			return nil, fmt.Errorf("invalid pool size %d", n)
		}
		sg := g.Fork()
		for i := 0; i < reps; i++ {
			in, err := sg.Generate(n, r.opts.MinRequirements, r.opts.MaxRequirements, r.opts.MinLevel, r.opts.MaxLevel)
			if err != nil {
				return nil, fmt.Errorf("failed to generate instance: %w", err)
			}
			jobs = append(jobs, job{caseID: -1, instance: in})
		}
	}
	return r.run(ctx, KindRandom, jobs)
}

// RunCases evaluates every case in f, scoring against the recorded optimum.
func (r *Runner) RunCases(ctx context.Context, f *cases.File) (*Report, error) {
	jobs := make([]job, 0, len(f.Cases))
	for i := range f.Cases {
		c := &f.Cases[i]
		ref := metrics.Result{
			Algorithm:    f.Metadata.SolverUsed,
			CaseID:       c.CaseID,
			Cost:         c.Optimal(),
			IsValid:      c.IsValid,
			SolutionSize: len(c.OptimalIDs),
			SelectedIDs:  c.OptimalIDs,
		}
		jobs = append(jobs, job{caseID: c.CaseID, instance: c.Instance(), reference: &ref})
	}
	return r.run(ctx, KindCases, jobs)
}

func (r *Runner) run(ctx context.Context, kind string, jobs []job) (*Report, error) {
	report := &Report{
		RunID:     uuid.New(),
		Kind:      kind,
		Instances: len(jobs),
		Started:   time.Now(),
		Metrics:   metrics.NewCollector(),
	}

	if r.store != nil {
		id, err := r.store.CreateRun(ctx, kind, r.opts.Seed, r.opts.Algorithms)
		if err != nil {
			return nil, fmt.Errorf("failed to record run: %w", err)
		}
		report.RunID = id
	}

	logger := r.logger.With("run_id", report.RunID.String(), "kind", kind)
	logger.Info("experiment started", "instances", len(jobs), "algorithms", r.opts.Algorithms, "concurrency", r.opts.Concurrency)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(r.opts.Concurrency)
	for _, j := range jobs {
		eg.Go(func() error {
			return r.evaluate(egCtx, logger, report, j)
		})
	}
	err := eg.Wait()
	report.Finished = time.Now()

	if r.store != nil {
		status := "completed"
		if err != nil {
			status = "failed"
		}
		// The run context may already be cancelled; the status still has to land.
		if cerr := r.store.CompleteRun(context.WithoutCancel(ctx), report.RunID, status); cerr != nil {
			err = errors.Join(err, fmt.Errorf("failed to complete run: %w", cerr))
		}
	}
	if err != nil {
		logger.Error("experiment failed", "error", err)
		return nil, err
	}

	logger.Info("experiment finished", "results", report.Metrics.Len(), "elapsed", report.Finished.Sub(report.Started))
	return report, nil
}

// evaluate runs every configured solver on one instance. Each solver gets
// its own instance so no search state is shared.
func (r *Runner) evaluate(ctx context.Context, logger *slog.Logger, report *Report, j job) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	in := j.instance
	reference := j.reference
	if reference == nil && r.opts.OracleMaxWorkers > 0 && len(in.Workers) <= r.opts.OracleMaxWorkers {
		ref := metrics.Evaluate(solver.NewOracle(in.Workers, in.Requirements))
		reference = &ref
	}

	for _, name := range r.opts.Algorithms {
		if err := ctx.Err(); err != nil {
			return err
		}
		s, err := solver.New(name, in.Workers, in.Requirements)
		if err != nil {
			return err
		}

		res := metrics.Evaluate(s)
		res.CaseID = j.caseID
		res.NumWorkers = len(in.Workers)
		res.NumRequirements = in.Requirements.Len()

		if res.Failed() {
			logger.Warn("solver returned an error", "algorithm", res.Algorithm, "case_id", j.caseID, "error", res.Err)
		} else if reference != nil {
			corr := metrics.Compare(res, *reference)
			res.Correctness = &corr
			if !corr.IsOptimal {
				logger.Debug("solver missed the optimum",
					"algorithm", res.Algorithm, "case_id", j.caseID,
					"cost", res.Cost, "optimal", reference.Cost)
			}
		}

		report.Metrics.Add(res)
		if r.store != nil {
			if err := r.store.SaveResult(ctx, report.RunID, res); err != nil {
				return fmt.Errorf("failed to save result: %w", err)
			}
		}
	}
	return nil
}
