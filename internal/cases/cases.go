// Package cases reads, writes and builds reference test-case files: worker
// pools with requirements and the optimal cover found by the oracle.
package cases

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/jonathan/talent-cover/internal/schemas"
	"github.com/jonathan/talent-cover/internal/types"
	embedded "github.com/jonathan/talent-cover/schemas"
)

// Metadata describes a test-case file.
type Metadata struct {
	TotalCases  int    `json:"total_cases"`
	Description string `json:"description,omitempty"`
	SolverUsed  string `json:"solver_used"`
	Format      string `json:"format,omitempty"`
	GeneratedAt string `json:"generated_at,omitempty"`
}

// Case is one instance with its reference answer. OptimalCost is nil when the
// instance has no complete cover.
type Case struct {
	CaseID          int                `json:"case_id"`
	Category        Category           `json:"category,omitempty"`
	NumWorkers      int                `json:"num_workers"`
	NumRequirements int                `json:"num_requirements"`
	Workers         []types.Worker     `json:"workers"`
	Requirements    types.Requirements `json:"requirements"`
	OptimalCost     *float64           `json:"optimal_cost"`
	OptimalIDs      []int              `json:"optimal_ids"`
	IsValid         bool               `json:"is_valid"`
}

// File is the on-disk layout of a test-case suite.
type File struct {
	Metadata Metadata `json:"metadata"`
	Cases    []Case   `json:"test_cases"`
}

// Instance returns the problem the case describes.
func (c *Case) Instance() types.Instance {
	return types.Instance{Workers: c.Workers, Requirements: c.Requirements}
}

// Optimal returns the reference cost, +Inf for infeasible cases.
func (c *Case) Optimal() float64 {
	if c.OptimalCost == nil {
		return math.Inf(1)
	}
	return *c.OptimalCost
}

// Validate checks the instance and the consistency of the recorded answer.
func (c *Case) Validate() error {
	in := c.Instance()
	if err := in.Validate(); err != nil {
		return fmt.Errorf("case %d: %w", c.CaseID, err)
	}
	if c.NumWorkers != len(c.Workers) {
		return fmt.Errorf("case %d: num_workers is %d but %d workers listed", c.CaseID, c.NumWorkers, len(c.Workers))
	}
	if c.NumRequirements != len(c.Requirements) {
		return fmt.Errorf("case %d: num_requirements is %d but %d requirements listed", c.CaseID, c.NumRequirements, len(c.Requirements))
	}
	if c.IsValid != (c.OptimalCost != nil) {
		return fmt.Errorf("case %d: is_valid=%t disagrees with optimal_cost", c.CaseID, c.IsValid)
	}
	return nil
}

// NewFile wraps cases with metadata.
func NewFile(cases []Case, solverUsed string) *File {
	return &File{
		Metadata: Metadata{
			TotalCases:  len(cases),
			Description: "Reference cases for validating the talent-cover solvers",
			SolverUsed:  solverUsed,
			Format:      "each case holds workers, requirements, optimal_cost and optimal_ids",
			GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		},
		Cases: cases,
	}
}

// Load reads a test-case file, validating it against the embedded schema
// and checking every case.
func Load(path string) (*File, error) {
	if path == "" {
		return nil, fmt.Errorf("cases path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read cases file: %w", err)
	}

	if err := schemas.ValidateDocument(embedded.TestCases, data); err != nil {
		return nil, fmt.Errorf("cases file %s: %w", path, err)
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse cases JSON: %w", err)
	}

	for i := range f.Cases {
		if err := f.Cases[i].Validate(); err != nil {
			return nil, err
		}
	}
	return &f, nil
}

// Save writes f to path as indented JSON, creating parent directories.
func Save(path string, f *File) error {
	f.Metadata.TotalCases = len(f.Cases)
	for i := range f.Cases {
		if f.Cases[i].OptimalIDs == nil {
			f.Cases[i].OptimalIDs = []int{}
		}
	}

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cases: %w", err)
	}
	if err := schemas.ValidateDocument(embedded.TestCases, data); err != nil {
		return fmt.Errorf("refusing to write invalid cases file: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write cases file: %w", err)
	}
	return nil
}

// LoadInstance reads a single instance file, validating it against the
// embedded instance schema.
func LoadInstance(path string) (types.Instance, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Instance{}, fmt.Errorf("failed to read instance file: %w", err)
	}
	if err := schemas.ValidateDocument(embedded.Instance, data); err != nil {
		return types.Instance{}, fmt.Errorf("instance file %s: %w", path, err)
	}

	var in types.Instance
	if err := json.Unmarshal(data, &in); err != nil {
		return types.Instance{}, fmt.Errorf("failed to parse instance JSON: %w", err)
	}
	if err := in.Validate(); err != nil {
		return types.Instance{}, fmt.Errorf("invalid instance: %w", err)
	}
	return in, nil
}
