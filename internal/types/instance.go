package types

import "fmt"

// Instance is one problem: a worker pool and the requirements to cover.
type Instance struct {
	Workers      []Worker     `json:"workers"`
	Requirements Requirements `json:"requirements"`
}

// Validate checks every worker and requirement and rejects duplicate worker IDs.
func (in *Instance) Validate() error {
	seen := make(map[int]bool, len(in.Workers))
	for i := range in.Workers {
		w := &in.Workers[i]
		if seen[w.ID] {
			return fmt.Errorf("duplicate worker id %d", w.ID)
		}
		seen[w.ID] = true
		if err := w.Validate(); err != nil {
			return err
		}
	}
	return in.Requirements.Validate()
}
