package types

import (
	"fmt"
	"math"
)

// Worker is a candidate that offers skills at given levels for an hourly cost.
type Worker struct {
	ID         int           `json:"id" validate:"gte=0"`
	Name       string        `json:"name,omitempty"`
	HourlyCost float64       `json:"hourly_cost" validate:"gte=0"`
	Skills     map[Skill]int `json:"skills" validate:"dive,keys,required,endkeys,min=1,max=10"`
}

// Level returns the worker's level for skill, or 0 when the skill is absent.
func (w *Worker) Level(skill Skill) int {
	return w.Skills[skill]
}

// Has reports whether the worker offers skill at level or above.
func (w *Worker) Has(skill Skill, level int) bool {
	got, ok := w.Skills[skill]
	return ok && got >= level
}

// Validate checks the worker's cost and skill levels.
func (w *Worker) Validate() error {
	if math.IsInf(w.HourlyCost, 0) || math.IsNaN(w.HourlyCost) {
		return fmt.Errorf("worker %d: hourly cost must be finite, got %v", w.ID, w.HourlyCost)
	}
	if err := validate.Struct(w); err != nil {
		return fmt.Errorf("worker %d: %w", w.ID, err)
	}
	return nil
}

func (w Worker) String() string {
	return fmt.Sprintf("Worker(%d, %q, $%.2f/h, %d skills)", w.ID, w.Name, w.HourlyCost, len(w.Skills))
}
