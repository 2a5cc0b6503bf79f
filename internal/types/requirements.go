package types

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Requirements maps each required skill to the minimum level a selected
// worker must offer.
type Requirements map[Skill]int

// Len returns the number of requirements.
func (r Requirements) Len() int {
	return len(r)
}

// Level returns the required level for skill, or 0 when it is not required.
func (r Requirements) Level(skill Skill) int {
	return r[skill]
}

// Skills returns the required skills in canonical order.
func (r Requirements) Skills() []Skill {
	skills := make([]Skill, 0, len(r))
	for s := range r {
		skills = append(skills, s)
	}
	SortSkills(skills)
	return skills
}

// Clone returns an independent copy.
func (r Requirements) Clone() Requirements {
	out := make(Requirements, len(r))
	for s, lvl := range r {
		out[s] = lvl
	}
	return out
}

// Validate checks every requirement level lies in [MinLevel, MaxLevel].
func (r Requirements) Validate() error {
	if err := validate.Var(map[Skill]int(r), "dive,keys,required,endkeys,min=1,max=10"); err != nil {
		return fmt.Errorf("invalid requirements: %w", err)
	}
	return nil
}
