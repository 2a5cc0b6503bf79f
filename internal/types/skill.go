// Package types provides type definitions for the workers, requirements and solutions used throughout the talent-cover system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"fmt"
	"sort"
	"strings"
)

// Skill identifies a single skill a worker may offer and a client may require.
// Skills are compared by equality only.
type Skill string

// Known skills, listed in canonical order.
const (
	SkillJavaScript  Skill = "JavaScript"
	SkillPython      Skill = "Python"
	SkillJava        Skill = "Java"
	SkillCSharp      Skill = "C#"
	SkillCPlusPlus   Skill = "C++"
	SkillUIUX        Skill = "UI/UX Design"
	SkillDataScience Skill = "Data Science"
)

// Skill level bounds, inclusive.
const (
	MinLevel = 1
	MaxLevel = 10
)

var allSkills = []Skill{
	SkillJavaScript,
	SkillPython,
	SkillJava,
	SkillCSharp,
	SkillCPlusPlus,
	SkillUIUX,
	SkillDataScience,
}

var skillRank = func() map[Skill]int {
	m := make(map[Skill]int, len(allSkills))
	for i, s := range allSkills {
		m[s] = i
	}
	return m
}()

// AllSkills returns every known skill in canonical order.
func AllSkills() []Skill {
	out := make([]Skill, len(allSkills))
	copy(out, allSkills)
	return out
}

// Known reports whether s belongs to the known skill domain.
func (s Skill) Known() bool {
	_, ok := skillRank[s]
	return ok
}

// ParseSkill resolves a skill name case-insensitively against the known skills.
func ParseSkill(name string) (Skill, error) {
	trimmed := strings.TrimSpace(name)
	for _, s := range allSkills {
		if strings.EqualFold(string(s), trimmed) {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown skill %q", name)
}

// SortSkills orders skills canonically: known skills first in declaration
// order, then unknown skills lexically.
func SortSkills(skills []Skill) {
	sort.Slice(skills, func(i, j int) bool {
		ri, iKnown := skillRank[skills[i]]
		rj, jKnown := skillRank[skills[j]]
		switch {
		case iKnown && jKnown:
			return ri < rj
		case iKnown != jKnown:
			return iKnown
		default:
			return skills[i] < skills[j]
		}
	})
}
