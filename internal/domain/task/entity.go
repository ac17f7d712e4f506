package task

import (
	"fmt"
	"strings"

	"alfred/internal/domain"
	"alfred/internal/domain/member"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
)

func ParsePriority(s string) (Priority, error) {
	switch p := Priority(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PriorityNormal, nil
	case PriorityLow, PriorityNormal, PriorityHigh:
		return p, nil
	default:
		return "", fmt.Errorf("%w: unknown priority %q", domain.ErrValidation, s)
	}
}

// Requirement describes a task being assigned. It is not mutated during a
// scoring pass.
type Requirement struct {
	Name           string
	Description    string
	RequiredSkills []string
	EstimatedHours float64
	Priority       Priority
}

// SkillKeys returns the required skill names normalized and de-duplicated,
// preserving first-seen order.
func (r Requirement) SkillKeys() []string {
	out := make([]string, 0, len(r.RequiredSkills))
	seen := make(map[string]struct{}, len(r.RequiredSkills))
	for _, s := range r.RequiredSkills {
		k := member.NormalizeSkillName(s)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

func (r Requirement) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("%w: task name is required", domain.ErrValidation)
	}
	if r.EstimatedHours < 0 {
		return fmt.Errorf("%w: estimated hours must not be negative", domain.ErrValidation)
	}
	if _, err := ParsePriority(string(r.Priority)); err != nil {
		return err
	}
	return nil
}
