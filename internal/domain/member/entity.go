package member

import (
	"fmt"
	"strings"
	"time"

	"alfred/internal/domain"

	"github.com/google/uuid"
)

type Level int

const (
	LevelBeginner Level = iota + 1
	LevelIntermediate
	LevelAdvanced
	LevelExpert
)

var levelNames = map[Level]string{
	LevelBeginner:     "beginner",
	LevelIntermediate: "intermediate",
	LevelAdvanced:     "advanced",
	LevelExpert:       "expert",
}

func (l Level) String() string {
	if s, ok := levelNames[l]; ok {
		return s
	}
	return "unknown"
}

func (l Level) Valid() bool {
	_, ok := levelNames[l]
	return ok
}

func ParseLevel(s string) (Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for l, name := range levelNames {
		if name == s {
			return l, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown experience level %q", domain.ErrValidation, s)
}

func (l Level) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("%w: unknown experience level %d", domain.ErrValidation, int(l))
	}
	return []byte(l.String()), nil
}

func (l *Level) UnmarshalText(b []byte) error {
	parsed, err := ParseLevel(string(b))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

type Skill struct {
	Name  string   `json:"name"`
	Level Level    `json:"level"`
	Years *float64 `json:"years,omitempty"`
}

// Key is the case-insensitive identity of a skill name.
func (s Skill) Key() string {
	return NormalizeSkillName(s.Name)
}

func NormalizeSkillName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

func (s Status) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

type TeamMember struct {
	ID             uuid.UUID `json:"id"`
	ExternalID     string    `json:"external_id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Role           string    `json:"role"`
	Team           string    `json:"team"`
	Timezone       string    `json:"timezone"`
	Bio            string    `json:"bio"`
	AvailableHours float64   `json:"available_hours"`
	WorkloadHours  float64   `json:"workload_hours"`
	Skills         []Skill   `json:"skills"`
	Status         Status    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// FindSkill looks a skill up by case-insensitive name.
func (m TeamMember) FindSkill(name string) (Skill, bool) {
	key := NormalizeSkillName(name)
	if key == "" {
		return Skill{}, false
	}
	for _, s := range m.Skills {
		if s.Key() == key {
			return s, true
		}
	}
	return Skill{}, false
}

func (m TeamMember) IsActive() bool {
	return m.Status == StatusActive
}

// ValidateSkills checks a skill set before it replaces a member's skills and
// returns the cleaned copy with trimmed names.
func ValidateSkills(skills []Skill) ([]Skill, error) {
	out := make([]Skill, 0, len(skills))
	seen := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		name := strings.Join(strings.Fields(s.Name), " ")
		if name == "" {
			return nil, fmt.Errorf("%w: skill name is required", domain.ErrValidation)
		}
		if !s.Level.Valid() {
			return nil, fmt.Errorf("%w: skill %q has no valid experience level", domain.ErrValidation, name)
		}
		if s.Years != nil && *s.Years < 0 {
			return nil, fmt.Errorf("%w: skill %q has negative years of experience", domain.ErrValidation, name)
		}
		key := NormalizeSkillName(name)
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("%w: duplicate skill %q", domain.ErrValidation, name)
		}
		seen[key] = struct{}{}
		out = append(out, Skill{Name: name, Level: s.Level, Years: s.Years})
	}
	return out, nil
}

func ValidateHours(available, workload float64) error {
	if available < 0 {
		return fmt.Errorf("%w: available hours must not be negative", domain.ErrValidation)
	}
	if workload < 0 {
		return fmt.Errorf("%w: workload hours must not be negative", domain.ErrValidation)
	}
	return nil
}
