package main

import (
	"fmt"

	"alfred/internal/config"
	"alfred/internal/domain/member"
	"alfred/internal/domain/task"

	"github.com/google/uuid"
	"github.com/spf13/viper"
)

// scenario is an offline ranking input: one task and a candidate pool.
type scenario struct {
	Weights      *weightsFile       `mapstructure:"weights"`
	LevelWeights map[string]float64 `mapstructure:"level_weights"`
	Task         taskFile           `mapstructure:"task"`
	Candidates   []memberFile       `mapstructure:"candidates"`
}

type weightsFile struct {
	Skill        float64 `mapstructure:"skill"`
	Availability float64 `mapstructure:"availability"`
}

type taskFile struct {
	Name           string   `mapstructure:"name"`
	Description    string   `mapstructure:"description"`
	RequiredSkills []string `mapstructure:"required_skills"`
	EstimatedHours float64  `mapstructure:"estimated_hours"`
	Priority       string   `mapstructure:"priority"`
}

type memberFile struct {
	ID             string      `mapstructure:"id"`
	ExternalID     string      `mapstructure:"external_id"`
	Name           string      `mapstructure:"name"`
	Email          string      `mapstructure:"email"`
	Role           string      `mapstructure:"role"`
	Team           string      `mapstructure:"team"`
	Timezone       string      `mapstructure:"timezone"`
	AvailableHours float64     `mapstructure:"available_hours"`
	WorkloadHours  float64     `mapstructure:"workload_hours"`
	Skills         []skillFile `mapstructure:"skills"`
}

type skillFile struct {
	Name  string   `mapstructure:"name"`
	Level string   `mapstructure:"level"`
	Years *float64 `mapstructure:"years"`
}

type rosterFile struct {
	Members []memberFile `mapstructure:"members"`
}

func readFile(path string, out any) error {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := v.Unmarshal(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func loadScenario(path string) (scenario, error) {
	var s scenario
	if err := readFile(path, &s); err != nil {
		return scenario{}, err
	}
	return s, nil
}

func loadRoster(path string) ([]member.TeamMember, error) {
	var r rosterFile
	if err := readFile(path, &r); err != nil {
		return nil, err
	}
	out := make([]member.TeamMember, 0, len(r.Members))
	for i, mf := range r.Members {
		m, err := mf.member()
		if err != nil {
			return nil, fmt.Errorf("members[%d]: %w", i, err)
		}
		out = append(out, m)
	}
	return out, nil
}

// scoringConfig overlays the file's weights on the service defaults.
func (s scenario) scoringConfig() config.ScoringConfig {
	cfg := config.ScoringConfig{SkillWeight: 0.6, AvailabilityWeight: 0.4, LevelWeights: s.LevelWeights}
	if s.Weights != nil {
		cfg.SkillWeight = s.Weights.Skill
		cfg.AvailabilityWeight = s.Weights.Availability
	}
	return cfg
}

func (s scenario) requirement() task.Requirement {
	return task.Requirement{
		Name:           s.Task.Name,
		Description:    s.Task.Description,
		RequiredSkills: s.Task.RequiredSkills,
		EstimatedHours: s.Task.EstimatedHours,
		Priority:       task.Priority(s.Task.Priority),
	}
}

func (s scenario) members() ([]member.TeamMember, error) {
	out := make([]member.TeamMember, 0, len(s.Candidates))
	for i, mf := range s.Candidates {
		m, err := mf.member()
		if err != nil {
			return nil, fmt.Errorf("candidates[%d]: %w", i, err)
		}
		out = append(out, m)
	}
	return out, nil
}

func (mf memberFile) member() (member.TeamMember, error) {
	id := uuid.New()
	if mf.ID != "" {
		parsed, err := uuid.Parse(mf.ID)
		if err != nil {
			return member.TeamMember{}, fmt.Errorf("invalid id %q: %w", mf.ID, err)
		}
		id = parsed
	}

	skills := make([]member.Skill, 0, len(mf.Skills))
	for _, sf := range mf.Skills {
		lvl, err := member.ParseLevel(sf.Level)
		if err != nil {
			return member.TeamMember{}, err
		}
		skills = append(skills, member.Skill{Name: sf.Name, Level: lvl, Years: sf.Years})
	}
	cleaned, err := member.ValidateSkills(skills)
	if err != nil {
		return member.TeamMember{}, err
	}
	if err := member.ValidateHours(mf.AvailableHours, mf.WorkloadHours); err != nil {
		return member.TeamMember{}, err
	}

	return member.TeamMember{
		ID:             id,
		ExternalID:     mf.ExternalID,
		Name:           mf.Name,
		Email:          mf.Email,
		Role:           mf.Role,
		Team:           mf.Team,
		Timezone:       mf.Timezone,
		AvailableHours: mf.AvailableHours,
		WorkloadHours:  mf.WorkloadHours,
		Skills:         cleaned,
		Status:         member.StatusActive,
	}, nil
}
