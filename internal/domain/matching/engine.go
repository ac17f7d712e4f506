package matching

import (
	"fmt"
	"math"
	"sort"

	"alfred/internal/domain"
	"alfred/internal/domain/member"
	"alfred/internal/domain/task"

	"github.com/google/uuid"
)

const weightTolerance = 1e-9

type Weights struct {
	Skill        float64
	Availability float64
}

func DefaultWeights() Weights {
	return Weights{Skill: 0.6, Availability: 0.4}
}

type LevelWeights map[member.Level]float64

func DefaultLevelWeights() LevelWeights {
	return LevelWeights{
		member.LevelExpert:       100,
		member.LevelAdvanced:     75,
		member.LevelIntermediate: 50,
		member.LevelBeginner:     25,
	}
}

type Config struct {
	Weights      Weights
	LevelWeights LevelWeights
}

func DefaultConfig() Config {
	return Config{Weights: DefaultWeights(), LevelWeights: DefaultLevelWeights()}
}

// Score is computed on demand and never persisted.
type Score struct {
	CandidateID           uuid.UUID `json:"candidate_id"`
	SkillComponent        float64   `json:"skill_component"`
	AvailabilityComponent float64   `json:"availability_component"`
	Overall               float64   `json:"overall"`
}

// Engine is stateless after construction and safe for concurrent use.
type Engine struct {
	weights Weights
	levels  LevelWeights
}

func NewEngine(cfg Config) (*Engine, error) {
	w := cfg.Weights
	if w.Skill < 0 || w.Availability < 0 {
		return nil, fmt.Errorf("%w: scoring weights must not be negative (skill=%v availability=%v)", domain.ErrConfiguration, w.Skill, w.Availability)
	}
	if math.Abs(w.Skill+w.Availability-1.0) > weightTolerance {
		return nil, fmt.Errorf("%w: scoring weights must sum to 1.0 (skill=%v availability=%v)", domain.ErrConfiguration, w.Skill, w.Availability)
	}

	levels := DefaultLevelWeights()
	for lvl, v := range cfg.LevelWeights {
		if !lvl.Valid() {
			return nil, fmt.Errorf("%w: unknown experience level %d", domain.ErrConfiguration, int(lvl))
		}
		if v < 0 || v > 100 {
			return nil, fmt.Errorf("%w: level weight for %s must be within 0-100, got %v", domain.ErrConfiguration, lvl, v)
		}
		levels[lvl] = v
	}

	return &Engine{weights: w, levels: levels}, nil
}

func (e *Engine) Weights() Weights {
	return e.weights
}

func (e *Engine) SkillComponent(req task.Requirement, m member.TeamMember) float64 {
	keys := req.SkillKeys()
	if len(keys) == 0 {
		return 100
	}

	var sum float64
	for _, k := range keys {
		s, ok := m.FindSkill(k)
		if !ok {
			continue
		}
		sum += e.levels[s.Level]
	}
	return clamp(round1(sum / float64(len(keys))))
}

func (e *Engine) AvailabilityComponent(req task.Requirement, m member.TeamMember) float64 {
	if req.EstimatedHours <= 0 {
		return 100
	}
	remaining := math.Max(0, m.AvailableHours-m.WorkloadHours)
	return clamp(round1(math.Min(100, 100*remaining/req.EstimatedHours)))
}

func (e *Engine) Score(req task.Requirement, m member.TeamMember) Score {
	skill := e.SkillComponent(req, m)
	avail := e.AvailabilityComponent(req, m)
	return Score{
		CandidateID:           m.ID,
		SkillComponent:        skill,
		AvailabilityComponent: avail,
		Overall:               clamp(round1(skill*e.weights.Skill + avail*e.weights.Availability)),
	}
}

// Rank scores every candidate and returns the best topN, highest overall
// first; equal scores are ordered by candidate id ascending.
func (e *Engine) Rank(req task.Requirement, candidates []member.TeamMember, topN int) ([]Score, error) {
	if topN <= 0 {
		return nil, fmt.Errorf("%w: top_n must be positive, got %d", domain.ErrInvalidInput, topN)
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: no candidates to rank", domain.ErrInvalidInput)
	}

	scores := make([]Score, 0, len(candidates))
	for _, c := range candidates {
		scores = append(scores, e.Score(req, c))
	}

	sort.SliceStable(scores, func(i, j int) bool {
		if scores[i].Overall != scores[j].Overall {
			return scores[i].Overall > scores[j].Overall
		}
		return scores[i].CandidateID.String() < scores[j].CandidateID.String()
	})

	if topN < len(scores) {
		scores = scores[:topN]
	}
	return scores, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
