package matching

import (
	"testing"

	"alfred/internal/domain"
	"alfred/internal/domain/member"
	"alfred/internal/domain/task"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(DefaultConfig())
	require.NoError(t, err)
	return e
}

func alice() member.TeamMember {
	return member.TeamMember{
		ID:             uuid.MustParse("00000000-0000-0000-0000-00000000000a"),
		Name:           "Alice",
		AvailableHours: 40,
		WorkloadHours:  0,
		Skills: []member.Skill{
			{Name: "Python", Level: member.LevelExpert},
			{Name: "FastAPI", Level: member.LevelAdvanced},
		},
		Status: member.StatusActive,
	}
}

func TestEngine_Score_AliceScenario(t *testing.T) {
	e := newEngine(t)
	req := task.Requirement{
		Name:           "Build API",
		RequiredSkills: []string{"python", "FASTAPI", "API"},
		EstimatedHours: 20,
	}

	s := e.Score(req, alice())
	assert.Equal(t, 58.3, s.SkillComponent)
	assert.Equal(t, 100.0, s.AvailabilityComponent)
	assert.Equal(t, 75.0, s.Overall)
	assert.Equal(t, alice().ID, s.CandidateID)
}

func TestEngine_SkillComponent_EmptyRequirementIs100(t *testing.T) {
	e := newEngine(t)
	for _, m := range []member.TeamMember{alice(), {ID: uuid.New()}} {
		assert.Equal(t, 100.0, e.SkillComponent(task.Requirement{Name: "x"}, m))
	}
}

func TestEngine_SkillComponent_DuplicateRequirementsCountOnce(t *testing.T) {
	e := newEngine(t)
	req := task.Requirement{RequiredSkills: []string{"Python", " python ", "Go"}}
	assert.Equal(t, 50.0, e.SkillComponent(req, alice()))
}

func TestEngine_AvailabilityComponent(t *testing.T) {
	e := newEngine(t)

	tests := []struct {
		name      string
		available float64
		workload  float64
		estimate  float64
		want      float64
	}{
		{name: "capacity covers estimate", available: 40, workload: 10, estimate: 20, want: 100},
		{name: "capacity equals estimate", available: 30, workload: 10, estimate: 20, want: 100},
		{name: "proportional", available: 20, workload: 15, estimate: 20, want: 25},
		{name: "rounded to one decimal", available: 10, workload: 0, estimate: 30, want: 33.3},
		{name: "overloaded floors at zero", available: 0, workload: 12, estimate: 8, want: 0},
		{name: "no estimate means no constraint", available: 0, workload: 50, estimate: 0, want: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := member.TeamMember{ID: uuid.New(), AvailableHours: tt.available, WorkloadHours: tt.workload}
			got := e.AvailabilityComponent(task.Requirement{EstimatedHours: tt.estimate}, m)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEngine_Score_ComponentsStayInRange(t *testing.T) {
	e := newEngine(t)
	levels := []member.Level{member.LevelBeginner, member.LevelIntermediate, member.LevelAdvanced, member.LevelExpert}

	for i := 0; i < 64; i++ {
		m := member.TeamMember{
			ID:             uuid.New(),
			AvailableHours: float64(i % 9 * 5),
			WorkloadHours:  float64(i % 7 * 6),
		}
		if i%2 == 0 {
			m.Skills = append(m.Skills, member.Skill{Name: "go", Level: levels[i%4]})
		}
		if i%3 == 0 {
			m.Skills = append(m.Skills, member.Skill{Name: "sql", Level: levels[(i+1)%4]})
		}
		req := task.Requirement{RequiredSkills: []string{"Go", "SQL", "Docker"}, EstimatedHours: float64(i % 5 * 4)}

		s := e.Score(req, m)
		assert.GreaterOrEqual(t, s.SkillComponent, 0.0)
		assert.LessOrEqual(t, s.SkillComponent, 100.0)
		assert.GreaterOrEqual(t, s.AvailabilityComponent, 0.0)
		assert.LessOrEqual(t, s.AvailabilityComponent, 100.0)
		assert.InDelta(t, s.SkillComponent*0.6+s.AvailabilityComponent*0.4, s.Overall, 0.05)
	}
}

func TestNewEngine_RejectsBadWeights(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "sum above one", cfg: Config{Weights: Weights{Skill: 0.7, Availability: 0.4}}},
		{name: "sum below one", cfg: Config{Weights: Weights{Skill: 0.5, Availability: 0.4}}},
		{name: "negative", cfg: Config{Weights: Weights{Skill: 1.2, Availability: -0.2}}},
		{name: "level weight above 100", cfg: Config{Weights: DefaultWeights(), LevelWeights: LevelWeights{member.LevelExpert: 120}}},
		{name: "unknown level", cfg: Config{Weights: DefaultWeights(), LevelWeights: LevelWeights{member.Level(9): 10}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEngine(tt.cfg)
			require.ErrorIs(t, err, domain.ErrConfiguration)
		})
	}
}

func TestNewEngine_CustomWeights(t *testing.T) {
	e, err := NewEngine(Config{
		Weights:      Weights{Skill: 1, Availability: 0},
		LevelWeights: LevelWeights{member.LevelAdvanced: 80},
	})
	require.NoError(t, err)

	s := e.Score(task.Requirement{RequiredSkills: []string{"FastAPI"}, EstimatedHours: 100}, alice())
	assert.Equal(t, 80.0, s.SkillComponent)
	assert.Equal(t, 80.0, s.Overall)
}

func TestEngine_Rank_OrderAndTieBreak(t *testing.T) {
	e := newEngine(t)
	idA := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	idB := uuid.MustParse("00000000-0000-0000-0000-000000000002")
	idC := uuid.MustParse("00000000-0000-0000-0000-000000000003")

	twin := func(id uuid.UUID) member.TeamMember {
		return member.TeamMember{ID: id, AvailableHours: 10, Skills: []member.Skill{{Name: "Go", Level: member.LevelIntermediate}}}
	}
	best := member.TeamMember{ID: idC, AvailableHours: 40, Skills: []member.Skill{{Name: "go", Level: member.LevelExpert}}}

	req := task.Requirement{RequiredSkills: []string{"Go"}, EstimatedHours: 10}
	out, err := e.Rank(req, []member.TeamMember{twin(idB), best, twin(idA)}, 5)
	require.NoError(t, err)
	require.Len(t, out, 3)

	assert.Equal(t, idC, out[0].CandidateID)
	assert.Equal(t, idA, out[1].CandidateID)
	assert.Equal(t, idB, out[2].CandidateID)
	for i := 1; i < len(out); i++ {
		assert.GreaterOrEqual(t, out[i-1].Overall, out[i].Overall)
	}
}

func TestEngine_Rank_TruncatesToTopN(t *testing.T) {
	e := newEngine(t)
	candidates := []member.TeamMember{alice(), {ID: uuid.New()}, {ID: uuid.New()}}

	out, err := e.Rank(task.Requirement{RequiredSkills: []string{"Python"}}, candidates, 1)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, alice().ID, out[0].CandidateID)
}

func TestEngine_Rank_InvalidInput(t *testing.T) {
	e := newEngine(t)

	_, err := e.Rank(task.Requirement{}, []member.TeamMember{alice()}, 0)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = e.Rank(task.Requirement{}, nil, 3)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}
