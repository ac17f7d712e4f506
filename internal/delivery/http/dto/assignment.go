package dto

import (
	"alfred/internal/domain/task"
	"alfred/internal/usecase"

	"github.com/google/uuid"
)

type TaskRequest struct {
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	RequiredSkills []string `json:"required_skills"`
	EstimatedHours float64  `json:"estimated_hours"`
	Priority       string   `json:"priority"`
}

func (t TaskRequest) Requirement() task.Requirement {
	return task.Requirement{
		Name:           t.Name,
		Description:    t.Description,
		RequiredSkills: t.RequiredSkills,
		EstimatedHours: t.EstimatedHours,
		Priority:       task.Priority(t.Priority),
	}
}

type RankRequest struct {
	Task TaskRequest `json:"task"`
	TopN int         `json:"top_n"`
	Team string      `json:"team"`
}

type CandidateResponse struct {
	Rank                  int       `json:"rank"`
	MemberID              uuid.UUID `json:"member_id"`
	Name                  string    `json:"name"`
	Email                 string    `json:"email"`
	Team                  string    `json:"team"`
	Role                  string    `json:"role"`
	RemainingHours        float64   `json:"remaining_hours"`
	SkillComponent        float64   `json:"skill_component"`
	AvailabilityComponent float64   `json:"availability_component"`
	Overall               float64   `json:"overall"`
}

func NewCandidateListResponse(items []usecase.Candidate) []CandidateResponse {
	out := make([]CandidateResponse, 0, len(items))
	for i, it := range items {
		out = append(out, CandidateResponse{
			Rank:                  i + 1,
			MemberID:              it.CandidateID,
			Name:                  it.Name,
			Email:                 it.Email,
			Team:                  it.Team,
			Role:                  it.Role,
			RemainingHours:        it.RemainingHours,
			SkillComponent:        it.SkillComponent,
			AvailabilityComponent: it.AvailabilityComponent,
			Overall:               it.Overall,
		})
	}
	return out
}
