package dto

import (
	"time"

	"alfred/internal/domain/member"

	"github.com/google/uuid"
)

type MemberResponse struct {
	ID             uuid.UUID      `json:"id"`
	ExternalID     string         `json:"external_id"`
	Name           string         `json:"name"`
	Email          string         `json:"email"`
	Role           string         `json:"role"`
	Team           string         `json:"team"`
	Timezone       string         `json:"timezone,omitempty"`
	Bio            string         `json:"bio,omitempty"`
	AvailableHours float64        `json:"available_hours"`
	WorkloadHours  float64        `json:"workload_hours"`
	Status         string         `json:"status"`
	Skills         []member.Skill `json:"skills"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

func NewMemberResponse(m member.TeamMember) MemberResponse {
	return MemberResponse{
		ID:             m.ID,
		ExternalID:     m.ExternalID,
		Name:           m.Name,
		Email:          m.Email,
		Role:           m.Role,
		Team:           m.Team,
		Timezone:       m.Timezone,
		Bio:            m.Bio,
		AvailableHours: m.AvailableHours,
		WorkloadHours:  m.WorkloadHours,
		Status:         string(m.Status),
		Skills:         skillsOrEmpty(m.Skills),
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

type ReplaceSkillsRequest struct {
	Skills []member.Skill `json:"skills"`
}

type SetMemberStatusRequest struct {
	Status string `json:"status"`
}
