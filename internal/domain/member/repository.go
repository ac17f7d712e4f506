package member

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, m TeamMember) (TeamMember, error)
	GetByID(ctx context.Context, id uuid.UUID) (TeamMember, error)
	FindByExternalID(ctx context.Context, externalID string) (TeamMember, error)
	ListActive(ctx context.Context, team string) ([]TeamMember, error)
	ReplaceSkills(ctx context.Context, id uuid.UUID, skills []Skill) (TeamMember, error)
	// Update overwrites the profile, status and skills of the member with
	// m.ID. ExternalID, workload and CreatedAt are left untouched.
	Update(ctx context.Context, m TeamMember) (TeamMember, error)
	SetStatus(ctx context.Context, id uuid.UUID, status Status) (TeamMember, error)
	UpdateWorkload(ctx context.Context, id uuid.UUID, hours float64) error
}
