package onboarding

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, r Request) (Request, error)
	GetByID(ctx context.Context, id uuid.UUID) (Request, error)
	// LatestBySubmitter returns the most recently submitted request.
	LatestBySubmitter(ctx context.Context, submitterID string) (Request, error)
	FindPendingBySubmitter(ctx context.Context, submitterID string) (Request, error)
	ListByStatus(ctx context.Context, status Status) ([]Request, error)
	// Decide moves a pending request to a terminal status atomically. It
	// fails with domain.ErrState when the request is no longer pending.
	Decide(ctx context.Context, id uuid.UUID, d Decision) (Request, error)
}
