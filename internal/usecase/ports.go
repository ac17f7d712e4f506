package usecase

import (
	"context"
	"time"

	"alfred/internal/domain/member"
	"alfred/internal/domain/onboarding"
)

type MemberStore interface {
	member.Repository
}

type OnboardingStore interface {
	onboarding.Repository
}

type DocumentRef struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type DocGenerator interface {
	CreateProfileDocument(ctx context.Context, m member.TeamMember) (DocumentRef, error)
}

type RosterSheet interface {
	AppendRow(ctx context.Context, team string, m member.TeamMember, doc DocumentRef) error
}

// NotificationChannel addresses users by their chat identity, which is the
// submitter id of their onboarding request.
type NotificationChannel interface {
	NotifyUser(ctx context.Context, userID string, message string) error
	NotifyAdminChannel(ctx context.Context, message string) error
	AssignRole(ctx context.Context, userID string, role string) error
}

type WorkloadProvider interface {
	WorkloadHours(ctx context.Context, m member.TeamMember) (float64, error)
}

type MessageComposer interface {
	Welcome(ctx context.Context, m member.TeamMember) (string, error)
}

type RankingCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// EventPublisher fans workflow events out to live dashboards. Delivery is
// best-effort.
type EventPublisher interface {
	Publish(eventType string, payload any)
}
