package dto

import (
	"time"

	"alfred/internal/domain/member"
	"alfred/internal/domain/onboarding"
	"alfred/internal/usecase"

	"github.com/google/uuid"
)

type SubmitOnboardingRequest struct {
	SubmitterID string             `json:"submitter_id"`
	Profile     onboarding.Profile `json:"profile"`
}

type ApproveOnboardingRequest struct {
	Team string `json:"team"`
	Role string `json:"role"`
}

type RejectOnboardingRequest struct {
	Reason string `json:"reason"`
}

type RetryStepRequest struct {
	Team string `json:"team"`
	Role string `json:"role"`
}

type OnboardingResponse struct {
	ID              uuid.UUID          `json:"id"`
	SubmitterID     string             `json:"submitter_id"`
	Status          string             `json:"status"`
	Profile         onboarding.Profile `json:"profile"`
	SubmittedAt     time.Time          `json:"submitted_at"`
	DecidedAt       *time.Time         `json:"decided_at,omitempty"`
	ReviewerID      *string            `json:"reviewer_id,omitempty"`
	RejectionReason *string            `json:"rejection_reason,omitempty"`
}

func NewOnboardingResponse(r onboarding.Request) OnboardingResponse {
	return OnboardingResponse{
		ID:              r.ID,
		SubmitterID:     r.SubmitterID,
		Status:          string(r.Status),
		Profile:         r.Profile,
		SubmittedAt:     r.SubmittedAt,
		DecidedAt:       r.DecidedAt,
		ReviewerID:      r.ReviewerID,
		RejectionReason: r.RejectionReason,
	}
}

func NewOnboardingListResponse(items []onboarding.Request) []OnboardingResponse {
	out := make([]OnboardingResponse, 0, len(items))
	for _, it := range items {
		out = append(out, NewOnboardingResponse(it))
	}
	return out
}

// DecisionResponse carries the committed request plus the side-effect
// checklist. FailedSteps lists what still needs manual follow-up.
type DecisionResponse struct {
	Request     OnboardingResponse   `json:"request"`
	Member      *MemberResponse      `json:"member,omitempty"`
	Document    *usecase.DocumentRef `json:"document,omitempty"`
	Steps       []usecase.StepResult `json:"steps"`
	FailedSteps []string             `json:"failed_steps"`
}

func NewDecisionResponse(rep usecase.Report) DecisionResponse {
	out := DecisionResponse{
		Request:     NewOnboardingResponse(rep.Request),
		Document:    rep.Document,
		Steps:       rep.Steps,
		FailedSteps: make([]string, 0),
	}
	if out.Steps == nil {
		out.Steps = []usecase.StepResult{}
	}
	if rep.Member != nil {
		m := NewMemberResponse(*rep.Member)
		out.Member = &m
	}
	for _, s := range rep.Failed() {
		out.FailedSteps = append(out.FailedSteps, string(s))
	}
	return out
}

func skillsOrEmpty(in []member.Skill) []member.Skill {
	if in == nil {
		return []member.Skill{}
	}
	return in
}
