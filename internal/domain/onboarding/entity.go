package onboarding

import (
	"fmt"
	"strings"
	"time"

	"alfred/internal/domain"
	"alfred/internal/domain/member"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.ToLower(strings.TrimSpace(s))); st {
	case StatusPending, StatusApproved, StatusRejected:
		return st, nil
	default:
		return "", fmt.Errorf("%w: unknown onboarding status %q", domain.ErrValidation, s)
	}
}

// Profile is the form a prospective member submits.
type Profile struct {
	Name           string         `json:"name" validate:"required,max=200"`
	Email          string         `json:"email" validate:"required,email"`
	Role           string         `json:"role,omitempty" validate:"max=100"`
	Team           string         `json:"team,omitempty" validate:"max=100"`
	Bio            string         `json:"bio,omitempty" validate:"max=4000"`
	Timezone       string         `json:"timezone,omitempty" validate:"omitempty,timezone"`
	AvailableHours *float64       `json:"available_hours,omitempty" validate:"omitempty,gte=0,lte=168"`
	Skills         []member.Skill `json:"skills,omitempty"`
}

var validate = validator.New()

// Normalize trims every free-text field and lower-cases the email.
func (p Profile) Normalize() Profile {
	p.Name = strings.Join(strings.Fields(p.Name), " ")
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	p.Role = strings.TrimSpace(p.Role)
	p.Team = strings.TrimSpace(p.Team)
	p.Bio = strings.TrimSpace(p.Bio)
	p.Timezone = strings.TrimSpace(p.Timezone)
	return p
}

// Validate checks the normalized profile and reports every failing field.
func (p Profile) Validate() error {
	if err := validate.Struct(p); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s(%s)", strings.ToLower(fe.Field()), fe.Tag()))
			}
			return fmt.Errorf("%w: invalid profile fields: %s", domain.ErrValidation, strings.Join(fields, ", "))
		}
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if _, err := member.ValidateSkills(p.Skills); err != nil {
		return err
	}
	return nil
}

type Request struct {
	ID              uuid.UUID  `json:"id"`
	SubmitterID     string     `json:"submitter_id"`
	Profile         Profile    `json:"profile"`
	Status          Status     `json:"status"`
	SubmittedAt     time.Time  `json:"submitted_at"`
	DecidedAt       *time.Time `json:"decided_at,omitempty"`
	ReviewerID      *string    `json:"reviewer_id,omitempty"`
	RejectionReason *string    `json:"rejection_reason,omitempty"`
}

// Decision is the single mutation a request ever receives.
type Decision struct {
	Status     Status
	ReviewerID string
	DecidedAt  time.Time
	Reason     string
}

func (d Decision) Validate() error {
	switch d.Status {
	case StatusApproved:
		if strings.TrimSpace(d.Reason) != "" {
			return fmt.Errorf("%w: approval must not carry a rejection reason", domain.ErrValidation)
		}
	case StatusRejected:
		if strings.TrimSpace(d.Reason) == "" {
			return fmt.Errorf("%w: rejection reason is required", domain.ErrValidation)
		}
	default:
		return fmt.Errorf("%w: decision must be approved or rejected, got %q", domain.ErrValidation, d.Status)
	}
	if strings.TrimSpace(d.ReviewerID) == "" {
		return fmt.Errorf("%w: reviewer id is required", domain.ErrValidation)
	}
	return nil
}

// Apply returns the request with the decision stamped on it. The request
// must still be pending.
func (r Request) Apply(d Decision) (Request, error) {
	if r.Status != StatusPending {
		return Request{}, fmt.Errorf("%w: request %s is already %s", domain.ErrState, r.ID, r.Status)
	}
	if err := d.Validate(); err != nil {
		return Request{}, err
	}
	decidedAt := d.DecidedAt.UTC()
	reviewer := strings.TrimSpace(d.ReviewerID)
	r.Status = d.Status
	r.DecidedAt = &decidedAt
	r.ReviewerID = &reviewer
	if d.Status == StatusRejected {
		reason := strings.TrimSpace(d.Reason)
		r.RejectionReason = &reason
	}
	return r, nil
}
