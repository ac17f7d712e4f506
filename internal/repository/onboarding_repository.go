package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"alfred/internal/database"
	"alfred/internal/domain"
	"alfred/internal/domain/onboarding"

	"github.com/google/uuid"
)

const onboardingColumns = `id, submitter_id, profile, status, submitted_at, decided_at, reviewer_id, rejection_reason`

type PostgresOnboardingRepository struct {
	db database.DB
}

func NewPostgresOnboardingRepository(db database.DB) *PostgresOnboardingRepository {
	return &PostgresOnboardingRepository{db: db}
}

var _ onboarding.Repository = (*PostgresOnboardingRepository)(nil)

func (r *PostgresOnboardingRepository) Create(ctx context.Context, req onboarding.Request) (onboarding.Request, error) {
	profile, err := json.Marshal(req.Profile)
	if err != nil {
		return onboarding.Request{}, err
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO onboarding_requests (id, submitter_id, profile, status, submitted_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		req.ID, req.SubmitterID, profile, string(req.Status), req.SubmittedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return onboarding.Request{}, fmt.Errorf("%w: submitter %q already has a pending request", domain.ErrConflict, req.SubmitterID)
		}
		return onboarding.Request{}, err
	}
	return req, nil
}

func (r *PostgresOnboardingRepository) GetByID(ctx context.Context, id uuid.UUID) (onboarding.Request, error) {
	row := r.db.QueryRow(ctx, `SELECT `+onboardingColumns+` FROM onboarding_requests WHERE id = $1`, id)
	return scanOne(row, "onboarding request "+id.String())
}

func (r *PostgresOnboardingRepository) LatestBySubmitter(ctx context.Context, submitterID string) (onboarding.Request, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+onboardingColumns+` FROM onboarding_requests
		 WHERE submitter_id = $1
		 ORDER BY submitted_at DESC
		 LIMIT 1`,
		submitterID,
	)
	return scanOne(row, "onboarding request for submitter "+submitterID)
}

func (r *PostgresOnboardingRepository) FindPendingBySubmitter(ctx context.Context, submitterID string) (onboarding.Request, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+onboardingColumns+` FROM onboarding_requests
		 WHERE submitter_id = $1 AND status = 'pending'`,
		submitterID,
	)
	return scanOne(row, "pending onboarding request for submitter "+submitterID)
}

func (r *PostgresOnboardingRepository) ListByStatus(ctx context.Context, status onboarding.Status) ([]onboarding.Request, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+onboardingColumns+` FROM onboarding_requests
		 WHERE status = $1
		 ORDER BY submitted_at ASC`,
		string(status),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]onboarding.Request, 0)
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Decide is a compare-and-swap on status: only a row still pending is
// updated, so concurrent reviewers cannot both win.
func (r *PostgresOnboardingRepository) Decide(ctx context.Context, id uuid.UUID, d onboarding.Decision) (onboarding.Request, error) {
	if err := d.Validate(); err != nil {
		return onboarding.Request{}, err
	}

	reviewer := strings.TrimSpace(d.ReviewerID)
	var reason *string
	if d.Status == onboarding.StatusRejected {
		trimmed := strings.TrimSpace(d.Reason)
		reason = &trimmed
	}

	n, err := r.db.Exec(ctx,
		`UPDATE onboarding_requests
		 SET status = $1, reviewer_id = $2, decided_at = $3, rejection_reason = $4
		 WHERE id = $5 AND status = 'pending'`,
		string(d.Status), reviewer, d.DecidedAt.UTC(), reason, id,
	)
	if err != nil {
		return onboarding.Request{}, err
	}
	if n == 0 {
		current, err := r.GetByID(ctx, id)
		if err != nil {
			return onboarding.Request{}, err
		}
		return onboarding.Request{}, fmt.Errorf("%w: request %s is already %s", domain.ErrState, id, current.Status)
	}

	return r.GetByID(ctx, id)
}

func scanOne(row database.Row, what string) (onboarding.Request, error) {
	req, err := scanRequest(row)
	if err != nil {
		if database.IsNoRows(err) {
			return onboarding.Request{}, fmt.Errorf("%w: %s", domain.ErrNotFound, what)
		}
		return onboarding.Request{}, err
	}
	return req, nil
}

func scanRequest(row database.Row) (onboarding.Request, error) {
	var req onboarding.Request
	var profile []byte
	var status string
	err := row.Scan(
		&req.ID, &req.SubmitterID, &profile, &status, &req.SubmittedAt,
		&req.DecidedAt, &req.ReviewerID, &req.RejectionReason,
	)
	if err != nil {
		return onboarding.Request{}, err
	}

	if err := json.Unmarshal(profile, &req.Profile); err != nil {
		return onboarding.Request{}, fmt.Errorf("decode profile of %s: %w", req.ID, err)
	}
	st, err := onboarding.ParseStatus(status)
	if err != nil {
		return onboarding.Request{}, err
	}
	req.Status = st
	req.SubmittedAt = req.SubmittedAt.UTC()
	return req, nil
}
