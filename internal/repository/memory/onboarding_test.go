package memory

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"alfred/internal/domain"
	"alfred/internal/domain/onboarding"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pendingRequest(submitter string, at time.Time) onboarding.Request {
	return onboarding.Request{
		ID:          uuid.New(),
		SubmitterID: submitter,
		Profile:     onboarding.Profile{Name: "Alice", Email: "alice@example.com"},
		Status:      onboarding.StatusPending,
		SubmittedAt: at,
	}
}

func TestOnboardingStore_OnePendingPerSubmitter(t *testing.T) {
	s := NewOnboardingStore()
	ctx := context.Background()

	_, err := s.Create(ctx, pendingRequest("u1", time.Now()))
	require.NoError(t, err)

	_, err = s.Create(ctx, pendingRequest("u1", time.Now()))
	require.ErrorIs(t, err, domain.ErrConflict)

	_, err = s.Create(ctx, pendingRequest("u2", time.Now()))
	require.NoError(t, err)
}

func TestOnboardingStore_LatestBySubmitter(t *testing.T) {
	s := NewOnboardingStore()
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	first, err := s.Create(ctx, pendingRequest("u1", base))
	require.NoError(t, err)
	_, err = s.Decide(ctx, first.ID, onboarding.Decision{
		Status: onboarding.StatusRejected, ReviewerID: "rev", DecidedAt: base, Reason: "incomplete",
	})
	require.NoError(t, err)

	second, err := s.Create(ctx, pendingRequest("u1", base.Add(time.Hour)))
	require.NoError(t, err)

	latest, err := s.LatestBySubmitter(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)

	_, err = s.LatestBySubmitter(ctx, "nobody")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestOnboardingStore_ConcurrentDecideHasOneWinner(t *testing.T) {
	s := NewOnboardingStore()
	ctx := context.Background()
	req, err := s.Create(ctx, pendingRequest("u1", time.Now()))
	require.NoError(t, err)

	var wins, stateErrs atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Decide(ctx, req.ID, onboarding.Decision{
				Status: onboarding.StatusApproved, ReviewerID: "rev", DecidedAt: time.Now(),
			})
			switch {
			case err == nil:
				wins.Add(1)
			case assert.ErrorIs(t, err, domain.ErrState):
				stateErrs.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, wins.Load())
	assert.EqualValues(t, 15, stateErrs.Load())
}

func TestOnboardingStore_ListByStatusOrdersBySubmission(t *testing.T) {
	s := NewOnboardingStore()
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	late, _ := s.Create(ctx, pendingRequest("late", base.Add(2*time.Hour)))
	early, _ := s.Create(ctx, pendingRequest("early", base))

	out, err := s.ListByStatus(ctx, onboarding.StatusPending)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, early.ID, out[0].ID)
	assert.Equal(t, late.ID, out[1].ID)

	approved, err := s.ListByStatus(ctx, onboarding.StatusApproved)
	require.NoError(t, err)
	assert.Empty(t, approved)
}
