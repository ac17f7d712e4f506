package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"alfred/internal/domain"
	"alfred/internal/domain/onboarding"

	"github.com/google/uuid"
)

type OnboardingStore struct {
	mu       sync.Mutex
	requests map[uuid.UUID]onboarding.Request
}

func NewOnboardingStore() *OnboardingStore {
	return &OnboardingStore{requests: make(map[uuid.UUID]onboarding.Request)}
}

var _ onboarding.Repository = (*OnboardingStore)(nil)

func (s *OnboardingStore) Create(_ context.Context, req onboarding.Request) (onboarding.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.requests[req.ID]; ok {
		return onboarding.Request{}, fmt.Errorf("%w: request %s already exists", domain.ErrConflict, req.ID)
	}
	for _, existing := range s.requests {
		if existing.SubmitterID == req.SubmitterID && existing.Status == onboarding.StatusPending {
			return onboarding.Request{}, fmt.Errorf("%w: submitter %q already has a pending request", domain.ErrConflict, req.SubmitterID)
		}
	}
	s.requests[req.ID] = req
	return req, nil
}

func (s *OnboardingStore) GetByID(_ context.Context, id uuid.UUID) (onboarding.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.requests[id]
	if !ok {
		return onboarding.Request{}, fmt.Errorf("%w: onboarding request %s", domain.ErrNotFound, id)
	}
	return req, nil
}

func (s *OnboardingStore) LatestBySubmitter(_ context.Context, submitterID string) (onboarding.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var latest onboarding.Request
	found := false
	for _, req := range s.requests {
		if req.SubmitterID != submitterID {
			continue
		}
		if !found || req.SubmittedAt.After(latest.SubmittedAt) {
			latest, found = req, true
		}
	}
	if !found {
		return onboarding.Request{}, fmt.Errorf("%w: onboarding request for submitter %s", domain.ErrNotFound, submitterID)
	}
	return latest, nil
}

func (s *OnboardingStore) FindPendingBySubmitter(_ context.Context, submitterID string) (onboarding.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, req := range s.requests {
		if req.SubmitterID == submitterID && req.Status == onboarding.StatusPending {
			return req, nil
		}
	}
	return onboarding.Request{}, fmt.Errorf("%w: pending onboarding request for submitter %s", domain.ErrNotFound, submitterID)
}

func (s *OnboardingStore) ListByStatus(_ context.Context, status onboarding.Status) ([]onboarding.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]onboarding.Request, 0)
	for _, req := range s.requests {
		if req.Status == status {
			out = append(out, req)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmittedAt.Before(out[j].SubmittedAt) })
	return out, nil
}

func (s *OnboardingStore) Decide(_ context.Context, id uuid.UUID, d onboarding.Decision) (onboarding.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.requests[id]
	if !ok {
		return onboarding.Request{}, fmt.Errorf("%w: onboarding request %s", domain.ErrNotFound, id)
	}
	decided, err := req.Apply(d)
	if err != nil {
		return onboarding.Request{}, err
	}
	s.requests[id] = decided
	return decided, nil
}
