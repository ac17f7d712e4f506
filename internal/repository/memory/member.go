// Package memory holds in-process stores used when no database is
// configured and as collaborators in tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"alfred/internal/domain"
	"alfred/internal/domain/member"

	"github.com/google/uuid"
)

type MemberStore struct {
	mu      sync.RWMutex
	members map[uuid.UUID]member.TeamMember
	now     func() time.Time
}

func NewMemberStore() *MemberStore {
	return &MemberStore{members: make(map[uuid.UUID]member.TeamMember), now: time.Now}
}

var _ member.Repository = (*MemberStore)(nil)

func (s *MemberStore) Create(_ context.Context, m member.TeamMember) (member.TeamMember, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.members {
		if existing.ExternalID == m.ExternalID {
			return member.TeamMember{}, fmt.Errorf("%w: member with external id %q already exists", domain.ErrConflict, m.ExternalID)
		}
	}
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.Status == "" {
		m.Status = member.StatusActive
	}
	now := s.now().UTC()
	m.CreatedAt, m.UpdatedAt = now, now
	m.Skills = cloneSkills(m.Skills)
	s.members[m.ID] = m
	return cloneMember(m), nil
}

func (s *MemberStore) GetByID(_ context.Context, id uuid.UUID) (member.TeamMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.members[id]
	if !ok {
		return member.TeamMember{}, fmt.Errorf("%w: member with id %s", domain.ErrNotFound, id)
	}
	return cloneMember(m), nil
}

func (s *MemberStore) FindByExternalID(_ context.Context, externalID string) (member.TeamMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, m := range s.members {
		if m.ExternalID == externalID {
			return cloneMember(m), nil
		}
	}
	return member.TeamMember{}, fmt.Errorf("%w: member with external id %s", domain.ErrNotFound, externalID)
}

func (s *MemberStore) ListActive(_ context.Context, team string) ([]member.TeamMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]member.TeamMember, 0, len(s.members))
	for _, m := range s.members {
		if !m.IsActive() {
			continue
		}
		if team != "" && !strings.EqualFold(m.Team, team) {
			continue
		}
		out = append(out, cloneMember(m))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, nil
}

func (s *MemberStore) ReplaceSkills(_ context.Context, id uuid.UUID, skills []member.Skill) (member.TeamMember, error) {
	return s.update(id, func(m *member.TeamMember) {
		m.Skills = cloneSkills(skills)
	})
}

func (s *MemberStore) Update(_ context.Context, next member.TeamMember) (member.TeamMember, error) {
	return s.update(next.ID, func(m *member.TeamMember) {
		m.Name, m.Email = next.Name, next.Email
		m.Role, m.Team = next.Role, next.Team
		m.Timezone, m.Bio = next.Timezone, next.Bio
		m.AvailableHours = next.AvailableHours
		if next.Status != "" {
			m.Status = next.Status
		}
		m.Skills = cloneSkills(next.Skills)
	})
}

func (s *MemberStore) SetStatus(_ context.Context, id uuid.UUID, status member.Status) (member.TeamMember, error) {
	return s.update(id, func(m *member.TeamMember) {
		m.Status = status
	})
}

func (s *MemberStore) UpdateWorkload(_ context.Context, id uuid.UUID, hours float64) error {
	_, err := s.update(id, func(m *member.TeamMember) {
		m.WorkloadHours = hours
	})
	return err
}

func (s *MemberStore) update(id uuid.UUID, fn func(m *member.TeamMember)) (member.TeamMember, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.members[id]
	if !ok {
		return member.TeamMember{}, fmt.Errorf("%w: member with id %s", domain.ErrNotFound, id)
	}
	fn(&m)
	m.UpdatedAt = s.now().UTC()
	s.members[id] = m
	return cloneMember(m), nil
}

func cloneMember(m member.TeamMember) member.TeamMember {
	m.Skills = cloneSkills(m.Skills)
	return m
}

func cloneSkills(in []member.Skill) []member.Skill {
	if in == nil {
		return nil
	}
	out := make([]member.Skill, len(in))
	copy(out, in)
	return out
}
