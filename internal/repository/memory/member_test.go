package memory

import (
	"context"
	"testing"

	"alfred/internal/domain"
	"alfred/internal/domain/member"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemberStore_CreateRejectsDuplicateExternalID(t *testing.T) {
	s := NewMemberStore()
	ctx := context.Background()

	m, err := s.Create(ctx, member.TeamMember{ExternalID: "d-1", Name: "Alice"})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, m.ID)
	assert.Equal(t, member.StatusActive, m.Status)

	_, err = s.Create(ctx, member.TeamMember{ExternalID: "d-1", Name: "Alice again"})
	require.ErrorIs(t, err, domain.ErrConflict)
}

func TestMemberStore_ReturnsCopies(t *testing.T) {
	s := NewMemberStore()
	ctx := context.Background()

	m, err := s.Create(ctx, member.TeamMember{
		ExternalID: "d-1",
		Skills:     []member.Skill{{Name: "Go", Level: member.LevelExpert}},
	})
	require.NoError(t, err)

	m.Skills[0].Level = member.LevelBeginner

	got, err := s.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, member.LevelExpert, got.Skills[0].Level)
}

func TestMemberStore_ListActiveFiltersStatusAndTeam(t *testing.T) {
	s := NewMemberStore()
	ctx := context.Background()

	a, _ := s.Create(ctx, member.TeamMember{ExternalID: "a", Team: "core"})
	_, _ = s.Create(ctx, member.TeamMember{ExternalID: "b", Team: "web"})
	c, _ := s.Create(ctx, member.TeamMember{ExternalID: "c", Team: "core"})
	_, err := s.SetStatus(ctx, c.ID, member.StatusInactive)
	require.NoError(t, err)

	all, err := s.ListActive(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	core, err := s.ListActive(ctx, "core")
	require.NoError(t, err)
	require.Len(t, core, 1)
	assert.Equal(t, a.ID, core[0].ID)
}

func TestMemberStore_ListActiveMatchesTeamIgnoringCase(t *testing.T) {
	s := NewMemberStore()
	ctx := context.Background()

	a, _ := s.Create(ctx, member.TeamMember{ExternalID: "a", Team: "Platform"})

	for _, team := range []string{"platform", "PLATFORM", "Platform"} {
		got, err := s.ListActive(ctx, team)
		require.NoError(t, err)
		require.Len(t, got, 1, team)
		assert.Equal(t, a.ID, got[0].ID)
	}
}

func TestMemberStore_UpdateOverwritesProfile(t *testing.T) {
	s := NewMemberStore()
	ctx := context.Background()

	m, err := s.Create(ctx, member.TeamMember{
		ExternalID: "d-1", Name: "Old", Team: "legacy", Role: "intern",
		Status: member.StatusInactive, Skills: []member.Skill{{Name: "Perl", Level: member.LevelBeginner}},
	})
	require.NoError(t, err)
	require.NoError(t, s.UpdateWorkload(ctx, m.ID, 7))

	got, err := s.Update(ctx, member.TeamMember{
		ID: m.ID, ExternalID: "ignored", Name: "New", Team: "payments", Role: "lead",
		AvailableHours: 25, Status: member.StatusActive,
		Skills: []member.Skill{{Name: "Go", Level: member.LevelExpert}},
	})
	require.NoError(t, err)
	assert.Equal(t, "d-1", got.ExternalID)
	assert.Equal(t, "New", got.Name)
	assert.Equal(t, "payments", got.Team)
	assert.Equal(t, "lead", got.Role)
	assert.Equal(t, 25.0, got.AvailableHours)
	assert.Equal(t, 7.0, got.WorkloadHours)
	assert.Equal(t, member.StatusActive, got.Status)
	require.Len(t, got.Skills, 1)
	assert.Equal(t, "Go", got.Skills[0].Name)
}

func TestMemberStore_UpdateUnknown(t *testing.T) {
	s := NewMemberStore()
	ctx := context.Background()

	require.ErrorIs(t, s.UpdateWorkload(ctx, uuid.New(), 4), domain.ErrNotFound)
	_, err := s.ReplaceSkills(ctx, uuid.New(), nil)
	require.ErrorIs(t, err, domain.ErrNotFound)
	_, err = s.Update(ctx, member.TeamMember{ID: uuid.New()})
	require.ErrorIs(t, err, domain.ErrNotFound)
}
