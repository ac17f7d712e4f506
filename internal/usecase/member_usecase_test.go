package usecase

import (
	"context"
	"testing"

	"alfred/internal/domain"
	"alfred/internal/domain/member"
	"alfred/internal/repository/memory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMembers_ReplaceSkills(t *testing.T) {
	store := memory.NewMemberStore()
	alice, _ := seedMembers(t, store)
	cache := newFakeCache()
	uc := NewMembersUsecase(store, cache, nil)

	m, err := uc.ReplaceSkills(context.Background(), alice.ID, []member.Skill{
		{Name: "  Rust ", Level: member.LevelBeginner},
	})
	require.NoError(t, err)
	require.Len(t, m.Skills, 1)
	assert.Equal(t, "Rust", m.Skills[0].Name)
	assert.Equal(t, []string{rankCachePattern}, cache.deleted)
}

func TestMembers_ReplaceSkills_Invalid(t *testing.T) {
	store := memory.NewMemberStore()
	alice, _ := seedMembers(t, store)
	uc := NewMembersUsecase(store, nil, nil)

	_, err := uc.ReplaceSkills(context.Background(), alice.ID, []member.Skill{
		{Name: "Go", Level: member.LevelExpert},
		{Name: "GO", Level: member.LevelAdvanced},
	})
	require.ErrorIs(t, err, domain.ErrValidation)

	unchanged, err := uc.Get(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.Len(t, unchanged.Skills, 2)
}

func TestMembers_SetStatus(t *testing.T) {
	store := memory.NewMemberStore()
	_, bob := seedMembers(t, store)
	uc := NewMembersUsecase(store, newFakeCache(), nil)
	ctx := context.Background()

	m, err := uc.SetStatus(ctx, bob.ID, "Inactive")
	require.NoError(t, err)
	assert.Equal(t, member.StatusInactive, m.Status)

	_, err = uc.SetStatus(ctx, bob.ID, "deleted")
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = uc.SetStatus(ctx, uuid.New(), "active")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMembers_Get_NilID(t *testing.T) {
	uc := NewMembersUsecase(memory.NewMemberStore(), nil, nil)
	_, err := uc.Get(context.Background(), uuid.Nil)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}
