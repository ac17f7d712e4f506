package usecase

import (
	"context"
	"fmt"
	"strings"

	"alfred/internal/domain"
	"alfred/internal/domain/member"
	"alfred/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Members struct {
	members MemberStore
	cache   RankingCache
	logger  *zap.Logger
}

func NewMembersUsecase(members MemberStore, cache RankingCache, log *zap.Logger) *Members {
	return &Members{members: members, cache: cache, logger: logger.OrNop(log).Named("members")}
}

func (u *Members) Get(ctx context.Context, id uuid.UUID) (member.TeamMember, error) {
	if id == uuid.Nil {
		return member.TeamMember{}, fmt.Errorf("%w: member id is required", domain.ErrInvalidInput)
	}
	return u.members.GetByID(ctx, id)
}

// ReplaceSkills swaps the member's whole skill set.
func (u *Members) ReplaceSkills(ctx context.Context, id uuid.UUID, skills []member.Skill) (member.TeamMember, error) {
	if id == uuid.Nil {
		return member.TeamMember{}, fmt.Errorf("%w: member id is required", domain.ErrInvalidInput)
	}
	cleaned, err := member.ValidateSkills(skills)
	if err != nil {
		return member.TeamMember{}, err
	}
	m, err := u.members.ReplaceSkills(ctx, id, cleaned)
	if err != nil {
		return member.TeamMember{}, err
	}
	u.logger.Info("member skills replaced", zap.Stringer("member_id", id), zap.Int("skills", len(cleaned)))
	u.invalidateRankings(ctx)
	return m, nil
}

func (u *Members) SetStatus(ctx context.Context, id uuid.UUID, status string) (member.TeamMember, error) {
	if id == uuid.Nil {
		return member.TeamMember{}, fmt.Errorf("%w: member id is required", domain.ErrInvalidInput)
	}
	st := member.Status(strings.ToLower(strings.TrimSpace(status)))
	if !st.Valid() {
		return member.TeamMember{}, fmt.Errorf("%w: status must be active or inactive", domain.ErrValidation)
	}
	m, err := u.members.SetStatus(ctx, id, st)
	if err != nil {
		return member.TeamMember{}, err
	}
	u.logger.Info("member status changed", zap.Stringer("member_id", id), zap.String("status", string(st)))
	u.invalidateRankings(ctx)
	return m, nil
}

func (u *Members) invalidateRankings(ctx context.Context) {
	if u.cache == nil {
		return
	}
	if err := u.cache.DeleteByPattern(ctx, rankCachePattern); err != nil {
		u.logger.Warn("ranking cache invalidation failed", zap.Error(err))
	}
}
