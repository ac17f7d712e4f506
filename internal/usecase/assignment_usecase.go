package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"alfred/internal/domain"
	"alfred/internal/domain/matching"
	"alfred/internal/domain/member"
	"alfred/internal/domain/task"
	"alfred/internal/logger"
	"alfred/internal/metrics"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultWorkloadConcurrency = 4

type RankInput struct {
	Task task.Requirement
	TopN int
	// Team restricts candidates to one team, matched ignoring case.
	Team string
}

// Candidate is a score enriched with the member fields a requester needs to
// act on it.
type Candidate struct {
	matching.Score
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	Team           string  `json:"team"`
	Role           string  `json:"role"`
	RemainingHours float64 `json:"remaining_hours"`
}

type AssignmentDeps struct {
	Members     MemberStore
	Engine      *matching.Engine
	Workload    WorkloadProvider
	Cache       RankingCache
	CacheTTL    time.Duration
	Concurrency int
	Logger      *zap.Logger
}

type Assignment struct {
	members     MemberStore
	engine      *matching.Engine
	workload    WorkloadProvider
	cache       RankingCache
	cacheTTL    time.Duration
	concurrency int
	logger      *zap.Logger
}

func NewAssignmentUsecase(d AssignmentDeps) *Assignment {
	concurrency := d.Concurrency
	if concurrency <= 0 {
		concurrency = defaultWorkloadConcurrency
	}
	return &Assignment{
		members:     d.Members,
		engine:      d.Engine,
		workload:    d.Workload,
		cache:       d.Cache,
		cacheTTL:    d.CacheTTL,
		concurrency: concurrency,
		logger:      logger.OrNop(d.Logger).Named("assignment"),
	}
}

func (u *Assignment) Rank(ctx context.Context, in RankInput) (out []Candidate, err error) {
	start := time.Now()
	defer func() { metrics.ObserveRank(start, err) }()

	if u.engine == nil {
		return nil, fmt.Errorf("%w: scoring engine is not configured", domain.ErrConfiguration)
	}
	if in.TopN <= 0 {
		return nil, fmt.Errorf("%w: top_n must be positive", domain.ErrInvalidInput)
	}
	if err := in.Task.Validate(); err != nil {
		return nil, err
	}

	in.Team = strings.TrimSpace(in.Team)
	cacheKey := RankCacheKey(in)
	if u.cache != nil {
		var cached []Candidate
		hit, err := u.cache.GetJSON(ctx, cacheKey, &cached)
		if err != nil {
			u.logger.Warn("ranking cache read failed", zap.String("key", cacheKey), zap.Error(err))
		}
		metrics.ObserveRankCache(hit)
		if hit {
			u.logger.Debug("ranking cache hit", zap.String("key", cacheKey))
			return cached, nil
		}
	}

	members, err := u.members.ListActive(ctx, in.Team)
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return nil, fmt.Errorf("%w: no active candidates", domain.ErrInvalidInput)
	}

	u.refreshWorkload(ctx, members)

	scores, err := u.engine.Rank(in.Task, members, in.TopN)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]member.TeamMember, len(members))
	for _, m := range members {
		byID[m.ID.String()] = m
	}
	out = make([]Candidate, 0, len(scores))
	for _, s := range scores {
		m := byID[s.CandidateID.String()]
		remaining := m.AvailableHours - m.WorkloadHours
		if remaining < 0 {
			remaining = 0
		}
		out = append(out, Candidate{
			Score:          s,
			Name:           m.Name,
			Email:          m.Email,
			Team:           m.Team,
			Role:           m.Role,
			RemainingHours: remaining,
		})
	}

	if u.cache != nil {
		if err := u.cache.SetJSON(ctx, cacheKey, out, u.cacheTTL); err != nil {
			u.logger.Warn("ranking cache write failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}
	return out, nil
}

// refreshWorkload pulls current workload for every member in place. A failed
// lookup keeps the stored value.
func (u *Assignment) refreshWorkload(ctx context.Context, members []member.TeamMember) {
	if u.workload == nil {
		return
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(u.concurrency)
	for i := range members {
		g.Go(func() error {
			m := members[i]
			hours, err := u.workload.WorkloadHours(gctx, m)
			if err != nil {
				u.logger.Warn("workload refresh failed, keeping stored value",
					zap.Stringer("member_id", m.ID),
					zap.Float64("workload_hours", m.WorkloadHours),
					zap.Error(err),
				)
				return nil
			}
			if hours < 0 {
				hours = 0
			}
			members[i].WorkloadHours = hours
			if hours == m.WorkloadHours {
				return nil
			}
			if err := u.members.UpdateWorkload(gctx, m.ID, hours); err != nil {
				u.logger.Warn("persisting workload failed", zap.Stringer("member_id", m.ID), zap.Error(err))
			}
			return nil
		})
	}
	_ = g.Wait()
}
