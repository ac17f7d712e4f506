package seeder

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"alfred/internal/database"
	"alfred/internal/domain"
	"alfred/internal/domain/member"
	"alfred/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MembersSeeder creates every member whose external id is not stored yet.
// Existing members are left untouched so the seeder can run on every deploy.
type MembersSeeder struct {
	Repo    member.Repository
	DB      database.DB
	Members []member.TeamMember
	Logger  *zap.Logger
}

func (MembersSeeder) Name() string { return "members" }

func (s MembersSeeder) Run(ctx context.Context) error {
	if s.Repo == nil {
		return fmt.Errorf("nil member repository")
	}
	log := logger.OrNop(s.Logger).Named("seeder")

	if s.DB != nil {
		if err := EnsureTableColumns(ctx, s.DB, "members", "id", "external_id", "name", "email", "team", "status"); err != nil {
			return err
		}
		if err := EnsureTableColumns(ctx, s.DB, "member_skills", "member_id", "name", "name_key", "level"); err != nil {
			return err
		}
	}

	created, skipped := 0, 0
	for _, m := range s.Members {
		m.ExternalID = strings.TrimSpace(m.ExternalID)
		if m.ExternalID == "" {
			return fmt.Errorf("%w: member %q has no external id", domain.ErrValidation, m.Name)
		}

		_, err := s.Repo.FindByExternalID(ctx, m.ExternalID)
		if err == nil {
			skipped++
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return err
		}

		if err := prepare(&m); err != nil {
			return fmt.Errorf("member %s: %w", m.ExternalID, err)
		}
		if _, err := s.Repo.Create(ctx, m); err != nil {
			return fmt.Errorf("member %s: %w", m.ExternalID, err)
		}
		created++
	}

	log.Info("members seeded", zap.Int("created", created), zap.Int("skipped", skipped))
	return nil
}

func prepare(m *member.TeamMember) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.Status == "" {
		m.Status = member.StatusActive
	}
	if !m.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", domain.ErrValidation, m.Status)
	}
	m.Email = strings.ToLower(strings.TrimSpace(m.Email))
	if strings.TrimSpace(m.Name) == "" || m.Email == "" {
		return fmt.Errorf("%w: name and email are required", domain.ErrValidation)
	}
	if err := member.ValidateHours(m.AvailableHours, m.WorkloadHours); err != nil {
		return err
	}
	skills, err := member.ValidateSkills(m.Skills)
	if err != nil {
		return err
	}
	m.Skills = skills
	return nil
}
