package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"alfred/internal/database"
	"alfred/internal/domain"
	"alfred/internal/domain/member"

	"github.com/google/uuid"
)

const memberColumns = `id, external_id, name, email, role, team, timezone, bio, available_hours, workload_hours, status, created_at, updated_at`

type PostgresMemberRepository struct {
	db  database.DB
	now func() time.Time
}

func NewPostgresMemberRepository(db database.DB) *PostgresMemberRepository {
	return &PostgresMemberRepository{db: db, now: time.Now}
}

var _ member.Repository = (*PostgresMemberRepository)(nil)

func (r *PostgresMemberRepository) Create(ctx context.Context, m member.TeamMember) (member.TeamMember, error) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.Status == "" {
		m.Status = member.StatusActive
	}
	now := r.now().UTC()
	m.CreatedAt, m.UpdatedAt = now, now

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return member.TeamMember{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx,
		`INSERT INTO members (`+memberColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		m.ID, m.ExternalID, m.Name, m.Email, m.Role, m.Team, m.Timezone, m.Bio,
		m.AvailableHours, m.WorkloadHours, string(m.Status), m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return member.TeamMember{}, fmt.Errorf("%w: member with external id %q already exists", domain.ErrConflict, m.ExternalID)
		}
		return member.TeamMember{}, err
	}

	if err := insertSkills(ctx, tx, m.ID, m.Skills); err != nil {
		return member.TeamMember{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return member.TeamMember{}, err
	}
	return m, nil
}

func (r *PostgresMemberRepository) GetByID(ctx context.Context, id uuid.UUID) (member.TeamMember, error) {
	row := r.db.QueryRow(ctx, `SELECT `+memberColumns+` FROM members WHERE id = $1`, id)
	return r.loadOne(ctx, row, "id "+id.String())
}

func (r *PostgresMemberRepository) FindByExternalID(ctx context.Context, externalID string) (member.TeamMember, error) {
	row := r.db.QueryRow(ctx, `SELECT `+memberColumns+` FROM members WHERE external_id = $1`, externalID)
	return r.loadOne(ctx, row, "external id "+externalID)
}

func (r *PostgresMemberRepository) ListActive(ctx context.Context, team string) ([]member.TeamMember, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+memberColumns+` FROM members
		 WHERE status = 'active' AND ($1 = '' OR lower(team) = lower($1))
		 ORDER BY id ASC`,
		team,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]member.TeamMember, 0)
	index := make(map[uuid.UUID]int)
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		index[m.ID] = len(out)
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	skillRows, err := r.db.Query(ctx,
		`SELECT s.member_id, s.name, s.level, s.years
		 FROM member_skills s
		 JOIN members m ON m.id = s.member_id
		 WHERE m.status = 'active' AND ($1 = '' OR lower(m.team) = lower($1))
		 ORDER BY s.member_id ASC, s.position ASC`,
		team,
	)
	if err != nil {
		return nil, err
	}
	defer skillRows.Close()

	for skillRows.Next() {
		var memberID uuid.UUID
		s, err := scanSkill(skillRows, &memberID)
		if err != nil {
			return nil, err
		}
		if i, ok := index[memberID]; ok {
			out[i].Skills = append(out[i].Skills, s)
		}
	}
	if err := skillRows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresMemberRepository) ReplaceSkills(ctx context.Context, id uuid.UUID, skills []member.Skill) (member.TeamMember, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return member.TeamMember{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	n, err := tx.Exec(ctx, `UPDATE members SET updated_at = $1 WHERE id = $2`, r.now().UTC(), id)
	if err != nil {
		return member.TeamMember{}, err
	}
	if n == 0 {
		return member.TeamMember{}, fmt.Errorf("%w: member %s", domain.ErrNotFound, id)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM member_skills WHERE member_id = $1`, id); err != nil {
		return member.TeamMember{}, err
	}
	if err := insertSkills(ctx, tx, id, skills); err != nil {
		return member.TeamMember{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return member.TeamMember{}, err
	}

	return r.GetByID(ctx, id)
}

func (r *PostgresMemberRepository) Update(ctx context.Context, m member.TeamMember) (member.TeamMember, error) {
	if m.Status == "" {
		m.Status = member.StatusActive
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return member.TeamMember{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	n, err := tx.Exec(ctx,
		`UPDATE members
		 SET name = $1, email = $2, role = $3, team = $4, timezone = $5, bio = $6,
		     available_hours = $7, status = $8, updated_at = $9
		 WHERE id = $10`,
		m.Name, m.Email, m.Role, m.Team, m.Timezone, m.Bio,
		m.AvailableHours, string(m.Status), r.now().UTC(), m.ID,
	)
	if err != nil {
		return member.TeamMember{}, err
	}
	if n == 0 {
		return member.TeamMember{}, fmt.Errorf("%w: member %s", domain.ErrNotFound, m.ID)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM member_skills WHERE member_id = $1`, m.ID); err != nil {
		return member.TeamMember{}, err
	}
	if err := insertSkills(ctx, tx, m.ID, m.Skills); err != nil {
		return member.TeamMember{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return member.TeamMember{}, err
	}

	return r.GetByID(ctx, m.ID)
}

func (r *PostgresMemberRepository) SetStatus(ctx context.Context, id uuid.UUID, status member.Status) (member.TeamMember, error) {
	n, err := r.db.Exec(ctx,
		`UPDATE members SET status = $1, updated_at = $2 WHERE id = $3`,
		string(status), r.now().UTC(), id,
	)
	if err != nil {
		return member.TeamMember{}, err
	}
	if n == 0 {
		return member.TeamMember{}, fmt.Errorf("%w: member %s", domain.ErrNotFound, id)
	}
	return r.GetByID(ctx, id)
}

func (r *PostgresMemberRepository) UpdateWorkload(ctx context.Context, id uuid.UUID, hours float64) error {
	n, err := r.db.Exec(ctx,
		`UPDATE members SET workload_hours = $1, updated_at = $2 WHERE id = $3`,
		hours, r.now().UTC(), id,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: member %s", domain.ErrNotFound, id)
	}
	return nil
}

func (r *PostgresMemberRepository) loadOne(ctx context.Context, row database.Row, what string) (member.TeamMember, error) {
	m, err := scanMember(row)
	if err != nil {
		if database.IsNoRows(err) {
			return member.TeamMember{}, fmt.Errorf("%w: member with %s", domain.ErrNotFound, what)
		}
		return member.TeamMember{}, err
	}

	rows, err := r.db.Query(ctx,
		`SELECT member_id, name, level, years FROM member_skills WHERE member_id = $1 ORDER BY position ASC`,
		m.ID,
	)
	if err != nil {
		return member.TeamMember{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var memberID uuid.UUID
		s, err := scanSkill(rows, &memberID)
		if err != nil {
			return member.TeamMember{}, err
		}
		m.Skills = append(m.Skills, s)
	}
	if err := rows.Err(); err != nil {
		return member.TeamMember{}, err
	}
	return m, nil
}

type execer interface {
	Exec(ctx context.Context, query string, args ...any) (int64, error)
}

func insertSkills(ctx context.Context, ex execer, memberID uuid.UUID, skills []member.Skill) error {
	for i, s := range skills {
		_, err := ex.Exec(ctx,
			`INSERT INTO member_skills (member_id, position, name, name_key, level, years)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			memberID, i, s.Name, s.Key(), s.Level.String(), s.Years,
		)
		if err != nil {
			if database.IsUniqueViolation(err) {
				return fmt.Errorf("%w: duplicate skill %q", domain.ErrValidation, s.Name)
			}
			return err
		}
	}
	return nil
}

func scanMember(row database.Row) (member.TeamMember, error) {
	var m member.TeamMember
	var status string
	err := row.Scan(
		&m.ID, &m.ExternalID, &m.Name, &m.Email, &m.Role, &m.Team, &m.Timezone, &m.Bio,
		&m.AvailableHours, &m.WorkloadHours, &status, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return member.TeamMember{}, err
	}
	m.Status = member.Status(status)
	if !m.Status.Valid() {
		return member.TeamMember{}, errors.New("unknown member status " + status)
	}
	return m, nil
}

func scanSkill(row database.Row, memberID *uuid.UUID) (member.Skill, error) {
	var s member.Skill
	var level string
	if err := row.Scan(memberID, &s.Name, &level, &s.Years); err != nil {
		return member.Skill{}, err
	}
	lvl, err := member.ParseLevel(level)
	if err != nil {
		return member.Skill{}, err
	}
	s.Level = lvl
	return s, nil
}
