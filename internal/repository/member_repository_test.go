package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"alfred/internal/database/sqldb"
	"alfred/internal/domain"
	"alfred/internal/domain/member"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var memberCols = []string{"id", "external_id", "name", "email", "role", "team", "timezone", "bio", "available_hours", "workload_hours", "status", "created_at", "updated_at"}
var skillCols = []string{"member_id", "name", "level", "years"}

func newMemberRepo(t *testing.T) (*PostgresMemberRepository, sqlmock.Sqlmock, time.Time) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	now := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	repo := NewPostgresMemberRepository(sqldb.New(db))
	repo.now = func() time.Time { return now }
	return repo, mock, now
}

func TestMemberRepo_Create(t *testing.T) {
	repo, mock, now := newMemberRepo(t)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO members")).
		WithArgs(id, "discord-7", "Bob", "bob@example.com", "backend", "core", "UTC", "", 40.0, 0.0, "active", now, now).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO member_skills")).
		WithArgs(id, 0, "Go", "go", "expert", nil).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	created, err := repo.Create(context.Background(), member.TeamMember{
		ID: id, ExternalID: "discord-7", Name: "Bob", Email: "bob@example.com", Role: "backend", Team: "core",
		Timezone: "UTC", AvailableHours: 40, Skills: []member.Skill{{Name: "Go", Level: member.LevelExpert}},
	})
	require.NoError(t, err)
	assert.Equal(t, member.StatusActive, created.Status)
	assert.Equal(t, now, created.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberRepo_Create_DuplicateExternalID(t *testing.T) {
	repo, mock, _ := newMemberRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO members")).WillReturnError(&pgconn.PgError{Code: "23505"})
	mock.ExpectRollback()

	_, err := repo.Create(context.Background(), member.TeamMember{ExternalID: "discord-7", Name: "Bob"})
	require.ErrorIs(t, err, domain.ErrConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberRepo_GetByID_LoadsSkills(t *testing.T) {
	repo, mock, now := newMemberRepo(t)
	id := uuid.New()
	years := 4.0

	mock.ExpectQuery(regexp.QuoteMeta("FROM members WHERE id = $1")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(memberCols).
			AddRow(id.String(), "discord-7", "Bob", "bob@example.com", "backend", "core", "UTC", "", 40.0, 12.5, "active", now, now))
	mock.ExpectQuery(regexp.QuoteMeta("FROM member_skills WHERE member_id = $1")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(skillCols).
			AddRow(id.String(), "Go", "expert", years).
			AddRow(id.String(), "SQL", "intermediate", nil))

	m, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 12.5, m.WorkloadHours)
	require.Len(t, m.Skills, 2)
	assert.Equal(t, member.LevelExpert, m.Skills[0].Level)
	require.NotNil(t, m.Skills[0].Years)
	assert.Equal(t, 4.0, *m.Skills[0].Years)
	assert.Nil(t, m.Skills[1].Years)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberRepo_FindByExternalID_NotFound(t *testing.T) {
	repo, mock, _ := newMemberRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM members WHERE external_id = $1")).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows(memberCols))

	_, err := repo.FindByExternalID(context.Background(), "ghost")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMemberRepo_ListActive_AttachesSkills(t *testing.T) {
	repo, mock, now := newMemberRepo(t)
	a, b := uuid.New(), uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE status = 'active'")).
		WithArgs("core").
		WillReturnRows(sqlmock.NewRows(memberCols).
			AddRow(a.String(), "x", "A", "a@example.com", "", "core", "", "", 40.0, 0.0, "active", now, now).
			AddRow(b.String(), "y", "B", "b@example.com", "", "core", "", "", 20.0, 5.0, "active", now, now))
	mock.ExpectQuery(regexp.QuoteMeta("FROM member_skills s")).
		WithArgs("core").
		WillReturnRows(sqlmock.NewRows(skillCols).
			AddRow(b.String(), "Go", "advanced", nil))

	out, err := repo.ListActive(context.Background(), "core")
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Empty(t, out[0].Skills)
	require.Len(t, out[1].Skills, 1)
	assert.Equal(t, "Go", out[1].Skills[0].Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberRepo_ListActive_TeamIsCaseInsensitive(t *testing.T) {
	repo, mock, now := newMemberRepo(t)
	a := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("lower(team) = lower($1)")).
		WithArgs("PLATFORM").
		WillReturnRows(sqlmock.NewRows(memberCols).
			AddRow(a.String(), "x", "A", "a@example.com", "", "platform", "", "", 40.0, 0.0, "active", now, now))
	mock.ExpectQuery(regexp.QuoteMeta("lower(m.team) = lower($1)")).
		WithArgs("PLATFORM").
		WillReturnRows(sqlmock.NewRows(skillCols))

	out, err := repo.ListActive(context.Background(), "PLATFORM")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "platform", out[0].Team)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberRepo_Update_RewritesProfileAndSkills(t *testing.T) {
	repo, mock, now := newMemberRepo(t)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE members")).
		WithArgs("Bob", "bob@new.example.com", "lead", "payments", "UTC", "", 30.0, "active", now, id).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM member_skills WHERE member_id = $1")).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO member_skills")).
		WithArgs(id, 0, "Rust", "rust", "advanced", nil).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()
	mock.ExpectQuery(regexp.QuoteMeta("FROM members WHERE id = $1")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(memberCols).
			AddRow(id.String(), "discord-7", "Bob", "bob@new.example.com", "lead", "payments", "UTC", "", 30.0, 6.0, "active", now, now))
	mock.ExpectQuery(regexp.QuoteMeta("FROM member_skills WHERE member_id = $1")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(skillCols).AddRow(id.String(), "Rust", "advanced", nil))

	m, err := repo.Update(context.Background(), member.TeamMember{
		ID: id, Name: "Bob", Email: "bob@new.example.com", Role: "lead", Team: "payments",
		Timezone: "UTC", AvailableHours: 30, Status: member.StatusActive,
		Skills: []member.Skill{{Name: "Rust", Level: member.LevelAdvanced}},
	})
	require.NoError(t, err)
	assert.Equal(t, "payments", m.Team)
	assert.Equal(t, 6.0, m.WorkloadHours)
	require.Len(t, m.Skills, 1)
	assert.Equal(t, "Rust", m.Skills[0].Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberRepo_Update_UnknownMember(t *testing.T) {
	repo, mock, _ := newMemberRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE members")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := repo.Update(context.Background(), member.TeamMember{ID: uuid.New(), Name: "Ghost"})
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberRepo_UpdateWorkload_NotFound(t *testing.T) {
	repo, mock, now := newMemberRepo(t)
	id := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE members SET workload_hours")).
		WithArgs(8.0, now, id).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateWorkload(context.Background(), id, 8)
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberRepo_ReplaceSkills_UnknownMember(t *testing.T) {
	repo, mock, _ := newMemberRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE members SET updated_at")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := repo.ReplaceSkills(context.Background(), uuid.New(), nil)
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
