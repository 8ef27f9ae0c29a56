package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storyforge/collab-api/internal/models"
)

func newSessionRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "sqlmock")
	return sqlxDB, mock, func() { _ = db.Close() }
}

func sessionDocument(t *testing.T, session models.Session) []byte {
	t.Helper()
	document, err := json.Marshal(session)
	require.NoError(t, err)
	return document
}

func TestSessionRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newSessionRepoMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	session := models.Session{ID: "s1", Title: "The Lighthouse", Status: models.SessionActive}
	rows := sqlmock.NewRows([]string{"id", "document", "updated_at"}).
		AddRow("s1", sessionDocument(t, session), time.Now())

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, document, updated_at FROM collab_sessions WHERE id = $1`)).
		WithArgs("s1").
		WillReturnRows(rows)

	found, err := repo.FindByID(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "The Lighthouse", found.Title)
	assert.Equal(t, models.SessionActive, found.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepositoryFindByIDMissing(t *testing.T) {
	db, mock, cleanup := newSessionRepoMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, document, updated_at FROM collab_sessions WHERE id = $1`)).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "ghost")
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepositorySave(t *testing.T) {
	db, mock, cleanup := newSessionRepoMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	session := &models.Session{
		ID:            "s1",
		ClassroomID:   "class-1",
		FacilitatorID: "teacher-1",
		Type:          models.SessionCollaborative,
		Status:        models.SessionScheduled,
		CreatedAt:     time.Now().UTC(),
	}

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO collab_sessions`)).
		WithArgs("s1", "class-1", "teacher-1", models.SessionCollaborative, models.SessionScheduled,
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Save(context.Background(), session)
	require.NoError(t, err)
	assert.False(t, session.UpdatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepositoryList(t *testing.T) {
	db, mock, cleanup := newSessionRepoMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	first := models.Session{ID: "s1", ClassroomID: "class-1", Status: models.SessionActive}
	second := models.Session{ID: "s2", ClassroomID: "class-1", Status: models.SessionActive}
	rows := sqlmock.NewRows([]string{"id", "document", "updated_at"}).
		AddRow("s1", sessionDocument(t, first), time.Now()).
		AddRow("s2", sessionDocument(t, second), time.Now())

	mock.ExpectQuery(`SELECT id, document, updated_at FROM collab_sessions WHERE classroom_id = \$1 AND status = \$2`).
		WithArgs("class-1", models.SessionActive).
		WillReturnRows(rows)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM collab_sessions WHERE classroom_id = \$1 AND status = \$2`).
		WithArgs("class-1", models.SessionActive).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	sessions, total, err := repo.List(context.Background(), models.SessionFilter{
		ClassroomID: "class-1",
		Status:      models.SessionActive,
	})
	require.NoError(t, err)
	assert.Len(t, sessions, 2)
	assert.Equal(t, 2, total)
	require.NoError(t, mock.ExpectationsWereMet())
}
