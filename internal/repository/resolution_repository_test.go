package repository

import (
	"context"
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storyforge/collab-api/internal/models"
)

func TestResolutionRepositoryAppend(t *testing.T) {
	db, mock, cleanup := newSessionRepoMock(t)
	defer cleanup()
	repo := NewResolutionRepository(db)

	record := &models.ConflictResolutionRecord{
		SessionID:   "s1",
		ConflictID:  "c1",
		Strategy:    models.StrategyVoting,
		InitiatorID: "a",
		Outcome: models.ResolutionOutcome{
			Success:                 true,
			Resolution:              "Adopted the majority version",
			ParticipantSatisfaction: 66.7,
			TimeToResolutionMinutes: 10,
		},
	}

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO conflict_resolutions`)).
		WithArgs(sqlmock.AnyArg(), "s1", "c1", models.StrategyVoting, "a", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Append(context.Background(), record)
	require.NoError(t, err)
	assert.NotEmpty(t, record.ID)
	assert.False(t, record.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestResolutionRepositoryListBySession(t *testing.T) {
	db, mock, cleanup := newSessionRepoMock(t)
	defer cleanup()
	repo := NewResolutionRepository(db)

	outcome, err := json.Marshal(models.ResolutionOutcome{Success: true, Resolution: "done"})
	require.NoError(t, err)

	rows := sqlmock.NewRows([]string{"id", "session_id", "conflict_id", "strategy", "initiator_id", "outcome", "created_at"}).
		AddRow("r1", "s1", "c1", "DISCUSSION", "a", outcome, time.Now())

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, session_id, conflict_id, strategy, initiator_id, outcome, created_at`)).
		WithArgs("s1").
		WillReturnRows(rows)

	records, err := repo.ListBySession(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, models.StrategyDiscussion, records[0].Strategy)
	assert.True(t, records[0].Outcome.Success)
	require.NoError(t, mock.ExpectationsWereMet())
}
