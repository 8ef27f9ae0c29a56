package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storyforge/collab-api/internal/models"
)

type mockConflictFinder struct {
	records map[string]*models.ConflictRecord
}

func (m *mockConflictFinder) FindByID(ctx context.Context, id string) (*models.ConflictRecord, error) {
	record, ok := m.records[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return record, nil
}

type mockResolutionLog struct {
	appended  []models.ConflictResolutionRecord
	appendErr error
	listErr   error
}

func (m *mockResolutionLog) Append(ctx context.Context, record *models.ConflictResolutionRecord) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	m.appended = append(m.appended, *record)
	return nil
}

func (m *mockResolutionLog) ListBySession(ctx context.Context, sessionID string) ([]models.ConflictResolutionRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.appended, nil
}

func newConflictFixture() (*ConflictService, *mockResolutionLog) {
	store := newMemSessionStore(&models.Session{ID: "s1", Status: models.SessionActive})
	finder := &mockConflictFinder{records: map[string]*models.ConflictRecord{
		"c1": {ID: "c1", SessionID: "s1", Type: models.ConflictCharacter, Severity: models.SeverityMedium},
	}}
	log := &mockResolutionLog{}
	return NewConflictService(store, finder, log, nil, nil, nil), log
}

func TestResolveVotingPlurality(t *testing.T) {
	svc, log := newConflictFixture()

	record, err := svc.Resolve(context.Background(), "s1", "c1", ResolveConflictRequest{
		Strategy:    models.StrategyVoting,
		InitiatorID: "a",
		Votes:       map[string]string{"a": "keep", "b": "keep", "c": "drop"},
	})
	require.NoError(t, err)
	assert.True(t, record.Outcome.Success)
	assert.Contains(t, record.Outcome.Resolution, "keep")
	assert.InDelta(t, 66.6, record.Outcome.ParticipantSatisfaction, 0.1)
	require.Len(t, log.appended, 1)
}

func TestResolveVotingTie(t *testing.T) {
	svc, log := newConflictFixture()

	record, err := svc.Resolve(context.Background(), "s1", "c1", ResolveConflictRequest{
		Strategy:    models.StrategyVoting,
		InitiatorID: "a",
		Votes:       map[string]string{"a": "keep", "b": "drop"},
	})
	require.NoError(t, err)
	assert.False(t, record.Outcome.Success)
	require.Len(t, log.appended, 1)
}

func TestResolveVotingEmptyBallot(t *testing.T) {
	svc, _ := newConflictFixture()

	record, err := svc.Resolve(context.Background(), "s1", "c1", ResolveConflictRequest{
		Strategy:    models.StrategyVoting,
		InitiatorID: "a",
	})
	require.NoError(t, err)
	assert.False(t, record.Outcome.Success)
	assert.Zero(t, record.Outcome.ParticipantSatisfaction)
}

func TestResolveDiscussion(t *testing.T) {
	svc, _ := newConflictFixture()

	record, err := svc.Resolve(context.Background(), "s1", "c1", ResolveConflictRequest{
		Strategy:    models.StrategyDiscussion,
		InitiatorID: "a",
		Summary:     "Agreed Mira stays in the tower",
	})
	require.NoError(t, err)
	assert.True(t, record.Outcome.Success)
	assert.Equal(t, "Agreed Mira stays in the tower", record.Outcome.Resolution)

	record, err = svc.Resolve(context.Background(), "s1", "c1", ResolveConflictRequest{
		Strategy:    models.StrategyDiscussion,
		InitiatorID: "a",
	})
	require.NoError(t, err)
	assert.False(t, record.Outcome.Success)
}

func TestResolveCompromiseNeedsMergedText(t *testing.T) {
	svc, _ := newConflictFixture()

	record, err := svc.Resolve(context.Background(), "s1", "c1", ResolveConflictRequest{
		Strategy:    models.StrategyCompromise,
		InitiatorID: "a",
		MergedText:  "Mira was in both places because of the mirror.",
	})
	require.NoError(t, err)
	assert.True(t, record.Outcome.Success)

	record, err = svc.Resolve(context.Background(), "s1", "c1", ResolveConflictRequest{
		Strategy:    models.StrategyCompromise,
		InitiatorID: "a",
	})
	require.NoError(t, err)
	assert.False(t, record.Outcome.Success)
}

func TestResolveFacilitatorDecision(t *testing.T) {
	svc, _ := newConflictFixture()

	record, err := svc.Resolve(context.Background(), "s1", "c1", ResolveConflictRequest{
		Strategy:    models.StrategyFacilitatorDecision,
		InitiatorID: "teacher-1",
		Decision:    "Keep the original version",
	})
	require.NoError(t, err)
	assert.True(t, record.Outcome.Success)
	assert.Equal(t, 5, record.Outcome.TimeToResolutionMinutes)
}

func TestResolveAlternativeVersionsAlwaysSucceeds(t *testing.T) {
	svc, _ := newConflictFixture()

	record, err := svc.Resolve(context.Background(), "s1", "c1", ResolveConflictRequest{
		Strategy:    models.StrategyAlternativeVersions,
		InitiatorID: "a",
	})
	require.NoError(t, err)
	assert.True(t, record.Outcome.Success)
	assert.InDelta(t, 90, record.Outcome.ParticipantSatisfaction, 0.01)
}

func TestResolveUnknownStrategyLeavesNoRecord(t *testing.T) {
	svc, log := newConflictFixture()

	_, err := svc.Resolve(context.Background(), "s1", "c1", ResolveConflictRequest{
		Strategy:    "COIN_FLIP",
		InitiatorID: "a",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unknown resolution strategy: COIN_FLIP")
	assert.Empty(t, log.appended)
}

func TestResolveMissingConflict(t *testing.T) {
	svc, log := newConflictFixture()

	_, err := svc.Resolve(context.Background(), "s1", "missing", ResolveConflictRequest{
		Strategy:    models.StrategyDiscussion,
		InitiatorID: "a",
		Summary:     "never reached",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Conflict missing not found")
	assert.Empty(t, log.appended)
}

func TestResolveLogFailureIsSwallowed(t *testing.T) {
	svc, log := newConflictFixture()
	log.appendErr = errors.New("db down")

	record, err := svc.Resolve(context.Background(), "s1", "c1", ResolveConflictRequest{
		Strategy:    models.StrategyAlternativeVersions,
		InitiatorID: "a",
	})
	require.NoError(t, err)
	assert.True(t, record.Outcome.Success)
}

func TestListResolutions(t *testing.T) {
	svc, log := newConflictFixture()
	log.appended = []models.ConflictResolutionRecord{
		{ID: "r1", SessionID: "s1", Strategy: models.StrategyVoting},
	}

	records, err := svc.ListResolutions(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "r1", records[0].ID)

	_, err = svc.ListResolutions(context.Background(), "ghost")
	require.Error(t, err)
}
