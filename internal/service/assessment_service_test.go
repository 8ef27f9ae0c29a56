package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storyforge/collab-api/internal/models"
	appErrors "github.com/storyforge/collab-api/pkg/errors"
)

// memCacheRepo is an in-memory CacheRepository for cache-path tests.
type memCacheRepo struct {
	entries map[string][]byte
}

func newMemCacheRepo() *memCacheRepo {
	return &memCacheRepo{entries: map[string][]byte{}}
}

func (m *memCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = raw
	return nil
}

func (m *memCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range m.entries {
		if strings.HasPrefix(key, prefix) {
			delete(m.entries, key)
		}
	}
	return nil
}

func newTestAssessmentService(store *memSessionStore, log resolutionLog) *AssessmentService {
	return NewAssessmentService(store, NewSessionLocks(), log, nil, nil, 0, nil, nil)
}

func assessmentSession() *models.Session {
	rated := 90.0
	return &models.Session{
		ID:     "s1",
		Type:   models.SessionCollaborative,
		Status: models.SessionActive,
		Participants: []models.Participant{
			{
				StudentID:           "a",
				CollaborationRating: &rated,
				Contributions: []models.Contribution{
					{Type: models.ContributionOriginalContent, QualityScore: 80},
					{Type: models.ContributionOriginalContent, QualityScore: 90},
					{Type: models.ContributionFeedback},
				},
				IsActive: true,
			},
			{StudentID: "b", IsActive: true},
		},
		Transcript: []models.Segment{
			{AuthorID: "a", Text: "The gate creaked open under the weight of years.", ApprovalStatus: models.ApprovalApproved},
		},
	}
}

func TestAssessDefaultsAndContentMean(t *testing.T) {
	store := newMemSessionStore(assessmentSession())
	svc := newTestAssessmentService(store, &mockResolutionLog{})

	result, _, err := svc.Assess(context.Background(), "s1", "")
	require.NoError(t, err)
	assert.Equal(t, "COMPREHENSIVE", result.AssessmentType)
	require.Len(t, result.IndividualResults, 2)

	first := result.IndividualResults[0]
	assert.Equal(t, "a", first.StudentID)
	assert.InDelta(t, 90, first.Scores.Collaboration, 0.01)
	// feedback contributions do not count toward content
	assert.InDelta(t, 85, first.Scores.ContentContribution, 0.01)

	second := result.IndividualResults[1]
	assert.InDelta(t, defaultCollaborationScore, second.Scores.Collaboration, 0.01)
	assert.Zero(t, second.Scores.ContentContribution)
	assert.Contains(t, second.Recommendations, "Encourage this participant to contribute to the story")

	wantAverage := (first.Scores.Overall + second.Scores.Overall) / 2
	assert.InDelta(t, wantAverage, result.GroupMetrics.AverageScore, 0.001)
}

func TestAssessReportsCacheHit(t *testing.T) {
	store := newMemSessionStore(assessmentSession())
	cache := NewCacheService(newMemCacheRepo(), nil, time.Minute, nil, true)
	svc := NewAssessmentService(store, NewSessionLocks(), &mockResolutionLog{}, nil, cache, time.Minute, nil, nil)

	first, hit, err := svc.Assess(context.Background(), "s1", "COMPREHENSIVE")
	require.NoError(t, err)
	assert.False(t, hit)

	second, hit, err := svc.Assess(context.Background(), "s1", "COMPREHENSIVE")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.InDelta(t, first.GroupMetrics.AverageScore, second.GroupMetrics.AverageScore, 0.001)

	// rating a participant invalidates cached results for the session
	require.NoError(t, svc.RateCollaboration(context.Background(), "s1", "b", RateCollaborationRequest{Rating: 40}))
	_, hit, err = svc.Assess(context.Background(), "s1", "COMPREHENSIVE")
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestAssessResolutionSuccessRate(t *testing.T) {
	store := newMemSessionStore(assessmentSession())
	log := &mockResolutionLog{appended: []models.ConflictResolutionRecord{
		{Outcome: models.ResolutionOutcome{Success: true}},
		{Outcome: models.ResolutionOutcome{Success: false}},
	}}
	svc := newTestAssessmentService(store, log)

	result, _, err := svc.Assess(context.Background(), "s1", "COMPREHENSIVE")
	require.NoError(t, err)
	assert.InDelta(t, 50, result.GroupMetrics.ConflictResolutionSuccess, 0.01)
}

func TestAssessEmptyLogReadsAsFullSuccess(t *testing.T) {
	store := newMemSessionStore(assessmentSession())
	svc := newTestAssessmentService(store, &mockResolutionLog{})

	result, _, err := svc.Assess(context.Background(), "s1", "COMPREHENSIVE")
	require.NoError(t, err)
	assert.InDelta(t, 100, result.GroupMetrics.ConflictResolutionSuccess, 0.01)
}

func TestAssessParticipationBalance(t *testing.T) {
	session := assessmentSession()
	// both wrote equally well: variance 0, balance 100
	session.Participants[1].Contributions = []models.Contribution{
		{Type: models.ContributionOriginalContent, QualityScore: 85},
	}
	session.Participants[0].Contributions = []models.Contribution{
		{Type: models.ContributionOriginalContent, QualityScore: 85},
	}
	store := newMemSessionStore(session)
	svc := newTestAssessmentService(store, &mockResolutionLog{})

	result, _, err := svc.Assess(context.Background(), "s1", "COMPREHENSIVE")
	require.NoError(t, err)
	assert.InDelta(t, 100, result.GroupMetrics.ParticipationBalance, 0.01)
}

func TestAssessUnbalancedGroupRecommendation(t *testing.T) {
	session := assessmentSession()
	session.Participants[0].Contributions = []models.Contribution{
		{Type: models.ContributionOriginalContent, QualityScore: 95},
	}
	// b contributed nothing: content 95 vs 0, variance far above 50
	store := newMemSessionStore(session)
	svc := newTestAssessmentService(store, &mockResolutionLog{})

	result, _, err := svc.Assess(context.Background(), "s1", "COMPREHENSIVE")
	require.NoError(t, err)
	assert.Zero(t, result.GroupMetrics.ParticipationBalance)
	assert.Contains(t, result.Recommendations, "Rebalance contribution opportunities; a few voices dominate the story")
}

func TestRateCollaboration(t *testing.T) {
	store := newMemSessionStore(assessmentSession())
	svc := newTestAssessmentService(store, &mockResolutionLog{})

	err := svc.RateCollaboration(context.Background(), "s1", "b", RateCollaborationRequest{Rating: 95})
	require.NoError(t, err)

	session, err := store.FindByID(context.Background(), "s1")
	require.NoError(t, err)
	participant := session.Participant("b")
	require.NotNil(t, participant.CollaborationRating)
	assert.InDelta(t, 95, *participant.CollaborationRating, 0.01)
}

func TestRateCollaborationUnknownStudent(t *testing.T) {
	store := newMemSessionStore(assessmentSession())
	svc := newTestAssessmentService(store, &mockResolutionLog{})

	err := svc.RateCollaboration(context.Background(), "s1", "zz", RateCollaborationRequest{Rating: 50})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Student zz not found in session")
}

func TestRateCollaborationRejectsOutOfRange(t *testing.T) {
	store := newMemSessionStore(assessmentSession())
	svc := newTestAssessmentService(store, &mockResolutionLog{})

	err := svc.RateCollaboration(context.Background(), "s1", "a", RateCollaborationRequest{Rating: 150})
	require.Error(t, err)
}

func TestVariance(t *testing.T) {
	assert.Zero(t, variance(nil))
	assert.Zero(t, variance([]float64{50, 50, 50}))
	assert.InDelta(t, 25, variance([]float64{45, 55}), 0.01)
}
