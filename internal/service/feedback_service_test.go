package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storyforge/collab-api/internal/models"
)

func feedbackSession() *models.Session {
	session := turnBasedSession("a", "b")
	session.Type = models.SessionCollaborative
	session.CurrentTurn = nil
	session.Transcript = []models.Segment{{
		ID:             "seg-1",
		AuthorID:       "a",
		Text:           "The gate creaked open.",
		ApprovalStatus: models.ApprovalApproved,
	}}
	return session
}

func TestProvideFeedbackCreditsPeerReviewer(t *testing.T) {
	store := newMemSessionStore(feedbackSession())
	svc := NewFeedbackService(store, NewSessionLocks(), nil, nil, nil)

	entry, err := svc.Provide(context.Background(), "s1", "seg-1", ProvideFeedbackRequest{
		ReviewerID:   "b",
		ReviewerType: models.ReviewerPeer,
		Type:         models.FeedbackPraise,
		Content:      "Great opening line",
	})
	require.NoError(t, err)
	assert.False(t, entry.Resolved)
	assert.NotEmpty(t, entry.ID)

	session, err := store.FindByID(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, session.Transcript[0].Feedback, 1)

	reviewer := session.Participant("b")
	require.NotNil(t, reviewer)
	require.Len(t, reviewer.Contributions, 1)
	assert.Equal(t, models.ContributionFeedback, reviewer.Contributions[0].Type)
	assert.InDelta(t, 5, reviewer.EngagementScore, 0.01)
}

func TestProvideFeedbackFacilitatorNotCredited(t *testing.T) {
	store := newMemSessionStore(feedbackSession())
	svc := NewFeedbackService(store, NewSessionLocks(), nil, nil, nil)

	_, err := svc.Provide(context.Background(), "s1", "seg-1", ProvideFeedbackRequest{
		ReviewerID:   "teacher-1",
		ReviewerType: models.ReviewerFacilitator,
		Type:         models.FeedbackSuggestion,
		Content:      "Describe the gate",
	})
	require.NoError(t, err)

	session, err := store.FindByID(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, session.Transcript[0].Feedback, 1)
	for _, participant := range session.Participants {
		assert.Empty(t, participant.Contributions)
	}
}

func TestProvideFeedbackIgnoresPendingSegments(t *testing.T) {
	session := feedbackSession()
	session.Transcript = nil
	session.PendingSegments = []models.Segment{{
		ID:             "seg-pending",
		AuthorID:       "a",
		Text:           "A draft still waiting for review.",
		ApprovalStatus: models.ApprovalPending,
	}}
	store := newMemSessionStore(session)
	svc := NewFeedbackService(store, NewSessionLocks(), nil, nil, nil)

	_, err := svc.Provide(context.Background(), "s1", "seg-pending", ProvideFeedbackRequest{
		ReviewerID:   "b",
		ReviewerType: models.ReviewerPeer,
		Type:         models.FeedbackSuggestion,
		Content:      "Needs a stronger hook",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Segment seg-pending not found")

	stored, err := store.FindByID(context.Background(), "s1")
	require.NoError(t, err)
	assert.Empty(t, stored.PendingSegments[0].Feedback)
	assert.Empty(t, stored.Participant("b").Contributions)
}

func TestProvideFeedbackMissingSegment(t *testing.T) {
	store := newMemSessionStore(feedbackSession())
	svc := NewFeedbackService(store, NewSessionLocks(), nil, nil, nil)

	_, err := svc.Provide(context.Background(), "s1", "nope", ProvideFeedbackRequest{
		ReviewerID:   "b",
		ReviewerType: models.ReviewerPeer,
		Type:         models.FeedbackQuestion,
		Content:      "Where is this?",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Segment nope not found")
}

func TestResolveFeedback(t *testing.T) {
	session := feedbackSession()
	session.Transcript[0].Feedback = []models.FeedbackEntry{{ID: "f1", ReviewerID: "b"}}
	store := newMemSessionStore(session)
	svc := NewFeedbackService(store, NewSessionLocks(), nil, nil, nil)

	resolved, err := svc.ResolveFeedback(context.Background(), "s1", "seg-1", "f1")
	require.NoError(t, err)
	assert.True(t, resolved.Resolved)

	_, err = svc.ResolveFeedback(context.Background(), "s1", "seg-1", "f2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Feedback f2 not found")
}
