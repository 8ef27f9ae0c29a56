package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storyforge/collab-api/internal/models"
)

type mockDirectory struct {
	names map[string]string
	err   error
}

func (m *mockDirectory) DisplayNames(ctx context.Context, studentIDs []string) (map[string]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.names, nil
}

func completedSession() *models.Session {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return &models.Session{
		ID:     "s1",
		Title:  "The Lighthouse",
		Type:   models.SessionCollaborative,
		Status: models.SessionCompleted,
		Participants: []models.Participant{
			{StudentID: "a", IsActive: true},
			{StudentID: "b", IsActive: true},
		},
		Transcript: []models.Segment{
			{ID: "seg-2", AuthorID: "b", Text: "Second part.", Timestamp: base.Add(time.Minute), ApprovalStatus: models.ApprovalApproved},
			{ID: "seg-1", AuthorID: "a", Text: "First part.", Timestamp: base, ApprovalStatus: models.ApprovalApproved},
			{ID: "seg-3", AuthorID: "a", Text: "Never approved.", Timestamp: base.Add(2 * time.Minute), ApprovalStatus: models.ApprovalRejected},
		},
	}
}

func TestCompileRequiresCompletedSession(t *testing.T) {
	session := completedSession()
	session.Status = models.SessionActive
	store := newMemSessionStore(session)
	svc := NewPresentationService(store, nil, 15, nil, nil)

	_, err := svc.Compile(context.Background(), "s1", CompilePresentationRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Session must be completed before generating presentation")
}

func TestCompileApprovedSegmentsInTimeOrder(t *testing.T) {
	store := newMemSessionStore(completedSession())
	svc := NewPresentationService(store, nil, 15, nil, nil)

	pkg, err := svc.Compile(context.Background(), "s1", CompilePresentationRequest{})
	require.NoError(t, err)
	assert.Equal(t, 2, pkg.SegmentCount)
	assert.Equal(t, "First part.\n\nSecond part.", pkg.FullStory)
	assert.NotContains(t, pkg.FullStory, "Never approved")
}

func TestCompileDefaultsAndDuration(t *testing.T) {
	store := newMemSessionStore(completedSession())
	svc := NewPresentationService(store, nil, 20, nil, nil)

	pkg, err := svc.Compile(context.Background(), "s1", CompilePresentationRequest{})
	require.NoError(t, err)
	assert.Equal(t, 20, pkg.EstimatedDuration)

	pkg, err = svc.Compile(context.Background(), "s1", CompilePresentationRequest{PresentationTime: 30})
	require.NoError(t, err)
	assert.Equal(t, 30, pkg.EstimatedDuration)
}

func TestCompileRoleAssignments(t *testing.T) {
	directory := &mockDirectory{names: map[string]string{"a": "Ada"}}
	store := newMemSessionStore(completedSession())
	svc := NewPresentationService(store, directory, 15, nil, nil)

	pkg, err := svc.Compile(context.Background(), "s1", CompilePresentationRequest{})
	require.NoError(t, err)
	require.Len(t, pkg.RoleAssignments, 2)
	assert.Equal(t, "Narrator", pkg.RoleAssignments[0].Role)
	assert.Equal(t, "Ada", pkg.RoleAssignments[0].DisplayName)
	assert.Equal(t, "Character Voice", pkg.RoleAssignments[1].Role)
	// unknown ids fall back to the raw id
	assert.Equal(t, "b", pkg.RoleAssignments[1].DisplayName)
	assert.Equal(t, 3, pkg.RoleAssignments[0].DurationMinutes)
}

func TestCompileSurvivesDirectoryFailure(t *testing.T) {
	directory := &mockDirectory{err: context.DeadlineExceeded}
	store := newMemSessionStore(completedSession())
	svc := NewPresentationService(store, directory, 15, nil, nil)

	pkg, err := svc.Compile(context.Background(), "s1", CompilePresentationRequest{})
	require.NoError(t, err)
	require.Len(t, pkg.RoleAssignments, 2)
	assert.Equal(t, "a", pkg.RoleAssignments[0].DisplayName)
}

func TestCompileRubricWeightsSumToOne(t *testing.T) {
	store := newMemSessionStore(completedSession())
	svc := NewPresentationService(store, nil, 15, nil, nil)

	pkg, err := svc.Compile(context.Background(), "s1", CompilePresentationRequest{})
	require.NoError(t, err)
	total := 0.0
	for _, criterion := range pkg.Rubric {
		total += criterion.Weight
	}
	assert.InDelta(t, 1.0, total, 0.001)
	assert.NotEmpty(t, pkg.Guidelines)
}
