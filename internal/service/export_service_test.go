package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storyforge/collab-api/internal/models"
	"github.com/storyforge/collab-api/pkg/storage"
)

type stubCompiler struct {
	pkg *models.PresentationPackage
	err error
}

func (s *stubCompiler) Compile(ctx context.Context, sessionID string, req CompilePresentationRequest) (*models.PresentationPackage, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.pkg, nil
}

type stubAssessor struct {
	result *models.AssessmentResult
	err    error
}

func (s *stubAssessor) Assess(ctx context.Context, sessionID, assessmentType string) (*models.AssessmentResult, bool, error) {
	if s.err != nil {
		return nil, false, s.err
	}
	return s.result, false, nil
}

func newExportFixture(t *testing.T) *ExportService {
	t.Helper()
	localStorage, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("test-secret", time.Hour)

	compiler := &stubCompiler{pkg: &models.PresentationPackage{
		SessionID: "s1",
		Title:     "The Lighthouse",
		FullStory: "First part.\n\nSecond part.",
		RoleAssignments: []models.PresentationRole{
			{StudentID: "a", DisplayName: "Ada", Role: "Narrator", DurationMinutes: 3},
		},
		Guidelines: []string{"Credit each author"},
	}}
	assessor := &stubAssessor{result: &models.AssessmentResult{
		SessionID: "s1",
		IndividualResults: []models.ParticipantAssessment{
			{StudentID: "a", Scores: models.ParticipantScores{Collaboration: 90, ContentContribution: 85, LearningObjectives: 70, Overall: 81.67}},
		},
	}}
	return NewExportService(compiler, assessor, localStorage, signer, ExportConfig{APIPrefix: "/api/v1", ResultTTL: time.Hour}, nil, nil, nil)
}

func TestGeneratePresentationPDF(t *testing.T) {
	svc := newExportFixture(t)
	job := &models.ExportJob{ID: "job-1", SessionID: "s1", Kind: models.ExportPresentationPDF}

	result, err := svc.Generate(context.Background(), job)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(result.URL, "/api/v1/downloads/"))
	assert.True(t, strings.HasSuffix(result.RelativePath, ".pdf"))
	assert.Equal(t, models.ExportPresentationPDF, result.Kind)

	file, err := svc.Open(result.RelativePath)
	require.NoError(t, err)
	defer file.Close() //nolint:errcheck

	info, err := file.Stat()
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestGenerateAssessmentCSV(t *testing.T) {
	svc := newExportFixture(t)
	job := &models.ExportJob{ID: "job-2", SessionID: "s1", Kind: models.ExportAssessmentCSV}

	result, err := svc.Generate(context.Background(), job)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(result.RelativePath, ".csv"))

	file, err := svc.Open(result.RelativePath)
	require.NoError(t, err)
	defer file.Close() //nolint:errcheck

	buf := make([]byte, 256)
	n, _ := file.Read(buf)
	content := string(buf[:n])
	assert.Contains(t, content, "Student ID")
	assert.Contains(t, content, "90.00")
}

func TestGenerateUnsupportedKind(t *testing.T) {
	svc := newExportFixture(t)
	_, err := svc.Generate(context.Background(), &models.ExportJob{ID: "job-3", SessionID: "s1", Kind: "WORD_DOC"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported export kind")
}

func TestGenerateTokenRoundTrip(t *testing.T) {
	svc := newExportFixture(t)
	job := &models.ExportJob{ID: "job-4", SessionID: "s1", Kind: models.ExportAssessmentCSV}

	result, err := svc.Generate(context.Background(), job)
	require.NoError(t, err)

	jobID, relPath, expiresAt, err := svc.ParseToken(result.Token, false)
	require.NoError(t, err)
	assert.Equal(t, "job-4", jobID)
	assert.Equal(t, result.RelativePath, relPath)
	assert.WithinDuration(t, result.ExpiresAt, expiresAt, time.Second)
}

func TestGenerateCompilerFailurePropagates(t *testing.T) {
	localStorage, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("test-secret", time.Hour)
	svc := NewExportService(&stubCompiler{err: assert.AnError}, &stubAssessor{}, localStorage, signer, ExportConfig{}, nil, nil, nil)

	_, err = svc.Generate(context.Background(), &models.ExportJob{ID: "job-5", SessionID: "s1", Kind: models.ExportPresentationPDF})
	require.Error(t, err)
}
