package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storyforge/collab-api/internal/models"
	"github.com/storyforge/collab-api/internal/repository"
	"github.com/storyforge/collab-api/pkg/jobs"
)

type mockExportJobStore struct {
	jobs      map[string]*models.ExportJob
	createErr error
}

func newMockExportJobStore() *mockExportJobStore {
	return &mockExportJobStore{jobs: make(map[string]*models.ExportJob)}
}

func (m *mockExportJobStore) Create(ctx context.Context, job *models.ExportJob) error {
	if m.createErr != nil {
		return m.createErr
	}
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	copied := *job
	m.jobs[job.ID] = &copied
	return nil
}

func (m *mockExportJobStore) GetByID(ctx context.Context, id string) (*models.ExportJob, error) {
	job, ok := m.jobs[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *job
	return &copied, nil
}

func (m *mockExportJobStore) Update(ctx context.Context, id string, params repository.UpdateExportJobParams) error {
	job, ok := m.jobs[id]
	if !ok {
		return sql.ErrNoRows
	}
	if params.Status != nil {
		job.Status = *params.Status
	}
	if params.Progress != nil {
		job.Progress = *params.Progress
	}
	if params.ResultPath != nil {
		job.ResultPath = params.ResultPath
	}
	if params.ResultURL != nil {
		job.ResultURL = params.ResultURL
	}
	if params.ErrorMessage != nil {
		job.ErrorMessage = params.ErrorMessage
	}
	if params.FinishedAt != nil {
		job.FinishedAt = params.FinishedAt
	}
	return nil
}

func (m *mockExportJobStore) ListQueued(ctx context.Context, limit int) ([]models.ExportJob, error) {
	var queued []models.ExportJob
	for _, job := range m.jobs {
		if job.Status == models.ExportStatusQueued {
			queued = append(queued, *job)
		}
	}
	return queued, nil
}

func (m *mockExportJobStore) ListFinishedBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.ExportJob, error) {
	return nil, nil
}

type mockDispatcher struct {
	enqueued   []jobs.Job
	enqueueErr error
}

func (m *mockDispatcher) Enqueue(job jobs.Job) error {
	if m.enqueueErr != nil {
		return m.enqueueErr
	}
	m.enqueued = append(m.enqueued, job)
	return nil
}

func newJobFixture() (*ExportJobService, *mockExportJobStore, *mockDispatcher) {
	store := newMockExportJobStore()
	dispatcher := &mockDispatcher{}
	sessions := newMemSessionStore(&models.Session{ID: "s1", Status: models.SessionCompleted})
	svc := NewExportJobService(store, sessions, dispatcher, nil, nil, ExportJobServiceConfig{})
	return svc, store, dispatcher
}

func TestCreateJobEnqueues(t *testing.T) {
	svc, store, dispatcher := newJobFixture()

	job, err := svc.CreateJob(context.Background(), "s1", models.ExportPresentationPDF, "teacher-1")
	require.NoError(t, err)
	assert.Equal(t, models.ExportStatusQueued, job.Status)
	assert.Equal(t, "teacher-1", job.CreatedBy)
	require.Len(t, dispatcher.enqueued, 1)
	assert.Equal(t, job.ID, dispatcher.enqueued[0].ID)
	_, ok := store.jobs[job.ID]
	assert.True(t, ok)
}

func TestCreateJobRejectsUnknownKind(t *testing.T) {
	svc, _, _ := newJobFixture()

	_, err := svc.CreateJob(context.Background(), "s1", "WORD_DOC", "teacher-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported export kind")
}

func TestCreateJobMissingSession(t *testing.T) {
	svc, _, _ := newJobFixture()

	_, err := svc.CreateJob(context.Background(), "ghost", models.ExportAssessmentCSV, "teacher-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Session ghost not found")
}

func TestCreateJobEnqueueFailureMarksFailed(t *testing.T) {
	svc, store, dispatcher := newJobFixture()
	dispatcher.enqueueErr = errors.New("queue closed")

	_, err := svc.CreateJob(context.Background(), "s1", models.ExportAssessmentCSV, "teacher-1")
	require.Error(t, err)

	require.Len(t, store.jobs, 1)
	for _, job := range store.jobs {
		assert.Equal(t, models.ExportStatusFailed, job.Status)
	}
}

func TestGetStatusOwnership(t *testing.T) {
	svc, store, _ := newJobFixture()
	store.jobs["job-1"] = &models.ExportJob{ID: "job-1", SessionID: "s1", CreatedBy: "teacher-1", Status: models.ExportStatusQueued}

	job, err := svc.GetStatus(context.Background(), "job-1", "teacher-1", models.RoleFacilitator)
	require.NoError(t, err)
	assert.Equal(t, "job-1", job.ID)

	_, err = svc.GetStatus(context.Background(), "job-1", "teacher-2", models.RoleFacilitator)
	require.Error(t, err)

	job, err = svc.GetStatus(context.Background(), "job-1", "someone-else", models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, "job-1", job.ID)

	_, err = svc.GetStatus(context.Background(), "missing", "teacher-1", models.RoleFacilitator)
	require.Error(t, err)
}

type mockGenerator struct {
	result *ExportResult
	err    error
}

func (m *mockGenerator) Generate(ctx context.Context, job *models.ExportJob) (*ExportResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func TestWorkerHandleSuccess(t *testing.T) {
	store := newMockExportJobStore()
	store.jobs["job-1"] = &models.ExportJob{ID: "job-1", SessionID: "s1", Kind: models.ExportPresentationPDF, Status: models.ExportStatusQueued}
	generator := &mockGenerator{result: &ExportResult{RelativePath: "file.pdf", URL: "/api/v1/downloads/tok"}}
	worker := NewExportWorker(store, generator, 3, nil)

	err := worker.Handle(context.Background(), jobs.Job{ID: "job-1"})
	require.NoError(t, err)

	job := store.jobs["job-1"]
	assert.Equal(t, models.ExportStatusCompleted, job.Status)
	assert.Equal(t, 100, job.Progress)
	require.NotNil(t, job.ResultURL)
	assert.Equal(t, "/api/v1/downloads/tok", *job.ResultURL)
	require.NotNil(t, job.FinishedAt)
}

func TestWorkerHandleRetryThenFail(t *testing.T) {
	store := newMockExportJobStore()
	store.jobs["job-1"] = &models.ExportJob{ID: "job-1", SessionID: "s1", Kind: models.ExportPresentationPDF, Status: models.ExportStatusQueued}
	generator := &mockGenerator{err: errors.New("render failed")}
	worker := NewExportWorker(store, generator, 2, nil)

	// First attempt: requeued for retry.
	err := worker.Handle(context.Background(), jobs.Job{ID: "job-1", Attempt: 1})
	require.Error(t, err)
	assert.Equal(t, models.ExportStatusQueued, store.jobs["job-1"].Status)

	// Final attempt: marked failed.
	err = worker.Handle(context.Background(), jobs.Job{ID: "job-1", Attempt: 2})
	require.Error(t, err)
	job := store.jobs["job-1"]
	assert.Equal(t, models.ExportStatusFailed, job.Status)
	require.NotNil(t, job.ErrorMessage)
	assert.Equal(t, "render failed", *job.ErrorMessage)
}
