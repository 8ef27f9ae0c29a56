package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/storyforge/collab-api/internal/models"
)

// ExportJobRepository persists export job rows.
type ExportJobRepository struct {
	db *sqlx.DB
}

// NewExportJobRepository constructs the repository.
func NewExportJobRepository(db *sqlx.DB) *ExportJobRepository {
	return &ExportJobRepository{db: db}
}

// Create inserts a new export job.
func (r *ExportJobRepository) Create(ctx context.Context, job *models.ExportJob) error {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now().UTC()
	}
	if job.Status == "" {
		job.Status = models.ExportStatusQueued
	}
	const query = `INSERT INTO export_jobs (id, session_id, kind, status, progress, created_by, created_at)
        VALUES (:id, :session_id, :kind, :status, :progress, :created_by, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, job); err != nil {
		return fmt.Errorf("create export job: %w", err)
	}
	return nil
}

// GetByID returns an export job row.
func (r *ExportJobRepository) GetByID(ctx context.Context, id string) (*models.ExportJob, error) {
	const query = `SELECT id, session_id, kind, status, progress, result_path, result_url, error_message, created_by, created_at, finished_at
        FROM export_jobs WHERE id = $1`
	var job models.ExportJob
	if err := r.db.GetContext(ctx, &job, query, id); err != nil {
		return nil, err
	}
	return &job, nil
}

// UpdateExportJobParams captures the mutable subset of an export job.
type UpdateExportJobParams struct {
	Status       *models.ExportStatus
	Progress     *int
	ResultPath   *string
	ResultURL    *string
	ErrorMessage *string
	FinishedAt   *time.Time
}

// Update applies the provided fields to a job row.
func (r *ExportJobRepository) Update(ctx context.Context, id string, params UpdateExportJobParams) error {
	var sets []string
	var args []interface{}
	add := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)+1))
		args = append(args, value)
	}
	if params.Status != nil {
		add("status", *params.Status)
	}
	if params.Progress != nil {
		add("progress", *params.Progress)
	}
	if params.ResultPath != nil {
		add("result_path", *params.ResultPath)
	}
	if params.ResultURL != nil {
		add("result_url", *params.ResultURL)
	}
	if params.ErrorMessage != nil {
		add("error_message", *params.ErrorMessage)
	}
	if params.FinishedAt != nil {
		add("finished_at", *params.FinishedAt)
	}
	if len(sets) == 0 {
		return nil
	}
	query := fmt.Sprintf("UPDATE export_jobs SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args)+1)
	args = append(args, id)
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update export job %s: %w", id, err)
	}
	return nil
}

// ListQueued returns jobs still waiting for a worker, oldest first.
func (r *ExportJobRepository) ListQueued(ctx context.Context, limit int) ([]models.ExportJob, error) {
	if limit <= 0 {
		limit = 50
	}
	query := fmt.Sprintf(`SELECT id, session_id, kind, status, progress, result_path, result_url, error_message, created_by, created_at, finished_at
        FROM export_jobs WHERE status = $1 ORDER BY created_at ASC LIMIT %d`, limit)
	var jobsList []models.ExportJob
	if err := r.db.SelectContext(ctx, &jobsList, query, models.ExportStatusQueued); err != nil {
		return nil, fmt.Errorf("list queued export jobs: %w", err)
	}
	return jobsList, nil
}

// ListFinishedBefore returns completed or failed jobs older than the cutoff.
func (r *ExportJobRepository) ListFinishedBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.ExportJob, error) {
	if limit <= 0 {
		limit = 50
	}
	query := fmt.Sprintf(`SELECT id, session_id, kind, status, progress, result_path, result_url, error_message, created_by, created_at, finished_at
        FROM export_jobs WHERE finished_at IS NOT NULL AND finished_at < $1 ORDER BY finished_at ASC LIMIT %d`, limit)
	var jobsList []models.ExportJob
	if err := r.db.SelectContext(ctx, &jobsList, query, cutoff); err != nil {
		return nil, fmt.Errorf("list finished export jobs: %w", err)
	}
	return jobsList, nil
}
