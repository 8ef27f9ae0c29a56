package models

import "time"

// ExportKind identifies what artifact an export job produces.
type ExportKind string

// Export kinds.
const (
	ExportPresentationPDF ExportKind = "PRESENTATION_PDF"
	ExportAssessmentCSV   ExportKind = "ASSESSMENT_CSV"
)

// ExportStatus tracks the lifecycle of an export job.
type ExportStatus string

// Export statuses.
const (
	ExportStatusQueued     ExportStatus = "QUEUED"
	ExportStatusProcessing ExportStatus = "PROCESSING"
	ExportStatusCompleted  ExportStatus = "COMPLETED"
	ExportStatusFailed     ExportStatus = "FAILED"
)

// ExportJob is a queued request to render a session artifact to a file.
type ExportJob struct {
	ID           string       `db:"id" json:"id"`
	SessionID    string       `db:"session_id" json:"session_id"`
	Kind         ExportKind   `db:"kind" json:"kind"`
	Status       ExportStatus `db:"status" json:"status"`
	Progress     int          `db:"progress" json:"progress"`
	ResultPath   *string      `db:"result_path" json:"-"`
	ResultURL    *string      `db:"result_url" json:"result_url,omitempty"`
	ErrorMessage *string      `db:"error_message" json:"error,omitempty"`
	CreatedBy    string       `db:"created_by" json:"created_by"`
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
	FinishedAt   *time.Time   `db:"finished_at" json:"finished_at,omitempty"`
}
