package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/storyforge/collab-api/internal/models"
)

// ConflictRepository reads the conflict store. Conflicts are raised by an
// escalation path outside this service; here they are lookup-only.
type ConflictRepository struct {
	db *sqlx.DB
}

// NewConflictRepository constructs the repository.
func NewConflictRepository(db *sqlx.DB) *ConflictRepository {
	return &ConflictRepository{db: db}
}

// FindByID returns a conflict record. Returns sql.ErrNoRows when absent; the
// caller surfaces that as a first-class "Conflict <id> not found" outcome.
func (r *ConflictRepository) FindByID(ctx context.Context, id string) (*models.ConflictRecord, error) {
	const query = `SELECT id, session_id, segment_id, type, severity, description, raised_by, raised_at
        FROM conflict_records WHERE id = $1`
	var record models.ConflictRecord
	if err := r.db.GetContext(ctx, &record, query, id); err != nil {
		return nil, err
	}
	return &record, nil
}
