package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/storyforge/collab-api/internal/models"
)

// ResolutionRepository appends and lists conflict resolution audit records.
// Rows are never updated or deleted.
type ResolutionRepository struct {
	db *sqlx.DB
}

// NewResolutionRepository constructs the repository.
func NewResolutionRepository(db *sqlx.DB) *ResolutionRepository {
	return &ResolutionRepository{db: db}
}

type resolutionRow struct {
	ID          string    `db:"id"`
	SessionID   string    `db:"session_id"`
	ConflictID  string    `db:"conflict_id"`
	Strategy    string    `db:"strategy"`
	InitiatorID string    `db:"initiator_id"`
	Outcome     []byte    `db:"outcome"`
	CreatedAt   time.Time `db:"created_at"`
}

// Append inserts a resolution record.
func (r *ResolutionRepository) Append(ctx context.Context, record *models.ConflictResolutionRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	outcome, err := json.Marshal(record.Outcome)
	if err != nil {
		return fmt.Errorf("encode resolution outcome: %w", err)
	}
	const query = `INSERT INTO conflict_resolutions (id, session_id, conflict_id, strategy, initiator_id, outcome, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := r.db.ExecContext(ctx, query,
		record.ID, record.SessionID, record.ConflictID,
		record.Strategy, record.InitiatorID, outcome, record.CreatedAt,
	); err != nil {
		return fmt.Errorf("append resolution record: %w", err)
	}
	return nil
}

// ListBySession returns resolution records for a session, oldest first.
func (r *ResolutionRepository) ListBySession(ctx context.Context, sessionID string) ([]models.ConflictResolutionRecord, error) {
	const query = `SELECT id, session_id, conflict_id, strategy, initiator_id, outcome, created_at
        FROM conflict_resolutions WHERE session_id = $1 ORDER BY created_at ASC`
	var rows []resolutionRow
	if err := r.db.SelectContext(ctx, &rows, query, sessionID); err != nil {
		return nil, fmt.Errorf("list resolutions: %w", err)
	}
	records := make([]models.ConflictResolutionRecord, 0, len(rows))
	for _, row := range rows {
		record := models.ConflictResolutionRecord{
			ID:          row.ID,
			SessionID:   row.SessionID,
			ConflictID:  row.ConflictID,
			Strategy:    models.ResolutionStrategy(row.Strategy),
			InitiatorID: row.InitiatorID,
			CreatedAt:   row.CreatedAt,
		}
		if err := json.Unmarshal(row.Outcome, &record.Outcome); err != nil {
			return nil, fmt.Errorf("decode resolution outcome %s: %w", row.ID, err)
		}
		records = append(records, record)
	}
	return records, nil
}
