package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/storyforge/collab-api/internal/models"
)

// SessionRepository persists session aggregates as JSONB documents keyed by
// id. No cross-aggregate transaction guarantees are offered or needed.
type SessionRepository struct {
	db *sqlx.DB
}

// NewSessionRepository constructs the repository.
func NewSessionRepository(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

type sessionRow struct {
	ID        string    `db:"id"`
	Document  []byte    `db:"document"`
	UpdatedAt time.Time `db:"updated_at"`
}

// FindByID loads a session aggregate. Returns sql.ErrNoRows when absent.
func (r *SessionRepository) FindByID(ctx context.Context, id string) (*models.Session, error) {
	const query = `SELECT id, document, updated_at FROM collab_sessions WHERE id = $1`
	var row sessionRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		return nil, err
	}
	var session models.Session
	if err := json.Unmarshal(row.Document, &session); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &session, nil
}

// Save upserts the aggregate document along with its indexed columns.
func (r *SessionRepository) Save(ctx context.Context, session *models.Session) error {
	session.UpdatedAt = time.Now().UTC()
	document, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", session.ID, err)
	}
	const query = `INSERT INTO collab_sessions (id, classroom_id, facilitator_id, type, status, document, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        ON CONFLICT (id) DO UPDATE SET status = EXCLUDED.status, document = EXCLUDED.document, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.ExecContext(ctx, query,
		session.ID, session.ClassroomID, session.FacilitatorID,
		session.Type, session.Status, document,
		session.CreatedAt, session.UpdatedAt,
	); err != nil {
		return fmt.Errorf("save session %s: %w", session.ID, err)
	}
	return nil
}

// List returns session documents matching the filter with total count.
func (r *SessionRepository) List(ctx context.Context, filter models.SessionFilter) ([]models.Session, int, error) {
	var conditions []string
	var args []interface{}

	if filter.ClassroomID != "" {
		conditions = append(conditions, fmt.Sprintf("classroom_id = $%d", len(args)+1))
		args = append(args, filter.ClassroomID)
	}
	if filter.FacilitatorID != "" {
		conditions = append(conditions, fmt.Sprintf("facilitator_id = $%d", len(args)+1))
		args = append(args, filter.FacilitatorID)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.Type != "" {
		conditions = append(conditions, fmt.Sprintf("type = $%d", len(args)+1))
		args = append(args, filter.Type)
	}

	clause := ""
	if len(conditions) > 0 {
		clause = " WHERE " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT id, document, updated_at FROM collab_sessions%s ORDER BY created_at DESC LIMIT %d OFFSET %d`, clause, size, offset)
	var rows []sessionRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list sessions: %w", err)
	}

	sessions := make([]models.Session, 0, len(rows))
	for _, row := range rows {
		var session models.Session
		if err := json.Unmarshal(row.Document, &session); err != nil {
			return nil, 0, fmt.Errorf("decode session %s: %w", row.ID, err)
		}
		sessions = append(sessions, session)
	}

	countQuery := "SELECT COUNT(*) FROM collab_sessions" + clause
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count sessions: %w", err)
	}
	return sessions, total, nil
}
