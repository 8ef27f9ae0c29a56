package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

// DirectoryRepository resolves student ids to display names. Used only for
// presentation output, never for authorization decisions.
type DirectoryRepository struct {
	db *sqlx.DB
}

// NewDirectoryRepository constructs the repository.
func NewDirectoryRepository(db *sqlx.DB) *DirectoryRepository {
	return &DirectoryRepository{db: db}
}

// DisplayNames resolves a batch of ids. Unknown ids are simply absent from
// the result; callers fall back to the raw id.
func (r *DirectoryRepository) DisplayNames(ctx context.Context, studentIDs []string) (map[string]string, error) {
	if len(studentIDs) == 0 {
		return map[string]string{}, nil
	}
	placeholders := make([]string, len(studentIDs))
	args := make([]interface{}, len(studentIDs))
	for i, id := range studentIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	query := fmt.Sprintf("SELECT id, full_name FROM students WHERE id IN (%s)", strings.Join(placeholders, ","))
	rows, err := r.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("resolve display names: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	names := make(map[string]string, len(studentIDs))
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("scan display name: %w", err)
		}
		names[id] = name
	}
	return names, rows.Err()
}
