package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/storyforge/collab-api/internal/models"
	appErrors "github.com/storyforge/collab-api/pkg/errors"
)

// sessionStore is the keyed get/put contract every session-mutating service
// consumes. Implemented by repository.SessionRepository.
type sessionStore interface {
	FindByID(ctx context.Context, id string) (*models.Session, error)
	Save(ctx context.Context, session *models.Session) error
}

// SessionLocks serializes mutating operations per session id. Operations on
// distinct sessions proceed in parallel; invariants (capacity, unique roles,
// turn order) only hold under single-writer access to an aggregate.
type SessionLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewSessionLocks constructs an empty lock table.
func NewSessionLocks() *SessionLocks {
	return &SessionLocks{locks: make(map[string]*sync.Mutex)}
}

// Acquire locks the session id and returns the release function.
func (l *SessionLocks) Acquire(sessionID string) func() {
	l.mu.Lock()
	lock, ok := l.locks[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[sessionID] = lock
	}
	l.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

// mutateSession runs fn on the freshly fetched aggregate under the session
// lock and persists the result when fn succeeds.
func mutateSession(ctx context.Context, store sessionStore, locks *SessionLocks, sessionID string, fn func(*models.Session) error) (*models.Session, error) {
	release := locks.Acquire(sessionID)
	defer release()

	session, err := loadSession(ctx, store, sessionID)
	if err != nil {
		return nil, err
	}
	if err := fn(session); err != nil {
		return nil, err
	}
	if err := store.Save(ctx, session); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save session")
	}
	return session, nil
}

func loadSession(ctx context.Context, store sessionStore, sessionID string) (*models.Session, error) {
	session, err := store.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("Session %s not found", sessionID))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session")
	}
	return session, nil
}
