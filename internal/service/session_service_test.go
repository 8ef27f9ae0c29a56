package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storyforge/collab-api/internal/models"
)

// memSessionStore is an in-memory sessionStore shared by service tests.
type memSessionStore struct {
	mu       sync.Mutex
	sessions map[string]models.Session
	saveErr  error
}

func newMemSessionStore(seed ...*models.Session) *memSessionStore {
	store := &memSessionStore{sessions: make(map[string]models.Session)}
	for _, session := range seed {
		store.sessions[session.ID] = *session
	}
	return store
}

func (m *memSessionStore) FindByID(ctx context.Context, id string) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := session
	return &copied, nil
}

func (m *memSessionStore) Save(ctx context.Context, session *models.Session) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.ID] = *session
	return nil
}

func (m *memSessionStore) List(ctx context.Context, filter models.SessionFilter) ([]models.Session, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []models.Session
	for _, session := range m.sessions {
		if filter.ClassroomID != "" && session.ClassroomID != filter.ClassroomID {
			continue
		}
		if filter.Status != "" && session.Status != filter.Status {
			continue
		}
		result = append(result, session)
	}
	return result, len(result), nil
}

func newTestSessionService(store *memSessionStore) *SessionService {
	return NewSessionService(store, store, NewSessionLocks(), nil, 0, nil, nil)
}

func TestSessionServiceCreateDefaults(t *testing.T) {
	store := newMemSessionStore()
	svc := newTestSessionService(store)

	session, err := svc.Create(context.Background(), CreateSessionRequest{
		ClassroomID:     "class-1",
		Title:           "The Lost City",
		FacilitatorID:   "teacher-1",
		Type:            models.SessionCollaborative,
		MaxParticipants: 4,
	})
	require.NoError(t, err)
	assert.Equal(t, models.SessionScheduled, session.Status)
	assert.Len(t, session.Roles, 4)
	assert.Empty(t, session.Participants)
	assert.True(t, session.ConflictPolicy.AutoDetect)
}

func TestSessionServiceCreateGuidedRoles(t *testing.T) {
	store := newMemSessionStore()
	svc := newTestSessionService(store)

	session, err := svc.Create(context.Background(), CreateSessionRequest{
		ClassroomID:     "class-1",
		Title:           "Guided Tale",
		FacilitatorID:   "teacher-1",
		Type:            models.SessionGuided,
		MaxParticipants: 10,
	})
	require.NoError(t, err)
	require.Len(t, session.Roles, 4)
	names := make([]models.RoleName, 0, 4)
	for _, role := range session.Roles {
		names = append(names, role.Name)
	}
	assert.Equal(t, models.GuidedRoleNames(), names)
}

func TestSessionServiceCreateClampsCapacity(t *testing.T) {
	store := newMemSessionStore()
	svc := NewSessionService(store, store, NewSessionLocks(), nil, 3, nil, nil)

	session, err := svc.Create(context.Background(), CreateSessionRequest{
		ClassroomID:     "class-1",
		Title:           "Crowded",
		FacilitatorID:   "teacher-1",
		Type:            models.SessionCollaborative,
		MaxParticipants: 20,
	})
	require.NoError(t, err)
	assert.Len(t, session.Roles, 3)
}

func TestSessionServiceCreateRejectsBadType(t *testing.T) {
	svc := newTestSessionService(newMemSessionStore())
	_, err := svc.Create(context.Background(), CreateSessionRequest{
		ClassroomID:     "class-1",
		Title:           "Broken",
		FacilitatorID:   "teacher-1",
		Type:            "FREEFORM",
		MaxParticipants: 4,
	})
	require.Error(t, err)
}

func TestSessionServiceGetMissing(t *testing.T) {
	svc := newTestSessionService(newMemSessionStore())
	_, err := svc.Get(context.Background(), "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Session nope not found")
}

func TestSessionServiceTransitions(t *testing.T) {
	cases := []struct {
		name    string
		from    models.SessionStatus
		to      models.SessionStatus
		allowed bool
	}{
		{"scheduled to active", models.SessionScheduled, models.SessionActive, true},
		{"active to paused", models.SessionActive, models.SessionPaused, true},
		{"paused to active", models.SessionPaused, models.SessionActive, true},
		{"active to completed", models.SessionActive, models.SessionCompleted, true},
		{"scheduled to completed", models.SessionScheduled, models.SessionCompleted, false},
		{"paused to completed", models.SessionPaused, models.SessionCompleted, false},
		{"scheduled to cancelled", models.SessionScheduled, models.SessionCancelled, true},
		{"completed to cancelled", models.SessionCompleted, models.SessionCancelled, false},
		{"cancelled to active", models.SessionCancelled, models.SessionActive, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newMemSessionStore(&models.Session{ID: "s1", Status: tc.from})
			svc := newTestSessionService(store)
			session, err := svc.Transition(context.Background(), "s1", tc.to)
			if tc.allowed {
				require.NoError(t, err)
				assert.Equal(t, tc.to, session.Status)
			} else {
				require.Error(t, err)
			}
		})
	}
}

func TestSessionServiceTransitionStampsTimes(t *testing.T) {
	store := newMemSessionStore(&models.Session{ID: "s1", Status: models.SessionScheduled})
	svc := newTestSessionService(store)

	session, err := svc.Transition(context.Background(), "s1", models.SessionActive)
	require.NoError(t, err)
	require.NotNil(t, session.StartedAt)

	session, err = svc.Transition(context.Background(), "s1", models.SessionCompleted)
	require.NoError(t, err)
	require.NotNil(t, session.CompletedAt)
}
