package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/storyforge/collab-api/internal/models"
	appErrors "github.com/storyforge/collab-api/pkg/errors"
)

type sessionLister interface {
	List(ctx context.Context, filter models.SessionFilter) ([]models.Session, int, error)
}

// CreateSessionRequest describes session creation payload.
type CreateSessionRequest struct {
	ClassroomID     string             `json:"classroom_id" validate:"required"`
	Title           string             `json:"title" validate:"required"`
	Description     string             `json:"description"`
	FacilitatorID   string             `json:"facilitator_id" validate:"required"`
	Prompt          string             `json:"prompt"`
	Objectives      []string           `json:"objectives"`
	Type            models.SessionType `json:"type" validate:"required,oneof=COLLABORATIVE TURN_BASED GUIDED"`
	MaxParticipants int                `json:"max_participants" validate:"required,min=1"`
	ScheduledStart  time.Time          `json:"scheduled_start"`
}

// SessionService is the registry and lifecycle manager for session aggregates.
type SessionService struct {
	store           sessionStore
	lister          sessionLister
	locks           *SessionLocks
	metrics         *MetricsService
	participantsCap int
	validator       *validator.Validate
	logger          *zap.Logger
}

// NewSessionService constructs SessionService. participantsCap bounds how many
// roles any session can carry; values outside the catalog size are clamped.
func NewSessionService(store sessionStore, lister sessionLister, locks *SessionLocks, metrics *MetricsService, participantsCap int, validate *validator.Validate, logger *zap.Logger) *SessionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if locks == nil {
		locks = NewSessionLocks()
	}
	catalogSize := len(models.RoleCatalog())
	if participantsCap <= 0 || participantsCap > catalogSize {
		participantsCap = catalogSize
	}
	return &SessionService{store: store, lister: lister, locks: locks, metrics: metrics, participantsCap: participantsCap, validator: validate, logger: logger}
}

// Create registers a new scheduled session with default roles, conflict
// policy and assessment criteria.
func (s *SessionService) Create(ctx context.Context, req CreateSessionRequest) (*models.Session, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid session payload")
	}

	now := time.Now().UTC()
	scheduled := req.ScheduledStart
	if scheduled.IsZero() {
		scheduled = now
	}
	capacity := req.MaxParticipants
	if capacity > s.participantsCap {
		capacity = s.participantsCap
	}
	session := &models.Session{
		ID:             uuid.NewString(),
		ClassroomID:    req.ClassroomID,
		Title:          req.Title,
		Description:    req.Description,
		FacilitatorID:  req.FacilitatorID,
		Prompt:         req.Prompt,
		Objectives:     req.Objectives,
		Type:           req.Type,
		Status:         models.SessionScheduled,
		Participants:   []models.Participant{},
		Transcript:     []models.Segment{},
		Roles:          DefaultRolesFor(req.Type, capacity),
		ConflictPolicy: models.DefaultConflictPolicy(),
		Criteria:       models.DefaultAssessmentCriteria(req.Objectives),
		ScheduledStart: scheduled,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.store.Save(ctx, session); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create session")
	}
	s.metrics.RecordSessionCreated()
	s.logger.Info("session created",
		zap.String("session_id", session.ID),
		zap.String("classroom_id", session.ClassroomID),
		zap.String("type", string(session.Type)),
	)
	return session, nil
}

// Get loads a session aggregate by id.
func (s *SessionService) Get(ctx context.Context, id string) (*models.Session, error) {
	return loadSession(ctx, s.store, id)
}

// List returns session summaries with pagination metadata.
func (s *SessionService) List(ctx context.Context, filter models.SessionFilter) ([]models.SessionSummary, *models.Pagination, error) {
	sessions, total, err := s.lister.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sessions")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	summaries := make([]models.SessionSummary, 0, len(sessions))
	for i := range sessions {
		summaries = append(summaries, sessions[i].Summary())
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return summaries, pagination, nil
}

// Transition moves a session to the target status, enforcing the legal state
// machine: SCHEDULED→ACTIVE, ACTIVE↔PAUSED, ACTIVE→COMPLETED, and any
// non-terminal status →CANCELLED.
func (s *SessionService) Transition(ctx context.Context, id string, target models.SessionStatus) (*models.Session, error) {
	return mutateSession(ctx, s.store, s.locks, id, func(session *models.Session) error {
		if !transitionAllowed(session.Status, target) {
			return appErrors.Clone(appErrors.ErrPreconditionFailed,
				fmt.Sprintf("Cannot transition session from %s to %s", session.Status, target))
		}
		now := time.Now().UTC()
		switch target {
		case models.SessionActive:
			if session.StartedAt == nil {
				session.StartedAt = &now
			}
		case models.SessionCompleted:
			session.CompletedAt = &now
		}
		session.Status = target
		return nil
	})
}

func transitionAllowed(from, to models.SessionStatus) bool {
	if from.Terminal() {
		return false
	}
	switch to {
	case models.SessionActive:
		return from == models.SessionScheduled || from == models.SessionPaused
	case models.SessionPaused:
		return from == models.SessionActive
	case models.SessionCompleted:
		return from == models.SessionActive
	case models.SessionCancelled:
		return true
	default:
		return false
	}
}
