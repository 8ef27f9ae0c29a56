package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/storyforge/collab-api/internal/models"
	appErrors "github.com/storyforge/collab-api/pkg/errors"
)

// AdmitRequest describes a batch admission payload.
type AdmitRequest struct {
	StudentIDs []string           `json:"student_ids" validate:"required,min=1,dive,required"`
	Strategy   AssignmentStrategy `json:"strategy"`
}

// AdmitFailure reports one student that could not be admitted.
type AdmitFailure struct {
	StudentID string `json:"student_id"`
	Reason    string `json:"reason"`
}

// AdmitResult carries partial-success batch admission output.
type AdmitResult struct {
	Added  []models.Participant `json:"added"`
	Failed []AdmitFailure       `json:"failed"`
}

// AdmissionService admits students into sessions and assigns roles.
type AdmissionService struct {
	store     sessionStore
	locks     *SessionLocks
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAdmissionService constructs AdmissionService.
func NewAdmissionService(store sessionStore, locks *SessionLocks, validate *validator.Validate, logger *zap.Logger) *AdmissionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if locks == nil {
		locks = NewSessionLocks()
	}
	return &AdmissionService{store: store, locks: locks, validator: validate, logger: logger}
}

// Admit processes a batch of student ids in input order. Per-student failures
// are collected and never abort sibling admissions.
func (s *AdmissionService) Admit(ctx context.Context, sessionID string, req AdmitRequest) (*AdmitResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid admission payload")
	}
	picker, err := pickerFor(req.Strategy)
	if err != nil {
		return nil, err
	}

	result := &AdmitResult{Added: []models.Participant{}, Failed: []AdmitFailure{}}
	_, err = mutateSession(ctx, s.store, s.locks, sessionID, func(session *models.Session) error {
		for _, studentID := range req.StudentIDs {
			participant, admitErr := admitOne(session, studentID, picker)
			if admitErr != nil {
				result.Failed = append(result.Failed, AdmitFailure{StudentID: studentID, Reason: admitErr.Error()})
				continue
			}
			result.Added = append(result.Added, *participant)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("participants admitted",
		zap.String("session_id", sessionID),
		zap.Int("added", len(result.Added)),
		zap.Int("failed", len(result.Failed)),
	)
	return result, nil
}

// admitOne enforces the capacity and uniqueness invariants and appends the
// new participant. Admission order is preserved for turn rotation.
func admitOne(session *models.Session, studentID string, picker RolePicker) (*models.Participant, error) {
	if session.Participant(studentID) != nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "Student already in session")
	}
	if len(session.Participants) >= len(session.Roles) {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "Session is full")
	}

	role, err := picker.Pick(unassignedRoles(session))
	if err != nil {
		return nil, err
	}

	participant := models.Participant{
		StudentID:     studentID,
		Role:          role,
		Contributions: []models.Contribution{},
		IsActive:      true,
		JoinedAt:      time.Now().UTC(),
	}
	session.Participants = append(session.Participants, participant)

	// First admission into a turn-based session opens the rotation.
	if session.Type == models.SessionTurnBased && session.CurrentTurn == nil {
		first := session.Participants[0].StudentID
		session.CurrentTurn = &first
	}
	return &session.Participants[len(session.Participants)-1], nil
}

// Deactivate marks a participant inactive; participants are never removed.
func (s *AdmissionService) Deactivate(ctx context.Context, sessionID, studentID string) (*models.Session, error) {
	return mutateSession(ctx, s.store, s.locks, sessionID, func(session *models.Session) error {
		participant := session.Participant(studentID)
		if participant == nil {
			return appErrors.Clone(appErrors.ErrNotFound, "Student "+studentID+" not found in session")
		}
		participant.IsActive = false
		return nil
	})
}
