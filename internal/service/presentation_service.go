package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/storyforge/collab-api/internal/models"
	appErrors "github.com/storyforge/collab-api/pkg/errors"
)

// presentationRoleDuration is the fixed speaking slot per participant.
const presentationRoleDuration = 3

type displayNameResolver interface {
	DisplayNames(ctx context.Context, studentIDs []string) (map[string]string, error)
}

// CompilePresentationRequest tunes the compiled package.
type CompilePresentationRequest struct {
	Format           string `json:"format"`
	PresentationTime int    `json:"presentation_time" validate:"min=0"`
	IncludeFeedback  bool   `json:"include_feedback"`
}

// PresentationService compiles completed sessions into a deliverable package
// for classroom presentation.
type PresentationService struct {
	store              sessionStore
	directory          displayNameResolver
	defaultPresentTime int
	validator          *validator.Validate
	logger             *zap.Logger
}

// NewPresentationService constructs PresentationService.
func NewPresentationService(store sessionStore, directory displayNameResolver, defaultPresentTime int, validate *validator.Validate, logger *zap.Logger) *PresentationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if defaultPresentTime <= 0 {
		defaultPresentTime = 15
	}
	return &PresentationService{store: store, directory: directory, defaultPresentTime: defaultPresentTime, validator: validate, logger: logger}
}

// Compile builds the presentation package. Only completed sessions can be
// presented; the story text contains approved segments only.
func (s *PresentationService) Compile(ctx context.Context, sessionID string, req CompilePresentationRequest) (*models.PresentationPackage, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid presentation payload")
	}

	session, err := loadSession(ctx, s.store, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != models.SessionCompleted {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "Session must be completed before generating presentation")
	}

	config := models.PresentationConfig{
		Format:           req.Format,
		PresentationTime: req.PresentationTime,
		IncludeFeedback:  req.IncludeFeedback,
	}
	if config.Format == "" {
		config.Format = "narrated"
	}
	if config.PresentationTime <= 0 {
		config.PresentationTime = s.defaultPresentTime
	}

	approved := approvedSegments(session)
	pkg := &models.PresentationPackage{
		SessionID:         session.ID,
		Title:             session.Title,
		FullStory:         joinStory(approved),
		SegmentCount:      len(approved),
		RoleAssignments:   s.assignPresentationRoles(ctx, session),
		Rubric:            presentationRubric(),
		Guidelines:        presentationGuidelines(),
		EstimatedDuration: config.PresentationTime,
		CompiledAt:        time.Now().UTC(),
	}

	s.logger.Info("presentation compiled",
		zap.String("session_id", sessionID),
		zap.Int("segments", pkg.SegmentCount),
		zap.Int("participants", len(pkg.RoleAssignments)),
	)
	return pkg, nil
}

// approvedSegments returns transcript segments ordered by submission time.
func approvedSegments(session *models.Session) []models.Segment {
	segments := make([]models.Segment, 0, len(session.Transcript))
	for _, segment := range session.Transcript {
		if segment.ApprovalStatus == models.ApprovalApproved {
			segments = append(segments, segment)
		}
	}
	sort.SliceStable(segments, func(i, j int) bool {
		return segments[i].Timestamp.Before(segments[j].Timestamp)
	})
	return segments
}

func joinStory(segments []models.Segment) string {
	parts := make([]string, 0, len(segments))
	for _, segment := range segments {
		parts = append(parts, strings.TrimSpace(segment.Text))
	}
	return strings.Join(parts, "\n\n")
}

// assignPresentationRoles gives every participant one fixed-duration slot.
// Display names are resolved best-effort; unknown ids fall back to the id.
func (s *PresentationService) assignPresentationRoles(ctx context.Context, session *models.Session) []models.PresentationRole {
	ids := make([]string, 0, len(session.Participants))
	for i := range session.Participants {
		ids = append(ids, session.Participants[i].StudentID)
	}

	names := map[string]string{}
	if s.directory != nil {
		resolved, err := s.directory.DisplayNames(ctx, ids)
		if err != nil {
			s.logger.Warn("display name resolution failed", zap.String("session_id", session.ID), zap.Error(err))
		} else {
			names = resolved
		}
	}

	presentationRoles := []string{"Narrator", "Character Voice", "Scene Setter", "Discussion Leader", "Q&A Host", "Closer"}
	assignments := make([]models.PresentationRole, 0, len(session.Participants))
	for i := range session.Participants {
		participant := &session.Participants[i]
		name := names[participant.StudentID]
		if name == "" {
			name = participant.StudentID
		}
		assignments = append(assignments, models.PresentationRole{
			StudentID:       participant.StudentID,
			DisplayName:     name,
			Role:            presentationRoles[i%len(presentationRoles)],
			DurationMinutes: presentationRoleDuration,
		})
	}
	return assignments
}

func presentationRubric() []models.RubricCriterion {
	return []models.RubricCriterion{
		{Name: "Story coherence", Weight: 0.3, Description: "The story reads as one narrative despite multiple authors"},
		{Name: "Delivery", Weight: 0.25, Description: "Clear, audible, well-paced presentation"},
		{Name: "Collaboration evidence", Weight: 0.25, Description: "Each presenter can speak to how the group worked together"},
		{Name: "Creativity", Weight: 0.2, Description: "Original characters, settings and plot choices"},
	}
}

func presentationGuidelines() []string {
	return []string{
		"Every participant presents their assigned slot",
		"Introduce the story premise before reading segments",
		"Credit each author when reading their segment",
		"Leave time for questions at the end",
	}
}
