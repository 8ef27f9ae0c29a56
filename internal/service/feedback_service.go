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

// ProvideFeedbackRequest attaches one review note to a transcript segment.
type ProvideFeedbackRequest struct {
	ReviewerID   string              `json:"reviewer_id" validate:"required"`
	ReviewerType models.ReviewerType `json:"reviewer_type" validate:"required,oneof=PEER FACILITATOR SYSTEM"`
	Type         models.FeedbackType `json:"type" validate:"required,oneof=SUGGESTION PRAISE CONCERN QUESTION"`
	Content      string              `json:"content" validate:"required"`
}

// FeedbackService appends review notes to segments and credits the reviewer
// with a feedback contribution so review work counts toward engagement.
type FeedbackService struct {
	store     sessionStore
	locks     *SessionLocks
	cache     assessmentInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewFeedbackService constructs FeedbackService.
func NewFeedbackService(store sessionStore, locks *SessionLocks, cache assessmentInvalidator, validate *validator.Validate, logger *zap.Logger) *FeedbackService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if locks == nil {
		locks = NewSessionLocks()
	}
	return &FeedbackService{store: store, locks: locks, cache: cache, validator: validate, logger: logger}
}

// Provide appends a feedback entry to the segment. The segment must already
// be in the approved transcript; pending segments cannot be reviewed here.
func (s *FeedbackService) Provide(ctx context.Context, sessionID, segmentID string, req ProvideFeedbackRequest) (*models.FeedbackEntry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid feedback payload")
	}

	now := time.Now().UTC()
	entry := models.FeedbackEntry{
		ID:           uuid.NewString(),
		ReviewerID:   req.ReviewerID,
		ReviewerType: req.ReviewerType,
		Type:         req.Type,
		Content:      req.Content,
		Resolved:     false,
		CreatedAt:    now,
	}

	_, err := mutateSession(ctx, s.store, s.locks, sessionID, func(session *models.Session) error {
		segment := session.TranscriptSegment(segmentID)
		if segment == nil {
			return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("Segment %s not found", segmentID))
		}
		segment.Feedback = append(segment.Feedback, entry)

		// Reviewing counts as participation for members of the session.
		// Facilitators and the system reviewer are not on the roster.
		if reviewer := session.Participant(req.ReviewerID); reviewer != nil {
			reviewer.Contributions = append(reviewer.Contributions, models.Contribution{
				ID:        uuid.NewString(),
				Type:      models.ContributionFeedback,
				SegmentID: segmentID,
				CreatedAt: now,
			})
			bumpEngagement(reviewer)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateAssessment(ctx, sessionID)
	s.logger.Info("feedback provided",
		zap.String("session_id", sessionID),
		zap.String("segment_id", segmentID),
		zap.String("reviewer_id", req.ReviewerID),
		zap.String("type", string(req.Type)),
	)
	return &entry, nil
}

// ResolveFeedback marks one feedback entry handled by the segment author.
func (s *FeedbackService) ResolveFeedback(ctx context.Context, sessionID, segmentID, feedbackID string) (*models.FeedbackEntry, error) {
	var resolved models.FeedbackEntry
	_, err := mutateSession(ctx, s.store, s.locks, sessionID, func(session *models.Session) error {
		segment := session.TranscriptSegment(segmentID)
		if segment == nil {
			return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("Segment %s not found", segmentID))
		}
		for i := range segment.Feedback {
			if segment.Feedback[i].ID == feedbackID {
				segment.Feedback[i].Resolved = true
				resolved = segment.Feedback[i]
				return nil
			}
		}
		return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("Feedback %s not found", feedbackID))
	})
	if err != nil {
		return nil, err
	}
	return &resolved, nil
}

func (s *FeedbackService) invalidateAssessment(ctx context.Context, sessionID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, "assessment:"+sessionID+"*"); err != nil {
		s.logger.Warn("assessment cache invalidation failed", zap.String("session_id", sessionID), zap.Error(err))
	}
}
