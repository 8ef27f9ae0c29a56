package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/storyforge/collab-api/internal/models"
	appErrors "github.com/storyforge/collab-api/pkg/errors"
)

// defaultAutoApproveWordCap is the word count above which a segment always
// needs facilitator approval regardless of detected conflicts.
const defaultAutoApproveWordCap = 100

type conflictDetector interface {
	Detect(transcript []models.Segment, segment models.Segment) []models.Conflict
}

type assessmentInvalidator interface {
	Invalidate(ctx context.Context, pattern string) error
}

// SubmitContributionRequest describes one story contribution.
type SubmitContributionRequest struct {
	StudentID   string             `json:"student_id" validate:"required"`
	Text        string             `json:"text" validate:"required"`
	SegmentType models.SegmentType `json:"segment_type" validate:"required,oneof=INTRODUCTION CHARACTER_DEVELOPMENT PLOT_ADVANCEMENT CONFLICT RESOLUTION DIALOGUE"`
}

// SubmitContributionResult is returned for every accepted submission.
type SubmitContributionResult struct {
	Segment          models.Segment    `json:"segment"`
	Conflicts        []models.Conflict `json:"conflicts"`
	RequiresApproval bool              `json:"requires_approval"`
}

// ReviewSegmentRequest moves a pending segment through moderation.
type ReviewSegmentRequest struct {
	Status models.ApprovalStatus `json:"status" validate:"required,oneof=APPROVED NEEDS_REVISION REJECTED"`
}

// ReviseSegmentRequest resubmits new text for a segment still in moderation.
type ReviseSegmentRequest struct {
	StudentID string `json:"student_id" validate:"required"`
	Text      string `json:"text" validate:"required"`
}

// ContributionService runs the submission pipeline: eligibility, segment
// construction, conflict detection, approval routing, scoring and turn
// advancement.
type ContributionService struct {
	store     sessionStore
	locks     *SessionLocks
	detector  conflictDetector
	scorer    QualityScorer
	cache     assessmentInvalidator
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	wordCap   int
}

// NewContributionService constructs ContributionService.
func NewContributionService(store sessionStore, locks *SessionLocks, detector conflictDetector, scorer QualityScorer, cache assessmentInvalidator, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, wordCap int) *ContributionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if locks == nil {
		locks = NewSessionLocks()
	}
	if detector == nil {
		detector = NewConflictDetector()
	}
	if scorer == nil {
		scorer = NewHeuristicScorer()
	}
	if wordCap <= 0 {
		wordCap = defaultAutoApproveWordCap
	}
	return &ContributionService{store: store, locks: locks, detector: detector, scorer: scorer, cache: cache, metrics: metrics, validator: validate, logger: logger, wordCap: wordCap}
}

// Submit processes one contribution through the full pipeline.
func (s *ContributionService) Submit(ctx context.Context, sessionID string, req SubmitContributionRequest) (*SubmitContributionResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid contribution payload")
	}

	result := &SubmitContributionResult{}
	_, err := mutateSession(ctx, s.store, s.locks, sessionID, func(session *models.Session) error {
		participant := session.Participant(req.StudentID)
		if participant == nil {
			return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("Student %s not found in session", req.StudentID))
		}

		if session.Type == models.SessionTurnBased && session.CurrentTurn != nil && *session.CurrentTurn != req.StudentID {
			return appErrors.Clone(appErrors.ErrPreconditionFailed, "Not your turn to contribute")
		}

		now := time.Now().UTC()
		segment := models.Segment{
			ID:             uuid.NewString(),
			AuthorID:       req.StudentID,
			Text:           req.Text,
			WordCount:      len(strings.Fields(strings.TrimSpace(req.Text))),
			Timestamp:      now,
			Type:           req.SegmentType,
			ApprovalStatus: models.ApprovalPending,
		}

		conflicts := s.detector.Detect(session.Transcript, segment)
		requiresApproval := len(conflicts) > 0 ||
			session.Type == models.SessionGuided ||
			segment.WordCount > s.wordCap

		if requiresApproval {
			// Withheld from the transcript until a facilitator approves it;
			// invisible to later conflict checks and presentation output.
			session.PendingSegments = append(session.PendingSegments, segment)
		} else {
			segment.ApprovalStatus = models.ApprovalApproved
			session.Transcript = append(session.Transcript, segment)
		}

		quality := s.scorer.ScoreQuality(req.Text, session.Criteria.ObjectiveIDs)
		participant.Contributions = append(participant.Contributions, models.Contribution{
			ID:           uuid.NewString(),
			Type:         models.ContributionOriginalContent,
			SegmentID:    segment.ID,
			QualityScore: quality,
			WordCount:    segment.WordCount,
			CreatedAt:    now,
		})
		bumpEngagement(participant)

		if session.Type == models.SessionTurnBased {
			advanceTurn(session, req.StudentID)
		}

		result.Segment = segment
		result.Conflicts = conflicts
		result.RequiresApproval = requiresApproval
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordContribution(string(req.SegmentType))
	s.metrics.RecordConflictsDetected(len(result.Conflicts))
	s.invalidateAssessment(ctx, sessionID)
	s.logger.Info("contribution submitted",
		zap.String("session_id", sessionID),
		zap.String("student_id", req.StudentID),
		zap.Int("word_count", result.Segment.WordCount),
		zap.Int("conflicts", len(result.Conflicts)),
		zap.Bool("requires_approval", result.RequiresApproval),
	)
	return result, nil
}

// Review resolves a pending segment. Approval appends it to the transcript
// in submission order; rejection and revision keep it out.
func (s *ContributionService) Review(ctx context.Context, sessionID, segmentID string, req ReviewSegmentRequest) (*models.Segment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid review payload")
	}

	var reviewed models.Segment
	_, err := mutateSession(ctx, s.store, s.locks, sessionID, func(session *models.Session) error {
		idx := -1
		for i := range session.PendingSegments {
			if session.PendingSegments[i].ID == segmentID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("Segment %s not found", segmentID))
		}

		segment := session.PendingSegments[idx]
		segment.ApprovalStatus = req.Status
		if req.Status == models.ApprovalApproved {
			session.PendingSegments = append(session.PendingSegments[:idx], session.PendingSegments[idx+1:]...)
			session.Transcript = append(session.Transcript, segment)
		} else {
			session.PendingSegments[idx] = segment
		}
		reviewed = segment
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateAssessment(ctx, sessionID)
	return &reviewed, nil
}

// Revise lets the author replace the text of a segment still in the pending
// queue. The previous text is kept in the segment's edit history and the
// segment returns to PENDING for another review.
func (s *ContributionService) Revise(ctx context.Context, sessionID, segmentID string, req ReviseSegmentRequest) (*models.Segment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid revision payload")
	}

	var revised models.Segment
	_, err := mutateSession(ctx, s.store, s.locks, sessionID, func(session *models.Session) error {
		idx := -1
		for i := range session.PendingSegments {
			if session.PendingSegments[i].ID == segmentID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("Segment %s not found", segmentID))
		}

		segment := &session.PendingSegments[idx]
		if segment.AuthorID != req.StudentID {
			return appErrors.Clone(appErrors.ErrForbidden, "Only the author can revise a segment")
		}

		now := time.Now().UTC()
		segment.EditHistory = append(segment.EditHistory, models.SegmentEdit{
			EditorID: req.StudentID,
			OldText:  segment.Text,
			EditedAt: now,
		})
		segment.Text = req.Text
		segment.WordCount = len(strings.Fields(strings.TrimSpace(req.Text)))
		segment.ApprovalStatus = models.ApprovalPending
		revised = *segment
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateAssessment(ctx, sessionID)
	s.logger.Info("segment revised",
		zap.String("session_id", sessionID),
		zap.String("segment_id", segmentID),
		zap.String("student_id", req.StudentID),
	)
	return &revised, nil
}

// advanceTurn rotates CurrentTurn to the next participant in admission order,
// wrapping at the end of the roster.
func advanceTurn(session *models.Session, currentStudentID string) {
	if len(session.Participants) == 0 {
		return
	}
	idx := 0
	for i := range session.Participants {
		if session.Participants[i].StudentID == currentStudentID {
			idx = i
			break
		}
	}
	next := session.Participants[(idx+1)%len(session.Participants)].StudentID
	session.CurrentTurn = &next
}

func bumpEngagement(participant *models.Participant) {
	participant.EngagementScore += 5
	if participant.EngagementScore > 100 {
		participant.EngagementScore = 100
	}
}

func (s *ContributionService) invalidateAssessment(ctx context.Context, sessionID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, "assessment:"+sessionID+"*"); err != nil {
		s.logger.Warn("assessment cache invalidation failed", zap.String("session_id", sessionID), zap.Error(err))
	}
}
