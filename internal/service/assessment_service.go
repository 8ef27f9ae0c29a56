package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/storyforge/collab-api/internal/models"
	appErrors "github.com/storyforge/collab-api/pkg/errors"
)

// defaultCollaborationScore is used for participants never rated by the
// facilitator.
const defaultCollaborationScore = 75.0

// RateCollaborationRequest stores a facilitator's collaboration rating.
type RateCollaborationRequest struct {
	Rating float64 `json:"rating" validate:"min=0,max=100"`
}

// AssessmentService recomputes assessment results from the aggregate on
// demand. Results are derived state and safe to cache until the session
// changes.
type AssessmentService struct {
	store     sessionStore
	locks     *SessionLocks
	log       resolutionLog
	scorer    ObjectiveScorer
	cache     *CacheService
	cacheTTL  time.Duration
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAssessmentService constructs AssessmentService.
func NewAssessmentService(store sessionStore, locks *SessionLocks, log resolutionLog, scorer ObjectiveScorer, cache *CacheService, cacheTTL time.Duration, validate *validator.Validate, logger *zap.Logger) *AssessmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if locks == nil {
		locks = NewSessionLocks()
	}
	if scorer == nil {
		scorer = NewHeuristicScorer()
	}
	return &AssessmentService{store: store, locks: locks, log: log, scorer: scorer, cache: cache, cacheTTL: cacheTTL, validator: validate, logger: logger}
}

// Assess computes individual and group results for a session. The second
// return value reports whether the result came from cache.
func (s *AssessmentService) Assess(ctx context.Context, sessionID, assessmentType string) (*models.AssessmentResult, bool, error) {
	if assessmentType == "" {
		assessmentType = "COMPREHENSIVE"
	}

	cacheKey := fmt.Sprintf("assessment:%s:%s", sessionID, assessmentType)
	var cached models.AssessmentResult
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		return &cached, true, nil
	}

	session, err := loadSession(ctx, s.store, sessionID)
	if err != nil {
		return nil, false, err
	}

	individual := make([]models.ParticipantAssessment, 0, len(session.Participants))
	for i := range session.Participants {
		individual = append(individual, s.assessParticipant(session, &session.Participants[i]))
	}

	result := &models.AssessmentResult{
		SessionID:         sessionID,
		AssessmentType:    assessmentType,
		IndividualResults: individual,
		GroupMetrics:      s.groupMetrics(ctx, session, individual),
		GeneratedAt:       time.Now().UTC(),
	}
	result.Recommendations = groupRecommendations(result.GroupMetrics)

	if err := s.cache.Set(ctx, cacheKey, result, s.cacheTTL); err != nil {
		s.logger.Warn("assessment cache write failed", zap.String("session_id", sessionID), zap.Error(err))
	}
	return result, false, nil
}

// RateCollaboration stores the facilitator's rating for one participant.
func (s *AssessmentService) RateCollaboration(ctx context.Context, sessionID, studentID string, req RateCollaborationRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid rating payload")
	}
	_, err := mutateSession(ctx, s.store, s.locks, sessionID, func(session *models.Session) error {
		participant := session.Participant(studentID)
		if participant == nil {
			return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("Student %s not found in session", studentID))
		}
		rating := req.Rating
		participant.CollaborationRating = &rating
		return nil
	})
	if err != nil {
		return err
	}
	if s.cache != nil {
		if invErr := s.cache.Invalidate(ctx, "assessment:"+sessionID+"*"); invErr != nil {
			s.logger.Warn("assessment cache invalidation failed", zap.String("session_id", sessionID), zap.Error(invErr))
		}
	}
	return nil
}

func (s *AssessmentService) assessParticipant(session *models.Session, participant *models.Participant) models.ParticipantAssessment {
	collaboration := defaultCollaborationScore
	if participant.CollaborationRating != nil {
		collaboration = *participant.CollaborationRating
	}

	content := contentScore(participant)
	objectives := s.scorer.ScoreObjectives(authoredTexts(session, participant.StudentID), session.Criteria.ObjectiveIDs)
	overall := (collaboration + content + objectives) / 3

	assessment := models.ParticipantAssessment{
		StudentID: participant.StudentID,
		Scores: models.ParticipantScores{
			Collaboration:       collaboration,
			ContentContribution: content,
			LearningObjectives:  objectives,
			Overall:             overall,
		},
	}
	if collaboration >= 85 {
		assessment.Strengths = append(assessment.Strengths, "Works well with co-authors")
	}
	if content >= 85 {
		assessment.Strengths = append(assessment.Strengths, "Consistently high-quality writing")
	}
	if collaboration < 60 {
		assessment.Improvements = append(assessment.Improvements, "Engage more with other participants' segments")
	}
	if content < 60 {
		assessment.Improvements = append(assessment.Improvements, "Develop segments further before submitting")
	}
	if len(participant.Contributions) == 0 {
		assessment.Recommendations = append(assessment.Recommendations, "Encourage this participant to contribute to the story")
	}
	return assessment
}

// contentScore is the mean quality over original-content contributions,
// zero when the participant never wrote anything.
func contentScore(participant *models.Participant) float64 {
	sum, count := 0.0, 0
	for _, c := range participant.Contributions {
		if c.Type != models.ContributionOriginalContent {
			continue
		}
		sum += c.QualityScore
		count++
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// authoredTexts collects everything the student wrote, approved or pending.
func authoredTexts(session *models.Session, studentID string) []string {
	var texts []string
	for i := range session.Transcript {
		if session.Transcript[i].AuthorID == studentID {
			texts = append(texts, session.Transcript[i].Text)
		}
	}
	for i := range session.PendingSegments {
		if session.PendingSegments[i].AuthorID == studentID {
			texts = append(texts, session.PendingSegments[i].Text)
		}
	}
	return texts
}

func (s *AssessmentService) groupMetrics(ctx context.Context, session *models.Session, individual []models.ParticipantAssessment) models.GroupMetrics {
	metrics := models.GroupMetrics{ConflictResolutionSuccess: s.resolutionSuccessRate(ctx, session.ID)}
	if len(individual) == 0 {
		return metrics
	}

	var overallSum, collabSum, contentSum float64
	contents := make([]float64, 0, len(individual))
	for _, result := range individual {
		overallSum += result.Scores.Overall
		collabSum += result.Scores.Collaboration
		contentSum += result.Scores.ContentContribution
		contents = append(contents, result.Scores.ContentContribution)
	}
	n := float64(len(individual))
	metrics.AverageScore = overallSum / n
	metrics.CollaborationEffectiveness = collabSum / n
	metrics.StoryQuality = contentSum / n

	balance := 100 - variance(contents)
	if balance < 0 {
		balance = 0
	}
	metrics.ParticipationBalance = balance
	return metrics
}

// resolutionSuccessRate reads the resolution log. No attempts means nothing
// failed, which reads as full success.
func (s *AssessmentService) resolutionSuccessRate(ctx context.Context, sessionID string) float64 {
	if s.log == nil {
		return 100
	}
	records, err := s.log.ListBySession(ctx, sessionID)
	if err != nil {
		s.logger.Warn("resolution log read failed", zap.String("session_id", sessionID), zap.Error(err))
		return 100
	}
	if len(records) == 0 {
		return 100
	}
	succeeded := 0
	for _, record := range records {
		if record.Outcome.Success {
			succeeded++
		}
	}
	return float64(succeeded) / float64(len(records)) * 100
}

func groupRecommendations(metrics models.GroupMetrics) []string {
	var recs []string
	if metrics.CollaborationEffectiveness < 70 {
		recs = append(recs, "Schedule collaboration exercises before the next session")
	}
	if metrics.ParticipationBalance < 50 {
		recs = append(recs, "Rebalance contribution opportunities; a few voices dominate the story")
	}
	if metrics.StoryQuality < 60 {
		recs = append(recs, "Spend time on drafting and revision techniques")
	}
	if metrics.ConflictResolutionSuccess < 50 {
		recs = append(recs, "Review conflict resolution strategies with the group")
	}
	return recs
}

func variance(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	total := 0.0
	for _, v := range values {
		d := v - mean
		total += d * d
	}
	return total / float64(len(values))
}
