package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/storyforge/collab-api/internal/models"
	appErrors "github.com/storyforge/collab-api/pkg/errors"
)

type conflictFinder interface {
	FindByID(ctx context.Context, id string) (*models.ConflictRecord, error)
}

type resolutionLog interface {
	Append(ctx context.Context, record *models.ConflictResolutionRecord) error
	ListBySession(ctx context.Context, sessionID string) ([]models.ConflictResolutionRecord, error)
}

// ResolveConflictRequest carries the strategy choice plus whatever material
// that strategy needs. Unused fields are ignored by the other handlers.
type ResolveConflictRequest struct {
	Strategy    models.ResolutionStrategy `json:"strategy" validate:"required"`
	InitiatorID string                    `json:"initiator_id" validate:"required"`
	Votes       map[string]string         `json:"votes,omitempty"`
	Decision    string                    `json:"decision,omitempty"`
	MergedText  string                    `json:"merged_text,omitempty"`
	Summary     string                    `json:"summary,omitempty"`
}

// ConflictService resolves raised conflicts against the external conflict
// store and keeps an append-only log of every attempt.
type ConflictService struct {
	store     sessionStore
	conflicts conflictFinder
	log       resolutionLog
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewConflictService constructs ConflictService.
func NewConflictService(store sessionStore, conflicts conflictFinder, log resolutionLog, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *ConflictService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConflictService{store: store, conflicts: conflicts, log: log, metrics: metrics, validator: validate, logger: logger}
}

// Resolve dispatches one resolution attempt. The strategy set is closed; the
// attempt is logged whether or not the handler reports success.
func (s *ConflictService) Resolve(ctx context.Context, sessionID, conflictID string, req ResolveConflictRequest) (*models.ConflictResolutionRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid resolution payload")
	}

	if _, err := loadSession(ctx, s.store, sessionID); err != nil {
		return nil, err
	}

	conflict, err := s.conflicts.FindByID(ctx, conflictID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("Conflict %s not found", conflictID))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load conflict record")
	}

	handler, err := handlerFor(req.Strategy)
	if err != nil {
		return nil, err
	}
	outcome := handler(conflict, req)

	record := &models.ConflictResolutionRecord{
		SessionID:   sessionID,
		ConflictID:  conflict.ID,
		Strategy:    req.Strategy,
		InitiatorID: req.InitiatorID,
		Outcome:     outcome,
	}
	// The log is best-effort; a write failure never fails the resolution.
	if appendErr := s.log.Append(ctx, record); appendErr != nil {
		s.logger.Warn("resolution log append failed",
			zap.String("session_id", sessionID),
			zap.String("conflict_id", conflict.ID),
			zap.Error(appendErr),
		)
	}

	s.metrics.RecordResolution(string(req.Strategy), outcome.Success)
	s.logger.Info("conflict resolution attempted",
		zap.String("session_id", sessionID),
		zap.String("conflict_id", conflict.ID),
		zap.String("strategy", string(req.Strategy)),
		zap.Bool("success", outcome.Success),
	)
	return record, nil
}

// ListResolutions returns the session's resolution log, oldest first.
func (s *ConflictService) ListResolutions(ctx context.Context, sessionID string) ([]models.ConflictResolutionRecord, error) {
	if _, err := loadSession(ctx, s.store, sessionID); err != nil {
		return nil, err
	}
	records, err := s.log.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list resolutions")
	}
	return records, nil
}

type strategyHandler func(conflict *models.ConflictRecord, req ResolveConflictRequest) models.ResolutionOutcome

// handlerFor maps a strategy to its handler. Unknown strategies are a
// caller error and leave no log entry.
func handlerFor(strategy models.ResolutionStrategy) (strategyHandler, error) {
	switch strategy {
	case models.StrategyVoting:
		return resolveByVoting, nil
	case models.StrategyDiscussion:
		return resolveByDiscussion, nil
	case models.StrategyCompromise:
		return resolveByCompromise, nil
	case models.StrategyFacilitatorDecision:
		return resolveByFacilitatorDecision, nil
	case models.StrategyAlternativeVersions:
		return resolveByAlternativeVersions, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("Unknown resolution strategy: %s", strategy))
	}
}

// resolveByVoting tallies the submitted votes and adopts the plurality
// option. A tie or an empty ballot is an unsuccessful attempt.
func resolveByVoting(conflict *models.ConflictRecord, req ResolveConflictRequest) models.ResolutionOutcome {
	if len(req.Votes) == 0 {
		return models.ResolutionOutcome{
			Success:                 false,
			Resolution:              "No votes were cast",
			ParticipantSatisfaction: 0,
			TimeToResolutionMinutes: 10,
		}
	}

	tally := make(map[string]int)
	for _, option := range req.Votes {
		tally[option]++
	}
	winner, best, tied := "", 0, false
	for option, count := range tally {
		switch {
		case count > best:
			winner, best, tied = option, count, false
		case count == best:
			tied = true
		}
	}
	if tied {
		return models.ResolutionOutcome{
			Success:                 false,
			Resolution:              "Vote ended in a tie; escalate or revote",
			ParticipantSatisfaction: 40,
			TimeToResolutionMinutes: 10,
		}
	}
	share := float64(best) / float64(len(req.Votes))
	return models.ResolutionOutcome{
		Success:                 true,
		Resolution:              fmt.Sprintf("Adopted %q with %d of %d votes", winner, best, len(req.Votes)),
		ParticipantSatisfaction: clampScore(share * 100),
		TimeToResolutionMinutes: 10,
	}
}

// resolveByDiscussion records the facilitated discussion outcome. Without a
// summary the discussion is treated as unconcluded.
func resolveByDiscussion(conflict *models.ConflictRecord, req ResolveConflictRequest) models.ResolutionOutcome {
	if req.Summary == "" {
		return models.ResolutionOutcome{
			Success:                 false,
			Resolution:              "Discussion ended without a recorded agreement",
			ParticipantSatisfaction: 40,
			TimeToResolutionMinutes: 15,
		}
	}
	return models.ResolutionOutcome{
		Success:                 true,
		Resolution:              req.Summary,
		ParticipantSatisfaction: 85,
		TimeToResolutionMinutes: 15,
	}
}

// resolveByCompromise accepts a merged draft the authors wrote together.
func resolveByCompromise(conflict *models.ConflictRecord, req ResolveConflictRequest) models.ResolutionOutcome {
	if req.MergedText == "" {
		return models.ResolutionOutcome{
			Success:                 false,
			Resolution:              "No merged draft was supplied",
			ParticipantSatisfaction: 30,
			TimeToResolutionMinutes: 20,
		}
	}
	return models.ResolutionOutcome{
		Success:                 true,
		Resolution:              "Authors merged their versions into a shared draft",
		ParticipantSatisfaction: 85,
		TimeToResolutionMinutes: 20,
	}
}

// resolveByFacilitatorDecision records a unilateral facilitator ruling. Fast
// but the least satisfying outcome for participants.
func resolveByFacilitatorDecision(conflict *models.ConflictRecord, req ResolveConflictRequest) models.ResolutionOutcome {
	if req.Decision == "" {
		return models.ResolutionOutcome{
			Success:                 false,
			Resolution:              "No facilitator decision was recorded",
			ParticipantSatisfaction: 0,
			TimeToResolutionMinutes: 5,
		}
	}
	return models.ResolutionOutcome{
		Success:                 true,
		Resolution:              req.Decision,
		ParticipantSatisfaction: 65,
		TimeToResolutionMinutes: 5,
	}
}

// resolveByAlternativeVersions keeps both contested versions as story
// branches instead of forcing a single canon.
func resolveByAlternativeVersions(conflict *models.ConflictRecord, req ResolveConflictRequest) models.ResolutionOutcome {
	return models.ResolutionOutcome{
		Success:                 true,
		Resolution:              "Both versions retained as alternative story branches",
		ParticipantSatisfaction: 90,
		TimeToResolutionMinutes: 25,
	}
}
