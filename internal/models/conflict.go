package models

import "time"

// ConflictType classifies detected tensions between contributions.
type ConflictType string

// Conflict types.
const (
	ConflictCharacter            ConflictType = "CHARACTER_CONFLICT"
	ConflictPlotInconsistency    ConflictType = "PLOT_INCONSISTENCY"
	ConflictStyleMismatch        ConflictType = "STYLE_MISMATCH"
	ConflictContentInappropriate ConflictType = "CONTENT_INAPPROPRIATE"
)

// ConflictSeverity grades how disruptive a conflict is.
type ConflictSeverity string

// Conflict severities.
const (
	SeverityLow    ConflictSeverity = "LOW"
	SeverityMedium ConflictSeverity = "MEDIUM"
	SeverityHigh   ConflictSeverity = "HIGH"
)

// Conflict is a detection result. It is returned to callers and never stored
// by this service; escalation to the conflict store happens upstream.
type Conflict struct {
	Type                ConflictType     `json:"type"`
	Severity            ConflictSeverity `json:"severity"`
	Description         string           `json:"description"`
	SuggestedResolution string           `json:"suggested_resolution"`
}

// ResolutionStrategy names one of the closed set of resolution approaches.
type ResolutionStrategy string

// Resolution strategies. The set is closed; anything else fails.
const (
	StrategyVoting              ResolutionStrategy = "VOTING"
	StrategyDiscussion          ResolutionStrategy = "DISCUSSION"
	StrategyCompromise          ResolutionStrategy = "COMPROMISE"
	StrategyFacilitatorDecision ResolutionStrategy = "FACILITATOR_DECISION"
	StrategyAlternativeVersions ResolutionStrategy = "ALTERNATIVE_VERSIONS"
)

// ConflictRecord is a row from the external conflict store, looked up by id
// when a resolution is requested.
type ConflictRecord struct {
	ID          string           `db:"id" json:"id"`
	SessionID   string           `db:"session_id" json:"session_id"`
	SegmentID   *string          `db:"segment_id" json:"segment_id,omitempty"`
	Type        ConflictType     `db:"type" json:"type"`
	Severity    ConflictSeverity `db:"severity" json:"severity"`
	Description string           `db:"description" json:"description"`
	RaisedBy    *string          `db:"raised_by" json:"raised_by,omitempty"`
	RaisedAt    time.Time        `db:"raised_at" json:"raised_at"`
}

// ResolutionOutcome captures the result of running one strategy handler.
type ResolutionOutcome struct {
	Success                 bool    `json:"success"`
	Resolution              string  `json:"resolution"`
	ParticipantSatisfaction float64 `json:"participant_satisfaction"`
	TimeToResolutionMinutes int     `json:"time_to_resolution_minutes"`
}

// ConflictResolutionRecord is an immutable audit entry appended for every
// resolution attempt regardless of outcome.
type ConflictResolutionRecord struct {
	ID          string             `db:"id" json:"id"`
	SessionID   string             `db:"session_id" json:"session_id"`
	ConflictID  string             `db:"conflict_id" json:"conflict_id"`
	Strategy    ResolutionStrategy `db:"strategy" json:"strategy"`
	InitiatorID string             `db:"initiator_id" json:"initiator_id"`
	Outcome     ResolutionOutcome  `json:"outcome"`
	CreatedAt   time.Time          `db:"created_at" json:"created_at"`
}

// ConflictPolicy configures detection and escalation for a session. Time
// limits are descriptive policy only; nothing in this service enforces them.
type ConflictPolicy struct {
	AutoDetect            bool               `json:"auto_detect"`
	DefaultStrategy       ResolutionStrategy `json:"default_strategy"`
	ResolutionTimeLimit   int                `json:"resolution_time_limit_minutes"`
	EscalateToMediator    bool               `json:"escalate_to_mediator"`
	EscalateToFacilitator bool               `json:"escalate_to_facilitator"`
}

// DefaultConflictPolicy returns the policy attached to new sessions.
func DefaultConflictPolicy() ConflictPolicy {
	return ConflictPolicy{
		AutoDetect:            true,
		DefaultStrategy:       StrategyDiscussion,
		ResolutionTimeLimit:   15,
		EscalateToMediator:    true,
		EscalateToFacilitator: true,
	}
}
