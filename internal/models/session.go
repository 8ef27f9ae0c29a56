package models

import "time"

// SessionType determines contribution ordering rules.
type SessionType string

// Session types.
const (
	SessionCollaborative SessionType = "COLLABORATIVE"
	SessionTurnBased     SessionType = "TURN_BASED"
	SessionGuided        SessionType = "GUIDED"
)

// SessionStatus tracks lifecycle state.
// Legal transitions: SCHEDULED→ACTIVE, ACTIVE↔PAUSED, ACTIVE→COMPLETED,
// and any non-terminal state→CANCELLED.
type SessionStatus string

// Session statuses.
const (
	SessionScheduled SessionStatus = "SCHEDULED"
	SessionActive    SessionStatus = "ACTIVE"
	SessionPaused    SessionStatus = "PAUSED"
	SessionCompleted SessionStatus = "COMPLETED"
	SessionCancelled SessionStatus = "CANCELLED"
)

// Terminal reports whether no further transitions are allowed from s.
func (s SessionStatus) Terminal() bool {
	return s == SessionCompleted || s == SessionCancelled
}

// AssessmentCriteria weights the dimensions used for group assessment.
type AssessmentCriteria struct {
	CollaborationWeight float64  `json:"collaboration_weight"`
	ContentWeight       float64  `json:"content_weight"`
	ObjectivesWeight    float64  `json:"objectives_weight"`
	ObjectiveIDs        []string `json:"objective_ids,omitempty"`
}

// DefaultAssessmentCriteria returns the criteria attached to new sessions.
func DefaultAssessmentCriteria(objectiveIDs []string) AssessmentCriteria {
	return AssessmentCriteria{
		CollaborationWeight: 1,
		ContentWeight:       1,
		ObjectivesWeight:    1,
		ObjectiveIDs:        objectiveIDs,
	}
}

// Session is the aggregate root for one collaborative authoring session.
// Participants and Transcript are ordered; admission order drives turn
// rotation and Transcript holds only approved segments.
type Session struct {
	ID              string             `json:"id"`
	ClassroomID     string             `json:"classroom_id"`
	Title           string             `json:"title"`
	Description     string             `json:"description"`
	FacilitatorID   string             `json:"facilitator_id"`
	Prompt          string             `json:"prompt"`
	Objectives      []string           `json:"objectives,omitempty"`
	Type            SessionType        `json:"type"`
	Status          SessionStatus      `json:"status"`
	Participants    []Participant      `json:"participants"`
	Transcript      []Segment          `json:"transcript"`
	PendingSegments []Segment          `json:"pending_segments,omitempty"`
	Roles           []StoryRole        `json:"roles"`
	ConflictPolicy  ConflictPolicy     `json:"conflict_policy"`
	Criteria        AssessmentCriteria `json:"assessment_criteria"`
	CurrentTurn     *string            `json:"current_turn,omitempty"`
	ScheduledStart  time.Time          `json:"scheduled_start"`
	StartedAt       *time.Time         `json:"started_at,omitempty"`
	CompletedAt     *time.Time         `json:"completed_at,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// Participant returns the participant for a student id, or nil.
func (s *Session) Participant(studentID string) *Participant {
	for i := range s.Participants {
		if s.Participants[i].StudentID == studentID {
			return &s.Participants[i]
		}
	}
	return nil
}

// TranscriptSegment finds an approved segment by id, or nil. Segments still
// in the pending queue are not visible through this lookup.
func (s *Session) TranscriptSegment(segmentID string) *Segment {
	for i := range s.Transcript {
		if s.Transcript[i].ID == segmentID {
			return &s.Transcript[i]
		}
	}
	return nil
}

// AssignedRoleIDs returns the role ids currently held by participants.
func (s *Session) AssignedRoleIDs() map[string]struct{} {
	assigned := make(map[string]struct{}, len(s.Participants))
	for i := range s.Participants {
		assigned[s.Participants[i].Role.ID] = struct{}{}
	}
	return assigned
}

// SessionSummary is the list-view projection of a session.
type SessionSummary struct {
	ID            string        `json:"id"`
	ClassroomID   string        `json:"classroom_id"`
	Title         string        `json:"title"`
	FacilitatorID string        `json:"facilitator_id"`
	Type          SessionType   `json:"type"`
	Status        SessionStatus `json:"status"`
	Participants  int           `json:"participants"`
	Capacity      int           `json:"capacity"`
	CreatedAt     time.Time     `json:"created_at"`
}

// Summary projects the aggregate into its list view.
func (s *Session) Summary() SessionSummary {
	return SessionSummary{
		ID:            s.ID,
		ClassroomID:   s.ClassroomID,
		Title:         s.Title,
		FacilitatorID: s.FacilitatorID,
		Type:          s.Type,
		Status:        s.Status,
		Participants:  len(s.Participants),
		Capacity:      len(s.Roles),
		CreatedAt:     s.CreatedAt,
	}
}

// SessionFilter captures filtering criteria for listing sessions.
type SessionFilter struct {
	ClassroomID   string
	FacilitatorID string
	Status        SessionStatus
	Type          SessionType
	Page          int
	PageSize      int
}
