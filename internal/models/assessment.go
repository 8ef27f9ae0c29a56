package models

import "time"

// ParticipantScores holds the score breakdown for one participant.
type ParticipantScores struct {
	Collaboration       float64 `json:"collaboration"`
	ContentContribution float64 `json:"content_contribution"`
	LearningObjectives  float64 `json:"learning_objectives"`
	Overall             float64 `json:"overall"`
}

// ParticipantAssessment is the derived result for one participant.
type ParticipantAssessment struct {
	StudentID       string            `json:"student_id"`
	Scores          ParticipantScores `json:"scores"`
	Strengths       []string          `json:"strengths,omitempty"`
	Improvements    []string          `json:"improvements,omitempty"`
	Recommendations []string          `json:"recommendations,omitempty"`
}

// GroupMetrics aggregates session-wide assessment signals.
type GroupMetrics struct {
	AverageScore               float64 `json:"average_score"`
	CollaborationEffectiveness float64 `json:"collaboration_effectiveness"`
	StoryQuality               float64 `json:"story_quality"`
	ParticipationBalance       float64 `json:"participation_balance"`
	ConflictResolutionSuccess  float64 `json:"conflict_resolution_success"`
}

// AssessmentResult is derived state, never canonical. It is recomputed from
// transcript, feedback and role data on demand.
type AssessmentResult struct {
	SessionID         string                  `json:"session_id"`
	AssessmentType    string                  `json:"assessment_type"`
	IndividualResults []ParticipantAssessment `json:"individual_results"`
	GroupMetrics      GroupMetrics            `json:"group_metrics"`
	Recommendations   []string                `json:"recommendations,omitempty"`
	GeneratedAt       time.Time               `json:"generated_at"`
}
