package models

import "time"

// PresentationConfig tunes how a completed session is packaged.
type PresentationConfig struct {
	Format           string `json:"format"`
	PresentationTime int    `json:"presentation_time"`
	IncludeFeedback  bool   `json:"include_feedback"`
}

// PresentationRole assigns one delivery role to one participant.
type PresentationRole struct {
	StudentID       string `json:"student_id"`
	DisplayName     string `json:"display_name,omitempty"`
	Role            string `json:"role"`
	DurationMinutes int    `json:"duration_minutes"`
}

// RubricCriterion is one scored dimension of the presentation rubric.
type RubricCriterion struct {
	Name        string  `json:"name"`
	Weight      float64 `json:"weight"`
	Description string  `json:"description"`
}

// PresentationPackage is the compiled output of a completed session.
type PresentationPackage struct {
	SessionID         string             `json:"session_id"`
	Title             string             `json:"title"`
	FullStory         string             `json:"full_story"`
	SegmentCount      int                `json:"segment_count"`
	RoleAssignments   []PresentationRole `json:"role_assignments"`
	Rubric            []RubricCriterion  `json:"rubric"`
	Guidelines        []string           `json:"guidelines"`
	EstimatedDuration int                `json:"estimated_duration"`
	CompiledAt        time.Time          `json:"compiled_at"`
}
