package models

import "time"

// ContributionType separates story writing from review activity.
type ContributionType string

// Contribution types.
const (
	ContributionOriginalContent ContributionType = "ORIGINAL_CONTENT"
	ContributionFeedback        ContributionType = "FEEDBACK"
)

// Contribution is one action a participant took within the session.
type Contribution struct {
	ID           string           `json:"id"`
	Type         ContributionType `json:"type"`
	SegmentID    string           `json:"segment_id,omitempty"`
	QualityScore float64          `json:"quality_score"`
	WordCount    int              `json:"word_count"`
	CreatedAt    time.Time        `json:"created_at"`
}

// Participant is a student admitted to a session. Participants are never
// removed mid-session, only deactivated. Order of the Participants slice is
// admission order and drives turn rotation.
type Participant struct {
	StudentID           string         `json:"student_id"`
	Role                StoryRole      `json:"role"`
	Contributions       []Contribution `json:"contributions"`
	EngagementScore     float64        `json:"engagement_score"`
	CollaborationRating *float64       `json:"collaboration_rating,omitempty"`
	IsActive            bool           `json:"is_active"`
	JoinedAt            time.Time      `json:"joined_at"`
}
