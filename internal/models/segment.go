package models

import "time"

// SegmentType classifies the narrative purpose of a segment.
type SegmentType string

// Segment types.
const (
	SegmentIntroduction         SegmentType = "INTRODUCTION"
	SegmentCharacterDevelopment SegmentType = "CHARACTER_DEVELOPMENT"
	SegmentPlotAdvancement      SegmentType = "PLOT_ADVANCEMENT"
	SegmentConflict             SegmentType = "CONFLICT"
	SegmentResolution           SegmentType = "RESOLUTION"
	SegmentDialogue             SegmentType = "DIALOGUE"
)

// ApprovalStatus tracks moderation state of a segment.
type ApprovalStatus string

// Approval statuses.
const (
	ApprovalPending       ApprovalStatus = "PENDING"
	ApprovalApproved      ApprovalStatus = "APPROVED"
	ApprovalNeedsRevision ApprovalStatus = "NEEDS_REVISION"
	ApprovalRejected      ApprovalStatus = "REJECTED"
)

// SegmentEdit records one revision of a segment's text.
type SegmentEdit struct {
	EditorID string    `json:"editor_id"`
	OldText  string    `json:"old_text"`
	EditedAt time.Time `json:"edited_at"`
}

// Segment is one transcript entry contributed by one participant in one
// submission. Append-only once approved.
type Segment struct {
	ID             string          `json:"id"`
	AuthorID       string          `json:"author_id"`
	Text           string          `json:"text"`
	WordCount      int             `json:"word_count"`
	Timestamp      time.Time       `json:"timestamp"`
	Type           SegmentType     `json:"type"`
	ApprovalStatus ApprovalStatus  `json:"approval_status"`
	Feedback       []FeedbackEntry `json:"feedback,omitempty"`
	EditHistory    []SegmentEdit   `json:"edit_history,omitempty"`
}
