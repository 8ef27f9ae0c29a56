package models

import "time"

// ReviewerType identifies who authored a feedback entry.
type ReviewerType string

// Reviewer types.
const (
	ReviewerPeer        ReviewerType = "PEER"
	ReviewerFacilitator ReviewerType = "FACILITATOR"
	ReviewerSystem      ReviewerType = "SYSTEM"
)

// FeedbackType classifies the intent of a feedback entry.
type FeedbackType string

// Feedback types.
const (
	FeedbackSuggestion FeedbackType = "SUGGESTION"
	FeedbackPraise     FeedbackType = "PRAISE"
	FeedbackConcern    FeedbackType = "CONCERN"
	FeedbackQuestion   FeedbackType = "QUESTION"
)

// FeedbackEntry is peer or facilitator review attached to exactly one segment.
type FeedbackEntry struct {
	ID           string       `json:"id"`
	ReviewerID   string       `json:"reviewer_id"`
	ReviewerType ReviewerType `json:"reviewer_type"`
	Type         FeedbackType `json:"type"`
	Content      string       `json:"content"`
	Resolved     bool         `json:"resolved"`
	CreatedAt    time.Time    `json:"created_at"`
}
