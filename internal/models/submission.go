package models

import "time"

// Submission types. Realizace is a finished-project submission, faktura an
// invoice submission; approval of either credits points to the author.
const (
	SubmissionRealizace = "realizace"
	SubmissionFaktura   = "faktura"
)

// Submission statuses.
const (
	SubmissionDraft    = "draft"
	SubmissionPending  = "pending"
	SubmissionApproved = "approved"
	SubmissionRejected = "rejected"
)

// Submission is a user-submitted realizace or faktura going through the
// approval workflow. Points holds the value assigned on approval; while the
// submission is pending it carries the estimated value used by progress
// displays.
type Submission struct {
	ID           int64      `json:"id"`
	UID          string     `json:"uid"`
	UserID       int64      `json:"user_id"`
	Type         string     `json:"type"`
	Status       string     `json:"status"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	Points       float64    `json:"points"`
	RejectReason string     `json:"reject_reason,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	ResolvedAt   *time.Time `json:"resolved_at,omitempty"`
}

// SubmissionRequest is the JSON payload for creating a submission.
type SubmissionRequest struct {
	Type        string  `json:"type" validate:"required,oneof=realizace faktura"`
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description" validate:"omitempty"`
	Points      float64 `json:"points" validate:"omitempty,gte=0"`
}
