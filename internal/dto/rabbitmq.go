package dto

import "time"

// MQScoringJobMsg drives one pipeline run; Attempts travels with the message
// so a retried job carries its own budget.
type MQScoringJobMsg struct {
	PostID      int64     `json:"post_id"`
	Attempts    int       `json:"attempts"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// MQPostApprovedMsg is published for the notification service once a post
// becomes publicly visible, so followers can be told about it.
type MQPostApprovedMsg struct {
	PostID     int64     `json:"post_id"`
	Author     string    `json:"author"`
	PostTitle  string    `json:"post_title"`
	ApprovedAt time.Time `json:"approved_at"`
}
