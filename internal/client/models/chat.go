package models

import "time"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Citation is a source excerpt supporting an assistant turn's content.
// Never mutated after attachment.
type Citation struct {
	Text string `json:"text"`
}

// Turn is one message in the conversation transcript. Turns are immutable
// once appended; the transcript is append-only.
//
// Score, Feedback, and Citations are only ever set on assistant turns.
// Score, when present, is an integer in 1–10.
type Turn struct {
	Role      Role       `json:"role"`
	Content   string     `json:"content"`
	Timestamp time.Time  `json:"timestamp"`
	Score     *int       `json:"score,omitempty"`
	Feedback  string     `json:"feedback,omitempty"`
	Citations []Citation `json:"citations,omitempty"`
}

// PendingRequest marks an in-flight start or send. It is rendered by the
// view but never enters the transcript.
type PendingRequest struct {
	ID        string
	StartedAt time.Time
}
