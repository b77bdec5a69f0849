package models

import "time"

type DocumentKind string

const (
	KindResume         DocumentKind = "resume"
	KindJobDescription DocumentKind = "job_description"
)

// DocumentRecord is owned by the server; the client holds a read-through
// cache. The server keeps at most one active document per kind per user,
// a new upload of the same kind supersedes the prior one.
type DocumentRecord struct {
	ID           string       `json:"id"`
	Kind         DocumentKind `json:"type"`
	OriginalName string       `json:"originalName"`
	UploadedAt   time.Time    `json:"uploadedAt"`
}

// ReadinessStatus is purely derived from the document set, never stored
// independently of it.
type ReadinessStatus struct {
	HasResume         bool `json:"hasResume"`
	HasJobDescription bool `json:"hasJobDescription"`
	ReadyForChat      bool `json:"readyForChat"`
}

// EvaluateReadiness derives the readiness status from a document set.
// ReadyForChat is true iff both kinds are present.
func EvaluateReadiness(docs []DocumentRecord) ReadinessStatus {
	var s ReadinessStatus
	for _, d := range docs {
		switch d.Kind {
		case KindResume:
			s.HasResume = true
		case KindJobDescription:
			s.HasJobDescription = true
		}
	}
	s.ReadyForChat = s.HasResume && s.HasJobDescription
	return s
}
