package services

import "errors"

// Validation errors are handled locally and never escalate to the session
// layer.
var (
	ErrEmptyMessage      = errors.New("message is empty")
	ErrUnsupportedFormat = errors.New("unsupported document format, expected PDF")
	ErrFileTooLarge      = errors.New("file exceeds the 2 MiB limit")
)

// Conversation state errors.
var (
	ErrBusy           = errors.New("previous request still in flight")
	ErrNotStarted     = errors.New("session not started")
	ErrAlreadyStarted = errors.New("session already started")
	ErrClosed         = errors.New("conversation closed")
	ErrNoCitations    = errors.New("turn has no citations")
)
