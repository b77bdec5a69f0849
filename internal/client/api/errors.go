package api

import "errors"

var (
	// ErrUnauthorized is the authentication-rejection signal: the presented
	// credential is invalid or expired.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrUnavailable covers network failures, timeouts, and 5xx responses.
	ErrUnavailable = errors.New("server unavailable")

	// ErrNotReady means a chat session was requested before both documents
	// were uploaded. Non-fatal; the caller re-renders the upload surface.
	ErrNotReady = errors.New("documents not ready")

	ErrNotFound       = errors.New("not found")
	ErrConflict       = errors.New("already exists")
	ErrInvalidRequest = errors.New("invalid request")
)
