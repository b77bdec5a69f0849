// Package models defines the client-side data model: user identity,
// documents and readiness, and the chat transcript.
package models

// UserProfile is an immutable snapshot supplied by the server.
// It is only ever replaced wholesale, never patched.
type UserProfile struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
