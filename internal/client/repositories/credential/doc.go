// Package credential persists the opaque session token across CLI runs.
//
// The store holds at most one token. Absence of a token means "not
// authenticated" regardless of any cached user data. Only the session
// service and the unauthorized-response hook write to it.
package credential
