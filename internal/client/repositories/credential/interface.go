package credential

import "context"

// Store is the persistence contract for the session token.
// Get returns an empty string when no token is stored.
type Store interface {
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}
