package credential

import (
	"context"
	"sync"
)

// Cache is a write-through, in-memory view of the persisted token. The HTTP
// transport reads it on every request via Token(); writers go through Set
// and Clear, which update memory first so a rejection takes effect even if
// the disk write fails.
type Cache struct {
	store Store

	mu  sync.RWMutex
	tok string
}

// NewCache loads the persisted token (if any) and wraps the store.
func NewCache(ctx context.Context, store Store) (*Cache, error) {
	tok, err := store.Get(ctx)
	if err != nil {
		return nil, err
	}
	return &Cache{store: store, tok: tok}, nil
}

// Token implements api.TokenSource. Empty string means absent.
func (c *Cache) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tok
}

// Present reports whether a credential is currently held.
func (c *Cache) Present() bool {
	return c.Token() != ""
}

func (c *Cache) Set(ctx context.Context, token string) error {
	c.mu.Lock()
	c.tok = token
	c.mu.Unlock()
	return c.store.Set(ctx, token)
}

func (c *Cache) Clear(ctx context.Context) error {
	c.mu.Lock()
	c.tok = ""
	c.mu.Unlock()
	return c.store.Clear(ctx)
}
