package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Key is a composite cache key: entity type first, identifying params after
// (e.g. {"transactions", "my-purchases"}).
type Key []string

// String joins the key components for storage backends.
func (k Key) String() string {
	return strings.Join(k, ":")
}

// HasPrefix reports whether the key's leading components equal prefix.
func (k Key) HasPrefix(prefix Key) bool {
	if len(prefix) > len(k) {
		return false
	}
	for i, part := range prefix {
		if k[i] != part {
			return false
		}
	}
	return true
}

// Store is the storage backend behind the Coordinator. Read returns
// ok=false on a miss or a stale entry; Invalidate reports how many fresh
// entries it marked stale.
type Store interface {
	Read(ctx context.Context, key Key) ([]byte, bool, error)
	Write(ctx context.Context, key Key, value []byte, ttl time.Duration) error
	Invalidate(ctx context.Context, prefix Key) (int, error)
}

// Coordinator is the keyed cache of fetched entities. A miss or stale read
// signals the caller to fetch fresh from the remote gateway.
type Coordinator struct {
	store Store
	ttl   time.Duration
}

// NewCoordinator wraps a store. A zero ttl means entries live until
// invalidated.
func NewCoordinator(store Store, ttl time.Duration) *Coordinator {
	return &Coordinator{store: store, ttl: ttl}
}

// Read unmarshals the cached value for key into out. It returns false on a
// miss, a stale entry, or an undecodable entry.
func (c *Coordinator) Read(ctx context.Context, key Key, out interface{}) (bool, error) {
	raw, ok, err := c.store.Read(ctx, key)
	if err != nil {
		return false, fmt.Errorf("cache read %s: %w", key, err)
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, nil
	}
	return true, nil
}

// Write stores value under key, replacing any previous entry and clearing
// its stale mark.
func (c *Coordinator) Write(ctx context.Context, key Key, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache write %s: %w", key, err)
	}
	if err := c.store.Write(ctx, key, raw, c.ttl); err != nil {
		return fmt.Errorf("cache write %s: %w", key, err)
	}
	return nil
}

// Invalidate marks every stored key whose leading components equal prefix
// as stale, so the next read refetches. It returns the number of entries
// newly marked stale. Invalidations are commutative and idempotent.
func (c *Coordinator) Invalidate(ctx context.Context, prefix Key) (int, error) {
	n, err := c.store.Invalidate(ctx, prefix)
	if err != nil {
		return 0, fmt.Errorf("cache invalidate %s: %w", prefix, err)
	}
	return n, nil
}
