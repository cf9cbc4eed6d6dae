package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// DefaultCap is the collection size used when none is configured.
const DefaultCap = 5

var (
	// ErrMissingKey means the update's key field was absent or empty.
	ErrMissingKey = errors.New("update missing key field")
)

// Collection is a thread-safe, capped, unique-by-key record list.
//
// Updates arrive as raw JSON patches. Merging unmarshals the patch onto a
// copy of the existing record, so fields the patch omits keep their current
// values (field-level overwrite, no deep merge). The lookup is a linear scan,
// acceptable for the small capped sizes this package is used with.
type Collection[T any] struct {
	mu    sync.RWMutex
	cap   int
	key   func(T) string
	items []T

	applied int64
}

// NewCollection creates an empty collection capped at max records, with key
// extracting each record's unique id. A max below 1 falls back to DefaultCap.
func NewCollection[T any](max int, key func(T) string) *Collection[T] {
	if max < 1 {
		max = DefaultCap
	}
	return &Collection[T]{
		cap: max,
		key: key,
	}
}

// Apply folds one update into the collection.
//
// If no record with the update's key exists, the update is decoded into a
// fresh record and prepended. If one exists, the patch is applied over it in
// place without changing its position. The collection is then truncated to
// its cap from the tail (oldest first). Applying an identical patch twice is
// a no-op the second time.
func (c *Collection[T]) Apply(patch json.RawMessage) error {
	var incoming T
	if err := json.Unmarshal(patch, &incoming); err != nil {
		return fmt.Errorf("decode update: %w", err)
	}

	k := c.key(incoming)
	if k == "" {
		return ErrMissingKey
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.key(c.items[i]) != k {
			continue
		}
		merged := c.items[i]
		if err := json.Unmarshal(patch, &merged); err != nil {
			return fmt.Errorf("merge update: %w", err)
		}
		c.items[i] = merged
		c.applied++
		return nil
	}

	c.items = append([]T{incoming}, c.items...)
	if len(c.items) > c.cap {
		c.items = c.items[:c.cap]
	}
	c.applied++
	return nil
}

// Get returns the record with the given key, if present.
func (c *Collection[T]) Get(key string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for i := range c.items {
		if c.key(c.items[i]) == key {
			return c.items[i], true
		}
	}
	var zero T
	return zero, false
}

// Snapshot returns a copy of the collection, newest first.
func (c *Collection[T]) Snapshot() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the current record count.
func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Applied returns how many updates have been folded in.
func (c *Collection[T]) Applied() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.applied
}
