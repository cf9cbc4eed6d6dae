package connection

import (
	"sort"
	"sync"
)

// Registry tracks the channels the caller wants to be subscribed to.
//
// The set is independent of any particular connection session: it is only
// mutated by explicit Add/Remove calls, never on disconnect, so the Manager
// can replay it in full on every successful (re)connect.
type Registry struct {
	mu       sync.RWMutex
	channels map[string]struct{}
}

// NewRegistry creates an empty channel registry.
func NewRegistry() *Registry {
	return &Registry{channels: make(map[string]struct{})}
}

// Add records the given channels and returns how many were not already
// present. Re-adding a known channel leaves the set unchanged.
func (r *Registry) Add(channels []string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	added := 0
	for _, ch := range channels {
		if ch == "" {
			continue
		}
		if _, ok := r.channels[ch]; !ok {
			r.channels[ch] = struct{}{}
			added++
		}
	}
	return added
}

// Remove drops the given channels from the set and returns how many were
// actually present.
func (r *Registry) Remove(channels []string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for _, ch := range channels {
		if _, ok := r.channels[ch]; ok {
			delete(r.channels, ch)
			removed++
		}
	}
	return removed
}

// Contains reports whether the channel is in the set.
func (r *Registry) Contains(channel string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.channels[channel]
	return ok
}

// Snapshot returns the current channel set, sorted for a stable wire order.
func (r *Registry) Snapshot() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.channels))
	for ch := range r.channels {
		out = append(out, ch)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of subscribed channels.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.channels)
}
