// Package cache keeps time-windowed views of records consistent after
// mutations without refetching from the tracker.
package cache

import (
	"sync"
	"time"

	"github.com/teamoff/offdays/internal/domain"
)

// WindowCache stores records keyed by window. Membership after a mutation is
// recomputed with the same predicate the fetch filters use, so a cached
// window always matches what a fresh fetch would return for the records it
// has seen. Windows are never expired here: staleness is an external policy.
type WindowCache struct {
	mu         sync.RWMutex
	windows    map[domain.WindowKey][]*domain.Record
	lastUpdate map[domain.WindowKey]time.Time
}

// NewWindowCache creates an empty cache.
func NewWindowCache() *WindowCache {
	return &WindowCache{
		windows:    make(map[domain.WindowKey][]*domain.Record),
		lastUpdate: make(map[domain.WindowKey]time.Time),
	}
}

// Get returns the cached records for a window. ok is false when the window
// has never been populated; an empty populated window returns (empty, true).
func (c *WindowCache) Get(key domain.WindowKey) ([]*domain.Record, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	records, ok := c.windows[key]
	if !ok {
		return nil, false
	}
	out := make([]*domain.Record, len(records))
	copy(out, records)
	return out, true
}

// Put replaces a window's contents with a fresh fetch result.
func (c *WindowCache) Put(key domain.WindowKey, records []*domain.Record) {
	c.mu.Lock()
	defer c.mu.Unlock()

	stored := make([]*domain.Record, len(records))
	copy(stored, records)
	c.windows[key] = stored
	c.lastUpdate[key] = time.Now()
}

// Drop removes a window entirely (used by the external staleness policy).
func (c *WindowCache) Drop(key domain.WindowKey) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.windows, key)
	delete(c.lastUpdate, key)
}

// Keys returns all currently-cached window keys.
func (c *WindowCache) Keys() []domain.WindowKey {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([]domain.WindowKey, 0, len(c.windows))
	for k := range c.windows {
		keys = append(keys, k)
	}
	return keys
}

// Len returns the number of cached windows.
func (c *WindowCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.windows)
}

// LastUpdate returns when a window was last written.
func (c *WindowCache) LastUpdate(key domain.WindowKey) (time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	t, ok := c.lastUpdate[key]
	return t, ok
}

// ApplyCreate folds a freshly created record into every cached window it
// belongs to. Windows whose range excludes the record are untouched.
func (c *WindowCache) ApplyCreate(rec *domain.Record) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, records := range c.windows {
		if !domain.InWindow(rec, key) {
			continue
		}
		if indexOf(records, rec.ID) == -1 {
			c.windows[key] = append(records, rec)
		}
	}
}

// ApplyUpdate recomputes the updated record's membership per window: insert
// where it newly belongs, replace in place where it stays, remove where its
// new dates moved it out.
func (c *WindowCache) ApplyUpdate(rec *domain.Record) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, records := range c.windows {
		idx := indexOf(records, rec.ID)
		member := domain.InWindow(rec, key)
		switch {
		case member && idx == -1:
			c.windows[key] = append(records, rec)
		case member && idx >= 0:
			records[idx] = rec
		case !member && idx >= 0:
			c.windows[key] = append(records[:idx], records[idx+1:]...)
		}
	}
}

// ApplyClose removes the record from every window unconditionally: closed
// records are never shown, regardless of date overlap.
func (c *WindowCache) ApplyClose(id int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, records := range c.windows {
		if idx := indexOf(records, id); idx >= 0 {
			c.windows[key] = append(records[:idx], records[idx+1:]...)
		}
	}
}

func indexOf(records []*domain.Record, id int) int {
	for i, r := range records {
		if r.ID == id {
			return i
		}
	}
	return -1
}
