package auth

import (
	"sync/atomic"
	"time"
)

// ReauthSignal de-duplicates the re-authentication prompt. When several
// concurrent requests fail with an expired credential at once, exactly one
// of them carries the prompt; the flag re-arms itself after the reset delay.
type ReauthSignal struct {
	armed      atomic.Bool
	resetAfter time.Duration
}

// NewReauthSignal creates a signal that re-arms resetAfter after each fire.
func NewReauthSignal(resetAfter time.Duration) *ReauthSignal {
	return &ReauthSignal{resetAfter: resetAfter}
}

// Fire returns true for the first caller inside a reset window. Subsequent
// callers get false until the window lapses.
func (s *ReauthSignal) Fire() bool {
	if !s.armed.CompareAndSwap(false, true) {
		return false
	}
	time.AfterFunc(s.resetAfter, func() {
		s.armed.Store(false)
	})
	return true
}
