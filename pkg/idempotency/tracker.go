package idempotency

import "sync"

// Tracker remembers the fingerprints seen during one run.
type Tracker struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func NewTracker() *Tracker {
	return &Tracker{seen: make(map[string]struct{})}
}

// Seen records the fingerprint and reports whether it was already present.
func (t *Tracker) Seen(fingerprint string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.seen[fingerprint]; ok {
		return true
	}
	t.seen[fingerprint] = struct{}{}

	return false
}

// Len returns the number of distinct fingerprints recorded so far.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.seen)
}
