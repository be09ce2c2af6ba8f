package sl

import (
	"sync"
	"time"
)

// DefaultDedupWindow is how long a repeated message stays suppressed.
const DefaultDedupWindow = 30 * time.Second

// Deduper suppresses duplicate log messages inside a fixed time window.
// Affordability checks run on every catalogue render, so a broken ledger
// would otherwise repeat the same error line hundreds of times per minute.
type Deduper struct {
	mu     sync.Mutex
	window time.Duration
	seen   map[string]time.Time
	now    func() time.Time
}

// NewDeduper creates a Deduper with the given suppression window.
// A non-positive window falls back to DefaultDedupWindow.
func NewDeduper(window time.Duration) *Deduper {
	if window <= 0 {
		window = DefaultDedupWindow
	}
	return &Deduper{
		window: window,
		seen:   make(map[string]time.Time),
		now:    time.Now,
	}
}

// Allow reports whether a message with the given key may be logged now.
// The first call for a key returns true; repeats return false until the
// window has elapsed.
func (d *Deduper) Allow(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	if last, ok := d.seen[key]; ok && now.Sub(last) < d.window {
		return false
	}
	d.seen[key] = now

	// Drop stale entries so the map does not grow with one-off messages.
	for k, t := range d.seen {
		if now.Sub(t) >= d.window {
			delete(d.seen, k)
		}
	}
	return true
}
