// Package tracker counts synthesis work per TTS engine: chunks served
// from the render cache, chunks rendered fresh, failed requests and the
// characters submitted. The synthesis manager logs a snapshot after
// every run so engine switches and cache effectiveness stay visible.
package tracker

import (
	"sync"
	"sync/atomic"
)

// Tracker accumulates usage statistics per engine for the lifetime of
// the process.
type Tracker struct {
	mu      sync.RWMutex
	engines map[string]*EngineStats
}

// EngineStats holds the counters for one engine.
// Fields are accessed atomically.
type EngineStats struct {
	CacheHits int64
	Rendered  int64
	Failures  int64
	Chars     int64
}

// New creates an empty Tracker.
func New() *Tracker {
	return &Tracker{
		engines: make(map[string]*EngineStats),
	}
}

// get returns the stats object for an engine, creating it if needed.
func (t *Tracker) get(engine string) *EngineStats {
	t.mu.RLock()
	s, ok := t.engines[engine]
	t.mu.RUnlock()
	if ok {
		return s
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	// Double check
	if s, ok = t.engines[engine]; ok {
		return s
	}
	s = &EngineStats{}
	t.engines[engine] = s
	return s
}

// CacheHit records a chunk served from the render cache.
func (t *Tracker) CacheHit(engine string) {
	atomic.AddInt64(&t.get(engine).CacheHits, 1)
}

// Rendered records a chunk the engine synthesized, with the number of
// characters it was given.
func (t *Tracker) Rendered(engine string, chars int) {
	s := t.get(engine)
	atomic.AddInt64(&s.Rendered, 1)
	atomic.AddInt64(&s.Chars, int64(chars))
}

// Failure records a request the engine rejected or botched.
func (t *Tracker) Failure(engine string) {
	atomic.AddInt64(&t.get(engine).Failures, 1)
}

// Snapshot returns a copy of the current counters.
func (t *Tracker) Snapshot() map[string]EngineStats {
	t.mu.RLock()
	defer t.mu.RUnlock()

	result := make(map[string]EngineStats, len(t.engines))
	for name, s := range t.engines {
		result[name] = EngineStats{
			CacheHits: atomic.LoadInt64(&s.CacheHits),
			Rendered:  atomic.LoadInt64(&s.Rendered),
			Failures:  atomic.LoadInt64(&s.Failures),
			Chars:     atomic.LoadInt64(&s.Chars),
		}
	}
	return result
}
