package tracker

import (
	"sync"
	"testing"
)

func TestTracker(t *testing.T) {
	tr := New()
	engine := "edge-tts"

	// Initial state
	stats := tr.Snapshot()
	if len(stats) != 0 {
		t.Errorf("Expected empty stats, got %d", len(stats))
	}

	tr.CacheHit(engine)
	tr.Rendered(engine, 42)
	tr.Rendered(engine, 8)
	tr.Failure(engine)

	stats = tr.Snapshot()
	s, ok := stats[engine]
	if !ok {
		t.Fatalf("Expected stats for engine %s", engine)
	}

	if s.CacheHits != 1 {
		t.Errorf("Expected 1 CacheHit, got %d", s.CacheHits)
	}
	if s.Rendered != 2 {
		t.Errorf("Expected 2 Rendered, got %d", s.Rendered)
	}
	if s.Chars != 50 {
		t.Errorf("Expected 50 Chars, got %d", s.Chars)
	}
	if s.Failures != 1 {
		t.Errorf("Expected 1 Failure, got %d", s.Failures)
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	tr := New()
	tr.Rendered("windows-sapi", 10)

	snap := tr.Snapshot()
	s := snap["windows-sapi"]
	s.Rendered = 999
	snap["windows-sapi"] = s

	if got := tr.Snapshot()["windows-sapi"].Rendered; got != 1 {
		t.Errorf("Mutating a snapshot leaked into the tracker: Rendered = %d", got)
	}
}

func TestConcurrentTracking(t *testing.T) {
	tr := New()
	engines := []string{"edge-tts", "windows-sapi"}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			engine := engines[n%len(engines)]
			for j := 0; j < 100; j++ {
				tr.Rendered(engine, 1)
				tr.CacheHit(engine)
			}
		}(i)
	}
	wg.Wait()

	stats := tr.Snapshot()
	var rendered, hits int64
	for _, s := range stats {
		rendered += s.Rendered
		hits += s.CacheHits
	}
	if rendered != 800 {
		t.Errorf("Expected 800 rendered chunks total, got %d", rendered)
	}
	if hits != 800 {
		t.Errorf("Expected 800 cache hits total, got %d", hits)
	}
}
