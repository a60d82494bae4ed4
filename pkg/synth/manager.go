// Package synth renders a project's sentences to narration audio and
// measures per-word timing along the way. Sentences are synthesized in
// parallel, chunked by prosody, trimmed, concatenated, and the measured
// durations become the absolute narration timeline.
package synth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"vsubgo/pkg/config"
	"vsubgo/pkg/model"
	"vsubgo/pkg/tracker"
	"vsubgo/pkg/tts"
)

var (
	// ErrBusy is returned when a synthesis run is already in flight.
	ErrBusy = errors.New("synthesis already running")
	// ErrNoSentences is returned for a project with nothing to narrate.
	ErrNoSentences = errors.New("project has no sentences")
)

// State describes the lifecycle of the most recent synthesis run.
type State string

const (
	StateIdle      State = "idle"
	StateRunning   State = "running"
	StateDone      State = "done"
	StateFailed    State = "failed"
	StateCancelled State = "cancelled"
)

// Status is a snapshot of the manager for the API.
type Status struct {
	State     State  `json:"state"`
	Completed int    `json:"completed"` // sentences finished
	Total     int    `json:"total"`
	AudioFile string `json:"audio_file,omitempty"`
	Error     string `json:"error,omitempty"`
}

// SentenceTiming carries the measured timing for one sentence in
// absolute narration time, one stamp per word token.
type SentenceTiming struct {
	Index    int
	OriginMS int64
	Words    []tts.WordStamp
}

// Result is delivered to the completion callback exactly once per run.
// On error no timing data is usable and the caller must leave the
// project untouched.
type Result struct {
	AudioFile string
	Timings   []SentenceTiming
	Err       error
}

// Manager runs synthesis jobs one at a time.
type Manager struct {
	primary      tts.Provider
	fallback     tts.Provider
	allowFB      bool
	primaryName  string
	fallbackName string
	workDir      string
	outDir       string
	parallelism  int
	gapMS        int64
	trim         bool
	proc         audioProcessor
	cache        *chunkCache
	stats        *tracker.Tracker

	mu          sync.RWMutex
	running     bool
	useFallback bool
	cancel      context.CancelFunc
	status      Status
}

// NewManager creates a synthesis manager. fallback may be nil.
func NewManager(cfg *config.Config, primary, fallback tts.Provider) (*Manager, error) {
	cache, err := newChunkCache(filepath.Join(cfg.Paths.Work, "cache"))
	if err != nil {
		return nil, err
	}
	for _, dir := range []string{filepath.Join(cfg.Paths.Work, "sentences"), cfg.Paths.Output} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	return &Manager{
		primary:      primary,
		fallback:     fallback,
		allowFB:      cfg.TTS.Fallback,
		primaryName:  cfg.TTS.Engine,
		fallbackName: "windows-sapi",
		workDir:      cfg.Paths.Work,
		outDir:       cfg.Paths.Output,
		parallelism:  cfg.Synthesis.Parallelism,
		gapMS:        cfg.Synthesis.SentenceGap.Millis(),
		trim:         cfg.Synthesis.TrimSilence,
		proc:         ffmpegProcessor{},
		cache:        cache,
		stats:        tracker.New(),
		status:       Status{State: StateIdle},
	}, nil
}

// Synthesize starts an asynchronous run over a snapshot of the project.
// onComplete is invoked exactly once, from the worker goroutine, with
// either the measured timings or the failure. A second call while a run
// is active fails with ErrBusy.
func (m *Manager) Synthesize(ctx context.Context, p *model.Project, onComplete func(Result)) error {
	if len(p.Sentences) == 0 {
		return ErrNoSentences
	}

	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return ErrBusy
	}
	runCtx, cancel := context.WithCancel(ctx)
	m.running = true
	m.cancel = cancel
	m.status = Status{State: StateRunning, Total: len(p.Sentences)}
	m.mu.Unlock()

	snapshot := p.Clone()
	go func() {
		res := m.execute(runCtx, snapshot)
		m.finish(res)
		cancel()
		// Callback runs outside the lock so it may call back into the manager.
		if onComplete != nil {
			onComplete(res)
		}
	}()
	return nil
}

// Cancel aborts the active run. Returns false when nothing is running.
func (m *Manager) Cancel() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.running || m.cancel == nil {
		return false
	}
	slog.Info("Synth: Cancelling active run")
	m.cancel()
	return true
}

// Status returns a snapshot of the current run.
func (m *Manager) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

// Stats returns per-engine usage counters accumulated since startup.
func (m *Manager) Stats() map[string]tracker.EngineStats {
	return m.stats.Snapshot()
}

func (m *Manager) execute(ctx context.Context, p *model.Project) Result {
	slog.Info("Synth: Starting run", "title", p.Title, "sentences", len(p.Sentences))

	results := make([]*sentenceAudio, len(p.Sentences))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.parallelism)

	for i, s := range p.Sentences {
		g.Go(func() error {
			sa, err := m.processSentence(gctx, p, i, s)
			if err != nil {
				return fmt.Errorf("sentence %d: %w", i, err)
			}
			results[i] = sa
			m.noteProgress()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Result{Err: err}
	}

	return m.assemble(results)
}

// assemble concatenates the per-sentence files in order and shifts the
// sentence-relative stamps to absolute narration time.
func (m *Manager) assemble(results []*sentenceAudio) Result {
	format := "mp3"
	for _, sa := range results {
		if sa.format != "" {
			format = sa.format
			break
		}
	}

	var gapFile string
	if m.gapMS > 0 {
		gapFile = filepath.Join(m.workDir, "gap."+format)
		if err := m.proc.WriteSilence(m.gapMS, format, gapFile); err != nil {
			return Result{Err: fmt.Errorf("failed to render sentence gap: %w", err)}
		}
	}

	var files []string
	timings := make([]SentenceTiming, len(results))
	var cursor int64
	for i, sa := range results {
		if sa.file != "" && len(files) > 0 && gapFile != "" {
			files = append(files, gapFile)
			cursor += m.gapMS
		}

		t := SentenceTiming{Index: i, OriginMS: cursor, Words: make([]tts.WordStamp, len(sa.words))}
		for j, w := range sa.words {
			t.Words[j] = tts.WordStamp{Text: w.Text, StartMS: cursor + w.StartMS, DurationMS: w.DurationMS}
		}
		timings[i] = t

		if sa.file != "" {
			files = append(files, sa.file)
			cursor += sa.durMS
		}
	}

	if len(files) == 0 {
		return Result{Err: fmt.Errorf("no audible sentences: %w", ErrNoSentences)}
	}

	out := filepath.Join(m.outDir, "narration."+format)
	if err := m.proc.Concat(files, out); err != nil {
		return Result{Err: fmt.Errorf("failed to join narration: %w", err)}
	}

	slog.Info("Synth: Run complete", "file", out, "total_ms", cursor)
	for engine, s := range m.stats.Snapshot() {
		slog.Info("Synth: Engine usage", "engine", engine,
			"rendered", s.Rendered, "cached", s.CacheHits, "failed", s.Failures, "chars", s.Chars)
	}
	return Result{AudioFile: out, Timings: timings}
}

func (m *Manager) noteProgress() {
	m.mu.Lock()
	m.status.Completed++
	m.mu.Unlock()
}

func (m *Manager) finish(res Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.running = false
	m.cancel = nil
	switch {
	case res.Err == nil:
		m.status.State = StateDone
		m.status.AudioFile = res.AudioFile
	case errors.Is(res.Err, context.Canceled):
		m.status.State = StateCancelled
		m.status.Error = res.Err.Error()
	default:
		m.status.State = StateFailed
		m.status.Error = res.Err.Error()
		slog.Error("Synth: Run failed", "error", res.Err)
	}
}

// provider returns the active TTS provider, honoring a sticky fallback.
func (m *Manager) provider() tts.Provider {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.useFallback && m.fallback != nil {
		return m.fallback
	}
	return m.primary
}

// activeEngine names the engine provider() would return, for tracking.
func (m *Manager) activeEngine() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.useFallback && m.fallback != nil {
		return m.fallbackName
	}
	return m.primaryName
}

// activateFallback switches to the secondary provider for the rest of
// the process lifetime. Called when the primary returns a fatal error.
func (m *Manager) activateFallback() bool {
	if !m.allowFB || m.fallback == nil {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.useFallback {
		return true
	}
	slog.Warn("Synth: Primary TTS rejected the session, switching to fallback provider")
	m.useFallback = true
	return true
}
