// Package project holds the live authored document and serializes every
// mutation to it. The HTTP handlers, the synthesis callback and the
// store all go through the Manager; nothing else touches the model tree.
package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"vsubgo/pkg/model"
	"vsubgo/pkg/store"
	"vsubgo/pkg/synth"
)

var (
	// ErrNoProject is returned by operations that need a loaded project.
	ErrNoProject = errors.New("no project loaded")
	// ErrNotFound is returned for indices and names that resolve to nothing.
	ErrNotFound = errors.New("not found")
)

const lastProjectKey = "last_project"

// Manager owns the current project. Reads get deep copies; writes take
// the lock, resolve their target and delegate to the model's edit
// operations so validation stays in one place.
type Manager struct {
	mu      sync.RWMutex
	current *model.Project
	store   store.Store
}

// NewManager creates a manager backed by st for save/load.
func NewManager(st store.Store) *Manager {
	return &Manager{store: st}
}

// SetProject replaces the current project wholesale. Used after parsing
// fresh text.
func (m *Manager) SetProject(p *model.Project) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = p
	if p != nil {
		slog.Info("Project: Replaced current project", "title", p.Title, "sentences", len(p.Sentences))
	}
}

// HasProject reports whether a project is loaded.
func (m *Manager) HasProject() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current != nil
}

// Title returns the current project title, or "".
func (m *Manager) Title() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return ""
	}
	return m.current.Title
}

// Snapshot returns a deep copy of the current project, or nil. Read
// paths (status, timeline, export) work on the copy so they never see a
// half-applied edit.
func (m *Manager) Snapshot() *model.Project {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return nil
	}
	return m.current.Clone()
}

// SentenceSnapshot returns a deep copy of one sentence.
func (m *Manager) SentenceSnapshot(sentence int) (*model.Sentence, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return nil, ErrNoProject
	}
	if sentence < 0 || sentence >= len(m.current.Sentences) {
		return nil, fmt.Errorf("sentence %d: %w", sentence, ErrNotFound)
	}
	return m.current.Sentences[sentence].Clone(), nil
}

// word resolves an index pair. Callers hold the write lock.
func (m *Manager) word(sentence, wordIdx int) (*model.Word, error) {
	if m.current == nil {
		return nil, ErrNoProject
	}
	w := m.current.Word(sentence, wordIdx)
	if w == nil {
		return nil, fmt.Errorf("word %d/%d: %w", sentence, wordIdx, ErrNotFound)
	}
	return w, nil
}

// AttachImage attaches a library image to a word with default tuning.
func (m *Manager) AttachImage(sentence, wordIdx int, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, err := m.word(sentence, wordIdx)
	if err != nil {
		return err
	}
	w.SetImage(path)
	return nil
}

// AttachAudio attaches a library sound to a word with default tuning.
func (m *Manager) AttachAudio(sentence, wordIdx int, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, err := m.word(sentence, wordIdx)
	if err != nil {
		return err
	}
	w.SetAudio(path)
	return nil
}

// ConfigureImage adjusts offset and duration of an attached image.
func (m *Manager) ConfigureImage(sentence, wordIdx int, offsetMS int64, length model.MediaLength) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, err := m.word(sentence, wordIdx)
	if err != nil {
		return err
	}
	return w.ConfigureImage(offsetMS, length)
}

// ConfigureAudio adjusts offset, duration and volume of an attached sound.
func (m *Manager) ConfigureAudio(sentence, wordIdx int, offsetMS int64, length model.MediaLength, volume float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, err := m.word(sentence, wordIdx)
	if err != nil {
		return err
	}
	return w.ConfigureAudio(offsetMS, length, volume)
}

// PlaceImage adjusts position and scale of an attached image.
func (m *Manager) PlaceImage(sentence, wordIdx int, position string, scale float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, err := m.word(sentence, wordIdx)
	if err != nil {
		return err
	}
	return w.SetImagePlacement(position, scale)
}

// RemoveImage detaches the image from a word.
func (m *Manager) RemoveImage(sentence, wordIdx int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, err := m.word(sentence, wordIdx)
	if err != nil {
		return err
	}
	w.ClearImage()
	return nil
}

// RemoveAudio detaches the sound from a word.
func (m *Manager) RemoveAudio(sentence, wordIdx int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, err := m.word(sentence, wordIdx)
	if err != nil {
		return err
	}
	w.ClearAudio()
	return nil
}

// RemoveAllMedia detaches both slots from a word.
func (m *Manager) RemoveAllMedia(sentence, wordIdx int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, err := m.word(sentence, wordIdx)
	if err != nil {
		return err
	}
	w.ClearAllMedia()
	return nil
}

// SetWordVoice sets or clears a word's prosody overrides.
func (m *Manager) SetWordVoice(sentence, wordIdx int, pitch, rate string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, err := m.word(sentence, wordIdx)
	if err != nil {
		return err
	}
	w.ApplyVoice(pitch, rate)
	return nil
}

// ApplyTemplate applies a named preset to a word.
func (m *Manager) ApplyTemplate(sentence, wordIdx int, t model.VoiceTemplate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, err := m.word(sentence, wordIdx)
	if err != nil {
		return err
	}
	w.ApplyTemplate(t)
	return nil
}

// Meta is the mutable project-level metadata. Empty fields keep their
// current value.
type Meta struct {
	Title           string `json:"title,omitempty"`
	BackgroundVideo string `json:"background_video,omitempty"`
	CaptionStyle    string `json:"caption_style,omitempty"`
	Voice           string `json:"voice,omitempty"`
	Pitch           string `json:"pitch,omitempty"`
	Rate            string `json:"rate,omitempty"`
}

// SetMeta updates project-level metadata and the default voice.
func (m *Manager) SetMeta(meta Meta) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return ErrNoProject
	}
	if meta.Title != "" {
		m.current.Title = meta.Title
	}
	if meta.BackgroundVideo != "" {
		m.current.BackgroundVideo = meta.BackgroundVideo
	}
	if meta.CaptionStyle != "" {
		m.current.CaptionStyle = meta.CaptionStyle
	}
	if meta.Voice != "" {
		m.current.Voice.Voice = meta.Voice
	}
	if meta.Pitch != "" {
		m.current.Voice.Pitch = meta.Pitch
	}
	if meta.Rate != "" {
		m.current.Voice.Rate = meta.Rate
	}
	return nil
}

// ApplyTiming writes a successful synthesis result into the model:
// sentence origins, per-word speech windows and the narration file name.
// A failed or cancelled run leaves the model untouched.
func (m *Manager) ApplyTiming(res synth.Result) error {
	if res.Err != nil {
		return res.Err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return ErrNoProject
	}

	for _, timing := range res.Timings {
		if timing.Index < 0 || timing.Index >= len(m.current.Sentences) {
			slog.Warn("Project: Timing for unknown sentence", "index", timing.Index)
			continue
		}
		s := m.current.Sentences[timing.Index]
		s.OriginMS = timing.OriginMS

		if len(timing.Words) != len(s.Words) {
			slog.Warn("Project: Word count drifted during synthesis",
				"sentence", timing.Index, "have", len(s.Words), "stamps", len(timing.Words))
		}
		for i, stamp := range timing.Words {
			if i >= len(s.Words) {
				break
			}
			s.Words[i].SetTiming(stamp.StartMS, stamp.DurationMS)
		}
	}

	m.current.AudioFile = filepath.Base(res.AudioFile)
	slog.Info("Project: Applied synthesis timings",
		"sentences", len(res.Timings), "audio", m.current.AudioFile)
	return nil
}

// Save persists the current project. A non-empty name renames it first.
func (m *Manager) Save(ctx context.Context, name string) error {
	m.mu.Lock()
	if m.current == nil {
		m.mu.Unlock()
		return ErrNoProject
	}
	if name != "" {
		m.current.Title = name
	}
	snap := m.current.Clone()
	m.mu.Unlock()

	if err := m.store.SaveProject(ctx, snap); err != nil {
		return err
	}
	if err := m.store.SetState(ctx, lastProjectKey, snap.Title); err != nil {
		slog.Warn("Project: Failed to record last project", "error", err)
	}
	return nil
}

// Load replaces the current project with a stored one.
func (m *Manager) Load(ctx context.Context, name string) error {
	p, err := m.store.GetProject(ctx, name)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("project %q: %w", name, ErrNotFound)
	}

	m.mu.Lock()
	m.current = p
	m.mu.Unlock()

	if err := m.store.SetState(ctx, lastProjectKey, name); err != nil {
		slog.Warn("Project: Failed to record last project", "error", err)
	}
	slog.Info("Project: Loaded project", "name", name, "sentences", len(p.Sentences))
	return nil
}

// List returns the stored project listing.
func (m *Manager) List(ctx context.Context) ([]store.ProjectInfo, error) {
	return m.store.ListProjects(ctx)
}

// RestoreLast loads the project that was current when the app last shut
// down. Nothing to restore is not an error.
func (m *Manager) RestoreLast(ctx context.Context) error {
	name, ok := m.store.GetState(ctx, lastProjectKey)
	if !ok || name == "" {
		return nil
	}
	if err := m.Load(ctx, name); err != nil {
		if errors.Is(err, ErrNotFound) {
			// Stale pointer to a deleted project; clear it.
			_ = m.store.DeleteState(ctx, lastProjectKey)
			return nil
		}
		return err
	}
	return nil
}
