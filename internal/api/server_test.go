package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"vsubgo/pkg/library"
	"vsubgo/pkg/model"
	"vsubgo/pkg/project"
	"vsubgo/pkg/scriptgen"
	"vsubgo/pkg/store"
	"vsubgo/pkg/synth"
	"vsubgo/pkg/tts"
)

// mockSynth satisfies the Synthesizer interface without touching any
// TTS engine or ffmpeg. It records the started project and the
// completion callback so tests can simulate a finished run.
type mockSynth struct {
	startErr   error
	status     synth.Status
	cancelled  bool
	started    *model.Project
	onComplete func(synth.Result)
}

func (m *mockSynth) Synthesize(ctx context.Context, p *model.Project, onComplete func(synth.Result)) error {
	if m.startErr != nil {
		return m.startErr
	}
	m.started = p
	m.onComplete = onComplete
	return nil
}

func (m *mockSynth) Cancel() bool         { return m.cancelled }
func (m *mockSynth) Status() synth.Status { return m.status }

// mockPreviewer satisfies Previewer without opening the speaker.
type mockPreviewer struct {
	playing  bool
	lastPath string
	lastVol  float64
	playErr  error
}

func (m *mockPreviewer) Play(path string, volume float64, onComplete func()) error {
	if m.playErr != nil {
		return m.playErr
	}
	m.playing = true
	m.lastPath = path
	m.lastVol = volume
	return nil
}

func (m *mockPreviewer) Stop()           { m.playing = false }
func (m *mockPreviewer) IsPlaying() bool { return m.playing }

// mockProvider satisfies tts.Provider for the voice listing.
type mockProvider struct {
	voices []tts.Voice
	err    error
}

func (m *mockProvider) Synthesize(ctx context.Context, text, voice, outputPath string) (string, error) {
	return "mp3", nil
}

func (m *mockProvider) Voices(ctx context.Context) ([]tts.Voice, error) {
	return m.voices, m.err
}

// testServer wires the full API over a throwaway SQLite store, empty
// libraries and mocked synthesis, and routes requests through the real
// mux so path patterns are exercised too.
type testServer struct {
	handler  http.Handler
	projects *project.Manager
	store    *store.SQLiteStore
	synth    *mockSynth
	preview  *mockPreviewer
	imageDir string
	soundDir string
	shutdown chan struct{}
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	st, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	t.Cleanup(func() { st.Close() })

	imageDir := t.TempDir()
	soundDir := t.TempDir()
	images, err := library.New(library.KindImages, imageDir)
	if err != nil {
		t.Fatalf("library.New(images) error = %v", err)
	}
	sounds, err := library.New(library.KindSounds, soundDir)
	if err != nil {
		t.Fatalf("library.New(sounds) error = %v", err)
	}

	pm := project.NewManager(st)
	ms := &mockSynth{}
	provider := &mockProvider{voices: []tts.Voice{
		{ID: "en-US-ChristopherNeural", Name: "Christopher", Language: "en-US", IsNeural: true},
		{ID: "Microsoft David", Name: "David", Language: "en-US"},
	}}

	mp := &mockPreviewer{}
	ts := &testServer{
		projects: pm,
		store:    st,
		synth:    ms,
		preview:  mp,
		imageDir: imageDir,
		soundDir: soundDir,
		shutdown: make(chan struct{}),
	}

	srv := NewServer("localhost:0",
		NewStatusHandler(pm, ms),
		NewProjectHandler(pm, model.VoiceSettings{Voice: "en-US-ChristopherNeural"}),
		NewEditHandler(pm, st),
		NewExportHandler(pm),
		NewTemplateHandler(st),
		NewLibraryHandler(images, sounds),
		NewSynthesisHandler(ms, pm, provider),
		NewScriptHandler(scriptgen.NewMock()),
		NewPreviewHandler(mp),
		func() { close(ts.shutdown) },
	)
	ts.handler = srv.Handler
	return ts
}

// do runs one request through the mux. A nil body sends an empty one;
// anything else is JSON-encoded.
func (ts *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

// decode unmarshals a response body, failing the test on garbage.
func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rr.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response %q: %v", rr.Body.String(), err)
	}
	return v
}

// loadProject parses text into the manager, bypassing the HTTP layer.
func (ts *testServer) loadProject(t *testing.T, title, text string) {
	t.Helper()
	rr := ts.do(t, "POST", "/api/project", CreateProjectRequest{Title: title, Text: text})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create project: expected status 201, got %d (%s)", rr.Code, rr.Body.String())
	}
}

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.do(t, "GET", "/health", nil)
	if rr.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rr.Code)
	}
	if rr.Body.String() != "OK" {
		t.Errorf("Expected body 'OK', got %q", rr.Body.String())
	}
}

func TestVersionEndpoint(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.do(t, "GET", "/api/version", nil)
	if rr.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rr.Code)
	}
	resp := decode[map[string]string](t, rr)
	if resp["version"] == "" {
		t.Error("Expected a version string")
	}
}

func TestMethodNotAllowed(t *testing.T) {
	ts := newTestServer(t)

	// Registered path, wrong verb.
	rr := ts.do(t, "DELETE", "/api/project", nil)
	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected status 405, got %d", rr.Code)
	}
}

func TestUnknownRoute(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.do(t, "GET", "/api/nothing", nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rr.Code)
	}
}

func TestShutdownEndpoint(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.do(t, "POST", "/api/shutdown", nil)
	if rr.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Shutting down") {
		t.Errorf("Unexpected body %q", rr.Body.String())
	}

	select {
	case <-ts.shutdown:
	case <-time.After(2 * time.Second):
		t.Fatal("shutdown callback was not invoked")
	}
}
