package api

import (
	"context"
	"log/slog"
	"net/http"

	"vsubgo/pkg/model"
	"vsubgo/pkg/project"
	"vsubgo/pkg/synth"
	"vsubgo/pkg/tts"
)

// Synthesizer runs narration jobs. Implemented by synth.Manager.
type Synthesizer interface {
	Synthesize(ctx context.Context, p *model.Project, onComplete func(synth.Result)) error
	Cancel() bool
	Status() synth.Status
}

// SynthesisHandler handles narration synthesis endpoints.
type SynthesisHandler struct {
	synth    Synthesizer
	projects *project.Manager
	provider tts.Provider
}

// NewSynthesisHandler creates a new SynthesisHandler. provider is only
// used for the voice listing.
func NewSynthesisHandler(sm Synthesizer, pm *project.Manager, provider tts.Provider) *SynthesisHandler {
	return &SynthesisHandler{synth: sm, projects: pm, provider: provider}
}

// HandleStart handles POST /api/synthesize
func (h *SynthesisHandler) HandleStart(w http.ResponseWriter, r *http.Request) {
	p := h.projects.Snapshot()
	if p == nil {
		writeError(w, project.ErrNoProject)
		return
	}

	// The run outlives this request, so it gets a fresh context; the
	// manager owns cancellation.
	err := h.synth.Synthesize(context.Background(), p, func(res synth.Result) {
		if err := h.projects.ApplyTiming(res); err != nil {
			slog.Warn("API: Synthesis result not applied", "error", err)
		}
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "started",
		"sentences": len(p.Sentences),
	})
}

// HandleStatus handles GET /api/synthesize/status
func (h *SynthesisHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.synth.Status())
}

// HandleCancel handles POST /api/synthesize/cancel
func (h *SynthesisHandler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"cancelled": h.synth.Cancel()})
}

// VoiceResponse is one available TTS voice.
type VoiceResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Language string `json:"language"`
	IsNeural bool   `json:"is_neural"`
}

// HandleVoices handles GET /api/voices
func (h *SynthesisHandler) HandleVoices(w http.ResponseWriter, r *http.Request) {
	voices, err := h.provider.Voices(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]VoiceResponse, 0, len(voices))
	for _, v := range voices {
		resp = append(resp, VoiceResponse{
			ID:       v.ID,
			Name:     v.Name,
			Language: v.Language,
			IsNeural: v.IsNeural,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}
