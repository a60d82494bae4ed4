package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"vsubgo/pkg/model"
	"vsubgo/pkg/project"
	"vsubgo/pkg/store"
	"vsubgo/pkg/tts"
)

// EditHandler handles per-word media and voice edits.
type EditHandler struct {
	projects  *project.Manager
	templates store.TemplateStore
}

// NewEditHandler creates a new EditHandler. The template store resolves
// named presets for the voice endpoint.
func NewEditHandler(pm *project.Manager, ts store.TemplateStore) *EditHandler {
	return &EditHandler{projects: pm, templates: ts}
}

// wordIndices reads the {sentence} and {word} path values.
func wordIndices(r *http.Request) (sentence, word int, err error) {
	sentence, err = strconv.Atoi(r.PathValue("sentence"))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid sentence index %q", r.PathValue("sentence"))
	}
	word, err = strconv.Atoi(r.PathValue("word"))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid word index %q", r.PathValue("word"))
	}
	return sentence, word, nil
}

// respondWord returns the updated word so the client can re-render it
// without a second round trip.
func (h *EditHandler) respondWord(w http.ResponseWriter, sentence, word int) {
	s, err := h.projects.SentenceSnapshot(sentence)
	if err != nil {
		writeError(w, err)
		return
	}
	if word < 0 || word >= len(s.Words) {
		writeError(w, fmt.Errorf("word %d/%d: %w", sentence, word, project.ErrNotFound))
		return
	}
	writeJSON(w, http.StatusOK, s.Words[word])
}

// AttachRequest names the library asset to attach.
type AttachRequest struct {
	Path string `json:"path"`
}

// HandleAttachImage handles PUT /api/sentences/{sentence}/words/{word}/image
func (h *EditHandler) HandleAttachImage(w http.ResponseWriter, r *http.Request) {
	h.attach(w, r, h.projects.AttachImage)
}

// HandleAttachAudio handles PUT /api/sentences/{sentence}/words/{word}/audio
func (h *EditHandler) HandleAttachAudio(w http.ResponseWriter, r *http.Request) {
	h.attach(w, r, h.projects.AttachAudio)
}

func (h *EditHandler) attach(w http.ResponseWriter, r *http.Request, op func(int, int, string) error) {
	sentence, word, err := wordIndices(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var req AttachRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Path == "" {
		http.Error(w, "path is required", http.StatusBadRequest)
		return
	}
	if err := op(sentence, word, req.Path); err != nil {
		writeError(w, err)
		return
	}
	h.respondWord(w, sentence, word)
}

// ImageConfigRequest is a full write of the image tuning. A missing or
// null duration_ms means natural length.
type ImageConfigRequest struct {
	OffsetMS   int64             `json:"offset_ms"`
	DurationMS model.MediaLength `json:"duration_ms"`
}

// HandleImageConfig handles PUT /api/sentences/{sentence}/words/{word}/image/config
func (h *EditHandler) HandleImageConfig(w http.ResponseWriter, r *http.Request) {
	sentence, word, err := wordIndices(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var req ImageConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.projects.ConfigureImage(sentence, word, req.OffsetMS, req.DurationMS); err != nil {
		writeError(w, err)
		return
	}
	h.respondWord(w, sentence, word)
}

// PlacementRequest is a full write of the image placement. Omitted
// fields fall back to the attach defaults.
type PlacementRequest struct {
	Position string   `json:"position"`
	Scale    *float64 `json:"scale"`
}

// HandleImagePlacement handles PUT /api/sentences/{sentence}/words/{word}/image/placement
func (h *EditHandler) HandleImagePlacement(w http.ResponseWriter, r *http.Request) {
	sentence, word, err := wordIndices(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var req PlacementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Position == "" {
		req.Position = "center"
	}
	scale := 1.0
	if req.Scale != nil {
		scale = *req.Scale
	}
	if err := h.projects.PlaceImage(sentence, word, req.Position, scale); err != nil {
		writeError(w, err)
		return
	}
	h.respondWord(w, sentence, word)
}

// AudioConfigRequest is a full write of the sound tuning. A missing
// volume means full volume; an explicit 0 is silent.
type AudioConfigRequest struct {
	OffsetMS   int64             `json:"offset_ms"`
	DurationMS model.MediaLength `json:"duration_ms"`
	Volume     *float64          `json:"volume"`
}

// HandleAudioConfig handles PUT /api/sentences/{sentence}/words/{word}/audio/config
func (h *EditHandler) HandleAudioConfig(w http.ResponseWriter, r *http.Request) {
	sentence, word, err := wordIndices(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var req AudioConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	volume := 1.0
	if req.Volume != nil {
		volume = *req.Volume
	}
	if err := h.projects.ConfigureAudio(sentence, word, req.OffsetMS, req.DurationMS, volume); err != nil {
		writeError(w, err)
		return
	}
	h.respondWord(w, sentence, word)
}

// HandleRemoveImage handles DELETE /api/sentences/{sentence}/words/{word}/image
func (h *EditHandler) HandleRemoveImage(w http.ResponseWriter, r *http.Request) {
	h.remove(w, r, h.projects.RemoveImage)
}

// HandleRemoveAudio handles DELETE /api/sentences/{sentence}/words/{word}/audio
func (h *EditHandler) HandleRemoveAudio(w http.ResponseWriter, r *http.Request) {
	h.remove(w, r, h.projects.RemoveAudio)
}

// HandleRemoveMedia handles DELETE /api/sentences/{sentence}/words/{word}/media
func (h *EditHandler) HandleRemoveMedia(w http.ResponseWriter, r *http.Request) {
	h.remove(w, r, h.projects.RemoveAllMedia)
}

func (h *EditHandler) remove(w http.ResponseWriter, r *http.Request, op func(int, int) error) {
	sentence, word, err := wordIndices(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := op(sentence, word); err != nil {
		writeError(w, err)
		return
	}
	h.respondWord(w, sentence, word)
}

// VoiceRequest sets a word's prosody override, either directly or by
// template name. Template wins when both are present.
type VoiceRequest struct {
	Pitch    string `json:"pitch"`
	Rate     string `json:"rate"`
	Template string `json:"template"`
}

// normalizeProsody round-trips prosody through the tts parsers so
// stored values are always well formed and clamped. Empty strings pass
// through, they clear the override.
func normalizeProsody(pitch, rate string) (string, string, error) {
	if pitch != "" {
		hz, err := tts.ParsePitch(pitch)
		if err != nil {
			return "", "", err
		}
		pitch = tts.FormatPitch(hz)
	}
	if rate != "" {
		pct, err := tts.ParseRate(rate)
		if err != nil {
			return "", "", err
		}
		rate = tts.FormatRate(pct)
	}
	return pitch, rate, nil
}

// HandleVoice handles PUT /api/sentences/{sentence}/words/{word}/voice
func (h *EditHandler) HandleVoice(w http.ResponseWriter, r *http.Request) {
	sentence, word, err := wordIndices(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var req VoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Template != "" {
		t, err := h.findTemplate(r.Context(), req.Template)
		if err != nil {
			writeError(w, err)
			return
		}
		if err := h.projects.ApplyTemplate(sentence, word, t); err != nil {
			writeError(w, err)
			return
		}
	} else {
		pitch, rate, err := normalizeProsody(req.Pitch, req.Rate)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := h.projects.SetWordVoice(sentence, word, pitch, rate); err != nil {
			writeError(w, err)
			return
		}
	}
	h.respondWord(w, sentence, word)
}

func (h *EditHandler) findTemplate(ctx context.Context, name string) (model.VoiceTemplate, error) {
	templates, err := h.templates.ListTemplates(ctx)
	if err != nil {
		return model.VoiceTemplate{}, err
	}
	for _, t := range templates {
		if t.Name == name {
			return t, nil
		}
	}
	return model.VoiceTemplate{}, fmt.Errorf("template %q: %w", name, project.ErrNotFound)
}
