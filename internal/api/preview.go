package api

import (
	"encoding/json"
	"net/http"

	"vsubgo/pkg/preview"
)

// Previewer auditions sounds through the speaker. Implemented by
// preview.Service.
type Previewer interface {
	Play(path string, volume float64, onComplete func()) error
	Stop()
	IsPlaying() bool
}

// PreviewHandler handles sound audition endpoints.
type PreviewHandler struct {
	player Previewer
}

// NewPreviewHandler creates a new PreviewHandler.
func NewPreviewHandler(p Previewer) *PreviewHandler {
	return &PreviewHandler{player: p}
}

// PreviewRequest names a sound file and the volume to audition it at.
// Volume follows the attachment rule: missing means full, 0 is silent.
type PreviewRequest struct {
	Path   string   `json:"path"`
	Volume *float64 `json:"volume"`
}

// HandlePlay handles POST /api/preview
func (h *PreviewHandler) HandlePlay(w http.ResponseWriter, r *http.Request) {
	var req PreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Path == "" {
		http.Error(w, "path is required", http.StatusBadRequest)
		return
	}
	volume := 1.0
	if req.Volume != nil {
		volume = *req.Volume
	}

	if err := h.player.Play(req.Path, volume, nil); err != nil {
		// Unreadable or undecodable file; the client named it.
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp := map[string]any{"status": "playing"}
	if d, err := preview.Duration(req.Path); err == nil {
		resp["duration_ms"] = d.Milliseconds()
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleStop handles POST /api/preview/stop
func (h *PreviewHandler) HandleStop(w http.ResponseWriter, r *http.Request) {
	h.player.Stop()
	writeJSON(w, http.StatusOK, map[string]string{"status": "stopped"})
}

// HandleStatus handles GET /api/preview/status
func (h *PreviewHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"playing": h.player.IsPlaying()})
}
