package api

import (
	"encoding/json"
	"net/http"

	"vsubgo/pkg/script"
	"vsubgo/pkg/scriptgen"
)

// ScriptHandler handles script drafting endpoints.
type ScriptHandler struct {
	gen scriptgen.Generator
}

// NewScriptHandler creates a new ScriptHandler.
func NewScriptHandler(gen scriptgen.Generator) *ScriptHandler {
	return &ScriptHandler{gen: gen}
}

// GenerateRequest asks the assistant for a narration draft.
type GenerateRequest struct {
	Topic     string `json:"topic"`
	Sentences int    `json:"sentences"`
}

// HandleGenerate handles POST /api/script/generate
func (h *ScriptHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Topic == "" {
		http.Error(w, "topic is required", http.StatusBadRequest)
		return
	}

	text, err := h.gen.Generate(r.Context(), req.Topic, req.Sentences)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"text": text})
}

// HandleHTML handles POST /api/script/html. The body is a raw HTML
// page; the response is its extracted narration text.
func (h *ScriptHandler) HandleHTML(w http.ResponseWriter, r *http.Request) {
	text, err := script.ExtractText(r.Body)
	if err != nil {
		http.Error(w, "failed to parse html", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"text": text})
}
