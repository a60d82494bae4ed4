package api

import (
	"encoding/json"
	"net/http"

	"vsubgo/pkg/model"
	"vsubgo/pkg/store"
)

// TemplateHandler handles voice template CRUD.
type TemplateHandler struct {
	store store.TemplateStore
}

// NewTemplateHandler creates a new TemplateHandler.
func NewTemplateHandler(st store.TemplateStore) *TemplateHandler {
	return &TemplateHandler{store: st}
}

// HandleList handles GET /api/templates
func (h *TemplateHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	templates, err := h.store.ListTemplates(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, templates)
}

// TemplateRequest carries the preset values; the name comes from the path.
type TemplateRequest struct {
	Pitch string `json:"pitch"`
	Rate  string `json:"rate"`
}

// HandleSave handles PUT /api/templates/{name}
func (h *TemplateHandler) HandleSave(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	var req TemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	pitch, rate, err := normalizeProsody(req.Pitch, req.Rate)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	t := model.VoiceTemplate{Name: name, Pitch: pitch, Rate: rate}
	if err := h.store.SaveTemplate(r.Context(), t); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// HandleDelete handles DELETE /api/templates/{name}
func (h *TemplateHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteTemplate(r.Context(), r.PathValue("name")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
