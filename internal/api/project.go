package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"vsubgo/pkg/model"
	"vsubgo/pkg/project"
	"vsubgo/pkg/script"
)

// ProjectHandler handles project lifecycle endpoints.
type ProjectHandler struct {
	projects     *project.Manager
	defaultVoice model.VoiceSettings
}

// NewProjectHandler creates a new ProjectHandler. defaultVoice seeds the
// project-level voice of freshly parsed projects.
func NewProjectHandler(pm *project.Manager, defaultVoice model.VoiceSettings) *ProjectHandler {
	return &ProjectHandler{projects: pm, defaultVoice: defaultVoice}
}

// CreateProjectRequest carries the raw narration text for a new project.
type CreateProjectRequest struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// HandleCreate handles POST /api/project
func (h *ProjectHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Title == "" {
		http.Error(w, "title is required", http.StatusBadRequest)
		return
	}

	p := script.NewProject(req.Title, req.Text, h.defaultVoice)
	if len(p.Sentences) == 0 {
		http.Error(w, "text contains no sentences", http.StatusBadRequest)
		return
	}
	h.projects.SetProject(p)

	slog.Info("API: Parsed new project", "title", p.Title, "sentences", len(p.Sentences))
	writeJSON(w, http.StatusCreated, p)
}

// HandleGet handles GET /api/project
func (h *ProjectHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	p := h.projects.Snapshot()
	if p == nil {
		writeError(w, project.ErrNoProject)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// HandleMeta handles PUT /api/project/meta
func (h *ProjectHandler) HandleMeta(w http.ResponseWriter, r *http.Request) {
	var meta project.Meta
	if err := json.NewDecoder(r.Body).Decode(&meta); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.projects.SetMeta(meta); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.projects.Snapshot())
}

// NameRequest names a stored project for save/load.
type NameRequest struct {
	Name string `json:"name"`
}

// HandleSave handles POST /api/project/save
func (h *ProjectHandler) HandleSave(w http.ResponseWriter, r *http.Request) {
	var req NameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.projects.Save(r.Context(), req.Name); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "saved",
		"name":   h.projects.Title(),
	})
}

// HandleLoad handles POST /api/project/load
func (h *ProjectHandler) HandleLoad(w http.ResponseWriter, r *http.Request) {
	var req NameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}
	if err := h.projects.Load(r.Context(), req.Name); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.projects.Snapshot())
}

// HandleList handles GET /api/projects
func (h *ProjectHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	infos, err := h.projects.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, infos)
}
