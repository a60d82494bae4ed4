package api

import (
	"encoding/json"
	"net/http"

	"vsubgo/pkg/library"
)

// LibraryHandler serves the asset collections.
type LibraryHandler struct {
	libs map[library.Kind]*library.Library
}

// NewLibraryHandler creates a new LibraryHandler over the given libraries.
func NewLibraryHandler(libs ...*library.Library) *LibraryHandler {
	h := &LibraryHandler{libs: make(map[library.Kind]*library.Library)}
	for _, l := range libs {
		h.libs[l.Kind()] = l
	}
	return h
}

func (h *LibraryHandler) resolve(w http.ResponseWriter, r *http.Request) *library.Library {
	kind, err := library.ParseKind(r.PathValue("kind"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return nil
	}
	l, ok := h.libs[kind]
	if !ok {
		http.Error(w, "library not configured", http.StatusNotFound)
		return nil
	}
	return l
}

// HandleList handles GET /api/library/{kind}
func (h *LibraryHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	l := h.resolve(w, r)
	if l == nil {
		return
	}
	// Re-scan so externally dropped files show up even between watcher polls.
	if err := l.Scan(); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, l.Items())
}

// ImportRequest names a file outside the library to copy in.
type ImportRequest struct {
	Path string `json:"path"`
}

// HandleImport handles POST /api/library/{kind}/import
func (h *LibraryHandler) HandleImport(w http.ResponseWriter, r *http.Request) {
	l := h.resolve(w, r)
	if l == nil {
		return
	}
	var req ImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Path == "" {
		http.Error(w, "path is required", http.StatusBadRequest)
		return
	}

	item, err := l.Import(req.Path)
	if err != nil {
		// Wrong extension or unreadable source; the client named the file.
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}
