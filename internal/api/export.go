package api

import (
	"bytes"
	"net/http"
	"strconv"
	"strings"

	"vsubgo/pkg/project"
	"vsubgo/pkg/schedule"
	"vsubgo/pkg/timeline"
)

// ExportHandler serves the derived views: lane timelines, the canonical
// export document and its subtitle renderings.
type ExportHandler struct {
	projects *project.Manager
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(pm *project.Manager) *ExportHandler {
	return &ExportHandler{projects: pm}
}

// TimelineResponse is the multi-lane block view of one sentence.
type TimelineResponse struct {
	SentenceIndex int              `json:"sentence_index"`
	Blocks        []timeline.Block `json:"blocks"`
}

// HandleTimeline handles GET /api/sentences/{sentence}/timeline
func (h *ExportHandler) HandleTimeline(w http.ResponseWriter, r *http.Request) {
	sentence, err := strconv.Atoi(r.PathValue("sentence"))
	if err != nil {
		http.Error(w, "invalid sentence index", http.StatusBadRequest)
		return
	}

	s, err := h.projects.SentenceSnapshot(sentence)
	if err != nil {
		writeError(w, err)
		return
	}
	blocks, err := timeline.Build(s)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, TimelineResponse{SentenceIndex: sentence, Blocks: blocks})
}

// HandleExport handles GET /api/export.
// The HTTP endpoint is strict: a project with untimed sentences yields a
// 409 rather than a silently partial document.
func (h *ExportHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.document(w)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := doc.Encode(&buf); err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(buf.Bytes())
}

// HandleExportFormat handles GET /api/export/{format}
func (h *ExportHandler) HandleExportFormat(w http.ResponseWriter, r *http.Request) {
	format := schedule.Format(r.PathValue("format"))
	writer, err := schedule.NewWriter(format)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	doc, ok := h.document(w)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := writer.Write(&buf, doc); err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", contentType(format))
	w.Header().Set("Content-Disposition", `attachment; filename="`+attachmentName(doc.Metadata.Title, format)+`"`)
	_, _ = w.Write(buf.Bytes())
}

// document snapshots and exports the current project. A false return
// means the error response was already written.
func (h *ExportHandler) document(w http.ResponseWriter) (*schedule.Document, bool) {
	p := h.projects.Snapshot()
	if p == nil {
		writeError(w, project.ErrNoProject)
		return nil, false
	}
	doc, err := schedule.Export(p)
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	return doc, true
}

func contentType(format schedule.Format) string {
	switch format {
	case schedule.FormatVTT:
		return "text/vtt; charset=utf-8"
	case schedule.FormatCSV:
		return "text/csv; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}

// attachmentName builds a safe download name from the project title.
func attachmentName(title string, format schedule.Format) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r == ' ':
			return '_'
		}
		return -1
	}, title)
	if name == "" {
		name = "export"
	}
	return name + schedule.ExtensionForFormat(format)
}
