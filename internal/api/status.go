package api

import (
	"net/http"

	"vsubgo/pkg/logging"
	"vsubgo/pkg/project"
	"vsubgo/pkg/synth"
)

// SynthStatusReader reports the state of the synthesis manager.
type SynthStatusReader interface {
	Status() synth.Status
}

// StatusHandler aggregates engine state for the dashboard poll.
type StatusHandler struct {
	projects *project.Manager
	synth    SynthStatusReader
}

// NewStatusHandler creates a new StatusHandler.
func NewStatusHandler(pm *project.Manager, sm SynthStatusReader) *StatusHandler {
	return &StatusHandler{projects: pm, synth: sm}
}

// StatusResponse is the engine status summary.
type StatusResponse struct {
	HasProject bool         `json:"has_project"`
	Project    string       `json:"project"`
	Sentences  int          `json:"sentences"`
	Words      int          `json:"words"`
	TimedWords int          `json:"timed_words"`
	Synthesis  synth.Status `json:"synthesis"`
	LastLog    string       `json:"last_log"`
}

// HandleStatus handles GET /api/status
func (h *StatusHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	resp := StatusResponse{
		Synthesis: h.synth.Status(),
		LastLog:   formatLogLine(logging.GlobalLogCapture.GetLastLine()),
	}

	if p := h.projects.Snapshot(); p != nil {
		resp.HasProject = true
		resp.Project = p.Title
		resp.Sentences = len(p.Sentences)
		for _, s := range p.Sentences {
			resp.Words += len(s.Words)
			for _, word := range s.Words {
				if word.Timed {
					resp.TimedWords++
				}
			}
		}
	}

	writeJSON(w, http.StatusOK, resp)
}
