package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"vsubgo/pkg/model"
	"vsubgo/pkg/project"
	"vsubgo/pkg/scriptgen"
	"vsubgo/pkg/synth"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// writeError maps domain errors onto status codes and renders a JSON
// error body. Unrecognized errors become 500s and are logged.
func writeError(w http.ResponseWriter, err error) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		slog.Error("API: Request failed", "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, model.ErrInvalidVolume):
		return http.StatusUnprocessableEntity
	case errors.Is(err, model.ErrNoMediaAttached),
		errors.Is(err, model.ErrMissingTimingData),
		errors.Is(err, synth.ErrBusy),
		errors.Is(err, synth.ErrNoSentences):
		return http.StatusConflict
	case errors.Is(err, project.ErrNotFound),
		errors.Is(err, project.ErrNoProject):
		return http.StatusNotFound
	case errors.Is(err, scriptgen.ErrNotConfigured):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
