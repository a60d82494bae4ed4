// Package api exposes the engine over HTTP. Handlers are thin: they
// decode, delegate to the managers and encode, so every rule about the
// model lives in the packages that own it.
package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"vsubgo/pkg/version"
)

// NewServer creates and configures the HTTP server.
// It accepts handlers for all API endpoints and a shutdownFunc for graceful shutdown.
func NewServer(addr string, status *StatusHandler, proj *ProjectHandler, edit *EditHandler, export *ExportHandler, tmpl *TemplateHandler, lib *LibraryHandler, synthH *SynthesisHandler, scriptH *ScriptHandler, previewH *PreviewHandler, shutdown func()) *http.Server {
	mux := http.NewServeMux()

	// 1. Health and version
	mux.HandleFunc("GET /health", handleHealth)
	mux.HandleFunc("GET /api/version", handleVersion)

	// 2. Engine status
	mux.HandleFunc("GET /api/status", status.HandleStatus)

	// 3. Project lifecycle
	mux.HandleFunc("POST /api/project", proj.HandleCreate)
	mux.HandleFunc("GET /api/project", proj.HandleGet)
	mux.HandleFunc("PUT /api/project/meta", proj.HandleMeta)
	mux.HandleFunc("POST /api/project/save", proj.HandleSave)
	mux.HandleFunc("POST /api/project/load", proj.HandleLoad)
	mux.HandleFunc("GET /api/projects", proj.HandleList)

	// 4. Word editing
	mux.HandleFunc("PUT /api/sentences/{sentence}/words/{word}/image", edit.HandleAttachImage)
	mux.HandleFunc("PUT /api/sentences/{sentence}/words/{word}/image/config", edit.HandleImageConfig)
	mux.HandleFunc("PUT /api/sentences/{sentence}/words/{word}/image/placement", edit.HandleImagePlacement)
	mux.HandleFunc("PUT /api/sentences/{sentence}/words/{word}/audio", edit.HandleAttachAudio)
	mux.HandleFunc("PUT /api/sentences/{sentence}/words/{word}/audio/config", edit.HandleAudioConfig)
	mux.HandleFunc("DELETE /api/sentences/{sentence}/words/{word}/image", edit.HandleRemoveImage)
	mux.HandleFunc("DELETE /api/sentences/{sentence}/words/{word}/audio", edit.HandleRemoveAudio)
	mux.HandleFunc("DELETE /api/sentences/{sentence}/words/{word}/media", edit.HandleRemoveMedia)
	mux.HandleFunc("PUT /api/sentences/{sentence}/words/{word}/voice", edit.HandleVoice)

	// 5. Timeline and export
	mux.HandleFunc("GET /api/sentences/{sentence}/timeline", export.HandleTimeline)
	mux.HandleFunc("GET /api/export", export.HandleExport)
	mux.HandleFunc("GET /api/export/{format}", export.HandleExportFormat)

	// 6. Voice templates
	mux.HandleFunc("GET /api/templates", tmpl.HandleList)
	mux.HandleFunc("PUT /api/templates/{name}", tmpl.HandleSave)
	mux.HandleFunc("DELETE /api/templates/{name}", tmpl.HandleDelete)

	// 7. Asset libraries
	mux.HandleFunc("GET /api/library/{kind}", lib.HandleList)
	mux.HandleFunc("POST /api/library/{kind}/import", lib.HandleImport)

	// 8. Synthesis
	mux.HandleFunc("POST /api/synthesize", synthH.HandleStart)
	mux.HandleFunc("GET /api/synthesize/status", synthH.HandleStatus)
	mux.HandleFunc("POST /api/synthesize/cancel", synthH.HandleCancel)
	mux.HandleFunc("GET /api/voices", synthH.HandleVoices)

	// 9. Script assistant
	mux.HandleFunc("POST /api/script/generate", scriptH.HandleGenerate)
	mux.HandleFunc("POST /api/script/html", scriptH.HandleHTML)

	// 10. Sound preview
	mux.HandleFunc("POST /api/preview", previewH.HandlePlay)
	mux.HandleFunc("POST /api/preview/stop", previewH.HandleStop)
	mux.HandleFunc("GET /api/preview/status", previewH.HandleStatus)

	// 11. Shutdown Endpoint
	mux.HandleFunc("POST /api/shutdown", func(w http.ResponseWriter, r *http.Request) {
		slog.Info("Graceful shutdown initiated via API")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("Shutting down...")); err != nil {
			slog.Error("Failed to write shutdown response", "error", err)
		}
		// Call shutdown in a goroutine to allow response to flush
		go func() {
			time.Sleep(100 * time.Millisecond)
			shutdown()
		}()
	})

	return &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		slog.Error("Failed to write health response", "error", err)
	}
}

func handleVersion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if _, err := fmt.Fprintf(w, `{"version": "%s"}`, version.Version); err != nil {
		slog.Error("Failed to write version response", "error", err)
	}
}
