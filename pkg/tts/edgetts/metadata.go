package edgetts

import (
	"encoding/json"
	"log/slog"
	"strings"

	"vsubgo/pkg/tts"
)

// ticksPerMillisecond converts the service's 100-nanosecond ticks.
const ticksPerMillisecond = 10000

type metadataPayload struct {
	Metadata []metadataEntry `json:"Metadata"`
}

type metadataEntry struct {
	Type string       `json:"Type"`
	Data metadataData `json:"Data"`
}

type metadataData struct {
	Offset   int64        `json:"Offset"`
	Duration int64        `json:"Duration"`
	Text     metadataText `json:"text"`
}

type metadataText struct {
	Text         string `json:"Text"`
	Length       int    `json:"Length"`
	BoundaryType string `json:"BoundaryType"`
}

// metadataBody strips the websocket text-frame headers, leaving the
// JSON document that follows the blank line.
func metadataBody(msg string) string {
	if idx := strings.Index(msg, "\r\n\r\n"); idx >= 0 {
		return msg[idx+4:]
	}
	return msg
}

// parseBoundaries extracts WordBoundary events from an audio.metadata
// payload, converting tick offsets to milliseconds. Malformed payloads
// are logged and skipped; a missing boundary degrades timing, it never
// aborts synthesis.
func parseBoundaries(body string) []tts.WordStamp {
	var payload metadataPayload
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		slog.Warn("EdgeTTS: unparseable audio.metadata frame", "error", err)
		return nil
	}

	var stamps []tts.WordStamp
	for _, entry := range payload.Metadata {
		if entry.Type != "WordBoundary" {
			continue
		}
		stamps = append(stamps, tts.WordStamp{
			Text:       entry.Data.Text.Text,
			StartMS:    entry.Data.Offset / ticksPerMillisecond,
			DurationMS: entry.Data.Duration / ticksPerMillisecond,
		})
	}
	return stamps
}
