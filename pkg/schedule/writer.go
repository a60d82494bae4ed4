package schedule

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Format names a subtitle/timestamp rendering of the export document.
type Format string

const (
	FormatSRT Format = "srt"
	FormatVTT Format = "vtt"
	FormatCSV Format = "csv"
)

// Writer renders an export document into a sidecar format.
type Writer interface {
	Write(w io.Writer, doc *Document) error
}

// NewWriter returns the writer for a format.
func NewWriter(format Format) (Writer, error) {
	switch format {
	case FormatSRT:
		return &SRTWriter{}, nil
	case FormatVTT:
		return &VTTWriter{}, nil
	case FormatCSV:
		return &CSVWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// SRTWriter renders sentence-level SubRip cues.
type SRTWriter struct{}

func (sw *SRTWriter) Write(w io.Writer, doc *Document) error {
	var sb strings.Builder
	for i, s := range doc.Sentences {
		sb.WriteString(fmt.Sprintf("%d\n", i+1))
		sb.WriteString(fmt.Sprintf("%s --> %s\n", formatSRTTime(s.StartMS), formatSRTTime(s.EndMS)))
		sb.WriteString(s.Text)
		sb.WriteString("\n\n")
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// VTTWriter renders sentence-level WebVTT cues.
type VTTWriter struct{}

func (vw *VTTWriter) Write(w io.Writer, doc *Document) error {
	var sb strings.Builder
	sb.WriteString("WEBVTT\n\n")
	for i, s := range doc.Sentences {
		sb.WriteString(fmt.Sprintf("%d\n", i+1))
		sb.WriteString(fmt.Sprintf("%s --> %s\n", formatVTTTime(s.StartMS), formatVTTTime(s.EndMS)))
		sb.WriteString(s.Text)
		sb.WriteString("\n\n")
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// CSVWriter renders one row per word for spreadsheet inspection.
type CSVWriter struct{}

func (cw *CSVWriter) Write(w io.Writer, doc *Document) error {
	out := csv.NewWriter(w)
	if err := out.Write([]string{"sentence_index", "word_index", "text", "start_ms", "end_ms", "pitch", "rate"}); err != nil {
		return err
	}
	for _, s := range doc.Sentences {
		for j, word := range s.Words {
			row := []string{
				strconv.Itoa(s.SentenceIndex),
				strconv.Itoa(j),
				word.Text,
				strconv.FormatInt(word.StartMS, 10),
				strconv.FormatInt(word.EndMS, 10),
				word.Pitch,
				word.Rate,
			}
			if err := out.Write(row); err != nil {
				return err
			}
		}
	}
	out.Flush()
	return out.Error()
}

// formatSRTTime renders ms as 00:00:00,000.
func formatSRTTime(ms int64) string {
	h := ms / 3600000
	m := (ms % 3600000) / 60000
	s := (ms % 60000) / 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms%1000)
}

// formatVTTTime renders ms as 00:00:00.000.
func formatVTTTime(ms int64) string {
	h := ms / 3600000
	m := (ms % 3600000) / 60000
	s := (ms % 60000) / 1000
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms%1000)
}

// ExtensionForFormat returns the usual file extension.
func ExtensionForFormat(format Format) string {
	switch format {
	case FormatVTT:
		return ".vtt"
	case FormatCSV:
		return ".csv"
	default:
		return ".srt"
	}
}
