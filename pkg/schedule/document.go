// Package schedule serializes a project's words, media and computed
// absolute timings into the canonical document the video compositor
// consumes, plus subtitle renderings of the same timings.
package schedule

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"vsubgo/pkg/model"
)

// Document is the export tree. Field order is part of the contract:
// exporting the same state twice must produce byte-identical output,
// so everything renders through fixed struct ordering, never maps.
type Document struct {
	Metadata  Metadata      `json:"metadata"`
	Sentences []SentenceDoc `json:"sentences"`
}

// Metadata carries the project-level knobs the compositor needs.
type Metadata struct {
	Title           string `json:"title"`
	BackgroundVideo string `json:"background_video"`
	CaptionStyle    string `json:"caption_style"`
	AudioFile       string `json:"audio_file"`
}

// SentenceDoc is one sentence with its resolved voice and word list.
type SentenceDoc struct {
	SentenceIndex int       `json:"sentence_index"`
	Text          string    `json:"text"`
	StartMS       int64     `json:"start_ms"`
	EndMS         int64     `json:"end_ms"`
	Voice         string    `json:"voice"`
	Pitch         string    `json:"pitch"`
	Rate          string    `json:"rate"`
	Words         []WordDoc `json:"words"`
}

// WordDoc is one word with prosody resolved at export time, so a later
// change to a global default retroactively reaches every word without
// an explicit override.
type WordDoc struct {
	Text    string    `json:"text"`
	StartMS int64     `json:"start_ms"`
	EndMS   int64     `json:"end_ms"`
	Pitch   string    `json:"pitch"`
	Rate    string    `json:"rate"`
	Image   *ImageDoc `json:"image,omitempty"`
	Audio   *AudioDoc `json:"audio,omitempty"`
}

// ImageDoc is the image attachment surface. StartMS is the authored
// offset relative to the word; AbsoluteStartMS is always computed as
// word start + offset and is never authored directly.
type ImageDoc struct {
	Path            string            `json:"path"`
	StartMS         int64             `json:"start_ms"`
	DurationMS      model.MediaLength `json:"duration_ms"`
	Position        string            `json:"position"`
	Scale           float64           `json:"scale"`
	AbsoluteStartMS int64             `json:"absolute_start_ms"`
}

// AudioDoc is the sound attachment surface. Volume appears here and
// only here; images carry no volume field.
type AudioDoc struct {
	Path            string            `json:"path"`
	StartMS         int64             `json:"start_ms"`
	DurationMS      model.MediaLength `json:"duration_ms"`
	Volume          float64           `json:"volume"`
	AbsoluteStartMS int64             `json:"absolute_start_ms"`
}

// Export derives the document from current in-memory state. It is a
// pure transform with no filesystem access and no caching. Missing
// files behind media paths are a render-time concern and never fail
// the export. A sentence whose words were never timed is skipped and
// reported; the remaining sentences still export.
func Export(p *model.Project) (*Document, error) {
	doc := &Document{
		Metadata: Metadata{
			Title:           p.Title,
			BackgroundVideo: p.BackgroundVideo,
			CaptionStyle:    p.CaptionStyle,
			AudioFile:       p.AudioFile,
		},
		Sentences: make([]SentenceDoc, 0, len(p.Sentences)),
	}

	var errs []error
	for i := range p.Sentences {
		sd, err := ExportSentence(p, i)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		doc.Sentences = append(doc.Sentences, *sd)
	}
	return doc, errors.Join(errs...)
}

// ExportSentence derives one sentence's subtree.
func ExportSentence(p *model.Project, index int) (*SentenceDoc, error) {
	if index < 0 || index >= len(p.Sentences) {
		return nil, fmt.Errorf("sentence %d: out of range", index)
	}
	s := p.Sentences[index]

	for j, w := range s.Words {
		if !w.Timed {
			return nil, fmt.Errorf("sentence %d: word %d %q: %w", index, j, w.Text, model.ErrMissingTimingData)
		}
	}

	voice := model.ResolveVoice(p, s, nil)
	sd := &SentenceDoc{
		SentenceIndex: index,
		Text:          s.Text,
		StartMS:       s.StartMS(),
		EndMS:         s.EndMS(),
		Voice:         voice.Voice,
		Pitch:         voice.Pitch,
		Rate:          voice.Rate,
		Words:         make([]WordDoc, 0, len(s.Words)),
	}

	for _, w := range s.Words {
		wv := model.ResolveVoice(p, s, w)
		wd := WordDoc{
			Text:    w.Text,
			StartMS: w.StartMS,
			EndMS:   w.EndMS(),
			Pitch:   wv.Pitch,
			Rate:    wv.Rate,
		}
		if m := w.Image; m != nil {
			wd.Image = &ImageDoc{
				Path:            m.Path,
				StartMS:         m.OffsetMS,
				DurationMS:      m.Length,
				Position:        m.Position,
				Scale:           m.Scale,
				AbsoluteStartMS: w.StartMS + m.OffsetMS,
			}
		}
		if m := w.Audio; m != nil {
			wd.Audio = &AudioDoc{
				Path:            m.Path,
				StartMS:         m.OffsetMS,
				DurationMS:      m.Length,
				Volume:          m.Volume,
				AbsoluteStartMS: w.StartMS + m.OffsetMS,
			}
		}
		sd.Words = append(sd.Words, wd)
	}
	return sd, nil
}

// Encode writes the canonical byte form: two-space indent, fixed field
// order, trailing newline.
func (d *Document) Encode(w io.Writer) error {
	b, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("encode schedule: %w", err)
	}
	b = append(b, '\n')
	if _, err := w.Write(b); err != nil {
		return fmt.Errorf("write schedule: %w", err)
	}
	return nil
}
