// Package timeline derives the multi-lane block view of a sentence from
// its words and media attachments. Blocks are a throwaway view: they are
// recomputed on every call and never persisted, the authored Word/Media
// state stays authoritative.
package timeline

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"

	"vsubgo/pkg/model"
)

// Lane identifies one of the three parallel timelines.
type Lane string

const (
	LaneSpeech Lane = "speech"
	LaneImage  Lane = "image"
	LaneAudio  Lane = "audio"
)

// Block is one absolute-time span on a lane. EndMS >= StartMS always;
// a zero-length block is an instantaneous cue whose real length only
// the compositor can resolve (natural-length media).
type Block struct {
	Lane      Lane   `json:"lane"`
	Label     string `json:"label"`
	StartMS   int64  `json:"start_ms"`
	EndMS     int64  `json:"end_ms"`
	WordIndex int    `json:"word_index"`
}

// maxLabelRunes is the widest label the lane view renders before
// truncating with an ellipsis.
const maxLabelRunes = 12

// Build computes all blocks for one sentence. Lanes come out grouped
// (speech, image, audio); within a lane blocks are ordered by StartMS
// ascending with ties kept in word order.
//
// Values are propagated exactly as authored: starts computed from large
// negative offsets stay negative, overlapping blocks all appear, and
// malformed values such as a negative duration pass through untouched.
// Clipping against the narration window is the compositor's job. The
// only failure is a word that never received speech timing.
func Build(s *model.Sentence) ([]Block, error) {
	for i, w := range s.Words {
		if !w.Timed {
			return nil, fmt.Errorf("word %d %q: %w", i, w.Text, model.ErrMissingTimingData)
		}
	}

	var speech, image, audio []Block
	for i, w := range s.Words {
		speech = append(speech, Block{
			Lane:      LaneSpeech,
			Label:     w.Text,
			StartMS:   w.StartMS,
			EndMS:     w.StartMS + w.DurationMS,
			WordIndex: i,
		})
		if w.Image != nil {
			image = append(image, mediaBlock(LaneImage, w, w.Image, i))
		}
		if w.Audio != nil {
			audio = append(audio, mediaBlock(LaneAudio, w, w.Audio, i))
		}
	}

	sortLane(speech)
	sortLane(image)
	sortLane(audio)

	blocks := make([]Block, 0, len(speech)+len(image)+len(audio))
	blocks = append(blocks, speech...)
	blocks = append(blocks, image...)
	blocks = append(blocks, audio...)
	return blocks, nil
}

// BuildProject builds every sentence and concatenates the results with
// lanes grouped across the whole project. A sentence with missing
// timing fails alone; its error is joined into the returned error and
// the remaining sentences still produce blocks.
func BuildProject(p *model.Project) ([]Block, error) {
	var speech, image, audio []Block
	var errs []error

	for i, s := range p.Sentences {
		blocks, err := Build(s)
		if err != nil {
			errs = append(errs, fmt.Errorf("sentence %d: %w", i, err))
			continue
		}
		for _, b := range blocks {
			switch b.Lane {
			case LaneSpeech:
				speech = append(speech, b)
			case LaneImage:
				image = append(image, b)
			case LaneAudio:
				audio = append(audio, b)
			}
		}
	}

	sortLane(speech)
	sortLane(image)
	sortLane(audio)

	blocks := make([]Block, 0, len(speech)+len(image)+len(audio))
	blocks = append(blocks, speech...)
	blocks = append(blocks, image...)
	blocks = append(blocks, audio...)
	return blocks, errors.Join(errs...)
}

func mediaBlock(lane Lane, w *model.Word, m *model.MediaDescriptor, wordIndex int) Block {
	start := w.StartMS + m.OffsetMS
	end := start
	if !m.Length.IsNatural() {
		end = start + m.Length.Millis()
	}
	return Block{
		Lane:      lane,
		Label:     mediaLabel(m.Path),
		StartMS:   start,
		EndMS:     end,
		WordIndex: wordIndex,
	}
}

// sortLane orders one lane's blocks by start time. The sort is stable
// so equal starts keep the originating word order.
func sortLane(blocks []Block) {
	sort.SliceStable(blocks, func(i, j int) bool {
		return blocks[i].StartMS < blocks[j].StartMS
	})
}

// mediaLabel renders the display label for a media path: the base file
// name, truncated to 12 runes with a trailing ellipsis.
func mediaLabel(path string) string {
	name := filepath.Base(path)
	runes := []rune(name)
	if len(runes) <= maxLabelRunes {
		return name
	}
	return string(runes[:maxLabelRunes-3]) + "..."
}
