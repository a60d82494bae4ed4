package model

// Status is the display classification of a word, used by the timeline
// and the editor to color-code words. Presentation only; it never
// affects export content. The values form a total order.
type Status int

const (
	StatusDefault Status = iota // no overrides, no media
	StatusVoiceCustomized
	StatusHasImage
	StatusHasAudio
	StatusHasBoth
)

func (s Status) String() string {
	switch s {
	case StatusDefault:
		return "default"
	case StatusVoiceCustomized:
		return "voice"
	case StatusHasImage:
		return "image"
	case StatusHasAudio:
		return "audio"
	case StatusHasBoth:
		return "both"
	}
	return "unknown"
}

// Status classifies the word. The both-slots case is checked first so
// the result cannot depend on which attachment happened to land first.
func (w *Word) Status() Status {
	switch {
	case w.Image != nil && w.Audio != nil:
		return StatusHasBoth
	case w.Audio != nil:
		return StatusHasAudio
	case w.Image != nil:
		return StatusHasImage
	case w.Pitch != "" || w.Rate != "":
		return StatusVoiceCustomized
	}
	return StatusDefault
}
