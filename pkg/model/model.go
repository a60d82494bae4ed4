package model

// MediaKind distinguishes the two attachment slots on a word.
type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaAudio MediaKind = "audio"
)

// MediaDescriptor describes an image or sound attachment on a word.
// It is exclusively owned by its word and never shared.
type MediaDescriptor struct {
	Kind MediaKind `json:"kind"`
	Path string    `json:"path"` // library path; existence is never checked here

	// OffsetMS is relative to the owning word's StartMS. Negative means
	// the media starts before the word. The UI suggests -1000..+2000 but
	// out-of-range values are accepted as given.
	OffsetMS int64       `json:"offset_ms"`
	Length   MediaLength `json:"duration_ms"`

	// Audio only. 0.0 - 1.0, validated on write, never clamped.
	Volume float64 `json:"volume,omitempty"`

	// Image only.
	Position string  `json:"position,omitempty"` // center, top-left, ...
	Scale    float64 `json:"scale,omitempty"`
}

// Clone returns a deep copy of the descriptor.
func (m *MediaDescriptor) Clone() *MediaDescriptor {
	if m == nil {
		return nil
	}
	c := *m
	return &c
}

// Word is the atomic unit of speech: its text, its speech window as
// supplied by TTS alignment, and its optional media and voice overrides.
type Word struct {
	Text string `json:"text"`

	// Speech window, absolute within the full narration. Timed records
	// whether alignment ever ran; 0/0 with Timed false means "never
	// timed", not "starts at zero".
	StartMS    int64 `json:"start_ms"`
	DurationMS int64 `json:"duration_ms"`
	Timed      bool  `json:"timed"`

	// Voice overrides in prosody syntax ("+50Hz", "-20%"). Empty means
	// inherit the sentence/project default.
	Pitch string `json:"pitch,omitempty"`
	Rate  string `json:"rate,omitempty"`

	Image *MediaDescriptor `json:"image,omitempty"`
	Audio *MediaDescriptor `json:"audio,omitempty"`
}

// EndMS returns the absolute end of the speech window.
func (w *Word) EndMS() int64 {
	return w.StartMS + w.DurationMS
}

// SetTiming records the speech window assigned by TTS alignment.
func (w *Word) SetTiming(startMS, durationMS int64) {
	w.StartMS = startMS
	w.DurationMS = durationMS
	w.Timed = true
}

// Clone returns a deep copy of the word.
func (w *Word) Clone() *Word {
	c := *w
	c.Image = w.Image.Clone()
	c.Audio = w.Audio.Clone()
	return &c
}

// VoiceSettings bundles a voice name with prosody adjustments.
// Empty fields inherit from the next level up (word -> sentence -> project).
type VoiceSettings struct {
	Voice string `json:"voice,omitempty"`
	Pitch string `json:"pitch,omitempty"`
	Rate  string `json:"rate,omitempty"`
}

// Sentence is an ordered run of words plus its absolute time origin
// within the narration. Words are contiguous per the TTS alignment;
// non-overlap of adjacent sentences is an upstream property and is not
// enforced here.
type Sentence struct {
	Text     string        `json:"text"`
	Words    []*Word       `json:"words"`
	OriginMS int64         `json:"origin_ms"`
	Voice    VoiceSettings `json:"voice,omitempty"`
}

// StartMS returns the absolute start of the first timed word, or the
// sentence origin when no word has timing yet.
func (s *Sentence) StartMS() int64 {
	for _, w := range s.Words {
		if w.Timed {
			return w.StartMS
		}
	}
	return s.OriginMS
}

// EndMS returns the absolute end of the last timed word.
func (s *Sentence) EndMS() int64 {
	end := s.OriginMS
	for _, w := range s.Words {
		if w.Timed && w.EndMS() > end {
			end = w.EndMS()
		}
	}
	return end
}

// Clone returns a deep copy of the sentence.
func (s *Sentence) Clone() *Sentence {
	c := *s
	c.Words = make([]*Word, len(s.Words))
	for i, w := range s.Words {
		c.Words[i] = w.Clone()
	}
	return &c
}

// Project is the complete authored state: sentences with their words and
// media, plus the global defaults every unset field falls back to.
type Project struct {
	Title     string        `json:"title"`
	Sentences []*Sentence   `json:"sentences"`
	Voice     VoiceSettings `json:"voice"`

	BackgroundVideo string `json:"background_video,omitempty"`
	CaptionStyle    string `json:"caption_style,omitempty"`

	// AudioFile is the narration file written by the last successful
	// synthesis run. Empty until then.
	AudioFile string `json:"audio_file,omitempty"`
}

// Clone returns a deep copy of the project.
func (p *Project) Clone() *Project {
	c := *p
	c.Sentences = make([]*Sentence, len(p.Sentences))
	for i, s := range p.Sentences {
		c.Sentences[i] = s.Clone()
	}
	return &c
}

// Word resolves a (sentence, word) index pair, or nil if out of range.
func (p *Project) Word(sentence, word int) *Word {
	if sentence < 0 || sentence >= len(p.Sentences) {
		return nil
	}
	s := p.Sentences[sentence]
	if word < 0 || word >= len(s.Words) {
		return nil
	}
	return s.Words[word]
}

// ResolveVoice returns the effective voice settings for a word: the word
// override where set, else the sentence setting, else the project
// default. Resolution happens at read time so a changed default
// retroactively affects every word without an explicit override.
func ResolveVoice(p *Project, s *Sentence, w *Word) VoiceSettings {
	v := p.Voice
	if s != nil {
		if s.Voice.Voice != "" {
			v.Voice = s.Voice.Voice
		}
		if s.Voice.Pitch != "" {
			v.Pitch = s.Voice.Pitch
		}
		if s.Voice.Rate != "" {
			v.Rate = s.Voice.Rate
		}
	}
	if w != nil {
		if w.Pitch != "" {
			v.Pitch = w.Pitch
		}
		if w.Rate != "" {
			v.Rate = w.Rate
		}
	}
	return v
}

// VoiceTemplate is a named pitch/rate preset.
type VoiceTemplate struct {
	Name  string `json:"name"`
	Pitch string `json:"pitch"`
	Rate  string `json:"rate"`
}

// DefaultTemplates returns the built-in presets seeded into a fresh
// template store.
func DefaultTemplates() []VoiceTemplate {
	return []VoiceTemplate{
		{Name: "Reset", Pitch: "+0Hz", Rate: "+0%"},
		{Name: "High Pitch", Pitch: "+50Hz", Rate: "+0%"},
		{Name: "Low Pitch", Pitch: "-50Hz", Rate: "+0%"},
		{Name: "Fast", Pitch: "+0Hz", Rate: "+50%"},
		{Name: "Slow", Pitch: "+0Hz", Rate: "-50%"},
	}
}
