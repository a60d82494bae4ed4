package synth

import (
	"strings"
	"unicode"

	"vsubgo/pkg/model"
)

// chunk is a run of consecutive tokens sharing one effective prosody
// setting. Each spoken chunk becomes one TTS request.
type chunk struct {
	start, end int // token range [start, end)
	pitch      string
	rate       string
	spoken     bool
	text       string
}

// planChunks splits a sentence at every prosody change. A sentence with
// no word-level overrides yields a single chunk.
func planChunks(p *model.Project, s *model.Sentence) []chunk {
	var chunks []chunk
	for i, w := range s.Words {
		v := model.ResolveVoice(p, s, w)
		if n := len(chunks); n > 0 && chunks[n-1].pitch == v.Pitch && chunks[n-1].rate == v.Rate {
			chunks[n-1].end = i + 1
			continue
		}
		chunks = append(chunks, chunk{start: i, end: i + 1, pitch: v.Pitch, rate: v.Rate})
	}

	for i := range chunks {
		c := &chunks[i]
		c.text = assembleText(s.Words[c.start:c.end])
		c.spoken = isSpokenToken(c.text)
	}
	return chunks
}

// assembleText rebuilds speakable text from tokens: words separated by
// spaces, punctuation attached to the preceding token.
func assembleText(words []*model.Word) string {
	var b strings.Builder
	for i, w := range words {
		if i > 0 && isSpokenToken(w.Text) {
			b.WriteByte(' ')
		}
		b.WriteString(w.Text)
	}
	return b.String()
}

// isSpokenToken reports whether a token produces speech. Punctuation
// tokens carry timing marks but no audio.
func isSpokenToken(text string) bool {
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
