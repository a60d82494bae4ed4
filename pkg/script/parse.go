// Package script turns raw narration text into the sentence/word tree
// the engine edits and synthesizes.
package script

import (
	"regexp"
	"strings"

	"vsubgo/pkg/model"
)

// sentenceEnd matches a terminator run and the whitespace after it.
// The terminators stay with the sentence they close.
var sentenceEnd = regexp.MustCompile(`[.!?]+(\s+|$)`)

// wordToken matches either a word or a single punctuation mark.
// Punctuation becomes its own zero-duration word so captions and the
// timeline can place it.
var wordToken = regexp.MustCompile(`[\p{L}\p{N}_]+|[^\p{L}\p{N}_\s]`)

// ParseText splits narration text into sentences. A sentence ends at a
// run of ./!/? followed by whitespace (or the end of the text); text
// without a final terminator still yields a last sentence.
func ParseText(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var sentences []string
	start := 0
	for _, loc := range sentenceEnd.FindAllStringSubmatchIndex(text, -1) {
		// loc[2] is where the trailing whitespace begins, so the
		// terminators are kept with the sentence.
		s := strings.TrimSpace(text[start:loc[2]])
		if s != "" {
			sentences = append(sentences, s)
		}
		start = loc[1]
	}
	if rest := strings.TrimSpace(text[start:]); rest != "" {
		sentences = append(sentences, rest)
	}
	return sentences
}

// ParseSentence tokenizes one sentence into word and punctuation
// tokens, in order.
func ParseSentence(text string) []string {
	return wordToken.FindAllString(text, -1)
}

// NewProject parses text into a full untimed project with the given
// global voice defaults. Words receive timing later from synthesis.
func NewProject(title, text string, voice model.VoiceSettings) *model.Project {
	p := &model.Project{
		Title: title,
		Voice: voice,
	}
	for _, st := range ParseText(text) {
		s := &model.Sentence{Text: st}
		for _, tok := range ParseSentence(st) {
			s.Words = append(s.Words, &model.Word{Text: tok})
		}
		p.Sentences = append(p.Sentences, s)
	}
	return p
}
