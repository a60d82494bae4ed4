package synth

import (
	"testing"

	"vsubgo/pkg/model"
)

func tokens(texts ...string) []*model.Word {
	ws := make([]*model.Word, len(texts))
	for i, t := range texts {
		ws[i] = &model.Word{Text: t}
	}
	return ws
}

func TestPlanChunks(t *testing.T) {
	p := &model.Project{Voice: model.VoiceSettings{Voice: "v1"}}

	t.Run("uniform sentence is one chunk", func(t *testing.T) {
		s := &model.Sentence{Words: tokens("Hello", ",", "world", ".")}
		chunks := planChunks(p, s)
		if len(chunks) != 1 {
			t.Fatalf("expected 1 chunk, got %d", len(chunks))
		}
		if chunks[0].text != "Hello, world." {
			t.Errorf("unexpected chunk text: %q", chunks[0].text)
		}
		if !chunks[0].spoken {
			t.Error("chunk with words must be spoken")
		}
	})

	t.Run("word override splits the sentence", func(t *testing.T) {
		s := &model.Sentence{Words: tokens("say", "it", "loud", "now")}
		s.Words[2].Pitch = "+50Hz"
		chunks := planChunks(p, s)
		if len(chunks) != 3 {
			t.Fatalf("expected 3 chunks, got %d", len(chunks))
		}
		if chunks[0].text != "say it" || chunks[1].text != "loud" || chunks[2].text != "now" {
			t.Errorf("unexpected split: %q / %q / %q", chunks[0].text, chunks[1].text, chunks[2].text)
		}
		if chunks[1].pitch != "+50Hz" {
			t.Errorf("override lost: %q", chunks[1].pitch)
		}
	})

	t.Run("adjacent words with equal override stay together", func(t *testing.T) {
		s := &model.Sentence{Words: tokens("one", "two", "three")}
		s.Words[0].Rate = "+30%"
		s.Words[1].Rate = "+30%"
		chunks := planChunks(p, s)
		if len(chunks) != 2 {
			t.Fatalf("expected 2 chunks, got %d", len(chunks))
		}
		if chunks[0].text != "one two" {
			t.Errorf("unexpected first chunk: %q", chunks[0].text)
		}
	})

	t.Run("punctuation-only chunk is not spoken", func(t *testing.T) {
		s := &model.Sentence{Words: tokens("?", "!")}
		chunks := planChunks(p, s)
		if len(chunks) != 1 {
			t.Fatalf("expected 1 chunk, got %d", len(chunks))
		}
		if chunks[0].spoken {
			t.Error("punctuation-only chunk must not be spoken")
		}
	})

	t.Run("sentence prosody does not split", func(t *testing.T) {
		s := &model.Sentence{
			Words: tokens("all", "fast"),
			Voice: model.VoiceSettings{Rate: "+50%"},
		}
		chunks := planChunks(p, s)
		if len(chunks) != 1 {
			t.Fatalf("expected 1 chunk, got %d", len(chunks))
		}
		if chunks[0].rate != "+50%" {
			t.Errorf("sentence rate not applied: %q", chunks[0].rate)
		}
	})
}

func TestAssembleText(t *testing.T) {
	cases := []struct {
		in   []string
		want string
	}{
		{[]string{"Hello", "world"}, "Hello world"},
		{[]string{"Hello", ",", "world", "!"}, "Hello, world!"},
		{[]string{"don", "'", "t"}, "don' t"},
		{[]string{"..."}, "..."},
	}
	for _, c := range cases {
		if got := assembleText(tokens(c.in...)); got != c.want {
			t.Errorf("assembleText(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestIsSpokenToken(t *testing.T) {
	spoken := []string{"word", "a", "42", "café", "x1"}
	silent := []string{".", ",", "?!", "...", "-", ""}
	for _, s := range spoken {
		if !isSpokenToken(s) {
			t.Errorf("%q should be spoken", s)
		}
	}
	for _, s := range silent {
		if isSpokenToken(s) {
			t.Errorf("%q should be silent", s)
		}
	}
}
