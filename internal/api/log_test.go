package api

import (
	"testing"
)

func TestFormatLogLine(t *testing.T) {
	input := `time=2026-08-21T06:50:46.074+02:00 level=INFO msg="Synth: Sentence rendered" length="1613 " sentence=4 voice=en-US-ChristopherNeural cachekey=3f9a1c77d2e86b40aa12c3`
	expected := "06:50:46 Synth: Sentence rendered (length=1613, sentence=4)"

	result := formatLogLine(input)
	if result != expected {
		t.Errorf("Expected '%s', got '%s'", expected, result)
	}
}

func TestFormatLogLinePassthrough(t *testing.T) {
	// Lines that are not slog key=value output come back unchanged.
	for _, raw := range []string{"", "plain text line"} {
		if got := formatLogLine(raw); got != raw {
			t.Errorf("Expected %q unchanged, got %q", raw, got)
		}
	}
}
