package edgetts

import (
	"strings"
	"testing"
)

func TestBuildSSML(t *testing.T) {
	t.Run("plain text without prosody", func(t *testing.T) {
		ssml := buildSSML("en-US-AvaMultilingualNeural", "", "", "Hello world")

		if !strings.Contains(ssml, "<voice name='en-US-AvaMultilingualNeural'>") {
			t.Error("missing voice element")
		}
		if strings.Contains(ssml, "<prosody") {
			t.Error("prosody element should be omitted for default voice settings")
		}
		if !strings.Contains(ssml, ">Hello world<") {
			t.Error("text not embedded")
		}
	})

	t.Run("pitch and rate wrap text in prosody", func(t *testing.T) {
		ssml := buildSSML("en-US-AvaMultilingualNeural", "+50Hz", "-25%", "Hello")

		if !strings.Contains(ssml, "<prosody pitch='+50Hz' rate='-25%'>Hello</prosody>") {
			t.Errorf("unexpected prosody element: %s", ssml)
		}
	})

	t.Run("partial override fills the default", func(t *testing.T) {
		ssml := buildSSML("en-US-AvaMultilingualNeural", "+20Hz", "", "Hi")
		if !strings.Contains(ssml, "pitch='+20Hz' rate='+0%'") {
			t.Errorf("expected default rate alongside pitch: %s", ssml)
		}

		ssml = buildSSML("en-US-AvaMultilingualNeural", "", "+40%", "Hi")
		if !strings.Contains(ssml, "pitch='+0Hz' rate='+40%'") {
			t.Errorf("expected default pitch alongside rate: %s", ssml)
		}
	})

	t.Run("escapes XML special characters", func(t *testing.T) {
		ssml := buildSSML("en-US-AvaMultilingualNeural", "", "", `Tom & Jerry <say> "hi" it's`)

		for _, want := range []string{"&amp;", "&lt;say&gt;", "&quot;hi&quot;", "it&apos;s"} {
			if !strings.Contains(ssml, want) {
				t.Errorf("expected %s in %s", want, ssml)
			}
		}
		if strings.Contains(ssml, "<say>") {
			t.Error("raw angle brackets leaked into SSML")
		}
	})
}
