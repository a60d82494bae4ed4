package synth

import (
	"os"
	"path/filepath"
	"testing"

	"vsubgo/pkg/tts"
)

func TestChunkCache(t *testing.T) {
	cache, err := newChunkCache(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatalf("newChunkCache: %v", err)
	}

	key := cache.Key("voice", "+0Hz", "+0%", "Hello there.")

	t.Run("keys are stable and distinct", func(t *testing.T) {
		if key != cache.Key("voice", "+0Hz", "+0%", "Hello there.") {
			t.Error("same inputs must produce the same key")
		}
		if key == cache.Key("voice", "+50Hz", "+0%", "Hello there.") {
			t.Error("pitch must change the key")
		}
		if key == cache.Key("other", "+0Hz", "+0%", "Hello there.") {
			t.Error("voice must change the key")
		}
	})

	t.Run("miss before put", func(t *testing.T) {
		if _, ok := cache.Get(key); ok {
			t.Error("expected miss")
		}
	})

	t.Run("round trip", func(t *testing.T) {
		audio := cache.AudioPath(key) + ".mp3"
		if err := os.WriteFile(audio, make([]byte, 2048), 0o644); err != nil {
			t.Fatal(err)
		}
		entry := &cacheEntry{
			Audio:      audio,
			Format:     "mp3",
			DurationMS: 1234,
			Words:      []tts.WordStamp{{Text: "Hello", StartMS: 0, DurationMS: 600}},
		}
		if err := cache.Put(key, entry); err != nil {
			t.Fatalf("Put: %v", err)
		}

		got, ok := cache.Get(key)
		if !ok {
			t.Fatal("expected hit")
		}
		if got.DurationMS != 1234 || got.Format != "mp3" {
			t.Errorf("unexpected entry: %+v", got)
		}
		if len(got.Words) != 1 || got.Words[0].DurationMS != 600 {
			t.Errorf("stamps lost: %+v", got.Words)
		}
	})

	t.Run("deleted audio invalidates the entry", func(t *testing.T) {
		audio := cache.AudioPath(key) + ".mp3"
		if err := os.Remove(audio); err != nil {
			t.Fatal(err)
		}
		if _, ok := cache.Get(key); ok {
			t.Error("entry with missing audio must be a miss")
		}
	})
}
