package synth

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"vsubgo/pkg/tts"
)

// cacheEntry is one rendered chunk: the trimmed audio file plus the
// stamps already fitted to it.
type cacheEntry struct {
	Audio      string          `json:"audio"`
	Format     string          `json:"format"`
	DurationMS int64           `json:"duration_ms"`
	Words      []tts.WordStamp `json:"words,omitempty"`
}

// chunkCache stores rendered chunks keyed by what determines their
// sound, so editing one sentence only resynthesizes that sentence.
type chunkCache struct {
	dir string
}

func newChunkCache(dir string) (*chunkCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &chunkCache{dir: dir}, nil
}

// Key derives the cache key from everything that affects the audio.
func (c *chunkCache) Key(voice, pitch, rate, text string) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%s|%s", voice, pitch, rate, text)
	return hex.EncodeToString(h.Sum(nil))
}

// AudioPath returns the extension-less output path for a key; the
// provider appends its format.
func (c *chunkCache) AudioPath(key string) string {
	return filepath.Join(c.dir, key)
}

func (c *chunkCache) metaPath(key string) string {
	return filepath.Join(c.dir, key+".json")
}

// Get loads a cached chunk. A missing or unreadable sidecar, or a
// missing audio file, is a miss.
func (c *chunkCache) Get(key string) (*cacheEntry, bool) {
	data, err := os.ReadFile(c.metaPath(key))
	if err != nil {
		return nil, false
	}
	var entry cacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, false
	}
	if _, err := os.Stat(entry.Audio); err != nil {
		return nil, false
	}
	return &entry, true
}

// Put records the sidecar for an already-written audio file.
func (c *chunkCache) Put(key string, entry *cacheEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return os.WriteFile(c.metaPath(key), data, 0o644)
}
