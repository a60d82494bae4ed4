// Package library manages the on-disk asset collections (meme images and
// sound effects) that users attach to words.
package library

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// Kind identifies an asset collection.
type Kind string

const (
	KindImages Kind = "images"
	KindSounds Kind = "sounds"
)

var kindExtensions = map[Kind][]string{
	KindImages: {".png", ".jpg", ".jpeg", ".gif", ".webp"},
	KindSounds: {".mp3", ".wav", ".ogg", ".m4a", ".flac"},
}

// ParseKind validates a kind string from an API route.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindImages, KindSounds:
		return Kind(s), nil
	}
	return "", fmt.Errorf("unknown library kind %q", s)
}

// Accepts reports whether a filename has an extension this kind manages.
func (k Kind) Accepts(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range kindExtensions[k] {
		if ext == e {
			return true
		}
	}
	return false
}

// Item is one asset in a library.
type Item struct {
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	SizeBytes int64     `json:"size_bytes"`
	ModTime   time.Time `json:"mod_time"`
}

// Library is a directory of assets of one kind. Scans are cheap (a single
// ReadDir), so callers re-scan freely instead of tracking invalidation.
type Library struct {
	kind Kind
	dir  string

	mu    sync.RWMutex
	items []Item
}

// New creates the library directory if needed and performs an initial scan.
func New(kind Kind, dir string) (*Library, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create %s library dir: %w", kind, err)
	}
	l := &Library{kind: kind, dir: dir}
	if err := l.Scan(); err != nil {
		return nil, err
	}
	return l, nil
}

// Kind returns the asset kind this library manages.
func (l *Library) Kind() Kind { return l.kind }

// Dir returns the backing directory.
func (l *Library) Dir() string { return l.dir }

// Scan re-reads the backing directory. Files with foreign extensions and
// subdirectories are ignored.
func (l *Library) Scan() error {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return fmt.Errorf("failed to scan %s library: %w", l.kind, err)
	}

	items := make([]Item, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !l.kind.Accepts(name) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		items = append(items, Item{
			Name:      name,
			Path:      filepath.Join(l.dir, name),
			SizeBytes: info.Size(),
			ModTime:   info.ModTime(),
		})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })

	l.mu.Lock()
	l.items = items
	l.mu.Unlock()
	return nil
}

// Items returns a snapshot of the current contents.
func (l *Library) Items() []Item {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Item, len(l.items))
	copy(out, l.items)
	return out
}

// Import copies an external file into the library. An existing asset with the
// same name is never overwritten; the copy gets a numbered suffix instead.
func (l *Library) Import(src string) (Item, error) {
	base := filepath.Base(src)
	if !l.kind.Accepts(base) {
		return Item{}, fmt.Errorf("%s library does not accept %q files", l.kind, filepath.Ext(base))
	}

	in, err := os.Open(src)
	if err != nil {
		return Item{}, fmt.Errorf("failed to open import source: %w", err)
	}
	defer in.Close()

	dst := l.freePath(base)
	out, err := os.Create(dst)
	if err != nil {
		return Item{}, fmt.Errorf("failed to create library file: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return Item{}, fmt.Errorf("failed to copy into library: %w", err)
	}
	if err := out.Close(); err != nil {
		return Item{}, fmt.Errorf("failed to finalize library file: %w", err)
	}

	if err := l.Scan(); err != nil {
		return Item{}, err
	}
	slog.Info("Library: Imported asset", "kind", l.kind, "file", filepath.Base(dst))

	name := filepath.Base(dst)
	for _, item := range l.Items() {
		if item.Name == name {
			return item, nil
		}
	}
	return Item{}, fmt.Errorf("imported file %q missing after scan", name)
}

// freePath picks a destination path that does not collide with an existing
// asset: name.ext, then name-1.ext, name-2.ext and so on.
func (l *Library) freePath(base string) string {
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	candidate := filepath.Join(l.dir, base)
	for i := 1; ; i++ {
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
		candidate = filepath.Join(l.dir, fmt.Sprintf("%s-%d%s", stem, i, ext))
	}
}

// signature fingerprints the current contents for change detection.
func (l *Library) signature() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var b strings.Builder
	for _, item := range l.items {
		fmt.Fprintf(&b, "%s|%d|%d\n", item.Name, item.SizeBytes, item.ModTime.UnixNano())
	}
	return b.String()
}
