package library

import (
	"os"
	"path/filepath"
	"testing"
)

func writeAsset(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("asset"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{in: "images", want: KindImages},
		{in: "sounds", want: KindSounds},
		{in: "videos", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseKind(%q) expected error, got %q", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseKind(%q) error = %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseKind(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestKindAccepts(t *testing.T) {
	tests := []struct {
		kind Kind
		name string
		want bool
	}{
		{KindImages, "cat.png", true},
		{KindImages, "CAT.PNG", true},
		{KindImages, "photo.jpeg", true},
		{KindImages, "anim.webp", true},
		{KindImages, "boom.mp3", false},
		{KindSounds, "boom.mp3", true},
		{KindSounds, "hit.flac", true},
		{KindSounds, "voice.m4a", true},
		{KindSounds, "cat.png", false},
		{KindSounds, "readme.txt", false},
		{KindSounds, "noext", false},
	}

	for _, tt := range tests {
		if got := tt.kind.Accepts(tt.name); got != tt.want {
			t.Errorf("%s.Accepts(%q) = %v, want %v", tt.kind, tt.name, got, tt.want)
		}
	}
}

func TestLibraryScan(t *testing.T) {
	dir := t.TempDir()
	writeAsset(t, dir, "zebra.png")
	writeAsset(t, dir, "apple.jpg")
	writeAsset(t, dir, "notes.txt")
	writeAsset(t, dir, "boom.mp3")
	if err := os.Mkdir(filepath.Join(dir, "nested"), 0o755); err != nil {
		t.Fatal(err)
	}

	lib, err := New(KindImages, dir)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	items := lib.Items()
	if len(items) != 2 {
		t.Fatalf("Items() returned %d entries, want 2", len(items))
	}
	// Sorted by name.
	if items[0].Name != "apple.jpg" || items[1].Name != "zebra.png" {
		t.Errorf("Items() order = %q, %q", items[0].Name, items[1].Name)
	}
	if items[0].Path != filepath.Join(dir, "apple.jpg") {
		t.Errorf("Item path = %q", items[0].Path)
	}
	if items[0].SizeBytes == 0 {
		t.Error("Item size not populated")
	}
}

func TestLibraryScanPicksUpNewFiles(t *testing.T) {
	dir := t.TempDir()
	lib, err := New(KindSounds, dir)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if len(lib.Items()) != 0 {
		t.Fatal("fresh library is not empty")
	}

	writeAsset(t, dir, "boom.wav")
	if err := lib.Scan(); err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	items := lib.Items()
	if len(items) != 1 || items[0].Name != "boom.wav" {
		t.Errorf("Items() after rescan = %+v", items)
	}
}

func TestLibraryNewCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "memes")
	if _, err := New(KindImages, dir); err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("library dir not created: %v", err)
	}
}

func TestLibraryImport(t *testing.T) {
	srcDir := t.TempDir()
	src := writeAsset(t, srcDir, "explosion.mp3")

	lib, err := New(KindSounds, t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	item, err := lib.Import(src)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if item.Name != "explosion.mp3" {
		t.Errorf("imported name = %q", item.Name)
	}
	data, err := os.ReadFile(item.Path)
	if err != nil {
		t.Fatalf("reading imported file: %v", err)
	}
	if string(data) != "asset" {
		t.Errorf("imported content = %q", data)
	}
	if len(lib.Items()) != 1 {
		t.Errorf("Items() = %d entries after import", len(lib.Items()))
	}
}

func TestLibraryImportCollision(t *testing.T) {
	srcDir := t.TempDir()
	src := writeAsset(t, srcDir, "hit.wav")

	lib, err := New(KindSounds, t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	first, err := lib.Import(src)
	if err != nil {
		t.Fatalf("first Import() error = %v", err)
	}
	second, err := lib.Import(src)
	if err != nil {
		t.Fatalf("second Import() error = %v", err)
	}
	third, err := lib.Import(src)
	if err != nil {
		t.Fatalf("third Import() error = %v", err)
	}

	if first.Name != "hit.wav" {
		t.Errorf("first import name = %q", first.Name)
	}
	if second.Name != "hit-1.wav" {
		t.Errorf("second import name = %q, want hit-1.wav", second.Name)
	}
	if third.Name != "hit-2.wav" {
		t.Errorf("third import name = %q, want hit-2.wav", third.Name)
	}
	if len(lib.Items()) != 3 {
		t.Errorf("Items() = %d entries, want 3", len(lib.Items()))
	}
}

func TestLibraryImportRejectsWrongKind(t *testing.T) {
	srcDir := t.TempDir()
	src := writeAsset(t, srcDir, "cat.png")

	lib, err := New(KindSounds, t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, err := lib.Import(src); err == nil {
		t.Error("Import() accepted an image into the sound library")
	}
}
