package api

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"vsubgo/pkg/library"
)

func TestLibraryList(t *testing.T) {
	ts := newTestServer(t)

	t.Run("Empty", func(t *testing.T) {
		rr := ts.do(t, "GET", "/api/library/images", nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", rr.Code)
		}
		if items := decode[[]library.Item](t, rr); len(items) != 0 {
			t.Errorf("Expected empty library, got %d items", len(items))
		}
	})

	t.Run("Picks up dropped files", func(t *testing.T) {
		// Written straight into the directory, not through the API.
		path := filepath.Join(ts.imageDir, "dropped.png")
		if err := os.WriteFile(path, []byte("png"), 0o644); err != nil {
			t.Fatal(err)
		}

		rr := ts.do(t, "GET", "/api/library/images", nil)
		items := decode[[]library.Item](t, rr)
		if len(items) != 1 || items[0].Name != "dropped.png" {
			t.Errorf("Expected dropped.png to be listed, got %+v", items)
		}
	})

	t.Run("Unknown kind", func(t *testing.T) {
		rr := ts.do(t, "GET", "/api/library/fonts", nil)
		if rr.Code != http.StatusNotFound {
			t.Errorf("Expected status 404, got %d", rr.Code)
		}
	})
}

func TestLibraryImport(t *testing.T) {
	ts := newTestServer(t)
	srcDir := t.TempDir()

	t.Run("Valid sound", func(t *testing.T) {
		src := filepath.Join(srcDir, "rumble.mp3")
		if err := os.WriteFile(src, []byte("id3"), 0o644); err != nil {
			t.Fatal(err)
		}

		rr := ts.do(t, "POST", "/api/library/sounds/import", ImportRequest{Path: src})
		if rr.Code != http.StatusCreated {
			t.Fatalf("Expected status 201, got %d (%s)", rr.Code, rr.Body.String())
		}
		item := decode[library.Item](t, rr)
		if item.Name != "rumble.mp3" {
			t.Errorf("Expected imported name 'rumble.mp3', got %q", item.Name)
		}
		if _, err := os.Stat(filepath.Join(ts.soundDir, "rumble.mp3")); err != nil {
			t.Errorf("Expected copy in the library directory: %v", err)
		}
	})

	t.Run("Wrong extension", func(t *testing.T) {
		src := filepath.Join(srcDir, "notes.txt")
		if err := os.WriteFile(src, []byte("text"), 0o644); err != nil {
			t.Fatal(err)
		}

		rr := ts.do(t, "POST", "/api/library/sounds/import", ImportRequest{Path: src})
		if rr.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", rr.Code)
		}
	})

	t.Run("Missing source", func(t *testing.T) {
		rr := ts.do(t, "POST", "/api/library/images/import", ImportRequest{Path: filepath.Join(srcDir, "ghost.png")})
		if rr.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", rr.Code)
		}
	})

	t.Run("Missing path", func(t *testing.T) {
		rr := ts.do(t, "POST", "/api/library/images/import", ImportRequest{})
		if rr.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", rr.Code)
		}
	})
}
