package api

import (
	"errors"
	"net/http"
	"testing"
)

func TestPreviewPlay(t *testing.T) {
	ts := newTestServer(t)

	t.Run("Play at attachment volume", func(t *testing.T) {
		vol := 0.4
		rr := ts.do(t, "POST", "/api/preview", PreviewRequest{Path: "/library/rumble.mp3", Volume: &vol})
		if rr.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d (%s)", rr.Code, rr.Body.String())
		}
		if resp := decode[map[string]any](t, rr); resp["status"] != "playing" {
			t.Errorf("Expected status 'playing', got %v", resp["status"])
		}
		if ts.preview.lastPath != "/library/rumble.mp3" || ts.preview.lastVol != 0.4 {
			t.Errorf("Unexpected play call %s/%v", ts.preview.lastPath, ts.preview.lastVol)
		}
	})

	t.Run("Missing volume means full", func(t *testing.T) {
		rr := ts.do(t, "POST", "/api/preview", PreviewRequest{Path: "/library/rumble.mp3"})
		if rr.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", rr.Code)
		}
		if ts.preview.lastVol != 1.0 {
			t.Errorf("Expected volume 1.0, got %v", ts.preview.lastVol)
		}
	})

	t.Run("Missing path", func(t *testing.T) {
		rr := ts.do(t, "POST", "/api/preview", PreviewRequest{})
		if rr.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", rr.Code)
		}
	})

	t.Run("Undecodable file", func(t *testing.T) {
		ts.preview.playErr = errors.New("decode failed")
		defer func() { ts.preview.playErr = nil }()

		rr := ts.do(t, "POST", "/api/preview", PreviewRequest{Path: "/library/bad.mp3"})
		if rr.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", rr.Code)
		}
	})
}

func TestPreviewStopAndStatus(t *testing.T) {
	ts := newTestServer(t)
	ts.do(t, "POST", "/api/preview", PreviewRequest{Path: "/library/rumble.mp3"})

	rr := ts.do(t, "GET", "/api/preview/status", nil)
	if resp := decode[map[string]bool](t, rr); !resp["playing"] {
		t.Error("Expected playing=true after play")
	}

	rr = ts.do(t, "POST", "/api/preview/stop", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}

	rr = ts.do(t, "GET", "/api/preview/status", nil)
	if resp := decode[map[string]bool](t, rr); resp["playing"] {
		t.Error("Expected playing=false after stop")
	}
}
