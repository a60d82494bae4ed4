package api

import (
	"net/http"
	"testing"

	"vsubgo/pkg/model"
)

func TestTemplateList(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.do(t, "GET", "/api/templates", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}

	templates := decode[[]model.VoiceTemplate](t, rr)
	if len(templates) != len(model.DefaultTemplates()) {
		t.Fatalf("Expected %d seeded templates, got %d", len(model.DefaultTemplates()), len(templates))
	}

	found := false
	for _, tpl := range templates {
		if tpl.Name == "Slow" && tpl.Rate == "-50%" {
			found = true
		}
	}
	if !found {
		t.Error("Expected the seeded 'Slow' preset")
	}
}

func TestTemplateSave(t *testing.T) {
	ts := newTestServer(t)

	t.Run("Create", func(t *testing.T) {
		rr := ts.do(t, "PUT", "/api/templates/Whisper", TemplateRequest{Pitch: "-20Hz", Rate: "-30%"})
		if rr.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d (%s)", rr.Code, rr.Body.String())
		}
		tpl := decode[model.VoiceTemplate](t, rr)
		if tpl.Name != "Whisper" || tpl.Pitch != "-20Hz" {
			t.Errorf("Unexpected template %+v", tpl)
		}
	})

	t.Run("Overwrite", func(t *testing.T) {
		rr := ts.do(t, "PUT", "/api/templates/Whisper", TemplateRequest{Pitch: "-40Hz", Rate: "-30%"})
		if rr.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", rr.Code)
		}

		rr = ts.do(t, "GET", "/api/templates", nil)
		templates := decode[[]model.VoiceTemplate](t, rr)
		count := 0
		for _, tpl := range templates {
			if tpl.Name == "Whisper" {
				count++
				if tpl.Pitch != "-40Hz" {
					t.Errorf("Expected updated pitch, got %q", tpl.Pitch)
				}
			}
		}
		if count != 1 {
			t.Errorf("Expected exactly one 'Whisper', got %d", count)
		}
	})

	t.Run("Clamped on save", func(t *testing.T) {
		rr := ts.do(t, "PUT", "/api/templates/Shout", TemplateRequest{Pitch: "+300Hz", Rate: "+200%"})
		if rr.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", rr.Code)
		}
		tpl := decode[model.VoiceTemplate](t, rr)
		if tpl.Pitch != "+100Hz" || tpl.Rate != "+100%" {
			t.Errorf("Expected clamped +100Hz/+100%%, got %s/%s", tpl.Pitch, tpl.Rate)
		}
	})

	t.Run("Malformed prosody is rejected", func(t *testing.T) {
		rr := ts.do(t, "PUT", "/api/templates/Broken", TemplateRequest{Rate: "fast"})
		if rr.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", rr.Code)
		}
	})
}

func TestTemplateDelete(t *testing.T) {
	ts := newTestServer(t)
	ts.do(t, "PUT", "/api/templates/Doomed", TemplateRequest{Pitch: "+0Hz", Rate: "+0%"})

	rr := ts.do(t, "DELETE", "/api/templates/Doomed", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}

	rr = ts.do(t, "GET", "/api/templates", nil)
	for _, tpl := range decode[[]model.VoiceTemplate](t, rr) {
		if tpl.Name == "Doomed" {
			t.Error("Expected template to be gone")
		}
	}
}
