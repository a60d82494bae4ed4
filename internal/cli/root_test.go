package cli

import (
	"context"
	"path/filepath"
	"testing"

	"vsubgo/pkg/config"
	"vsubgo/pkg/model"
	"vsubgo/pkg/script"
	"vsubgo/pkg/store"
	"vsubgo/pkg/tts/edgetts"
	"vsubgo/pkg/tts/sapi"
)

func TestLoadStoredProject(t *testing.T) {
	st, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	defer st.Close()
	ctx := context.Background()

	t.Run("Empty store", func(t *testing.T) {
		if _, err := loadStoredProject(ctx, st, ""); err == nil {
			t.Error("Expected an error with no stored projects")
		}
	})

	p := script.NewProject("Volcanoes", "Ash fell early.", model.VoiceSettings{})
	if err := st.SaveProject(ctx, p); err != nil {
		t.Fatalf("SaveProject() error = %v", err)
	}

	t.Run("By name", func(t *testing.T) {
		got, err := loadStoredProject(ctx, st, "Volcanoes")
		if err != nil {
			t.Fatalf("loadStoredProject() error = %v", err)
		}
		if got.Title != "Volcanoes" || len(got.Sentences) != 1 {
			t.Errorf("Unexpected project %q with %d sentences", got.Title, len(got.Sentences))
		}
	})

	t.Run("Latest by default", func(t *testing.T) {
		got, err := loadStoredProject(ctx, st, "")
		if err != nil {
			t.Fatalf("loadStoredProject() error = %v", err)
		}
		if got.Title != "Volcanoes" {
			t.Errorf("Expected the stored project, got %q", got.Title)
		}
	})

	t.Run("Unknown name", func(t *testing.T) {
		if _, err := loadStoredProject(ctx, st, "ghost"); err == nil {
			t.Error("Expected an error for an unknown project")
		}
	})
}

func TestTTSProviders(t *testing.T) {
	orig := cfg
	defer func() { cfg = orig }()
	cfg = config.DefaultConfig()

	t.Run("Edge with fallback", func(t *testing.T) {
		cfg.TTS.Engine = "edge-tts"
		cfg.TTS.Fallback = true
		primary, fallback := ttsProviders()
		if _, ok := primary.(*edgetts.Provider); !ok {
			t.Errorf("Expected edgetts primary, got %T", primary)
		}
		if _, ok := fallback.(*sapi.Provider); !ok {
			t.Errorf("Expected sapi fallback, got %T", fallback)
		}
	})

	t.Run("Edge without fallback", func(t *testing.T) {
		cfg.TTS.Engine = "edge-tts"
		cfg.TTS.Fallback = false
		_, fallback := ttsProviders()
		if fallback != nil {
			t.Errorf("Expected no fallback, got %T", fallback)
		}
	})

	t.Run("SAPI primary", func(t *testing.T) {
		cfg.TTS.Engine = "windows-sapi"
		primary, fallback := ttsProviders()
		if _, ok := primary.(*sapi.Provider); !ok {
			t.Errorf("Expected sapi primary, got %T", primary)
		}
		if fallback != nil {
			t.Errorf("Expected no fallback for sapi primary, got %T", fallback)
		}
	})
}
