package edgetts

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestHandleBinaryMessage(t *testing.T) {
	p := NewProvider()
	dir := t.TempDir()

	newFile := func(name string) *os.File {
		f, err := os.Create(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("create temp file: %v", err)
		}
		return f
	}

	t.Run("writes audio after header", func(t *testing.T) {
		f := newFile("audio.mp3")
		defer f.Close()

		header := []byte("Path:audio\r\n")
		data := make([]byte, 0, 2+len(header)+3)
		data = append(data, byte(len(header)>>8), byte(len(header)&0xff))
		data = append(data, header...)
		data = append(data, 0xAA, 0xBB, 0xCC)

		if err := p.handleBinaryMessage(data, f); err != nil {
			t.Fatalf("handleBinaryMessage: %v", err)
		}

		got, err := os.ReadFile(f.Name())
		if err != nil {
			t.Fatalf("read back: %v", err)
		}
		if len(got) != 3 || got[0] != 0xAA || got[2] != 0xCC {
			t.Errorf("expected 3 audio bytes, got %v", got)
		}
	})

	t.Run("short frame is ignored", func(t *testing.T) {
		f := newFile("short.mp3")
		defer f.Close()

		if err := p.handleBinaryMessage([]byte{0x01}, f); err != nil {
			t.Fatalf("handleBinaryMessage: %v", err)
		}
		got, _ := os.ReadFile(f.Name())
		if len(got) != 0 {
			t.Errorf("expected no bytes written, got %d", len(got))
		}
	})

	t.Run("truncated header is ignored", func(t *testing.T) {
		f := newFile("truncated.mp3")
		defer f.Close()

		// Declares a 100-byte header but carries only 2 bytes.
		if err := p.handleBinaryMessage([]byte{0x00, 0x64, 0x01, 0x02}, f); err != nil {
			t.Fatalf("handleBinaryMessage: %v", err)
		}
		got, _ := os.ReadFile(f.Name())
		if len(got) != 0 {
			t.Errorf("expected no bytes written, got %d", len(got))
		}
	})
}

func TestGenerateSecMSGec(t *testing.T) {
	p := NewProvider()

	token := p.generateSecMSGec("test-token")
	if len(token) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(token))
	}
	if token != strings.ToUpper(token) {
		t.Error("expected uppercase hex")
	}

	// Within the same 5-minute window the token is stable.
	if again := p.generateSecMSGec("test-token"); again != token {
		t.Error("token changed within the clock window")
	}
	if other := p.generateSecMSGec("other-token"); other == token {
		t.Error("different client tokens must not collide")
	}
}

func TestVoices(t *testing.T) {
	p := NewProvider()
	voices, err := p.Voices(context.Background())
	if err != nil {
		t.Fatalf("Voices: %v", err)
	}
	if len(voices) == 0 {
		t.Fatal("expected at least one voice")
	}
	for _, v := range voices {
		if v.ID == "" || v.Name == "" || v.Language == "" {
			t.Errorf("incomplete voice entry: %+v", v)
		}
		if !v.IsNeural {
			t.Errorf("voice %s should be neural", v.ID)
		}
	}
}

func TestSynthesizeRequiresVoice(t *testing.T) {
	p := NewProvider()
	_, err := p.Synthesize(context.Background(), "hello", "", filepath.Join(t.TempDir(), "out"))
	if err == nil {
		t.Fatal("expected error for empty voice ID")
	}
}
