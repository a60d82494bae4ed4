package tts_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"vsubgo/pkg/tts"
	"vsubgo/pkg/tts/edgetts"
	"vsubgo/pkg/tts/sapi"
)

func TestLocal_SAPI(t *testing.T) {
	if runtime.GOOS != "windows" {
		t.Skip("SAPI only works on Windows")
	}
	if os.Getenv("TEST_TTS") == "" {
		t.Skip("Set TEST_TTS=1 to run SAPI integration test")
	}

	p := sapi.NewProvider()
	outputPath := filepath.Join(t.TempDir(), "test_sapi.wav")

	format, err := p.Synthesize(context.Background(), "This is a local SAPI test.", "", outputPath)
	if err != nil {
		t.Fatalf("SAPI synthesis failed: %v", err)
	}

	if format != "wav" {
		t.Errorf("Expected wav, got %s", format)
	}

	if err := tts.VerifyAudioFile(outputPath); err != nil {
		t.Errorf("Output file not usable: %v", err)
	}
}

func TestOnline_EdgeTTS(t *testing.T) {
	if os.Getenv("TEST_TTS") == "" {
		t.Skip("Set TEST_TTS=1 to run Edge TTS integration test")
	}

	p := edgetts.NewProvider()
	outputPath := filepath.Join(t.TempDir(), "test_edge.mp3")

	res, err := p.SynthesizeAligned(context.Background(), tts.SpeechRequest{
		Text:       "This is an Edge TTS online test.",
		Voice:      "en-US-AvaMultilingualNeural",
		OutputPath: outputPath,
	})
	if err != nil {
		t.Fatalf("Edge TTS synthesis failed: %v", err)
	}

	if res.Format != "mp3" {
		t.Errorf("Expected mp3, got %s", res.Format)
	}
	if err := tts.VerifyAudioFile(res.AudioPath); err != nil {
		t.Errorf("Output file not usable: %v", err)
	}
	if len(res.Words) == 0 {
		t.Error("Expected word boundary events from the Edge endpoint")
	}
	for _, w := range res.Words {
		t.Logf("boundary %q at %dms for %dms", w.Text, w.StartMS, w.DurationMS)
	}
}

func TestVoices_SAPI(t *testing.T) {
	if runtime.GOOS != "windows" {
		t.Skip("SAPI only works on Windows")
	}
	if os.Getenv("TEST_TTS") == "" {
		t.Skip("Set TEST_TTS=1 to run SAPI integration test")
	}

	p := sapi.NewProvider()
	voices, err := p.Voices(context.Background())
	if err != nil {
		t.Fatalf("Voices failed: %v", err)
	}

	if len(voices) == 0 {
		t.Log("No SAPI voices found (this can happen in some Windows environments, synthesis is verified separately)")
	}

	for _, v := range voices {
		t.Logf("Found voice: %s (%s)", v.Name, v.ID)
	}
}
