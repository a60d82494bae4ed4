package tts

import (
	"context"
)

const (
	// MinAudioSize is the minimum size of a synthesized audio file (1KB).
	// Files smaller than this are likely failed synthesis attempts.
	MinAudioSize = 1024
)

// Provider defines the interface for Text-To-Speech engines.
type Provider interface {
	// Synthesize generates audio from text and writes it to outputPath.
	// Returns the audio format ("mp3", "wav") and error.
	Synthesize(ctx context.Context, text, voice, outputPath string) (string, error)

	// Voices returns a list of available voices for the provider.
	Voices(ctx context.Context) ([]Voice, error)
}

// SpeechRequest is one aligned synthesis call: the text to speak, the
// voice, prosody in wire syntax ("+50Hz", "-20%", empty for neutral)
// and where to write the audio.
type SpeechRequest struct {
	Text       string
	Voice      string
	Pitch      string
	Rate       string
	OutputPath string
}

// WordStamp is one spoken word's window as reported by the engine,
// relative to the start of the synthesized audio.
type WordStamp struct {
	Text       string
	StartMS    int64
	DurationMS int64
}

// SpeechResult carries the synthesized audio and, when the engine
// reports them, per-word boundaries.
type SpeechResult struct {
	AudioPath string
	Format    string
	Words     []WordStamp
}

// AlignedProvider is the optional upgrade over Provider for engines
// that report word boundaries alongside the audio. Callers probe for
// it with a type assertion and fall back to estimated timings when the
// provider does not implement it.
type AlignedProvider interface {
	SynthesizeAligned(ctx context.Context, req SpeechRequest) (*SpeechResult, error)
}

// Voice represents an available TTS voice.
type Voice struct {
	ID       string
	Name     string
	Language string
	IsNeural bool
}

// FatalError represents a TTS error that should trigger fallback to another provider.
// Examples: rate limits (429), server errors (5xx), auth failures (401/403).
type FatalError struct {
	StatusCode int
	Message    string
}

func (e *FatalError) Error() string {
	return e.Message
}

// NewFatalError creates a new FatalError with the given status code and message.
func NewFatalError(statusCode int, message string) *FatalError {
	return &FatalError{StatusCode: statusCode, Message: message}
}

// IsFatalError checks if an error is a TTS fatal error that should trigger fallback.
func IsFatalError(err error) bool {
	_, ok := err.(*FatalError)
	return ok
}
