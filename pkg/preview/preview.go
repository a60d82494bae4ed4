// Package preview auditions library sounds before they are attached to words.
package preview

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
)

// Service plays one sound at a time through the system speaker. Starting a
// new preview replaces the current one.
type Service struct {
	mu                 sync.Mutex
	ctrl               *beep.Ctrl
	track              beep.StreamSeekCloser
	speakerInitialized bool
	sampleRate         beep.SampleRate
}

// New creates an idle preview service. The speaker is initialized lazily on
// the first Play.
func New() *Service { return &Service{} }

// Play starts playback of the sound at path. volume is the linear attachment
// volume in [0, 1], so a preview sounds like the eventual render. onComplete
// fires when playback reaches the end, not when Stop cuts it off.
func (s *Service) Play(path string, volume float64, onComplete func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()

	streamer, format, err := decodeFile(path)
	if err != nil {
		return err
	}

	if err := s.ensureSpeakerInitialized(streamer); err != nil {
		return err
	}

	resampled := beep.Resample(3, format.SampleRate, s.sampleRate, streamer)
	vol := &effects.Volume{
		Streamer: resampled,
		Base:     2,
		Volume:   volumeToPower(volume),
		Silent:   volume <= 0.01,
	}

	s.ctrl = &beep.Ctrl{Streamer: vol}
	s.track = streamer

	speaker.Play(beep.Seq(s.ctrl, beep.Callback(func() {
		// Cleanup runs off the speaker goroutine so it can take the lock.
		go func() {
			s.mu.Lock()
			s.ctrl = nil
			s.track = nil
			s.mu.Unlock()
			streamer.Close()
			if onComplete != nil {
				onComplete()
			}
		}()
	})))

	slog.Debug("Preview: Playing sound", "path", path, "volume", volume)
	return nil
}

// Stop cuts off the current preview, if any.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *Service) stopLocked() {
	if s.track != nil {
		s.track.Close()
		s.track = nil
	}
	if s.ctrl != nil {
		speaker.Clear()
		s.ctrl = nil
	}
}

// IsPlaying reports whether a preview is currently loaded.
func (s *Service) IsPlaying() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctrl != nil
}

func (s *Service) ensureSpeakerInitialized(streamer beep.StreamSeekCloser) error {
	const targetSampleRate = 48000
	if s.speakerInitialized {
		return nil
	}
	if err := speaker.Init(beep.SampleRate(targetSampleRate), beep.SampleRate(targetSampleRate).N(time.Second/10)); err != nil {
		streamer.Close()
		slog.Error("Preview: Failed to initialize speaker", "error", err)
		return err
	}
	s.speakerInitialized = true
	s.sampleRate = targetSampleRate
	return nil
}

// Duration decodes the sound at path and reports its natural length. Used by
// the UI to show what a zero-duration attachment will resolve to at render
// time.
func Duration(path string) (time.Duration, error) {
	streamer, format, err := decodeFile(path)
	if err != nil {
		return 0, err
	}
	defer streamer.Close()
	return format.SampleRate.D(streamer.Len()), nil
}

// decodeFile picks a decoder by extension. m4a assets import into the
// library fine but have no decoder here, so they cannot be auditioned.
func decodeFile(path string) (beep.StreamSeekCloser, beep.Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, err
	}

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".wav":
		streamer, format, err = wav.Decode(f)
	case ".flac":
		streamer, format, err = flac.Decode(f)
	case ".ogg":
		streamer, format, err = vorbis.Decode(f)
	default:
		f.Close()
		return nil, beep.Format{}, fmt.Errorf("cannot preview %s files", ext)
	}
	if err != nil {
		f.Close()
		return nil, beep.Format{}, fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}
	return streamer, format, nil
}
