package model

import "fmt"

// Editing operations. Every operation takes its target word explicitly;
// there is no ambient "current selection". Operations that can fail
// validate before they mutate, so a failed call leaves the word exactly
// as it was.

// SetImage attaches an image with default tuning (offset 0, natural
// length, centered, scale 1.0). Re-attaching the same path keeps the
// existing fine-tuned offset/duration/placement; a different path
// replaces the descriptor with a fresh default one.
func (w *Word) SetImage(path string) {
	if w.Image != nil && w.Image.Path == path {
		return
	}
	w.Image = &MediaDescriptor{
		Kind:     MediaImage,
		Path:     path,
		Length:   NaturalLength(),
		Position: "center",
		Scale:    1.0,
	}
}

// SetAudio attaches a sound with default tuning (offset 0, natural
// length, volume 1.0). Same path-preservation rule as SetImage.
func (w *Word) SetAudio(path string) {
	if w.Audio != nil && w.Audio.Path == path {
		return
	}
	w.Audio = &MediaDescriptor{
		Kind:   MediaAudio,
		Path:   path,
		Length: NaturalLength(),
		Volume: 1.0,
	}
}

// ConfigureImage adjusts the offset and duration of an attached image.
func (w *Word) ConfigureImage(offsetMS int64, length MediaLength) error {
	if w.Image == nil {
		return fmt.Errorf("word %q: configure image: %w", w.Text, ErrNoMediaAttached)
	}
	w.Image.OffsetMS = offsetMS
	w.Image.Length = length
	return nil
}

// ConfigureAudio adjusts the offset, duration and volume of an attached
// sound. Volume outside [0.0, 1.0] fails with ErrInvalidVolume and the
// descriptor keeps all of its previous values.
func (w *Word) ConfigureAudio(offsetMS int64, length MediaLength, volume float64) error {
	if w.Audio == nil {
		return fmt.Errorf("word %q: configure audio: %w", w.Text, ErrNoMediaAttached)
	}
	if volume < 0.0 || volume > 1.0 {
		return fmt.Errorf("word %q: volume %v: %w", w.Text, volume, ErrInvalidVolume)
	}
	w.Audio.OffsetMS = offsetMS
	w.Audio.Length = length
	w.Audio.Volume = volume
	return nil
}

// SetImagePlacement adjusts where and how large the image renders.
// Position and scale are compositor guidance (0.5-2.0 suggested) and
// are stored as given.
func (w *Word) SetImagePlacement(position string, scale float64) error {
	if w.Image == nil {
		return fmt.Errorf("word %q: image placement: %w", w.Text, ErrNoMediaAttached)
	}
	w.Image.Position = position
	w.Image.Scale = scale
	return nil
}

// ClearImage detaches the image. No-op when none is attached.
func (w *Word) ClearImage() {
	w.Image = nil
}

// ClearAudio detaches the sound. No-op when none is attached.
func (w *Word) ClearAudio() {
	w.Audio = nil
}

// ClearAllMedia detaches both slots. Idempotent.
func (w *Word) ClearAllMedia() {
	w.Image = nil
	w.Audio = nil
}

// ApplyVoice sets the word's prosody overrides. Empty strings clear the
// override so the word inherits the sentence/project default again.
func (w *Word) ApplyVoice(pitch, rate string) {
	w.Pitch = pitch
	w.Rate = rate
}

// ApplyTemplate applies a named preset as an explicit override.
func (w *Word) ApplyTemplate(t VoiceTemplate) {
	w.ApplyVoice(t.Pitch, t.Rate)
}
