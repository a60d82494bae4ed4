package model

import "errors"

// The three recoverable edit/export conditions. Every operation that
// returns one of them leaves prior state unchanged; callers match with
// errors.Is and present the wrapped detail (word, field, bound).
var (
	// ErrInvalidVolume reports a volume write outside [0.0, 1.0].
	// Values are never silently clamped.
	ErrInvalidVolume = errors.New("volume outside [0.0, 1.0]")

	// ErrNoMediaAttached reports a configure call on an empty slot.
	ErrNoMediaAttached = errors.New("no media attached")

	// ErrMissingTimingData reports a build or export over a word whose
	// speech timing was never supplied by the TTS alignment. Fatal to
	// that sentence only, never to the whole project.
	ErrMissingTimingData = errors.New("missing timing data")
)
