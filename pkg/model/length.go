package model

import (
	"encoding/json"
	"fmt"
)

// MediaLength is the duration of a media block: either a fixed number of
// milliseconds or the natural-length sentinel, meaning "use the file's
// own duration". The engine never resolves natural length itself; only
// the downstream compositor knows the real file length. The zero value
// is natural length.
type MediaLength struct {
	ms    int64
	fixed bool
}

// NaturalLength returns the sentinel length.
func NaturalLength() MediaLength {
	return MediaLength{}
}

// FixedLength returns an explicit duration in milliseconds.
func FixedLength(ms int64) MediaLength {
	return MediaLength{ms: ms, fixed: true}
}

// IsNatural reports whether the length is the sentinel.
func (l MediaLength) IsNatural() bool {
	return !l.fixed
}

// Millis returns the fixed duration, or 0 for natural length.
func (l MediaLength) Millis() int64 {
	return l.ms
}

func (l MediaLength) String() string {
	if !l.fixed {
		return "natural"
	}
	return fmt.Sprintf("%dms", l.ms)
}

// MarshalJSON renders natural length as null and a fixed length as its
// millisecond count. This is the nullable duration_ms of the export and
// persistence contracts.
func (l MediaLength) MarshalJSON() ([]byte, error) {
	if !l.fixed {
		return []byte("null"), nil
	}
	return json.Marshal(l.ms)
}

// UnmarshalJSON accepts null, absent-as-null, or an integer. 0 maps to
// natural length, matching the legacy wire rule where 0 and absent both
// mean "use the file's own duration".
func (l *MediaLength) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		*l = NaturalLength()
		return nil
	}
	var ms int64
	if err := json.Unmarshal(data, &ms); err != nil {
		return fmt.Errorf("media length: %w", err)
	}
	if ms == 0 {
		*l = NaturalLength()
		return nil
	}
	*l = FixedLength(ms)
	return nil
}
