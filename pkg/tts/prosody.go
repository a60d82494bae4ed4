package tts

import (
	"fmt"
	"regexp"
	"strconv"
)

// Prosody bounds accepted by the speech endpoint. Values outside the
// range are clamped at format time; the editor only ever hands out
// formatted strings, so out-of-range prosody cannot reach the wire.
const (
	MinPitchHz = -100
	MaxPitchHz = 100
	MinRatePct = -50
	MaxRatePct = 100
)

var (
	pitchRe = regexp.MustCompile(`^([+-]?\d+)Hz$`)
	rateRe  = regexp.MustCompile(`^([+-]?\d+)%$`)
)

// FormatPitch renders a pitch adjustment in wire syntax ("+50Hz"),
// clamped to the supported range.
func FormatPitch(hz int) string {
	if hz < MinPitchHz {
		hz = MinPitchHz
	}
	if hz > MaxPitchHz {
		hz = MaxPitchHz
	}
	return fmt.Sprintf("%+dHz", hz)
}

// FormatRate renders a rate adjustment in wire syntax ("-20%"),
// clamped to the supported range.
func FormatRate(pct int) string {
	if pct < MinRatePct {
		pct = MinRatePct
	}
	if pct > MaxRatePct {
		pct = MaxRatePct
	}
	return fmt.Sprintf("%+d%%", pct)
}

// ParsePitch inverts FormatPitch.
func ParsePitch(s string) (int, error) {
	m := pitchRe.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("invalid pitch %q", s)
	}
	return strconv.Atoi(m[1])
}

// ParseRate inverts FormatRate.
func ParseRate(s string) (int, error) {
	m := rateRe.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("invalid rate %q", s)
	}
	return strconv.Atoi(m[1])
}
