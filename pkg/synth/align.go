package synth

import (
	"vsubgo/pkg/model"
	"vsubgo/pkg/tts"
)

// fitStamps rebases raw provider stamps onto a trimmed chunk: the lead
// silence before the first boundary is removed and the remaining span
// is scaled to the measured duration.
func fitStamps(stamps []tts.WordStamp, durMS int64) []tts.WordStamp {
	if len(stamps) == 0 {
		return nil
	}

	base := stamps[0].StartMS
	last := stamps[len(stamps)-1]
	span := last.StartMS + last.DurationMS - base

	scale := 1.0
	if span > 0 && durMS > 0 {
		scale = float64(durMS) / float64(span)
	}

	out := make([]tts.WordStamp, len(stamps))
	for i, s := range stamps {
		out[i] = tts.WordStamp{
			Text:       s.Text,
			StartMS:    int64(float64(s.StartMS-base)*scale + 0.5),
			DurationMS: int64(float64(s.DurationMS)*scale + 0.5),
		}
	}
	return out
}

// alignChunk produces one stamp per token, relative to the chunk start.
// Spoken tokens consume boundary stamps in order; punctuation tokens
// become zero-length marks at the previous word's end. When boundaries
// run out (or the provider reported none) the remaining span is spread
// by character count.
func alignChunk(tokens []*model.Word, stamps []tts.WordStamp, durMS int64) []tts.WordStamp {
	out := make([]tts.WordStamp, len(tokens))
	next := 0
	var prevEnd int64

	for i, w := range tokens {
		if !isSpokenToken(w.Text) {
			out[i] = tts.WordStamp{Text: w.Text, StartMS: prevEnd}
			continue
		}

		if next < len(stamps) {
			s := stamps[next]
			next++
			out[i] = tts.WordStamp{Text: w.Text, StartMS: s.StartMS, DurationMS: s.DurationMS}
			prevEnd = s.StartMS + s.DurationMS
			continue
		}

		span := durMS - prevEnd
		if span < 0 {
			span = 0
		}
		copy(out[i:], estimateSpan(tokens[i:], prevEnd, span))
		return out
	}
	return out
}

// estimateSpan distributes a time span over tokens proportionally to
// their character counts, the fallback for providers without word
// boundary events.
func estimateSpan(tokens []*model.Word, startMS, spanMS int64) []tts.WordStamp {
	chars := 0
	for _, w := range tokens {
		if isSpokenToken(w.Text) {
			chars += len([]rune(w.Text))
		}
	}

	out := make([]tts.WordStamp, len(tokens))
	cursor := float64(startMS)
	for i, w := range tokens {
		if !isSpokenToken(w.Text) {
			out[i] = tts.WordStamp{Text: w.Text, StartMS: int64(cursor + 0.5)}
			continue
		}

		var dur float64
		if chars > 0 {
			dur = float64(spanMS) * float64(len([]rune(w.Text))) / float64(chars)
		}
		out[i] = tts.WordStamp{Text: w.Text, StartMS: int64(cursor + 0.5), DurationMS: int64(dur + 0.5)}
		cursor += dur
	}
	return out
}
