package synth

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"vsubgo/pkg/model"
	"vsubgo/pkg/tts"
)

// sentenceAudio is the rendered form of one sentence: a trimmed,
// concatenated audio file plus sentence-relative word stamps.
type sentenceAudio struct {
	index  int
	file   string // empty for punctuation-only sentences
	format string
	durMS  int64
	words  []tts.WordStamp // one per word token, relative to sentence start
}

func (m *Manager) processSentence(ctx context.Context, p *model.Project, idx int, s *model.Sentence) (*sentenceAudio, error) {
	chunks := planChunks(p, s)
	voice := model.ResolveVoice(p, s, nil).Voice

	sa := &sentenceAudio{index: idx}
	var files []string
	var cursor int64

	for _, c := range chunks {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		tokens := s.Words[c.start:c.end]

		if !c.spoken {
			// Nothing to speak; every token is a zero-length mark.
			for _, w := range tokens {
				sa.words = append(sa.words, tts.WordStamp{Text: w.Text, StartMS: cursor})
			}
			continue
		}

		entry, err := m.renderChunk(ctx, voice, c)
		if err != nil {
			return nil, err
		}

		for _, w := range alignChunk(tokens, entry.Words, entry.DurationMS) {
			sa.words = append(sa.words, tts.WordStamp{Text: w.Text, StartMS: cursor + w.StartMS, DurationMS: w.DurationMS})
		}
		cursor += entry.DurationMS
		files = append(files, entry.Audio)
		sa.format = entry.Format
	}

	if len(files) == 0 {
		return sa, nil
	}

	sa.file = filepath.Join(m.workDir, "sentences", fmt.Sprintf("s%04d.%s", idx, sa.format))
	if err := m.proc.Concat(files, sa.file); err != nil {
		return nil, fmt.Errorf("failed to join chunks: %w", err)
	}
	dur, err := m.proc.DurationMS(sa.file)
	if err != nil {
		return nil, fmt.Errorf("failed to measure sentence audio: %w", err)
	}
	sa.durMS = dur

	return sa, nil
}

// renderChunk returns the trimmed audio and fitted stamps for a chunk,
// from cache when the same (voice, pitch, rate, text) was rendered
// before.
func (m *Manager) renderChunk(ctx context.Context, voice string, c chunk) (*cacheEntry, error) {
	key := m.cache.Key(voice, c.pitch, c.rate, c.text)
	if entry, ok := m.cache.Get(key); ok {
		slog.Debug("Synth: Chunk cache hit", "key", key[:12])
		m.stats.CacheHit(m.activeEngine())
		return entry, nil
	}

	req := tts.SpeechRequest{
		Text:       c.text,
		Voice:      voice,
		Pitch:      c.pitch,
		Rate:       c.rate,
		OutputPath: m.cache.AudioPath(key),
	}

	res, err := m.synthesizeChunk(ctx, req)
	if err != nil {
		return nil, err
	}

	if m.trim {
		if err := m.proc.TrimSilence(res.AudioPath); err != nil {
			return nil, err
		}
	}
	dur, err := m.proc.DurationMS(res.AudioPath)
	if err != nil {
		return nil, fmt.Errorf("failed to measure chunk audio: %w", err)
	}

	entry := &cacheEntry{
		Audio:      res.AudioPath,
		Format:     res.Format,
		DurationMS: dur,
		Words:      fitStamps(res.Words, dur),
	}
	if err := m.cache.Put(key, entry); err != nil {
		slog.Warn("Synth: Failed to write cache entry", "error", err)
	}
	return entry, nil
}

// synthesizeChunk calls the active provider, preferring the aligned
// interface, and falls over to the secondary provider on a fatal error.
func (m *Manager) synthesizeChunk(ctx context.Context, req tts.SpeechRequest) (*tts.SpeechResult, error) {
	engine := m.activeEngine()
	res, err := callProvider(ctx, m.provider(), req)
	if err != nil && tts.IsFatalError(err) && m.activateFallback() {
		m.stats.Failure(engine)
		engine = m.activeEngine()
		res, err = callProvider(ctx, m.provider(), req)
	}
	if err != nil {
		m.stats.Failure(engine)
		return nil, fmt.Errorf("tts failed for %q: %w", req.Text, err)
	}
	if err := tts.VerifyAudioFile(res.AudioPath); err != nil {
		m.stats.Failure(engine)
		return nil, err
	}
	m.stats.Rendered(engine, len(req.Text))
	return res, nil
}

func callProvider(ctx context.Context, p tts.Provider, req tts.SpeechRequest) (*tts.SpeechResult, error) {
	if aligned, ok := p.(tts.AlignedProvider); ok {
		return aligned.SynthesizeAligned(ctx, req)
	}
	format, err := p.Synthesize(ctx, req.Text, req.Voice, req.OutputPath)
	if err != nil {
		return nil, err
	}
	return &tts.SpeechResult{AudioPath: req.OutputPath + "." + format, Format: format}, nil
}
