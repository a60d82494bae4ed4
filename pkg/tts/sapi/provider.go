// Package sapi provides TTS via Windows SAPI5. It is the offline
// fallback: no word boundaries, so timing is estimated downstream, and
// pitch/rate overrides are mapped onto SAPI's coarser XML scale.
package sapi

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"

	"vsubgo/pkg/tts"
)

// Speak flags, see SpeechVoiceSpeakFlags.
const (
	svsfDefault = 0
	svsfIsXML   = 8
)

// Provider implements tts.Provider using Windows SAPI5 via OLE.
type Provider struct {
	mu sync.Mutex
}

// NewProvider creates a new SAPI5 provider.
func NewProvider() *Provider {
	return &Provider{}
}

// Synthesize generates a .wav file using SAPI5.
func (p *Provider) Synthesize(ctx context.Context, text, voiceID, outputPath string) (string, error) {
	res, err := p.render(tts.SpeechRequest{Text: text, Voice: voiceID, OutputPath: outputPath})
	if err != nil {
		return "", err
	}
	return res.Format, nil
}

// SynthesizeAligned renders audio with pitch/rate applied through SAPI
// XML. SAPI exposes no usable boundary events over OLE, so Words is
// always nil and the caller falls back to estimated timing.
func (p *Provider) SynthesizeAligned(ctx context.Context, req tts.SpeechRequest) (*tts.SpeechResult, error) {
	return p.render(req)
}

func (p *Provider) render(req tts.SpeechRequest) (*tts.SpeechResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := ole.CoInitialize(0); err != nil {
		// Already initialized
	} else {
		defer ole.CoUninitialize()
	}

	voice, err := createDispatch("SAPI.SpVoice")
	if err != nil {
		return nil, err
	}
	defer voice.Release()

	if req.Voice != "" {
		p.setVoiceByID(voice, req.Voice)
	}

	stream, err := createDispatch("SAPI.SpFileStream")
	if err != nil {
		return nil, err
	}
	defer stream.Release()

	fullPath := req.OutputPath
	if !strings.HasSuffix(strings.ToLower(fullPath), ".wav") {
		fullPath += ".wav"
	}
	// 3 = SSFMCreateForWrite
	if _, err := oleutil.CallMethod(stream, "Open", fullPath, 3, false); err != nil {
		return nil, fmt.Errorf("stream Open failed: %w", err)
	}
	defer func() {
		_, _ = oleutil.CallMethod(stream, "Close")
	}()

	if _, err := oleutil.PutPropertyRef(voice, "AudioOutputStream", stream); err != nil {
		return nil, fmt.Errorf("failed to set AudioOutputStream: %w", err)
	}

	cleanText := tts.StripSpeakerLabels(req.Text)
	payload, flags := speakPayload(cleanText, req.Pitch, req.Rate)

	if _, err := oleutil.CallMethod(voice, "Speak", payload, flags); err != nil {
		tts.Log("SAPI", payload, 0, err)
		return nil, fmt.Errorf("Speak failed: %w", err)
	}
	tts.Log("SAPI", payload, 200, nil)

	return &tts.SpeechResult{AudioPath: fullPath, Format: "wav"}, nil
}

// speakPayload wraps text in SAPI XML when a pitch or rate override is
// present. SAPI pitch and rate both run -10..10, so the signed Hz and
// percent values are scaled down by 10 and clamped.
func speakPayload(text, pitch, rate string) (string, int) {
	pitchHz, pitchErr := tts.ParsePitch(pitch)
	ratePct, rateErr := tts.ParseRate(rate)
	if pitchErr != nil && rateErr != nil {
		return text, svsfDefault
	}

	payload := xmlEscaper.Replace(text)
	if pitchErr == nil {
		payload = fmt.Sprintf(`<pitch absmiddle="%d">%s</pitch>`, scaleToSAPI(pitchHz), payload)
	}
	if rateErr == nil {
		payload = fmt.Sprintf(`<rate absspeed="%d">%s</rate>`, scaleToSAPI(ratePct), payload)
	}
	return payload, svsfIsXML
}

var xmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func scaleToSAPI(v int) int {
	v /= 10
	if v > 10 {
		return 10
	}
	if v < -10 {
		return -10
	}
	return v
}

// Voices lists available SAPI voices.
func (p *Provider) Voices(ctx context.Context) ([]tts.Voice, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := ole.CoInitialize(0); err != nil {
		// Already initialized
	} else {
		defer ole.CoUninitialize()
	}

	voice, err := createDispatch("SAPI.SpVoice")
	if err != nil {
		return nil, err
	}
	defer voice.Release()

	// GetVoices returns ISpeechObjectTokens.
	tokensVar, err := oleutil.CallMethod(voice, "GetVoices")
	if err != nil {
		tokensVar, err = oleutil.GetProperty(voice, "Voices")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get voices collection: %w", err)
	}
	tokens := tokensVar.ToIDispatch()
	if tokens == nil {
		return nil, fmt.Errorf("voices collection is nil")
	}
	defer tokens.Release()

	countVar, err := oleutil.GetProperty(tokens, "Count")
	if err != nil {
		return nil, fmt.Errorf("GetVoices Count failed: %w", err)
	}
	count := variantInt(countVar)

	var voices []tts.Voice
	_ = oleutil.ForEach(tokens, func(v *ole.VARIANT) error {
		if voice, ok := extractVoice(v); ok {
			voices = append(voices, voice)
		}
		return nil
	})

	if len(voices) == 0 {
		voices = enumerateByIndex(tokens, count)
	}

	return voices, nil
}

func createDispatch(progID string) (*ole.IDispatch, error) {
	unknown, err := oleutil.CreateObject(progID)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", progID, err)
	}
	dispatch, err := unknown.QueryInterface(ole.IID_IDispatch)
	if err != nil {
		unknown.Release()
		return nil, fmt.Errorf("QueryInterface %s failed: %w", progID, err)
	}
	return dispatch, nil
}

func variantInt(v *ole.VARIANT) int {
	val := v.Value()
	if val == nil {
		return int(v.Val)
	}
	switch it := val.(type) {
	case int32:
		return int(it)
	case int64:
		return int(it)
	case int:
		return it
	case uint32:
		return int(it)
	default:
		return int(v.Val)
	}
}

func extractVoice(v *ole.VARIANT) (tts.Voice, bool) {
	item := v.ToIDispatch()
	if item == nil {
		return tts.Voice{}, false
	}
	defer item.Release()

	idVar, idErr := oleutil.CallMethod(item, "GetId")
	descVar, descErr := oleutil.CallMethod(item, "GetDescription", int32(0))

	if idErr == nil && descErr == nil && idVar != nil && descVar != nil {
		return tts.Voice{
			ID:   idVar.ToString(),
			Name: descVar.ToString(),
		}, true
	}
	return tts.Voice{}, false
}

// enumerateByIndex is the fallback when ForEach yields nothing; some
// SAPI builds only expose the collection through Item(i).
func enumerateByIndex(tokens *ole.IDispatch, count int) []tts.Voice {
	var voices []tts.Voice
	for i := 0; i < count; i++ {
		itemVar, err := oleutil.GetProperty(tokens, "Item", i)
		if err != nil {
			itemVar, err = oleutil.CallMethod(tokens, "Item", i)
		}
		if err != nil {
			continue
		}
		item := itemVar.ToIDispatch()
		if item == nil {
			continue
		}
		idVar, _ := oleutil.CallMethod(item, "GetId")
		descVar, _ := oleutil.CallMethod(item, "GetDescription", int32(0))
		if idVar != nil && descVar != nil {
			voices = append(voices, tts.Voice{
				ID:   idVar.ToString(),
				Name: descVar.ToString(),
			})
		}
		item.Release()
	}
	return voices
}

func (p *Provider) setVoiceByID(voice *ole.IDispatch, voiceID string) {
	tokensVar, err := oleutil.CallMethod(voice, "GetVoices", "", "")
	if err != nil {
		return
	}
	tokens := tokensVar.ToIDispatch()
	defer tokens.Release()

	_ = oleutil.ForEach(tokens, func(v *ole.VARIANT) error {
		item := v.ToIDispatch()
		if item == nil {
			return nil
		}
		defer item.Release()
		idVar, _ := oleutil.CallMethod(item, "GetId")
		if idVar != nil && idVar.ToString() == voiceID {
			_, _ = oleutil.PutPropertyRef(voice, "Voice", item)
		}
		return nil
	})
}
