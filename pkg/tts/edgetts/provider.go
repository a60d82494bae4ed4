// Package edgetts drives the Microsoft Edge speech websocket endpoint.
// It is the default provider: online, neural voices, and it reports
// word boundaries, which the synthesizer turns into per-word timing.
package edgetts

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"vsubgo/pkg/logging"
	"vsubgo/pkg/tts"
)

// Provider implements tts.Provider and tts.AlignedProvider for
// Microsoft Edge TTS.
type Provider struct{}

// NewProvider creates a new Edge TTS provider.
func NewProvider() *Provider {
	return &Provider{}
}

// Synthesize generates an .mp3 file using Edge TTS, boundaries off.
func (p *Provider) Synthesize(ctx context.Context, text, voice, outputPath string) (string, error) {
	res, err := p.run(ctx, tts.SpeechRequest{Text: text, Voice: voice, OutputPath: outputPath}, false)
	if err != nil {
		return "", err
	}
	return res.Format, nil
}

// SynthesizeAligned generates audio and collects the engine's word
// boundary events so callers get real per-word timing instead of an
// estimate.
func (p *Provider) SynthesizeAligned(ctx context.Context, req tts.SpeechRequest) (*tts.SpeechResult, error) {
	return p.run(ctx, req, true)
}

func (p *Provider) run(ctx context.Context, req tts.SpeechRequest, withBoundaries bool) (*tts.SpeechResult, error) {
	if req.Voice == "" {
		return nil, fmt.Errorf("voice ID is required")
	}

	text := tts.StripSpeakerLabels(req.Text)

	fullPath := req.OutputPath
	if !strings.HasSuffix(strings.ToLower(fullPath), ".mp3") {
		fullPath += ".mp3"
	}
	file, err := os.Create(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	conn, err := p.dial(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	if err := p.sendConfig(conn, withBoundaries); err != nil {
		return nil, err
	}

	requestID := strings.ReplaceAll(uuid.New().String(), "-", "")
	ssml := buildSSML(req.Voice, req.Pitch, req.Rate, text)
	tts.Log("EDGETTS", ssml, 0, nil)
	if err := p.sendSSML(conn, ssml, requestID); err != nil {
		return nil, err
	}

	words, err := p.consumeResponses(ctx, conn, file)
	if err != nil {
		return nil, err
	}

	return &tts.SpeechResult{
		AudioPath: fullPath,
		Format:    "mp3",
		Words:     words,
	}, nil
}

func (p *Provider) dial(ctx context.Context) (*websocket.Conn, error) {
	edgeOrigin := os.Getenv("EDGE_TTS_ORIGIN")
	if edgeOrigin == "" {
		return nil, fmt.Errorf("EDGE_TTS_ORIGIN environment variable is required")
	}

	header := http.Header{}
	header.Set("Origin", edgeOrigin)
	header.Set("Pragma", "no-cache")
	header.Set("Cache-Control", "no-cache")

	userAgent := os.Getenv("EDGE_TTS_USER_AGENT")
	if userAgent == "" {
		return nil, fmt.Errorf("EDGE_TTS_USER_AGENT environment variable is required")
	}
	header.Set("User-Agent", userAgent)
	header.Set("Accept-Encoding", "gzip, deflate, br, zstd")
	header.Set("Accept-Language", "en-US,en;q=0.9")

	muid := strings.ReplaceAll(uuid.New().String(), "-", "")
	header.Set("Cookie", fmt.Sprintf("muid=%s", muid))

	trustedClientToken := os.Getenv("EDGE_TTS_TRUSTED_CLIENT_TOKEN")
	if trustedClientToken == "" {
		return nil, fmt.Errorf("EDGE_TTS_TRUSTED_CLIENT_TOKEN environment variable is required")
	}
	token := p.generateSecMSGec(trustedClientToken)
	version := os.Getenv("EDGE_TTS_SEC_MS_GEC_VERSION")
	if version == "" {
		return nil, fmt.Errorf("EDGE_TTS_SEC_MS_GEC_VERSION environment variable is required")
	}

	edgeBaseURL := os.Getenv("EDGE_TTS_BASE_URL")
	if edgeBaseURL == "" {
		return nil, fmt.Errorf("EDGE_TTS_BASE_URL environment variable is required")
	}

	url := fmt.Sprintf("%s?TrustedClientToken=%s&Sec-MS-GEC=%s&Sec-MS-GEC-Version=%s",
		edgeBaseURL, trustedClientToken, token, version)

	var conn *websocket.Conn
	var dialErr error
	for i := 0; i < 3; i++ {
		var resp *http.Response
		conn, resp, dialErr = websocket.DefaultDialer.DialContext(ctx, url, header)
		if dialErr == nil {
			return conn, nil
		}
		if resp != nil {
			slog.Warn("EdgeTTS: handshake failed", "status", resp.Status, "attempt", i+1)
			switch resp.StatusCode {
			case http.StatusUnauthorized, http.StatusForbidden, http.StatusTooManyRequests:
				// No point retrying; let the caller fall back.
				return nil, tts.NewFatalError(resp.StatusCode, fmt.Sprintf("edge-tts handshake rejected: %s", resp.Status))
			}
		}
		time.Sleep(500 * time.Millisecond)
	}
	return nil, fmt.Errorf("websocket dial failed after retries: %w", dialErr)
}

// generateSecMSGec derives the anti-abuse token: sha256 over the
// current 5-minute window (in Windows file ticks) plus the client
// token, uppercased hex.
func (p *Provider) generateSecMSGec(trustedClientToken string) string {
	nowSec := float64(time.Now().Unix())

	ticks := nowSec + 11644473600
	ticks -= float64(int64(ticks) % 300)
	ticks *= 1e7

	strToHash := fmt.Sprintf("%.0f%s", ticks, trustedClientToken)

	hash := sha256.Sum256([]byte(strToHash))
	return strings.ToUpper(hex.EncodeToString(hash[:]))
}

func (p *Provider) sendConfig(conn *websocket.Conn, withBoundaries bool) error {
	boundary := "false"
	if withBoundaries {
		boundary = "true"
	}
	configMsg := fmt.Sprintf("Content-Type:application/json; charset=utf-8\r\nPath:speech.config\r\n\r\n"+
		`{"context":{"synthesis":{"audio":{"metadataoptions":{"sentenceBoundaryEnabled":"false","wordBoundaryEnabled":"%s"},"outputFormat":"audio-24khz-48kbitrate-mono-mp3"}}}}`,
		boundary)
	if err := conn.WriteMessage(websocket.TextMessage, []byte(configMsg)); err != nil {
		return fmt.Errorf("failed to send speech.config: %w", err)
	}
	return nil
}

func (p *Provider) sendSSML(conn *websocket.Conn, ssml, requestID string) error {
	ssmlMsg := fmt.Sprintf("X-RequestId:%s\r\nContent-Type:application/ssml+xml\r\nPath:ssml\r\n\r\n%s", requestID, ssml)
	if err := conn.WriteMessage(websocket.TextMessage, []byte(ssmlMsg)); err != nil {
		return fmt.Errorf("failed to send ssml: %w", err)
	}
	return nil
}

// consumeResponses drains the stream: binary frames carry audio, text
// frames carry metadata (word boundaries) and the turn.end sentinel.
func (p *Provider) consumeResponses(ctx context.Context, conn *websocket.Conn, file *os.File) ([]tts.WordStamp, error) {
	var words []tts.WordStamp
	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			return nil, fmt.Errorf("read message failed: %w", err)
		}

		switch msgType {
		case websocket.TextMessage:
			msg := string(data)
			if strings.Contains(msg, "Path:audio.metadata") {
				words = append(words, parseBoundaries(metadataBody(msg))...)
			}
			if strings.Contains(msg, "Path:turn.end") {
				return words, nil
			}
		case websocket.BinaryMessage:
			logging.Trace("EdgeTTS: Audio frame", "bytes", len(data))
			if err := p.handleBinaryMessage(data, file); err != nil {
				return nil, err
			}
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
	}
}

func (p *Provider) handleBinaryMessage(data []byte, file *os.File) error {
	if len(data) < 2 {
		return nil
	}
	headerLength := int(uint16(data[0])<<8 | uint16(data[1]))
	if len(data) < 2+headerLength {
		return nil
	}
	audioData := data[2+headerLength:]
	if len(audioData) > 0 {
		if _, err := file.Write(audioData); err != nil {
			return fmt.Errorf("write audio data failed: %w", err)
		}
	}
	return nil
}

// Voices returns a list of high-quality neural voices.
func (p *Provider) Voices(ctx context.Context) ([]tts.Voice, error) {
	return []tts.Voice{
		{ID: "en-US-AvaMultilingualNeural", Name: "Ava (Multilingual)", Language: "en-US", IsNeural: true},
		{ID: "en-US-AndrewMultilingualNeural", Name: "Andrew (Multilingual)", Language: "en-US", IsNeural: true},
		{ID: "en-US-ChristopherNeural", Name: "Christopher (US)", Language: "en-US", IsNeural: true},
		{ID: "en-GB-SoniaNeural", Name: "Sonia (UK)", Language: "en-GB", IsNeural: true},
		{ID: "fr-FR-VivienneNeural", Name: "Vivienne (France)", Language: "fr-FR", IsNeural: true},
		{ID: "de-DE-SeraphinaNeural", Name: "Seraphina (Germany)", Language: "de-DE", IsNeural: true},
	}, nil
}
