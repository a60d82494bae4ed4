package synth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// audioProcessor abstracts the ffmpeg operations so the pipeline can be
// tested without the binary installed.
type audioProcessor interface {
	TrimSilence(path string) error
	Concat(files []string, out string) error
	DurationMS(path string) (int64, error)
	WriteSilence(ms int64, format, out string) error
}

// trimFilter strips silence from both ends: remove leading silence,
// reverse, remove leading silence again, reverse back.
const trimFilter = "silenceremove=start_periods=1:start_silence=0.01:start_threshold=-30dB," +
	"areverse," +
	"silenceremove=start_periods=1:start_silence=0.01:start_threshold=-30dB," +
	"areverse"

type ffmpegProcessor struct{}

func (ffmpegProcessor) TrimSilence(path string) error {
	ext := filepath.Ext(path)
	tmp := path[:len(path)-len(ext)] + ".trim" + ext

	err := ffmpeg.Input(path).
		Output(tmp, ffmpeg.KwArgs{"af": trimFilter}).
		OverWriteOutput().
		Run()
	if err != nil {
		return fmt.Errorf("silence trim failed: %w", err)
	}
	return os.Rename(tmp, path)
}

func (ffmpegProcessor) Concat(files []string, out string) error {
	list, err := os.CreateTemp(filepath.Dir(out), "concat-*.txt")
	if err != nil {
		return fmt.Errorf("failed to create concat list: %w", err)
	}
	defer os.Remove(list.Name())

	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			abs = f
		}
		// The concat demuxer wants forward slashes even on Windows.
		fmt.Fprintf(list, "file '%s'\n", filepath.ToSlash(abs))
	}
	if err := list.Close(); err != nil {
		return err
	}

	err = ffmpeg.Input(list.Name(), ffmpeg.KwArgs{"f": "concat", "safe": 0}).
		Output(out, ffmpeg.KwArgs{"c": "copy"}).
		OverWriteOutput().
		Run()
	if err != nil {
		return fmt.Errorf("concat failed: %w", err)
	}
	return nil
}

func (ffmpegProcessor) DurationMS(path string) (int64, error) {
	data, err := ffmpeg.Probe(path)
	if err != nil {
		return 0, fmt.Errorf("ffprobe failed: %w", err)
	}

	var probe struct {
		Format struct {
			Duration string `json:"duration"`
		} `json:"format"`
	}
	if err := json.Unmarshal([]byte(data), &probe); err != nil {
		return 0, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	var seconds float64
	if _, err := fmt.Sscanf(probe.Format.Duration, "%f", &seconds); err != nil {
		return 0, fmt.Errorf("failed to parse duration %q: %w", probe.Format.Duration, err)
	}
	return int64(seconds * 1000), nil
}

func (ffmpegProcessor) WriteSilence(ms int64, format, out string) error {
	kwargs := ffmpeg.KwArgs{}
	switch format {
	case "wav":
		kwargs["acodec"] = "pcm_s16le"
		kwargs["ar"] = 22050
	default:
		kwargs["acodec"] = "libmp3lame"
		kwargs["b:a"] = "48k"
	}

	err := ffmpeg.Input("anullsrc=channel_layout=mono:sample_rate=24000",
		ffmpeg.KwArgs{"f": "lavfi", "t": fmt.Sprintf("%.3f", float64(ms)/1000)}).
		Output(out, kwargs).
		OverWriteOutput().
		Run()
	if err != nil {
		return fmt.Errorf("failed to render silence: %w", err)
	}
	return nil
}
