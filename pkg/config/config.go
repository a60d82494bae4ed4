package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	DB        DBConfig        `yaml:"db"`
	Paths     PathsConfig     `yaml:"paths"`
	TTS       TTSConfig       `yaml:"tts"`
	Synthesis SynthesisConfig `yaml:"synthesis"`
	Library   LibraryConfig   `yaml:"library"`
	LLM       LLMConfig       `yaml:"llm"`
	Log       LogConfig       `yaml:"log"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Address string `yaml:"address"`
}

// DBConfig holds database settings.
type DBConfig struct {
	Path string `yaml:"path"`
}

// PathsConfig holds working directories.
type PathsConfig struct {
	Work   string `yaml:"work"`   // synthesis scratch space and chunk cache
	Output string `yaml:"output"` // final narration files
	Memes  string `yaml:"memes"`  // image library
	Sounds string `yaml:"sounds"` // sound effect library
}

// EdgeTTSConfig holds settings for Edge TTS.
type EdgeTTSConfig struct {
	VoiceID string `yaml:"voice"` // e.g. "en-US-AvaMultilingualNeural"
}

// SAPIConfig holds settings for Windows SAPI5.
type SAPIConfig struct {
	VoiceID string `yaml:"voice"` // SAPI token ID, empty for system default
}

// TTSConfig holds Text-To-Speech settings.
type TTSConfig struct {
	Engine   string        `yaml:"engine"`
	Fallback bool          `yaml:"fallback"` // switch to SAPI when Edge rejects the session
	EdgeTTS  EdgeTTSConfig `yaml:"edge_tts"`
	SAPI     SAPIConfig    `yaml:"windows_sapi"`
}

// SynthesisConfig holds settings for the narration pipeline.
type SynthesisConfig struct {
	Parallelism int      `yaml:"parallelism"`  // sentences synthesized concurrently
	SentenceGap Duration `yaml:"sentence_gap"` // silence inserted between sentences
	TrimSilence bool     `yaml:"trim_silence"` // strip leading/trailing silence per chunk
}

// LibraryConfig holds asset library settings.
type LibraryConfig struct {
	PollInterval Duration `yaml:"poll_interval"`
}

// LLMConfig holds settings for the script assistant.
type LLMConfig struct {
	Provider string `yaml:"provider"` // "gemini", "mock"
	Model    string `yaml:"model"`    // e.g. "gemini-2.5-flash-lite"
	Key      string `yaml:"key"`      // API Key
}

// LogConfig holds logging settings.
type LogConfig struct {
	Server LogSettings     `yaml:"server"`
	Gemini LogSettings     `yaml:"gemini"`
	TTS    HistorySettings `yaml:"tts"`
}

// LogSettings holds settings for a specific logger.
type LogSettings struct {
	Path  string `yaml:"path"`
	Level string `yaml:"level"`
}

// HistorySettings configures a raw payload log. These have no levels;
// they record every request verbatim or nothing.
type HistorySettings struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// DefaultVoice returns the configured voice ID for the active TTS engine.
func (c *Config) DefaultVoice() string {
	switch c.TTS.Engine {
	case "windows-sapi":
		return c.TTS.SAPI.VoiceID
	default:
		return c.TTS.EdgeTTS.VoiceID
	}
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Address: "localhost:8750",
		},
		DB: DBConfig{
			Path: "./data/vsubgo.db",
		},
		Paths: PathsConfig{
			Work:   "./work",
			Output: "./output",
			Memes:  "./library/memes",
			Sounds: "./library/sounds",
		},
		TTS: TTSConfig{
			Engine:   "edge-tts",
			Fallback: true,
			EdgeTTS: EdgeTTSConfig{
				VoiceID: "en-US-AvaMultilingualNeural",
			},
			SAPI: SAPIConfig{
				VoiceID: "",
			},
		},
		Synthesis: SynthesisConfig{
			Parallelism: 3,
			SentenceGap: Duration(0),
			TrimSilence: true,
		},
		Library: LibraryConfig{
			PollInterval: Duration(2 * time.Second),
		},
		LLM: LLMConfig{
			Provider: "gemini",
			Model:    "gemini-2.5-flash-lite",
			Key:      "",
		},
		Log: LogConfig{
			Server: LogSettings{
				Path:  "./logs/server.log",
				Level: "INFO",
			},
			Gemini: LogSettings{
				Path:  "./logs/gemini.log",
				Level: "INFO",
			},
			TTS: HistorySettings{
				Enabled: true,
				Path:    "./logs/tts.log",
			},
		},
	}
}

// Load loads the configuration from the given path.
// If the file does not exist, it creates it with default values.
// If the file exists, it merges defaults with existing values but does NOT
// save back to disk (to preserve user formatting and comments).
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else {
		if err := Save(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to save config file: %w", err)
		}
	}

	// Load from Env if empty (fallback only, never saved back to disk)
	if cfg.LLM.Key == "" {
		if key := os.Getenv("GEMINI_API_KEY"); key != "" {
			cfg.LLM.Key = key
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.TTS.Engine {
	case "edge-tts", "windows-sapi":
	default:
		return fmt.Errorf("unknown tts engine '%s': must be edge-tts or windows-sapi", c.TTS.Engine)
	}
	if c.Synthesis.Parallelism < 1 {
		return fmt.Errorf("synthesis parallelism must be at least 1, got %d", c.Synthesis.Parallelism)
	}
	if c.Synthesis.SentenceGap < 0 {
		return fmt.Errorf("sentence_gap must not be negative")
	}
	return nil
}

// Save writes the configuration to the path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# vsubgo Configuration
# --------------------
# Durations accept: ns, us, ms, s, m, h, d (day), w (week)

`)
	data = append(header, data...)

	// Inject comments for Enum fields
	reEngine := regexp.MustCompile(`(?m)^(\s+)engine:`)
	data = reEngine.ReplaceAll(data, []byte("${1}# Options: edge-tts, windows-sapi\n${1}engine:"))

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GenerateDefault creates a default config file at the given path.
// Returns nil if the file already exists.
func GenerateDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return Save(path, DefaultConfig())
}
