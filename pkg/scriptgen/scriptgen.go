// Package scriptgen drafts narration scripts for new projects.
package scriptgen

import (
	"context"
	"errors"
	"fmt"

	"vsubgo/pkg/config"
)

// ErrNotConfigured is returned when no API key has been supplied.
var ErrNotConfigured = errors.New("script generator not configured")

// Generator produces narration text ready for parsing into a project.
type Generator interface {
	// Generate writes a script about topic with roughly the requested
	// number of sentences.
	Generate(ctx context.Context, topic string, sentences int) (string, error)

	// Models lists the model names available to the configured key.
	Models(ctx context.Context) ([]string, error)
}

// New returns the generator selected by cfg.Provider.
func New(cfg config.LLMConfig) (Generator, error) {
	switch cfg.Provider {
	case "", "gemini":
		return NewClient(cfg.Key, cfg.Model)
	case "mock":
		return NewMock(), nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %q", cfg.Provider)
	}
}
