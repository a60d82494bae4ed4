package scriptgen

import (
	"context"
	"fmt"
	"strings"
)

// Mock produces deterministic placeholder scripts without network access.
// Useful for development and for driving the pipeline in tests.
type Mock struct{}

// NewMock creates a mock generator.
func NewMock() *Mock {
	return &Mock{}
}

// Generate returns a fixed script of the requested length.
func (m *Mock) Generate(_ context.Context, topic string, sentences int) (string, error) {
	if sentences <= 0 {
		sentences = defaultSentences
	}
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return "", fmt.Errorf("empty topic")
	}

	lines := make([]string, sentences)
	for i := range lines {
		lines[i] = fmt.Sprintf("Placeholder sentence %d about %s.", i+1, topic)
	}
	return strings.Join(lines, "\n"), nil
}

// Models returns a single placeholder entry.
func (m *Mock) Models(_ context.Context) ([]string, error) {
	return []string{"mock"}, nil
}
