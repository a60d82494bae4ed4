package scriptgen

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"google.golang.org/api/iterator"
	"google.golang.org/genai"

	"vsubgo/pkg/logging"
)

const defaultModel = "gemini-2.5-flash-lite"

// Client implements Generator for Google Gemini.
type Client struct {
	genaiClient *genai.Client
	apiKey      string
	modelName   string

	mu sync.RWMutex
}

// NewClient creates a new Gemini client. An empty key is not an error;
// the client stays unconfigured until Configure supplies one.
func NewClient(apiKey, model string) (*Client, error) {
	c := &Client{}
	if err := c.Configure(apiKey, model); err != nil {
		return nil, err
	}
	return c, nil
}

// Configure updates the client with new settings.
func (c *Client) Configure(apiKey, model string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.apiKey = apiKey
	c.modelName = model

	if c.modelName == "" {
		c.modelName = defaultModel
	}

	if c.apiKey == "" {
		// Can't initialize without key.
		c.genaiClient = nil
		return nil
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey: c.apiKey,
	})
	if err != nil {
		return fmt.Errorf("failed to create genai client: %w", err)
	}
	c.genaiClient = client

	// Model validation is lazy: if the key or model is invalid, the first
	// Generate call fails with the API's error.
	return nil
}

// Configured reports whether an API key has been supplied.
func (c *Client) Configured() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.genaiClient != nil
}

// Close cleans up resources.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.genaiClient = nil
}

// Generate sends the script prompt and returns the cleaned response text.
func (c *Client) Generate(ctx context.Context, topic string, sentences int) (string, error) {
	c.mu.RLock()
	client := c.genaiClient
	modelName := c.modelName
	c.mu.RUnlock()

	if client == nil {
		return "", ErrNotConfigured
	}
	if strings.TrimSpace(topic) == "" {
		return "", fmt.Errorf("empty topic")
	}

	prompt := buildPrompt(topic, sentences)

	resp, err := client.Models.GenerateContent(ctx, modelName, genai.Text(prompt), &genai.GenerateContentConfig{})
	if err != nil {
		logExchange(topic, prompt, fmt.Sprintf("ERROR: %v", err))
		return "", fmt.Errorf("generate script: %w", err)
	}

	text, err := responseText(resp)
	if err != nil {
		logExchange(topic, prompt, fmt.Sprintf("TEXT_PARSE_ERROR: %v", err))
		return "", err
	}

	script := cleanScript(text)
	logExchange(topic, prompt, script)
	return script, nil
}

// Models lists the Gemini model names available to the configured key.
func (c *Client) Models(ctx context.Context) ([]string, error) {
	c.mu.RLock()
	client := c.genaiClient
	c.mu.RUnlock()

	if client == nil {
		return nil, ErrNotConfigured
	}

	iter, err := client.Models.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}

	var names []string
	for {
		m, nextErr := iter.Next(ctx)
		if nextErr == iterator.Done {
			break
		}
		if nextErr != nil {
			return nil, fmt.Errorf("list models: %w", nextErr)
		}
		name := strings.TrimPrefix(m.Name, "models/")
		if strings.Contains(strings.ToLower(name), "gemini") {
			names = append(names, name)
		}
	}

	sort.Strings(names)
	return names, nil
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates returned")
	}
	if resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("candidate has no content")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.Text != "" {
			sb.WriteString(part.Text)
		}
	}
	return sb.String(), nil
}

// logExchange records the full prompt and response in the gemini log.
// The logger is file only, so payloads never reach the console.
func logExchange(topic, prompt, response string) {
	logger := logging.GeminiLogger
	if logger == nil {
		return
	}
	logger.Info("Gemini exchange",
		"topic", topic,
		"prompt", prompt,
		"response", response)
}
