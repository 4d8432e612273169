package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	log "github.com/sirupsen/logrus"
)

// ErrNotConfigured is returned by Generate when no API key was provided.
var ErrNotConfigured = errors.New("text generation API key is not configured")

// Config selects the OpenAI-compatible endpoint used for generation.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

// Client sends a single prompt and returns the generated text.
type Client struct {
	openai     openai.Client
	model      string
	configured bool
}

func New(cfg Config) *Client {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}

	return &Client{
		openai:     openai.NewClient(opts...),
		model:      model,
		configured: cfg.APIKey != "",
	}
}

func (c *Client) Model() string {
	return c.model
}

// Generate sends prompt as a single user message with the given temperature.
func (c *Client) Generate(ctx context.Context, prompt string, temperature float64) (string, error) {
	if !c.configured {
		return "", ErrNotConfigured
	}

	start := time.Now()
	resp, err := c.openai.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(temperature),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no choices in response")
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", errors.New("empty response from model")
	}

	log.WithFields(log.Fields{
		"model":             c.model,
		"duration_ms":       time.Since(start).Milliseconds(),
		"prompt_tokens":     resp.Usage.PromptTokens,
		"completion_tokens": resp.Usage.CompletionTokens,
	}).Debug("text generation completed")

	return text, nil
}
