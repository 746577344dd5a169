package insights

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/pos/backend/internal/infrastructure/config"
)

// ErrDisabled is returned when the insights provider is not configured.
var ErrDisabled = errors.New("insights provider is disabled")

const systemPrompt = "You are a concise retail analyst for a small point-of-sale store. " +
	"Answer in two or three plain sentences without markdown."

// OpenAIProvider generates advisory text through an OpenAI-compatible
// chat-completion endpoint.
type OpenAIProvider struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

// NewOpenAIProvider creates a provider from configuration. A disabled
// configuration yields a provider whose calls fail with ErrDisabled so the
// caller degrades to its fallback text.
func NewOpenAIProvider(cfg *config.InsightsConfig) *OpenAIProvider {
	if !cfg.Enabled || cfg.APIKey == "" {
		return &OpenAIProvider{}
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &OpenAIProvider{
		client:  openai.NewClientWithConfig(clientConfig),
		model:   cfg.Model,
		timeout: cfg.Timeout,
	}
}

// Generate sends the prompt and returns the model's reply text
func (p *OpenAIProvider) Generate(ctx context.Context, prompt string) (string, error) {
	if p.client == nil {
		return "", ErrDisabled
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   300,
		Temperature: 0.4,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
