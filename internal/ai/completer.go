//go:generate mockgen -source completer.go -destination ./mocks/mock_completer.go -package mocks

// Package ai drafts answers with a text-completion service.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/emilythestrangee/devflow/backend/internal/config"
)

// ErrUnavailable is returned when no completion service is configured.
var ErrUnavailable = errors.New("text completion is not configured")

// Completer generates text for a prompt under system instructions.
type Completer interface {
	Generate(ctx context.Context, prompt, system string) (string, error)
}

// OpenAICompleter is a Completer backed by the OpenAI chat completions API.
type OpenAICompleter struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

var _ Completer = (*OpenAICompleter)(nil)

// NewCompleter returns an OpenAI completer, or a completer failing with
// ErrUnavailable when no API key is configured.
func NewCompleter(cfg config.AIConfig) Completer {
	if cfg.APIKey == "" {
		return unavailable{}
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}

	return &OpenAICompleter{
		client:  openai.NewClientWithConfig(clientCfg),
		model:   model,
		timeout: cfg.Timeout,
	}
}

func (o *OpenAICompleter) Generate(ctx context.Context, prompt, system string) (string, error) {
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

type unavailable struct{}

func (unavailable) Generate(context.Context, string, string) (string, error) {
	return "", ErrUnavailable
}
