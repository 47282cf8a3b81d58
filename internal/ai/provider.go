// Package ai asks a generative text service for black-box test cases for a
// page's testable components.
package ai

import (
	"context"

	"github.com/v0xg/crawlgraph/internal/config"
	"github.com/v0xg/crawlgraph/internal/errors"
)

// Provider sends a prompt to a text generation service
type Provider interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// ErrMissingKey is returned when a provider has no API key configured
var ErrMissingKey = errors.New("missing API key")

// ErrEmptyResponse is returned when a service answers without text
var ErrEmptyResponse = errors.New("empty response")

// NewProvider creates a provider by name using the keys and model in cfg
func NewProvider(ctx context.Context, cfg config.AIConfig) (Provider, error) {
	switch cfg.Provider {
	case "gemini", "google", "":
		return NewGeminiProvider(ctx, cfg.GeminiKey, cfg.Model)
	case "claude", "anthropic":
		return NewClaudeProvider(cfg.AnthropicKey, cfg.Model)
	case "openai", "gpt":
		return NewOpenAIProvider(cfg.OpenAIKey, cfg.Model)
	default:
		return nil, errors.WithHint(
			errors.Newf("unknown provider: %s", cfg.Provider),
			"supported providers: gemini, claude, openai")
	}
}

func missingKey(envs ...string) error {
	hint := "set " + envs[0]
	for _, e := range envs[1:] {
		hint += " or " + e
	}
	return errors.WithHint(errors.WithStack(ErrMissingKey), hint)
}
