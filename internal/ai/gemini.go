package ai

import (
	"context"

	genai "google.golang.org/genai"

	"github.com/v0xg/crawlgraph/internal/errors"
)

// DefaultGeminiModel is used when no model is configured
const DefaultGeminiModel = "gemini-2.0-flash"

// GeminiProvider implements Provider using the Gemini API
type GeminiProvider struct {
	cli   *genai.Client
	model string
}

// NewGeminiProvider creates a Gemini provider
func NewGeminiProvider(ctx context.Context, apiKey, model string) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, missingKey("GEMINI_API_KEY", "CRAWLGRAPH_GEMINI_KEY")
	}
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create gemini client")
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiProvider{cli: cli, model: model}, nil
}

func (p *GeminiProvider) Name() string { return "gemini:" + p.model }

// Generate sends the prompt as a single user turn and returns the first text part
func (p *GeminiProvider) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := p.cli.Models.GenerateContent(ctx, p.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
		nil,
	)
	if err != nil {
		return "", errors.Wrap(err, "gemini API error")
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", errors.Wrap(ErrEmptyResponse, "gemini")
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}
