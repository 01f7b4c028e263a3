package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiExtractor calls the Gemini API directly through the genai SDK.
type GeminiExtractor struct {
	config ChatConfig
	client *genai.Client
}

// NewGemini creates a Gemini extractor. An API key is required.
func NewGemini(config ChatConfig) (*GeminiExtractor, error) {
	config.Provider = ProviderGemini
	if config.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if config.Model == "" {
		config.Model = "gemini-2.5-flash"
	}
	if err := applyDefaults(&config); err != nil {
		return nil, err
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GeminiExtractor{config: config, client: client}, nil
}

func (g *GeminiExtractor) Extract(ctx context.Context, prompt string) (string, error) {
	if g.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.config.Timeout)
		defer cancel()
	}

	genConfig := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(*g.config.Temperature)),
		TopP:        genai.Ptr(float32(*g.config.TopP)),
	}
	if g.config.MaxTokens > 0 {
		genConfig.MaxOutputTokens = int32(g.config.MaxTokens)
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.config.Model, genai.Text(prompt), genConfig)
	if err != nil {
		return "", providerError("Gemini API", err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", ErrNoContent
	}

	return resp.Text(), nil
}

func (g *GeminiExtractor) Config() ChatConfig {
	return g.config
}
