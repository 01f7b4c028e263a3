package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/xhad/columnar/internal/types"
)

const (
	ProviderGemini = "gemini"
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
)

// ChatConfig represents the configuration for an extractor.
type ChatConfig struct {
	Provider    string
	Model       string
	Temperature *float64 // nil selects the default; 0 is a valid setting
	TopP        *float64
	MaxTokens   int
	BaseURL     string // Ollama server URL or OpenAI-compatible endpoint
	APIKey      string
	Timeout     time.Duration
}

// ChatEngine sends prompts to an LLM through langchaingo.
type ChatEngine struct {
	config ChatConfig
	llm    llms.Model
}

// New returns the extractor for config.Provider.
func New(config ChatConfig) (types.Extractor, error) {
	switch config.Provider {
	case ProviderGemini, "":
		return NewGemini(config)
	case ProviderOllama, ProviderOpenAI:
		return NewWithConfig(config)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", config.Provider)
	}
}

// NewWithConfig creates a new ChatEngine with the given configuration.
func NewWithConfig(config ChatConfig) (*ChatEngine, error) {
	if config.Provider == "" {
		config.Provider = ProviderOllama
	}
	if err := applyDefaults(&config); err != nil {
		return nil, err
	}

	var (
		model llms.Model
		err   error
	)
	switch config.Provider {
	case ProviderOllama:
		if config.Model == "" {
			config.Model = "mistral" // Default Ollama model
		}
		if config.BaseURL == "" {
			config.BaseURL = "http://localhost:11434" // Default Ollama URL
		}
		model, err = ollama.New(ollama.WithModel(config.Model),
			ollama.WithServerURL(config.BaseURL))
	case ProviderOpenAI:
		if config.Model == "" {
			config.Model = "gpt-4o-mini"
		}
		opts := []openai.Option{openai.WithModel(config.Model), openai.WithToken(config.APIKey)}
		if config.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(config.BaseURL))
		}
		model, err = openai.New(opts...)
	default:
		return nil, fmt.Errorf("provider %q is not served by langchaingo", config.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM: %w", err)
	}

	return newChatEngine(config, model), nil
}

func newChatEngine(config ChatConfig, model llms.Model) *ChatEngine {
	return &ChatEngine{
		config: config,
		llm:    model,
	}
}

const (
	defaultTemperature = 0.1
	defaultTopP        = 0.9
)

// Float returns a pointer to v, for the optional ChatConfig fields.
func Float(v float64) *float64 {
	return &v
}

func applyDefaults(config *ChatConfig) error {
	if config.Temperature == nil {
		config.Temperature = Float(defaultTemperature)
	} else if t := *config.Temperature; t < 0 || t > 1 {
		return fmt.Errorf("temperature must be between 0 and 1")
	} else {
		config.Temperature = Float(t)
	}
	if config.TopP == nil {
		config.TopP = Float(defaultTopP)
	} else if p := *config.TopP; p < 0 || p > 1 {
		return fmt.Errorf("top_p must be between 0 and 1")
	} else {
		config.TopP = Float(p)
	}
	if config.MaxTokens < 0 {
		return fmt.Errorf("max tokens cannot be negative")
	}
	return nil
}

// Extract sends prompt as a single user message and returns the first choice.
func (ce *ChatEngine) Extract(ctx context.Context, prompt string) (string, error) {
	if ce.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, ce.config.Timeout)
		defer cancel()
	}

	content := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	}
	var opts []llms.CallOption
	if ce.config.Temperature != nil {
		opts = append(opts, llms.WithTemperature(*ce.config.Temperature))
	}
	if ce.config.TopP != nil {
		opts = append(opts, llms.WithTopP(*ce.config.TopP))
	}
	if ce.config.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(ce.config.MaxTokens))
	}

	response, err := ce.llm.GenerateContent(ctx, content, opts...)
	if err != nil {
		return "", providerError(ce.config.Provider, err)
	}
	if response == nil || len(response.Choices) == 0 || response.Choices[0] == nil {
		return "", ErrNoContent
	}

	return response.Choices[0].Content, nil
}

// Config returns the effective configuration after defaults.
func (ce *ChatEngine) Config() ChatConfig {
	return ce.config
}
