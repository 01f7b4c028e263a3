package config

import (
	"fmt"
	"net/url"
	"regexp"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	// Validate LLM config
	switch c.LLM.Provider {
	case "gemini", "openai":
		if c.LLM.APIKey == "" {
			errors = append(errors, ValidationError{
				Field:   "llm.api_key",
				Message: fmt.Sprintf("API key is required for provider %s", c.LLM.Provider),
			})
		}
	case "ollama":
		if c.LLM.BaseURL == "" {
			errors = append(errors, ValidationError{
				Field:   "llm.base_url",
				Message: "Ollama base URL is required",
			})
		}
	default:
		errors = append(errors, ValidationError{
			Field:   "llm.provider",
			Message: fmt.Sprintf("unknown provider %q (want gemini, ollama or openai)", c.LLM.Provider),
		})
	}

	if c.LLM.BaseURL != "" {
		if u, err := url.Parse(c.LLM.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			errors = append(errors, ValidationError{
				Field:   "llm.base_url",
				Message: "invalid base URL",
			})
		}
	}

	if c.LLM.MaxTokens < 0 {
		errors = append(errors, ValidationError{
			Field:   "llm.max_tokens",
			Message: "max_tokens cannot be negative",
		})
	}

	if c.LLM.Temperature < 0 || c.LLM.Temperature > 1 {
		errors = append(errors, ValidationError{
			Field:   "llm.temperature",
			Message: "temperature must be between 0 and 1",
		})
	}

	if c.LLM.TopP < 0 || c.LLM.TopP > 1 {
		errors = append(errors, ValidationError{
			Field:   "llm.top_p",
			Message: "top_p must be between 0 and 1",
		})
	}

	if c.LLM.Timeout < 0 {
		errors = append(errors, ValidationError{
			Field:   "llm.timeout",
			Message: "timeout cannot be negative",
		})
	}

	// Validate Database config
	if c.Database.URL != "" {
		if u, err := url.Parse(c.Database.URL); err != nil || u.Scheme == "" {
			errors = append(errors, ValidationError{
				Field:   "database.url",
				Message: "invalid database URL",
			})
		}
	}

	if !tableNamePattern.MatchString(c.Database.TableName) {
		errors = append(errors, ValidationError{
			Field:   "database.table_name",
			Message: "table_name must be a plain SQL identifier",
		})
	}

	// Validate Server config
	if c.Server.Addr == "" {
		errors = append(errors, ValidationError{
			Field:   "server.addr",
			Message: "addr is required",
		})
	}

	// Validate Scraper config
	if c.Scraper.RateLimit <= 0 {
		errors = append(errors, ValidationError{
			Field:   "scraper.rate_limit",
			Message: "rate_limit must be positive",
		})
	}

	// Validate Export config
	if c.Export.DataFilename == "" || c.Export.ContentFilename == "" {
		errors = append(errors, ValidationError{
			Field:   "export",
			Message: "export filenames cannot be empty",
		})
	}

	return errors
}
