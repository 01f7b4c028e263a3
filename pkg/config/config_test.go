package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	// Create temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configData := `
llm:
  provider: "ollama"
  base_url: "http://localhost:11434"
  model: "llama3"
  max_tokens: 1000
  temperature: 0.2
  top_p: 0.8
  timeout: 45s

database:
  url: "postgres://localhost:5432/test"
  table_name: "test_columns"

columns:
  path: "/tmp/columns.json"

server:
  addr: ":9090"

scraper:
  rate_limit: 1.5
  timeout: 10s
`
	err := os.WriteFile(configPath, []byte(configData), 0644)
	require.NoError(t, err)

	t.Setenv("OLLAMA_BASE_URL", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("COLUMNAR_ADDR", "")

	// Test loading config
	config, err := LoadConfig(configPath)
	require.NoError(t, err)

	// Verify loaded values
	assert.Equal(t, "ollama", config.LLM.Provider)
	assert.Equal(t, "http://localhost:11434", config.LLM.BaseURL)
	assert.Equal(t, "llama3", config.LLM.Model)
	assert.Equal(t, 1000, config.LLM.MaxTokens)
	assert.Equal(t, 0.2, config.LLM.Temperature)
	assert.Equal(t, 0.8, config.LLM.TopP)
	assert.Equal(t, 45*time.Second, config.LLM.Timeout)
	assert.Equal(t, "postgres://localhost:5432/test", config.Database.URL)
	assert.Equal(t, "test_columns", config.Database.TableName)
	assert.Equal(t, "/tmp/columns.json", config.Columns.Path)
	assert.Equal(t, ":9090", config.Server.Addr)
	assert.Equal(t, 1.5, config.Scraper.RateLimit)
	assert.Equal(t, 10*time.Second, config.Scraper.Timeout)
	assert.Equal(t, "extracted_data.csv", config.Export.DataFilename)
	assert.Equal(t, "extracted_content.csv", config.Export.ContentFilename)
	assert.Empty(t, config.Validate())
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadConfigBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("llm: [unclosed"), 0644))

	_, err := LoadConfig(path)
	assert.ErrorContains(t, err, "error parsing config file")
}

func TestDefaultConfig(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("COLUMNAR_ADDR", "")

	config, err := getDefaultConfig()
	require.NoError(t, err)

	assert.Equal(t, "gemini", config.LLM.Provider)
	assert.Equal(t, "gemini-2.5-flash", config.LLM.Model)
	assert.Equal(t, "test-key", config.LLM.APIKey)
	assert.Equal(t, 0.1, config.LLM.Temperature)
	assert.Equal(t, 0.9, config.LLM.TopP)
	assert.Equal(t, ":8080", config.Server.Addr)
	assert.Empty(t, config.Validate())
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name          string
		mutate        func(c *Config)
		errorMessages []string
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name: "missing api key",
			mutate: func(c *Config) {
				c.LLM.APIKey = ""
			},
			errorMessages: []string{"llm.api_key: API key is required for provider gemini"},
		},
		{
			name: "unknown provider",
			mutate: func(c *Config) {
				c.LLM.Provider = "bard"
			},
			errorMessages: []string{"llm.provider: unknown provider"},
		},
		{
			name: "invalid values",
			mutate: func(c *Config) {
				c.LLM.BaseURL = "invalid-url"
				c.LLM.MaxTokens = -5
				c.LLM.Temperature = 3.0
				c.LLM.TopP = 1.5
				c.Database.URL = "invalid-url"
				c.Database.TableName = "columns; drop"
				c.Scraper.RateLimit = 0
			},
			errorMessages: []string{
				"llm.base_url: invalid base URL",
				"llm.max_tokens: max_tokens cannot be negative",
				"llm.temperature: temperature must be between 0 and 1",
				"llm.top_p: top_p must be between 0 and 1",
				"database.url: invalid database URL",
				"database.table_name: table_name must be a plain SQL identifier",
				"scraper.rate_limit: rate_limit must be positive",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &Config{}
			config.LLM.APIKey = "key"
			applyDefaults(config)
			tt.mutate(config)

			errors := config.Validate()
			assert.Len(t, errors, len(tt.errorMessages))
			for i, msg := range tt.errorMessages {
				assert.Contains(t, errors[i].Error(), msg)
			}
		})
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("OLLAMA_BASE_URL", "http://env-ollama:11434")
	t.Setenv("DATABASE_URL", "postgres://env-db:5432/test")
	t.Setenv("COLUMNAR_ADDR", ":7000")
	t.Setenv("OPENAI_API_KEY", "sk-env")

	config := &Config{}
	config.LLM.Provider = "ollama"
	mergeWithEnv(config)

	assert.Equal(t, "http://env-ollama:11434", config.LLM.BaseURL)
	assert.Equal(t, "postgres://env-db:5432/test", config.Database.URL)
	assert.Equal(t, ":7000", config.Server.Addr)

	config = &Config{}
	config.LLM.Provider = "openai"
	mergeWithEnv(config)
	assert.Equal(t, "sk-env", config.LLM.APIKey)
}

func TestLoadConfigKeepsZeroSampling(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("COLUMNAR_ADDR", "")

	dir := t.TempDir()
	zero := filepath.Join(dir, "zero.yaml")
	require.NoError(t, os.WriteFile(zero, []byte("llm:\n  temperature: 0\n  top_p: 0\n"), 0644))

	config, err := LoadConfig(zero)
	require.NoError(t, err)
	assert.Equal(t, 0.0, config.LLM.Temperature)
	assert.Equal(t, 0.0, config.LLM.TopP)
	assert.Empty(t, config.Validate())

	absent := filepath.Join(dir, "absent.yaml")
	require.NoError(t, os.WriteFile(absent, []byte("llm:\n  model: gemini-2.5-pro\n"), 0644))

	config, err = LoadConfig(absent)
	require.NoError(t, err)
	assert.Equal(t, 0.1, config.LLM.Temperature)
	assert.Equal(t, 0.9, config.LLM.TopP)
}
