package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	LLM struct {
		Provider    string        `yaml:"provider"`
		BaseURL     string        `yaml:"base_url"`
		Model       string        `yaml:"model"`
		APIKey      string        `yaml:"api_key"`
		MaxTokens   int           `yaml:"max_tokens"`
		Temperature float64       `yaml:"temperature"`
		TopP        float64       `yaml:"top_p"`
		Timeout     time.Duration `yaml:"timeout"`
	} `yaml:"llm"`

	Database struct {
		URL       string `yaml:"url"`
		TableName string `yaml:"table_name"`
	} `yaml:"database"`

	Columns struct {
		Path string `yaml:"path"`
	} `yaml:"columns"`

	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`

	Scraper struct {
		RateLimit float64       `yaml:"rate_limit"`
		Timeout   time.Duration `yaml:"timeout"`
	} `yaml:"scraper"`

	Export struct {
		DataFilename    string `yaml:"data_filename"`
		ContentFilename string `yaml:"content_filename"`
	} `yaml:"export"`
}

func LoadConfig(path string) (*Config, error) {
	// If no path provided, try default locations
	if path == "" {
		locations := []string{
			"columnar.yaml",
			"config.yaml",
			"config.yml",
			filepath.Join(os.Getenv("HOME"), ".config/columnar/config.yaml"),
			"/etc/columnar/config.yaml",
		}

		for _, loc := range locations {
			if _, err := os.Stat(loc); err == nil {
				path = loc
				break
			}
		}
	}

	if path == "" {
		return getDefaultConfig()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	config := newConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	// Merge with environment variables
	mergeWithEnv(config)

	// Apply defaults for unset values
	applyDefaults(config)

	return config, nil
}

// newConfig seeds the settings where zero is a meaningful value, so the YAML
// decode only overrides them when the keys are present.
func newConfig() *Config {
	config := &Config{}
	config.LLM.Temperature = 0.1
	config.LLM.TopP = 0.9
	return config
}

func getDefaultConfig() (*Config, error) {
	config := newConfig()
	mergeWithEnv(config)
	applyDefaults(config)
	return config, nil
}

func applyDefaults(config *Config) {
	if config.LLM.Provider == "" {
		config.LLM.Provider = "gemini"
	}
	if config.LLM.Model == "" {
		switch config.LLM.Provider {
		case "gemini":
			config.LLM.Model = "gemini-2.5-flash"
		case "ollama":
			config.LLM.Model = "mistral"
		case "openai":
			config.LLM.Model = "gpt-4o-mini"
		}
	}
	if config.LLM.BaseURL == "" && config.LLM.Provider == "ollama" {
		config.LLM.BaseURL = "http://localhost:11434"
	}
	if config.LLM.Timeout == 0 {
		config.LLM.Timeout = 2 * time.Minute
	}

	if config.Database.TableName == "" {
		config.Database.TableName = "columns"
	}

	if config.Server.Addr == "" {
		config.Server.Addr = ":8080"
	}

	if config.Scraper.RateLimit == 0 {
		config.Scraper.RateLimit = 2.0
	}
	if config.Scraper.Timeout == 0 {
		config.Scraper.Timeout = 30 * time.Second
	}

	if config.Export.DataFilename == "" {
		config.Export.DataFilename = "extracted_data.csv"
	}
	if config.Export.ContentFilename == "" {
		config.Export.ContentFilename = "extracted_content.csv"
	}
}

func mergeWithEnv(config *Config) {
	if config.LLM.APIKey == "" {
		switch config.LLM.Provider {
		case "openai":
			config.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		case "gemini", "":
			config.LLM.APIKey = os.Getenv("GEMINI_API_KEY")
		}
	}
	if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" && config.LLM.Provider == "ollama" {
		config.LLM.BaseURL = baseURL
	}
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		config.Database.URL = dbURL
	}
	if addr := os.Getenv("COLUMNAR_ADDR"); addr != "" {
		config.Server.Addr = addr
	}
}
