package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/xhad/columnar/internal/types"
	cfgPkg "github.com/xhad/columnar/pkg/config"
	"github.com/xhad/columnar/pkg/llm"
	"github.com/xhad/columnar/pkg/store"
)

// Version info (injected via ldflags)
var (
	version = "dev"
	commit  = "none"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "columnar",
		Short:         "Turn free-form text into table rows with an LLM",
		Version:       fmt.Sprintf("%s (%s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")

	rootCmd.AddCommand(
		newServeCommand(&configPath),
		newSessionCommand(&configPath),
		newExtractCommand(&configPath),
		newColumnsCommand(&configPath),
	)
	return rootCmd
}

// loadConfig reads and validates the configuration. LLM settings are only
// checked when the command talks to a model.
func loadConfig(path string, needLLM bool) (*cfgPkg.Config, error) {
	cfg, err := cfgPkg.LoadConfig(path)
	if err != nil {
		return nil, err
	}

	var errs []error
	for _, verr := range cfg.Validate() {
		if !needLLM && strings.HasPrefix(verr.Field, "llm.") {
			continue
		}
		errs = append(errs, verr)
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return cfg, nil
}

func newExtractor(cfg *cfgPkg.Config) (types.Extractor, error) {
	extractor, err := llm.New(llm.ChatConfig{
		Provider:    cfg.LLM.Provider,
		Model:       cfg.LLM.Model,
		Temperature: llm.Float(cfg.LLM.Temperature),
		TopP:        llm.Float(cfg.LLM.TopP),
		MaxTokens:   cfg.LLM.MaxTokens,
		BaseURL:     cfg.LLM.BaseURL,
		APIKey:      cfg.LLM.APIKey,
		Timeout:     cfg.LLM.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize extractor: %w", err)
	}
	return extractor, nil
}

// openColumns uses PostgreSQL when a database URL is configured and the JSON
// file store otherwise.
func openColumns(ctx context.Context, cfg *cfgPkg.Config) (types.ColumnStore, error) {
	if cfg.Database.URL != "" {
		s, err := store.NewPostgresStore(ctx, store.PostgresStoreConfig{
			ConnString: cfg.Database.URL,
			TableName:  cfg.Database.TableName,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize column store: %w", err)
		}
		return s, nil
	}

	s, err := store.NewFileStore(cfg.Columns.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize column store: %w", err)
	}
	return s, nil
}
