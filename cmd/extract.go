package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/xhad/columnar/pkg/scraper"
	"github.com/xhad/columnar/pkg/session"
)

func newExtractCommand(configPath *string) *cobra.Command {
	var (
		file       string
		url        string
		content    bool
		output     string
		contentOut string
	)

	cmd := &cobra.Command{
		Use:   "extract [text]",
		Short: "Extract one row from a file, a URL, the arguments or stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			if file != "" && url != "" {
				return errors.New("--file and --url are mutually exclusive")
			}
			cfg, err := loadConfig(*configPath, true)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			s := scraper.NewWithConfig(scraper.ScraperConfig{
				RateLimit: cfg.Scraper.RateLimit,
				Timeout:   cfg.Scraper.Timeout,
			})

			source := file
			if url != "" {
				source = url
			}
			text, err := readInput(ctx, s, source, args, cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}

			extractor, err := newExtractor(cfg)
			if err != nil {
				return err
			}
			columns, err := openColumns(ctx, cfg)
			if err != nil {
				return err
			}
			defer columns.Close()

			sess := session.New(extractor, columns)
			sess.SetInput(text)

			spinner := getSpinner(" Extracting row...")
			row, err := sess.ExtractRow(ctx)
			spinner.Finish()
			fmt.Fprintln(cmd.ErrOrStderr())
			if err != nil {
				printError(err)
				return err
			}

			cols, err := columns.Columns(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderRows(sess.Rows(), cols))

			if output != "" {
				data, err := sess.ExportRows(ctx)
				if err != nil {
					return err
				}
				if err := os.WriteFile(output, []byte(data), 0o644); err != nil {
					return fmt.Errorf("failed to write %s: %w", output, err)
				}
				color.Green("✓ Wrote %s", output)
			}

			if !content && contentOut == "" {
				return nil
			}

			spinner = getSpinner(" Generating content...")
			records, err := sess.ExtractContent(ctx, row.ID)
			spinner.Finish()
			fmt.Fprintln(cmd.ErrOrStderr())
			if err != nil {
				printError(err)
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderRecords(records))

			if contentOut != "" {
				data, err := sess.ExportContent()
				if err != nil {
					return err
				}
				if err := os.WriteFile(contentOut, []byte(data), 0o644); err != nil {
					return fmt.Errorf("failed to write %s: %w", contentOut, err)
				}
				color.Green("✓ Wrote %s", contentOut)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Read input text from a file")
	cmd.Flags().StringVarP(&url, "url", "u", "", "Fetch input text from a URL")
	cmd.Flags().BoolVar(&content, "content", false, "Also generate content records for the row")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the rows CSV to this path")
	cmd.Flags().StringVar(&contentOut, "content-output", "", "Write the content CSV to this path (implies --content)")
	return cmd
}

// readInput loads source through the scraper when set, and otherwise uses
// the arguments or stdin.
func readInput(ctx context.Context, s *scraper.Scraper, source string, args []string, stdin io.Reader) (string, error) {
	switch {
	case source != "":
		return s.Load(ctx, source)
	case len(args) > 0:
		return strings.Join(args, " "), nil
	default:
		b, err := io.ReadAll(stdin)
		return string(b), err
	}
}
