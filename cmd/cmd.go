package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/xhad/columnar/internal/models"
	"github.com/xhad/columnar/internal/types"
	"github.com/xhad/columnar/pkg/scraper"
	"github.com/xhad/columnar/pkg/session"
)

var urlRegex = regexp.MustCompile(`^https?://[^\s]+$`)

type command struct {
	name string
	arg  string
}

// parseCommand recognises ":name arg" lines and the bare "exit" keyword.
func parseCommand(line string) (command, bool) {
	line = strings.TrimSpace(line)
	if strings.EqualFold(line, "exit") {
		return command{name: "exit"}, true
	}
	if !strings.HasPrefix(line, ":") {
		return command{}, false
	}
	name, arg, _ := strings.Cut(strings.TrimPrefix(line, ":"), " ")
	return command{name: strings.ToLower(name), arg: strings.TrimSpace(arg)}, true
}

// readParagraph collects lines until an empty line or EOF. A first line that
// is a command is returned on its own.
func readParagraph(scanner *bufio.Scanner) (string, *command, bool) {
	var lines []string
	for scanner.Scan() {
		line := scanner.Text()
		if len(lines) == 0 {
			if cmd, ok := parseCommand(line); ok {
				return "", &cmd, true
			}
			if strings.TrimSpace(line) == "" {
				continue
			}
		}
		if strings.TrimSpace(line) == "" {
			return strings.Join(lines, "\n"), nil, true
		}
		lines = append(lines, line)
	}
	if len(lines) > 0 {
		return strings.Join(lines, "\n"), nil, true
	}
	return "", nil, false
}

func getSpinner(description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(color.CyanString(description)),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetWidth(20),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetRenderBlankState(true),
	)
}

func newSessionCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "session",
		Short: "Interactive extraction session",
		Long: `Each paragraph you enter (terminated by an empty line) becomes a row.

Commands:
  :rows                  list extracted rows
  :columns               list configured columns
  :content <n>           generate content records for row n
  :export [path]         write the rows CSV
  :export-content [path] write the last content CSV
  :reset                 clear rows and content
  exit                   quit`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath, true)
			if err != nil {
				return err
			}
			extractor, err := newExtractor(cfg)
			if err != nil {
				return err
			}
			columns, err := openColumns(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer columns.Close()

			sess := session.New(extractor, columns)
			r := &repl{
				session: sess,
				columns: columns,
				scraper: scraper.NewWithConfig(scraper.ScraperConfig{
					RateLimit: cfg.Scraper.RateLimit,
					Timeout:   cfg.Scraper.Timeout,
				}),
				dataFile:    cfg.Export.DataFilename,
				contentFile: cfg.Export.ContentFilename,
				out:         cmd.OutOrStdout(),
			}
			return r.run(cmd.Context(), cmd.InOrStdin())
		},
	}
}

type repl struct {
	session     *session.Session
	columns     types.ColumnProvider
	scraper     *scraper.Scraper
	dataFile    string
	contentFile string
	out         io.Writer
}

func (r *repl) run(ctx context.Context, in io.Reader) error {
	color.Cyan("\nColumnar session (enter a paragraph followed by an empty line, 'exit' to quit)")

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	userPrompt := color.New(color.FgGreen).PrintfFunc()

	for {
		userPrompt("\nText: ")
		text, cmd, ok := readParagraph(scanner)
		if !ok {
			return scanner.Err()
		}
		if cmd != nil {
			if cmd.name == "exit" || cmd.name == "quit" {
				return nil
			}
			if err := r.dispatch(ctx, *cmd); err != nil {
				printError(err)
			}
			continue
		}

		if url := strings.TrimSpace(text); urlRegex.MatchString(url) {
			color.Blue("\nDetected URL: %s", url)
			spinner := getSpinner(" Fetching page...")
			page, err := r.scraper.Fetch(ctx, url)
			spinner.Finish()
			if err != nil {
				color.Red("\nFailed to fetch URL: %v", err)
				continue
			}
			text = page
		}
		r.session.SetInput(text)

		spinner := getSpinner(" Extracting row...")
		row, err := r.session.ExtractRow(ctx)
		spinner.Finish()
		fmt.Fprintln(r.out)
		if err != nil {
			printError(err)
			continue
		}
		color.Green("✓ Row %d added", len(r.session.Rows()))
		cols, err := r.columns.Columns(ctx)
		if err != nil {
			printError(err)
			continue
		}
		fmt.Fprintln(r.out, renderRows([]models.ExtractedRow{row}, cols))
	}
}

func (r *repl) dispatch(ctx context.Context, cmd command) error {
	switch cmd.name {
	case "rows":
		cols, err := r.columns.Columns(ctx)
		if err != nil {
			return err
		}
		rows := r.session.Rows()
		if len(rows) == 0 {
			color.Yellow("No rows yet")
			return nil
		}
		fmt.Fprintln(r.out, renderRows(rows, cols))
	case "columns":
		cols, err := r.columns.Columns(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(r.out, renderColumns(cols))
	case "content":
		n, err := strconv.Atoi(cmd.arg)
		rows := r.session.Rows()
		if err != nil || n < 1 || n > len(rows) {
			return fmt.Errorf("usage: :content <n> with 1 <= n <= %d", len(rows))
		}
		spinner := getSpinner(" Generating content...")
		records, err := r.session.ExtractContent(ctx, rows[n-1].ID)
		spinner.Finish()
		fmt.Fprintln(r.out)
		if err != nil {
			return err
		}
		color.Green("✓ %d records", len(records))
		fmt.Fprintln(r.out, renderRecords(records))
	case "export":
		data, err := r.session.ExportRows(ctx)
		if err != nil {
			return err
		}
		return r.write(orDefault(cmd.arg, r.dataFile), data)
	case "export-content":
		data, err := r.session.ExportContent()
		if err != nil {
			return err
		}
		return r.write(orDefault(cmd.arg, r.contentFile), data)
	case "reset":
		r.session.Reset()
		color.Green("✓ Session cleared")
	default:
		return fmt.Errorf("unknown command %q", ":"+cmd.name)
	}
	return nil
}

func (r *repl) write(path, data string) error {
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	color.Green("✓ Wrote %s", path)
	return nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
