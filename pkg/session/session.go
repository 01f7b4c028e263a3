// Package session runs the two extraction actions against a shared table:
// turning input text into a row, and re-deriving a row's original text into
// title/content records.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/xhad/columnar/internal/models"
	"github.com/xhad/columnar/internal/types"
	"github.com/xhad/columnar/pkg/llm"
	"github.com/xhad/columnar/pkg/parser"
	"github.com/xhad/columnar/pkg/prompt"
	"github.com/xhad/columnar/pkg/table"
	"go.uber.org/zap"
)

var (
	ErrEmptyInput      = errors.New("input text is empty")
	ErrNoColumns       = errors.New("no columns configured")
	ErrRowNotFound     = errors.New("row not found")
	ErrNoContentExport = errors.New("no extracted content to export")
)

// Session owns the row table, the pending input text and the content preview.
type Session struct {
	extractor types.Extractor
	columns   types.ColumnProvider
	logger    *zap.Logger

	rows      *table.Table
	rowOp     Operation
	contentOp Operation

	mu         sync.Mutex
	input      string
	preview    []models.ContentRecord
	rawContent string
}

type Option func(*Session)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

func New(extractor types.Extractor, columns types.ColumnProvider, opts ...Option) *Session {
	s := &Session{
		extractor: extractor,
		columns:   columns,
		logger:    zap.NewNop(),
		rows:      table.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) SetInput(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.input = text
}

func (s *Session) Input() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.input
}

// ExtractRow turns the pending input into a new row. The input is cleared
// only on success, so a failed attempt can be retried as is.
func (s *Session) ExtractRow(ctx context.Context) (models.ExtractedRow, error) {
	if err := s.rowOp.Begin(); err != nil {
		return models.ExtractedRow{}, err
	}
	return s.finishRow(s.extractRow(ctx))
}

// ExtractRowText stores text as the input and extracts it as a row. The
// input is replaced only once the row action is acquired, so a request
// rejected with ErrBusy leaves the pending call's input untouched.
func (s *Session) ExtractRowText(ctx context.Context, text string) (models.ExtractedRow, error) {
	if err := s.rowOp.Begin(); err != nil {
		return models.ExtractedRow{}, err
	}
	s.SetInput(text)
	return s.finishRow(s.extractRow(ctx))
}

func (s *Session) finishRow(row models.ExtractedRow, err error) (models.ExtractedRow, error) {
	s.rowOp.Finish(err)
	if err != nil {
		s.logger.Warn("row extraction failed", zap.Error(err))
		return models.ExtractedRow{}, err
	}

	s.logger.Info("row extracted", zap.String("row_id", row.ID), zap.Int("rows", s.rows.Len()))
	return row, nil
}

func (s *Session) extractRow(ctx context.Context) (models.ExtractedRow, error) {
	text := s.Input()
	if text == "" {
		return models.ExtractedRow{}, ErrEmptyInput
	}

	cols, err := s.columns.Columns(ctx)
	if err != nil {
		return models.ExtractedRow{}, fmt.Errorf("failed to load columns: %w", err)
	}
	if len(cols) == 0 {
		return models.ExtractedRow{}, ErrNoColumns
	}

	result, err := s.extractor.Extract(ctx, prompt.BuildExtractionPrompt(text, cols))
	var values []string
	switch {
	case errors.Is(err, llm.ErrNoContent):
		// An absent answer has no values at all.
	case err != nil:
		return models.ExtractedRow{}, llm.AsRemoteCallError(err, llm.OpExtractRow, "")
	default:
		values = table.SplitValues(result)
	}

	row, err := table.NewRow(cols, values, text)
	if err != nil {
		return models.ExtractedRow{}, err
	}
	s.rows.Append(row)

	s.mu.Lock()
	if s.input == text {
		s.input = ""
	}
	s.mu.Unlock()

	return row, nil
}

// ExtractContent re-derives the title/content breakdown of a row's original
// text. The previous preview is discarded before the call.
func (s *Session) ExtractContent(ctx context.Context, rowID string) ([]models.ContentRecord, error) {
	if err := s.contentOp.Begin(); err != nil {
		return nil, err
	}

	records, err := s.extractContent(ctx, rowID)
	s.contentOp.Finish(err)
	if err != nil {
		s.logger.Warn("content extraction failed", zap.String("row_id", rowID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("content extracted", zap.String("row_id", rowID), zap.Int("records", len(records)))
	return records, nil
}

func (s *Session) extractContent(ctx context.Context, rowID string) ([]models.ContentRecord, error) {
	row, ok := s.rows.Get(rowID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRowNotFound, rowID)
	}

	s.mu.Lock()
	s.preview = nil
	s.rawContent = ""
	s.mu.Unlock()

	raw, err := s.extractor.Extract(ctx, prompt.BuildContentPrompt(row.OriginalText))
	if err != nil {
		return nil, llm.AsRemoteCallError(err, llm.OpExtractContent, rowID)
	}

	records := parser.Parse(raw)

	s.mu.Lock()
	s.rawContent = raw
	s.preview = records
	s.mu.Unlock()

	return records, nil
}

func (s *Session) Rows() []models.ExtractedRow {
	return s.rows.Rows()
}

// Preview returns the records of the last content extraction.
func (s *Session) Preview() []models.ContentRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ContentRecord, len(s.preview))
	copy(out, s.preview)
	return out
}

// RawContent returns the unparsed text of the last content extraction.
func (s *Session) RawContent() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rawContent
}

// RowStatus reports the state of the row extraction operation.
func (s *Session) RowStatus() (State, error) {
	return s.rowOp.Status()
}

// ContentStatus reports the state of the content extraction operation.
func (s *Session) ContentStatus() (State, error) {
	return s.contentOp.Status()
}

// ExportRows encodes every row under the currently configured column names.
func (s *Session) ExportRows(ctx context.Context) (string, error) {
	cols, err := s.columns.Columns(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load columns: %w", err)
	}
	return table.EncodeRows(s.rows.Rows(), models.ColumnNames(cols)), nil
}

// ExportContent returns the raw text of the last content extraction verbatim.
func (s *Session) ExportContent() (string, error) {
	raw := s.RawContent()
	if raw == "" {
		return "", ErrNoContentExport
	}
	return raw, nil
}

// Reset clears the input, the rows and the content preview. Pending calls are
// not cancelled.
func (s *Session) Reset() {
	s.mu.Lock()
	s.input = ""
	s.preview = nil
	s.rawContent = ""
	s.mu.Unlock()

	s.rows.Reset()
	s.rowOp.Reset()
	s.contentOp.Reset()
	s.logger.Info("session reset")
}
