package types

import (
	"context"

	"github.com/xhad/columnar/internal/models"
)

// Core interfaces
type Extractor interface {
	Extract(ctx context.Context, prompt string) (string, error)
}

type ColumnProvider interface {
	Columns(ctx context.Context) ([]models.Column, error)
}

type ColumnStore interface {
	ColumnProvider
	AddColumn(ctx context.Context, name, rule string) (models.Column, error)
	UpdateColumn(ctx context.Context, col models.Column) error
	DeleteColumn(ctx context.Context, id string) error
	Close()
}

// ExtractorFunc adapts a plain function to the Extractor interface.
type ExtractorFunc func(ctx context.Context, prompt string) (string, error)

func (f ExtractorFunc) Extract(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// StaticColumns is a fixed, read-only ColumnProvider.
type StaticColumns []models.Column

func (s StaticColumns) Columns(context.Context) ([]models.Column, error) {
	out := make([]models.Column, len(s))
	copy(out, s)
	return out, nil
}
