package table

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/xhad/columnar/internal/models"
)

// ValidationError reports a model answer whose value count does not match the
// configured columns.
type ValidationError struct {
	Expected int
	Got      int
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("data validation failed: expected %d, got %d values", e.Expected, e.Got)
}

// SplitValues splits a single CSV line from the model into raw values.
func SplitValues(line string) []string {
	return strings.Split(line, ";")
}

// NewRow maps values onto columns by position. The value count must equal the
// column count exactly. Values are trimmed; when two columns share a name the
// later one wins.
func NewRow(columns []models.Column, values []string, originalText string) (models.ExtractedRow, error) {
	if len(values) != len(columns) {
		return models.ExtractedRow{}, &ValidationError{Expected: len(columns), Got: len(values)}
	}

	row := models.ExtractedRow{
		ID:           uuid.NewString(),
		OriginalText: originalText,
		Values:       make(map[string]string, len(columns)),
	}
	for i, col := range columns {
		row.Values[col.Name] = strings.TrimSpace(values[i])
	}
	return row, nil
}
