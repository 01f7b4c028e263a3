// Package store persists the column configuration.
package store

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/xhad/columnar/internal/models"
)

// ErrColumnNotFound is returned when an update or delete names an unknown id.
var ErrColumnNotFound = errors.New("column not found")

func newColumn(name, rule string) models.Column {
	return normalize(models.Column{ID: uuid.NewString(), Name: name, ExtractionRule: rule})
}

// normalize trims the user-entered fields of col.
func normalize(col models.Column) models.Column {
	col.Name = strings.TrimSpace(col.Name)
	col.ExtractionRule = strings.TrimSpace(col.ExtractionRule)
	return col
}

func indexOf(cols []models.Column, id string) int {
	for i, col := range cols {
		if col.ID == id {
			return i
		}
	}
	return -1
}
