// Package table holds the accumulated extraction rows and their CSV export.
package table

import (
	"sync"

	"github.com/xhad/columnar/internal/models"
)

// Table is an append-only list of rows. Insertion order is display and export
// order.
type Table struct {
	mu   sync.RWMutex
	rows []models.ExtractedRow
}

func New() *Table {
	return &Table{}
}

func (t *Table) Append(row models.ExtractedRow) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows = append(t.rows, row)
}

// Rows returns a copy of the rows in insertion order.
func (t *Table) Rows() []models.ExtractedRow {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]models.ExtractedRow, len(t.rows))
	copy(out, t.rows)
	return out
}

func (t *Table) Get(id string) (models.ExtractedRow, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, row := range t.rows {
		if row.ID == id {
			return row, true
		}
	}
	return models.ExtractedRow{}, false
}

func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}

func (t *Table) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows = nil
}
