package table

import (
	"strings"

	"github.com/xhad/columnar/internal/models"
)

const (
	// ContentType is the MIME type of both exported files.
	ContentType = "text/csv;charset=utf-8"

	DataFilename    = "extracted_data.csv"
	ContentFilename = "extracted_content.csv"
)

// EncodeRows renders rows as semicolon-delimited text: a header of column
// names, then one line per row with every value wrapped in double quotes.
// Quotes and delimiters inside values are not escaped.
func EncodeRows(rows []models.ExtractedRow, columnNames []string) string {
	var b strings.Builder
	b.WriteString(strings.Join(columnNames, ";"))
	b.WriteString("\n")

	fields := make([]string, len(columnNames))
	for i, row := range rows {
		if i > 0 {
			b.WriteString("\n")
		}
		for j, name := range columnNames {
			fields[j] = `"` + row.Value(name) + `"`
		}
		b.WriteString(strings.Join(fields, ";"))
	}
	return b.String()
}
