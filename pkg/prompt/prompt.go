// Package prompt builds the two instruction strings sent to the extractor.
//
// Neither builder escapes the user text: delimiters, quotes or instructions
// inside it reach the model untouched.
package prompt

import (
	"fmt"
	"strings"

	"github.com/xhad/columnar/internal/models"
)

// Delimiter separates values in both the request header and the model output.
const Delimiter = ";"

// BuildExtractionPrompt asks for a single CSV line whose values follow the
// order of columns. The rule list and the header list share that order because
// the answer is read back by position.
func BuildExtractionPrompt(text string, columns []models.Column) string {
	rules := make([]string, len(columns))
	for i, col := range columns {
		rules[i] = fmt.Sprintf(`- Column "%s": Should contain "%s".`, col.Name, col.ExtractionRule)
	}
	names := strings.Join(models.ColumnNames(columns), Delimiter)

	return fmt.Sprintf("%s Column Rules: %s. User's Text: --- %s --- CSV Output (headers: %s):",
		ExtractDataPreamble, strings.Join(rules, "\n"), text, names)
}

// BuildContentPrompt asks for the Titre;Contenu breakdown of text.
func BuildContentPrompt(text string) string {
	return fmt.Sprintf("%s --- Text to analyse: --- %s --- CSV Output:", ExtractContentPreamble, text)
}
