// Package parser reads back the Titre;Contenu text produced by a content
// extraction. The format is one record per line, except that a quoted
// content field may run over several physical lines.
//
// The generator is an LLM and is not guaranteed to quote correctly, so the
// parser never fails: lines without a delimiter are dropped, and a quoted
// field that is still open at the end of the input is discarded.
package parser

import (
	"strings"

	"github.com/xhad/columnar/internal/models"
)

const (
	delimiter = ";"
	quote     = `"`
)

// Parse returns the records of raw in line order. The first line is the
// header and is always skipped.
func Parse(raw string) []models.ContentRecord {
	lines := splitLines(raw)
	records := make([]models.ContentRecord, 0, len(lines))
	if len(lines) < 2 {
		return records
	}

	var (
		insideQuoted bool
		title        string
		content      strings.Builder
	)

	for _, line := range lines[1:] {
		if insideQuoted {
			content.WriteString("\n")
			content.WriteString(line)

			if strings.HasSuffix(line, quote) {
				insideQuoted = false
				records = append(records, models.ContentRecord{
					Titre:   title,
					Contenu: strings.TrimSuffix(content.String(), quote),
				})
				content.Reset()
			}
			continue
		}

		sep := strings.Index(line, delimiter)
		if sep == -1 {
			continue
		}

		title = strings.TrimSpace(line[:sep])
		value := strings.TrimSpace(line[sep+1:])

		startsQuoted := strings.HasPrefix(value, quote)
		endsQuoted := strings.HasSuffix(value, quote)

		if startsQuoted && !endsQuoted {
			insideQuoted = true
			content.Reset()
			content.WriteString(value[len(quote):])
			continue
		}

		if startsQuoted && endsQuoted {
			value = unquote(value)
		}

		records = append(records, models.ContentRecord{Titre: title, Contenu: value})
	}

	return records
}

// unquote strips one leading and one trailing quote. A value made of a single
// quote character counts as both and becomes empty.
func unquote(value string) string {
	if len(value) < 2*len(quote) {
		return ""
	}
	return value[len(quote) : len(value)-len(quote)]
}

// splitLines splits on "\n" and "\r\n".
func splitLines(raw string) []string {
	lines := strings.Split(raw, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
