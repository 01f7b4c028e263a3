package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xhad/columnar/internal/models"
	"github.com/xhad/columnar/pkg/parser"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected []models.ContentRecord
	}{
		{
			name: "multi-line quoted field followed by plain line",
			raw:  "Titre;Contenu\nIntro;\"Hello\nWorld\"\nOutro;Simple line",
			expected: []models.ContentRecord{
				{Titre: "Intro", Contenu: "Hello\nWorld"},
				{Titre: "Outro", Contenu: "Simple line"},
			},
		},
		{
			name:     "empty input",
			raw:      "",
			expected: []models.ContentRecord{},
		},
		{
			name:     "header only",
			raw:      "Titre;Contenu",
			expected: []models.ContentRecord{},
		},
		{
			name: "single-line quoted field is unquoted once",
			raw:  "Titre;Contenu\nObjectifs;\"Apprendre \"Go\"\"",
			expected: []models.ContentRecord{
				{Titre: "Objectifs", Contenu: "Apprendre \"Go\""},
			},
		},
		{
			name: "title and content are trimmed",
			raw:  "Titre;Contenu\n  Public  ;   Développeurs   ",
			expected: []models.ContentRecord{
				{Titre: "Public", Contenu: "Développeurs"},
			},
		},
		{
			name: "only the first delimiter splits",
			raw:  "Titre;Contenu\nPrérequis;a;b;c",
			expected: []models.ContentRecord{
				{Titre: "Prérequis", Contenu: "a;b;c"},
			},
		},
		{
			name: "line without delimiter is dropped",
			raw:  "Titre;Contenu\nnot a record\nA;1\ngarbage\nB;2",
			expected: []models.ContentRecord{
				{Titre: "A", Contenu: "1"},
				{Titre: "B", Contenu: "2"},
			},
		},
		{
			name: "unterminated quoted field is dropped",
			raw:  "Titre;Contenu\nA;1\nB;\"never\nclosed",
			expected: []models.ContentRecord{
				{Titre: "A", Contenu: "1"},
			},
		},
		{
			name: "continuation lines keep their indentation",
			raw:  "Titre;Contenu\nProgramme;\"Jour 1\n    - Bases\n    - Outils\"",
			expected: []models.ContentRecord{
				{Titre: "Programme", Contenu: "Jour 1\n    - Bases\n    - Outils"},
			},
		},
		{
			name: "delimiter inside a quoted continuation is content",
			raw:  "Titre;Contenu\nA;\"x\ny;z\"\nB;w",
			expected: []models.ContentRecord{
				{Titre: "A", Contenu: "x\ny;z"},
				{Titre: "B", Contenu: "w"},
			},
		},
		{
			name: "carriage return line endings",
			raw:  "Titre;Contenu\r\nIntro;\"Hello\r\nWorld\"\r\nOutro;Simple",
			expected: []models.ContentRecord{
				{Titre: "Intro", Contenu: "Hello\nWorld"},
				{Titre: "Outro", Contenu: "Simple"},
			},
		},
		{
			name: "lone quote becomes empty content",
			raw:  "Titre;Contenu\nA;\"",
			expected: []models.ContentRecord{
				{Titre: "A", Contenu: ""},
			},
		},
		{
			name: "empty quoted field",
			raw:  "Titre;Contenu\nA;\"\"",
			expected: []models.ContentRecord{
				{Titre: "A", Contenu: ""},
			},
		},
		{
			name: "blank continuation line is kept",
			raw:  "Titre;Contenu\nA;\"one\n\ntwo\"",
			expected: []models.ContentRecord{
				{Titre: "A", Contenu: "one\n\ntwo"},
			},
		},
		{
			name: "trailing space after closing quote does not close the field",
			raw:  "Titre;Contenu\nA;\"one\ntwo\" \nthree\"",
			expected: []models.ContentRecord{
				{Titre: "A", Contenu: "one\ntwo\" \nthree"},
			},
		},
		{
			name: "header is skipped even when it looks like a record",
			raw:  "X;Y\nA;B",
			expected: []models.ContentRecord{
				{Titre: "A", Contenu: "B"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, parser.Parse(tt.raw))
		})
	}
}

func TestParseIsRestartable(t *testing.T) {
	raw := "Titre;Contenu\nA;\"open"
	assert.Empty(t, parser.Parse(raw))
	assert.Equal(t, []models.ContentRecord{{Titre: "B", Contenu: "c"}}, parser.Parse("Titre;Contenu\nB;c"))
}
