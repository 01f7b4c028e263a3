package main

import (
	"errors"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"
	"github.com/fatih/color"
	"github.com/xhad/columnar/internal/models"
	"github.com/xhad/columnar/pkg/llm"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func newTable(headers ...string) *ltable.Table {
	return ltable.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("8"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == ltable.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...)
}

// renderRows lays rows out under the current column names, numbered from 1.
func renderRows(rows []models.ExtractedRow, columns []models.Column) string {
	names := models.ColumnNames(columns)
	t := newTable(append([]string{"#"}, names...)...)
	for i, row := range rows {
		cells := make([]string, 0, len(names)+1)
		cells = append(cells, strconv.Itoa(i+1))
		for _, name := range names {
			cells = append(cells, row.Value(name))
		}
		t.Row(cells...)
	}
	return t.Render()
}

func renderColumns(columns []models.Column) string {
	t := newTable("ID", "Name", "Extraction rule")
	for _, c := range columns {
		t.Row(c.ID, c.Name, c.ExtractionRule)
	}
	return t.Render()
}

func renderRecords(records []models.ContentRecord) string {
	t := newTable("Titre", "Contenu")
	for _, r := range records {
		t.Row(r.Titre, r.Contenu)
	}
	return t.Render()
}

func printError(err error) {
	color.Red("Error: %v", err)
	var rc *llm.RemoteCallError
	if errors.As(err, &rc) && rc.RawOutput != "" {
		color.Yellow("Raw output: %s", rc.RawOutput)
	}
}
