package cmd

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/streambinder/albumfix/entity"
)

// column lays out one column of a table: colors, if set,
// picks the colors of each cell out of its content.
type column struct {
	title  string
	align  text.Align
	colors func(cell string) text.Colors
}

func left(title string) column {
	return column{title: title, align: text.AlignLeft}
}

func right(title string) column {
	return column{title: title, align: text.AlignRight}
}

// outcome is a column of status labels, colored when
// the output is a terminal.
func outcome(title string) column {
	labels := left(title)
	if tui.Interactive() {
		labels.colors = statusColors
	}
	return labels
}

func statusColors(label string) text.Colors {
	switch label {
	case entity.Finalized.Label(), labelReady:
		return text.Colors{text.FgGreen}
	case entity.CatalogNotFound.Label(), labelSkipped:
		return text.Colors{text.FgYellow}
	case entity.ProcessingError.Label(), entity.BackupFailed.Label():
		return text.Colors{text.FgRed, text.Bold}
	default:
		return nil
	}
}

func renderTable(columns []column, rows [][]string) string {
	if len(columns) == 0 {
		return ""
	}

	var (
		tw      = table.NewWriter()
		header  = make(table.Row, 0, len(columns))
		configs = make([]table.ColumnConfig, 0, len(columns))
	)
	tw.SetStyle(table.StyleRounded)
	for i, column := range columns {
		header = append(header, column.title)
		config := table.ColumnConfig{Number: i + 1, Align: column.align, AlignHeader: text.AlignLeft}
		if colors := column.colors; colors != nil {
			config.Transformer = func(value interface{}) string {
				cell := fmt.Sprint(value)
				return colors(cell).Sprint(cell)
			}
		}
		configs = append(configs, config)
	}
	tw.AppendHeader(header)
	tw.SetColumnConfigs(configs)

	for _, row := range rows {
		cells := make(table.Row, len(columns))
		for i := range cells {
			cells[i] = ""
			if i < len(row) {
				cells[i] = row[i]
			}
		}
		tw.AppendRow(cells)
	}
	return tw.Render()
}
