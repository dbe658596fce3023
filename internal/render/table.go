// Package render draws the report on a terminal: a bordered table with
// movement cells colored by direction, and a failure summary on stderr.
package render

import (
	"io"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/lordfoom/share-price-checker/internal/apperror"
	"github.com/lordfoom/share-price-checker/internal/report"
)

// Table writes the header and rows as an ASCII table. Positive cells render
// green, negative cells red.
func Table(w io.Writer, header []string, rows [][]report.Cell) {
	tbl := tablewriter.NewWriter(w)
	tbl.SetHeader(header)
	tbl.SetAutoWrapText(false)
	tbl.SetAutoFormatHeaders(false)

	for _, row := range rows {
		texts := make([]string, len(row))
		colors := make([]tablewriter.Colors, len(row))
		for i, cell := range row {
			texts[i] = cell.Text
			colors[i] = cellColors(cell.Tag)
		}
		tbl.Rich(texts, colors)
	}

	tbl.Render()
}

func cellColors(tag report.Tag) tablewriter.Colors {
	switch tag {
	case report.TagPositive:
		return tablewriter.Colors{tablewriter.FgGreenColor}
	case report.TagNegative:
		return tablewriter.Colors{tablewriter.FgRedColor}
	}
	return tablewriter.Colors{}
}

// FailureSummary lists per-code failures after the table, one line each.
func FailureSummary(w io.Writer, heading string, failures []*apperror.Error) {
	if len(failures) == 0 {
		return
	}
	warn := color.New(color.FgYellow)
	warn.Fprintln(w, heading)
	for _, f := range failures {
		warn.Fprintf(w, "  %s\n", f.Error())
	}
}
