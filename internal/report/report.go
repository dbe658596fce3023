// Package report assembles the comparison table as structured cells.
// It is render-agnostic: cells carry text plus a semantic tag, and the
// actual terminal table/colors are someone else's job.
package report

import (
	"github.com/shopspring/decimal"

	"github.com/lordfoom/share-price-checker/internal/share"
)

// Filler marks a cell whose data is unavailable.
const Filler = "—"

const pricePlaces = 2

// Tag classifies a cell for presentation styling.
type Tag int

const (
	TagNeutral Tag = iota
	TagPositive
	TagNegative
)

// Cell is one table cell: display text plus styling tag.
type Cell struct {
	Text string
	Tag  Tag
}

// Entry is one company's contribution to the report. A failed code has a nil
// Timeline and still renders as a full-width filler row.
type Entry struct {
	Code     string
	Timeline *share.Timeline
}

// Header returns the fixed column titles: CODE, PRICE, TIME, then four
// columns per moment in the fixed moment order.
func Header() []string {
	header := []string{"CODE", "PRICE", "TIME"}
	for _, m := range share.Moments() {
		header = append(header,
			m.Label()+" PRICE",
			m.Label()+" TIME",
			"MOVE",
			"MOVE %",
		)
	}
	return header
}

// Build turns entries into data rows, one per entry, in input order.
// Every row has exactly len(Header()) cells regardless of which moments are
// present for an entry.
func Build(entries []Entry) [][]Cell {
	rows := make([][]Cell, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, Row(e))
	}
	return rows
}

// Row builds the cells for one entry.
func Row(e Entry) []Cell {
	if e.Timeline == nil {
		row := []Cell{{Text: e.Code}}
		for len(row) < len(Header()) {
			row = append(row, Cell{Text: Filler})
		}
		return row
	}

	cur := e.Timeline.Current
	row := []Cell{
		{Text: cur.Code},
		{Text: cur.Price.StringFixed(pricePlaces)},
		{Text: cur.DisplayDate()},
	}

	for _, mm := range e.Timeline.Movements() {
		if !mm.HasData {
			row = append(row,
				Cell{Text: Filler}, Cell{Text: Filler},
				Cell{Text: Filler}, Cell{Text: Filler})
			continue
		}
		tag := tagFor(mm.Movement.Direction)
		row = append(row,
			Cell{Text: mm.Historical.Price.StringFixed(pricePlaces)},
			Cell{Text: mm.Historical.DisplayDate()},
			Cell{Text: signedFixed(mm.Movement.Delta), Tag: tag},
			Cell{Text: percentText(mm.Movement), Tag: tag},
		)
	}
	return row
}

func tagFor(d share.Direction) Tag {
	switch d {
	case share.Up:
		return TagPositive
	case share.Down:
		return TagNegative
	}
	return TagNeutral
}

func signedFixed(d decimal.Decimal) string {
	s := d.StringFixed(pricePlaces)
	if d.Sign() > 0 {
		return "+" + s
	}
	return s
}

func percentText(mv share.Movement) string {
	if !mv.PercentDefined {
		return Filler
	}
	return signedFixed(mv.Percent) + "%"
}
