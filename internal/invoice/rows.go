package invoice

import (
	"strconv"

	"github.com/zombor/invoice-normalizer/internal/sheet"
)

// RawRow holds the coerced cell values of one data row keyed by column index.
// Empty cells have no key.
type RawRow map[string]any

// ExtractRows returns a RawRow for every row after headerRow within the grid's range.
// Date cells keep their display text, numbers and booleans their typed value and
// everything else becomes text.
func ExtractRows(g *sheet.Grid, headerRow int) []RawRow {
	if g.Empty() || headerRow >= g.Range.MaxRow {
		return nil
	}

	start := max(headerRow+1, g.Range.MinRow)
	rows := make([]RawRow, 0, g.Range.MaxRow-start+1)
	for r := start; r <= g.Range.MaxRow; r++ {
		row := RawRow{}
		for c := g.Range.MinCol; c <= g.Range.MaxCol; c++ {
			cell, ok := g.Cell(r, c)
			if !ok {
				continue
			}
			row[strconv.Itoa(c)] = cellValue(cell)
		}
		rows = append(rows, row)
	}
	return rows
}

func cellValue(c sheet.Cell) any {
	switch c.Type {
	case sheet.CellDate:
		return c.Text
	case sheet.CellNumber, sheet.CellBool:
		return c.Value
	}
	if s, ok := c.Value.(string); ok {
		return s
	}
	return c.Text
}
