package sheet

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// SampleRows is the number of data rows sent along with the header row for column mapping
const SampleRows = 10

// Sample returns the header row plus up to n following rows as display text,
// one slice per row spanning the grid's occupied columns
func Sample(g *Grid, headerRow, n int) [][]string {
	if g.Empty() {
		return nil
	}
	last := min(headerRow+n, g.Range.MaxRow)
	width := g.Range.MaxCol - g.Range.MinCol + 1

	out := make([][]string, 0, last-headerRow+1)
	for r := headerRow; r <= last; r++ {
		row := make([]string, width)
		for c := g.Range.MinCol; c <= g.Range.MaxCol; c++ {
			if cell, ok := g.Cell(r, c); ok {
				row[c-g.Range.MinCol] = cell.Text
			}
		}
		out = append(out, row)
	}
	return out
}

// SampleCSV serialises the mapping sample as CSV text
func SampleCSV(g *Grid, headerRow int) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(Sample(g, headerRow, SampleRows)); err != nil {
		return "", fmt.Errorf("writing sample csv: %w", err)
	}
	return buf.String(), nil
}
