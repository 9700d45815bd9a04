package sheet

import "strings"

var headerKeywords = []string{"invoice", "customer", "product", "quantity", "amount", "date", "price"}

const (
	// headerLookahead is how many rows past the first occupied row are scanned
	headerLookahead = 5

	headerMinMatches = 3
)

// FindHeaderRow returns the first row near the top of the grid whose text cells
// name at least three invoice concepts. It falls back to the first occupied row.
func FindHeaderRow(g *Grid) int {
	rng := g.Range
	last := min(rng.MinRow+headerLookahead, rng.MaxRow)
	for r := rng.MinRow; r <= last; r++ {
		if countHeaderTerms(g, r) >= headerMinMatches {
			return r
		}
	}
	return rng.MinRow
}

func countHeaderTerms(g *Grid, row int) int {
	count := 0
	for c := g.Range.MinCol; c <= g.Range.MaxCol; c++ {
		cell, ok := g.Cell(row, c)
		if !ok || cell.Type != CellString {
			continue
		}
		text := strings.ToLower(cell.Text)
		for _, term := range headerKeywords {
			if strings.Contains(text, term) {
				count++
				break
			}
		}
	}
	return count
}
