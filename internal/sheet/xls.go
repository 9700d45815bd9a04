package sheet

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/extrame/xls"
)

func decodeXLS(data []byte) (grid *Grid, err error) {
	// extrame/xls panics on some malformed streams
	defer func() {
		if r := recover(); r != nil {
			grid, err = nil, &DecodeError{Format: FormatXLS, Err: fmt.Errorf("reading workbook: %v", r)}
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, &DecodeError{Format: FormatXLS, Err: err}
	}
	if wb.NumSheets() == 0 {
		return nil, &DecodeError{Format: FormatXLS, Err: ErrNoSheets}
	}
	ws := wb.GetSheet(0)
	if ws == nil {
		return nil, &DecodeError{Format: FormatXLS, Err: ErrNoSheets}
	}

	grid = NewGrid(ws.Name)
	for r := 0; r <= int(ws.MaxRow); r++ {
		row := ws.Row(r)
		if row == nil {
			continue
		}
		for c := row.FirstCol(); c < row.LastCol(); c++ {
			text := row.Col(c)
			if strings.TrimSpace(text) == "" {
				continue
			}
			grid.Set(r, c, textCell(text))
		}
	}
	return grid, nil
}

// textCell types a cell that only exposes display text.
// Dates stay text, which is what the row extractor keeps for date cells anyway.
func textCell(text string) Cell {
	if n, err := strconv.ParseFloat(strings.TrimSpace(text), 64); err == nil {
		return Cell{Type: CellNumber, Value: n, Text: text}
	}
	switch strings.ToUpper(strings.TrimSpace(text)) {
	case "TRUE":
		return Cell{Type: CellBool, Value: true, Text: text}
	case "FALSE":
		return Cell{Type: CellBool, Value: false, Text: text}
	}
	return Cell{Type: CellString, Value: text, Text: text}
}
