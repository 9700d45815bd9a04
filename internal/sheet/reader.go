package sheet

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/xuri/excelize/v2"
)

const (
	MIMETypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	MIMETypeXLS  = "application/vnd.ms-excel"

	FormatXLSX = "xlsx"
	FormatXLS  = "xls"
)

// DetectFormat sniffs the container format of data, falling back to the MIME hint
// when the bytes alone are inconclusive. It returns "" for non-spreadsheets.
func DetectFormat(data []byte, mimeType string) string {
	detected := mimetype.Detect(data)
	switch {
	case detected.Is(MIMETypeXLSX):
		return FormatXLSX
	case detected.Is(MIMETypeXLS):
		return FormatXLS
	}

	// Generic containers are trusted only when the hint does not contradict them
	hint := strings.ToLower(strings.TrimSpace(mimeType))
	plausible := hint == "" || hint == "application/octet-stream" || isSpreadsheetHint(hint)
	switch {
	case detected.Is("application/zip") && plausible:
		return FormatXLSX
	case detected.Is("application/x-ole-storage") && plausible:
		return FormatXLS
	}
	return ""
}

// IsSpreadsheetType reports whether a MIME type names a spreadsheet
func IsSpreadsheetType(mimeType string) bool {
	return isSpreadsheetHint(strings.ToLower(strings.TrimSpace(mimeType)))
}

func isSpreadsheetHint(hint string) bool {
	return strings.Contains(hint, "sheet") || strings.Contains(hint, "excel")
}

// Decode reads the first sheet of an xlsx or xls payload into a Grid
func Decode(data []byte, mimeType string) (*Grid, error) {
	switch DetectFormat(data, mimeType) {
	case FormatXLSX:
		return decodeXLSX(data)
	case FormatXLS:
		return decodeXLS(data)
	}
	return nil, &DecodeError{Format: mimeType, Err: ErrUnsupportedFormat}
}

func decodeXLSX(data []byte) (*Grid, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, &DecodeError{Format: FormatXLSX, Err: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &DecodeError{Format: FormatXLSX, Err: ErrNoSheets}
	}
	name := sheets[0]

	// Raw values keep numbers unformatted; display text is looked up per cell
	rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &DecodeError{Format: FormatXLSX, Err: fmt.Errorf("reading sheet %q: %w", name, err)}
	}

	dateStyles := make(map[int]bool)
	grid := NewGrid(name)
	for r, row := range rows {
		for c, raw := range row {
			if raw == "" {
				continue
			}
			addr, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				continue
			}
			grid.Set(r, c, readXLSXCell(f, name, addr, raw, dateStyles))
		}
	}
	return grid, nil
}

func readXLSXCell(f *excelize.File, sheetName, addr, raw string, dateStyles map[int]bool) Cell {
	display, err := f.GetCellValue(sheetName, addr)
	if err != nil || display == "" {
		display = raw
	}

	typ, _ := f.GetCellType(sheetName, addr)
	switch typ {
	case excelize.CellTypeBool:
		return Cell{Type: CellBool, Value: raw == "1" || strings.EqualFold(raw, "true"), Text: display}
	case excelize.CellTypeDate:
		return Cell{Type: CellDate, Value: display, Text: display}
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeError:
		return Cell{Type: CellString, Value: display, Text: display}
	}

	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return Cell{Type: CellString, Value: display, Text: display}
	}
	if isDateStyled(f, sheetName, addr, dateStyles) {
		return Cell{Type: CellDate, Value: display, Text: display}
	}
	return Cell{Type: CellNumber, Value: n, Text: display}
}

// isDateStyled reports whether the cell's number format renders a date or time.
// Results are memoised per style index.
func isDateStyled(f *excelize.File, sheetName, addr string, cache map[int]bool) bool {
	idx, err := f.GetCellStyle(sheetName, addr)
	if err != nil || idx == 0 {
		return false
	}
	if v, ok := cache[idx]; ok {
		return v
	}

	style, err := f.GetStyle(idx)
	isDate := err == nil && style != nil &&
		(isBuiltinDateFormat(style.NumFmt) || (style.CustomNumFmt != nil && isDateFormatCode(*style.CustomNumFmt)))
	cache[idx] = isDate
	return isDate
}

func isBuiltinDateFormat(id int) bool {
	switch {
	case id >= 14 && id <= 22:
		return true
	case id >= 27 && id <= 36:
		return true
	case id >= 45 && id <= 47:
		return true
	case id >= 50 && id <= 58:
		return true
	}
	return false
}

// isDateFormatCode looks for date/time tokens outside quoted literals and bracketed sections
func isDateFormatCode(code string) bool {
	var b strings.Builder
	inQuote, inBracket, escaped := false, false, false
	for _, r := range code {
		switch {
		case escaped:
			escaped = false
		case r == '\\':
			escaped = true
		case r == '"':
			inQuote = !inQuote
		case inQuote:
		case r == '[':
			inBracket = true
		case r == ']':
			inBracket = false
		case inBracket:
		default:
			b.WriteRune(r)
		}
	}
	stripped := strings.ToLower(b.String())
	if stripped == "general" {
		return false
	}
	return strings.ContainsAny(stripped, "ydmhs")
}
