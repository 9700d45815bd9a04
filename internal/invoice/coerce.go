package invoice

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/zombor/invoice-normalizer/internal/mapping"
)

// leadingNumber matches the numeric prefix of a cleaned cell, like parseFloat would
var leadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

func lookup(row RawRow, m mapping.ColumnMapping, f mapping.Field) (any, bool) {
	col, ok := m.Column(f)
	if !ok {
		return nil, false
	}
	v, ok := row[strconv.Itoa(col)]
	return v, ok
}

// stringField returns the trimmed text of the mapped cell, or "" when unresolved
func stringField(row RawRow, m mapping.ColumnMapping, f mapping.Field) string {
	v, ok := lookup(row, m, f)
	if !ok {
		return ""
	}
	return strings.TrimSpace(ToString(v))
}

// numberField returns the numeric value of the mapped cell, or 0 when unresolved
func numberField(row RawRow, m mapping.ColumnMapping, f mapping.Field) float64 {
	v, ok := lookup(row, m, f)
	if !ok {
		return 0
	}
	return ToNumber(v)
}

// ToString renders a cell value as text
func ToString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case bool:
		return strconv.FormatBool(val)
	}
	return ""
}

// ToNumber coerces a cell value to a number. Currency symbols, spaces and
// thousands separators are ignored; anything without a leading number is 0.
func ToNumber(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case string:
		return parseNumber(val)
	}
	return 0
}

func parseNumber(s string) float64 {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ',', ' ', '\u00a0', '$', '€', '£', '¥', '₹':
			return -1
		}
		return r
	}, strings.TrimSpace(s))

	match := leadingNumber.FindString(cleaned)
	if match == "" {
		return 0
	}
	n, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0
	}
	return n
}
