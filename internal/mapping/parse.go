package mapping

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"

	"github.com/zombor/invoice-normalizer/internal/llm"
)

// ParseResponse reads a column mapping out of an oracle answer.
// Prose around the JSON object is ignored, unknown keys are skipped and fields
// whose value is not a non-negative integer stay unresolved. A missing or
// malformed object is a MappingError.
func ParseResponse(text string) (ColumnMapping, error) {
	obj, err := llm.ExtractJSONObject(text)
	if err != nil {
		return ColumnMapping{}, &MappingError{Err: err}
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(obj), &raw); err != nil {
		return ColumnMapping{}, &MappingError{Err: fmt.Errorf("unmarshaling json: %w", err)}
	}

	cols := make(map[Field]int, len(raw))
	collect(raw, "", cols)
	return NewColumnMapping(cols), nil
}

// collect flattens {"product": {"name": 2}} into product.name alongside dotted keys
func collect(raw map[string]json.RawMessage, prefix string, cols map[Field]int) {
	for key, value := range raw {
		field := Field(prefix + key)
		if field.Valid() {
			if idx, ok := columnIndex(value); ok {
				cols[field] = idx
			} else {
				slog.Debug("Ignoring non-integer column index", "field", field, "value", string(value))
			}
			continue
		}
		if prefix == "" && key == "product" {
			var nested map[string]json.RawMessage
			if err := json.Unmarshal(value, &nested); err == nil {
				collect(nested, "product.", cols)
			}
		}
	}
}

func columnIndex(value json.RawMessage) (int, bool) {
	var n float64
	if err := json.Unmarshal(value, &n); err != nil {
		return 0, false
	}
	if n < 0 || n != math.Trunc(n) {
		return 0, false
	}
	return int(n), true
}
