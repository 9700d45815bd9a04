package mapping

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/zombor/invoice-normalizer/internal/sheet"
)

// Mapper derives a ColumnMapping for a grid by consulting an Oracle
type Mapper struct {
	oracle Oracle
	cache  *cache.Cache
}

// NewMapper creates a Mapper. Mappings are memoised per sample for ttl;
// a ttl of zero or less disables memoisation.
func NewMapper(oracle Oracle, ttl time.Duration) *Mapper {
	m := &Mapper{oracle: oracle}
	if ttl > 0 {
		m.cache = cache.New(ttl, 2*ttl)
	}
	return m
}

// Map samples the header row and the rows after it, asks the oracle which column
// holds which field and returns the mapping in sheet column coordinates
func (m *Mapper) Map(ctx context.Context, g *sheet.Grid, headerRow int) (ColumnMapping, error) {
	sample, err := sheet.SampleCSV(g, headerRow)
	if err != nil {
		return ColumnMapping{}, &MappingError{Err: err}
	}

	// Cached mappings are relative to the sample; the same sample text can sit at
	// a different column offset in another sheet
	key := sampleKey(sample)
	if m.cache != nil {
		if cached, ok := m.cache.Get(key); ok {
			slog.Debug("Using cached column mapping", "sheet", g.Sheet)
			return cached.(ColumnMapping).shift(g.Range.MinCol), nil
		}
	}

	answer, err := m.oracle.LabelColumns(ctx, Instruction, sample)
	if err != nil {
		return ColumnMapping{}, &MappingError{Err: fmt.Errorf("calling oracle: %w", err)}
	}

	parsed, err := ParseResponse(answer)
	if err != nil {
		slog.Warn("Unparsable column mapping answer", "sheet", g.Sheet, "answer", answer)
		return ColumnMapping{}, err
	}

	if m.cache != nil {
		m.cache.Set(key, parsed, cache.DefaultExpiration)
	}
	// The sample starts at the first occupied column; rows are keyed by sheet column
	return parsed.shift(g.Range.MinCol), nil
}

func sampleKey(sample string) string {
	sum := sha256.Sum256([]byte(sample))
	return hex.EncodeToString(sum[:])
}
