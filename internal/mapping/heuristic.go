package mapping

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"
)

type headerRule struct {
	field    Field
	exact    []string
	contains []string
}

// headerRules are tried in order; each column is claimed by at most one field,
// so more specific phrases come first
var headerRules = []headerRule{
	{field: SerialNumber, exact: []string{"invoice", "inv", "no", "number"}, contains: []string{"invoice no", "invoiceno", "invoice number", "invoice #", "invoice id", "inv no", "inv #", "serial", "bill no", "reference"}},
	{field: CustomerPhone, contains: []string{"phone", "mobile", "tel", "contact no"}},
	{field: CustomerEmail, contains: []string{"email", "e mail", "mail"}},
	{field: Date, contains: []string{"date", "dated", "issued"}},
	{field: ProductPriceWithTax, contains: []string{"price with tax", "incl tax", "including tax", "with tax", "gross", "line total"}},
	{field: ProductUnitPrice, contains: []string{"unit price", "unitprice", "unit cost", "rate", "price"}},
	{field: ProductDiscount, contains: []string{"discount", "disc"}},
	{field: ProductTax, contains: []string{"product tax", "item tax", "line tax"}},
	{field: Quantity, contains: []string{"total qty", "total quantity", "total units"}},
	{field: ProductQuantity, contains: []string{"qty", "quantity", "units", "pcs"}},
	{field: ProductName, contains: []string{"product", "item", "description", "goods", "service"}},
	{field: CustomerName, contains: []string{"customer", "client", "buyer", "bill to", "party", "name"}},
	{field: Tax, contains: []string{"tax", "vat", "gst"}},
	{field: TotalAmount, contains: []string{"total", "amount", "sum"}},
}

// HeuristicOracle labels columns by matching header text against keyword lists.
// It is deterministic and answers in the same JSON form as a model would.
type HeuristicOracle struct{}

// LabelColumns reads the header row of the CSV sample; the instruction is ignored
func (HeuristicOracle) LabelColumns(_ context.Context, _ string, sample string) (string, error) {
	r := csv.NewReader(strings.NewReader(sample))
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if err != nil {
		return "", fmt.Errorf("reading sample header: %w", err)
	}

	out, err := json.Marshal(matchHeaders(header))
	if err != nil {
		return "", fmt.Errorf("marshaling mapping: %w", err)
	}
	return string(out), nil
}

func matchHeaders(header []string) map[string]int {
	normalized := make([]string, len(header))
	for i, h := range header {
		normalized[i] = normalizeHeader(h)
	}

	taken := make(map[int]bool, len(header))
	result := make(map[string]int)
	for _, rule := range headerRules {
		for i, h := range normalized {
			if h == "" || taken[i] || !rule.matches(h) {
				continue
			}
			result[string(rule.field)] = i
			taken[i] = true
			break
		}
	}
	return result
}

func (r headerRule) matches(h string) bool {
	for _, e := range r.exact {
		if h == e {
			return true
		}
	}
	for _, c := range r.contains {
		if strings.Contains(h, c) {
			return true
		}
	}
	return false
}

// normalizeHeader lowercases and turns punctuation other than # into single spaces
func normalizeHeader(h string) string {
	h = strings.ToLower(h)
	h = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '#':
			return r
		case r > 127:
			return r
		}
		return ' '
	}, h)
	return strings.Join(strings.Fields(h), " ")
}
