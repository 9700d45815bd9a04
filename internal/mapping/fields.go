package mapping

import "encoding/json"

// Field is a canonical slot that spreadsheet columns are mapped onto
type Field string

const (
	SerialNumber        Field = "serialNumber"
	CustomerName        Field = "customerName"
	Quantity            Field = "quantity"
	Tax                 Field = "tax"
	TotalAmount         Field = "totalAmount"
	Date                Field = "date"
	CustomerPhone       Field = "customerPhone"
	CustomerEmail       Field = "customerEmail"
	ProductName         Field = "product.name"
	ProductQuantity     Field = "product.quantity"
	ProductUnitPrice    Field = "product.unitPrice"
	ProductTax          Field = "product.tax"
	ProductPriceWithTax Field = "product.priceWithTax"
	ProductDiscount     Field = "product.discount"
)

// Fields lists every canonical field in prompt order
var Fields = []Field{
	SerialNumber,
	CustomerName,
	Quantity,
	Tax,
	TotalAmount,
	Date,
	CustomerPhone,
	CustomerEmail,
	ProductName,
	ProductQuantity,
	ProductUnitPrice,
	ProductTax,
	ProductPriceWithTax,
	ProductDiscount,
}

var fieldDescriptions = map[Field]string{
	SerialNumber:        "Invoice number",
	CustomerName:        "Customer name",
	Quantity:            "Total quantity",
	Tax:                 "Tax percentage/amount",
	TotalAmount:         "Total invoice amount",
	Date:                "Invoice date",
	CustomerPhone:       "Customer phone",
	CustomerEmail:       "Customer email",
	ProductName:         "Product name",
	ProductQuantity:     "Product quantity",
	ProductUnitPrice:    "Unit price",
	ProductTax:          "Product tax",
	ProductPriceWithTax: "Price with tax",
	ProductDiscount:     "Discount amount",
}

// Valid reports whether f is one of the canonical fields
func (f Field) Valid() bool {
	_, ok := fieldDescriptions[f]
	return ok
}

// Description is the human wording used when asking the oracle about f
func (f Field) Description() string {
	return fieldDescriptions[f]
}

// ColumnMapping maps canonical fields to zero-based sheet column indices.
// Fields without an entry are unresolved. A mapping is never modified after construction.
type ColumnMapping struct {
	columns map[Field]int
}

// NewColumnMapping copies cols into a new mapping, dropping unknown fields and negative indices
func NewColumnMapping(cols map[Field]int) ColumnMapping {
	m := ColumnMapping{columns: make(map[Field]int, len(cols))}
	for f, c := range cols {
		if f.Valid() && c >= 0 {
			m.columns[f] = c
		}
	}
	return m
}

// Column returns the column mapped to f
func (m ColumnMapping) Column(f Field) (int, bool) {
	c, ok := m.columns[f]
	return c, ok
}

// Len returns the number of resolved fields
func (m ColumnMapping) Len() int {
	return len(m.columns)
}

// Resolved lists the mapped fields in canonical order
func (m ColumnMapping) Resolved() []Field {
	out := make([]Field, 0, len(m.columns))
	for _, f := range Fields {
		if _, ok := m.columns[f]; ok {
			out = append(out, f)
		}
	}
	return out
}

// Unresolved lists the canonical fields the mapping has no column for
func (m ColumnMapping) Unresolved() []Field {
	out := make([]Field, 0, len(Fields)-len(m.columns))
	for _, f := range Fields {
		if _, ok := m.columns[f]; !ok {
			out = append(out, f)
		}
	}
	return out
}

// shift returns a copy with every column moved right by offset
func (m ColumnMapping) shift(offset int) ColumnMapping {
	cols := make(map[Field]int, len(m.columns))
	for f, c := range m.columns {
		cols[f] = c + offset
	}
	return NewColumnMapping(cols)
}

func (m ColumnMapping) MarshalJSON() ([]byte, error) {
	out := make(map[string]int, len(m.columns))
	for f, c := range m.columns {
		out[string(f)] = c
	}
	return json.Marshal(out)
}

func (m *ColumnMapping) UnmarshalJSON(data []byte) error {
	var in map[string]int
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	cols := make(map[Field]int, len(in))
	for k, v := range in {
		cols[Field(k)] = v
	}
	*m = NewColumnMapping(cols)
	return nil
}
