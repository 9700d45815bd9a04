package invoice

import (
	"github.com/zombor/invoice-normalizer/internal/mapping"
)

// Result is the outcome of folding rows into invoices
type Result struct {
	// Invoices in the order their serial number was first seen
	Invoices []Invoice
	// Dropped counts rows without a serial number
	Dropped int
}

// Aggregate groups rows by serial number. The first row of a serial number
// supplies the invoice level fields; every row with a product name adds a product
// and its quantity to the invoice.
func Aggregate(rows []RawRow, m mapping.ColumnMapping) Result {
	var (
		res   Result
		index = make(map[string]int)
	)

	for _, row := range rows {
		serial := stringField(row, m, mapping.SerialNumber)
		if serial == "" {
			res.Dropped++
			continue
		}

		i, ok := index[serial]
		if !ok {
			i = len(res.Invoices)
			index[serial] = i
			res.Invoices = append(res.Invoices, Invoice{
				SerialNumber:  serial,
				CustomerName:  stringField(row, m, mapping.CustomerName),
				Products:      []Product{},
				Tax:           numberField(row, m, mapping.Tax),
				TotalAmount:   numberField(row, m, mapping.TotalAmount),
				Date:          NormalizeDate(stringField(row, m, mapping.Date)),
				CustomerPhone: stringField(row, m, mapping.CustomerPhone),
				CustomerEmail: stringField(row, m, mapping.CustomerEmail),
			})
		}

		name := stringField(row, m, mapping.ProductName)
		if name == "" {
			continue
		}
		p := Product{
			SerialNumber: serial,
			Name:         name,
			Quantity:     numberField(row, m, mapping.ProductQuantity),
			UnitPrice:    numberField(row, m, mapping.ProductUnitPrice),
			Tax:          numberField(row, m, mapping.ProductTax),
			PriceWithTax: numberField(row, m, mapping.ProductPriceWithTax),
			Discount:     numberField(row, m, mapping.ProductDiscount),
		}
		inv := &res.Invoices[i]
		inv.Products = append(inv.Products, p)
		inv.Quantity += p.Quantity
	}

	return res
}
