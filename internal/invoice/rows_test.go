package invoice

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/zombor/invoice-normalizer/internal/sheet"
)

var _ = Describe("ExtractRows", func() {
	It("returns one row per data row after the header", func() {
		g := buildGrid([][]any{
			{"Report"},
			{"InvoiceNo", "Qty", "Paid"},
			{"INV-1", 2.0, true},
			{"INV-2", nil, false},
		})

		rows := ExtractRows(g, 1)

		Expect(rows).To(Equal([]RawRow{
			{"0": "INV-1", "1": 2.0, "2": true},
			{"0": "INV-2", "2": false},
		}))
	})

	It("keeps the display text of date cells", func() {
		g := buildGrid([][]any{{"Date"}})
		g.Set(1, 0, sheet.Cell{Type: sheet.CellDate, Value: "2025-03-07", Text: "03/07/2025"})

		rows := ExtractRows(g, 0)

		Expect(rows).To(Equal([]RawRow{{"0": "03/07/2025"}}))
	})

	It("produces empty rows for blank lines", func() {
		g := buildGrid([][]any{
			{"InvoiceNo"},
			{nil, nil},
			{"INV-1"},
		})
		g.Set(1, 1, sheet.Cell{Type: sheet.CellString, Value: "", Text: ""})

		rows := ExtractRows(g, 0)

		Expect(rows).To(HaveLen(2))
		Expect(rows[1]).To(HaveKeyWithValue("0", "INV-1"))
	})

	It("keys cells by sheet column", func() {
		g := sheet.NewGrid("Sheet1")
		g.Set(0, 3, sheet.Cell{Type: sheet.CellString, Value: "InvoiceNo", Text: "InvoiceNo"})
		g.Set(1, 3, sheet.Cell{Type: sheet.CellString, Value: "INV-1", Text: "INV-1"})

		Expect(ExtractRows(g, 0)).To(Equal([]RawRow{{"3": "INV-1"}}))
	})

	It("returns nothing when the header is the last row", func() {
		g := buildGrid([][]any{{"InvoiceNo"}})
		Expect(ExtractRows(g, 0)).To(BeEmpty())
	})

	It("returns nothing for an empty grid", func() {
		Expect(ExtractRows(sheet.NewGrid("Sheet1"), 0)).To(BeEmpty())
	})
})

var _ = Describe("ToNumber", func() {
	DescribeTable("coercing",
		func(in any, expected float64) {
			Expect(ToNumber(in)).To(Equal(expected))
		},
		Entry("number", 12.5, 12.5),
		Entry("integer", 3, 3.0),
		Entry("numeric text", "42", 42.0),
		Entry("currency", "$1,234.50", 1234.5),
		Entry("trailing unit", "10 pcs", 10.0),
		Entry("percentage", "18%", 18.0),
		Entry("negative", "-4.25", -4.25),
		Entry("text", "n/a", 0.0),
		Entry("empty", "", 0.0),
		Entry("boolean", true, 0.0),
		Entry("nil", nil, 0.0),
	)
})
