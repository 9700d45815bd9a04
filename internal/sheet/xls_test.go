package sheet

import (
	"bytes"
	"errors"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// oleHeader is the compound file signature every legacy .xls starts with
var oleHeader = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

var _ = Describe("Decode xls", func() {
	var (
		data     []byte
		mimeType string
		grid     *Grid
		err      error
	)

	JustBeforeEach(func() {
		Expect(func() {
			grid, err = Decode(data, mimeType)
		}).NotTo(Panic())
	})

	When("decoding a legacy workbook", func() {
		BeforeEach(func() {
			var readErr error
			data, readErr = os.ReadFile("testdata/table.xls")
			Expect(readErr).NotTo(HaveOccurred())
			mimeType = MIMETypeXLS
		})

		It("should not return an error", func() {
			Expect(err).NotTo(HaveOccurred())
		})

		It("should read the first sheet", func() {
			Expect(grid.Sheet).To(Equal("Table"))
		})

		It("should compute the occupied range", func() {
			Expect(grid.Range).To(Equal(Range{MinRow: 0, MinCol: 0, MaxRow: 11, MaxCol: 2}))
		})

		It("should read the header row", func() {
			for col, want := range []string{"Code", "Name", "Description"} {
				cell, ok := grid.Cell(0, col)
				Expect(ok).To(BeTrue())
				Expect(cell.Type).To(Equal(CellString))
				Expect(cell.Value).To(Equal(want))
			}
		})

		It("should read the last data row", func() {
			cell, ok := grid.Cell(11, 2)
			Expect(ok).To(BeTrue())
			Expect(cell.Text).To(Equal("description11"))
		})
	})

	When("the MIME hint is missing", func() {
		BeforeEach(func() {
			var readErr error
			data, readErr = os.ReadFile("testdata/table.xls")
			Expect(readErr).NotTo(HaveOccurred())
			mimeType = ""
		})

		It("should sniff the compound file", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(grid.Len()).To(Equal(36))
		})
	})

	When("the payload is a compound file that is not a workbook", func() {
		BeforeEach(func() {
			data = append(append([]byte{}, oleHeader...), bytes.Repeat([]byte{0}, 1024)...)
			mimeType = MIMETypeXLS
		})

		It("returns a DecodeError", func() {
			var decodeErr *DecodeError
			Expect(errors.As(err, &decodeErr)).To(BeTrue())
			Expect(decodeErr.Format).To(Equal(FormatXLS))
		})

		It("returns no grid", func() {
			Expect(grid).To(BeNil())
		})
	})
})

var _ = Describe("decodeXLS", func() {
	It("returns a DecodeError for bytes that are not a compound file", func() {
		var (
			grid *Grid
			err  error
		)
		Expect(func() {
			grid, err = decodeXLS([]byte("not an ole container"))
		}).NotTo(Panic())

		var decodeErr *DecodeError
		Expect(errors.As(err, &decodeErr)).To(BeTrue())
		Expect(decodeErr.Format).To(Equal(FormatXLS))
		Expect(grid).To(BeNil())
	})
})

var _ = DescribeTable("textCell",
	func(text string, wantType CellType, wantValue any) {
		cell := textCell(text)
		Expect(cell.Type).To(Equal(wantType))
		Expect(cell.Value).To(Equal(wantValue))
		Expect(cell.Text).To(Equal(text))
	},
	Entry("integer text", "42", CellNumber, 42.0),
	Entry("decimal text", "1.25", CellNumber, 1.25),
	Entry("padded number", "  7 ", CellNumber, 7.0),
	Entry("negative number", "-3.5", CellNumber, -3.5),
	Entry("upper case true", "TRUE", CellBool, true),
	Entry("lower case false", "false", CellBool, false),
	Entry("plain text", "Widget", CellString, "Widget"),
	Entry("thousands separator stays text", "1,234", CellString, "1,234"),
	Entry("date text stays text", "2024-03-07", CellString, "2024-03-07"),
)
