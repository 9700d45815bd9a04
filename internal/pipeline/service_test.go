package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/zombor/invoice-normalizer/internal/invoice"
	"github.com/zombor/invoice-normalizer/internal/mapping"
	"github.com/zombor/invoice-normalizer/internal/sheet"
)

type mockMapper struct {
	mu        sync.Mutex
	mapping   mapping.ColumnMapping
	err       error
	headerRow int
	calls     int
}

func (m *mockMapper) Map(_ context.Context, _ *sheet.Grid, headerRow int) (mapping.ColumnMapping, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.headerRow = headerRow
	return m.mapping, m.err
}

type mockExtractor struct {
	invoices    []invoice.Invoice
	err         error
	contentType string
}

func (m *mockExtractor) Extract(_ context.Context, _ []byte, contentType string) ([]invoice.Invoice, error) {
	m.contentType = contentType
	return m.invoices, m.err
}

type sequentialIDs struct {
	n atomic.Int64
}

func (s *sequentialIDs) Generate() string {
	return fmt.Sprintf("id-%d", s.n.Add(1))
}

type fixedClock struct {
	t time.Time
}

func (c fixedClock) Now() time.Time {
	return c.t
}

var _ = Describe("Service", func() {
	var (
		mapper    *mockMapper
		extractor *mockExtractor
		service   *Service
		now       time.Time
		sales     []byte
	)

	BeforeEach(func() {
		now = time.Date(2025, 3, 7, 12, 0, 0, 0, time.UTC)
		mapper = &mockMapper{mapping: mapping.NewColumnMapping(map[mapping.Field]int{
			mapping.SerialNumber:     0,
			mapping.CustomerName:     1,
			mapping.ProductName:      2,
			mapping.ProductQuantity:  3,
			mapping.ProductUnitPrice: 4,
		})}
		extractor = &mockExtractor{}
		sales = workbook([][]any{
			{"Quarterly sales"},
			{"InvoiceNo", "Customer", "Product", "Qty", "UnitPrice"},
			{"INV-100", "Acme", "Widget", 2, 9.5},
			{"", "Acme", "Orphan", 1, 1},
			{"INV-100", "Acme", "Gadget", 1, 20},
		})
	})

	JustBeforeEach(func() {
		service = NewServiceWithDeps(mapper, extractor, 2, &sequentialIDs{}, fixedClock{t: now})
	})

	Describe("ProcessFile", func() {
		It("extracts invoices from a spreadsheet", func() {
			res := service.ProcessFile(context.Background(), File{Name: "sales.xlsx", Data: sales})

			Expect(res.Err).NotTo(HaveOccurred())
			Expect(res.ID).To(Equal("id-1"))
			Expect(res.Source).To(Equal(SourceSpreadsheet))
			Expect(res.ContentType).To(Equal(sheet.MIMETypeXLSX))
			Expect(res.ProcessedAt).To(Equal(now))
			Expect(*res.HeaderRow).To(Equal(1))
			Expect(mapper.headerRow).To(Equal(1))
			Expect(res.DroppedRows).To(Equal(1))

			Expect(res.Invoices).To(HaveLen(1))
			inv := res.Invoices[0]
			Expect(inv.SerialNumber).To(Equal("INV-100"))
			Expect(inv.Quantity).To(Equal(3.0))
			Expect(inv.Products).To(HaveLen(2))
			Expect(inv.Products[0].Name).To(Equal("Widget"))
			Expect(inv.Products[0].UnitPrice).To(Equal(9.5))
			Expect(inv.Products[1].Name).To(Equal("Gadget"))

			Expect(res.Customers).To(Equal([]invoice.Customer{{Name: "Acme"}}))
			Expect(res.Incomplete).To(ConsistOf(ReviewItem{
				SerialNumber: "INV-100",
				Missing:      []string{"date", "customerPhone", "customerEmail"},
			}))
		})

		It("reports unreadable spreadsheets as decode errors", func() {
			res := service.ProcessFile(context.Background(), File{Name: "broken.xlsx", Data: []byte("not a workbook")})

			var decodeErr *sheet.DecodeError
			Expect(errors.As(res.Err, &decodeErr)).To(BeTrue())
			Expect(res.Error).NotTo(BeEmpty())
			Expect(res.Invoices).To(BeEmpty())
			Expect(mapper.calls).To(BeZero())
		})

		When("the mapper fails", func() {
			BeforeEach(func() {
				mapper.err = &mapping.MappingError{Err: errors.New("quota exceeded")}
			})

			It("fails the file without partial results", func() {
				res := service.ProcessFile(context.Background(), File{Name: "sales.xlsx", Data: sales})

				var mErr *mapping.MappingError
				Expect(errors.As(res.Err, &mErr)).To(BeTrue())
				Expect(res.Invoices).To(BeEmpty())
				Expect(res.Mapping).To(BeNil())
			})
		})

		It("sends documents to the extractor", func() {
			extractor.invoices = []invoice.Invoice{{SerialNumber: "INV-1", CustomerName: "Acme", TotalAmount: 10}}

			res := service.ProcessFile(context.Background(), File{Name: "scan.pdf", ContentType: "application/pdf", Data: []byte("%PDF-1.7")})

			Expect(res.Err).NotTo(HaveOccurred())
			Expect(res.Source).To(Equal(SourceDocument))
			Expect(extractor.contentType).To(Equal("application/pdf"))
			Expect(res.Invoices).To(HaveLen(1))
			Expect(res.Customers).To(Equal([]invoice.Customer{{Name: "Acme", TotalPurchaseAmount: 10}}))
			Expect(res.HeaderRow).To(BeNil())
		})

		It("wraps extractor errors", func() {
			extractor.err = errors.New("model unavailable")

			res := service.ProcessFile(context.Background(), File{Name: "photo.jpg", ContentType: "image/jpeg", Data: []byte{0xff, 0xd8}})

			Expect(res.Err).To(MatchError(ContainSubstring("extracting document: model unavailable")))
		})

		It("rejects unsupported types", func() {
			res := service.ProcessFile(context.Background(), File{Name: "notes.txt", ContentType: "text/plain", Data: []byte("hello")})

			Expect(res.Err).To(MatchError(ErrUnsupportedType))
		})

		When("no extractor is configured", func() {
			JustBeforeEach(func() {
				service = NewServiceWithDeps(mapper, nil, 1, &sequentialIDs{}, fixedClock{t: now})
			})

			It("rejects documents", func() {
				res := service.ProcessFile(context.Background(), File{Name: "scan.pdf", ContentType: "application/pdf"})

				Expect(res.Err).To(MatchError(ErrUnsupportedType))
			})
		})
	})

	Describe("ProcessBatch", func() {
		It("keeps input order and isolates failures", func() {
			files := []File{
				{Name: "a.xlsx", Data: sales},
				{Name: "bad.xlsx", Data: []byte("garbage")},
				{Name: "notes.txt", ContentType: "text/plain", Data: []byte("hello")},
				{Name: "b.xlsx", Data: sales},
			}

			results := service.ProcessBatch(context.Background(), files)

			Expect(results).To(HaveLen(4))
			for i, f := range files {
				Expect(results[i].Filename).To(Equal(f.Name))
			}
			Expect(results[0].Err).NotTo(HaveOccurred())
			Expect(results[0].Invoices).To(HaveLen(1))
			Expect(results[1].Err).To(HaveOccurred())
			Expect(results[2].Err).To(MatchError(ErrUnsupportedType))
			Expect(results[3].Err).NotTo(HaveOccurred())
			Expect(results[3].Invoices).To(HaveLen(1))
		})

		It("returns nothing for an empty batch", func() {
			Expect(service.ProcessBatch(context.Background(), nil)).To(BeEmpty())
		})
	})

	Describe("with the heuristic oracle", func() {
		It("maps and aggregates end to end", func() {
			svc := NewServiceWithDeps(mapping.NewMapper(mapping.HeuristicOracle{}, time.Minute), nil, 1, &sequentialIDs{}, fixedClock{t: now})

			res := svc.ProcessFile(context.Background(), File{Name: "sales.xlsx", Data: sales})

			Expect(res.Err).NotTo(HaveOccurred())
			Expect(res.Invoices).To(HaveLen(1))
			Expect(res.Invoices[0].Quantity).To(Equal(3.0))
			Expect(res.Invoices[0].Products[1].UnitPrice).To(Equal(20.0))
		})
	})
})
