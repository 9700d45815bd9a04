package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/zombor/invoice-normalizer/internal/document"
	"github.com/zombor/invoice-normalizer/internal/invoice"
	"github.com/zombor/invoice-normalizer/internal/mapping"
	"github.com/zombor/invoice-normalizer/internal/sheet"
)

// ErrUnsupportedType is returned for files that are neither spreadsheets nor documents
var ErrUnsupportedType = errors.New("unsupported file type")

// DefaultConcurrency is the number of files processed at once
const DefaultConcurrency = 4

// ColumnMapper resolves which sheet column holds which canonical field
type ColumnMapper interface {
	Map(ctx context.Context, g *sheet.Grid, headerRow int) (mapping.ColumnMapping, error)
}

// DocumentExtractor reads invoices from PDFs and images
type DocumentExtractor interface {
	Extract(ctx context.Context, data []byte, contentType string) ([]invoice.Invoice, error)
}

// IDGenerator generates unique IDs for results
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

type uuidGenerator struct{}

func (uuidGenerator) Generate() string {
	return uuid.NewString()
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// Service turns uploaded files into invoices
type Service struct {
	mapper      ColumnMapper
	extractor   DocumentExtractor
	concurrency int
	idGenerator IDGenerator
	timeSource  TimeSource
}

// NewService creates a Service. extractor may be nil, in which case PDFs and
// images are rejected.
func NewService(mapper ColumnMapper, extractor DocumentExtractor, concurrency int) *Service {
	return NewServiceWithDeps(mapper, extractor, concurrency, uuidGenerator{}, systemClock{})
}

// NewServiceWithDeps creates a Service with custom dependencies for testing
func NewServiceWithDeps(mapper ColumnMapper, extractor DocumentExtractor, concurrency int, idGen IDGenerator, timeSrc TimeSource) *Service {
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}
	return &Service{
		mapper:      mapper,
		extractor:   extractor,
		concurrency: concurrency,
		idGenerator: idGen,
		timeSource:  timeSrc,
	}
}

// ProcessBatch processes files concurrently. Results are in input order and
// a failure in one file never affects another.
func (s *Service) ProcessBatch(ctx context.Context, files []File) []FileResult {
	results := make([]FileResult, len(files))

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, f := range files {
		g.Go(func() error {
			results[i] = s.ProcessFile(ctx, f)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// ProcessFile extracts the invoices of a single file
func (s *Service) ProcessFile(ctx context.Context, f File) FileResult {
	ct := ResolveContentType(f.Name, f.ContentType, f.Data)
	res := FileResult{
		ID:          s.idGenerator.Generate(),
		Filename:    f.Name,
		ContentType: ct,
		Size:        len(f.Data),
		Invoices:    []invoice.Invoice{},
		Customers:   []invoice.Customer{},
	}

	log := slog.With("filename", f.Name, "content_type", ct, "size", humanize.Bytes(uint64(len(f.Data))))
	log.Info("Processing file")

	var err error
	switch {
	case sheet.IsSpreadsheetType(ct) || sheet.DetectFormat(f.Data, ct) != "":
		res.Source = SourceSpreadsheet
		err = s.processSpreadsheet(ctx, f.Data, ct, &res)
	case document.IsDocumentType(ct):
		res.Source = SourceDocument
		err = s.processDocument(ctx, f.Data, ct, &res)
	default:
		err = fmt.Errorf("%w: %s", ErrUnsupportedType, ct)
	}
	res.ProcessedAt = s.timeSource.Now()

	if err != nil {
		log.Error("Failed to process file", "error", err)
		res.Err = err
		res.Error = err.Error()
		return res
	}

	res.Customers = invoice.Customers(res.Invoices)
	for _, inv := range res.Invoices {
		if missing := invoice.Review(inv); len(missing) > 0 {
			res.Incomplete = append(res.Incomplete, ReviewItem{SerialNumber: inv.SerialNumber, Missing: missing})
		}
	}

	log.Info("Processed file",
		"invoices", len(res.Invoices),
		"customers", len(res.Customers),
		"incomplete", len(res.Incomplete),
		"dropped_rows", res.DroppedRows,
	)
	return res
}

func (s *Service) processSpreadsheet(ctx context.Context, data []byte, ct string, res *FileResult) error {
	grid, err := sheet.Decode(data, ct)
	if err != nil {
		return err
	}

	headerRow := sheet.FindHeaderRow(grid)
	res.HeaderRow = &headerRow

	cols, err := s.mapper.Map(ctx, grid, headerRow)
	if err != nil {
		return err
	}
	res.Mapping = &cols
	slog.Debug("Resolved columns", "sheet", grid.Sheet, "header_row", headerRow, "fields", cols.Len(), "unresolved", cols.Unresolved())

	agg := invoice.Aggregate(invoice.ExtractRows(grid, headerRow), cols)
	res.Invoices = agg.Invoices
	if res.Invoices == nil {
		res.Invoices = []invoice.Invoice{}
	}
	res.DroppedRows = agg.Dropped
	if agg.Dropped > 0 {
		slog.Warn("Dropped rows without a serial number", "sheet", grid.Sheet, "rows", agg.Dropped)
	}
	return nil
}

func (s *Service) processDocument(ctx context.Context, data []byte, ct string, res *FileResult) error {
	if s.extractor == nil {
		return fmt.Errorf("%w: %s (no document model configured)", ErrUnsupportedType, ct)
	}

	invoices, err := s.extractor.Extract(ctx, data, ct)
	if err != nil {
		return fmt.Errorf("extracting document: %w", err)
	}
	if invoices != nil {
		res.Invoices = invoices
	}
	return nil
}
