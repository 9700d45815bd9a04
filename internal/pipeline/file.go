package pipeline

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/zombor/invoice-normalizer/internal/invoice"
	"github.com/zombor/invoice-normalizer/internal/mapping"
	"github.com/zombor/invoice-normalizer/internal/sheet"
)

const (
	SourceSpreadsheet = "spreadsheet"
	SourceDocument    = "document"
)

// File is one uploaded payload
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// ReviewItem names the fields of one invoice that still need a person's attention
type ReviewItem struct {
	SerialNumber string   `json:"serialNumber"`
	Missing      []string `json:"missing"`
}

// FileResult is the outcome of processing one file. Err is set when the
// file could not be processed; the other files of a batch are unaffected.
type FileResult struct {
	ID          string                 `json:"id"`
	Filename    string                 `json:"filename"`
	ContentType string                 `json:"contentType"`
	Size        int                    `json:"size"`
	Source      string                 `json:"source,omitempty"`
	HeaderRow   *int                   `json:"headerRow,omitempty"`
	Mapping     *mapping.ColumnMapping `json:"mapping,omitempty"`
	Invoices    []invoice.Invoice      `json:"invoices"`
	Customers   []invoice.Customer     `json:"customers"`
	Incomplete  []ReviewItem           `json:"incomplete,omitempty"`
	DroppedRows int                    `json:"droppedRows"`
	ProcessedAt time.Time              `json:"processedAt"`
	Err         error                  `json:"-"`
	Error       string                 `json:"error,omitempty"`
}

var extensionTypes = map[string]string{
	".xlsx": sheet.MIMETypeXLSX,
	".xls":  sheet.MIMETypeXLS,
	".pdf":  "application/pdf",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".heic": "image/heic",
	".heif": "image/heif",
}

// ResolveContentType returns the declared type when it is specific, otherwise
// guesses from the file extension and finally from the content
func ResolveContentType(filename, declared string, data []byte) string {
	ct := strings.ToLower(strings.TrimSpace(declared))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	if ct != "" && ct != "application/octet-stream" {
		return ct
	}

	if byExt, ok := extensionTypes[strings.ToLower(filepath.Ext(filename))]; ok {
		return byExt
	}

	detected := mimetype.Detect(data).String()
	if i := strings.IndexByte(detected, ';'); i >= 0 {
		detected = detected[:i]
	}
	return detected
}
