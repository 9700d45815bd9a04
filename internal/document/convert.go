package document

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	"image/png"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gen2brain/go-fitz"
	"github.com/gen2brain/heic"
)

const (
	MIMETypePDF = "application/pdf"
	MIMETypePNG = "image/png"
)

// IsDocumentType reports whether contentType is handled by the document path
func IsDocumentType(contentType string) bool {
	ct := normalizeType(contentType)
	return ct == MIMETypePDF || strings.HasPrefix(ct, "image/")
}

// toPNG renders the first page of a PDF, or re-encodes a non-PNG image, as PNG
func toPNG(data []byte, contentType string) ([]byte, error) {
	ct := normalizeType(contentType)
	if ct == "" {
		ct = mimetype.Detect(data).String()
	}

	switch {
	case ct == MIMETypePDF:
		out, err := renderPDF(data)
		if err != nil {
			return nil, fmt.Errorf("converting PDF to image: %w", err)
		}
		return out, nil
	case ct == MIMETypePNG && mimetype.Detect(data).Is(MIMETypePNG):
		return data, nil
	}

	out, err := reencode(data, ct)
	if err != nil {
		return nil, fmt.Errorf("converting image to PNG: %w", err)
	}
	return out, nil
}

// renderPDF rasterises the first page; invoices that span pages are read from page one only
func renderPDF(data []byte) ([]byte, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	defer doc.Close()

	img, err := doc.Image(0)
	if err != nil {
		return nil, fmt.Errorf("rendering PDF page: %w", err)
	}
	return encodePNG(img)
}

func reencode(data []byte, contentType string) ([]byte, error) {
	var (
		img image.Image
		err error
	)
	if isHEIC(data, contentType) {
		img, err = heic.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decoding HEIC/HEIF image: %w", err)
		}
		return encodePNG(img)
	}

	img, _, err = image.Decode(bytes.NewReader(data))
	if err != nil {
		if err == image.ErrFormat {
			return nil, fmt.Errorf("unsupported image format %q (supported: JPEG, PNG, GIF, HEIC, HEIF, PDF): %w", contentType, err)
		}
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	return encodePNG(img)
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding PNG: %w", err)
	}
	return buf.Bytes(), nil
}

func isHEIC(data []byte, contentType string) bool {
	if strings.Contains(contentType, "heic") || strings.Contains(contentType, "heif") {
		return true
	}
	detected := mimetype.Detect(data)
	return detected.Is("image/heic") || detected.Is("image/heif")
}

func normalizeType(contentType string) string {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	return ct
}
