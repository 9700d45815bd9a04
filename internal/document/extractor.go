package document

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/invopop/jsonschema"

	"github.com/zombor/invoice-normalizer/internal/invoice"
	"github.com/zombor/invoice-normalizer/internal/llm"
)

// Extractor reads invoices out of PDFs and images with a vision capable model
type Extractor struct {
	client llm.Client
}

// NewExtractor creates an Extractor backed by client
func NewExtractor(client llm.Client) *Extractor {
	return &Extractor{client: client}
}

type extraction struct {
	Data []invoice.Invoice `json:"data" jsonschema_description:"Every invoice found in the document"`
}

var extractionSchema = (&jsonschema.Reflector{
	AllowAdditionalProperties: false,
	DoNotReference:            true,
}).Reflect(extraction{})

// Extract converts the document to PNG, asks the model for its invoices and
// normalises the answer
func (e *Extractor) Extract(ctx context.Context, data []byte, contentType string) ([]invoice.Invoice, error) {
	img, err := toPNG(data, contentType)
	if err != nil {
		return nil, err
	}

	slog.Debug("Sending document to model", "content_type", contentType, "png_bytes", len(img))
	text, err := e.client.Generate(ctx, llm.Request{
		Prompt: extractionPrompt,
		Parts:  []llm.Part{{MIMEType: MIMETypePNG, Data: img}},
		Schema: extractionSchema,
	})
	if err != nil {
		return nil, fmt.Errorf("extracting invoices: %w", err)
	}

	return parseInvoices(text)
}

func parseInvoices(text string) ([]invoice.Invoice, error) {
	obj, err := llm.ExtractJSONObject(text)
	if err != nil {
		return nil, err
	}

	var out extraction
	if err := json.Unmarshal([]byte(obj), &out); err != nil {
		return nil, fmt.Errorf("unmarshaling json: %w", err)
	}

	invoices := make([]invoice.Invoice, 0, len(out.Data))
	for _, inv := range out.Data {
		invoices = append(invoices, tidy(inv))
	}
	return invoices, nil
}

// tidy applies the same normalisation the spreadsheet path gets.
// Quantity is always the product sum; a model-supplied total is discarded.
func tidy(inv invoice.Invoice) invoice.Invoice {
	inv.SerialNumber = strings.TrimSpace(inv.SerialNumber)
	inv.CustomerName = strings.TrimSpace(inv.CustomerName)
	inv.CustomerPhone = strings.TrimSpace(inv.CustomerPhone)
	inv.CustomerEmail = strings.TrimSpace(inv.CustomerEmail)
	inv.Date = invoice.NormalizeDate(inv.Date)

	if inv.Products == nil {
		inv.Products = []invoice.Product{}
	}
	var qty float64
	for i := range inv.Products {
		p := &inv.Products[i]
		p.Name = strings.TrimSpace(p.Name)
		if strings.TrimSpace(p.SerialNumber) == "" {
			p.SerialNumber = inv.SerialNumber
		}
		qty += p.Quantity
	}
	inv.Quantity = qty
	return inv
}
