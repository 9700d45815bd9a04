package llm

import (
	"context"
	"strings"
)

// Part is an attachment sent alongside the prompt
type Part struct {
	MIMEType string
	Data     []byte
}

// IsImage reports whether the part carries image data
func (p Part) IsImage() bool {
	return strings.HasPrefix(strings.ToLower(p.MIMEType), "image/")
}

// Request is a single prompt plus attachments
type Request struct {
	Prompt string
	Parts  []Part
	// Schema is an optional JSON schema for providers that support structured output
	Schema any
}

// Client defines the interface for text generation providers
type Client interface {
	// Generate sends the request and returns the model's raw text answer
	Generate(ctx context.Context, req Request) (string, error)
	// Close closes the client and releases resources
	Close() error
}

// textAttachment renders a non-image part inline for providers without file inputs
func textAttachment(p Part) string {
	return "\n\n```" + subtype(p.MIMEType) + "\n" + string(p.Data) + "\n```"
}

// subtype returns "csv" for "text/csv"
func subtype(mimeType string) string {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = mimeType[:i]
	}
	if i := strings.IndexByte(mimeType, '/'); i >= 0 {
		return mimeType[i+1:]
	}
	return mimeType
}
