package mapping

import (
	"context"

	"github.com/zombor/invoice-normalizer/internal/llm"
)

// Oracle labels the columns of a sample table.
// The answer is free text expected to contain one JSON object of field -> column index.
type Oracle interface {
	LabelColumns(ctx context.Context, instruction, sample string) (string, error)
}

// LLMOracle asks a language model to label the columns
type LLMOracle struct {
	client llm.Client
}

// NewLLMOracle creates an Oracle backed by client
func NewLLMOracle(client llm.Client) *LLMOracle {
	return &LLMOracle{client: client}
}

// LabelColumns sends the instruction with the sample attached as CSV
func (o *LLMOracle) LabelColumns(ctx context.Context, instruction, sample string) (string, error) {
	return o.client.Generate(ctx, llm.Request{
		Prompt: instruction,
		Parts:  []llm.Part{{MIMEType: "text/csv", Data: []byte(sample)}},
		Schema: ResponseSchema,
	})
}
