package llm

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

// OpenAI implements the Client interface using the OpenAI chat completions API
type OpenAI struct {
	client  openai.Client
	model   string
	timeout time.Duration
}

// NewOpenAI creates a new OpenAI client. baseURL may be empty.
func NewOpenAI(apiKey, modelName, baseURL string) (*OpenAI, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}
	if modelName == "" {
		modelName = string(openai.ChatModelGPT4oMini)
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &OpenAI{
		client:  openai.NewClient(opts...),
		model:   modelName,
		timeout: 60 * time.Second,
	}, nil
}

// Generate sends the request as a single user message
func (o *OpenAI) Generate(ctx context.Context, req Request) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	content := []openai.ChatCompletionContentPartUnionParam{openai.TextContentPart(req.Prompt)}
	for _, p := range req.Parts {
		if p.IsImage() {
			url := "data:" + p.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(p.Data)
			content = append(content, openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{URL: url}))
			continue
		}
		content = append(content, openai.TextContentPart(textAttachment(p)))
	}

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(content),
		},
	}
	if req.Schema != nil {
		// Not strict: every mapping field is optional
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   "structured_response",
					Schema: req.Schema,
					Strict: openai.Bool(false),
				},
			},
		}
	}

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("creating chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from openai")
	}
	return resp.Choices[0].Message.Content, nil
}

// Close is a no-op; the SDK holds no long-lived resources
func (o *OpenAI) Close() error {
	return nil
}
