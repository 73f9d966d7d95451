package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/bryanwahyu/redflag-scanner/internal/domain/ai"
)

const (
	defaultModel     = "gpt-4o"
	defaultMaxTokens = 2000
)

// Options for NewClient. Zero Timeout keeps the SDK's HTTP client default.
type Options struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

type Client struct {
	api   *openai.Client
	Model string
}

var _ ai.Client = (*Client)(nil)

// NewClient builds the adapter. An empty key still yields a usable value;
// Complete then fails with ai.ErrMissingAPIKey without touching the network.
func NewClient(opts Options) *Client {
	model := opts.Model
	if model == "" {
		model = defaultModel
	}
	if opts.APIKey == "" {
		return &Client{Model: model}
	}

	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	}
	if opts.Timeout > 0 {
		cfg.HTTPClient = &http.Client{Timeout: opts.Timeout}
	}
	return &Client{api: openai.NewClientWithConfig(cfg), Model: model}
}

// Configured reports whether a credential was supplied.
func (c *Client) Configured() bool { return c.api != nil }

func (c *Client) Complete(ctx context.Context, vr ai.VisionRequest) (*ai.Response, error) {
	if c.api == nil {
		return nil, ai.ErrMissingAPIKey
	}

	resp, err := c.api.CreateChatCompletion(ctx, c.buildRequest(vr))
	if err != nil {
		return nil, mapError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, ai.ErrNoContent
	}

	choice := resp.Choices[0]
	return &ai.Response{
		Blocks:     blocksFromMessage(choice.Message),
		Model:      resp.Model,
		StopReason: string(choice.FinishReason),
	}, nil
}

func (c *Client) buildRequest(vr ai.VisionRequest) openai.ChatCompletionRequest {
	maxTokens := vr.MaxOutputTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	req := openai.ChatCompletionRequest{
		Model: c.Model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL: fmt.Sprintf("data:%s;base64,%s", vr.MediaType, vr.Image),
						},
					},
					{
						Type: openai.ChatMessagePartTypeText,
						Text: vr.Prompt,
					},
				},
			},
		},
	}
	if vr.Schema != nil {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   vr.SchemaName,
				Schema: vr.Schema,
				Strict: true,
			},
		}
	}

	// For reasoning models (o1/o3/o4/gpt-5*) use MaxCompletionTokens instead of MaxTokens
	if isReasoningModel(c.Model) {
		req.MaxCompletionTokens = maxTokens
	} else {
		req.MaxTokens = maxTokens
	}
	return req
}

func isReasoningModel(model string) bool {
	for _, p := range []string{"o1", "o3", "o4", "gpt-5"} {
		if strings.HasPrefix(model, p) {
			return true
		}
	}
	return false
}

// blocksFromMessage flattens an assistant message into ordered blocks:
// refusal first, then text/image parts, then tool calls.
func blocksFromMessage(msg openai.ChatCompletionMessage) []ai.ContentBlock {
	var blocks []ai.ContentBlock
	if msg.Refusal != "" {
		blocks = append(blocks, ai.RefusalBlock{Reason: msg.Refusal})
	}

	if len(msg.MultiContent) > 0 {
		for _, part := range msg.MultiContent {
			switch part.Type {
			case openai.ChatMessagePartTypeText:
				blocks = append(blocks, ai.TextBlock{Text: part.Text})
			case openai.ChatMessagePartTypeImageURL:
				if part.ImageURL != nil {
					blocks = append(blocks, ai.ImageBlock{URL: part.ImageURL.URL})
				}
			}
		}
	} else if msg.Content != "" {
		blocks = append(blocks, ai.TextBlock{Text: msg.Content})
	}

	for _, tc := range msg.ToolCalls {
		blocks = append(blocks, ai.ToolUseBlock{ID: tc.ID, Name: tc.Function.Name, Arguments: tc.Function.Arguments})
	}

	// a bare assistant message still counts as (empty) text
	if len(blocks) == 0 {
		blocks = append(blocks, ai.TextBlock{Text: msg.Content})
	}
	return blocks
}

// quotaError keeps the provider message while matching ai.ErrQuotaExceeded.
type quotaError struct{ err error }

func (e *quotaError) Error() string { return e.err.Error() }
func (e *quotaError) Unwrap() []error { return []error{ai.ErrQuotaExceeded, e.err} }

func mapError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
		return &quotaError{err: err}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode == http.StatusTooManyRequests {
		return &quotaError{err: err}
	}
	return err
}
