package ai

import (
	"context"
	"encoding/json"
)

// Client is the port to a multimodal completion provider.
type Client interface {
	Complete(ctx context.Context, req VisionRequest) (*Response, error)
}

// VisionRequest is one image plus an instruction, with the output
// constrained to a JSON schema.
type VisionRequest struct {
	Image           string // base64, no data: prefix
	MediaType       string
	Prompt          string
	SchemaName      string
	Schema          json.Marshaler
	MaxOutputTokens int
}

// Response holds the content blocks of the provider reply in order.
type Response struct {
	Blocks     []ContentBlock
	Model      string
	StopReason string
}

// First returns the first content block, if any.
func (r *Response) First() (ContentBlock, bool) {
	if r == nil || len(r.Blocks) == 0 {
		return nil, false
	}
	return r.Blocks[0], true
}
