package ai

// BlockKind tags a content block.
type BlockKind string

const (
	BlockText    BlockKind = "text"
	BlockRefusal BlockKind = "refusal"
	BlockToolUse BlockKind = "tool_use"
	BlockImage   BlockKind = "image"
)

// ContentBlock is one of TextBlock, RefusalBlock, ToolUseBlock, ImageBlock.
type ContentBlock interface {
	Kind() BlockKind
}

type TextBlock struct {
	Text string
}

func (TextBlock) Kind() BlockKind { return BlockText }

// RefusalBlock: the model declined to answer.
type RefusalBlock struct {
	Reason string
}

func (RefusalBlock) Kind() BlockKind { return BlockRefusal }

type ToolUseBlock struct {
	ID        string
	Name      string
	Arguments string
}

func (ToolUseBlock) Kind() BlockKind { return BlockToolUse }

type ImageBlock struct {
	URL string
}

func (ImageBlock) Kind() BlockKind { return BlockImage }
