// Package summarize produces synthetic summary messages that stand in for a
// compacted span of conversation. The summary-based pruning strategy is its
// only consumer inside this module.
package summarize

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/google/uuid"

	"github.com/youssefsiam38/contextcore/tokens"
	"github.com/youssefsiam38/contextcore/types"
)

// ErrSummarizationFailed indicates the summarization call failed or produced
// no usable output.
var ErrSummarizationFailed = errors.New("summarization failed")

// MetadataSummary marks a synthetic message produced by a Summarizer.
const MetadataSummary = "summary"

// MetadataSummarizedCount carries the number of messages a summary replaced.
const MetadataSummarizedCount = "summarizedCount"

// Summarizer compacts a span of messages into one synthetic message.
type Summarizer interface {
	Summarize(ctx context.Context, messages []*types.Message) (*types.Message, error)
}

// AnthropicSummarizer implements Summarizer using Claude's streaming API.
type AnthropicSummarizer struct {
	client    *anthropic.Client
	model     string
	maxTokens int64
}

// NewAnthropicSummarizer creates a summarizer with the given client and
// model. maxTokens bounds the summary response length.
func NewAnthropicSummarizer(client *anthropic.Client, model string, maxTokens int64) *AnthropicSummarizer {
	return &AnthropicSummarizer{
		client:    client,
		model:     model,
		maxTokens: maxTokens,
	}
}

// Summarize generates one summary message covering the given span. The
// returned message takes the timestamp of the last summarized message so it
// sorts into the span's chronological position.
func (s *AnthropicSummarizer) Summarize(ctx context.Context, messages []*types.Message) (*types.Message, error) {
	if len(messages) == 0 {
		return nil, fmt.Errorf("%w: empty message span", ErrSummarizationFailed)
	}

	transcript := FormatTranscript(messages)

	stream := s.client.Messages.NewStreaming(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(s.model),
		MaxTokens: s.maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: SystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(BuildUserPrompt(transcript))),
		},
	})

	message := anthropic.Message{}
	for stream.Next() {
		event := stream.Current()
		if err := message.Accumulate(event); err != nil {
			return nil, fmt.Errorf("%w: failed to accumulate stream: %v", ErrSummarizationFailed, err)
		}
	}
	if err := stream.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSummarizationFailed, err)
	}

	var summary strings.Builder
	for _, block := range message.Content {
		if text, ok := block.AsAny().(anthropic.TextBlock); ok {
			summary.WriteString(text.Text)
		}
	}
	if summary.Len() == 0 {
		return nil, fmt.Errorf("%w: empty response from summarizer", ErrSummarizationFailed)
	}

	return NewSummaryMessage(summary.String(), messages), nil
}

// NewSummaryMessage builds the synthetic message carrying a summary of the
// given span. Its token count is approximated since no tokenizer runs inside
// this module.
func NewSummaryMessage(text string, span []*types.Message) *types.Message {
	msg := &types.Message{
		ID:        uuid.NewString(),
		Role:      types.RoleAssistant,
		Content:   text,
		Timestamp: span[len(span)-1].Timestamp,
		Tokens:    tokens.Approximate(text),
		Metadata: map[string]any{
			MetadataSummary:         true,
			MetadataSummarizedCount: len(span),
		},
	}
	return msg
}

// FormatTranscript renders messages as readable text for the summarization
// prompt.
func FormatTranscript(messages []*types.Message) string {
	var b strings.Builder
	for _, msg := range messages {
		b.WriteString(roleLabel(msg.Role))
		b.WriteString(":\n")
		b.WriteString(msg.ScoringText())
		b.WriteString("\n\n")
	}
	return b.String()
}

func roleLabel(role types.Role) string {
	switch role {
	case types.RoleAssistant:
		return "Assistant"
	case types.RoleSystem:
		return "System"
	case types.RoleTool, types.RoleFunction:
		return "Tool"
	default:
		return "User"
	}
}
