package prune

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youssefsiam38/contextcore/summarize"
	"github.com/youssefsiam38/contextcore/types"
)

// fakeSummarizer records its inputs and returns a fixed summary message.
type fakeSummarizer struct {
	calls   int
	lastLen int
	err     error
}

func (f *fakeSummarizer) Summarize(ctx context.Context, messages []*types.Message) (*types.Message, error) {
	f.calls++
	f.lastLen = len(messages)
	if f.err != nil {
		return nil, f.err
	}
	text := fmt.Sprintf("summary of %d messages", len(messages))
	return summarize.NewSummaryMessage(text, messages), nil
}

func summaryTestMessages(regular int) []*types.Message {
	msgs := []*types.Message{testMessage("sys", types.RoleSystem, 20, 0)}
	for i := 0; i < regular; i++ {
		id := fmt.Sprintf("m%02d", i)
		msgs = append(msgs, testMessage(id, types.RoleUser, 50, time.Duration(i+1)*time.Minute))
	}
	return msgs
}

func TestNewSummaryStrategyRequiresSummarizer(t *testing.T) {
	_, err := NewSummaryStrategy(DefaultSummaryConfig(), nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestNewSummaryStrategyInvalidConfig(t *testing.T) {
	cfg := SummaryConfig{KeepRecentCount: 10, SummaryThreshold: 10}
	_, err := NewSummaryStrategy(cfg, &fakeSummarizer{}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestSummaryWithinBudget(t *testing.T) {
	fake := &fakeSummarizer{}
	s, err := NewSummaryStrategy(DefaultSummaryConfig(), fake, nil)
	require.NoError(t, err)

	msgs := summaryTestMessages(5)
	res, err := s.Prune(context.Background(), msgs, 10000, 270)
	require.NoError(t, err)
	assert.Equal(t, msgs, res.Messages)
	assert.Zero(t, fake.calls)
}

func TestSummaryBelowThreshold(t *testing.T) {
	fake := &fakeSummarizer{}
	cfg := SummaryConfig{KeepRecentCount: 3, SummaryThreshold: 10}
	s, err := NewSummaryStrategy(cfg, fake, nil)
	require.NoError(t, err)

	// Over budget but under the message-count threshold: nothing to compact.
	msgs := summaryTestMessages(5)
	res, err := s.Prune(context.Background(), msgs, 100, 270)
	require.NoError(t, err)
	assert.Equal(t, msgs, res.Messages)
	assert.Equal(t, 0, res.Metadata["summarizedCount"])
	assert.Zero(t, fake.calls)
}

func TestSummaryCompactsOlderMessages(t *testing.T) {
	fake := &fakeSummarizer{}
	cfg := SummaryConfig{KeepRecentCount: 3, SummaryThreshold: 5}
	s, err := NewSummaryStrategy(cfg, fake, nil)
	require.NoError(t, err)

	msgs := summaryTestMessages(8)
	res, err := s.Prune(context.Background(), msgs, 200, 420)
	require.NoError(t, err)

	assert.Equal(t, 1, fake.calls)
	assert.Equal(t, 5, fake.lastLen)
	assert.Equal(t, 5, res.Metadata["summarizedCount"])

	// Output: system, synthetic summary, then the three most recent verbatim.
	require.Len(t, res.Messages, 5)
	assert.Equal(t, "sys", res.Messages[0].ID)
	assert.Equal(t, types.RoleAssistant, res.Messages[1].Role)
	assert.Contains(t, res.Messages[1].Content, "summary of 5 messages")
	assert.Equal(t, "m05", res.Messages[2].ID)
	assert.Equal(t, "m06", res.Messages[3].ID)
	assert.Equal(t, "m07", res.Messages[4].ID)
	assert.Equal(t, 4, res.RemovedCount)
}

func TestSummarySummaryMessageMetadata(t *testing.T) {
	fake := &fakeSummarizer{}
	cfg := SummaryConfig{KeepRecentCount: 2, SummaryThreshold: 4}
	s, err := NewSummaryStrategy(cfg, fake, nil)
	require.NoError(t, err)

	msgs := summaryTestMessages(6)
	res, err := s.Prune(context.Background(), msgs, 150, 320)
	require.NoError(t, err)

	summary := res.Messages[1]
	assert.NotEmpty(t, summary.ID)
	assert.True(t, summary.Metadata[summarize.MetadataSummary].(bool))
	assert.Equal(t, 4, summary.Metadata[summarize.MetadataSummarizedCount])
	// The summary sits chronologically at the end of the span it replaces.
	assert.False(t, summary.Timestamp.After(res.Messages[2].Timestamp))
}

func TestSummarySummarizerFailure(t *testing.T) {
	fake := &fakeSummarizer{err: errors.New("model unavailable")}
	cfg := SummaryConfig{KeepRecentCount: 2, SummaryThreshold: 4}
	s, err := NewSummaryStrategy(cfg, fake, nil)
	require.NoError(t, err)

	msgs := summaryTestMessages(6)
	_, err = s.Prune(context.Background(), msgs, 150, 320)
	require.Error(t, err)

	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, TypeSummary, perr.Strategy)
	assert.Equal(t, 4, perr.Context["summarizedCount"])
}
