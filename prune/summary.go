package prune

import (
	"context"

	"go.uber.org/zap"

	"github.com/youssefsiam38/contextcore/summarize"
	"github.com/youssefsiam38/contextcore/types"
)

// TypeSummary is the registry key of the summary-based strategy.
const TypeSummary = "summary"

// SummaryStrategy keeps the most recent KeepRecentCount messages verbatim.
// Once the transcript exceeds SummaryThreshold messages, the older excess is
// compacted into a single synthetic summary message produced by the
// Summarizer collaborator, reducing message count and token cost at once.
type SummaryStrategy struct {
	config     SummaryConfig
	summarizer summarize.Summarizer
	logger     *zap.Logger
	statsRecorder
}

// NewSummaryStrategy creates the strategy. The summarizer is required; the
// configuration is validated eagerly.
func NewSummaryStrategy(config SummaryConfig, summarizer summarize.Summarizer, logger *zap.Logger) (*SummaryStrategy, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if summarizer == nil {
		return nil, NewError("NewSummaryStrategy", ErrInvalidConfig).
			WithStrategy(TypeSummary).
			WithContext("reason", "summarizer is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SummaryStrategy{config: config, summarizer: summarizer, logger: logger}, nil
}

// Type returns the registry key.
func (s *SummaryStrategy) Type() string { return TypeSummary }

// Config returns the strategy configuration.
func (s *SummaryStrategy) Config() any { return s.config }

// Validate checks the strategy configuration.
func (s *SummaryStrategy) Validate() error {
	if s.summarizer == nil {
		return NewError("Validate", ErrInvalidConfig).
			WithStrategy(TypeSummary).
			WithContext("reason", "summarizer is required")
	}
	return s.config.Validate()
}

// Prune implements the Strategy contract. Summarization is a blocking
// collaborator call; callers bound it via ctx.
func (s *SummaryStrategy) Prune(ctx context.Context, messages []*types.Message, maxTokens, currentTokens int) (*Result, error) {
	if currentTokens <= maxTokens {
		res := unchangedResult(TypeSummary, messages, nil)
		s.record(res)
		return res, nil
	}

	var system, regular []*types.Message
	for _, msg := range messages {
		if msg.IsSystem() {
			system = append(system, msg)
		} else {
			regular = append(regular, msg)
		}
	}

	// Below the threshold there is no excess to compact, even when the
	// caller is over budget; this strategy only acts on message count.
	if len(messages) <= s.config.SummaryThreshold || len(regular) <= s.config.KeepRecentCount {
		res := unchangedResult(TypeSummary, messages, map[string]any{
			"summarizedCount": 0,
		})
		s.record(res)
		return res, nil
	}

	ordered := types.Chronological(regular)
	split := len(ordered) - s.config.KeepRecentCount
	older := ordered[:split]
	recent := ordered[split:]

	summary, err := s.summarizer.Summarize(ctx, older)
	if err != nil {
		// No safe partial result on summarizer failure.
		return nil, NewError("Prune", err).WithStrategy(TypeSummary).
			WithContext("summarizedCount", len(older))
	}

	kept := make([]*types.Message, 0, len(system)+1+len(recent))
	kept = append(kept, system...)
	kept = append(kept, summary)
	kept = append(kept, recent...)
	out := types.Chronological(kept)

	res := &Result{
		Messages:      out,
		RemovedCount:  len(messages) - len(out),
		RemovedTokens: removedTokens(messages, out),
		Strategy:      TypeSummary,
		Metadata: map[string]any{
			"summarizedCount": len(older),
			"summaryTokens":   summary.Tokens,
		},
	}
	s.record(res)
	s.logger.Debug("summary prune complete",
		zap.Int("input", len(messages)),
		zap.Int("summarized", len(older)),
		zap.Int("summaryTokens", summary.Tokens))
	return res, nil
}
