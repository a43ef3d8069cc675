package prune

import (
	"context"

	"go.uber.org/zap"

	"github.com/youssefsiam38/contextcore/types"
)

// TypeSlidingWindow is the registry key of the sliding-window strategy.
const TypeSlidingWindow = "sliding-window"

// SlidingWindowStrategy retains the most recent MaxMessages messages,
// dropping the oldest first. A pure recency queue with no scoring. System
// messages ride outside the window when PreserveSystemMessage is set.
type SlidingWindowStrategy struct {
	config SlidingWindowConfig
	logger *zap.Logger
	statsRecorder
}

// NewSlidingWindowStrategy creates the strategy, validating the
// configuration eagerly.
func NewSlidingWindowStrategy(config SlidingWindowConfig, logger *zap.Logger) (*SlidingWindowStrategy, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SlidingWindowStrategy{config: config, logger: logger}, nil
}

// Type returns the registry key.
func (s *SlidingWindowStrategy) Type() string { return TypeSlidingWindow }

// Config returns the strategy configuration.
func (s *SlidingWindowStrategy) Config() any { return s.config }

// Validate checks the strategy configuration.
func (s *SlidingWindowStrategy) Validate() error { return s.config.Validate() }

// Prune implements the Strategy contract.
func (s *SlidingWindowStrategy) Prune(ctx context.Context, messages []*types.Message, maxTokens, currentTokens int) (*Result, error) {
	if currentTokens <= maxTokens {
		res := unchangedResult(TypeSlidingWindow, messages, nil)
		s.record(res)
		return res, nil
	}

	var system, window []*types.Message
	if s.config.PreserveSystemMessage {
		for _, msg := range messages {
			if msg.IsSystem() {
				system = append(system, msg)
			} else {
				window = append(window, msg)
			}
		}
	} else {
		window = messages
	}

	// Windowing needs chronological order; inputs usually arrive that way
	// but the contract does not require it.
	ordered := types.Chronological(window)
	if len(ordered) > s.config.MaxMessages {
		ordered = ordered[len(ordered)-s.config.MaxMessages:]
	}

	kept := make([]*types.Message, 0, len(system)+len(ordered))
	kept = append(kept, system...)
	kept = append(kept, ordered...)
	out := types.Chronological(kept)

	res := &Result{
		Messages:      out,
		RemovedCount:  len(messages) - len(out),
		RemovedTokens: removedTokens(messages, out),
		Strategy:      TypeSlidingWindow,
		Metadata: map[string]any{
			"maxMessages":     s.config.MaxMessages,
			"preservedSystem": len(system),
		},
	}
	s.record(res)
	s.logger.Debug("sliding-window prune complete",
		zap.Int("input", len(messages)),
		zap.Int("kept", len(out)))
	return res, nil
}
