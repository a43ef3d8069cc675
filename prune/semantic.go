package prune

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/youssefsiam38/contextcore/selector"
	"github.com/youssefsiam38/contextcore/types"
)

// TypeSemantic is the registry key of the semantic top-K strategy.
const TypeSemantic = "semantic"

// SemanticStrategy keeps the TopK messages most relevant to the current
// conversation tail, reusing the selector's relevance function. Messages
// below RelevanceThreshold are dropped regardless of K; system messages are
// always preserved. Without an embedding provider the relevance function
// degrades to keyword and temporal signals, which this strategy inherits.
type SemanticStrategy struct {
	config SemanticConfig
	scorer *selector.Selector
	logger *zap.Logger
	statsRecorder
}

// NewSemanticStrategy creates the strategy around the given selector. The
// configuration is validated eagerly.
func NewSemanticStrategy(config SemanticConfig, scorer *selector.Selector, logger *zap.Logger) (*SemanticStrategy, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if scorer == nil {
		return nil, NewError("NewSemanticStrategy", ErrInvalidConfig).
			WithStrategy(TypeSemantic).
			WithContext("reason", "selector is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SemanticStrategy{config: config, scorer: scorer, logger: logger}, nil
}

// Type returns the registry key.
func (s *SemanticStrategy) Type() string { return TypeSemantic }

// Config returns the strategy configuration.
func (s *SemanticStrategy) Config() any { return s.config }

// Validate checks the strategy configuration.
func (s *SemanticStrategy) Validate() error {
	if s.scorer == nil {
		return NewError("Validate", ErrInvalidConfig).
			WithStrategy(TypeSemantic).
			WithContext("reason", "selector is required")
	}
	return s.config.Validate()
}

// Prune implements the Strategy contract.
func (s *SemanticStrategy) Prune(ctx context.Context, messages []*types.Message, maxTokens, currentTokens int) (*Result, error) {
	if currentTokens <= maxTokens {
		res := unchangedResult(TypeSemantic, messages, nil)
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

	systemTokens := types.SumTokens(system)
	if systemTokens > maxTokens {
		return nil, NewError("Prune", ErrBudgetInfeasible).
			WithStrategy(TypeSemantic).
			WithContext("systemTokens", systemTokens).
			WithContext("maxTokens", maxTokens)
	}

	query := s.tailQuery(regular)
	scored, err := s.scorer.ScoreMessages(ctx, query, regular)
	if err != nil {
		return nil, NewError("Prune", err).WithStrategy(TypeSemantic)
	}

	// Admit in relevance order: topK above the threshold, then greedily
	// within whatever budget the system messages left over.
	kept := make([]*types.Message, 0, len(messages))
	kept = append(kept, system...)
	keptTokens := systemTokens
	admitted := 0
	belowThreshold := 0
	for _, result := range scored {
		if admitted >= s.config.TopK {
			break
		}
		if result.Score < s.config.RelevanceThreshold {
			belowThreshold = len(scored) - admitted
			break
		}
		if keptTokens+result.Message.Tokens > maxTokens {
			break
		}
		kept = append(kept, result.Message)
		keptTokens += result.Message.Tokens
		admitted++
	}

	out := types.Chronological(kept)

	res := &Result{
		Messages:      out,
		RemovedCount:  len(messages) - len(out),
		RemovedTokens: removedTokens(messages, out),
		Strategy:      TypeSemantic,
		Metadata: map[string]any{
			"topK":           s.config.TopK,
			"admitted":       admitted,
			"belowThreshold": belowThreshold,
		},
	}
	s.record(res)
	s.logger.Debug("semantic prune complete",
		zap.Int("input", len(messages)),
		zap.Int("kept", len(out)),
		zap.Int("keptTokens", keptTokens))
	return res, nil
}

// tailQuery builds the relevance query from the newest TailMessages
// non-system messages, representing what the conversation is currently
// about.
func (s *SemanticStrategy) tailQuery(regular []*types.Message) string {
	ordered := types.Chronological(regular)
	start := len(ordered) - s.config.TailMessages
	if start < 0 {
		start = 0
	}

	var parts []string
	for _, msg := range ordered[start:] {
		if text := msg.ScoringText(); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n")
}
