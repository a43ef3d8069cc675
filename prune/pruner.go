package prune

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/youssefsiam38/contextcore/types"
)

// HistoryLimit caps the pruner's operation history; older entries are
// silently dropped.
const HistoryLimit = 100

// HistoryEntry records one completed pruning operation.
type HistoryEntry struct {
	Strategy      string
	Timestamp     time.Time
	InputCount    int
	KeptCount     int
	RemovedCount  int
	RemovedTokens int
	MaxTokens     int
	CurrentTokens int
}

// PrunerStats aggregates counters across all strategies.
type PrunerStats struct {
	Operations      int
	MessagesRemoved int
	TokensRemoved   int
}

// Pruner is a registry of pruning strategies. It looks strategies up by
// type, delegates pruning, and tracks a bounded operation history plus
// running totals for diagnostics.
//
// Registration and pruning are safe for concurrent use; history writes are
// serialized behind a mutex.
type Pruner struct {
	mu         sync.RWMutex
	strategies map[string]Strategy
	history    []HistoryEntry
	stats      PrunerStats
	logger     *zap.Logger
}

// NewPruner creates an empty registry. A nil logger disables logging.
func NewPruner(logger *zap.Logger) *Pruner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pruner{
		strategies: make(map[string]Strategy),
		logger:     logger,
	}
}

// RegisterStrategy stores a strategy keyed by its Type. Registering the same
// type again overwrites the previous entry (last registration wins).
// Strategies that fail validation are rejected.
func (p *Pruner) RegisterStrategy(strategy Strategy) error {
	if strategy == nil {
		return NewError("RegisterStrategy", ErrInvalidConfig).
			WithContext("reason", "strategy is nil")
	}
	if err := strategy.Validate(); err != nil {
		return NewError("RegisterStrategy", err).WithStrategy(strategy.Type())
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.strategies[strategy.Type()] = strategy
	return nil
}

// StrategyTypes returns the registered strategy types, sorted.
func (p *Pruner) StrategyTypes() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]string, 0, len(p.strategies))
	for t := range p.strategies {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Prune fits messages under maxTokens using the named strategy.
// currentTokens is the caller's precomputed total for the input.
//
// An empty input is a success, not an error: the result carries the
// "no-messages" reason and nothing is delegated.
func (p *Pruner) Prune(ctx context.Context, messages []*types.Message, strategyType string, maxTokens, currentTokens int) (*Result, error) {
	if maxTokens <= 0 {
		return nil, NewError("Prune", ErrInvalidBudget).
			WithStrategy(strategyType).
			WithContext("maxTokens", maxTokens)
	}
	if currentTokens < 0 {
		return nil, NewError("Prune", ErrInvalidBudget).
			WithStrategy(strategyType).
			WithContext("currentTokens", currentTokens)
	}

	p.mu.RLock()
	strategy, ok := p.strategies[strategyType]
	p.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q (registered: %s)",
			ErrUnknownStrategy, strategyType, strings.Join(p.StrategyTypes(), ", "))
	}

	if len(messages) == 0 {
		return &Result{
			Messages: []*types.Message{},
			Strategy: strategyType,
			Metadata: map[string]any{"reason": "no-messages"},
		}, nil
	}

	result, err := strategy.Prune(ctx, messages, maxTokens, currentTokens)
	if err != nil {
		return nil, err
	}

	p.recordOperation(result, len(messages), maxTokens, currentTokens)
	p.logger.Debug("prune complete",
		zap.String("strategy", strategyType),
		zap.Int("input", len(messages)),
		zap.Int("kept", len(result.Messages)),
		zap.Int("removedTokens", result.RemovedTokens))
	return result, nil
}

// History returns a copy of the recorded operations, oldest first.
func (p *Pruner) History() []HistoryEntry {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]HistoryEntry, len(p.history))
	copy(out, p.history)
	return out
}

// Stats returns the running totals across all strategies.
func (p *Pruner) Stats() PrunerStats {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.stats
}

// recordOperation appends a history entry, dropping the oldest past
// HistoryLimit, and updates the running totals.
func (p *Pruner) recordOperation(result *Result, inputCount, maxTokens, currentTokens int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.history = append(p.history, HistoryEntry{
		Strategy:      result.Strategy,
		Timestamp:     time.Now(),
		InputCount:    inputCount,
		KeptCount:     len(result.Messages),
		RemovedCount:  result.RemovedCount,
		RemovedTokens: result.RemovedTokens,
		MaxTokens:     maxTokens,
		CurrentTokens: currentTokens,
	})
	if len(p.history) > HistoryLimit {
		p.history = p.history[len(p.history)-HistoryLimit:]
	}

	p.stats.Operations++
	p.stats.MessagesRemoved += result.RemovedCount
	p.stats.TokensRemoved += result.RemovedTokens
}
