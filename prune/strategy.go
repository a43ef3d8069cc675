package prune

import (
	"context"
	"sync"

	"github.com/youssefsiam38/contextcore/types"
)

// Strategy is the contract every eviction policy implements. Strategies are
// registered with a Pruner by their Type string and swapped at runtime.
type Strategy interface {
	// Type returns the strategy's registry key.
	Type() string

	// Config returns the strategy's immutable configuration, for diagnostics.
	Config() any

	// Prune reduces messages to fit maxTokens. currentTokens is the caller's
	// precomputed total for the input. The returned messages are always in
	// chronological order and the inputs are never mutated.
	Prune(ctx context.Context, messages []*types.Message, maxTokens, currentTokens int) (*Result, error)

	// Validate checks the strategy configuration. A strategy that fails
	// validation is rejected by the registry.
	Validate() error

	// Stats returns aggregate counters across this strategy's invocations.
	Stats() Stats
}

// Result is the outcome of one pruning operation.
type Result struct {
	// Messages is the retained sequence, sorted by timestamp ascending.
	Messages []*types.Message

	// RemovedCount is how many input messages were not retained.
	RemovedCount int

	// RemovedTokens is the token total of the removed messages.
	RemovedTokens int

	// Strategy is the type of the strategy that produced this result.
	Strategy string

	// Metadata carries strategy-specific diagnostics (score statistics,
	// summary sizes, and similar).
	Metadata map[string]any
}

// Stats aggregates per-strategy counters.
type Stats struct {
	// Invocations counts completed Prune calls.
	Invocations int

	// MessagesRemoved totals removed messages across invocations.
	MessagesRemoved int

	// TokensRemoved totals removed tokens across invocations.
	TokensRemoved int
}

// statsRecorder is embedded by strategies to track Stats under a mutex.
type statsRecorder struct {
	mu    sync.Mutex
	stats Stats
}

func (r *statsRecorder) record(res *Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stats.Invocations++
	r.stats.MessagesRemoved += res.RemovedCount
	r.stats.TokensRemoved += res.RemovedTokens
}

// Stats returns a copy of the recorded counters.
func (r *statsRecorder) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}

// unchangedResult is the shared no-op fast path: the input is already within
// budget, so it is returned as-is (copied, never aliased) with zero
// removals.
func unchangedResult(strategyType string, messages []*types.Message, metadata map[string]any) *Result {
	kept := make([]*types.Message, len(messages))
	copy(kept, messages)
	if metadata == nil {
		metadata = map[string]any{}
	}
	return &Result{
		Messages: kept,
		Strategy: strategyType,
		Metadata: metadata,
	}
}

// removedTokens computes the token difference between the input and the kept
// set. Token accounting uses the messages' own counts, not the caller's
// currentTokens estimate.
func removedTokens(input, kept []*types.Message) int {
	return types.SumTokens(input) - types.SumTokens(kept)
}
