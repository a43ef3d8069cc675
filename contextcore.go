package contextcore

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/youssefsiam38/contextcore/prune"
	"github.com/youssefsiam38/contextcore/selector"
	"github.com/youssefsiam38/contextcore/types"
)

// Core ties the pruner and selector together behind one construction path.
// The two are independent consumers of the same message list and never call
// each other; Core only shares their configuration and collaborators.
type Core struct {
	config   Config
	pruner   *prune.Pruner
	selector *selector.Selector
	logger   *zap.Logger
}

// New creates a Core, validating all configuration eagerly. The priority,
// sliding-window, and semantic strategies register by default; the summary
// strategy registers when a summarizer is provided.
func New(config Config, opts ...Option) (*Core, error) {
	var options coreOptions
	for _, opt := range opts {
		if err := opt(&options); err != nil {
			return nil, err
		}
	}
	logger := options.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	sel, err := selector.New(config.Selector, options.provider, logger)
	if err != nil {
		return nil, err
	}

	pruner := prune.NewPruner(logger)

	priority, err := prune.NewPriorityStrategy(config.Priority, logger)
	if err != nil {
		return nil, err
	}
	window, err := prune.NewSlidingWindowStrategy(config.SlidingWindow, logger)
	if err != nil {
		return nil, err
	}
	semantic, err := prune.NewSemanticStrategy(config.Semantic, sel, logger)
	if err != nil {
		return nil, err
	}
	builtin := []prune.Strategy{priority, window, semantic}

	if options.summarizer != nil {
		summary, err := prune.NewSummaryStrategy(config.Summary, options.summarizer, logger)
		if err != nil {
			return nil, err
		}
		builtin = append(builtin, summary)
	}

	for _, strategy := range append(builtin, options.strategies...) {
		if err := pruner.RegisterStrategy(strategy); err != nil {
			return nil, err
		}
	}

	return &Core{
		config:   config,
		pruner:   pruner,
		selector: sel,
		logger:   logger,
	}, nil
}

// Config returns the core configuration.
func (c *Core) Config() Config {
	return c.config
}

// Pruner returns the strategy registry, for callers that need direct access
// to history and stats.
func (c *Core) Pruner() *prune.Pruner {
	return c.pruner
}

// Selector returns the relevance selector.
func (c *Core) Selector() *selector.Selector {
	return c.selector
}

// Prune fits messages under maxTokens using the named strategy.
func (c *Core) Prune(ctx context.Context, messages []*types.Message, strategyType string, maxTokens, currentTokens int) (*prune.Result, error) {
	return c.pruner.Prune(ctx, messages, strategyType, maxTokens, currentTokens)
}

// RegisterStrategy adds or replaces a pruning strategy at runtime.
func (c *Core) RegisterStrategy(strategy prune.Strategy) error {
	return c.pruner.RegisterStrategy(strategy)
}

// SelectRelevant returns the messages most relevant to the query within the
// token budget.
func (c *Core) SelectRelevant(ctx context.Context, query string, messages []*types.Message, maxTokens int) ([]selector.SearchResult, error) {
	return c.selector.SelectRelevant(ctx, query, messages, maxTokens)
}

// Nearest returns up to k already-embedded messages nearest to the query by
// embedding similarity alone.
func (c *Core) Nearest(ctx context.Context, query string, k int) ([]selector.SearchResult, error) {
	return c.selector.Nearest(ctx, query, k)
}

// ClearEmbeddingCache drops every cached embedding and resets the vector
// index, forcing fresh provider calls on the next selection.
func (c *Core) ClearEmbeddingCache() {
	c.selector.ClearCache()
}
