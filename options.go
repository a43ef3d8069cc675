package contextcore

import (
	"go.uber.org/zap"

	"github.com/youssefsiam38/contextcore/embedding"
	"github.com/youssefsiam38/contextcore/prune"
	"github.com/youssefsiam38/contextcore/summarize"
)

// Option is a functional option for configuring a Core.
type Option func(*coreOptions) error

type coreOptions struct {
	logger     *zap.Logger
	provider   embedding.Provider
	summarizer summarize.Summarizer
	strategies []prune.Strategy
}

// WithLogger sets the logger used by every component. Defaults to a no-op
// logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *coreOptions) error {
		o.logger = logger
		return nil
	}
}

// WithEmbeddingProvider enables semantic scoring in the selector and the
// semantic strategy. Without a provider both degrade to keyword and temporal
// signals.
func WithEmbeddingProvider(provider embedding.Provider) Option {
	return func(o *coreOptions) error {
		o.provider = provider
		return nil
	}
}

// WithSummarizer enables the summary-based pruning strategy.
func WithSummarizer(summarizer summarize.Summarizer) Option {
	return func(o *coreOptions) error {
		o.summarizer = summarizer
		return nil
	}
}

// WithStrategy registers additional pruning strategies beyond the built-in
// set. A strategy sharing a built-in type overrides it (last registration
// wins).
func WithStrategy(strategies ...prune.Strategy) Option {
	return func(o *coreOptions) error {
		o.strategies = append(o.strategies, strategies...)
		return nil
	}
}
