// Package contextcore is the context-management core of an LLM agent
// runtime: it keeps a growing conversation transcript within a fixed token
// budget and, on demand, selects the subset of the transcript most relevant
// to a query.
//
// The package is a library, not a service. Tokenization happens upstream
// (every message arrives with a precomputed token count), embeddings and
// summaries come from injected collaborators, and persistence/transport are
// out of scope.
//
// # Quick Start
//
// Create a Core and prune before each model call:
//
//	core, err := contextcore.New(
//	    contextcore.DefaultConfig(),
//	    contextcore.WithLogger(logger),
//	    contextcore.WithEmbeddingProvider(embedding.NewOpenAIProvider(&client, "")),
//	    contextcore.WithSummarizer(summarize.NewAnthropicSummarizer(&anthropicClient, model, 4096)),
//	)
//	if err != nil {
//	    return err
//	}
//
//	result, err := core.Prune(ctx, messages, prune.TypePriority, maxTokens, currentTokens)
//
// Recall older context for a specific question:
//
//	hits, err := core.SelectRelevant(ctx, "how did we configure the deploy pipeline?", messages, 2000)
//
// # Strategies
//
// Four pruning strategies register by default: priority, sliding-window,
// semantic, and (when a summarizer is configured) summary. Custom strategies
// implementing prune.Strategy can be registered alongside them and selected
// by name per call.
//
// # Degradation
//
// Without an embedding provider, relevance ranking runs on keyword and
// temporal signals alone with weights renormalized. Per-message embedding
// failures degrade that message's semantic score to zero instead of failing
// the call. Configuration problems, unknown strategy names, and infeasible
// budgets are hard failures.
package contextcore
