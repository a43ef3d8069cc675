// Package prune keeps a conversation transcript within a fixed token
// budget.
//
// A Pruner is a registry of interchangeable strategies, looked up by type
// string at call time:
//
//   - priority: scores regular messages by priority, recency, and role, then
//     evicts the lowest scorers. System messages are always kept and their
//     token cost reserved first.
//
//   - sliding-window: keeps the most recent MaxMessages messages, a pure
//     recency queue.
//
//   - summary: compacts the older excess of a long transcript into one
//     synthetic summary message produced by a Summarizer collaborator.
//
//   - semantic: keeps the top-K messages most relevant to the conversation
//     tail, reusing the selector's relevance scoring.
//
// All strategies share three guarantees: inputs are never mutated, system
// messages always survive (the sliding window can opt out via
// PreserveSystemMessage), and the returned messages are in chronological
// order regardless of internal ranking.
//
// # Usage
//
// Register strategies and prune before each model call:
//
//	pruner := prune.NewPruner(logger)
//	strategy, _ := prune.NewPriorityStrategy(prune.DefaultPriorityConfig(), logger)
//	_ = pruner.RegisterStrategy(strategy)
//
//	result, err := pruner.Prune(ctx, messages, prune.TypePriority, maxTokens, currentTokens)
//
// A transcript already within budget is returned unchanged with
// RemovedCount = 0.
//
// # Diagnostics
//
// Every operation lands in a bounded history (HistoryLimit entries) and in
// running totals of removed messages and tokens, available via History and
// Stats. Result.Metadata carries strategy-specific detail such as score
// statistics.
package prune
