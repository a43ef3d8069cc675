// Package selector ranks conversation messages by relevance to a query.
//
// Selection is independent of pruning: given a free-text query, the Selector
// combines semantic similarity (embeddings), keyword overlap (Jaccard), and
// recency (exponential decay) into one weighted score per message, then
// returns the best-scoring messages within a token budget. Embeddings are
// cached per message ID and per query string so repeated selections do not
// repeat provider calls.
package selector

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/youssefsiam38/contextcore/embedding"
	"github.com/youssefsiam38/contextcore/types"
)

// Sentinel errors for selection operations.
var (
	// ErrInvalidConfig indicates invalid selector configuration.
	ErrInvalidConfig = errors.New("invalid selector configuration")

	// ErrInvalidBudget indicates a non-positive token budget.
	ErrInvalidBudget = errors.New("invalid token budget")

	// ErrNoScoringSignal indicates that no scoring component is available,
	// e.g. all weight sits on semantic scoring but no provider is configured.
	ErrNoScoringSignal = errors.New("no scoring components available")

	// ErrNoEmbeddingProvider indicates an operation that requires embeddings
	// was called on a selector without a provider.
	ErrNoEmbeddingProvider = errors.New("no embedding provider configured")

	// ErrEmbeddingFailed indicates the query embedding could not be computed
	// for an operation that cannot proceed without it.
	ErrEmbeddingFailed = errors.New("query embedding failed")
)

// ReasonRecency is attached to results of the no-query recency fallback.
const ReasonRecency = "Selected by recency"

// maxConcurrentEmbeds bounds how many embedding calls are in flight for one
// scoring pass.
const maxConcurrentEmbeds = 8

// SearchResult pairs a message with its combined relevance score in [0, 1]
// and a short human-readable explanation of why it scored that way.
type SearchResult struct {
	Message *types.Message
	Score   float64
	Reason  string
}

// Selector ranks messages by relevance to a query.
type Selector struct {
	config   Config
	provider embedding.Provider
	cache    *embeddingCache
	index    *VectorIndex
	logger   *zap.Logger

	// now is swappable for deterministic temporal scoring in tests.
	now func() time.Time
}

// New creates a Selector. provider may be nil, in which case semantic
// scoring is omitted and the keyword/temporal weights are renormalized at
// scoring time. Configuration is validated eagerly.
func New(config Config, provider embedding.Provider, logger *zap.Logger) (*Selector, error) {
	config.ApplyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Selector{
		config:   config,
		provider: provider,
		cache:    newEmbeddingCache(),
		index:    NewVectorIndex(),
		logger:   logger,
		now:      time.Now,
	}, nil
}

// Config returns the selector configuration.
func (s *Selector) Config() Config {
	return s.config
}

// SelectRelevant returns up to MaxResults messages whose combined score
// exceeds MinScore, ordered by score descending, admitted greedily while the
// cumulative token count stays within maxTokens. Admission stops at the
// first message that would overflow the budget.
//
// An empty or whitespace query bypasses scoring entirely and falls back to
// the most recent messages within the budget; the embedding provider is
// never invoked on that path.
func (s *Selector) SelectRelevant(ctx context.Context, query string, messages []*types.Message, maxTokens int) ([]SearchResult, error) {
	if maxTokens <= 0 {
		return nil, fmt.Errorf("%w: maxTokens must be positive, got %d", ErrInvalidBudget, maxTokens)
	}
	if len(messages) == 0 {
		return []SearchResult{}, nil
	}
	if strings.TrimSpace(query) == "" {
		return s.selectRecent(messages, maxTokens), nil
	}

	scored, err := s.ScoreMessages(ctx, query, messages)
	if err != nil {
		return nil, err
	}

	selected := make([]SearchResult, 0, s.config.MaxResults)
	usedTokens := 0
	for _, result := range scored {
		if len(selected) >= s.config.MaxResults {
			break
		}
		// Results are sorted by score descending, so the first score at or
		// below the cutoff ends the scan.
		if result.Score <= s.config.MinScore {
			break
		}
		if usedTokens+result.Message.Tokens > maxTokens {
			break
		}
		selected = append(selected, result)
		usedTokens += result.Message.Tokens
	}

	s.logger.Debug("selected relevant messages",
		zap.Int("candidates", len(messages)),
		zap.Int("selected", len(selected)),
		zap.Int("usedTokens", usedTokens),
		zap.Int("maxTokens", maxTokens))

	return selected, nil
}

// ScoreMessages computes the combined relevance score of every message
// against the query and returns all results sorted by score descending.
// No minimum-score, result-count, or token filtering is applied; callers
// that need the pruning-side relevance function use this directly.
func (s *Selector) ScoreMessages(ctx context.Context, query string, messages []*types.Message) ([]SearchResult, error) {
	wSem := s.config.SemanticWeight
	wKeyword := s.config.KeywordWeight
	wTemporal := s.config.TemporalWeight

	// When embeddings are unavailable the semantic component is omitted, not
	// zeroed: the remaining weights are renormalized to sum to 1.0 over the
	// components actually computed.
	semanticActive := s.provider != nil && wSem > 0
	if !semanticActive {
		rest := wKeyword + wTemporal
		if rest <= 0 {
			return nil, fmt.Errorf("%w: semantic scoring disabled and remaining weights are zero", ErrNoScoringSignal)
		}
		wSem = 0
		wKeyword /= rest
		wTemporal /= rest
	}

	var queryVec []float32
	if semanticActive {
		queryVec = s.queryEmbedding(ctx, query)
		if queryVec != nil {
			s.embedMessages(ctx, messages)
		}
	}

	queryTokens := tokenize(query)
	now := s.now()

	results := make([]SearchResult, 0, len(messages))
	for _, msg := range messages {
		semantic := 0.0
		if queryVec != nil {
			if vec, ok := s.cache.message(msg.ID); ok {
				semantic = clamp01(cosine(queryVec, vec))
			}
		}
		keyword := jaccard(queryTokens, tokenize(msg.ScoringText()))
		temporal := temporalScore(now.Sub(msg.Timestamp), s.config.RecencyDecayFactor)

		score := clamp01(wSem*semantic + wKeyword*keyword + wTemporal*temporal)
		results = append(results, SearchResult{
			Message: msg,
			Score:   score,
			Reason:  buildReason(semantic, keyword, temporal, semanticActive),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results, nil
}

// Nearest returns up to k messages nearest to the query by embedding
// similarity alone. Only messages whose embeddings have already been
// computed (via SelectRelevant, ScoreMessages, or Warm) are searchable.
func (s *Selector) Nearest(ctx context.Context, query string, k int) ([]SearchResult, error) {
	if s.provider == nil {
		return nil, ErrNoEmbeddingProvider
	}
	if k < 1 {
		return nil, fmt.Errorf("%w: k must be at least 1, got %d", ErrInvalidConfig, k)
	}

	queryVec := s.queryEmbedding(ctx, query)
	if queryVec == nil {
		return nil, ErrEmbeddingFailed
	}

	matches := s.index.Search(queryVec, k)
	results := make([]SearchResult, 0, len(matches))
	for _, match := range matches {
		sim := clamp01(match.Similarity)
		results = append(results, SearchResult{
			Message: match.Message,
			Score:   sim,
			Reason:  buildReason(sim, 0, 0, true),
		})
	}
	return results, nil
}

// Warm computes and caches embeddings for the given messages ahead of time.
// It is a no-op without a provider. Per-message failures are logged and
// skipped, matching scoring-time behavior.
func (s *Selector) Warm(ctx context.Context, messages []*types.Message) {
	if s.provider == nil {
		return
	}
	s.embedMessages(ctx, messages)
}

// ClearCache drops every cached embedding and resets the vector index.
func (s *Selector) ClearCache() {
	s.cache.clear()
	s.index.Reset()
}

// CachedEmbeddings returns the number of cached message embeddings.
func (s *Selector) CachedEmbeddings() int {
	return s.cache.messageCount()
}

// selectRecent is the no-query fallback: most recent messages first,
// admitted while the budget holds.
func (s *Selector) selectRecent(messages []*types.Message, maxTokens int) []SearchResult {
	ordered := types.Chronological(messages)

	results := make([]SearchResult, 0, s.config.MaxResults)
	usedTokens := 0
	for i := len(ordered) - 1; i >= 0; i-- {
		msg := ordered[i]
		if len(results) >= s.config.MaxResults {
			break
		}
		if usedTokens+msg.Tokens > maxTokens {
			break
		}
		results = append(results, SearchResult{
			Message: msg,
			Reason:  ReasonRecency,
		})
		usedTokens += msg.Tokens
	}
	return results
}

// queryEmbedding returns the cached or freshly computed query embedding.
// Failures are downgraded to a nil vector with a warning; relevance ranking
// then proceeds on the remaining components.
func (s *Selector) queryEmbedding(ctx context.Context, query string) []float32 {
	if vec, ok := s.cache.query(query); ok {
		return vec
	}
	vec, err := s.provider.Embed(ctx, query)
	if err != nil {
		s.logger.Warn("query embedding failed, semantic scoring degraded",
			zap.String("provider", s.provider.Name()),
			zap.Error(err))
		return nil
	}
	s.cache.setQuery(query, vec)
	return vec
}

// embedMessages fills the cache and index for any messages not yet embedded.
// Lookups are independent and issued concurrently; results land in the cache
// before scoring, which runs serially, so ordering stays deterministic.
func (s *Selector) embedMessages(ctx context.Context, messages []*types.Message) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentEmbeds)

	for _, msg := range messages {
		if _, ok := s.cache.message(msg.ID); ok {
			continue
		}
		msg := msg
		g.Go(func() error {
			vec, err := s.provider.Embed(ctx, msg.ScoringText())
			if err != nil {
				// Transient collaborator failure: this message scores zero on
				// the semantic component instead of failing the call.
				s.logger.Warn("message embedding failed, semantic score degraded to zero",
					zap.String("messageID", msg.ID),
					zap.Error(err))
				return nil
			}
			s.cache.setMessage(msg.ID, vec)
			if err := s.index.Add(msg, vec); err != nil {
				s.logger.Warn("vector index insert failed",
					zap.String("messageID", msg.ID),
					zap.Error(err))
			}
			return nil
		})
	}
	// Worker errors are absorbed above; Wait only serializes completion.
	_ = g.Wait()
}

// buildReason maps component scores to qualitative buckets and joins them.
func buildReason(semantic, keyword, temporal float64, semanticActive bool) string {
	var reasons []string
	if semanticActive {
		switch {
		case semantic > 0.7:
			reasons = append(reasons, "high semantic relevance")
		case semantic > 0.4:
			reasons = append(reasons, "semantic relevance")
		}
	}
	switch {
	case keyword > 0.5:
		reasons = append(reasons, "keyword match")
	case keyword > 0.3:
		reasons = append(reasons, "partial keyword match")
	}
	switch {
	case temporal > 0.8:
		reasons = append(reasons, "very recent")
	case temporal > 0.5:
		reasons = append(reasons, "recent")
	}

	if len(reasons) == 0 {
		return "Relevant to query"
	}
	return strings.Join(reasons, ", ")
}

// temporalScore applies exponential decay to message age in hours. A decay
// factor closer to 1 decays more slowly.
func temporalScore(age time.Duration, decayFactor float64) float64 {
	ageHours := age.Hours()
	if ageHours < 0 {
		ageHours = 0
	}
	return math.Exp(-ageHours * (1 - decayFactor))
}

// cosine computes cosine similarity between two vectors, accumulating in
// float64 for stability.
func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
