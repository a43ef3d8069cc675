package prune

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youssefsiam38/contextcore/selector"
	"github.com/youssefsiam38/contextcore/types"
)

// keywordSelector builds a selector that scores by keyword overlap and
// recency only, so tests run without an embedding provider.
func keywordSelector(t *testing.T) *selector.Selector {
	t.Helper()
	sel, err := selector.New(selector.Config{
		SemanticWeight: 0,
		KeywordWeight:  0.5,
		TemporalWeight: 0.5,
	}, nil, nil)
	require.NoError(t, err)
	return sel
}

// agedMessage builds a message relative to the present so the temporal score
// is predictable at test time.
func agedMessage(id string, content string, tokens int, age time.Duration) *types.Message {
	return &types.Message{
		ID:        id,
		Role:      types.RoleUser,
		Content:   content,
		Timestamp: time.Now().Add(-age),
		Tokens:    tokens,
	}
}

func TestNewSemanticStrategyRequiresSelector(t *testing.T) {
	_, err := NewSemanticStrategy(DefaultSemanticConfig(), nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestNewSemanticStrategyInvalidConfig(t *testing.T) {
	cfg := SemanticConfig{TopK: 0, RelevanceThreshold: 0.2, TailMessages: 1}
	_, err := NewSemanticStrategy(cfg, keywordSelector(t), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestSemanticWithinBudget(t *testing.T) {
	s, err := NewSemanticStrategy(DefaultSemanticConfig(), keywordSelector(t), nil)
	require.NoError(t, err)

	msgs := []*types.Message{agedMessage("m1", "hello", 10, time.Hour)}
	res, err := s.Prune(context.Background(), msgs, 100, 10)
	require.NoError(t, err)
	assert.Equal(t, msgs, res.Messages)
	assert.Zero(t, res.RemovedCount)
}

func TestSemanticKeepsRelevantMessages(t *testing.T) {
	cfg := SemanticConfig{TopK: 5, RelevanceThreshold: 0.2, TailMessages: 1}
	s, err := NewSemanticStrategy(cfg, keywordSelector(t), nil)
	require.NoError(t, err)

	sys := &types.Message{ID: "sys", Role: types.RoleSystem, Content: "you are helpful", Timestamp: time.Now().Add(-2000 * time.Hour), Tokens: 20}
	related := agedMessage("related", "deploy service checklist", 100, 10*time.Hour)
	unrelated := agedMessage("unrelated", "gardening tips and soup recipes", 100, 1000*time.Hour)
	tail := agedMessage("tail", "deploy the billing service to production", 100, time.Hour)
	msgs := []*types.Message{sys, related, unrelated, tail}

	res, err := s.Prune(context.Background(), msgs, 300, 320)
	require.NoError(t, err)

	kept := map[string]bool{}
	for _, msg := range res.Messages {
		kept[msg.ID] = true
	}
	assert.True(t, kept["sys"])
	assert.True(t, kept["tail"], "the query source itself scores highest")
	assert.True(t, kept["related"])
	assert.False(t, kept["unrelated"], "no keyword overlap and too old to score")
	assert.LessOrEqual(t, types.SumTokens(res.Messages), 300)
}

func TestSemanticTopKCap(t *testing.T) {
	cfg := SemanticConfig{TopK: 1, RelevanceThreshold: 0.1, TailMessages: 1}
	s, err := NewSemanticStrategy(cfg, keywordSelector(t), nil)
	require.NoError(t, err)

	msgs := []*types.Message{
		agedMessage("m1", "deploy service alpha", 100, 2*time.Hour),
		agedMessage("m2", "deploy service beta", 100, time.Hour),
	}
	res, err := s.Prune(context.Background(), msgs, 500, 200)
	require.NoError(t, err)
	assert.Len(t, res.Messages, 1)
	assert.Equal(t, 1, res.Metadata["admitted"])
}

func TestSemanticBudgetStopsAdmission(t *testing.T) {
	cfg := SemanticConfig{TopK: 5, RelevanceThreshold: 0.1, TailMessages: 1}
	s, err := NewSemanticStrategy(cfg, keywordSelector(t), nil)
	require.NoError(t, err)

	msgs := []*types.Message{
		agedMessage("m1", "deploy service alpha", 100, 2*time.Hour),
		agedMessage("m2", "deploy service beta", 100, time.Hour),
	}
	res, err := s.Prune(context.Background(), msgs, 100, 200)
	require.NoError(t, err)
	assert.Len(t, res.Messages, 1)
	assert.LessOrEqual(t, types.SumTokens(res.Messages), 100)
}

func TestSemanticBudgetInfeasible(t *testing.T) {
	s, err := NewSemanticStrategy(DefaultSemanticConfig(), keywordSelector(t), nil)
	require.NoError(t, err)

	msgs := []*types.Message{
		&types.Message{ID: "sys", Role: types.RoleSystem, Content: "rules", Timestamp: time.Now(), Tokens: 500},
		agedMessage("m1", "hello", 50, time.Hour),
	}
	_, err = s.Prune(context.Background(), msgs, 300, 550)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBudgetInfeasible)
}

func TestSemanticNoScoringSignal(t *testing.T) {
	// All weight on the semantic component with no provider leaves nothing to
	// score with; the failure surfaces instead of degrading silently.
	sel, err := selector.New(selector.Config{
		SemanticWeight: 1,
		KeywordWeight:  0,
		TemporalWeight: 0,
	}, nil, nil)
	require.NoError(t, err)

	s, err := NewSemanticStrategy(DefaultSemanticConfig(), sel, nil)
	require.NoError(t, err)

	msgs := []*types.Message{agedMessage("m1", "hello", 100, time.Hour)}
	_, err = s.Prune(context.Background(), msgs, 50, 100)
	require.Error(t, err)
	assert.ErrorIs(t, err, selector.ErrNoScoringSignal)
}
