package prune

import (
	"context"
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/youssefsiam38/contextcore/types"
)

// TypePriority is the registry key of the priority-based strategy.
const TypePriority = "priority"

// Fixed component scores, each on a 0-100 scale.
var priorityScores = map[types.Priority]float64{
	types.PriorityCritical: 100,
	types.PriorityHigh:     75,
	types.PriorityNormal:   50,
	types.PriorityLow:      25,
}

var roleScores = map[types.Role]float64{
	types.RoleSystem:    100,
	types.RoleAssistant: 75,
	types.RoleUser:      60,
	types.RoleTool:      50,
	types.RoleFunction:  50,
}

// defaultComponentScore is used for unknown roles and priorities.
const defaultComponentScore = 50

// PriorityStrategy scores regular messages by priority, recency, and role,
// then evicts the lowest scorers until the token budget holds. System
// messages are always retained and their cost is reserved first.
type PriorityStrategy struct {
	config PriorityConfig
	logger *zap.Logger
	statsRecorder
}

// NewPriorityStrategy creates the strategy, validating the configuration
// eagerly.
func NewPriorityStrategy(config PriorityConfig, logger *zap.Logger) (*PriorityStrategy, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PriorityStrategy{config: config, logger: logger}, nil
}

// Type returns the registry key.
func (s *PriorityStrategy) Type() string { return TypePriority }

// Config returns the strategy configuration.
func (s *PriorityStrategy) Config() any { return s.config }

// Validate checks the strategy configuration.
func (s *PriorityStrategy) Validate() error { return s.config.Validate() }

// Prune implements the Strategy contract.
func (s *PriorityStrategy) Prune(ctx context.Context, messages []*types.Message, maxTokens, currentTokens int) (*Result, error) {
	if currentTokens <= maxTokens {
		res := unchangedResult(TypePriority, messages, scoreMetadata(nil))
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
			WithStrategy(TypePriority).
			WithContext("systemTokens", systemTokens).
			WithContext("maxTokens", maxTokens)
	}

	scored := s.scoreMessages(regular)
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	// Greedy admission in score order. The minMessages floor is
	// unconditional and may overshoot the budget; once satisfied, admission
	// continues only while the next message still fits.
	kept := make([]*types.Message, 0, len(messages))
	kept = append(kept, system...)
	keptTokens := systemTokens

	var keptScores []float64
	for _, sm := range scored {
		if len(keptScores) < s.config.MinMessages {
			kept = append(kept, sm.message)
			keptTokens += sm.message.Tokens
			keptScores = append(keptScores, sm.score)
			continue
		}
		if keptTokens+sm.message.Tokens > maxTokens {
			break
		}
		kept = append(kept, sm.message)
		keptTokens += sm.message.Tokens
		keptScores = append(keptScores, sm.score)
	}

	// Ranking order must never leak into the output.
	out := types.Chronological(kept)

	res := &Result{
		Messages:      out,
		RemovedCount:  len(messages) - len(out),
		RemovedTokens: removedTokens(messages, out),
		Strategy:      TypePriority,
		Metadata:      scoreMetadata(keptScores),
	}
	s.record(res)
	s.logger.Debug("priority prune complete",
		zap.Int("input", len(messages)),
		zap.Int("kept", len(out)),
		zap.Int("keptTokens", keptTokens),
		zap.Int("maxTokens", maxTokens))
	return res, nil
}

type scoredMessage struct {
	message *types.Message
	score   float64
}

// scoreMessages computes the weighted score of every regular message. The
// recency component is normalized over the batch's own time span.
func (s *PriorityStrategy) scoreMessages(regular []*types.Message) []scoredMessage {
	if len(regular) == 0 {
		return nil
	}

	oldest := regular[0].Timestamp
	newest := regular[0].Timestamp
	for _, msg := range regular[1:] {
		if msg.Timestamp.Before(oldest) {
			oldest = msg.Timestamp
		}
		if msg.Timestamp.After(newest) {
			newest = msg.Timestamp
		}
	}
	span := newest.Sub(oldest).Seconds()
	if span == 0 {
		// Zero time span (e.g. a single message): avoid division by zero.
		span = 1
	}

	scored := make([]scoredMessage, 0, len(regular))
	for _, msg := range regular {
		priorityScore, ok := priorityScores[msg.EffectivePriority()]
		if !ok {
			priorityScore = defaultComponentScore
		}
		roleScore, ok := roleScores[msg.Role]
		if !ok {
			roleScore = defaultComponentScore
		}

		normalizedAge := msg.Timestamp.Sub(oldest).Seconds() / span
		decay := math.Pow(s.config.RecencyDecayFactor, 1-normalizedAge)
		recencyScore := normalizedAge * 100 * decay

		// The metadata bonus is additive after weighting, not part of the
		// normalized weighted sum.
		total := priorityScore*s.config.PriorityWeight +
			recencyScore*s.config.RecencyWeight +
			roleScore*s.config.RoleWeight +
			msg.PriorityBonus()

		scored = append(scored, scoredMessage{message: msg, score: total})
	}
	return scored
}

// scoreMetadata reports average/min/max score across retained regular
// messages. A nil or empty slice yields zeroed statistics.
func scoreMetadata(scores []float64) map[string]any {
	if len(scores) == 0 {
		return map[string]any{
			"averageScore": 0.0,
			"minScore":     0.0,
			"maxScore":     0.0,
		}
	}

	sum := 0.0
	minScore := scores[0]
	maxScore := scores[0]
	for _, sc := range scores {
		sum += sc
		if sc < minScore {
			minScore = sc
		}
		if sc > maxScore {
			maxScore = sc
		}
	}
	return map[string]any{
		"averageScore": sum / float64(len(scores)),
		"minScore":     minScore,
		"maxScore":     maxScore,
	}
}
