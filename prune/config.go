package prune

import "fmt"

// weightTolerance is the floating-point slack allowed when checking that
// scoring weights sum to 1.0.
const weightTolerance = 0.001

// Default configuration values.
const (
	DefaultPriorityWeight     = 0.4
	DefaultRecencyWeight      = 0.4
	DefaultRoleWeight         = 0.2
	DefaultMinMessages        = 3
	DefaultRecencyDecayFactor = 0.9

	DefaultMaxMessages = 50

	DefaultKeepRecentCount  = 10
	DefaultSummaryThreshold = 30

	DefaultTopK               = 20
	DefaultRelevanceThreshold = 0.2
	DefaultTailMessages       = 2
)

// PriorityConfig configures the priority-based strategy.
type PriorityConfig struct {
	// PriorityWeight scales the fixed priority score (critical=100 .. low=25).
	PriorityWeight float64 `yaml:"priority_weight"`

	// RecencyWeight scales the decayed recency score.
	RecencyWeight float64 `yaml:"recency_weight"`

	// RoleWeight scales the fixed role score (assistant=75, user=60, ...).
	RoleWeight float64 `yaml:"role_weight"`

	// MinMessages is a floor on how many non-system messages are always
	// retained regardless of score or budget.
	MinMessages int `yaml:"min_messages"`

	// RecencyDecayFactor is in [0, 1]; higher values decay the recency
	// score of old messages more slowly.
	RecencyDecayFactor float64 `yaml:"recency_decay_factor"`
}

// DefaultPriorityConfig returns a PriorityConfig with the package defaults.
func DefaultPriorityConfig() PriorityConfig {
	return PriorityConfig{
		PriorityWeight:     DefaultPriorityWeight,
		RecencyWeight:      DefaultRecencyWeight,
		RoleWeight:         DefaultRoleWeight,
		MinMessages:        DefaultMinMessages,
		RecencyDecayFactor: DefaultRecencyDecayFactor,
	}
}

// Validate checks the configuration. Violations are structural errors and
// are never silently clamped.
func (c *PriorityConfig) Validate() error {
	for name, w := range map[string]float64{
		"priority_weight": c.PriorityWeight,
		"recency_weight":  c.RecencyWeight,
		"role_weight":     c.RoleWeight,
	} {
		if w < 0 || w > 1 {
			return fmt.Errorf("%w: %s must be in [0, 1], got %f", ErrInvalidConfig, name, w)
		}
	}

	sum := c.PriorityWeight + c.RecencyWeight + c.RoleWeight
	if diff := sum - 1.0; diff > weightTolerance || diff < -weightTolerance {
		return fmt.Errorf("%w: weights must sum to 1.0 (got %f)", ErrInvalidConfig, sum)
	}

	if c.MinMessages < 1 {
		return fmt.Errorf("%w: min_messages must be at least 1, got %d", ErrInvalidConfig, c.MinMessages)
	}
	if c.RecencyDecayFactor < 0 || c.RecencyDecayFactor > 1 {
		return fmt.Errorf("%w: recency_decay_factor must be in [0, 1], got %f", ErrInvalidConfig, c.RecencyDecayFactor)
	}
	return nil
}

// SlidingWindowConfig configures the sliding-window strategy.
type SlidingWindowConfig struct {
	// MaxMessages is the number of most recent messages retained.
	MaxMessages int `yaml:"max_messages"`

	// PreserveSystemMessage keeps system messages outside the window.
	PreserveSystemMessage bool `yaml:"preserve_system_message"`
}

// DefaultSlidingWindowConfig returns a SlidingWindowConfig with the package
// defaults.
func DefaultSlidingWindowConfig() SlidingWindowConfig {
	return SlidingWindowConfig{
		MaxMessages:           DefaultMaxMessages,
		PreserveSystemMessage: true,
	}
}

// Validate checks the configuration.
func (c *SlidingWindowConfig) Validate() error {
	if c.MaxMessages < 1 {
		return fmt.Errorf("%w: max_messages must be at least 1, got %d", ErrInvalidConfig, c.MaxMessages)
	}
	return nil
}

// SummaryConfig configures the summary-based strategy.
type SummaryConfig struct {
	// KeepRecentCount is the number of most recent messages kept verbatim.
	KeepRecentCount int `yaml:"keep_recent_count"`

	// SummaryThreshold is the message count past which the older excess is
	// compacted into a single synthetic summary message.
	SummaryThreshold int `yaml:"summary_threshold"`
}

// DefaultSummaryConfig returns a SummaryConfig with the package defaults.
func DefaultSummaryConfig() SummaryConfig {
	return SummaryConfig{
		KeepRecentCount:  DefaultKeepRecentCount,
		SummaryThreshold: DefaultSummaryThreshold,
	}
}

// Validate checks the configuration.
func (c *SummaryConfig) Validate() error {
	if c.KeepRecentCount < 1 {
		return fmt.Errorf("%w: keep_recent_count must be at least 1, got %d", ErrInvalidConfig, c.KeepRecentCount)
	}
	if c.SummaryThreshold <= c.KeepRecentCount {
		return fmt.Errorf("%w: summary_threshold (%d) must exceed keep_recent_count (%d)",
			ErrInvalidConfig, c.SummaryThreshold, c.KeepRecentCount)
	}
	return nil
}

// SemanticConfig configures the semantic top-K strategy.
type SemanticConfig struct {
	// TopK is the maximum number of non-system messages retained.
	TopK int `yaml:"top_k"`

	// RelevanceThreshold is the minimum combined relevance score, in [0, 1],
	// a message must reach to be retained.
	RelevanceThreshold float64 `yaml:"relevance_threshold"`

	// TailMessages is how many of the newest non-system messages form the
	// relevance query representing the current conversation.
	TailMessages int `yaml:"tail_messages"`
}

// DefaultSemanticConfig returns a SemanticConfig with the package defaults.
func DefaultSemanticConfig() SemanticConfig {
	return SemanticConfig{
		TopK:               DefaultTopK,
		RelevanceThreshold: DefaultRelevanceThreshold,
		TailMessages:       DefaultTailMessages,
	}
}

// Validate checks the configuration.
func (c *SemanticConfig) Validate() error {
	if c.TopK < 1 {
		return fmt.Errorf("%w: top_k must be at least 1, got %d", ErrInvalidConfig, c.TopK)
	}
	if c.RelevanceThreshold < 0 || c.RelevanceThreshold > 1 {
		return fmt.Errorf("%w: relevance_threshold must be in [0, 1], got %f", ErrInvalidConfig, c.RelevanceThreshold)
	}
	if c.TailMessages < 1 {
		return fmt.Errorf("%w: tail_messages must be at least 1, got %d", ErrInvalidConfig, c.TailMessages)
	}
	return nil
}
