package selector

import "fmt"

// weightTolerance is the floating-point slack allowed when checking that
// scoring weights sum to 1.0.
const weightTolerance = 0.001

// Default configuration values.
const (
	DefaultSemanticWeight     = 0.5
	DefaultKeywordWeight      = 0.3
	DefaultTemporalWeight     = 0.2
	DefaultMaxResults         = 10
	DefaultMinScore           = 0.1
	DefaultRecencyDecayFactor = 0.95
	DefaultEmbeddingModel     = "text-embedding-3-small"
)

// Config holds selector configuration. Weights combine the semantic,
// keyword, and temporal scoring components and must sum to 1.0.
type Config struct {
	// SemanticWeight scales cosine similarity between query and message
	// embeddings. Ignored (and renormalized away) when no embedding
	// provider is configured.
	SemanticWeight float64 `yaml:"semantic_weight"`

	// KeywordWeight scales Jaccard similarity of query and message tokens.
	KeywordWeight float64 `yaml:"keyword_weight"`

	// TemporalWeight scales exponential recency decay.
	TemporalWeight float64 `yaml:"temporal_weight"`

	// MaxResults caps how many messages a selection returns.
	MaxResults int `yaml:"max_results"`

	// MinScore is the exclusive lower bound a combined score must exceed.
	MinScore float64 `yaml:"min_score"`

	// RecencyDecayFactor is in [0, 1]; higher values decay the temporal
	// score of old messages more slowly.
	RecencyDecayFactor float64 `yaml:"recency_decay_factor"`

	// EmbeddingModel names the model requested from the embedding provider.
	EmbeddingModel string `yaml:"embedding_model"`
}

// DefaultConfig returns a Config with the package defaults.
func DefaultConfig() Config {
	return Config{
		SemanticWeight:     DefaultSemanticWeight,
		KeywordWeight:      DefaultKeywordWeight,
		TemporalWeight:     DefaultTemporalWeight,
		MaxResults:         DefaultMaxResults,
		MinScore:           DefaultMinScore,
		RecencyDecayFactor: DefaultRecencyDecayFactor,
		EmbeddingModel:     DefaultEmbeddingModel,
	}
}

// ApplyDefaults fills in zero values with defaults. The weight trio is
// treated as a unit: it is only defaulted when all three are zero, so an
// intentional zero weight (e.g. semantic disabled) survives.
func (c *Config) ApplyDefaults() {
	if c.SemanticWeight == 0 && c.KeywordWeight == 0 && c.TemporalWeight == 0 {
		c.SemanticWeight = DefaultSemanticWeight
		c.KeywordWeight = DefaultKeywordWeight
		c.TemporalWeight = DefaultTemporalWeight
	}
	if c.MaxResults == 0 {
		c.MaxResults = DefaultMaxResults
	}
	if c.MinScore == 0 {
		c.MinScore = DefaultMinScore
	}
	if c.RecencyDecayFactor == 0 {
		c.RecencyDecayFactor = DefaultRecencyDecayFactor
	}
	if c.EmbeddingModel == "" {
		c.EmbeddingModel = DefaultEmbeddingModel
	}
}

// Validate checks the configuration. Violations are structural errors;
// nothing is ever silently clamped.
func (c *Config) Validate() error {
	for name, w := range map[string]float64{
		"semantic_weight": c.SemanticWeight,
		"keyword_weight":  c.KeywordWeight,
		"temporal_weight": c.TemporalWeight,
	} {
		if w < 0 || w > 1 {
			return fmt.Errorf("%w: %s must be in [0, 1], got %f", ErrInvalidConfig, name, w)
		}
	}

	sum := c.SemanticWeight + c.KeywordWeight + c.TemporalWeight
	if diff := sum - 1.0; diff > weightTolerance || diff < -weightTolerance {
		return fmt.Errorf("%w: weights must sum to 1.0 (got %f)", ErrInvalidConfig, sum)
	}

	if c.MaxResults < 1 {
		return fmt.Errorf("%w: max_results must be at least 1, got %d", ErrInvalidConfig, c.MaxResults)
	}
	if c.MinScore < 0 || c.MinScore > 1 {
		return fmt.Errorf("%w: min_score must be in [0, 1], got %f", ErrInvalidConfig, c.MinScore)
	}
	if c.RecencyDecayFactor < 0 || c.RecencyDecayFactor > 1 {
		return fmt.Errorf("%w: recency_decay_factor must be in [0, 1], got %f", ErrInvalidConfig, c.RecencyDecayFactor)
	}
	if c.EmbeddingModel == "" {
		return fmt.Errorf("%w: embedding_model is required", ErrInvalidConfig)
	}
	return nil
}
