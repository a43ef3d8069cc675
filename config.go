package contextcore

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/youssefsiam38/contextcore/prune"
	"github.com/youssefsiam38/contextcore/selector"
)

// ErrInvalidConfig indicates invalid core configuration.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config aggregates the configuration of every built-in strategy and the
// selector. It is validated eagerly by New; invalid values fail construction
// rather than degrading silently.
type Config struct {
	Priority      prune.PriorityConfig      `yaml:"priority"`
	SlidingWindow prune.SlidingWindowConfig `yaml:"sliding_window"`
	Summary       prune.SummaryConfig       `yaml:"summary"`
	Semantic      prune.SemanticConfig      `yaml:"semantic"`
	Selector      selector.Config           `yaml:"selector"`
}

// DefaultConfig returns a Config with every component at its defaults.
func DefaultConfig() Config {
	return Config{
		Priority:      prune.DefaultPriorityConfig(),
		SlidingWindow: prune.DefaultSlidingWindowConfig(),
		Summary:       prune.DefaultSummaryConfig(),
		Semantic:      prune.DefaultSemanticConfig(),
		Selector:      selector.DefaultConfig(),
	}
}

// Validate checks every component configuration.
func (c *Config) Validate() error {
	if err := c.Priority.Validate(); err != nil {
		return fmt.Errorf("priority: %w", err)
	}
	if err := c.SlidingWindow.Validate(); err != nil {
		return fmt.Errorf("sliding_window: %w", err)
	}
	if err := c.Summary.Validate(); err != nil {
		return fmt.Errorf("summary: %w", err)
	}
	if err := c.Semantic.Validate(); err != nil {
		return fmt.Errorf("semantic: %w", err)
	}
	if err := c.Selector.Validate(); err != nil {
		return fmt.Errorf("selector: %w", err)
	}
	return nil
}

// LoadConfig reads a YAML config file over the defaults. Fields absent from
// the file keep their default values; the merged result is validated.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: reading %s: %v", ErrInvalidConfig, path, err)
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("%w: parsing %s: %v", ErrInvalidConfig, path, err)
	}
	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}
