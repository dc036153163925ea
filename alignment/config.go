package alignment

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Catch-an-orange/Attribute-Alignment-Loss/semantic"
)

// AttributeConfig is one attribute entry in an experiment file. List order
// in the file is the canonical attribute order.
type AttributeConfig struct {
	Name   string  `yaml:"name" json:"name"`
	Weight float64 `yaml:"weight" json:"weight"`
}

// Config is a declarative experiment configuration for an AlignmentLoss. It
// doubles as the snapshot shape used when materializing variants and
// checkpoints.
type Config struct {
	Attributes []AttributeConfig `yaml:"attributes" json:"attributes"`
	Reduction  string            `yaml:"reduction" json:"reduction"`
	// SemanticPenaltyWeight is a pointer so an absent field keeps the
	// default coefficient while an explicit 0 disables the penalty and
	// survives snapshot and checkpoint round trips.
	SemanticPenaltyWeight *float64 `yaml:"semantic_penalty_weight" json:"semantic_penalty_weight,omitempty"`
}

// LoadConfig reads an experiment configuration from a YAML file.
func LoadConfig(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

// Build constructs an AlignmentLoss from the configuration. Weight
// validation and normalization happen in NewAlignmentLoss; a nil
// SemanticPenaltyWeight keeps the default coefficient.
func (c *Config) Build(model semantic.Model) (*AlignmentLoss, error) {
	entries := make([]WeightEntry, len(c.Attributes))
	for i, a := range c.Attributes {
		entries[i] = WeightEntry{Name: a.Name, Weight: a.Weight}
	}

	var opts []Option
	if c.SemanticPenaltyWeight != nil {
		opts = append(opts, WithSemanticPenaltyWeight(*c.SemanticPenaltyWeight))
	}

	return NewAlignmentLoss(entries, model, c.Reduction, opts...)
}

// Snapshot captures the loss's live configuration: normalized construction
// weights, reduction mode, and penalty coefficient. Learned priority values
// are not part of the configuration; see the checkpoints package for those.
func (l *AlignmentLoss) Snapshot() Config {
	entries := l.weights.Entries()
	attrs := make([]AttributeConfig, len(entries))
	for i, e := range entries {
		attrs[i] = AttributeConfig{Name: e.Name, Weight: e.Weight}
	}
	penalty := l.penaltyWeight
	return Config{
		Attributes:            attrs,
		Reduction:             l.reduction,
		SemanticPenaltyWeight: &penalty,
	}
}
