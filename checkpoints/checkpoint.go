// Package checkpoints persists an alignment loss's configuration and
// learned priority values as JSON, so training runs can resume or compare
// experiments without retraining the priorities.
package checkpoints

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/Catch-an-orange/Attribute-Alignment-Loss/alignment"
	"github.com/Catch-an-orange/Attribute-Alignment-Loss/semantic"
)

const checkpointVersion = "1.0"

// PriorityValue is one attribute's learned priority at save time.
type PriorityValue struct {
	Name  string  `json:"name"`
	Value float32 `json:"value"`
}

// Metadata describes when and why a checkpoint was taken.
type Metadata struct {
	Version     string    `json:"version"`
	CreatedAt   time.Time `json:"created_at"`
	Description string    `json:"description,omitempty"`
}

// Checkpoint is a complete snapshot of a loss instance: its construction
// configuration plus the current learned priority values, in canonical
// attribute order.
type Checkpoint struct {
	Config     alignment.Config `json:"config"`
	Priorities []PriorityValue  `json:"priorities"`
	Metadata   Metadata         `json:"metadata"`
}

// FromLoss captures the loss's configuration and live priority values.
func FromLoss(l *alignment.AlignmentLoss, description string) (*Checkpoint, error) {
	names := l.Names()
	priorities := make([]PriorityValue, 0, len(names))
	for _, name := range names {
		v, err := l.Priority(name)
		if err != nil {
			return nil, fmt.Errorf("read priority: %w", err)
		}
		priorities = append(priorities, PriorityValue{Name: name, Value: v})
	}

	return &Checkpoint{
		Config:     l.Snapshot(),
		Priorities: priorities,
		Metadata: Metadata{
			Version:     checkpointVersion,
			CreatedAt:   time.Now().UTC(),
			Description: description,
		},
	}, nil
}

// Restore reconstructs a loss from the checkpoint and overwrites its seeded
// priorities with the saved learned values. The semantic model reference is
// not persisted; pass the model to reattach, or nil for alignment-only.
func (c *Checkpoint) Restore(model semantic.Model) (*alignment.AlignmentLoss, error) {
	loss, err := c.Config.Build(model)
	if err != nil {
		return nil, fmt.Errorf("rebuild loss: %w", err)
	}

	values := make(map[string]float64, len(c.Priorities))
	for _, p := range c.Priorities {
		values[p.Name] = float64(p.Value)
	}
	if err := loss.RestorePriorities(values); err != nil {
		return nil, fmt.Errorf("restore priorities: %w", err)
	}

	return loss, nil
}

// SaveCheckpoint writes the checkpoint to path as indented JSON.
func SaveCheckpoint(path string, c *Checkpoint) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal checkpoint: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write checkpoint: %w", err)
	}
	return nil
}

// LoadCheckpoint reads a checkpoint from path.
func LoadCheckpoint(path string) (*Checkpoint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read checkpoint: %w", err)
	}

	var c Checkpoint
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse checkpoint: %w", err)
	}

	if len(c.Priorities) == 0 {
		return nil, fmt.Errorf("checkpoint has no priority values")
	}

	return &c, nil
}
