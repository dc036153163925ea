package alignment

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// weightSumTolerance bounds how far the normalized weights may drift from 1.
const weightSumTolerance = 1e-6

// WeightEntry is one (attribute name, non-negative weight) pair. Slice order
// is the canonical attribute ordering.
type WeightEntry struct {
	Name   string
	Weight float64
}

// AttributeWeights is a validated, normalized, order-preserving attribute
// weight table. The zero value is not usable; construct with
// NewAttributeWeights or UniformWeights.
type AttributeWeights struct {
	names  []string
	values map[string]float64
}

// NewAttributeWeights validates and normalizes entries. It fails with
// *InvalidWeightsError when entries are empty, a name repeats, or a weight
// is negative. The input slice is never mutated; normalization divides every
// weight by the total so the table sums to 1 within tolerance even when the
// caller's sum deviated.
func NewAttributeWeights(entries []WeightEntry) (*AttributeWeights, error) {
	if len(entries) == 0 {
		return nil, &InvalidWeightsError{Reason: "no attributes given"}
	}

	raw := make([]float64, 0, len(entries))
	names := make([]string, 0, len(entries))
	seen := make(map[string]bool, len(entries))

	for _, e := range entries {
		if e.Name == "" {
			return nil, &InvalidWeightsError{Reason: "empty attribute name"}
		}
		if seen[e.Name] {
			return nil, &InvalidWeightsError{Reason: fmt.Sprintf("duplicate attribute %q", e.Name)}
		}
		if e.Weight < 0 {
			return nil, &InvalidWeightsError{Reason: fmt.Sprintf("negative weight %g for attribute %q", e.Weight, e.Name)}
		}
		seen[e.Name] = true
		names = append(names, e.Name)
		raw = append(raw, e.Weight)
	}

	total := floats.Sum(raw)
	if total <= 0 {
		return nil, &InvalidWeightsError{Reason: "weights sum to zero"}
	}

	values := make(map[string]float64, len(names))
	for i, name := range names {
		values[name] = raw[i] / total
	}

	w := &AttributeWeights{names: names, values: values}
	if err := w.checkSumInvariant(); err != nil {
		return nil, err
	}
	return w, nil
}

// UniformWeights builds a table assigning 1/N to each of the given names,
// preserving their order.
func UniformWeights(names []string) (*AttributeWeights, error) {
	entries := make([]WeightEntry, len(names))
	for i, name := range names {
		entries[i] = WeightEntry{Name: name, Weight: 1}
	}
	return NewAttributeWeights(entries)
}

// Names returns the attribute names in canonical order.
func (w *AttributeWeights) Names() []string {
	out := make([]string, len(w.names))
	copy(out, w.names)
	return out
}

// Value returns the normalized weight for name.
func (w *AttributeWeights) Value(name string) (float64, bool) {
	v, ok := w.values[name]
	return v, ok
}

// Len returns the number of attributes.
func (w *AttributeWeights) Len() int {
	return len(w.names)
}

// Entries returns the normalized (name, weight) pairs in canonical order.
func (w *AttributeWeights) Entries() []WeightEntry {
	out := make([]WeightEntry, len(w.names))
	for i, name := range w.names {
		out[i] = WeightEntry{Name: name, Weight: w.values[name]}
	}
	return out
}

// Sum returns the total weight. After normalization it is 1 within
// weightSumTolerance; exposed for invariant checks.
func (w *AttributeWeights) Sum() float64 {
	vals := make([]float64, 0, len(w.names))
	for _, name := range w.names {
		vals = append(vals, w.values[name])
	}
	return floats.Sum(vals)
}

func (w *AttributeWeights) checkSumInvariant() error {
	if math.Abs(w.Sum()-1.0) > weightSumTolerance {
		return &InvalidWeightsError{Reason: fmt.Sprintf("weights sum to %.9f, must sum to 1.0", w.Sum())}
	}
	return nil
}
