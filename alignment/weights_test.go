package alignment

import (
	"errors"
	"math"
	"testing"
)

func TestNewAttributeWeights(t *testing.T) {
	t.Run("Normalization preserves order and sums to one", func(t *testing.T) {
		w, err := NewAttributeWeights([]WeightEntry{
			{Name: "color", Weight: 2},
			{Name: "style", Weight: 3},
		})
		if err != nil {
			t.Fatalf("Construction failed: %v", err)
		}

		names := w.Names()
		if names[0] != "color" || names[1] != "style" {
			t.Errorf("Insertion order not preserved: %v", names)
		}

		if v, _ := w.Value("color"); math.Abs(v-0.4) > 1e-9 {
			t.Errorf("Expected color 0.4, got %f", v)
		}
		if v, _ := w.Value("style"); math.Abs(v-0.6) > 1e-9 {
			t.Errorf("Expected style 0.6, got %f", v)
		}
		if math.Abs(w.Sum()-1.0) > 1e-6 {
			t.Errorf("Weights should sum to 1, got %f", w.Sum())
		}
	})

	t.Run("Already normalized input unchanged", func(t *testing.T) {
		w, err := NewAttributeWeights([]WeightEntry{
			{Name: "a", Weight: 0.25},
			{Name: "b", Weight: 0.75},
		})
		if err != nil {
			t.Fatalf("Construction failed: %v", err)
		}
		if v, _ := w.Value("a"); math.Abs(v-0.25) > 1e-9 {
			t.Errorf("Expected a 0.25, got %f", v)
		}
	})

	t.Run("Input slice not mutated", func(t *testing.T) {
		entries := []WeightEntry{{Name: "a", Weight: 2}, {Name: "b", Weight: 2}}
		if _, err := NewAttributeWeights(entries); err != nil {
			t.Fatalf("Construction failed: %v", err)
		}
		if entries[0].Weight != 2 || entries[1].Weight != 2 {
			t.Error("Constructor must not mutate the input entries")
		}
	})

	t.Run("Empty entries rejected", func(t *testing.T) {
		_, err := NewAttributeWeights(nil)
		var invalid *InvalidWeightsError
		if !errors.As(err, &invalid) {
			t.Errorf("Expected InvalidWeightsError, got %v", err)
		}
	})

	t.Run("Negative weight rejected", func(t *testing.T) {
		_, err := NewAttributeWeights([]WeightEntry{
			{Name: "a", Weight: 0.5},
			{Name: "b", Weight: -0.1},
		})
		var invalid *InvalidWeightsError
		if !errors.As(err, &invalid) {
			t.Errorf("Expected InvalidWeightsError, got %v", err)
		}
	})

	t.Run("Duplicate name rejected", func(t *testing.T) {
		_, err := NewAttributeWeights([]WeightEntry{
			{Name: "a", Weight: 0.5},
			{Name: "a", Weight: 0.5},
		})
		var invalid *InvalidWeightsError
		if !errors.As(err, &invalid) {
			t.Errorf("Expected InvalidWeightsError, got %v", err)
		}
	})

	t.Run("Empty name rejected", func(t *testing.T) {
		_, err := NewAttributeWeights([]WeightEntry{{Name: "", Weight: 1}})
		var invalid *InvalidWeightsError
		if !errors.As(err, &invalid) {
			t.Errorf("Expected InvalidWeightsError, got %v", err)
		}
	})

	t.Run("All-zero weights rejected", func(t *testing.T) {
		_, err := NewAttributeWeights([]WeightEntry{
			{Name: "a", Weight: 0},
			{Name: "b", Weight: 0},
		})
		var invalid *InvalidWeightsError
		if !errors.As(err, &invalid) {
			t.Errorf("Expected InvalidWeightsError, got %v", err)
		}
	})
}

func TestUniformWeights(t *testing.T) {
	w, err := UniformWeights([]string{"a", "b", "c", "d"})
	if err != nil {
		t.Fatalf("UniformWeights failed: %v", err)
	}

	for _, name := range w.Names() {
		v, _ := w.Value(name)
		if math.Abs(v-0.25) > 1e-9 {
			t.Errorf("Expected 1/4 for %q, got %f", name, v)
		}
	}
}

func TestEntriesRoundTrip(t *testing.T) {
	w, err := NewAttributeWeights([]WeightEntry{
		{Name: "x", Weight: 1},
		{Name: "y", Weight: 3},
	})
	if err != nil {
		t.Fatalf("Construction failed: %v", err)
	}

	again, err := NewAttributeWeights(w.Entries())
	if err != nil {
		t.Fatalf("Reconstruction failed: %v", err)
	}

	a, b := w.Entries(), again.Entries()
	for i := range a {
		if a[i].Name != b[i].Name || math.Abs(a[i].Weight-b[i].Weight) > 1e-9 {
			t.Errorf("Entry %d differs after round trip: %+v vs %+v", i, a[i], b[i])
		}
	}
}
