package tensor

import (
	"math"
	"testing"
)

func TestElementwiseOps(t *testing.T) {
	a, _ := NewTensor([]int{2, 2}, []float32{1, 2, 3, 4})
	b, _ := NewTensor([]int{2, 2}, []float32{4, 3, 2, 1})

	t.Run("Add", func(t *testing.T) {
		r, err := Add(a, b)
		if err != nil {
			t.Fatalf("Add failed: %v", err)
		}
		for i, v := range r.Data {
			if v != 5 {
				t.Errorf("Add[%d]: expected 5, got %f", i, v)
			}
		}
	})

	t.Run("Sub", func(t *testing.T) {
		r, err := Sub(a, b)
		if err != nil {
			t.Fatalf("Sub failed: %v", err)
		}
		expected := []float32{-3, -1, 1, 3}
		for i, v := range expected {
			if r.Data[i] != v {
				t.Errorf("Sub[%d]: expected %f, got %f", i, v, r.Data[i])
			}
		}
	})

	t.Run("Scale", func(t *testing.T) {
		r, err := Scale(a, 0.5)
		if err != nil {
			t.Fatalf("Scale failed: %v", err)
		}
		expected := []float32{0.5, 1, 1.5, 2}
		for i, v := range expected {
			if r.Data[i] != v {
				t.Errorf("Scale[%d]: expected %f, got %f", i, v, r.Data[i])
			}
		}
	})

	t.Run("Shape mismatch", func(t *testing.T) {
		c, _ := NewTensor([]int{4}, []float32{1, 2, 3, 4})
		if _, err := Add(a, c); err == nil {
			t.Error("Expected error for mismatched shapes")
		}
	})

	t.Run("Inputs not mutated", func(t *testing.T) {
		if a.Data[0] != 1 || b.Data[0] != 4 {
			t.Error("Elementwise ops must not mutate their inputs")
		}
	})
}

func TestDotAndNorm(t *testing.T) {
	t.Run("Dot", func(t *testing.T) {
		a, _ := NewTensor([]int{3}, []float32{1, 2, 3})
		b, _ := NewTensor([]int{3}, []float32{4, 5, 6})
		dot, err := Dot(a, b)
		if err != nil {
			t.Fatalf("Dot failed: %v", err)
		}
		if dot != 32 {
			t.Errorf("Expected dot 32, got %f", dot)
		}
	})

	t.Run("Norm", func(t *testing.T) {
		tn, _ := NewTensor([]int{2}, []float32{3, 4})
		if n := Norm(tn); math.Abs(n-5) > 1e-6 {
			t.Errorf("Expected norm 5, got %f", n)
		}
	})
}

func TestCosineSimilarity(t *testing.T) {
	t.Run("Identical vectors", func(t *testing.T) {
		v := []float32{1, 2, 3}
		if sim := CosineSimilarity(v, v); math.Abs(sim-1) > 1e-6 {
			t.Errorf("Expected similarity 1, got %f", sim)
		}
	})

	t.Run("Opposite vectors", func(t *testing.T) {
		a := []float32{1, 2, 3}
		b := []float32{-1, -2, -3}
		if sim := CosineSimilarity(a, b); math.Abs(sim+1) > 1e-6 {
			t.Errorf("Expected similarity -1, got %f", sim)
		}
	})

	t.Run("Orthogonal vectors", func(t *testing.T) {
		a := []float32{1, 0}
		b := []float32{0, 1}
		if sim := CosineSimilarity(a, b); math.Abs(sim) > 1e-6 {
			t.Errorf("Expected similarity 0, got %f", sim)
		}
	})

	t.Run("Zero magnitude", func(t *testing.T) {
		a := []float32{0, 0}
		b := []float32{1, 1}
		if sim := CosineSimilarity(a, b); sim != 0 {
			t.Errorf("Expected similarity 0 for zero vector, got %f", sim)
		}
	})
}

func TestBatchCosineSimilarity(t *testing.T) {
	t.Run("Row-wise similarity", func(t *testing.T) {
		batch, _ := NewTensor([]int{3, 2}, []float32{
			1, 0,
			0, 1,
			-1, 0,
		})
		vec, _ := NewTensor([]int{2}, []float32{1, 0})

		sims, err := BatchCosineSimilarity(batch, vec)
		if err != nil {
			t.Fatalf("BatchCosineSimilarity failed: %v", err)
		}

		expected := []float64{1, 0, -1}
		for i, e := range expected {
			if math.Abs(sims[i]-e) > 1e-6 {
				t.Errorf("Row %d: expected %f, got %f", i, e, sims[i])
			}
		}
	})

	t.Run("Zero row yields zero similarity", func(t *testing.T) {
		batch, _ := NewTensor([]int{1, 2}, []float32{0, 0})
		vec, _ := NewTensor([]int{2}, []float32{1, 0})

		sims, err := BatchCosineSimilarity(batch, vec)
		if err != nil {
			t.Fatalf("BatchCosineSimilarity failed: %v", err)
		}
		if sims[0] != 0 {
			t.Errorf("Expected 0 for zero row, got %f", sims[0])
		}
	})

	t.Run("Dimension mismatch", func(t *testing.T) {
		batch, _ := NewTensor([]int{2, 3}, nil)
		vec, _ := NewTensor([]int{2}, nil)
		if _, err := BatchCosineSimilarity(batch, vec); err == nil {
			t.Error("Expected error for feature dimension mismatch")
		}
	})

	t.Run("Non-2D batch", func(t *testing.T) {
		batch, _ := NewTensor([]int{4}, nil)
		vec, _ := NewTensor([]int{4}, nil)
		if _, err := BatchCosineSimilarity(batch, vec); err == nil {
			t.Error("Expected error for 1D batch")
		}
	})
}
