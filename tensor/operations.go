package tensor

import (
	"fmt"
	"math"

	"github.com/viterin/vek/vek32"
)

func checkShapesCompatible(t1, t2 *Tensor) error {
	if len(t1.Shape) != len(t2.Shape) {
		return fmt.Errorf("tensor shapes must have same number of dimensions: %v vs %v", t1.Shape, t2.Shape)
	}

	for i := range t1.Shape {
		if t1.Shape[i] != t2.Shape[i] {
			return fmt.Errorf("tensor shapes must match: %v vs %v", t1.Shape, t2.Shape)
		}
	}

	return nil
}

func Add(t1, t2 *Tensor) (*Tensor, error) {
	if err := checkShapesCompatible(t1, t2); err != nil {
		return nil, err
	}
	return NewTensor(t1.Shape, vek32.Add(t1.Data, t2.Data))
}

func Sub(t1, t2 *Tensor) (*Tensor, error) {
	if err := checkShapesCompatible(t1, t2); err != nil {
		return nil, err
	}
	return NewTensor(t1.Shape, vek32.Sub(t1.Data, t2.Data))
}

// Scale multiplies every element by s.
func Scale(t *Tensor, s float64) (*Tensor, error) {
	return NewTensor(t.Shape, vek32.MulNumber(t.Data, float32(s)))
}

// Dot computes the dot product of two tensors of identical shape.
func Dot(t1, t2 *Tensor) (float64, error) {
	if err := checkShapesCompatible(t1, t2); err != nil {
		return 0, err
	}
	return float64(vek32.Dot(t1.Data, t2.Data)), nil
}

// Norm computes the L2 norm over all elements.
func Norm(t *Tensor) float64 {
	return math.Sqrt(float64(vek32.Dot(t.Data, t.Data)))
}

// CosineSimilarity computes the cosine similarity of two equal-length
// float32 vectors. Zero-magnitude vectors yield similarity 0.
func CosineSimilarity(a, b []float32) float64 {
	normA := math.Sqrt(float64(vek32.Dot(a, a)))
	normB := math.Sqrt(float64(vek32.Dot(b, b)))
	if normA == 0 || normB == 0 {
		return 0
	}
	return float64(vek32.Dot(a, b)) / (normA * normB)
}

// BatchCosineSimilarity computes, for a [B, D] batch and a [D] vector, the
// cosine similarity of each batch row against the vector. Rows or vectors
// with zero magnitude yield similarity 0.
func BatchCosineSimilarity(batch, vec *Tensor) ([]float64, error) {
	if len(batch.Shape) != 2 {
		return nil, fmt.Errorf("batch must be 2D [batch_size, features], got shape %v", batch.Shape)
	}
	if len(vec.Shape) != 1 {
		return nil, fmt.Errorf("vector must be 1D [features], got shape %v", vec.Shape)
	}

	b, d := batch.Shape[0], batch.Shape[1]
	if vec.Shape[0] != d {
		return nil, fmt.Errorf("feature dimension mismatch: batch has %d, vector has %d", d, vec.Shape[0])
	}

	vecNorm := math.Sqrt(float64(vek32.Dot(vec.Data, vec.Data)))

	sims := make([]float64, b)
	for i := 0; i < b; i++ {
		row := batch.Data[i*d : (i+1)*d]
		rowNorm := math.Sqrt(float64(vek32.Dot(row, row)))
		if rowNorm == 0 || vecNorm == 0 {
			continue
		}
		sims[i] = float64(vek32.Dot(row, vec.Data)) / (rowNorm * vecNorm)
	}

	return sims, nil
}
