package tensor

import (
	"fmt"
	"math/rand"
)

// Global random source for deterministic initialization
var globalRng *rand.Rand = rand.New(rand.NewSource(1))

// SetRandomSeed sets the global random seed for deterministic initialization
func SetRandomSeed(seed int64) {
	globalRng = rand.New(rand.NewSource(seed))
}

// NewTensor creates a tensor with the given shape. If data is nil a zeroed
// backing slice is allocated; otherwise data is adopted without copying and
// its length must match the shape.
func NewTensor(shape []int, data []float32) (*Tensor, error) {
	if err := validateShape(shape); err != nil {
		return nil, err
	}

	numElems := calculateNumElements(shape)

	if data == nil {
		data = make([]float32, numElems)
	} else if len(data) != numElems {
		return nil, fmt.Errorf("data length %d does not match tensor size %d", len(data), numElems)
	}

	shapeCopy := make([]int, len(shape))
	copy(shapeCopy, shape)

	return &Tensor{
		Shape:    shapeCopy,
		Strides:  calculateStrides(shapeCopy),
		Data:     data,
		NumElems: numElems,
	}, nil
}

func Zeros(shape []int) (*Tensor, error) {
	return NewTensor(shape, nil)
}

func Ones(shape []int) (*Tensor, error) {
	return Full(shape, 1.0)
}

// Full creates a tensor with every element set to value.
func Full(shape []int, value float64) (*Tensor, error) {
	t, err := NewTensor(shape, nil)
	if err != nil {
		return nil, err
	}
	v := float32(value)
	for i := range t.Data {
		t.Data[i] = v
	}
	return t, nil
}

// FromScalar creates a single-element tensor holding value.
func FromScalar(value float64) *Tensor {
	t, _ := NewTensor([]int{1}, []float32{float32(value)})
	return t
}

// RandomNormal creates a tensor with elements drawn from N(mean, std^2)
// using the package random source.
func RandomNormal(shape []int, mean, std float32) (*Tensor, error) {
	t, err := NewTensor(shape, nil)
	if err != nil {
		return nil, err
	}
	for i := range t.Data {
		t.Data[i] = float32(globalRng.NormFloat64())*std + mean
	}
	return t, nil
}
