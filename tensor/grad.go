package tensor

import (
	"fmt"
)

func (t *Tensor) RequiresGrad() bool {
	return t.requiresGrad
}

func (t *Tensor) SetRequiresGrad(requires bool) {
	t.requiresGrad = requires
}

func (t *Tensor) Grad() *Tensor {
	return t.grad
}

// AccumulateGrad adds g into the tensor's gradient, allocating the gradient
// tensor on first use. The tensor must require gradients.
func (t *Tensor) AccumulateGrad(g *Tensor) error {
	if !t.requiresGrad {
		return fmt.Errorf("cannot accumulate gradient on tensor that does not require grad")
	}
	if err := checkShapesCompatible(t, g); err != nil {
		return fmt.Errorf("gradient shape mismatch: %v", err)
	}

	if t.grad == nil {
		grad, err := Zeros(t.Shape)
		if err != nil {
			return err
		}
		t.grad = grad
	}

	for i, v := range g.Data {
		t.grad.Data[i] += v
	}
	return nil
}

// ZeroGrad resets gradients to zero for all parameters that have one.
func ZeroGrad(tensors []*Tensor) {
	for _, t := range tensors {
		if t.requiresGrad && t.grad != nil {
			for i := range t.grad.Data {
				t.grad.Data[i] = 0
			}
		}
	}
}

// Detach returns a copy of the tensor that carries no gradient state and
// does not require gradients. Used to keep frozen signals out of the
// differentiated path.
func (t *Tensor) Detach() (*Tensor, error) {
	data := make([]float32, len(t.Data))
	copy(data, t.Data)
	return NewTensor(t.Shape, data)
}
