package alignment

import (
	"fmt"
	"math"
	"sync"

	"github.com/Catch-an-orange/Attribute-Alignment-Loss/tensor"
)

// SGD updates the priority parameters by stochastic gradient descent with
// optional momentum and weight decay. Parameter updates are serialized by
// the optimizer's own lock; forward calls are not.
type SGD struct {
	parameters   []*tensor.Tensor
	learningRate float64
	momentum     float64
	weightDecay  float64
	velocities   map[*tensor.Tensor]*tensor.Tensor
	mutex        sync.Mutex
}

// NewSGD creates an SGD optimizer over the given parameters.
func NewSGD(parameters []*tensor.Tensor, lr, momentum, weightDecay float64) *SGD {
	return &SGD{
		parameters:   parameters,
		learningRate: lr,
		momentum:     momentum,
		weightDecay:  weightDecay,
		velocities:   make(map[*tensor.Tensor]*tensor.Tensor),
	}
}

// Step performs a single optimization step over all parameters that carry a
// gradient.
func (sgd *SGD) Step() error {
	sgd.mutex.Lock()
	defer sgd.mutex.Unlock()

	for _, param := range sgd.parameters {
		if !param.RequiresGrad() || param.Grad() == nil {
			continue
		}

		grad, err := param.Grad().Clone()
		if err != nil {
			return fmt.Errorf("copy gradient: %v", err)
		}

		if sgd.weightDecay > 0 {
			decayed, err := tensor.Scale(param, sgd.weightDecay)
			if err != nil {
				return fmt.Errorf("weight decay: %v", err)
			}
			if grad, err = tensor.Add(grad, decayed); err != nil {
				return fmt.Errorf("weight decay: %v", err)
			}
		}

		if sgd.momentum > 0 {
			velocity := sgd.velocities[param]
			if velocity == nil {
				if velocity, err = tensor.Zeros(param.Shape); err != nil {
					return fmt.Errorf("momentum buffer: %v", err)
				}
			}
			// velocity = momentum * velocity + grad
			scaled, err := tensor.Scale(velocity, sgd.momentum)
			if err != nil {
				return fmt.Errorf("momentum: %v", err)
			}
			if velocity, err = tensor.Add(scaled, grad); err != nil {
				return fmt.Errorf("momentum: %v", err)
			}
			sgd.velocities[param] = velocity
			grad = velocity
		}

		// param = param - lr * grad
		step, err := tensor.Scale(grad, sgd.learningRate)
		if err != nil {
			return fmt.Errorf("scale update: %v", err)
		}
		updated, err := tensor.Sub(param, step)
		if err != nil {
			return fmt.Errorf("apply update: %v", err)
		}
		copy(param.Data, updated.Data)
	}

	return nil
}

// ZeroGrad resets gradients to zero for all parameters.
func (sgd *SGD) ZeroGrad() {
	sgd.mutex.Lock()
	defer sgd.mutex.Unlock()
	tensor.ZeroGrad(sgd.parameters)
}

// GetLR returns the current learning rate.
func (sgd *SGD) GetLR() float64 {
	sgd.mutex.Lock()
	defer sgd.mutex.Unlock()
	return sgd.learningRate
}

// SetLR sets the learning rate.
func (sgd *SGD) SetLR(lr float64) {
	sgd.mutex.Lock()
	defer sgd.mutex.Unlock()
	sgd.learningRate = lr
}

// ClipGradNorm rescales the gradients of params in place so their combined
// L2 norm does not exceed maxNorm, and returns the pre-clip norm. The loss
// holds no clipping configuration of its own; the owning training loop calls
// this between Backward and Step.
func ClipGradNorm(params []*tensor.Tensor, maxNorm float64) (float64, error) {
	if maxNorm <= 0 {
		return 0, fmt.Errorf("max norm must be positive, got %g", maxNorm)
	}

	var sumSq float64
	for _, param := range params {
		if param.Grad() == nil {
			continue
		}
		sq, err := tensor.Dot(param.Grad(), param.Grad())
		if err != nil {
			return 0, fmt.Errorf("gradient norm: %v", err)
		}
		sumSq += sq
	}
	totalNorm := math.Sqrt(sumSq)

	if totalNorm > maxNorm {
		scale := maxNorm / totalNorm
		for _, param := range params {
			if param.Grad() == nil {
				continue
			}
			scaled, err := tensor.Scale(param.Grad(), scale)
			if err != nil {
				return 0, fmt.Errorf("rescale gradient: %v", err)
			}
			copy(param.Grad().Data, scaled.Data)
		}
	}

	return totalNorm, nil
}
