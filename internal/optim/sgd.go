package optim

import (
	"github.com/lorentz-ml/lorentz/internal/nn"
	"github.com/lorentz-ml/lorentz/internal/tensor"
)

// SGD implements stochastic gradient descent with optional momentum.
type SGD[B tensor.Backend] struct {
	params   []*nn.Parameter[B]
	lr       float64
	momentum float64

	velocity map[*tensor.RawTensor][]float64
}

// NewSGD creates an SGD optimizer. A momentum of 0 gives plain gradient
// descent.
func NewSGD[B tensor.Backend](params []*nn.Parameter[B], lr, momentum float64) *SGD[B] {
	return &SGD[B]{
		params:   params,
		lr:       lr,
		momentum: momentum,
		velocity: make(map[*tensor.RawTensor][]float64),
	}
}

// Step applies one update to every parameter with a gradient.
func (s *SGD[B]) Step(grads map[*tensor.RawTensor]*tensor.RawTensor) {
	for _, p := range s.params {
		grad := gradFor(p, grads)
		if grad == nil {
			continue
		}

		raw := p.Raw()
		data := raw.AsFloat32()

		if s.momentum == 0 {
			for i, g := range grad {
				data[i] -= float32(s.lr * g)
			}
			continue
		}

		vel, ok := s.velocity[raw]
		if !ok {
			vel = make([]float64, len(grad))
			s.velocity[raw] = vel
		}
		for i, g := range grad {
			vel[i] = s.momentum*vel[i] + g
			data[i] -= float32(s.lr * vel[i])
		}
	}
}

// LearningRate returns the configured learning rate.
func (s *SGD[B]) LearningRate() float64 { return s.lr }
