package optim

import (
	"math"

	"github.com/lorentz-ml/lorentz/internal/nn"
	"github.com/lorentz-ml/lorentz/internal/tensor"
)

// AdamConfig configures the Adam optimizer.
type AdamConfig struct {
	LR    float64
	Beta1 float64
	Beta2 float64
	Eps   float64
}

// DefaultAdamConfig returns the standard Adam hyperparameters.
func DefaultAdamConfig() AdamConfig {
	return AdamConfig{LR: 0.001, Beta1: 0.9, Beta2: 0.999, Eps: 1e-8}
}

// Adam implements the Adam optimizer with bias-corrected first and second
// moment estimates.
type Adam[B tensor.Backend] struct {
	params []*nn.Parameter[B]
	config AdamConfig

	m    map[*tensor.RawTensor][]float64
	v    map[*tensor.RawTensor][]float64
	step int
}

// NewAdam creates an Adam optimizer over the given parameters. Zero-valued
// config fields fall back to the defaults.
func NewAdam[B tensor.Backend](params []*nn.Parameter[B], config AdamConfig) *Adam[B] {
	def := DefaultAdamConfig()
	if config.LR == 0 {
		config.LR = def.LR
	}
	if config.Beta1 == 0 {
		config.Beta1 = def.Beta1
	}
	if config.Beta2 == 0 {
		config.Beta2 = def.Beta2
	}
	if config.Eps == 0 {
		config.Eps = def.Eps
	}

	return &Adam[B]{
		params: params,
		config: config,
		m:      make(map[*tensor.RawTensor][]float64),
		v:      make(map[*tensor.RawTensor][]float64),
	}
}

// Step applies one Adam update to every parameter with a gradient.
func (a *Adam[B]) Step(grads map[*tensor.RawTensor]*tensor.RawTensor) {
	a.step++

	bc1 := 1 - math.Pow(a.config.Beta1, float64(a.step))
	bc2 := 1 - math.Pow(a.config.Beta2, float64(a.step))

	for _, p := range a.params {
		grad := gradFor(p, grads)
		if grad == nil {
			continue
		}

		raw := p.Raw()
		m, ok := a.m[raw]
		if !ok {
			m = make([]float64, len(grad))
			a.m[raw] = m
			a.v[raw] = make([]float64, len(grad))
		}
		v := a.v[raw]

		data := raw.AsFloat32()
		for i, g := range grad {
			m[i] = a.config.Beta1*m[i] + (1-a.config.Beta1)*g
			v[i] = a.config.Beta2*v[i] + (1-a.config.Beta2)*g*g

			mHat := m[i] / bc1
			vHat := v[i] / bc2

			data[i] -= float32(a.config.LR * mHat / (math.Sqrt(vHat) + a.config.Eps))
		}
	}
}

// LearningRate returns the configured learning rate.
func (a *Adam[B]) LearningRate() float64 { return a.config.LR }
