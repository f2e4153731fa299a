// Package optim implements gradient-based parameter optimizers.
package optim

import (
	"github.com/lorentz-ml/lorentz/internal/nn"
	"github.com/lorentz-ml/lorentz/internal/tensor"
)

// Optimizer updates parameters from the gradients a backward pass produced.
type Optimizer[B tensor.Backend] interface {
	// Step applies one update. Gradients are keyed by the parameter's raw
	// tensor; parameters without an entry are left untouched.
	Step(grads map[*tensor.RawTensor]*tensor.RawTensor)

	// LearningRate returns the current learning rate.
	LearningRate() float64
}

// gradFor looks up a parameter's gradient data as float64 regardless of the
// stored element type. Returns nil when the backward pass never reached the
// parameter.
func gradFor[B tensor.Backend](p *nn.Parameter[B], grads map[*tensor.RawTensor]*tensor.RawTensor) []float64 {
	g, ok := grads[p.Raw()]
	if !ok {
		return nil
	}

	switch g.DType() {
	case tensor.Float32:
		src := g.AsFloat32()
		out := make([]float64, len(src))
		for i, v := range src {
			out[i] = float64(v)
		}
		return out
	case tensor.Float64:
		src := g.AsFloat64()
		out := make([]float64, len(src))
		copy(out, src)
		return out
	}
	return nil
}
