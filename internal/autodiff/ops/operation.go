// Package ops defines the differentiable operations recorded on the gradient tape.
//
// Each operation captures its inputs and output during the forward pass and
// knows how to turn the gradient of its output into gradients of its inputs.
package ops

import "github.com/lorentz-ml/lorentz/internal/tensor"

// Operation is one node of the recorded computation graph.
type Operation interface {
	// Backward computes input gradients given the output gradient.
	// The returned slice is aligned with Inputs(); a nil entry means the
	// corresponding input is not differentiated (e.g. regression targets).
	Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor

	// Inputs returns the tensors the operation consumed.
	Inputs() []*tensor.RawTensor

	// Output returns the tensor the operation produced.
	Output() *tensor.RawTensor
}
