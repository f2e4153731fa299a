package nn

import "github.com/lorentz-ml/lorentz/internal/tensor"

// Parameter is a named trainable tensor. Optimizers look its gradient up by
// the underlying raw tensor after a backward pass.
type Parameter[B tensor.Backend] struct {
	Name   string
	Tensor *tensor.Tensor[float32, B]
}

// NewParameter wraps a tensor as a named parameter.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[float32, B]) *Parameter[B] {
	return &Parameter[B]{Name: name, Tensor: t}
}

// Raw returns the parameter's underlying raw tensor.
func (p *Parameter[B]) Raw() *tensor.RawTensor {
	return p.Tensor.Raw()
}
