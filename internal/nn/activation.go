package nn

import "github.com/lorentz-ml/lorentz/internal/tensor"

// reluBackend is implemented by backends that provide a differentiable ReLU.
type reluBackend interface {
	ReLU(x *tensor.RawTensor) *tensor.RawTensor
}

// tanhBackend is implemented by backends that provide a differentiable Tanh.
type tanhBackend interface {
	Tanh(x *tensor.RawTensor) *tensor.RawTensor
}

// ReLU applies max(0, x) element-wise. It has no parameters.
type ReLU[B tensor.Backend] struct{}

// NewReLU creates a ReLU activation.
func NewReLU[B tensor.Backend]() *ReLU[B] { return &ReLU[B]{} }

// Forward applies the activation.
func (r *ReLU[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	rb, ok := any(input.Backend()).(reluBackend)
	if !ok {
		panic("nn: backend does not implement ReLU")
	}
	return tensor.New[float32](rb.ReLU(input.Raw()), input.Backend())
}

// Parameters returns nil.
func (r *ReLU[B]) Parameters() []*Parameter[B] { return nil }

// Tanh applies tanh(x) element-wise. It has no parameters.
type Tanh[B tensor.Backend] struct{}

// NewTanh creates a Tanh activation.
func NewTanh[B tensor.Backend]() *Tanh[B] { return &Tanh[B]{} }

// Forward applies the activation.
func (t *Tanh[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	tb, ok := any(input.Backend()).(tanhBackend)
	if !ok {
		panic("nn: backend does not implement Tanh")
	}
	return tensor.New[float32](tb.Tanh(input.Raw()), input.Backend())
}

// Parameters returns nil.
func (t *Tanh[B]) Parameters() []*Parameter[B] { return nil }
