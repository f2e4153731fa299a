package nn

import "github.com/lorentz-ml/lorentz/internal/tensor"

// mseBackend is implemented by backends that provide a differentiable mean
// squared error.
type mseBackend interface {
	MSE(pred, target *tensor.RawTensor) *tensor.RawTensor
}

// MSELoss computes the mean squared error between predictions and targets.
type MSELoss[B tensor.Backend] struct{}

// NewMSELoss creates an MSE loss.
func NewMSELoss[B tensor.Backend]() *MSELoss[B] { return &MSELoss[B]{} }

// Forward returns the loss as a one-element tensor. Gradients flow to the
// predictions only.
func (m *MSELoss[B]) Forward(pred, target *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	mb, ok := any(pred.Backend()).(mseBackend)
	if !ok {
		panic("nn: backend does not implement MSE")
	}
	return tensor.New[float32](mb.MSE(pred.Raw(), target.Raw()), pred.Backend())
}
