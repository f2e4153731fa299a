package autodiff

import "github.com/lorentz-ml/lorentz/internal/tensor"

// TapeProvider is implemented by backends that carry a gradient tape.
type TapeProvider interface {
	Tape() *GradientTape
}

// GetTape extracts the gradient tape from a backend, or nil if the backend
// does not record gradients.
func GetTape(backend tensor.Backend) *GradientTape {
	if p, ok := backend.(TapeProvider); ok {
		return p.Tape()
	}
	return nil
}

// Backward seeds the output with a gradient of ones and propagates it
// through the tape, returning gradients keyed by raw tensor.
func Backward[T tensor.DType, B tensor.Backend](output *tensor.Tensor[T, B], tape *GradientTape) map[*tensor.RawTensor]*tensor.RawTensor {
	seed := tensor.Ones[T, B](output.Shape(), output.Backend())
	return tape.Backward(output.Raw(), seed.Raw(), output.Backend())
}
