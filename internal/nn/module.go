// Package nn provides neural network building blocks: layers, activations,
// parameter initialization and loss functions.
package nn

import "github.com/lorentz-ml/lorentz/internal/tensor"

// Module is a unit of computation with trainable parameters. Training code
// is float32 throughout.
type Module[B tensor.Backend] interface {
	// Forward runs the module on the input.
	Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B]

	// Parameters returns the module's trainable parameters.
	Parameters() []*Parameter[B]
}
