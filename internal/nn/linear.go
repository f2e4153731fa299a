package nn

import (
	"fmt"

	"github.com/lorentz-ml/lorentz/internal/tensor"
)

// Linear is a fully connected layer computing y = x @ Wᵀ + b.
//
// The weight is stored as (outFeatures, inFeatures) and transposed in the
// forward pass, matching the usual convention for dense layers.
type Linear[B tensor.Backend] struct {
	weight *Parameter[B]
	bias   *Parameter[B]
}

// NewLinear creates a dense layer with Xavier-initialized weights and zero
// bias.
func NewLinear[B tensor.Backend](inFeatures, outFeatures int, backend B) *Linear[B] {
	weight := XavierUniform[B](tensor.Shape{outFeatures, inFeatures}, inFeatures, outFeatures, backend)
	bias := tensor.Zeros[float32, B](tensor.Shape{outFeatures}, backend)

	return &Linear[B]{
		weight: NewParameter(fmt.Sprintf("linear_%dx%d.weight", inFeatures, outFeatures), weight),
		bias:   NewParameter(fmt.Sprintf("linear_%dx%d.bias", inFeatures, outFeatures), bias),
	}
}

// Forward computes x @ Wᵀ + b. The bias broadcasts over the batch dimension.
func (l *Linear[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	out := input.MatMul(l.weight.Tensor.T())
	return out.Add(l.bias.Tensor)
}

// Parameters returns the weight and bias.
func (l *Linear[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{l.weight, l.bias}
}

// Weight returns the weight parameter.
func (l *Linear[B]) Weight() *Parameter[B] { return l.weight }

// Bias returns the bias parameter.
func (l *Linear[B]) Bias() *Parameter[B] { return l.bias }
