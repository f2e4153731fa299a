package nn

import "github.com/lorentz-ml/lorentz/internal/tensor"

// FeatureScale applies a fixed per-feature affine transform
// y = (x - shift) * scale to a (batch, features) input.
//
// The shift and scale are constants chosen from the data distribution at
// construction, not trained, so Parameters returns nil and the transform is
// identical at training and evaluation time.
type FeatureScale[B tensor.Backend] struct {
	shift *tensor.Tensor[float32, B]
	scale *tensor.Tensor[float32, B]
}

// NewFeatureScale builds the transform from per-feature shifts and scales.
// Both slices must have one entry per input feature.
func NewFeatureScale[B tensor.Backend](shift, scale []float64, backend B) *FeatureScale[B] {
	if len(shift) != len(scale) {
		panic("nn: shift and scale must have the same length")
	}

	n := len(shift)
	sh := tensor.Zeros[float32, B](tensor.Shape{1, n}, backend)
	sc := tensor.Zeros[float32, B](tensor.Shape{1, n}, backend)
	for i := 0; i < n; i++ {
		sh.Data()[i] = float32(shift[i])
		sc.Data()[i] = float32(scale[i])
	}

	return &FeatureScale[B]{shift: sh, scale: sc}
}

// Forward applies the affine transform, broadcasting over the batch.
func (f *FeatureScale[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	return input.Sub(f.shift).Mul(f.scale)
}

// Parameters returns nil; the transform is not trained.
func (f *FeatureScale[B]) Parameters() []*Parameter[B] { return nil }
