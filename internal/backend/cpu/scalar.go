package cpu

import (
	"math"

	"github.com/lorentz-ml/lorentz/internal/tensor"
)

// MulScalar multiplies every element by a scalar.
func (c *CPUBackend) MulScalar(x *tensor.RawTensor, scalar float64) *tensor.RawTensor {
	return c.unary(x, func(v float64) float64 { return v * scalar })
}

// AddScalar adds a scalar to every element.
func (c *CPUBackend) AddScalar(x *tensor.RawTensor, scalar float64) *tensor.RawTensor {
	return c.unary(x, func(v float64) float64 { return v + scalar })
}

// Sqrt computes the element-wise square root.
func (c *CPUBackend) Sqrt(x *tensor.RawTensor) *tensor.RawTensor {
	return c.unary(x, math.Sqrt)
}

// unary applies f to every element, producing a fresh tensor. The float64
// round-trip is exact for float32 inputs.
func (c *CPUBackend) unary(x *tensor.RawTensor, f func(float64) float64) *tensor.RawTensor {
	result := newRaw(x.Shape(), x.DType(), c.device)
	switch x.DType() {
	case tensor.Float32:
		src, dst := x.AsFloat32(), result.AsFloat32()
		for i, v := range src {
			dst[i] = float32(f(float64(v)))
		}
	case tensor.Float64:
		src, dst := x.AsFloat64(), result.AsFloat64()
		for i, v := range src {
			dst[i] = f(v)
		}
	}
	return result
}
