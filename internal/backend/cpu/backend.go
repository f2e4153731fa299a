// Package cpu implements the pure-Go CPU backend.
package cpu

import (
	"fmt"

	"github.com/klauspost/cpuid/v2"

	"github.com/lorentz-ml/lorentz/internal/tensor"
)

// CPUBackend implements tensor operations on the host CPU.
//
// Element-wise operations take an in-place fast path when the destination
// buffer is uniquely held, and fall back to a stride-walking loop when
// broadcasting is required. Matrix multiplication switches to a cache-blocked
// kernel on CPUs with AVX2, where the wider loads make blocking pay off.
type CPUBackend struct {
	device  tensor.Device
	blocked bool
}

// New creates a new CPU backend.
func New() *CPUBackend {
	return &CPUBackend{
		device:  tensor.CPU,
		blocked: cpuid.CPU.Has(cpuid.AVX2),
	}
}

// Name returns the backend name.
func (c *CPUBackend) Name() string {
	return "CPU"
}

// Device returns the compute device.
func (c *CPUBackend) Device() tensor.Device {
	return c.device
}

// Add performs element-wise addition with broadcasting.
func (c *CPUBackend) Add(a, b *tensor.RawTensor) *tensor.RawTensor {
	return c.binary("add", a, b,
		func(x, y float32) float32 { return x + y },
		func(x, y float64) float64 { return x + y })
}

// Sub performs element-wise subtraction with broadcasting.
func (c *CPUBackend) Sub(a, b *tensor.RawTensor) *tensor.RawTensor {
	return c.binary("sub", a, b,
		func(x, y float32) float32 { return x - y },
		func(x, y float64) float64 { return x - y })
}

// Mul performs element-wise multiplication with broadcasting.
func (c *CPUBackend) Mul(a, b *tensor.RawTensor) *tensor.RawTensor {
	return c.binary("mul", a, b,
		func(x, y float32) float32 { return x * y },
		func(x, y float64) float64 { return x * y })
}

// Div performs element-wise division with broadcasting.
func (c *CPUBackend) Div(a, b *tensor.RawTensor) *tensor.RawTensor {
	return c.binary("div", a, b,
		func(x, y float32) float32 { return x / y },
		func(x, y float64) float64 { return x / y })
}

// Reshape returns a tensor with the same data and a new shape.
func (c *CPUBackend) Reshape(t *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	if err := newShape.Validate(); err != nil {
		panic(fmt.Sprintf("reshape: invalid shape: %v", err))
	}
	if t.NumElements() != newShape.NumElements() {
		panic(fmt.Sprintf("reshape: incompatible shapes: %v -> %v (different number of elements)",
			t.Shape(), newShape))
	}

	result := newRaw(newShape, t.DType(), c.device)
	switch t.DType() {
	case tensor.Float32:
		copy(result.AsFloat32(), t.AsFloat32())
	case tensor.Float64:
		copy(result.AsFloat64(), t.AsFloat64())
	}
	return result
}

// Transpose permutes the tensor's dimensions. Without axes, all dimensions
// are reversed.
func (c *CPUBackend) Transpose(t *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	shape := t.Shape()
	ndim := len(shape)

	if len(axes) == 0 {
		axes = make([]int, ndim)
		for i := range axes {
			axes[i] = ndim - 1 - i
		}
	}
	if len(axes) != ndim {
		panic(fmt.Sprintf("transpose: axes length %d != ndim %d", len(axes), ndim))
	}
	seen := make([]bool, ndim)
	for _, ax := range axes {
		if ax < 0 || ax >= ndim {
			panic(fmt.Sprintf("transpose: invalid axis %d for %dD tensor", ax, ndim))
		}
		if seen[ax] {
			panic(fmt.Sprintf("transpose: duplicate axis %d", ax))
		}
		seen[ax] = true
	}

	newShape := make(tensor.Shape, ndim)
	for i, ax := range axes {
		newShape[i] = shape[ax]
	}

	result := newRaw(newShape, t.DType(), c.device)
	switch t.DType() {
	case tensor.Float32:
		transposeData(result.AsFloat32(), t.AsFloat32(), shape, axes)
	case tensor.Float64:
		transposeData(result.AsFloat64(), t.AsFloat64(), shape, axes)
	}
	return result
}

// newRaw allocates a RawTensor or panics; backend operations treat allocation
// failure as fatal, matching the panic-on-shape-error convention.
func newRaw(shape tensor.Shape, dtype tensor.DataType, device tensor.Device) *tensor.RawTensor {
	result, err := tensor.NewRaw(shape, dtype, device)
	if err != nil {
		panic(fmt.Sprintf("cpu: failed to allocate tensor: %v", err))
	}
	return result
}
