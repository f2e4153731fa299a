package autodiff

import (
	"fmt"
	"math"

	"github.com/lorentz-ml/lorentz/internal/autodiff/ops"
	"github.com/lorentz-ml/lorentz/internal/tensor"
)

// AutodiffBackend decorates any Backend with gradient recording. Every
// supported operation is forwarded to the inner backend and, while the tape
// is recording, appended to the computation graph.
type AutodiffBackend[B tensor.Backend] struct {
	inner B
	tape  *GradientTape
}

// NewAutodiffBackend wraps a backend with a fresh gradient tape.
func NewAutodiffBackend[B tensor.Backend](inner B) *AutodiffBackend[B] {
	return &AutodiffBackend[B]{inner: inner, tape: NewGradientTape()}
}

// Tape returns the gradient tape.
func (a *AutodiffBackend[B]) Tape() *GradientTape { return a.tape }

// Inner returns the wrapped backend.
func (a *AutodiffBackend[B]) Inner() B { return a.inner }

// Name returns the decorated backend name.
func (a *AutodiffBackend[B]) Name() string {
	return fmt.Sprintf("Autodiff(%s)", a.inner.Name())
}

// Device returns the inner backend's device.
func (a *AutodiffBackend[B]) Device() tensor.Device { return a.inner.Device() }

// Add computes a + b and records the operation. Inputs are pinned first so
// the inner backend cannot reuse an input buffer for the output.
func (a *AutodiffBackend[B]) Add(x, y *tensor.RawTensor) *tensor.RawTensor {
	a.tape.Pin(x, y)
	out := a.inner.Add(x, y)
	a.tape.Record(ops.NewAddOp(x, y, out))
	return out
}

// Sub computes a - b and records the operation.
func (a *AutodiffBackend[B]) Sub(x, y *tensor.RawTensor) *tensor.RawTensor {
	a.tape.Pin(x, y)
	out := a.inner.Sub(x, y)
	a.tape.Record(ops.NewSubOp(x, y, out))
	return out
}

// Mul computes a * b and records the operation.
func (a *AutodiffBackend[B]) Mul(x, y *tensor.RawTensor) *tensor.RawTensor {
	a.tape.Pin(x, y)
	out := a.inner.Mul(x, y)
	a.tape.Record(ops.NewMulOp(x, y, out))
	return out
}

// Div computes a / b and records the operation.
func (a *AutodiffBackend[B]) Div(x, y *tensor.RawTensor) *tensor.RawTensor {
	a.tape.Pin(x, y)
	out := a.inner.Div(x, y)
	a.tape.Record(ops.NewDivOp(x, y, out))
	return out
}

// MatMul computes a @ b and records the operation.
func (a *AutodiffBackend[B]) MatMul(x, y *tensor.RawTensor) *tensor.RawTensor {
	out := a.inner.MatMul(x, y)
	a.tape.Record(ops.NewMatMulOp(x, y, out))
	return out
}

// Reshape changes the tensor's shape and records the operation.
func (a *AutodiffBackend[B]) Reshape(x *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	out := a.inner.Reshape(x, newShape)
	a.tape.Record(ops.NewReshapeOp(x, out))
	return out
}

// Transpose permutes the tensor's axes and records the operation.
func (a *AutodiffBackend[B]) Transpose(x *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	out := a.inner.Transpose(x, axes...)
	a.tape.Record(ops.NewTransposeOp(x, out, axes))
	return out
}

// MulScalar scales the tensor and records the operation.
func (a *AutodiffBackend[B]) MulScalar(x *tensor.RawTensor, scalar float64) *tensor.RawTensor {
	out := a.inner.MulScalar(x, scalar)
	a.tape.Record(ops.NewMulScalarOp(x, out, scalar))
	return out
}

// AddScalar shifts the tensor and records the operation.
func (a *AutodiffBackend[B]) AddScalar(x *tensor.RawTensor, scalar float64) *tensor.RawTensor {
	out := a.inner.AddScalar(x, scalar)
	a.tape.Record(ops.NewAddScalarOp(x, out))
	return out
}

// Sqrt takes the element-wise square root and records the operation.
func (a *AutodiffBackend[B]) Sqrt(x *tensor.RawTensor) *tensor.RawTensor {
	out := a.inner.Sqrt(x)
	a.tape.Record(ops.NewSqrtOp(x, out))
	return out
}

// Sum reduces to a scalar and records the operation.
func (a *AutodiffBackend[B]) Sum(x *tensor.RawTensor) *tensor.RawTensor {
	out := a.inner.Sum(x)
	a.tape.Record(ops.NewSumOp(x, out))
	return out
}

// SumDim reduces along one dimension and records the operation.
func (a *AutodiffBackend[B]) SumDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	out := a.inner.SumDim(x, dim, keepDim)
	a.tape.Record(ops.NewSumDimOp(x, out, dim, keepDim))
	return out
}

// MeanDim averages along one dimension and records the operation.
func (a *AutodiffBackend[B]) MeanDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	out := a.inner.MeanDim(x, dim, keepDim)
	a.tape.Record(ops.NewMeanDimOp(x, out, dim, keepDim))
	return out
}

// ReLU computes max(0, x) element-wise and records the operation.
func (a *AutodiffBackend[B]) ReLU(x *tensor.RawTensor) *tensor.RawTensor {
	out := a.unary(x, func(v float64) float64 { return math.Max(0, v) })
	a.tape.Record(ops.NewReLUOp(x, out))
	return out
}

// Tanh computes tanh(x) element-wise and records the operation.
func (a *AutodiffBackend[B]) Tanh(x *tensor.RawTensor) *tensor.RawTensor {
	out := a.unary(x, math.Tanh)
	a.tape.Record(ops.NewTanhOp(x, out))
	return out
}

// MSE computes the mean squared error between pred and target as a
// one-element tensor and records the operation. Targets receive no gradient.
func (a *AutodiffBackend[B]) MSE(pred, target *tensor.RawTensor) *tensor.RawTensor {
	out := ops.MSEForward(pred, target, a.inner.Device())
	a.tape.Record(ops.NewMSEOp(pred, target, out))
	return out
}

// unary applies f out of place. Activations are computed here rather than in
// the inner backend so any Backend implementation can be decorated.
func (a *AutodiffBackend[B]) unary(x *tensor.RawTensor, f func(float64) float64) *tensor.RawTensor {
	out, err := tensor.NewRaw(x.Shape(), x.DType(), a.inner.Device())
	if err != nil {
		panic(fmt.Sprintf("autodiff: failed to allocate tensor: %v", err))
	}

	switch x.DType() {
	case tensor.Float32:
		in, o := x.AsFloat32(), out.AsFloat32()
		for i, v := range in {
			o[i] = float32(f(float64(v)))
		}
	case tensor.Float64:
		in, o := x.AsFloat64(), out.AsFloat64()
		for i, v := range in {
			o[i] = f(v)
		}
	}

	return out
}
