package cpu

import (
	"fmt"

	"github.com/lorentz-ml/lorentz/internal/tensor"
)

// binary dispatches an element-wise binary operation on dtype, choosing
// between the in-place, same-shape vectorized, and broadcasting paths.
func (c *CPUBackend) binary(
	name string,
	a, b *tensor.RawTensor,
	f32 func(float32, float32) float32,
	f64 func(float64, float64) float64,
) *tensor.RawTensor {
	outShape, needsBroadcast, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(fmt.Sprintf("%s: %v", name, err))
	}
	if a.DType() != b.DType() {
		panic(fmt.Sprintf("%s: dtype mismatch %s vs %s", name, a.DType(), b.DType()))
	}

	if !needsBroadcast && a.Shape().Equal(b.Shape()) {
		if a.IsUnique() {
			// a is exclusively held: mutate it in place.
			switch a.DType() {
			case tensor.Float32:
				zip(a.AsFloat32(), a.AsFloat32(), b.AsFloat32(), f32)
			case tensor.Float64:
				zip(a.AsFloat64(), a.AsFloat64(), b.AsFloat64(), f64)
			}
			return a
		}

		result := newRaw(outShape, a.DType(), c.device)
		switch a.DType() {
		case tensor.Float32:
			zip(result.AsFloat32(), a.AsFloat32(), b.AsFloat32(), f32)
		case tensor.Float64:
			zip(result.AsFloat64(), a.AsFloat64(), b.AsFloat64(), f64)
		}
		return result
	}

	result := newRaw(outShape, a.DType(), c.device)
	switch a.DType() {
	case tensor.Float32:
		zipBroadcast(result.AsFloat32(), a.AsFloat32(), b.AsFloat32(), a.Shape(), b.Shape(), outShape, f32)
	case tensor.Float64:
		zipBroadcast(result.AsFloat64(), a.AsFloat64(), b.AsFloat64(), a.Shape(), b.Shape(), outShape, f64)
	}
	return result
}

// zip applies f pairwise. dst may alias a.
func zip[T tensor.DType](dst, a, b []T, f func(T, T) T) {
	for i := range dst {
		dst[i] = f(a[i], b[i])
	}
}

// zipBroadcast applies f pairwise with both operands stretched to outShape.
func zipBroadcast[T tensor.DType](dst, a, b []T, aShape, bShape, outShape tensor.Shape, f func(T, T) T) {
	outStrides := outShape.ComputeStrides()
	aStrides := broadcastStrides(aShape, outShape)
	bStrides := broadcastStrides(bShape, outShape)

	for i := range dst {
		dst[i] = f(a[flatIndex(i, outStrides, aStrides)], b[flatIndex(i, outStrides, bStrides)])
	}
}

// broadcastStrides returns per-output-dimension strides into a source shape,
// with stretched dimensions (size 1 or missing) contributing stride 0.
func broadcastStrides(src, out tensor.Shape) []int {
	strides := make([]int, len(out))
	srcStrides := src.ComputeStrides()
	offset := len(out) - len(src)
	for d := range out {
		sd := d - offset
		if sd >= 0 && src[sd] != 1 {
			strides[d] = srcStrides[sd]
		}
	}
	return strides
}

// flatIndex maps a flat output index to the corresponding source index.
func flatIndex(i int, outStrides, srcStrides []int) int {
	idx := 0
	for d := range outStrides {
		coord := i / outStrides[d]
		i %= outStrides[d]
		idx += coord * srcStrides[d]
	}
	return idx
}

// transposeData permutes src into dst according to axes.
func transposeData[T tensor.DType](dst, src []T, shape tensor.Shape, axes []int) {
	ndim := len(shape)
	srcStrides := shape.ComputeStrides()

	dstShape := make(tensor.Shape, ndim)
	for i, ax := range axes {
		dstShape[i] = shape[ax]
	}
	dstStrides := dstShape.ComputeStrides()

	coords := make([]int, ndim)
	for i := range src {
		idx := i
		for d := 0; d < ndim; d++ {
			coords[d] = idx / srcStrides[d]
			idx %= srcStrides[d]
		}
		dstIdx := 0
		for dstDim, srcDim := range axes {
			dstIdx += coords[srcDim] * dstStrides[dstDim]
		}
		dst[dstIdx] = src[i]
	}
}
