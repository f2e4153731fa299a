package cpu

import (
	"fmt"

	"github.com/lorentz-ml/lorentz/internal/tensor"
)

// Sum reduces the whole tensor to a scalar (empty shape).
func (c *CPUBackend) Sum(x *tensor.RawTensor) *tensor.RawTensor {
	result := newRaw(tensor.Shape{}, x.DType(), c.device)
	switch x.DType() {
	case tensor.Float32:
		var sum float32
		for _, v := range x.AsFloat32() {
			sum += v
		}
		result.AsFloat32()[0] = sum
	case tensor.Float64:
		var sum float64
		for _, v := range x.AsFloat64() {
			sum += v
		}
		result.AsFloat64()[0] = sum
	}
	return result
}

// SumDim sums along one dimension. With keepDim the reduced dimension stays
// as size 1, otherwise it is dropped (a 1D input reduces to a scalar).
func (c *CPUBackend) SumDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	return c.reduceDim("sumdim", x, dim, keepDim, false)
}

// MeanDim averages along one dimension.
func (c *CPUBackend) MeanDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	return c.reduceDim("meandim", x, dim, keepDim, true)
}

func (c *CPUBackend) reduceDim(name string, x *tensor.RawTensor, dim int, keepDim, mean bool) *tensor.RawTensor {
	shape := x.Shape()
	if dim < 0 || dim >= len(shape) {
		panic(fmt.Sprintf("%s: invalid dimension %d for shape %v", name, dim, shape))
	}

	outShape := reducedShape(shape, dim, keepDim)
	result := newRaw(outShape, x.DType(), c.device)

	switch x.DType() {
	case tensor.Float32:
		reduceAlong(result.AsFloat32(), x.AsFloat32(), shape, dim, mean)
	case tensor.Float64:
		reduceAlong(result.AsFloat64(), x.AsFloat64(), shape, dim, mean)
	}
	return result
}

func reducedShape(shape tensor.Shape, dim int, keepDim bool) tensor.Shape {
	if keepDim {
		out := shape.Clone()
		out[dim] = 1
		return out
	}
	out := make(tensor.Shape, 0, len(shape)-1)
	for d, size := range shape {
		if d != dim {
			out = append(out, size)
		}
	}
	return out
}

// reduceAlong accumulates src into dst along dim. Viewing src as
// [outer, shape[dim], inner], each dst cell [o, i] sums the middle axis.
func reduceAlong[T tensor.DType](dst, src []T, shape tensor.Shape, dim int, mean bool) {
	outer, inner := 1, 1
	for d := 0; d < dim; d++ {
		outer *= shape[d]
	}
	for d := dim + 1; d < len(shape); d++ {
		inner *= shape[d]
	}
	n := shape[dim]

	for o := 0; o < outer; o++ {
		base := o * n * inner
		out := dst[o*inner : (o+1)*inner]
		for j := 0; j < n; j++ {
			row := src[base+j*inner : base+(j+1)*inner]
			for i := range out {
				out[i] += row[i]
			}
		}
		if mean {
			for i := range out {
				out[i] /= T(n)
			}
		}
	}
}
