package ops

import (
	"fmt"

	"github.com/lorentz-ml/lorentz/internal/tensor"
)

// reduceBroadcast shrinks a gradient back to the shape of an input that was
// broadcast during the forward pass.
//
// Example:
//
//	forward:  a[1,4] + b[3,4] -> c[3,4]   (a stretched along dim 0)
//	backward: grad_c[3,4] -> grad_a[1,4]  (summed along dim 0)
func reduceBroadcast(grad *tensor.RawTensor, target tensor.Shape, backend tensor.Backend) *tensor.RawTensor {
	if grad.Shape().Equal(target) {
		// Clone so in-place accumulation elsewhere cannot alias this gradient.
		return grad.Clone()
	}
	if len(target) == 0 {
		return backend.Sum(grad)
	}

	result := grad
	for len(result.Shape()) > len(target) {
		result = backend.SumDim(result, 0, false)
	}
	for d := range target {
		if target[d] == 1 && result.Shape()[d] > 1 {
			result = backend.SumDim(result, d, true)
		}
	}
	if !result.Shape().Equal(target) {
		result = backend.Reshape(result, target)
	}
	return result
}

// negate returns -grad.
func negate(grad *tensor.RawTensor, backend tensor.Backend) *tensor.RawTensor {
	return backend.MulScalar(grad, -1)
}

// broadcastTo stretches t to the target shape by adding it to zeros.
func broadcastTo(t *tensor.RawTensor, target tensor.Shape, backend tensor.Backend) *tensor.RawTensor {
	zeros := newRaw(target, t.DType(), t.Device())
	return backend.Add(zeros, t)
}

func newRaw(shape tensor.Shape, dtype tensor.DataType, device tensor.Device) *tensor.RawTensor {
	t, err := tensor.NewRaw(shape, dtype, device)
	if err != nil {
		panic(fmt.Sprintf("ops: failed to allocate tensor: %v", err))
	}
	return t
}
