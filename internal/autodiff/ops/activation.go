package ops

import "github.com/lorentz-ml/lorentz/internal/tensor"

// ReLUOp records output = max(0, input).
//
// The backward pass masks the output gradient by where the input was
// positive. The mask is derived from the saved output rather than the
// input: output > 0 exactly where input > 0.
type ReLUOp struct {
	inputs []*tensor.RawTensor
	output *tensor.RawTensor
}

// NewReLUOp creates a new ReLUOp.
func NewReLUOp(input, output *tensor.RawTensor) *ReLUOp {
	return &ReLUOp{inputs: []*tensor.RawTensor{input}, output: output}
}

// Backward masks outputGrad to the positive region of the activation.
func (op *ReLUOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	mask := newRaw(op.output.Shape(), op.output.DType(), op.output.Device())

	switch op.output.DType() {
	case tensor.Float32:
		out := op.output.AsFloat32()
		m := mask.AsFloat32()
		for i, v := range out {
			if v > 0 {
				m[i] = 1
			}
		}
	case tensor.Float64:
		out := op.output.AsFloat64()
		m := mask.AsFloat64()
		for i, v := range out {
			if v > 0 {
				m[i] = 1
			}
		}
	}

	return []*tensor.RawTensor{backend.Mul(outputGrad, mask)}
}

// Inputs returns the input tensor.
func (op *ReLUOp) Inputs() []*tensor.RawTensor { return op.inputs }

// Output returns the activated tensor.
func (op *ReLUOp) Output() *tensor.RawTensor { return op.output }

// TanhOp records output = tanh(input).
//
// d tanh(x)/dx = 1 - tanh(x)², computed from the saved output.
type TanhOp struct {
	inputs []*tensor.RawTensor
	output *tensor.RawTensor
}

// NewTanhOp creates a new TanhOp.
func NewTanhOp(input, output *tensor.RawTensor) *TanhOp {
	return &TanhOp{inputs: []*tensor.RawTensor{input}, output: output}
}

// Backward computes outputGrad * (1 - output²).
func (op *TanhOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	outSq := backend.Mul(op.output, op.output)
	deriv := backend.AddScalar(backend.MulScalar(outSq, -1), 1)
	return []*tensor.RawTensor{backend.Mul(outputGrad, deriv)}
}

// Inputs returns the input tensor.
func (op *TanhOp) Inputs() []*tensor.RawTensor { return op.inputs }

// Output returns the activated tensor.
func (op *TanhOp) Output() *tensor.RawTensor { return op.output }
