package ops

import "github.com/lorentz-ml/lorentz/internal/tensor"

// MulScalarOp records output = input * scalar.
type MulScalarOp struct {
	inputs []*tensor.RawTensor
	output *tensor.RawTensor
	scalar float64
}

// NewMulScalarOp creates a new MulScalarOp.
func NewMulScalarOp(input, output *tensor.RawTensor, scalar float64) *MulScalarOp {
	return &MulScalarOp{inputs: []*tensor.RawTensor{input}, output: output, scalar: scalar}
}

// Backward scales outputGrad by the same constant.
func (op *MulScalarOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{backend.MulScalar(outputGrad, op.scalar)}
}

// Inputs returns the input tensor.
func (op *MulScalarOp) Inputs() []*tensor.RawTensor { return op.inputs }

// Output returns the scaled tensor.
func (op *MulScalarOp) Output() *tensor.RawTensor { return op.output }

// AddScalarOp records output = input + scalar.
//
// The constant shift contributes nothing to the gradient, so the output
// gradient passes through unchanged.
type AddScalarOp struct {
	inputs []*tensor.RawTensor
	output *tensor.RawTensor
}

// NewAddScalarOp creates a new AddScalarOp.
func NewAddScalarOp(input, output *tensor.RawTensor) *AddScalarOp {
	return &AddScalarOp{inputs: []*tensor.RawTensor{input}, output: output}
}

// Backward passes outputGrad through.
func (op *AddScalarOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{outputGrad.Clone()}
}

// Inputs returns the input tensor.
func (op *AddScalarOp) Inputs() []*tensor.RawTensor { return op.inputs }

// Output returns the shifted tensor.
func (op *AddScalarOp) Output() *tensor.RawTensor { return op.output }

// SqrtOp records output = sqrt(input).
//
// d sqrt(x)/dx = 1 / (2 sqrt(x)) = 0.5 / output.
type SqrtOp struct {
	inputs []*tensor.RawTensor
	output *tensor.RawTensor
}

// NewSqrtOp creates a new SqrtOp.
func NewSqrtOp(input, output *tensor.RawTensor) *SqrtOp {
	return &SqrtOp{inputs: []*tensor.RawTensor{input}, output: output}
}

// Backward computes outputGrad * 0.5 / output.
func (op *SqrtOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	half := backend.MulScalar(outputGrad, 0.5)
	return []*tensor.RawTensor{backend.Div(half, op.output)}
}

// Inputs returns the input tensor.
func (op *SqrtOp) Inputs() []*tensor.RawTensor { return op.inputs }

// Output returns the square-root tensor.
func (op *SqrtOp) Output() *tensor.RawTensor { return op.output }
