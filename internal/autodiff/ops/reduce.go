package ops

import "github.com/lorentz-ml/lorentz/internal/tensor"

// SumOp records output = sum(input) as a scalar.
//
// Every input element contributes with weight 1, so the backward pass
// broadcasts the scalar gradient back to the input shape.
type SumOp struct {
	inputs []*tensor.RawTensor
	output *tensor.RawTensor
}

// NewSumOp creates a new SumOp.
func NewSumOp(input, output *tensor.RawTensor) *SumOp {
	return &SumOp{inputs: []*tensor.RawTensor{input}, output: output}
}

// Backward broadcasts outputGrad to the input's shape.
func (op *SumOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{broadcastTo(outputGrad, op.inputs[0].Shape(), backend)}
}

// Inputs returns the input tensor.
func (op *SumOp) Inputs() []*tensor.RawTensor { return op.inputs }

// Output returns the scalar sum.
func (op *SumOp) Output() *tensor.RawTensor { return op.output }

// SumDimOp records output = sum(input, dim).
type SumDimOp struct {
	inputs  []*tensor.RawTensor
	output  *tensor.RawTensor
	dim     int
	keepDim bool
}

// NewSumDimOp creates a new SumDimOp.
func NewSumDimOp(input, output *tensor.RawTensor, dim int, keepDim bool) *SumDimOp {
	return &SumDimOp{inputs: []*tensor.RawTensor{input}, output: output, dim: dim, keepDim: keepDim}
}

// Backward broadcasts outputGrad along the reduced dimension.
func (op *SumDimOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	grad := outputGrad
	if !op.keepDim {
		grad = backend.Reshape(grad, keptShape(op.inputs[0].Shape(), op.dim))
	}
	return []*tensor.RawTensor{broadcastTo(grad, op.inputs[0].Shape(), backend)}
}

// Inputs returns the input tensor.
func (op *SumDimOp) Inputs() []*tensor.RawTensor { return op.inputs }

// Output returns the reduced tensor.
func (op *SumDimOp) Output() *tensor.RawTensor { return op.output }

// MeanDimOp records output = mean(input, dim).
type MeanDimOp struct {
	inputs  []*tensor.RawTensor
	output  *tensor.RawTensor
	dim     int
	keepDim bool
}

// NewMeanDimOp creates a new MeanDimOp.
func NewMeanDimOp(input, output *tensor.RawTensor, dim int, keepDim bool) *MeanDimOp {
	return &MeanDimOp{inputs: []*tensor.RawTensor{input}, output: output, dim: dim, keepDim: keepDim}
}

// Backward broadcasts outputGrad along the reduced dimension and divides
// by its size.
func (op *MeanDimOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	inShape := op.inputs[0].Shape()
	grad := outputGrad
	if !op.keepDim {
		grad = backend.Reshape(grad, keptShape(inShape, op.dim))
	}
	grad = broadcastTo(grad, inShape, backend)
	grad = backend.MulScalar(grad, 1/float64(inShape[op.dim]))
	return []*tensor.RawTensor{grad}
}

// Inputs returns the input tensor.
func (op *MeanDimOp) Inputs() []*tensor.RawTensor { return op.inputs }

// Output returns the reduced tensor.
func (op *MeanDimOp) Output() *tensor.RawTensor { return op.output }

// keptShape is the input shape with dim collapsed to 1, the shape the
// reduction would have produced with keepDim set.
func keptShape(in tensor.Shape, dim int) tensor.Shape {
	kept := in.Clone()
	kept[dim] = 1
	return kept
}
