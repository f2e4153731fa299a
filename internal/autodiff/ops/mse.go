package ops

import "github.com/lorentz-ml/lorentz/internal/tensor"

// MSEOp records output = mean((pred - target)²) as a single-element tensor.
//
// Recording the whole reduction as one op keeps the loss differentiable end
// to end. Only the prediction receives a gradient; targets are data.
//
//	grad_pred[i] = outputGrad * 2 * (pred[i] - target[i]) / N
type MSEOp struct {
	inputs []*tensor.RawTensor
	output *tensor.RawTensor
}

// NewMSEOp creates a new MSEOp.
func NewMSEOp(pred, target, output *tensor.RawTensor) *MSEOp {
	return &MSEOp{inputs: []*tensor.RawTensor{pred, target}, output: output}
}

// MSEForward computes the mean squared error of pred against target as a
// one-element tensor. Shapes must match exactly.
func MSEForward(pred, target *tensor.RawTensor, device tensor.Device) *tensor.RawTensor {
	if !pred.Shape().Equal(target.Shape()) {
		panic("mse: shape mismatch between prediction and target")
	}

	out := newRaw(tensor.Shape{1}, pred.DType(), device)
	n := float64(pred.NumElements())

	switch pred.DType() {
	case tensor.Float32:
		p, t := pred.AsFloat32(), target.AsFloat32()
		var sum float64
		for i := range p {
			d := float64(p[i]) - float64(t[i])
			sum += d * d
		}
		out.AsFloat32()[0] = float32(sum / n)
	case tensor.Float64:
		p, t := pred.AsFloat64(), target.AsFloat64()
		var sum float64
		for i := range p {
			d := p[i] - t[i]
			sum += d * d
		}
		out.AsFloat64()[0] = sum / n
	}

	return out
}

// Backward computes the prediction gradient. The target entry is nil since
// targets are not differentiated.
func (op *MSEOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	pred, target := op.inputs[0], op.inputs[1]
	grad := newRaw(pred.Shape(), pred.DType(), pred.Device())
	n := float64(pred.NumElements())

	switch pred.DType() {
	case tensor.Float32:
		p, t := pred.AsFloat32(), target.AsFloat32()
		g := grad.AsFloat32()
		og := float64(outputGrad.AsFloat32()[0])
		for i := range p {
			g[i] = float32(og * 2 * (float64(p[i]) - float64(t[i])) / n)
		}
	case tensor.Float64:
		p, t := pred.AsFloat64(), target.AsFloat64()
		g := grad.AsFloat64()
		og := outputGrad.AsFloat64()[0]
		for i := range p {
			g[i] = og * 2 * (p[i] - t[i]) / n
		}
	}

	return []*tensor.RawTensor{grad, nil}
}

// Inputs returns [pred, target].
func (op *MSEOp) Inputs() []*tensor.RawTensor { return op.inputs }

// Output returns the one-element loss tensor.
func (op *MSEOp) Output() *tensor.RawTensor { return op.output }
