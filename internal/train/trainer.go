package train

import (
	"github.com/lorentz-ml/lorentz/internal/autodiff"
	"github.com/lorentz-ml/lorentz/internal/nn"
	"github.com/lorentz-ml/lorentz/internal/optim"
	"github.com/lorentz-ml/lorentz/internal/physics"
	"github.com/lorentz-ml/lorentz/internal/tensor"
)

// Trainer bundles the model, loss, optimizer and gradient tape for the
// training loop.
type Trainer[B tensor.Backend] struct {
	model *MassNet[B]
	loss  *nn.MSELoss[B]
	opt   optim.Optimizer[B]
	tape  *autodiff.GradientTape
}

// NewTrainer creates a trainer. The tape must belong to the backend the
// model was built on.
func NewTrainer[B tensor.Backend](model *MassNet[B], opt optim.Optimizer[B], tape *autodiff.GradientTape) *Trainer[B] {
	return &Trainer[B]{
		model: model,
		loss:  nn.NewMSELoss[B](),
		opt:   opt,
		tape:  tape,
	}
}

// Step performs one parameter update: forward pass, MSE against the scaled
// targets, backward pass and a single optimizer step. Returns the scalar
// loss. A non-finite loss is returned as-is.
func (t *Trainer[B]) Step(x, y *tensor.Tensor[float32, B]) float64 {
	t.tape.Clear()
	t.tape.StartRecording()

	pred := t.model.Forward(x)
	loss := t.loss.Forward(pred, y)

	grads := autodiff.Backward(loss, t.tape)
	t.opt.Step(grads)

	lossValue := float64(loss.Item())
	t.tape.Clear()
	return lossValue
}

// Tensors converts a sampled batch into the model's float32 input of shape
// (n, 4) and the scaled target column of shape (n, 1).
func Tensors[B tensor.Backend](batch *physics.Batch, scaler *physics.TargetScaler, backend B) (x, y *tensor.Tensor[float32, B], err error) {
	features := make([]float32, len(batch.Features))
	for i, v := range batch.Features {
		features[i] = float32(v)
	}

	targets := make([]float32, batch.N)
	for i, m := range batch.Mass {
		targets[i] = float32(scaler.Scale(m))
	}

	x, err = tensor.FromSlice(features, tensor.Shape{batch.N, physics.Components}, backend)
	if err != nil {
		return nil, nil, err
	}
	y, err = tensor.FromSlice(targets, tensor.Shape{batch.N, 1}, backend)
	if err != nil {
		return nil, nil, err
	}
	return x, y, nil
}
