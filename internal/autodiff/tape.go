// Package autodiff provides reverse-mode automatic differentiation.
//
// A GradientTape records every differentiable operation executed through an
// AutodiffBackend. Backward then replays the record in reverse, propagating
// gradients from a loss back to every tensor that contributed to it.
package autodiff

import (
	"sync"

	"github.com/lorentz-ml/lorentz/internal/autodiff/ops"
	"github.com/lorentz-ml/lorentz/internal/tensor"
)

// GradientTape records operations for reverse-mode differentiation.
type GradientTape struct {
	mu         sync.Mutex
	operations []ops.Operation
	releases   []func()
	recording  bool
}

// NewGradientTape creates a tape that is already recording.
func NewGradientTape() *GradientTape {
	return &GradientTape{recording: true}
}

// StartRecording enables recording of operations.
func (t *GradientTape) StartRecording() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.recording = true
}

// StopRecording disables recording. Operations executed while stopped are
// not differentiated, which is what evaluation passes want.
func (t *GradientTape) StopRecording() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.recording = false
}

// IsRecording reports whether the tape currently records operations.
func (t *GradientTape) IsRecording() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.recording
}

// Record appends an operation to the tape if recording is enabled. The
// operation's tensors are pinned so later backend calls cannot overwrite
// them in place before the backward pass runs; Clear unpins them.
func (t *GradientTape) Record(op ops.Operation) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.recording {
		return
	}
	t.operations = append(t.operations, op)
	for _, input := range op.Inputs() {
		t.releases = append(t.releases, input.ForceNonUnique())
	}
	t.releases = append(t.releases, op.Output().ForceNonUnique())
}

// Pin blocks in-place mutation of the given tensors until Clear. The
// autodiff backend pins operation inputs before computing, so a recorded
// input can never alias its output.
func (t *GradientTape) Pin(tensors ...*tensor.RawTensor) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.recording {
		return
	}
	for _, r := range tensors {
		t.releases = append(t.releases, r.ForceNonUnique())
	}
}

// Clear drops all recorded operations and unpins their inputs. Call once per
// training step so the graph does not grow across batches.
func (t *GradientTape) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, release := range t.releases {
		release()
	}
	t.releases = t.releases[:0]
	t.operations = t.operations[:0]
}

// NumOps returns the number of recorded operations.
func (t *GradientTape) NumOps() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.operations)
}

// Backward propagates outputGrad from output back through the recorded
// graph and returns the gradient of every tensor reached, keyed by tensor.
//
// Gradient computation itself must not be recorded, so recording is
// suspended for the duration of the call.
func (t *GradientTape) Backward(output, outputGrad *tensor.RawTensor, backend tensor.Backend) map[*tensor.RawTensor]*tensor.RawTensor {
	t.mu.Lock()
	operations := make([]ops.Operation, len(t.operations))
	copy(operations, t.operations)
	wasRecording := t.recording
	t.recording = false
	t.mu.Unlock()

	defer func() {
		t.mu.Lock()
		t.recording = wasRecording
		t.mu.Unlock()
	}()

	grads := map[*tensor.RawTensor]*tensor.RawTensor{output: outputGrad}

	for i := len(operations) - 1; i >= 0; i-- {
		op := operations[i]

		outGrad, ok := grads[op.Output()]
		if !ok {
			// Output does not feed into the differentiated value.
			continue
		}

		// Pin the output gradient so backend calls inside Backward cannot
		// mutate it in place between uses.
		unpin := outGrad.ForceNonUnique()
		inputGrads := op.Backward(outGrad, backend)
		unpin()
		for j, input := range op.Inputs() {
			if j >= len(inputGrads) || inputGrads[j] == nil {
				continue
			}
			if existing, ok := grads[input]; ok {
				grads[input] = backend.Add(existing, inputGrads[j])
			} else {
				grads[input] = inputGrads[j]
			}
		}
	}

	return grads
}
