package autodiff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/diff/fd"

	"github.com/lorentz-ml/lorentz/internal/tensor"
)

// TestGradientMatchesFiniteDifferences checks the tape against central
// finite differences on f(x) = sum(tanh(x @ W)), a small nonlinear function
// exercising matmul, tanh and sum together.
func TestGradientMatchesFiniteDifferences(t *testing.T) {
	b := newBackend()

	weights := []float64{0.3, -0.2, 0.5, 0.7, -0.4, 0.1}
	w := from64(t, b, weights, tensor.Shape{3, 2})
	x0 := []float64{0.5, -1.2, 0.8, 0.3, -0.7, 1.1}

	f := func(xv []float64) float64 {
		b.Tape().StopRecording()
		defer b.Tape().StartRecording()

		x, err := tensor.FromSlice(xv, tensor.Shape{2, 3}, b)
		require.NoError(t, err)
		out := b.Tanh(x.MatMul(w).Raw())
		return b.Sum(out).AsFloat64()[0]
	}

	numeric := make([]float64, len(x0))
	fd.Gradient(numeric, f, x0, &fd.Settings{Formula: fd.Central})

	b.Tape().Clear()
	x := from64(t, b, x0, tensor.Shape{2, 3})
	out := tensor.New[float64](b.Tanh(x.MatMul(w).Raw()), b)
	loss := out.Sum()

	grads := Backward(loss, b.Tape())
	analytic := grads[x.Raw()]
	require.NotNil(t, analytic)

	assert.InDeltaSlice(t, numeric, analytic.AsFloat64(), 1e-6)
}
