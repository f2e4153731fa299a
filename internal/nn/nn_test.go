package nn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lorentz-ml/lorentz/internal/autodiff"
	"github.com/lorentz-ml/lorentz/internal/backend/cpu"
	"github.com/lorentz-ml/lorentz/internal/tensor"
)

type testBackend = autodiff.AutodiffBackend[*cpu.CPUBackend]

func newBackend() *testBackend {
	return autodiff.NewAutodiffBackend(cpu.New())
}

func from32(t *testing.T, b *testBackend, data []float32, shape tensor.Shape) *tensor.Tensor[float32, *testBackend] {
	t.Helper()
	x, err := tensor.FromSlice(data, shape, b)
	require.NoError(t, err)
	return x
}

func TestLinearForward(t *testing.T) {
	b := newBackend()
	layer := NewLinear(2, 3, b)

	// Overwrite the random init with known values.
	copy(layer.Weight().Tensor.Data(), []float32{1, 2, 3, 4, 5, 6})
	copy(layer.Bias().Tensor.Data(), []float32{0.5, -0.5, 1})

	x := from32(t, b, []float32{1, 1}, tensor.Shape{1, 2})
	out := layer.Forward(x)

	require.True(t, out.Shape().Equal(tensor.Shape{1, 3}))
	// Rows of W dotted with x, plus bias: 3+0.5, 7-0.5, 11+1.
	assert.InDeltaSlice(t, []float32{3.5, 6.5, 12}, out.Data(), 1e-6)
}

func TestLinearParameters(t *testing.T) {
	b := newBackend()
	layer := NewLinear(4, 8, b)

	params := layer.Parameters()
	require.Len(t, params, 2)
	assert.True(t, params[0].Tensor.Shape().Equal(tensor.Shape{8, 4}))
	assert.True(t, params[1].Tensor.Shape().Equal(tensor.Shape{8}))
}

func TestXavierUniformBounds(t *testing.T) {
	b := newBackend()
	w := XavierUniform[*testBackend](tensor.Shape{64, 64}, 64, 64, b)

	limit := float32(0.21650635) // sqrt(6/128)
	for _, v := range w.Data() {
		assert.LessOrEqual(t, v, limit)
		assert.GreaterOrEqual(t, v, -limit)
	}
}

func TestReLUForward(t *testing.T) {
	b := newBackend()
	x := from32(t, b, []float32{-2, 0, 3}, tensor.Shape{3})

	out := NewReLU[*testBackend]().Forward(x)
	assert.Equal(t, []float32{0, 0, 3}, out.Data())
}

func TestTanhForward(t *testing.T) {
	b := newBackend()
	x := from32(t, b, []float32{0}, tensor.Shape{1})

	out := NewTanh[*testBackend]().Forward(x)
	assert.Equal(t, float32(0), out.Data()[0])
}

func TestMSELoss(t *testing.T) {
	b := newBackend()
	pred := from32(t, b, []float32{1, 3}, tensor.Shape{2, 1})
	target := from32(t, b, []float32{2, 2}, tensor.Shape{2, 1})

	loss := NewMSELoss[*testBackend]().Forward(pred, target)
	assert.InDelta(t, 1.0, float64(loss.Item()), 1e-6)
}

func TestMSELossGradientFlowsThroughLinear(t *testing.T) {
	b := newBackend()
	layer := NewLinear(2, 1, b)
	copy(layer.Weight().Tensor.Data(), []float32{0.5, -0.5})
	copy(layer.Bias().Tensor.Data(), []float32{0})

	x := from32(t, b, []float32{1, 2}, tensor.Shape{1, 2})
	target := from32(t, b, []float32{1}, tensor.Shape{1, 1})

	pred := layer.Forward(x)
	loss := NewMSELoss[*testBackend]().Forward(pred, target)

	grads := autodiff.Backward(loss, b.Tape())
	gw := grads[layer.Weight().Raw()]
	require.NotNil(t, gw)

	// pred = -0.5, d loss/d pred = 2(pred - target) = -3, dw = -3 * x.
	assert.InDeltaSlice(t, []float32{-3, -6}, gw.AsFloat32(), 1e-5)

	gb := grads[layer.Bias().Raw()]
	require.NotNil(t, gb)
	assert.InDeltaSlice(t, []float32{-3}, gb.AsFloat32(), 1e-5)
}

func TestFeatureScale(t *testing.T) {
	b := newBackend()
	fs := NewFeatureScale([]float64{10, 20}, []float64{0.1, 0.5}, b)

	x := from32(t, b, []float32{10, 22, 30, 18}, tensor.Shape{2, 2})
	out := fs.Forward(x)

	assert.InDeltaSlice(t, []float32{0, 1, 2, -1}, out.Data(), 1e-6)
	assert.Nil(t, fs.Parameters())
}

func TestFeatureScaleLengthMismatchPanics(t *testing.T) {
	b := newBackend()
	assert.Panics(t, func() {
		NewFeatureScale([]float64{1}, []float64{1, 2}, b)
	})
}
