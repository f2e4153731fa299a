package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lorentz-ml/lorentz/internal/tensor"
)

func raw32(t *testing.T, data []float32, shape tensor.Shape) *tensor.RawTensor {
	t.Helper()
	r, err := tensor.NewRaw(shape, tensor.Float32, tensor.CPU)
	require.NoError(t, err)
	copy(r.AsFloat32(), data)
	return r
}

func raw64(t *testing.T, data []float64, shape tensor.Shape) *tensor.RawTensor {
	t.Helper()
	r, err := tensor.NewRaw(shape, tensor.Float64, tensor.CPU)
	require.NoError(t, err)
	copy(r.AsFloat64(), data)
	return r
}

func TestBinaryOps(t *testing.T) {
	b := New()
	a := raw32(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	c := raw32(t, []float32{5, 6, 7, 8}, tensor.Shape{2, 2})

	// Keep a out of the in-place path so it survives for later checks.
	defer a.ForceNonUnique()()

	assert.Equal(t, []float32{6, 8, 10, 12}, b.Add(a, c).AsFloat32())
	assert.Equal(t, []float32{-4, -4, -4, -4}, b.Sub(a, c).AsFloat32())
	assert.Equal(t, []float32{5, 12, 21, 32}, b.Mul(a, c).AsFloat32())

	d := raw32(t, []float32{2, 4, 6, 8}, tensor.Shape{2, 2})
	assert.Equal(t, []float32{0.5, 0.5, 0.5, 0.5}, b.Div(a, d).AsFloat32())
}

func TestAddInPlaceFastPath(t *testing.T) {
	b := New()
	a := raw32(t, []float32{1, 2}, tensor.Shape{2})
	c := raw32(t, []float32{10, 20}, tensor.Shape{2})

	require.True(t, a.IsUnique())
	out := b.Add(a, c)
	// Exclusively held first operand is reused as the output.
	assert.Same(t, a, out)
	assert.Equal(t, []float32{11, 22}, out.AsFloat32())
}

func TestAddSharedAllocates(t *testing.T) {
	b := New()
	a := raw32(t, []float32{1, 2}, tensor.Shape{2})
	c := raw32(t, []float32{10, 20}, tensor.Shape{2})

	restore := a.ForceNonUnique()
	defer restore()

	out := b.Add(a, c)
	assert.NotSame(t, a, out)
	assert.Equal(t, []float32{1, 2}, a.AsFloat32())
	assert.Equal(t, []float32{11, 22}, out.AsFloat32())
}

func TestAddBroadcast(t *testing.T) {
	b := New()
	a := raw64(t, []float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	row := raw64(t, []float64{10, 20, 30}, tensor.Shape{3})

	out := b.Add(a, row)
	assert.True(t, out.Shape().Equal(tensor.Shape{2, 3}))
	assert.Equal(t, []float64{11, 22, 33, 14, 25, 36}, out.AsFloat64())
}

func TestAddBroadcastColumn(t *testing.T) {
	b := New()
	col := raw64(t, []float64{1, 2}, tensor.Shape{2, 1})
	row := raw64(t, []float64{10, 20, 30}, tensor.Shape{1, 3})

	out := b.Add(col, row)
	assert.True(t, out.Shape().Equal(tensor.Shape{2, 3}))
	assert.Equal(t, []float64{11, 21, 31, 12, 22, 32}, out.AsFloat64())
}

func TestMatMul(t *testing.T) {
	b := New()
	a := raw32(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	c := raw32(t, []float32{7, 8, 9, 10, 11, 12}, tensor.Shape{3, 2})

	out := b.MatMul(a, c)
	assert.True(t, out.Shape().Equal(tensor.Shape{2, 2}))
	assert.Equal(t, []float32{58, 64, 139, 154}, out.AsFloat32())
}

func TestMatMulShapeMismatchPanics(t *testing.T) {
	b := New()
	a := raw32(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	c := raw32(t, []float32{1, 2, 3}, tensor.Shape{3, 1})

	assert.Panics(t, func() { b.MatMul(a, c) })
}

func TestMatMulNaiveMatchesBlocked(t *testing.T) {
	const m, k, n = 65, 70, 67
	a := make([]float64, m*k)
	c := make([]float64, k*n)
	for i := range a {
		a[i] = float64(i%13) - 6
	}
	for i := range c {
		c[i] = float64(i%7) - 3
	}

	naive := make([]float64, m*n)
	blocked := make([]float64, m*n)
	matmulNaive(naive, a, c, m, k, n)
	matmulBlocked(blocked, a, c, m, k, n)

	assert.Equal(t, naive, blocked)
}

func TestTranspose(t *testing.T) {
	b := New()
	a := raw32(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})

	out := b.Transpose(a)
	assert.True(t, out.Shape().Equal(tensor.Shape{3, 2}))
	assert.Equal(t, []float32{1, 4, 2, 5, 3, 6}, out.AsFloat32())

	// Round trip restores the original layout.
	back := b.Transpose(out, 1, 0)
	assert.Equal(t, a.AsFloat32(), back.AsFloat32())
}

func TestReshape(t *testing.T) {
	b := New()
	a := raw32(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})

	out := b.Reshape(a, tensor.Shape{3, 2})
	assert.True(t, out.Shape().Equal(tensor.Shape{3, 2}))
	assert.Equal(t, a.AsFloat32(), out.AsFloat32())

	assert.Panics(t, func() { b.Reshape(a, tensor.Shape{4, 2}) })
}

func TestScalarOps(t *testing.T) {
	b := New()
	a := raw64(t, []float64{1, 4, 9}, tensor.Shape{3})

	assert.Equal(t, []float64{2, 8, 18}, b.MulScalar(a, 2).AsFloat64())
	assert.Equal(t, []float64{2, 5, 10}, b.AddScalar(a, 1).AsFloat64())
	assert.Equal(t, []float64{1, 2, 3}, b.Sqrt(a).AsFloat64())
}

func TestSum(t *testing.T) {
	b := New()
	a := raw64(t, []float64{1, 2, 3, 4}, tensor.Shape{2, 2})

	out := b.Sum(a)
	assert.True(t, out.Shape().Equal(tensor.Shape{}))
	assert.Equal(t, 10.0, out.AsFloat64()[0])
}

func TestSumDim(t *testing.T) {
	b := New()
	a := raw64(t, []float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})

	rows := b.SumDim(a, 1, false)
	assert.True(t, rows.Shape().Equal(tensor.Shape{2}))
	assert.Equal(t, []float64{6, 15}, rows.AsFloat64())

	cols := b.SumDim(a, 0, true)
	assert.True(t, cols.Shape().Equal(tensor.Shape{1, 3}))
	assert.Equal(t, []float64{5, 7, 9}, cols.AsFloat64())
}

func TestMeanDim(t *testing.T) {
	b := New()
	a := raw64(t, []float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})

	out := b.MeanDim(a, 1, false)
	assert.Equal(t, []float64{2, 5}, out.AsFloat64())
}

func TestDTypeMismatchPanics(t *testing.T) {
	b := New()
	a := raw32(t, []float32{1}, tensor.Shape{1})
	c := raw64(t, []float64{1}, tensor.Shape{1})

	assert.Panics(t, func() { b.Add(a, c) })
}
