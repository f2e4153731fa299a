package physics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScalerRoundTrip(t *testing.T) {
	scaler, err := NewTargetScaler(0.1, 100)
	require.NoError(t, err)

	// Inside and outside the configured range.
	for _, v := range []float64{0.1, 1, 50, 100, -10, 250, 1e-9} {
		got := scaler.Unscale(scaler.Scale(v))
		assert.InDelta(t, v, got, 1e-12*math.Max(1, math.Abs(v)))
	}
}

func TestScalerCentersRange(t *testing.T) {
	scaler, err := NewTargetScaler(0, 100)
	require.NoError(t, err)

	assert.InDelta(t, 0, scaler.Scale(50), 1e-12)
	assert.InDelta(t, -scaler.Scale(100), scaler.Scale(0), 1e-12)

	// Span of a uniform distribution maps to +-sqrt(3).
	assert.InDelta(t, math.Sqrt(3), scaler.Scale(100), 1e-12)
}

func TestScalerZeroWidthRange(t *testing.T) {
	scaler, err := NewTargetScaler(5, 5)
	require.NoError(t, err)

	assert.Equal(t, 0.0, scaler.Scale(5))
	assert.Equal(t, 5.0, scaler.Unscale(0))
	assert.Equal(t, 7.0, scaler.Unscale(scaler.Scale(7)))
}

func TestScalerInvalidRange(t *testing.T) {
	_, err := NewTargetScaler(10, 1)
	assert.Error(t, err)
}

func TestScaleAllUnscaleAll(t *testing.T) {
	scaler, err := NewTargetScaler(0, 10)
	require.NoError(t, err)

	in := []float64{0, 5, 10}
	out := scaler.UnscaleAll(scaler.ScaleAll(in))
	assert.InDeltaSlice(t, in, out, 1e-12)
}
