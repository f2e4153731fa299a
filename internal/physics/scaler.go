package physics

import (
	"fmt"
	"math"
)

// TargetScaler maps raw masses into a zero-centered, unit-scale range and
// back. The transform uses the midpoint of the configured mass range and the
// standard deviation of a uniform distribution over it, range/sqrt(12), so
// uniformly drawn targets come out roughly standardized.
type TargetScaler struct {
	mid float64
	std float64
}

// NewTargetScaler builds the transform for the given mass range. A
// zero-width range keeps the midpoint shift but scales by 1.
func NewTargetScaler(minMass, maxMass float64) (*TargetScaler, error) {
	if maxMass < minMass {
		return nil, fmt.Errorf("physics: invalid mass range [%g, %g]", minMass, maxMass)
	}

	std := (maxMass - minMass) / math.Sqrt(12)
	if std == 0 {
		std = 1
	}

	return &TargetScaler{mid: (minMass + maxMass) / 2, std: std}, nil
}

// Scale maps a physical mass into the standardized range.
func (t *TargetScaler) Scale(v float64) float64 {
	return (v - t.mid) / t.std
}

// Unscale is the exact inverse of Scale.
func (t *TargetScaler) Unscale(v float64) float64 {
	return v*t.std + t.mid
}

// ScaleAll returns a new slice with Scale applied to every value.
func (t *TargetScaler) ScaleAll(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = t.Scale(v)
	}
	return out
}

// UnscaleAll returns a new slice with Unscale applied to every value.
func (t *TargetScaler) UnscaleAll(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = t.Unscale(v)
	}
	return out
}
