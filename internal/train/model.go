// Package train wires the network, optimizer and sampler into the
// invariant-mass regression task: a small MLP learns to recover a particle's
// mass from its four-vector components.
package train

import (
	"math"

	"github.com/lorentz-ml/lorentz/internal/nn"
	"github.com/lorentz-ml/lorentz/internal/physics"
	"github.com/lorentz-ml/lorentz/internal/tensor"
)

// DefaultHidden is the hidden width of the regression MLP.
const DefaultHidden = 64

// MassNet maps a four-vector to a (scaled) mass prediction. Architecture:
// fixed input scaling, then Linear-ReLU-Linear-ReLU-Linear, 4 to hidden to
// hidden to 1.
type MassNet[B tensor.Backend] struct {
	scale *nn.FeatureScale[B]
	fc1   *nn.Linear[B]
	fc2   *nn.Linear[B]
	fc3   *nn.Linear[B]
	relu  *nn.ReLU[B]
}

// NewMassNet builds the model. The input scaling is derived from the sampler
// configuration so features arrive roughly standardized regardless of the
// configured kinematic ranges.
func NewMassNet[B tensor.Backend](cfg physics.Config, hidden int, backend B) *MassNet[B] {
	if hidden <= 0 {
		hidden = DefaultHidden
	}
	shift, scale := featureAffine(cfg)

	return &MassNet[B]{
		scale: nn.NewFeatureScale(shift, scale, backend),
		fc1:   nn.NewLinear(physics.Components, hidden, backend),
		fc2:   nn.NewLinear(hidden, hidden, backend),
		fc3:   nn.NewLinear(hidden, 1, backend),
		relu:  nn.NewReLU[B](),
	}
}

// Forward runs the network on a (batch, 4) input, returning (batch, 1)
// scaled mass predictions.
func (m *MassNet[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	h := m.relu.Forward(m.fc1.Forward(m.scale.Forward(input)))
	h = m.relu.Forward(m.fc2.Forward(h))
	return m.fc3.Forward(h)
}

// Parameters returns the trainable parameters of all three layers.
func (m *MassNet[B]) Parameters() []*nn.Parameter[B] {
	var params []*nn.Parameter[B]
	params = append(params, m.fc1.Parameters()...)
	params = append(params, m.fc2.Parameters()...)
	params = append(params, m.fc3.Parameters()...)
	return params
}

// featureAffine derives the per-component shift and scale for the input
// transform from the kinematic ranges: midpoint and inverse uniform standard
// deviation of each component's reachable interval.
func featureAffine(cfg physics.Config) (shift, scale []float64) {
	minE := math.Sqrt(cfg.MinP*cfg.MinP + cfg.MinMass*cfg.MinMass)
	maxE := math.Sqrt(cfg.MaxP*cfg.MaxP + cfg.MaxMass*cfg.MaxMass)

	var ranges [physics.Components][2]float64
	ranges[0] = [2]float64{minE, maxE}
	if cfg.Basis == physics.Cylindrical {
		ranges[1] = [2]float64{0, cfg.MaxP}                    // pT
		ranges[2] = [2]float64{-physics.EtaMax, physics.EtaMax} // eta
		ranges[3] = [2]float64{0, 2 * math.Pi}                  // phi
	} else {
		ranges[1] = [2]float64{-cfg.MaxP, cfg.MaxP} // px
		ranges[2] = [2]float64{-cfg.MaxP, cfg.MaxP} // py
		ranges[3] = [2]float64{-cfg.MaxP, cfg.MaxP} // pz
	}

	shift = make([]float64, physics.Components)
	scale = make([]float64, physics.Components)
	for i, r := range ranges {
		shift[i] = (r[0] + r[1]) / 2
		std := (r[1] - r[0]) / math.Sqrt(12)
		if std == 0 {
			std = 1
		}
		scale[i] = 1 / std
	}
	return shift, scale
}
