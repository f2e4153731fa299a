package physics

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// ErrAngularCoverage is returned when the pseudorapidity rejection loop
// exhausts its retry budget without bringing the outlier fraction under
// tolerance. It indicates a misconfigured eta distribution, not bad luck.
var ErrAngularCoverage = errors.New("physics: angular coverage condition unreachable")

// Config configures a Sampler.
type Config struct {
	// Momentum magnitude range, uniform. MinP == MaxP pins the magnitude.
	MinP, MaxP float64

	// Mass range, uniform. MinMass == MaxMass pins the mass.
	MinMass, MaxMass float64

	// Basis selects the output component layout.
	Basis Basis

	// EtaSigma is the standard deviation of the centered normal
	// pseudorapidity draw. Defaults to 1.5.
	EtaSigma float64

	// MaxResample bounds the rejection loop. Defaults to 1000.
	MaxResample int

	// Seed drives the pseudorandom source. The same seed yields the same
	// batches.
	Seed uint64
}

// Sampler draws batches of four-vectors under detector-like kinematic
// constraints. Not safe for concurrent use; the random source is shared.
type Sampler struct {
	cfg Config
	rng *rand.Rand

	momentum distuv.Uniform
	mass     distuv.Uniform
	azimuth  distuv.Uniform
	eta      distuv.Normal
}

// NewSampler validates the configuration, applies defaults and builds the
// seeded distributions.
func NewSampler(cfg Config) (*Sampler, error) {
	if cfg.MinP < 0 || cfg.MaxP < cfg.MinP {
		return nil, fmt.Errorf("physics: invalid momentum range [%g, %g]", cfg.MinP, cfg.MaxP)
	}
	if cfg.MinMass < 0 || cfg.MaxMass < cfg.MinMass {
		return nil, fmt.Errorf("physics: invalid mass range [%g, %g]", cfg.MinMass, cfg.MaxMass)
	}
	if cfg.EtaSigma < 0 {
		return nil, fmt.Errorf("physics: negative eta sigma %g", cfg.EtaSigma)
	}
	if cfg.EtaSigma == 0 {
		cfg.EtaSigma = 1.5
	}
	if cfg.MaxResample < 0 {
		return nil, fmt.Errorf("physics: negative resample budget %d", cfg.MaxResample)
	}
	if cfg.MaxResample == 0 {
		cfg.MaxResample = 1000
	}

	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))

	return &Sampler{
		cfg:      cfg,
		rng:      rng,
		momentum: distuv.Uniform{Min: cfg.MinP, Max: cfg.MaxP, Src: rng},
		mass:     distuv.Uniform{Min: cfg.MinMass, Max: cfg.MaxMass, Src: rng},
		azimuth:  distuv.Uniform{Min: 0, Max: 2 * math.Pi, Src: rng},
		eta:      distuv.Normal{Mu: 0, Sigma: cfg.EtaSigma, Src: rng},
	}, nil
}

// Config returns the effective configuration after defaulting.
func (s *Sampler) Config() Config { return s.cfg }

// Sample draws n four-vectors and their true masses.
//
// Momentum magnitude and mass are uniform in their ranges, azimuth uniform
// on the circle, pseudorapidity normal with the outlier rejection loop
// bounded by MaxResample.
func (s *Sampler) Sample(n int) (*Batch, error) {
	if n <= 0 {
		return nil, fmt.Errorf("physics: sample count must be positive, got %d", n)
	}

	p := make([]float64, n)
	m := make([]float64, n)
	phi := make([]float64, n)
	eta := make([]float64, n)

	for i := 0; i < n; i++ {
		p[i] = uniformDraw(s.momentum)
		m[i] = uniformDraw(s.mass)
		phi[i] = s.azimuth.Rand()
		eta[i] = s.eta.Rand()
	}

	if err := s.enforceCoverage(eta); err != nil {
		return nil, err
	}

	batch := &Batch{
		Basis:    s.cfg.Basis,
		N:        n,
		Features: make([]float64, n*Components),
		Mass:     m,
	}

	for i := 0; i < n; i++ {
		e := energy(p[i], m[i])
		theta := polarAngle(eta[i])
		pT := p[i] * math.Sin(theta)
		pz := p[i] * math.Cos(theta)

		off := i * Components
		batch.Features[off] = e
		if s.cfg.Basis == Cylindrical {
			batch.Features[off+1] = pT
			batch.Features[off+2] = eta[i]
			batch.Features[off+3] = phi[i]
		} else {
			batch.Features[off+1] = pT * math.Cos(phi[i])
			batch.Features[off+2] = pT * math.Sin(phi[i])
			batch.Features[off+3] = pz
		}
	}

	return batch, nil
}

// enforceCoverage resamples outlier pseudorapidities until at most
// OutlierTolerance of the batch exceeds EtaMax, giving up after the
// configured retry budget.
func (s *Sampler) enforceCoverage(eta []float64) error {
	limit := OutlierTolerance * float64(len(eta))

	for retry := 0; ; retry++ {
		outliers := 0
		for _, v := range eta {
			if math.Abs(v) > EtaMax {
				outliers++
			}
		}
		if float64(outliers) <= limit {
			return nil
		}
		if retry >= s.cfg.MaxResample {
			return fmt.Errorf("%w: %d of %d samples outside |eta| <= %g after %d retries (sigma %g)",
				ErrAngularCoverage, outliers, len(eta), EtaMax, retry, s.cfg.EtaSigma)
		}

		for i, v := range eta {
			if math.Abs(v) > EtaMax {
				eta[i] = s.eta.Rand()
			}
		}
	}
}

// uniformDraw handles the degenerate min == max range, which pins the value
// without consuming randomness.
func uniformDraw(u distuv.Uniform) float64 {
	if u.Min == u.Max {
		return u.Min
	}
	return u.Rand()
}
