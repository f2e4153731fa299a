// Package physics generates and transforms relativistic four-vector data.
//
// A four-vector is the (energy, momentum) tuple describing a particle's
// kinematics. Batches are produced in one of two bases:
//
//	Cartesian:   (E, px, py, pz)
//	Cylindrical: (E, pT, eta, phi)
//
// where pT is the momentum component transverse to the beam axis, eta the
// pseudorapidity and phi the azimuthal angle.
package physics

import "math"

// Basis selects the component layout of generated four-vectors.
type Basis int

const (
	// Cartesian lays samples out as (E, px, py, pz).
	Cartesian Basis = iota
	// Cylindrical lays samples out as (E, pT, eta, phi).
	Cylindrical
)

// String returns the basis name.
func (b Basis) String() string {
	switch b {
	case Cartesian:
		return "cartesian"
	case Cylindrical:
		return "cylindrical"
	default:
		return "unknown"
	}
}

const (
	// EtaMax is the pseudorapidity cutoff approximating finite detector
	// angular coverage.
	EtaMax = 2.5

	// OutlierTolerance is the accepted fraction of a batch with
	// |eta| > EtaMax.
	OutlierTolerance = 0.05

	// Components is the number of components per four-vector.
	Components = 4
)

// Batch is a fixed-size collection of four-vectors with their true masses.
// Features is row-major, Components values per sample.
type Batch struct {
	Basis    Basis
	N        int
	Features []float64
	Mass     []float64
}

// Row returns sample i's four components.
func (b *Batch) Row(i int) (e, c1, c2, c3 float64) {
	off := i * Components
	return b.Features[off], b.Features[off+1], b.Features[off+2], b.Features[off+3]
}

// energy derives E from |p| and m via E² = p² + m².
func energy(p, m float64) float64 {
	return math.Sqrt(p*p + m*m)
}

// polarAngle converts pseudorapidity to the polar angle theta via the
// standard rapidity transform theta = 2·atan(exp(−eta)).
func polarAngle(eta float64) float64 {
	return 2 * math.Atan(math.Exp(-eta))
}
