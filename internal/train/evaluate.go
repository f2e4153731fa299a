package train

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/lorentz-ml/lorentz/internal/autodiff"
	"github.com/lorentz-ml/lorentz/internal/physics"
	"github.com/lorentz-ml/lorentz/internal/tensor"
)

const (
	// RelTolerance is the relative-error threshold under which a
	// prediction counts as correct.
	RelTolerance = 0.10

	// minValidMass excludes near-zero true masses from the relative-error
	// metric, where the denominator would blow up.
	minValidMass = 1e-6
)

// Metrics summarizes an evaluation pass.
type Metrics struct {
	// Within is the fraction of evaluated samples with relative error
	// below RelTolerance.
	Within float64

	// MeanAbsRel is the mean absolute relative error over evaluated
	// samples.
	MeanAbsRel float64

	// Evaluated counts samples included in the metric.
	Evaluated int

	// Skipped counts samples excluded for near-zero true mass.
	Skipped int
}

// Evaluate runs inference on a held-out batch, unscales predictions to
// physical units and measures the fraction within RelTolerance of the true
// mass. Recording on the tape is suspended for the duration, so no
// gradients are tracked and no parameters change.
func Evaluate[B tensor.Backend](model *MassNet[B], scaler *physics.TargetScaler, batch *physics.Batch, tape *autodiff.GradientTape, backend B) (Metrics, error) {
	wasRecording := tape.IsRecording()
	tape.StopRecording()
	defer func() {
		if wasRecording {
			tape.StartRecording()
		}
	}()

	features := make([]float32, len(batch.Features))
	for i, v := range batch.Features {
		features[i] = float32(v)
	}
	x, err := tensor.FromSlice(features, tensor.Shape{batch.N, physics.Components}, backend)
	if err != nil {
		return Metrics{}, err
	}

	pred := model.Forward(x).Data()

	var metrics Metrics
	relErrs := make([]float64, 0, batch.N)
	within := 0

	for i := 0; i < batch.N; i++ {
		truth := batch.Mass[i]
		if math.Abs(truth) < minValidMass {
			metrics.Skipped++
			continue
		}

		predicted := scaler.Unscale(float64(pred[i]))
		rel := math.Abs(predicted-truth) / math.Abs(truth)
		relErrs = append(relErrs, rel)
		if rel < RelTolerance {
			within++
		}
	}

	metrics.Evaluated = len(relErrs)
	if metrics.Evaluated > 0 {
		metrics.Within = float64(within) / float64(metrics.Evaluated)
		metrics.MeanAbsRel = stat.Mean(relErrs, nil)
	}
	return metrics, nil
}
