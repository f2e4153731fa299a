package train

import (
	"fmt"
	"log"

	"github.com/lorentz-ml/lorentz/internal/autodiff"
	"github.com/lorentz-ml/lorentz/internal/optim"
	"github.com/lorentz-ml/lorentz/internal/physics"
	"github.com/lorentz-ml/lorentz/internal/tensor"
)

// RunConfig configures the end-to-end training scenario.
type RunConfig struct {
	Sampler physics.Config

	// Iterations is the number of training steps. Defaults to 2000.
	Iterations int

	// BatchSize is the per-step sample count. Defaults to 256.
	BatchSize int

	// EvalSize is the held-out batch size. Defaults to 20000.
	EvalSize int

	// Hidden is the MLP hidden width. Defaults to DefaultHidden.
	Hidden int

	// LR is the Adam learning rate. Defaults to 0.001.
	LR float64

	// LogEvery emits a progress line every that many steps; 0 defaults to
	// 100, negative disables logging.
	LogEvery int

	// Logf receives progress lines. Defaults to log.Printf.
	Logf func(format string, args ...any)
}

// Run trains a fresh MassNet on freshly sampled batches and evaluates it on
// one large held-out batch. The backend must carry a gradient tape, i.e. be
// wrapped by the autodiff decorator.
func Run[B tensor.Backend](cfg RunConfig, backend B) (Metrics, error) {
	if cfg.Iterations <= 0 {
		cfg.Iterations = 2000
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 256
	}
	if cfg.EvalSize <= 0 {
		cfg.EvalSize = 20000
	}
	if cfg.LR == 0 {
		cfg.LR = 0.001
	}
	if cfg.LogEvery == 0 {
		cfg.LogEvery = 100
	}
	if cfg.Logf == nil {
		cfg.Logf = log.Printf
	}

	tape := autodiff.GetTape(backend)
	if tape == nil {
		return Metrics{}, fmt.Errorf("train: backend %s does not record gradients", backend.Name())
	}

	sampler, err := physics.NewSampler(cfg.Sampler)
	if err != nil {
		return Metrics{}, err
	}
	scaler, err := physics.NewTargetScaler(cfg.Sampler.MinMass, cfg.Sampler.MaxMass)
	if err != nil {
		return Metrics{}, err
	}

	model := NewMassNet(cfg.Sampler, cfg.Hidden, backend)
	opt := optim.NewAdam(model.Parameters(), optim.AdamConfig{LR: cfg.LR})
	trainer := NewTrainer[B](model, opt, tape)

	for iter := 1; iter <= cfg.Iterations; iter++ {
		batch, err := sampler.Sample(cfg.BatchSize)
		if err != nil {
			return Metrics{}, fmt.Errorf("train: sampling batch at step %d: %w", iter, err)
		}
		x, y, err := Tensors(batch, scaler, backend)
		if err != nil {
			return Metrics{}, fmt.Errorf("train: building tensors at step %d: %w", iter, err)
		}

		loss := trainer.Step(x, y)
		if cfg.LogEvery > 0 && iter%cfg.LogEvery == 0 {
			cfg.Logf("step %d/%d loss %.6f", iter, cfg.Iterations, loss)
		}
	}

	evalBatch, err := sampler.Sample(cfg.EvalSize)
	if err != nil {
		return Metrics{}, fmt.Errorf("train: sampling evaluation batch: %w", err)
	}

	metrics, err := Evaluate(model, scaler, evalBatch, tape, backend)
	if err != nil {
		return Metrics{}, err
	}
	if cfg.LogEvery > 0 {
		cfg.Logf("eval: %.1f%% within %.0f%% relative error (%d evaluated, %d skipped, mean |rel| %.4f)",
			metrics.Within*100, RelTolerance*100, metrics.Evaluated, metrics.Skipped, metrics.MeanAbsRel)
	}
	return metrics, nil
}
