package train

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lorentz-ml/lorentz/internal/autodiff"
	"github.com/lorentz-ml/lorentz/internal/backend/cpu"
	"github.com/lorentz-ml/lorentz/internal/optim"
	"github.com/lorentz-ml/lorentz/internal/physics"
	"github.com/lorentz-ml/lorentz/internal/tensor"
)

type testBackend = autodiff.AutodiffBackend[*cpu.CPUBackend]

func newBackend() *testBackend {
	return autodiff.NewAutodiffBackend(cpu.New())
}

func samplerConfig() physics.Config {
	return physics.Config{MinP: 0, MaxP: 200, MinMass: 0.1, MaxMass: 100, Seed: 11}
}

func TestTensorsShapes(t *testing.T) {
	b := newBackend()
	sampler, err := physics.NewSampler(samplerConfig())
	require.NoError(t, err)
	scaler, err := physics.NewTargetScaler(0.1, 100)
	require.NoError(t, err)

	batch, err := sampler.Sample(32)
	require.NoError(t, err)

	x, y, err := Tensors(batch, scaler, b)
	require.NoError(t, err)

	assert.True(t, x.Shape().Equal(tensor.Shape{32, 4}))
	assert.True(t, y.Shape().Equal(tensor.Shape{32, 1}))

	// Targets are the scaled masses.
	assert.InDelta(t, scaler.Scale(batch.Mass[0]), float64(y.At(0, 0)), 1e-6)
}

func TestMassNetForwardShape(t *testing.T) {
	b := newBackend()
	model := NewMassNet(samplerConfig(), 16, b)

	x := tensor.Zeros[float32](tensor.Shape{8, physics.Components}, b)
	out := model.Forward(x)
	assert.True(t, out.Shape().Equal(tensor.Shape{8, 1}))

	// 3 layers, weight and bias each.
	assert.Len(t, model.Parameters(), 6)
	b.Tape().Clear()
}

func TestStepReturnsFiniteLossAndClearsTape(t *testing.T) {
	b := newBackend()
	cfg := samplerConfig()
	sampler, err := physics.NewSampler(cfg)
	require.NoError(t, err)
	scaler, err := physics.NewTargetScaler(cfg.MinMass, cfg.MaxMass)
	require.NoError(t, err)

	model := NewMassNet(cfg, 16, b)
	opt := optim.NewAdam(model.Parameters(), optim.AdamConfig{})
	trainer := NewTrainer[*testBackend](model, opt, b.Tape())

	batch, err := sampler.Sample(64)
	require.NoError(t, err)
	x, y, err := Tensors(batch, scaler, b)
	require.NoError(t, err)

	loss := trainer.Step(x, y)
	assert.False(t, math.IsNaN(loss))
	assert.False(t, math.IsInf(loss, 0))
	assert.Equal(t, 0, b.Tape().NumOps())
}

func TestTrainingLossDecreases(t *testing.T) {
	b := newBackend()
	cfg := samplerConfig()
	sampler, err := physics.NewSampler(cfg)
	require.NoError(t, err)
	scaler, err := physics.NewTargetScaler(cfg.MinMass, cfg.MaxMass)
	require.NoError(t, err)

	model := NewMassNet(cfg, 32, b)
	opt := optim.NewAdam(model.Parameters(), optim.AdamConfig{LR: 0.003})
	trainer := NewTrainer[*testBackend](model, opt, b.Tape())

	const iters = 400
	losses := make([]float64, 0, iters)
	for i := 0; i < iters; i++ {
		batch, err := sampler.Sample(64)
		require.NoError(t, err)
		x, y, err := Tensors(batch, scaler, b)
		require.NoError(t, err)
		losses = append(losses, trainer.Step(x, y))
	}

	early := mean(losses[:50])
	late := mean(losses[iters-50:])
	assert.Less(t, late, early, "training loss should trend downward (early %.4f, late %.4f)", early, late)
}

func TestEvaluateSkipsNearZeroMasses(t *testing.T) {
	b := newBackend()
	cfg := samplerConfig()
	model := NewMassNet(cfg, 8, b)
	scaler, err := physics.NewTargetScaler(cfg.MinMass, cfg.MaxMass)
	require.NoError(t, err)

	batch := &physics.Batch{
		Basis: physics.Cartesian,
		N:     3,
		Features: []float64{
			10, 1, 2, 3,
			20, 4, 5, 6,
			30, 7, 8, 9,
		},
		Mass: []float64{5, 0, 1e-9},
	}

	metrics, err := Evaluate(model, scaler, batch, b.Tape(), b)
	require.NoError(t, err)

	assert.Equal(t, 1, metrics.Evaluated)
	assert.Equal(t, 2, metrics.Skipped)
}

func TestEvaluateLeavesTapeState(t *testing.T) {
	b := newBackend()
	cfg := samplerConfig()
	model := NewMassNet(cfg, 8, b)
	scaler, err := physics.NewTargetScaler(cfg.MinMass, cfg.MaxMass)
	require.NoError(t, err)
	sampler, err := physics.NewSampler(cfg)
	require.NoError(t, err)

	batch, err := sampler.Sample(16)
	require.NoError(t, err)

	b.Tape().Clear()
	require.True(t, b.Tape().IsRecording())

	_, err = Evaluate(model, scaler, batch, b.Tape(), b)
	require.NoError(t, err)

	// Recording was restored and nothing was recorded during inference.
	assert.True(t, b.Tape().IsRecording())
	assert.Equal(t, 0, b.Tape().NumOps())
}

func TestRunSmoke(t *testing.T) {
	b := newBackend()

	metrics, err := Run(RunConfig{
		Sampler:    samplerConfig(),
		Iterations: 30,
		BatchSize:  32,
		EvalSize:   500,
		Hidden:     16,
		LogEvery:   -1,
	}, b)
	require.NoError(t, err)

	assert.Equal(t, 500, metrics.Evaluated+metrics.Skipped)
	assert.GreaterOrEqual(t, metrics.Within, 0.0)
	assert.LessOrEqual(t, metrics.Within, 1.0)
}

func TestRunRejectsPlainBackend(t *testing.T) {
	_, err := Run(RunConfig{Sampler: samplerConfig(), Iterations: 1}, cpu.New())
	assert.Error(t, err)
}

func TestAccuracyImprovesWithTraining(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping training comparison in short mode")
	}

	within := func(iters int) float64 {
		b := newBackend()
		metrics, err := Run(RunConfig{
			Sampler:    samplerConfig(),
			Iterations: iters,
			BatchSize:  64,
			EvalSize:   2000,
			Hidden:     32,
			LogEvery:   -1,
		}, b)
		require.NoError(t, err)
		return metrics.Within
	}

	short := within(20)
	long := within(600)
	assert.Greater(t, long, short, "accuracy should improve with more iterations (20 iters %.3f, 600 iters %.3f)", short, long)
}

func mean(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
