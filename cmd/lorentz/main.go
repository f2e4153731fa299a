// Command lorentz trains a small MLP to recover particle masses from
// randomly generated four-vectors and reports how many held-out predictions
// land within 10% of the truth.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/lorentz-ml/lorentz/internal/autodiff"
	"github.com/lorentz-ml/lorentz/internal/backend/cpu"
	"github.com/lorentz-ml/lorentz/internal/physics"
	"github.com/lorentz-ml/lorentz/internal/train"
)

func main() {
	iters := flag.Int("iters", 2000, "training iterations")
	batch := flag.Int("batch", 256, "training batch size")
	lr := flag.Float64("lr", 0.001, "Adam learning rate")
	evalSize := flag.Int("eval", 20000, "held-out evaluation batch size")
	hidden := flag.Int("hidden", train.DefaultHidden, "hidden layer width")
	seed := flag.Uint64("seed", 42, "random seed")
	minP := flag.Float64("minp", 0, "minimum momentum magnitude")
	maxP := flag.Float64("maxp", 200, "maximum momentum magnitude")
	minMass := flag.Float64("minm", 0.1, "minimum mass")
	maxMass := flag.Float64("maxm", 100, "maximum mass")
	basisName := flag.String("basis", "cartesian", "four-vector basis: cartesian or cylindrical")
	flag.Parse()

	var basis physics.Basis
	switch strings.ToLower(*basisName) {
	case "cartesian":
		basis = physics.Cartesian
	case "cylindrical":
		basis = physics.Cylindrical
	default:
		fmt.Fprintf(os.Stderr, "unknown basis %q (want cartesian or cylindrical)\n", *basisName)
		os.Exit(2)
	}

	backend := autodiff.NewAutodiffBackend(cpu.New())
	log.Printf("backend: %s", backend.Name())
	log.Printf("momentum [%g, %g], mass [%g, %g], basis %s, seed %d",
		*minP, *maxP, *minMass, *maxMass, basis, *seed)

	start := time.Now()
	metrics, err := train.Run(train.RunConfig{
		Sampler: physics.Config{
			MinP:    *minP,
			MaxP:    *maxP,
			MinMass: *minMass,
			MaxMass: *maxMass,
			Basis:   basis,
			Seed:    *seed,
		},
		Iterations: *iters,
		BatchSize:  *batch,
		EvalSize:   *evalSize,
		Hidden:     *hidden,
		LR:         *lr,
	}, backend)
	if err != nil {
		log.Fatalf("training failed: %v", err)
	}

	log.Printf("done in %s", time.Since(start).Round(time.Millisecond))
	fmt.Printf("within %.0f%% relative error: %.2f%% of %d samples (%d skipped)\n",
		train.RelTolerance*100, metrics.Within*100, metrics.Evaluated, metrics.Skipped)
	fmt.Printf("mean absolute relative error: %.4f\n", metrics.MeanAbsRel)
}
