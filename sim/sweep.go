package sim

import (
	"context"
	"fmt"
	"runtime"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Parameters a sweep can vary.
const (
	VaryLoss       = "loss"
	VaryCorruption = "corruption"
)

// SweepConfig describes a parameter sweep: for every value in X, Replicas
// runs of Base with the varied probability set to that value.
type SweepConfig struct {
	Base        Config
	Vary        string    // VaryLoss or VaryCorruption
	Metric      string    // one of MetricNames()
	X           []float64 // probability levels
	Replicas    int       // runs per level; seeds Base.Seed, Base.Seed+1, ...
	Parallelism int       // concurrent levels; 0 = GOMAXPROCS
}

// SweepPoint is the metric observed at one probability level.
type SweepPoint struct {
	X       float64
	Mean    float64
	StdDev  float64
	Samples []float64
}

func (sc SweepConfig) validate() error {
	if sc.Vary != VaryLoss && sc.Vary != VaryCorruption {
		return fmt.Errorf("sweep: cannot vary %q (want %q or %q)", sc.Vary, VaryLoss, VaryCorruption)
	}
	if _, err := LookupMetric(sc.Metric); err != nil {
		return fmt.Errorf("sweep: %w", err)
	}
	if sc.Replicas <= 0 {
		return fmt.Errorf("sweep: replicas must be positive, got %d", sc.Replicas)
	}
	if sc.Parallelism < 0 {
		return fmt.Errorf("sweep: parallelism must be non-negative, got %d", sc.Parallelism)
	}
	for _, x := range sc.X {
		if err := sc.configAt(x, 0).Validate(); err != nil {
			return fmt.Errorf("sweep at %s=%g: %w", sc.Vary, x, err)
		}
	}
	return nil
}

// configAt returns the run configuration for probability x and replica r.
// Replica r uses the same seed at every level so curves share random numbers.
func (sc SweepConfig) configAt(x float64, r int) Config {
	cfg := sc.Base
	if sc.Vary == VaryLoss {
		cfg.LossProb = x
	} else {
		cfg.CorruptProb = x
	}
	cfg.Seed = sc.Base.Seed + int64(r)
	return cfg
}

// Sweep runs the simulator across sc.X and returns one point per level, in
// the order of sc.X. Levels run concurrently; each run is independent and
// deterministic, so the result does not depend on Parallelism.
func Sweep(ctx context.Context, sc SweepConfig) ([]SweepPoint, error) {
	if err := sc.validate(); err != nil {
		return nil, err
	}
	limit := sc.Parallelism
	if limit == 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	points := make([]SweepPoint, len(sc.X))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, x := range sc.X {
		i, x := i, x
		g.Go(func() error {
			samples := make([]float64, 0, sc.Replicas)
			for r := 0; r < sc.Replicas; r++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				s, err := NewSimulator(sc.configAt(x, r), nil)
				if err != nil {
					return err
				}
				if err := s.Run(); err != nil {
					return err
				}
				v, err := s.Metrics.Value(sc.Metric)
				if err != nil {
					return err
				}
				samples = append(samples, v)
			}
			mean, std := CalculateMeanStdDev(samples)
			points[i] = SweepPoint{X: x, Mean: mean, StdDev: std, Samples: samples}
			logrus.Infof("Sweep %s=%g: %s mean=%.3f stddev=%.3f over %d runs",
				sc.Vary, x, sc.Metric, mean, std, len(samples))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return points, nil
}
