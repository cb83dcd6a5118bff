package cmd

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/PhoenixTAN/Reliable-Transport-Protocol/chart"
	"github.com/PhoenixTAN/Reliable-Transport-Protocol/sim"
)

var (
	sweepVary     string  // loss or corruption
	sweepMetric   string  // Metric averaged at each level
	sweepCount    int     // Number of probability levels
	sweepStep     float64 // Distance between levels
	sweepReplicas int     // Seeds per level
	sweepParallel int     // Levels simulated concurrently
	sweepOut      string  // Optional chart output path
)

// sweepCmd runs the simulator across loss or corruption levels
var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Sweep loss or corruption probability and tabulate a metric",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig(cmd)
		if err != nil {
			return err
		}
		x := chart.GenerateXAxis(sweepCount, sweepStep)
		points, err := sim.Sweep(cmd.Context(), sim.SweepConfig{
			Base:        cfg,
			Vary:        sweepVary,
			Metric:      sweepMetric,
			X:           x,
			Replicas:    sweepReplicas,
			Parallelism: sweepParallel,
		})
		if err != nil {
			return err
		}
		writeSweepTable(cmd.OutOrStdout(), sweepVary, sweepMetric, points)

		if sweepOut == "" {
			return nil
		}
		s, err := sweepSeries(cfg.Protocol, sweepVary, sweepMetric, points)
		if err != nil {
			return err
		}
		return chart.Render(s, chart.DefaultRenderOptions(sweepOut))
	},
}

func writeSweepTable(w io.Writer, vary, metric string, points []sim.SweepPoint) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{vary, metric + " (mean)", "stddev", "runs"})
	for _, p := range points {
		t.AppendRow(table.Row{fmt.Sprintf("%.2f", p.X), fmt.Sprintf("%.3f", p.Mean), fmt.Sprintf("%.3f", p.StdDev), len(p.Samples)})
	}
	t.Render()
}

// sweepSeries turns sweep means into a chart series labelled like the
// recorded datasets.
func sweepSeries(protocolName, vary, metric string, points []sim.SweepPoint) (chart.Series, error) {
	info, err := sim.LookupMetric(metric)
	if err != nil {
		return chart.Series{}, err
	}
	x := make([]float64, len(points))
	y := make([]float64, len(points))
	for i, p := range points {
		x[i], y[i] = p.X, p.Mean
	}
	logrus.Debugf("Sweep series x=%v y=%v", x, y)
	return chart.NewSeries(
		fmt.Sprintf("%s-vs-%s", metric, vary),
		fmt.Sprintf(info.Title, vary)+" ("+protocolName+")",
		vary+" probability",
		info.YLabel,
		x, y,
	)
}

func init() {
	registerConfigFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepVary, "vary", sim.VaryCorruption, "Probability to sweep (loss, corruption)")
	sweepCmd.Flags().StringVar(&sweepMetric, "metric", sim.MetricRTT, fmt.Sprintf("Metric to average %v", sim.MetricNames()))
	sweepCmd.Flags().IntVar(&sweepCount, "count", 10, "Number of probability levels")
	sweepCmd.Flags().Float64Var(&sweepStep, "step", 0.05, "Distance between probability levels")
	sweepCmd.Flags().IntVar(&sweepReplicas, "replicas", 1, "Simulations per level, seeded seed, seed+1, ...")
	sweepCmd.Flags().IntVar(&sweepParallel, "parallel", 0, "Levels simulated concurrently (0 = GOMAXPROCS)")
	sweepCmd.Flags().StringVar(&sweepOut, "out", "", "Also render the sweep to this chart file")
}
