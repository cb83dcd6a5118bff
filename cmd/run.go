package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/PhoenixTAN/Reliable-Transport-Protocol/sim"
)

var outputPath string // File receiving payloads delivered at B

// runCmd executes one simulation and prints its statistics
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one reliable transfer simulation",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig(cmd)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		_, err = runSimulation(cfg, outputPath, cmd.OutOrStdout())
		return err
	},
}

// registerConfigFlags adds the flags that mirror sim.Config. Values are read
// back from the command's own flag set by resolveConfig.
func registerConfigFlags(cmd *cobra.Command) {
	d := sim.DefaultConfig()
	f := cmd.Flags()
	f.String("config", "", "YAML run configuration; flags set on the command line override it")
	f.String("protocol", d.Protocol, "Protocol (stop-and-wait, go-back-n, selective-repeat)")
	f.Int("messages", d.Messages, "Number of messages to simulate")
	f.Float64("loss", d.LossProb, "Packet loss probability")
	f.Float64("corrupt", d.CorruptProb, "Packet corruption probability")
	f.Float64("delay", d.AvgMessageDelay, "Average time between messages from layer 5")
	f.Int("window", d.WindowSize, "Window size (ignored by stop-and-wait)")
	f.Float64("timeout", d.RetransmitTimeout, "Retransmission timeout")
	f.Int64("seed", d.Seed, "Random seed")
	f.Float64("horizon", d.Horizon, "Stop the simulation at this time (0 = run to completion)")
}

// resolveConfig layers DefaultConfig, the --config file, then every flag the
// user set explicitly. Callers validate the result.
func resolveConfig(cmd *cobra.Command) (sim.Config, error) {
	f := cmd.Flags()
	cfg := sim.DefaultConfig()
	path, err := f.GetString("config")
	if err != nil {
		return cfg, err
	}
	if path != "" {
		if cfg, err = sim.LoadConfig(path); err != nil {
			return cfg, err
		}
	}

	var errs []error
	setString := func(name string, dst *string) {
		if f.Changed(name) {
			v, err := f.GetString(name)
			errs = append(errs, err)
			*dst = v
		}
	}
	setInt := func(name string, dst *int) {
		if f.Changed(name) {
			v, err := f.GetInt(name)
			errs = append(errs, err)
			*dst = v
		}
	}
	setFloat := func(name string, dst *float64) {
		if f.Changed(name) {
			v, err := f.GetFloat64(name)
			errs = append(errs, err)
			*dst = v
		}
	}
	setString("protocol", &cfg.Protocol)
	setInt("messages", &cfg.Messages)
	setFloat("loss", &cfg.LossProb)
	setFloat("corrupt", &cfg.CorruptProb)
	setFloat("delay", &cfg.AvgMessageDelay)
	setInt("window", &cfg.WindowSize)
	setFloat("timeout", &cfg.RetransmitTimeout)
	setFloat("horizon", &cfg.Horizon)
	if f.Changed("seed") {
		v, err := f.GetInt64("seed")
		errs = append(errs, err)
		cfg.Seed = v
	}
	return cfg, errors.Join(errs...)
}

// runSimulation runs cfg, writes delivered payloads to outPath when set, and
// prints the statistics block to w.
func runSimulation(cfg sim.Config, outPath string, w io.Writer) (m *sim.Metrics, err error) {
	var delivered io.Writer
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return nil, fmt.Errorf("creating output file: %w", err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("closing output file: %w", cerr)
			}
		}()
		delivered = f
	}

	logrus.Infof("Starting %s simulation: messages=%d loss=%g corruption=%g delay=%g window=%d timeout=%g seed=%d",
		cfg.Protocol, cfg.Messages, cfg.LossProb, cfg.CorruptProb, cfg.AvgMessageDelay, cfg.WindowSize, cfg.RetransmitTimeout, cfg.Seed)
	startTime := time.Now()

	s, err := sim.NewSimulator(cfg, delivered)
	if err != nil {
		return nil, err
	}
	if err := s.Run(); err != nil {
		return nil, err
	}
	s.Metrics.Print(w)

	logrus.Infof("Simulation complete in %s.", time.Since(startTime))
	return s.Metrics, nil
}

func init() {
	registerConfigFlags(runCmd)
	runCmd.Flags().StringVar(&outputPath, "output", "", "Write payloads delivered at B to this file")
}
