package sim

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// MaxDataSize is the payload size of every message handed down from layer 5.
const MaxDataSize = 20

// Config holds the parameters of one simulation run.
// Loaded from YAML via LoadConfig or assembled from CLI flags.
type Config struct {
	Protocol          string  `yaml:"protocol"`
	Messages          int     `yaml:"messages"`
	LossProb          float64 `yaml:"loss"`
	CorruptProb       float64 `yaml:"corruption"`
	AvgMessageDelay   float64 `yaml:"avg_message_delay"`  // mean time between layer-5 messages
	WindowSize        int     `yaml:"window_size"`        // forced to 1 for stop-and-wait
	RetransmitTimeout float64 `yaml:"retransmit_timeout"` // sender timer increment
	Seed              int64   `yaml:"seed"`
	Horizon           float64 `yaml:"horizon,omitempty"` // 0 = run until the event queue drains
}

// DefaultConfig returns the defaults the interactive simulator used to offer.
func DefaultConfig() Config {
	return Config{
		Protocol:          ProtocolSelectiveRepeat,
		Messages:          10,
		LossProb:          0,
		CorruptProb:       0,
		AvgMessageDelay:   1000,
		WindowSize:        8,
		RetransmitTimeout: 15,
		Seed:              0,
	}
}

// Validate checks every field and names the first offending one.
func (c Config) Validate() error {
	if !ValidProtocols[c.Protocol] {
		return fmt.Errorf("%w %q", ErrUnknownProtocol, c.Protocol)
	}
	if c.Messages <= 0 {
		return fmt.Errorf("messages must be positive, got %d", c.Messages)
	}
	if c.LossProb < 0 || c.LossProb > 1 {
		return fmt.Errorf("loss probability must be in [0, 1], got %f", c.LossProb)
	}
	if c.CorruptProb < 0 || c.CorruptProb > 1 {
		return fmt.Errorf("corruption probability must be in [0, 1], got %f", c.CorruptProb)
	}
	if c.AvgMessageDelay <= 0 {
		return fmt.Errorf("average message delay must be positive, got %f", c.AvgMessageDelay)
	}
	if c.WindowSize <= 0 {
		return fmt.Errorf("window size must be positive, got %d", c.WindowSize)
	}
	if c.RetransmitTimeout <= 0 {
		return fmt.Errorf("retransmit timeout must be positive, got %f", c.RetransmitTimeout)
	}
	if c.Horizon < 0 {
		return fmt.Errorf("horizon must be non-negative, got %f", c.Horizon)
	}
	if c.Horizon == 0 && (c.LossProb >= 1 || c.CorruptProb >= 1) {
		return fmt.Errorf("loss=%g corruption=%g never delivers a packet; set a horizon", c.LossProb, c.CorruptProb)
	}
	return nil
}

// LoadConfig reads a YAML run configuration on top of DefaultConfig.
// Uses strict field checking: typos must cause errors.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading run config: %w", err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing run config: %w", err)
	}
	return cfg, nil
}
