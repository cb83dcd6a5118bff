package chart

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownDataset is returned by Dataset for a name that is not registered.
var ErrUnknownDataset = errors.New("unknown dataset")

// DefaultDataset is rendered when no dataset or series file is requested.
const DefaultDataset = "rtt-vs-corruption"

// Probability axis shared by every recorded experiment: ten levels, 0.05 apart.
const (
	recordedPoints = 10
	recordedStep   = 0.05
)

type recording struct {
	title  string
	xLabel string
	yLabel string
	y      []float64
}

// Recorded simulator measurements, one run per loss or corruption level.
var recordings = map[string]recording{
	"comm-time-vs-loss": {
		title:  "Average communication time as a function loss",
		xLabel: "loss probability",
		yLabel: "Average communication time",
		y:      []float64{18.011, 22.493, 27.877, 34.4, 41.908, 54.211, 61.877, 83.117, 97.060, 133.315},
	},
	"comm-time-vs-corruption": {
		title:  "Average communication time as a function corruption",
		xLabel: "corruption probability",
		yLabel: "Average communication time",
		y:      []float64{19.797, 22.408, 27.877, 32.540, 35.584, 48.189, 66.138, 75.535, 91.262, 132.136},
	},
	"retransmits-vs-loss": {
		title:  "Retransmits as function of loss",
		xLabel: "loss probability",
		yLabel: "Retransmission",
		y:      []float64{25, 39, 58, 79, 103, 135, 159, 209, 247, 318},
	},
	"rtt-vs-loss": {
		title:  "Average RTT as function of loss",
		xLabel: "loss probability",
		yLabel: "Average RTT",
		y:      []float64{12.592, 16.161, 16.420, 20.009, 21.760, 29.737, 35.490, 32.251, 39.772, 51.128},
	},
	"retransmits-vs-corruption": {
		title:  "Retransmits as function of corruption",
		xLabel: "Corruption Probability",
		yLabel: "Retransmits",
		y:      []float64{30, 39, 58, 70, 84, 120, 165, 191, 227, 318},
	},
	"rtt-vs-corruption": {
		title:  "Average RTT as function of corruption",
		xLabel: "Corruption Probability",
		yLabel: "Average RTT",
		y:      []float64{12.546, 13.085, 16.420, 17.798, 20.989, 23.700, 32.216, 41.050, 38.063, 64.283},
	},
}

// Dataset returns a copy of the named recorded series, paired with the
// standard probability axis.
func Dataset(name string) (Series, error) {
	r, ok := recordings[name]
	if !ok {
		return Series{}, fmt.Errorf("%w %q (known: %v)", ErrUnknownDataset, name, DatasetNames())
	}
	y := make([]float64, len(r.y))
	copy(y, r.y)
	return NewSeries(name, r.title, r.xLabel, r.yLabel, GenerateXAxis(recordedPoints, recordedStep), y)
}

// DatasetNames returns the registered dataset names in sorted order.
func DatasetNames() []string {
	names := make([]string, 0, len(recordings))
	for name := range recordings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
