package chart

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SeriesFile is the YAML layout accepted by LoadSeriesFile.
//
//	series:
//	  - name: rtt
//	    title: Average RTT as function of corruption
//	    x_label: Corruption Probability
//	    y_label: Average RTT
//	    x_axis: {count: 10, step: 0.05}
//	    y: [12.546, 13.085, ...]
type SeriesFile struct {
	Series []SeriesSpec `yaml:"series"`
}

// SeriesSpec describes one series. Exactly one of X and XAxis must be set.
type SeriesSpec struct {
	Name   string    `yaml:"name"`
	Title  string    `yaml:"title"`
	XLabel string    `yaml:"x_label"`
	YLabel string    `yaml:"y_label"`
	X      []float64 `yaml:"x,omitempty"`
	XAxis  *AxisSpec `yaml:"x_axis,omitempty"`
	Y      []float64 `yaml:"y"`
}

// AxisSpec is the GenerateXAxis parameters in YAML form.
type AxisSpec struct {
	Count int     `yaml:"count"`
	Step  float64 `yaml:"step"`
}

// LoadSeriesFile reads and validates a YAML series file.
// Unknown fields are rejected so typos do not silently drop data.
func LoadSeriesFile(path string) ([]Series, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading series file: %w", err)
	}
	return ParseSeries(data)
}

// ParseSeries decodes YAML series definitions.
func ParseSeries(data []byte) ([]Series, error) {
	var f SeriesFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&f); err != nil {
		return nil, fmt.Errorf("parsing series file: %w", err)
	}
	if len(f.Series) == 0 {
		return nil, errors.New("series file defines no series")
	}
	out := make([]Series, 0, len(f.Series))
	for i, spec := range f.Series {
		s, err := spec.toSeries()
		if err != nil {
			return nil, fmt.Errorf("series[%d]: %w", i, err)
		}
		out = append(out, s)
	}
	return out, nil
}

func (spec SeriesSpec) toSeries() (Series, error) {
	var x []float64
	switch {
	case spec.XAxis != nil && len(spec.X) > 0:
		return Series{}, errors.New("set either x or x_axis, not both")
	case spec.XAxis != nil:
		if spec.XAxis.Count < 0 {
			return Series{}, fmt.Errorf("x_axis.count must be non-negative, got %d", spec.XAxis.Count)
		}
		x = GenerateXAxis(spec.XAxis.Count, spec.XAxis.Step)
	default:
		x = spec.X
	}
	name := spec.Name
	if name == "" {
		name = spec.Title
	}
	return NewSeries(name, spec.Title, spec.XLabel, spec.YLabel, x, spec.Y)
}
