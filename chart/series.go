package chart

import (
	"errors"
	"fmt"
)

// ErrLengthMismatch is returned when a series has a different number of x and y values.
var ErrLengthMismatch = errors.New("x and y sequences differ in length")

// Series is one line on a chart: parallel x and y sequences plus the labels
// used when the series is rendered on its own.
type Series struct {
	Name   string
	Title  string
	XLabel string
	YLabel string
	X      []float64
	Y      []float64
}

// NewSeries builds a Series and checks the length invariant.
func NewSeries(name, title, xLabel, yLabel string, x, y []float64) (Series, error) {
	s := Series{Name: name, Title: title, XLabel: xLabel, YLabel: yLabel, X: x, Y: y}
	if err := s.Validate(); err != nil {
		return Series{}, err
	}
	return s, nil
}

// Validate reports ErrLengthMismatch if len(X) != len(Y).
func (s Series) Validate() error {
	if len(s.X) != len(s.Y) {
		return fmt.Errorf("series %q: %w (x=%d, y=%d)", s.Name, ErrLengthMismatch, len(s.X), len(s.Y))
	}
	return nil
}

// Len returns the number of points in the series.
func (s Series) Len() int { return len(s.X) }

// XY returns the i-th point. Together with Len it satisfies plotter.XYer.
func (s Series) XY(i int) (float64, float64) { return s.X[i], s.Y[i] }
