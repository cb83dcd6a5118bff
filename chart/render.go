package chart

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// RenderOptions controls where and how large a chart is written.
// The image format follows the extension of Path (png, svg, pdf, jpg, eps, tif).
type RenderOptions struct {
	Path   string
	Width  vg.Length
	Height vg.Length
}

// DefaultRenderOptions writes a 6x4 inch chart to path.
func DefaultRenderOptions(path string) RenderOptions {
	return RenderOptions{Path: path, Width: 6 * vg.Inch, Height: 4 * vg.Inch}
}

func (o RenderOptions) validate() error {
	if o.Path == "" {
		return errors.New("render: output path is required")
	}
	if o.Width <= 0 || o.Height <= 0 {
		return fmt.Errorf("render: chart size must be positive, got %vx%v", o.Width, o.Height)
	}
	return nil
}

// NewPlot builds a line chart for s without writing it anywhere.
// The chart holds exactly one line with s.Len() points.
func NewPlot(s Series) (*plot.Plot, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	p := plot.New()
	p.Title.Text = s.Title
	p.X.Label.Text = s.XLabel
	p.Y.Label.Text = s.YLabel
	p.Add(plotter.NewGrid())

	line, err := newLine(s)
	if err != nil {
		return nil, err
	}
	p.Add(line)
	return p, nil
}

func newLine(s Series) (*plotter.Line, error) {
	line, err := plotter.NewLine(s)
	if err != nil {
		return nil, fmt.Errorf("series %q: %w", s.Name, err)
	}
	return line, nil
}

// Render draws s as a line chart and saves it to opts.Path.
// Mismatched x and y lengths return ErrLengthMismatch and write nothing.
func Render(s Series, opts RenderOptions) error {
	if err := opts.validate(); err != nil {
		return err
	}
	p, err := NewPlot(s)
	if err != nil {
		return err
	}
	if err := p.Save(opts.Width, opts.Height, opts.Path); err != nil {
		return fmt.Errorf("saving chart %s: %w", opts.Path, err)
	}
	logrus.Infof("Rendered %q (%d points) to %s", s.Title, s.Len(), opts.Path)
	return nil
}

// RenderAll overlays every series on one chart with a legend. Title and axis
// labels come from the first series.
func RenderAll(series []Series, opts RenderOptions) error {
	if len(series) == 0 {
		return errors.New("render: no series given")
	}
	if err := opts.validate(); err != nil {
		return err
	}
	p := plot.New()
	p.Title.Text = series[0].Title
	p.X.Label.Text = series[0].XLabel
	p.Y.Label.Text = series[0].YLabel
	p.Legend.Top = true
	p.Legend.Left = true
	p.Add(plotter.NewGrid())

	// plotutil.AddLinePoints takes alternating name, XYer arguments
	args := make([]interface{}, 0, 2*len(series))
	for _, s := range series {
		if err := s.Validate(); err != nil {
			return err
		}
		args = append(args, s.Name, plotter.XYer(s))
	}
	if err := plotutil.AddLinePoints(p, args...); err != nil {
		return fmt.Errorf("adding series: %w", err)
	}
	if err := p.Save(opts.Width, opts.Height, opts.Path); err != nil {
		return fmt.Errorf("saving chart %s: %w", opts.Path, err)
	}
	logrus.Infof("Rendered %d series to %s", len(series), opts.Path)
	return nil
}
