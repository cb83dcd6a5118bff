package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gonum.org/v1/plot/vg"

	"github.com/PhoenixTAN/Reliable-Transport-Protocol/chart"
)

var (
	plotDataset string  // Built-in dataset name
	plotSeries  string  // YAML series file, overrides --dataset
	plotOut     string  // Chart output path
	plotWidth   float64 // Chart width in inches
	plotHeight  float64 // Chart height in inches
	plotList    bool    // List built-in datasets and exit
)

// plotCmd renders a recorded dataset or a series file as a line chart
var plotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Render recorded results as a line chart",
	RunE: func(cmd *cobra.Command, args []string) error {
		if plotList {
			return listDatasets(cmd.OutOrStdout())
		}
		series, err := selectSeries(plotDataset, plotSeries)
		if err != nil {
			return err
		}
		return renderSeries(series, chart.RenderOptions{
			Path:   plotOut,
			Width:  vg.Length(plotWidth) * vg.Inch,
			Height: vg.Length(plotHeight) * vg.Inch,
		})
	},
}

func listDatasets(w io.Writer) error {
	for _, name := range chart.DatasetNames() {
		s, err := chart.Dataset(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%-26s %s\n", name, s.Title)
	}
	return nil
}

// selectSeries loads seriesFile when given, otherwise the named dataset.
func selectSeries(dataset, seriesFile string) ([]chart.Series, error) {
	if seriesFile != "" {
		return chart.LoadSeriesFile(seriesFile)
	}
	s, err := chart.Dataset(dataset)
	if err != nil {
		return nil, err
	}
	return []chart.Series{s}, nil
}

// renderSeries draws a single series on its own chart and overlays several.
func renderSeries(series []chart.Series, opts chart.RenderOptions) error {
	for _, s := range series {
		logrus.Infof("Series %q x axis: %v", s.Name, s.X)
	}
	switch len(series) {
	case 0:
		return errors.New("no series to plot")
	case 1:
		return chart.Render(series[0], opts)
	default:
		return chart.RenderAll(series, opts)
	}
}

func init() {
	plotCmd.Flags().StringVar(&plotDataset, "dataset", chart.DefaultDataset, "Built-in dataset to plot (see --list)")
	plotCmd.Flags().StringVar(&plotSeries, "series", "", "YAML file of series to plot instead of a built-in dataset")
	plotCmd.Flags().StringVar(&plotOut, "out", "rtt_vs_corruption.png", "Chart output file; format follows the extension")
	plotCmd.Flags().Float64Var(&plotWidth, "width", 6, "Chart width in inches")
	plotCmd.Flags().Float64Var(&plotHeight, "height", 4, "Chart height in inches")
	plotCmd.Flags().BoolVar(&plotList, "list", false, "List built-in datasets and exit")
}
