// sim/metrics_utils.go
package sim

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// CalculateMean returns the arithmetic mean of data, or 0 for an empty slice.
func CalculateMean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Mean(data, nil)
}

// CalculateMeanStdDev returns the mean and sample standard deviation of data.
// A single sample has zero spread; an empty slice yields zeros.
func CalculateMeanStdDev(data []float64) (mean, std float64) {
	switch len(data) {
	case 0:
		return 0, 0
	case 1:
		return data[0], 0
	}
	return stat.MeanStdDev(data, nil)
}

// CalculatePercentile returns the p-th percentile (0-100) of data using the
// empirical quantile. data is not modified. Empty input returns 0.
func CalculatePercentile(data []float64, p float64) float64 {
	if len(data) == 0 {
		return 0
	}
	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)
	return stat.Quantile(p/100, stat.Empirical, sorted, nil)
}
