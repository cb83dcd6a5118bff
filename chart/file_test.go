package chart

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSeriesFile_AxisAndExplicitX(t *testing.T) {
	series, err := LoadSeriesFile("testdata/series.yaml")
	require.NoError(t, err)
	require.Len(t, series, 2)

	assert.Equal(t, "rtt-corruption", series[0].Name)
	assert.InDeltaSlice(t, GenerateXAxis(10, 0.05), series[0].X, 1e-12)
	assert.Equal(t, 10, series[0].Len())

	assert.Equal(t, []float64{0, 0.1, 0.2}, series[1].X)
	assert.Equal(t, "loss probability", series[1].XLabel)
}

func TestLoadSeriesFile_Missing(t *testing.T) {
	_, err := LoadSeriesFile("testdata/does-not-exist.yaml")
	assert.Error(t, err)
}

func TestParseSeries_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown field", "series:\n  - name: a\n    colour: red\n    y: [1]\n    x: [0]\n"},
		{"no series", "series: []\n"},
		{"both x and x_axis", "series:\n  - name: a\n    x: [0]\n    x_axis: {count: 1, step: 1}\n    y: [1]\n"},
		{"negative count", "series:\n  - name: a\n    x_axis: {count: -1, step: 1}\n    y: []\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSeries([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestParseSeries_LengthMismatch(t *testing.T) {
	_, err := ParseSeries([]byte("series:\n  - name: a\n    x_axis: {count: 3, step: 0.1}\n    y: [1, 2]\n"))
	assert.True(t, errors.Is(err, ErrLengthMismatch), "got %v", err)
}

func TestParseSeries_NameDefaultsToTitle(t *testing.T) {
	series, err := ParseSeries([]byte("series:\n  - title: Retransmits\n    x: [0]\n    y: [25]\n"))
	require.NoError(t, err)
	assert.Equal(t, "Retransmits", series[0].Name)
}
