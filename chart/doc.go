// Package chart renders measured or simulated protocol metrics as line charts.
//
// A Series pairs an x-axis sequence (usually a probability level produced by
// GenerateXAxis) with a y-axis sequence of the same length. Render writes one
// series to an image file; RenderAll overlays several series on one chart.
// The built-in datasets are the measurements recorded from earlier runs of
// the simulator in package sim.
package chart
