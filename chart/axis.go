package chart

// GenerateXAxis returns count evenly spaced values starting at zero:
// [0, step, 2*step, ..., (count-1)*step]. A non-positive count yields an
// empty, non-nil slice.
func GenerateXAxis(count int, step float64) []float64 {
	if count < 0 {
		count = 0
	}
	xs := make([]float64, count)
	for i := range xs {
		// multiply rather than accumulate so rounding error does not drift
		xs[i] = float64(i) * step
	}
	return xs
}
