package dsp

import "math"

// HannWindow returns a symmetric raised-cosine window of length n, used to
// reduce spectral leakage before a transform.
func HannWindow(n int) []float64 {
	w := make([]float64, n)
	if n == 1 {
		w[0] = 1
		return w
	}
	for i := range w {
		w[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n-1))
	}
	return w
}

// ApplyWindow multiplies x by w element-wise into a new slice. The slices
// must have equal length.
func ApplyWindow(x, w []float64) []float64 {
	out := make([]float64, len(x))
	for i := range x {
		out[i] = x[i] * w[i]
	}
	return out
}
