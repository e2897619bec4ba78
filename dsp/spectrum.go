package dsp

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
)

// Spectrum computes the single-sided magnitude spectrum of x sampled at
// sampleRate Hz. The DC term and, for even lengths, the Nyquist bin are
// discarded: only strictly positive frequencies are returned. freqs[i] and
// mags[i] describe the same bin, with bins spaced sampleRate/len(x) apart.
func Spectrum(x []float64, sampleRate float64) (freqs, mags []float64) {
	n := len(x)
	if n == 0 {
		return nil, nil
	}

	fft := fourier.NewFFT(n)
	coeffs := fft.Coefficients(nil, x)

	hi := len(coeffs)
	if n%2 == 0 {
		hi-- // Nyquist bin mirrors into the negative half
	}
	if hi <= 1 {
		return nil, nil
	}

	freqs = make([]float64, hi-1)
	mags = make([]float64, hi-1)
	binHz := sampleRate / float64(n)
	for i := 1; i < hi; i++ {
		freqs[i-1] = float64(i) * binHz
		mags[i-1] = math.Hypot(real(coeffs[i]), imag(coeffs[i]))
	}
	return freqs, mags
}
