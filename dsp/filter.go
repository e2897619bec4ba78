// Package dsp provides the signal-processing primitives behind the tone
// decoder: Butterworth band-pass filtering with zero-phase application,
// windowed magnitude spectra, peak picking, and rational resampling.
package dsp

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"
)

// ErrTooShort is returned when an input is shorter than the padding a
// zero-phase filter pass requires.
var ErrTooShort = errors.New("dsp: input too short to filter")

// BandPass is a digital Butterworth band-pass filter expressed as transfer
// function coefficients. Apply it with FiltFilt for zero-phase output.
type BandPass struct {
	b, a []float64
	zi   []float64 // steady-state step response, scaled per pass
}

// NewBandPass designs an order-n Butterworth band-pass filter with -3 dB
// cutoffs at lowHz and highHz for signals sampled at sampleRate Hz. The
// design follows the classic analog-prototype route: frequency pre-warp,
// low-pass to band-pass transform in pole-zero form, then the bilinear
// transform.
func NewBandPass(order int, lowHz, highHz, sampleRate float64) (*BandPass, error) {
	if order < 1 {
		return nil, fmt.Errorf("dsp: invalid filter order %d", order)
	}
	nyq := sampleRate / 2
	if lowHz <= 0 || highHz <= lowHz || highHz >= nyq {
		return nil, fmt.Errorf("dsp: invalid band %g-%g Hz at %g Hz sample rate", lowHz, highHz, sampleRate)
	}

	// Pre-warp the normalized cutoffs for the bilinear transform.
	const fs = 2.0
	w1 := 2 * fs * math.Tan(math.Pi*(lowHz/nyq)/fs)
	w2 := 2 * fs * math.Tan(math.Pi*(highHz/nyq)/fs)
	bw := w2 - w1
	wo := math.Sqrt(w1 * w2)

	// Butterworth analog prototype: order poles evenly spaced on the unit
	// circle's left half, no zeros, unit gain.
	poles := make([]complex128, order)
	for k := range order {
		m := float64(-order + 1 + 2*k)
		poles[k] = -cmplx.Exp(complex(0, math.Pi*m/(2*float64(order))))
	}
	gain := 1.0

	// Low-pass to band-pass: each pole splits in two, `order` zeros appear
	// at the origin.
	bpPoles := make([]complex128, 0, 2*order)
	for _, p := range poles {
		lp := p * complex(bw/2, 0)
		d := cmplx.Sqrt(lp*lp - complex(wo*wo, 0))
		bpPoles = append(bpPoles, lp+d, lp-d)
	}
	bpZeros := make([]complex128, order) // all zero
	gain *= math.Pow(bw, float64(order))

	// Bilinear transform into the z-domain. The analog zeros at the origin
	// map to z=1; the degree deficit becomes zeros at z=-1.
	fs2 := complex(2*fs, 0)
	zZeros := make([]complex128, 0, 2*order)
	numer := complex(1, 0)
	for _, z := range bpZeros {
		zZeros = append(zZeros, (fs2+z)/(fs2-z))
		numer *= fs2 - z
	}
	denom := complex(1, 0)
	zPoles := make([]complex128, 0, 2*order)
	for _, p := range bpPoles {
		zPoles = append(zPoles, (fs2+p)/(fs2-p))
		denom *= fs2 - p
	}
	for range len(bpPoles) - len(bpZeros) {
		zZeros = append(zZeros, -1)
	}
	gain *= real(numer / denom)

	b := realPoly(zZeros)
	for i := range b {
		b[i] *= gain
	}
	a := realPoly(zPoles)

	f := &BandPass{b: b, a: a}
	zi, err := stepState(b, a)
	if err != nil {
		return nil, err
	}
	f.zi = zi
	return f, nil
}

// MinInputLen reports the smallest input length FiltFilt accepts.
func (f *BandPass) MinInputLen() int {
	return f.padLen() + 1
}

func (f *BandPass) padLen() int {
	return 3 * max(len(f.a), len(f.b))
}

// FiltFilt applies the filter forward then backward, cancelling phase
// distortion. The input is extended at both ends by odd reflection to
// suppress edge transients. Returns ErrTooShort when x cannot cover the
// reflection padding.
func (f *BandPass) FiltFilt(x []float64) ([]float64, error) {
	padlen := f.padLen()
	if len(x) <= padlen {
		return nil, ErrTooShort
	}

	ext := oddExtend(x, padlen)

	fwd := f.apply(ext, ext[0])
	reverse(fwd)
	bwd := f.apply(fwd, fwd[0])
	reverse(bwd)

	return bwd[padlen : len(bwd)-padlen], nil
}

// apply runs a single direct form II transposed pass with the steady-state
// initial conditions scaled to x0.
func (f *BandPass) apply(x []float64, x0 float64) []float64 {
	n := len(f.b)
	z := make([]float64, n-1)
	for i := range z {
		z[i] = f.zi[i] * x0
	}

	y := make([]float64, len(x))
	for i, xi := range x {
		yi := f.b[0]*xi + z[0]
		for j := 0; j < n-2; j++ {
			z[j] = f.b[j+1]*xi + z[j+1] - f.a[j+1]*yi
		}
		z[n-2] = f.b[n-1]*xi - f.a[n-1]*yi
		y[i] = yi
	}
	return y
}

// stepState computes the filter state that makes the step response start at
// its steady value, so a filter pass settles immediately at the boundary.
// It solves (I - A^T) zi = B for the direct form II transposed realization.
func stepState(b, a []float64) ([]float64, error) {
	n := len(a)
	m := n - 1

	sys := mat.NewDense(m, m, nil)
	for i := range m {
		sys.Set(i, i, 1)
	}
	for i := range m {
		sys.Set(i, 0, sys.At(i, 0)+a[i+1])
		if i+1 < m {
			sys.Set(i, i+1, sys.At(i, i+1)-1)
		}
	}
	rhs := mat.NewVecDense(m, nil)
	for i := range m {
		rhs.SetVec(i, b[i+1]-a[i+1]*b[0])
	}

	var zi mat.VecDense
	if err := zi.SolveVec(sys, rhs); err != nil {
		return nil, fmt.Errorf("dsp: filter initial conditions: %w", err)
	}

	out := make([]float64, m)
	for i := range m {
		out[i] = zi.AtVec(i)
	}
	return out, nil
}

// realPoly expands the monic polynomial with the given roots and returns
// the real parts of its coefficients, highest order first.
func realPoly(roots []complex128) []float64 {
	coeffs := []complex128{1}
	for _, r := range roots {
		next := make([]complex128, len(coeffs)+1)
		for i, c := range coeffs {
			next[i] += c
			next[i+1] -= c * r
		}
		coeffs = next
	}
	out := make([]float64, len(coeffs))
	for i, c := range coeffs {
		out[i] = real(c)
	}
	return out
}

// oddExtend reflects x about its end points, extending it by pad samples on
// each side.
func oddExtend(x []float64, pad int) []float64 {
	n := len(x)
	ext := make([]float64, 0, n+2*pad)
	for i := pad; i >= 1; i-- {
		ext = append(ext, 2*x[0]-x[i])
	}
	ext = append(ext, x...)
	for i := n - 2; i >= n-1-pad; i-- {
		ext = append(ext, 2*x[n-1]-x[i])
	}
	return ext
}

func reverse(x []float64) {
	for i, j := 0, len(x)-1; i < j; i, j = i+1, j-1 {
		x[i], x[j] = x[j], x[i]
	}
}
