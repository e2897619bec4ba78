package dsp

import (
	"math"
	"testing"
)

func TestSpectrumPureTone(t *testing.T) {
	const (
		rate = 44100.0
		freq = 1000.0
	)
	x := makeSine(freq, 0.1, int(rate)) // 4410 samples, 10 Hz bins

	freqs, mags := Spectrum(x, rate)
	if len(freqs) != len(mags) {
		t.Fatalf("len(freqs)=%d len(mags)=%d, want equal", len(freqs), len(mags))
	}
	// Even length: everything except DC and Nyquist.
	if want := len(x)/2 - 1; len(freqs) != want {
		t.Fatalf("got %d bins, want %d", len(freqs), want)
	}
	if freqs[0] != 10 {
		t.Errorf("first bin at %g Hz, want 10", freqs[0])
	}

	best := 0
	for i, m := range mags {
		if m > mags[best] {
			best = i
		}
	}
	if got := freqs[best]; math.Abs(got-freq) > 5 {
		t.Errorf("dominant bin at %g Hz, want %g", got, freq)
	}
}

func TestSpectrumDropsDC(t *testing.T) {
	x := make([]float64, 100)
	for i := range x {
		x[i] = 1
	}

	_, mags := Spectrum(x, 8000)
	for i, m := range mags {
		if m > 1e-6 {
			t.Fatalf("bin %d magnitude %g for a constant signal, want ~0", i, m)
		}
	}
}

func TestSpectrumOddLength(t *testing.T) {
	freqs, _ := Spectrum([]float64{1, 0, -1, 0, 1}, 44100)
	// Odd length keeps every positive-frequency bin.
	want := []float64{8820, 17640}
	if len(freqs) != len(want) {
		t.Fatalf("got %d bins, want %d", len(freqs), len(want))
	}
	for i := range want {
		if math.Abs(freqs[i]-want[i]) > 1e-9 {
			t.Errorf("freqs[%d] = %g, want %g", i, freqs[i], want[i])
		}
	}
}

func TestSpectrumEmpty(t *testing.T) {
	freqs, mags := Spectrum(nil, 44100)
	if freqs != nil || mags != nil {
		t.Errorf("Spectrum(nil) = %v, %v, want nil, nil", freqs, mags)
	}
}
