package dtmf

import (
	"math"
	"strings"
	"unicode"
)

// normEpsilon guards peak normalization against division by near-zero.
const normEpsilon = 1e-9

// fadeDuration is the linear fade applied at both ends of a tone to
// suppress discontinuity clicks.
const fadeDuration = 0.01

// Synthesize generates the dual-tone waveform for sym: the sum of the
// symbol's low and high sinusoids at half amplitude each, over duration
// seconds at sampleRate samples per second. A 10 ms linear fade-in and
// fade-out is applied unless the waveform is too short to hold both, and
// the result is normalized to peak amplitude 1.0.
//
// Unknown symbols yield silence of the requested duration.
func Synthesize(sym byte, duration float64, sampleRate int) []float64 {
	n := int(float64(sampleRate) * duration)
	signal := make([]float64, n)

	low, high, err := Frequencies(sym)
	if err != nil {
		return signal
	}

	for i := range signal {
		t := float64(i) / float64(sampleRate)
		signal[i] = 0.5*math.Sin(2*math.Pi*low*t) + 0.5*math.Sin(2*math.Pi*high*t)
	}

	applyFade(signal, sampleRate)
	normalize(signal)
	return signal
}

// SynthesizePhrase encodes text as a sequence of tones. The text is
// uppercased; whitespace becomes a silence gap of gapDuration, every other
// character becomes its tone followed by a gap. The concatenation is
// renormalized to peak amplitude 1.0.
func SynthesizePhrase(text string, charDuration, gapDuration float64, sampleRate int) []float64 {
	gap := make([]float64, int(float64(sampleRate)*gapDuration))

	var out []float64
	for _, r := range strings.ToUpper(text) {
		if unicode.IsSpace(r) {
			out = append(out, gap...)
			continue
		}
		out = append(out, Synthesize(byte(r), charDuration, sampleRate)...)
		out = append(out, gap...)
	}

	normalize(out)
	return out
}

// applyFade applies a linear fade-in and fade-out in place. Waveforms too
// short for two full fades are left untouched.
func applyFade(signal []float64, sampleRate int) {
	fadeLen := int(float64(sampleRate) * fadeDuration)
	if fadeLen == 0 || len(signal) <= 2*fadeLen {
		return
	}
	for i := range fadeLen {
		g := float64(i) / float64(fadeLen-1)
		signal[i] *= g
		signal[len(signal)-1-i] *= g
	}
}

// normalize scales signal in place so the peak absolute amplitude is 1.0.
func normalize(signal []float64) {
	var peak float64
	for _, s := range signal {
		if a := math.Abs(s); a > peak {
			peak = a
		}
	}
	scale := 1 / (peak + normEpsilon)
	for i := range signal {
		signal[i] *= scale
	}
}
