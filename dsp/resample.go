package dsp

import (
	"fmt"

	resampling "github.com/tphakala/go-audio-resampling"
)

// refRate is an arbitrary reference used to express a rational factor as an
// input/output rate pair for the polyphase resampler.
const refRate = 8000.0

// ResampleRational resamples w by the rational factor up/down using a
// polyphase FIR with an anti-aliasing low-pass matched to the lower of the
// two rates. The output length is approximately len(w)*up/down.
//
// The operation is lossy: resampling down then up by the same factor does
// not restore the original samples, only the approximate length and shape.
func ResampleRational(w []float64, up, down int) ([]float64, error) {
	if up <= 0 || down <= 0 {
		return nil, fmt.Errorf("dsp: resample factors must be positive, got %d/%d", up, down)
	}
	if len(w) == 0 {
		return nil, nil
	}
	if up == down {
		out := make([]float64, len(w))
		copy(out, w)
		return out, nil
	}

	out, err := resampling.ResampleMono(w, refRate*float64(down), refRate*float64(up), resampling.QualityHigh)
	if err != nil {
		return nil, fmt.Errorf("dsp: resample %d/%d: %w", up, down, err)
	}
	return out, nil
}

// SpeedUp accelerates w by an integer factor, shrinking it.
func SpeedUp(w []float64, factor int) ([]float64, error) {
	return ResampleRational(w, 1, factor)
}

// SlowDown decelerates w by an integer factor, stretching it.
func SlowDown(w []float64, factor int) ([]float64, error) {
	return ResampleRational(w, factor, 1)
}
