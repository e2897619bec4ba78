// Package livedecode provides real-time DTMF tone decoding: spectral
// detection of tone pairs in audio chunks, debounced character emission,
// and the streaming pipeline that connects a capture source to both.
package livedecode

import (
	"errors"
	"fmt"
	"math"

	"go.toneline.dev/toneline/dsp"
	"go.toneline.dev/toneline/dtmf"
)

// Detection is a validated tone-pair match for one audio chunk.
type Detection struct {
	LowIndex   int     // row into the tone table
	HighIndex  int     // column into the tone table
	Symbol     byte    // table symbol at (LowIndex, HighIndex)
	Confidence float64 // min/max amplitude ratio of the two tone peaks
}

// DetectorConfig holds the spectral detection thresholds. Zero values are
// replaced with the defaults the decoder was tuned with.
type DetectorConfig struct {
	SampleRate int

	SilenceThreshold float64 // peak amplitude below which a chunk is skipped
	BandLowHz        float64 // band-pass lower cutoff
	BandHighHz       float64 // band-pass upper cutoff
	FilterOrder      int     // Butterworth order

	PeakHeightRatio float64 // peak height floor, relative to spectrum max
	PeakDistance    int     // minimum peak separation in bins
	PeakProminence  float64 // minimum peak prominence

	MatchToleranceHz float64 // max distance from a table frequency
	MinConfidence    float64 // minimum tone balance ratio
}

// DefaultDetectorConfig returns the tuned detection thresholds at the given
// sample rate.
func DefaultDetectorConfig(sampleRate int) DetectorConfig {
	return DetectorConfig{
		SampleRate:       sampleRate,
		SilenceThreshold: 0.01,
		BandLowHz:        600,
		BandHighHz:       2000,
		FilterOrder:      5,
		PeakHeightRatio:  0.2,
		PeakDistance:     30,
		PeakProminence:   0.1,
		MatchToleranceHz: 40,
		MinConfidence:    0.2,
	}
}

// Detector turns raw audio chunks into validated tone-pair detections.
// It is not safe for concurrent use; each decoding session owns one.
type Detector struct {
	cfg    DetectorConfig
	filter *dsp.BandPass
}

// NewDetector creates a detector for the configured sample rate. Zero
// config fields fall back to the defaults.
func NewDetector(cfg DetectorConfig) (*Detector, error) {
	if cfg.SampleRate <= 0 {
		return nil, errors.New("livedecode: sample rate required")
	}
	def := DefaultDetectorConfig(cfg.SampleRate)
	if cfg.SilenceThreshold == 0 {
		cfg.SilenceThreshold = def.SilenceThreshold
	}
	if cfg.BandLowHz == 0 {
		cfg.BandLowHz = def.BandLowHz
	}
	if cfg.BandHighHz == 0 {
		cfg.BandHighHz = def.BandHighHz
	}
	if cfg.FilterOrder == 0 {
		cfg.FilterOrder = def.FilterOrder
	}
	if cfg.PeakHeightRatio == 0 {
		cfg.PeakHeightRatio = def.PeakHeightRatio
	}
	if cfg.PeakDistance == 0 {
		cfg.PeakDistance = def.PeakDistance
	}
	if cfg.PeakProminence == 0 {
		cfg.PeakProminence = def.PeakProminence
	}
	if cfg.MatchToleranceHz == 0 {
		cfg.MatchToleranceHz = def.MatchToleranceHz
	}
	if cfg.MinConfidence == 0 {
		cfg.MinConfidence = def.MinConfidence
	}

	filter, err := dsp.NewBandPass(cfg.FilterOrder, cfg.BandLowHz, cfg.BandHighHz, float64(cfg.SampleRate))
	if err != nil {
		return nil, fmt.Errorf("design band-pass filter: %w", err)
	}
	return &Detector{cfg: cfg, filter: filter}, nil
}

// Detect analyzes one chunk and reports a tone pair when exactly one low
// and one high table frequency carry balanced energy. Chunks that are
// silent, too short to filter, ambiguous, or unbalanced report ok=false;
// no outcome here is an error.
func (d *Detector) Detect(chunk []float64) (Detection, bool) {
	if peakAbs(chunk) < d.cfg.SilenceThreshold {
		return Detection{}, false
	}
	if len(chunk) < d.filter.MinInputLen() {
		return Detection{}, false
	}

	filtered, err := d.filter.FiltFilt(chunk)
	if err != nil {
		return Detection{}, false
	}

	windowed := dsp.ApplyWindow(filtered, dsp.HannWindow(len(filtered)))
	freqs, mags := dsp.Spectrum(windowed, float64(d.cfg.SampleRate))
	if len(mags) == 0 {
		return Detection{}, false
	}

	maxMag := 0.0
	for _, m := range mags {
		if m > maxMag {
			maxMag = m
		}
	}
	if maxMag == 0 {
		return Detection{}, false
	}

	peaks := dsp.FindPeaks(mags, dsp.PeakCriteria{
		MinHeight:     d.cfg.PeakHeightRatio * maxMag,
		MinDistance:   d.cfg.PeakDistance,
		MinProminence: d.cfg.PeakProminence,
	})

	// Match peaks against both tables. A peak near a band boundary may
	// land in both candidate lists; the single-candidate rule below then
	// rejects the chunk.
	type candidate struct {
		index int
		amp   float64
	}
	var lows, highs []candidate
	for _, p := range peaks {
		f := freqs[p.Index]
		for i, fl := range dtmf.FreqsLow {
			if math.Abs(f-fl) < d.cfg.MatchToleranceHz {
				lows = append(lows, candidate{i, p.Height})
			}
		}
		for j, fh := range dtmf.FreqsHigh {
			if math.Abs(f-fh) < d.cfg.MatchToleranceHz {
				highs = append(highs, candidate{j, p.Height})
			}
		}
	}

	if len(lows) != 1 || len(highs) != 1 {
		return Detection{}, false
	}

	low, high := lows[0], highs[0]
	conf := math.Min(low.amp, high.amp) / math.Max(low.amp, high.amp)
	if conf <= d.cfg.MinConfidence {
		return Detection{}, false
	}

	return Detection{
		LowIndex:   low.index,
		HighIndex:  high.index,
		Symbol:     dtmf.Symbol(low.index, high.index),
		Confidence: conf,
	}, true
}

// SampleRate returns the detector's configured sample rate.
func (d *Detector) SampleRate() int {
	return d.cfg.SampleRate
}

func peakAbs(x []float64) float64 {
	var peak float64
	for _, s := range x {
		if a := math.Abs(s); a > peak {
			peak = a
		}
	}
	return peak
}
