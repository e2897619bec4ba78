// Package wavio reads and writes waveforms as 16-bit PCM WAV files. It is
// the persistence collaborator of the codec: the codec itself only deals
// in sample slices.
package wavio

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// ErrEmptyWaveform is returned when writing a zero-length waveform.
var ErrEmptyWaveform = errors.New("wavio: empty waveform")

const pcmScale = 1 << 15

// Write persists samples as a mono 16-bit PCM WAV file at sampleRate.
// Samples are expected in [-1, 1]; values outside are clipped.
func Write(path string, samples []float64, sampleRate int) error {
	if len(samples) == 0 {
		return ErrEmptyWaveform
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create wav file: %w", err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, 16, 1, 1)

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		SourceBitDepth: 16,
		Data:           make([]int, len(samples)),
	}
	for i, s := range samples {
		v := int(math.Round(s * (pcmScale - 1)))
		if v > pcmScale-1 {
			v = pcmScale - 1
		} else if v < -pcmScale {
			v = -pcmScale
		}
		buf.Data[i] = v
	}

	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("write wav data: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finalize wav file: %w", err)
	}
	return nil
}

// Read loads a WAV file and returns its samples scaled to [-1, 1] along
// with the file's sample rate. Multi-channel files are reduced to their
// first channel.
func Read(path string) ([]float64, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open wav file: %w", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("decode wav file: %w", err)
	}
	if buf.Format == nil || len(buf.Data) == 0 {
		return nil, 0, fmt.Errorf("wavio: no audio data in %s", path)
	}

	channels := buf.Format.NumChannels
	if channels < 1 {
		channels = 1
	}
	scale := 1.0 / float64(int(1)<<(dec.BitDepth-1))

	samples := make([]float64, 0, len(buf.Data)/channels)
	for i := 0; i < len(buf.Data); i += channels {
		samples = append(samples, float64(buf.Data[i])*scale)
	}
	return samples, buf.Format.SampleRate, nil
}
