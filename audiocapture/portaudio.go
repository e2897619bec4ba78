package audiocapture

import (
	"fmt"
	"log/slog"

	"github.com/gordonklaus/portaudio"
)

// paCapture captures from the default input device via PortAudio.
type paCapture struct {
	stream *portaudio.Stream
}

func newCaptureImpl() (captureImpl, error) {
	return &paCapture{}, nil
}

func (p *paCapture) start(sampleRate, chunkSize int, callback func(chunk []float64)) error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("initialize portaudio: %w", err)
	}

	stream, err := portaudio.OpenDefaultStream(1, 0, float64(sampleRate), chunkSize,
		func(in []float32, _ portaudio.StreamCallbackTimeInfo, flags portaudio.StreamCallbackFlags) {
			if flags&portaudio.InputOverflow != 0 {
				// Device fault: samples were lost. Log and keep going.
				slog.Warn("portaudio input overflow")
			}
			chunk := make([]float64, len(in))
			for i, s := range in {
				chunk[i] = float64(s)
			}
			callback(chunk)
		})
	if err != nil {
		portaudio.Terminate()
		return fmt.Errorf("open input stream: %w", err)
	}

	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return fmt.Errorf("start input stream: %w", err)
	}

	p.stream = stream
	return nil
}

func (p *paCapture) stop() error {
	if p.stream == nil {
		return nil
	}

	stopErr := p.stream.Stop()
	closeErr := p.stream.Close()
	p.stream = nil
	portaudio.Terminate()

	if stopErr != nil {
		return fmt.Errorf("stop input stream: %w", stopErr)
	}
	if closeErr != nil {
		return fmt.Errorf("close input stream: %w", closeErr)
	}
	return nil
}
