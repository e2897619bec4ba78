// Package audiocapture provides microphone capture as fixed-length sample
// chunks, pushed to registered callbacks from the audio subsystem's own
// execution context.
package audiocapture

import (
	"errors"
	"log/slog"
	"sync"
	"time"
)

// ErrNotCapturing is returned when trying to use audio while not capturing.
var ErrNotCapturing = errors.New("not capturing audio")

// ErrAlreadyCapturing is returned when trying to start capture while already capturing.
var ErrAlreadyCapturing = errors.New("already capturing audio")

// Capture provides microphone capture through PortAudio. Audio is
// delivered as mono float64 chunks of a fixed duration; ownership of each
// chunk passes to the callbacks.
type Capture struct {
	mu sync.RWMutex

	capturing  bool
	startTime  time.Time
	sampleRate int
	chunkSize  int

	onChunk []func(chunk []float64)

	impl captureImpl
}

// captureImpl is the backend capture implementation interface.
type captureImpl interface {
	start(sampleRate, chunkSize int, callback func(chunk []float64)) error
	stop() error
}

// Config holds configuration for audio capture.
type Config struct {
	SampleRate    int           // default 44100 Hz
	ChunkDuration time.Duration // chunk length, default 100 ms
}

// DefaultConfig returns the default capture configuration.
func DefaultConfig() Config {
	return Config{
		SampleRate:    44100,
		ChunkDuration: 100 * time.Millisecond,
	}
}

// New creates a new audio capture instance.
func New(cfg Config) (*Capture, error) {
	if cfg.SampleRate == 0 {
		cfg.SampleRate = 44100
	}
	if cfg.ChunkDuration == 0 {
		cfg.ChunkDuration = 100 * time.Millisecond
	}

	c := &Capture{
		sampleRate: cfg.SampleRate,
		chunkSize:  int(cfg.ChunkDuration.Seconds() * float64(cfg.SampleRate)),
	}

	impl, err := newCaptureImpl()
	if err != nil {
		return nil, err
	}
	c.impl = impl

	return c, nil
}

// Start begins capturing from the default input device.
func (c *Capture) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.capturing {
		return ErrAlreadyCapturing
	}

	err := c.impl.start(c.sampleRate, c.chunkSize, c.handleChunk)
	if err != nil {
		return err
	}

	c.capturing = true
	c.startTime = time.Now()
	return nil
}

// Stop stops capturing audio. Stopping an idle capture is a no-op.
func (c *Capture) Stop() error {
	c.mu.Lock()
	if !c.capturing {
		c.mu.Unlock()
		return nil
	}
	c.capturing = false
	c.mu.Unlock()

	// Stop outside the lock: the backend waits for an in-flight callback,
	// and the callback takes the read lock.
	return c.impl.stop()
}

// IsCapturing returns true if currently capturing audio.
func (c *Capture) IsCapturing() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.capturing
}

// Duration returns how long capture has been running.
func (c *Capture) Duration() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.capturing {
		return 0
	}
	return time.Since(c.startTime)
}

// OnChunk registers a callback for captured chunks. The callback receives
// mono samples in the range [-1, 1] and must not block.
func (c *Capture) OnChunk(callback func(chunk []float64)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChunk = append(c.onChunk, callback)
}

// handleChunk forwards a captured chunk to the registered callbacks.
func (c *Capture) handleChunk(chunk []float64) {
	c.mu.RLock()
	callbacks := c.onChunk
	c.mu.RUnlock()

	// A device hiccup can deliver a short buffer; forward it anyway and
	// note the fault, a single bad chunk must not end the session.
	if len(chunk) != c.chunkSize {
		slog.Warn("short capture buffer", "got", len(chunk), "want", c.chunkSize)
	}

	for _, cb := range callbacks {
		cb(chunk)
	}
}

// SampleRate returns the configured sample rate.
func (c *Capture) SampleRate() int {
	return c.sampleRate
}

// ChunkSize returns the chunk length in samples.
func (c *Capture) ChunkSize() int {
	return c.chunkSize
}
