package livedecode

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.toneline.dev/toneline/internal/types"
)

// ErrAlreadyRunning is returned when starting a service that is running.
var ErrAlreadyRunning = errors.New("livedecode: already running")

// queueDepth bounds the chunk queue between the capture callback and the
// processing worker. At 100 ms chunks this is ~25 s of backlog; beyond it
// the newest chunk is dropped and the event logged rather than stalling
// the capture callback.
const queueDepth = 256

// Source delivers fixed-length audio chunks to a registered callback on
// its own execution context. *audiocapture.Capture satisfies it.
type Source interface {
	OnChunk(func(chunk []float64))
	Start() error
	Stop() error
	SampleRate() int
}

// Service is the live decoding pipeline: a capture source pushes chunks
// into a FIFO queue, a worker goroutine drains the queue through the
// session, and confirmed characters are published on Events.
type Service struct {
	source  Source
	session *Session

	mu        sync.RWMutex
	running   atomic.Bool
	chunks    chan []float64
	events    chan types.DecodedChar
	wg        sync.WaitGroup
	id        string
	startTime time.Time
}

// NewService creates a decoding service over the given capture source.
// A zero detector sample rate falls back to the source's; other zero
// detector fields take the tuned defaults.
func NewService(source Source, detCfg DetectorConfig, minGap time.Duration) (*Service, error) {
	if detCfg.SampleRate == 0 {
		detCfg.SampleRate = source.SampleRate()
	}
	det, err := NewDetector(detCfg)
	if err != nil {
		return nil, fmt.Errorf("create detector: %w", err)
	}

	s := &Service{
		source:  source,
		session: NewSession(det, minGap),
	}
	source.OnChunk(s.handleChunk)
	return s, nil
}

// Start begins capturing and decoding. The previous session's transcript
// is discarded.
func (s *Service) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running.Load() {
		return ErrAlreadyRunning
	}

	s.session.Reset()
	s.chunks = make(chan []float64, queueDepth)
	s.events = make(chan types.DecodedChar, 16)
	s.id = uuid.NewString()
	s.startTime = time.Now()
	s.running.Store(true)

	s.wg.Add(1)
	go s.process(s.chunks, s.events)

	if err := s.source.Start(); err != nil {
		s.running.Store(false)
		close(s.chunks)
		s.wg.Wait()
		close(s.events)
		return fmt.Errorf("start capture: %w", err)
	}

	slog.Info("live decoding started", "session", s.id, "rate", s.source.SampleRate())
	return nil
}

// Stop tears the pipeline down: the producer first, then the queue, then
// the worker. Already-queued chunks are drained and an in-flight chunk
// always finishes before the worker exits. The final text is available
// from Text after Stop returns.
func (s *Service) Stop() error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}

	// Tear down the producer before touching the queue. The capture
	// callback may still be in flight; the write lock below waits for it
	// to finish before the queue is closed.
	if err := s.source.Stop(); err != nil {
		slog.Error("stop capture", "error", err)
	}

	s.mu.Lock()
	close(s.chunks)
	s.mu.Unlock()

	s.wg.Wait()
	close(s.events)

	slog.Info("live decoding stopped",
		"session", s.id,
		"duration", time.Since(s.startTime),
		"decoded", s.session.Text())
	return nil
}

// handleChunk runs on the capture context. It never blocks: when the queue
// is full the chunk is dropped and the event logged.
func (s *Service) handleChunk(chunk []float64) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.running.Load() {
		return
	}
	select {
	case s.chunks <- chunk:
	default:
		slog.Warn("chunk queue full, dropping chunk", "session", s.id)
	}
}

// process is the worker loop. It exits when the queue is closed and
// drained.
func (s *Service) process(chunks <-chan []float64, events chan<- types.DecodedChar) {
	defer s.wg.Done()

	for chunk := range chunks {
		c, ok := s.session.ProcessChunk(chunk)
		if !ok {
			continue
		}
		slog.Info("detected char", "symbol", string(c.Symbol), "at", c.At, "confidence", c.Confidence)
		select {
		case events <- c:
		default:
			// Slow consumer; the transcript still holds the character.
		}
	}
}

// Events returns the channel of confirmed characters for the current
// session. It is closed by Stop.
func (s *Service) Events() <-chan types.DecodedChar {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.events
}

// IsRunning reports whether the pipeline is active.
func (s *Service) IsRunning() bool {
	return s.running.Load()
}

// Text returns the decoded text so far (or the final text after Stop).
func (s *Service) Text() string {
	return s.session.Text()
}

// Record returns the finished session as a persistable record.
func (s *Service) Record() types.SessionRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return types.SessionRecord{
		ID:        s.id,
		StartedAt: s.startTime,
		Duration:  time.Since(s.startTime).Milliseconds(),
		Text:      s.session.Text(),
		CharCount: s.session.Transcript().Len(),
	}
}

// Status returns the current session status.
func (s *Service) Status() types.SessionStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	status := types.SessionStatus{
		Active:     s.running.Load(),
		ID:         s.id,
		SampleRate: s.source.SampleRate(),
		CharCount:  s.session.Transcript().Len(),
		Text:       s.session.Text(),
	}
	if status.Active {
		status.Duration = int64(time.Since(s.startTime).Seconds())
	}
	return status
}
