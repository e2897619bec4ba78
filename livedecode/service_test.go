package livedecode

import (
	"errors"
	"testing"
	"time"

	"go.toneline.dev/toneline/dtmf"
)

// fakeSource is a hand-driven Source: tests push chunks through emit the
// way PortAudio pushes them through its stream callback.
type fakeSource struct {
	cb       func(chunk []float64)
	started  bool
	startErr error
}

func (f *fakeSource) OnChunk(cb func(chunk []float64)) { f.cb = cb }

func (f *fakeSource) Start() error {
	if f.startErr != nil {
		return f.startErr
	}
	f.started = true
	return nil
}

func (f *fakeSource) Stop() error {
	f.started = false
	return nil
}

func (f *fakeSource) SampleRate() int { return testRate }

func (f *fakeSource) emit(chunk []float64) { f.cb(chunk) }

func TestServiceLifecycle(t *testing.T) {
	src := &fakeSource{}
	svc, err := NewService(src, DetectorConfig{}, 250*time.Millisecond)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	if err := svc.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !svc.IsRunning() || !src.started {
		t.Fatal("service not running after Start")
	}
	if err := svc.Start(); !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("second Start error = %v, want ErrAlreadyRunning", err)
	}

	src.emit(dtmf.Synthesize('A', 0.3, testRate))

	if err := svc.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if svc.IsRunning() || src.started {
		t.Fatal("service still running after Stop")
	}

	// Stop drains the queue before closing the event channel, so the
	// confirmed character is buffered and the channel then closed.
	c, ok := <-svc.Events()
	if !ok {
		t.Fatal("event channel closed with no character")
	}
	if c.Symbol != 'A' {
		t.Errorf("event symbol = %c, want A", c.Symbol)
	}
	if _, ok := <-svc.Events(); ok {
		t.Error("event channel open after Stop")
	}

	if got := svc.Text(); got != "A" {
		t.Errorf("Text() = %q, want %q", got, "A")
	}

	// Stopping again is a no-op.
	if err := svc.Stop(); err != nil {
		t.Errorf("second Stop: %v", err)
	}
}

func TestServiceRecord(t *testing.T) {
	src := &fakeSource{}
	svc, err := NewService(src, DetectorConfig{}, 250*time.Millisecond)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	if err := svc.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	src.emit(dtmf.Synthesize('H', 0.3, testRate))
	if err := svc.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	rec := svc.Record()
	if rec.ID == "" {
		t.Error("record has no session ID")
	}
	if rec.Text != "H" || rec.CharCount != 1 {
		t.Errorf("record text %q count %d, want H / 1", rec.Text, rec.CharCount)
	}
	if rec.StartedAt.IsZero() {
		t.Error("record has no start time")
	}
}

func TestServiceStartFailure(t *testing.T) {
	src := &fakeSource{startErr: errors.New("no input device")}
	svc, err := NewService(src, DetectorConfig{}, 0)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	if err := svc.Start(); err == nil {
		t.Fatal("Start succeeded with a failing source")
	}
	if svc.IsRunning() {
		t.Error("service running after failed Start")
	}
}

func TestServiceIgnoresChunksWhenStopped(t *testing.T) {
	src := &fakeSource{}
	svc, err := NewService(src, DetectorConfig{}, 0)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	// Before Start and after Stop the callback must be a safe no-op.
	src.emit(dtmf.Synthesize('A', 0.3, testRate))
	if svc.Text() != "" {
		t.Errorf("Text() = %q before Start, want empty", svc.Text())
	}

	if err := svc.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := svc.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	src.emit(dtmf.Synthesize('B', 0.3, testRate))
	if svc.Text() != "" {
		t.Errorf("Text() = %q after Stop, want empty", svc.Text())
	}
}

func TestServicePipelineDecodesPhrase(t *testing.T) {
	src := &fakeSource{}
	svc, err := NewService(src, DetectorConfig{}, 250*time.Millisecond)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	if err := svc.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	// Feed the whole phrase in 100 ms capture chunks; 0.2 s tones and
	// 0.3 s gaps keep every chunk effectively pure tone or pure silence.
	w := dtmf.SynthesizePhrase("SOS", 0.2, 0.3, testRate)
	const chunkSize = testRate / 10
	for start := 0; start < len(w); start += chunkSize {
		end := start + chunkSize
		if end > len(w) {
			end = len(w)
		}
		src.emit(w[start:end])
	}

	if err := svc.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if got := svc.Text(); got != "SOS" {
		t.Errorf("Text() = %q, want %q", got, "SOS")
	}

	var events []byte
	for c := range svc.Events() {
		events = append(events, c.Symbol)
	}
	if string(events) != "SOS" {
		t.Errorf("events = %q, want %q", events, "SOS")
	}
}

func TestServiceRestartClearsTranscript(t *testing.T) {
	src := &fakeSource{}
	svc, err := NewService(src, DetectorConfig{}, 250*time.Millisecond)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	if err := svc.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	src.emit(dtmf.Synthesize('A', 0.3, testRate))
	if err := svc.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	first := svc.Record()

	if err := svc.Start(); err != nil {
		t.Fatalf("restart: %v", err)
	}
	src.emit(dtmf.Synthesize('B', 0.3, testRate))
	if err := svc.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	second := svc.Record()

	if second.Text != "B" {
		t.Errorf("second session text %q, want %q", second.Text, "B")
	}
	if first.ID == second.ID {
		t.Error("restart reused the session ID")
	}
}
