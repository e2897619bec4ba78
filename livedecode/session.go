package livedecode

import (
	"time"

	"go.toneline.dev/toneline/internal/types"
)

// Session holds the per-session decoding state: detector, debouncer,
// transcript, and the sample clock. It is owned by a single goroutine (the
// pipeline worker, or the caller for offline decoding) and is not safe for
// concurrent ProcessChunk calls.
type Session struct {
	detector  *Detector
	debouncer *Debouncer
	trans     *Transcript

	samplesSeen int64
}

// NewSession creates a decoding session from a detector and a minimum
// inter-symbol gap.
func NewSession(det *Detector, minGap time.Duration) *Session {
	return &Session{
		detector:  det,
		debouncer: NewDebouncer(minGap),
		trans:     NewTranscript(),
	}
}

// ProcessChunk feeds one chunk through detection and debouncing. The
// session clock advances by the chunk length regardless of the outcome, so
// chunks must be supplied in arrival order. When a character is confirmed
// it is appended to the transcript and returned.
func (s *Session) ProcessChunk(chunk []float64) (types.DecodedChar, bool) {
	s.samplesSeen += int64(len(chunk))
	at := s.streamTime()

	det, ok := s.detector.Detect(chunk)
	if !ok {
		return types.DecodedChar{}, false
	}
	if !s.debouncer.Observe(at) {
		return types.DecodedChar{}, false
	}

	c := types.DecodedChar{Symbol: det.Symbol, At: at, Confidence: det.Confidence}
	s.trans.Append(c)
	return c, true
}

// DecodeWaveform runs a whole waveform through the session in fixed-size
// chunks, returning every confirmed character. The trailing partial chunk
// is processed as well.
func (s *Session) DecodeWaveform(w []float64, chunkSize int) []types.DecodedChar {
	var out []types.DecodedChar
	for start := 0; start < len(w); start += chunkSize {
		end := min(start+chunkSize, len(w))
		if c, ok := s.ProcessChunk(w[start:end]); ok {
			out = append(out, c)
		}
	}
	return out
}

// Text returns the decoded text so far.
func (s *Session) Text() string {
	return s.trans.String()
}

// Transcript returns the session's transcript.
func (s *Session) Transcript() *Transcript {
	return s.trans
}

// StreamTime returns the stream position of the session clock.
func (s *Session) StreamTime() time.Duration {
	return s.streamTime()
}

// SampleRate returns the session's sample rate.
func (s *Session) SampleRate() int {
	return s.detector.SampleRate()
}

// Reset clears all session state for a fresh decode.
func (s *Session) Reset() {
	s.samplesSeen = 0
	s.debouncer.Reset()
	s.trans.Reset()
}

func (s *Session) streamTime() time.Duration {
	return time.Duration(float64(s.samplesSeen) / float64(s.detector.SampleRate()) * float64(time.Second))
}
