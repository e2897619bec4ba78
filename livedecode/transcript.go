package livedecode

import (
	"strings"
	"sync"

	"go.toneline.dev/toneline/internal/types"
)

// Transcript is the append-only sequence of confirmed characters produced
// by a decoding session. It grows monotonically and is never rewritten.
type Transcript struct {
	mu    sync.Mutex
	chars []types.DecodedChar
}

// NewTranscript creates an empty transcript.
func NewTranscript() *Transcript {
	return &Transcript{}
}

// Append records a confirmed character.
func (t *Transcript) Append(c types.DecodedChar) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.chars = append(t.chars, c)
}

// String returns the decoded text so far.
func (t *Transcript) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	var b strings.Builder
	b.Grow(len(t.chars))
	for _, c := range t.chars {
		b.WriteByte(c.Symbol)
	}
	return b.String()
}

// Chars returns a copy of the confirmed characters in emission order.
func (t *Transcript) Chars() []types.DecodedChar {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]types.DecodedChar, len(t.chars))
	copy(out, t.chars)
	return out
}

// Len returns the number of confirmed characters.
func (t *Transcript) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.chars)
}

// Reset clears the transcript for a new session.
func (t *Transcript) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.chars = t.chars[:0]
}
