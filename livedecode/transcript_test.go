package livedecode

import (
	"sync"
	"testing"

	"go.toneline.dev/toneline/internal/types"
)

func TestTranscriptAppend(t *testing.T) {
	tr := NewTranscript()
	for _, sym := range []byte("SOS") {
		tr.Append(types.DecodedChar{Symbol: sym})
	}

	if got := tr.String(); got != "SOS" {
		t.Errorf("String() = %q, want %q", got, "SOS")
	}
	if tr.Len() != 3 {
		t.Errorf("Len() = %d, want 3", tr.Len())
	}
}

func TestTranscriptCharsIsCopy(t *testing.T) {
	tr := NewTranscript()
	tr.Append(types.DecodedChar{Symbol: 'A'})

	chars := tr.Chars()
	chars[0].Symbol = 'Z'
	if got := tr.String(); got != "A" {
		t.Errorf("String() = %q after mutating the copy, want %q", got, "A")
	}
}

func TestTranscriptReset(t *testing.T) {
	tr := NewTranscript()
	tr.Append(types.DecodedChar{Symbol: 'A'})
	tr.Reset()

	if tr.Len() != 0 || tr.String() != "" {
		t.Errorf("transcript not empty after Reset: %q", tr.String())
	}
}

func TestTranscriptConcurrentAppend(t *testing.T) {
	tr := NewTranscript()

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				tr.Append(types.DecodedChar{Symbol: 'X'})
			}
		}()
	}
	wg.Wait()

	if tr.Len() != 800 {
		t.Errorf("Len() = %d, want 800", tr.Len())
	}
}
