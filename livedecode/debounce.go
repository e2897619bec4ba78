package livedecode

import "time"

// DefaultMinGap is the minimum stream time between two confirmed
// characters. Hits inside the gap are treated as the same key press.
const DefaultMinGap = 250 * time.Millisecond

// Debouncer collapses repeated per-chunk detections of a held tone into a
// single character emission. It has two states: Idle (nothing emitted yet)
// and Cooling (a character was just confirmed). Timing is stream time, not
// wall clock, so offline decoding behaves identically to live capture.
type Debouncer struct {
	minGap time.Duration

	cooling bool
	last    time.Duration
}

// NewDebouncer creates a debouncer with the given minimum inter-symbol
// gap. A non-positive gap falls back to DefaultMinGap.
func NewDebouncer(minGap time.Duration) *Debouncer {
	if minGap <= 0 {
		minGap = DefaultMinGap
	}
	return &Debouncer{minGap: minGap}
}

// Observe reports whether a detector hit at stream time `at` confirms a
// new character. In Idle the first hit always confirms; in Cooling a hit
// confirms only when at least the minimum gap has elapsed since the last
// confirmation. A confirming hit resets the cooldown clock.
func (d *Debouncer) Observe(at time.Duration) bool {
	if d.cooling && at-d.last < d.minGap {
		return false
	}
	d.cooling = true
	d.last = at
	return true
}

// InCooldown reports whether a hit at stream time `at` would be dropped.
func (d *Debouncer) InCooldown(at time.Duration) bool {
	return d.cooling && at-d.last < d.minGap
}

// Reset returns the debouncer to Idle for a new session.
func (d *Debouncer) Reset() {
	d.cooling = false
	d.last = 0
}
