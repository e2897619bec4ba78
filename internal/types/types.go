// Package types provides shared type definitions for the application.
package types

import "time"

// DecodedChar is one confirmed character emitted by a decoding session.
type DecodedChar struct {
	Symbol     byte          `json:"symbol"`
	At         time.Duration `json:"at"`         // stream time since session start
	Confidence float64       `json:"confidence"` // tone balance ratio 0-1
}

// SessionStatus describes a live decoding session.
type SessionStatus struct {
	Active     bool   `json:"active"`
	ID         string `json:"id"`
	Duration   int64  `json:"duration"` // running duration in seconds
	CharCount  int    `json:"charCount"`
	SampleRate int    `json:"sampleRate"`
	Text       string `json:"text"`
}

// SessionRecord is a finished decoding session as persisted to history.
type SessionRecord struct {
	ID        string    `json:"id"`
	StartedAt time.Time `json:"startedAt"`
	Duration  int64     `json:"duration"` // milliseconds
	Text      string    `json:"text"`
	CharCount int       `json:"charCount"`
}
