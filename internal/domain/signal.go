package domain

import (
	"errors"
	"time"
)

// DefaultSignalDurationSec is the engagement assumed for signals recorded
// without a duration.
const DefaultSignalDurationSec = 300

var (
	ErrMissingUserID     = errors.New("user id is required")
	ErrInvalidKind       = errors.New("unknown activity kind")
	ErrMissingObservedAt = errors.New("observed at is required")
	ErrNegativeDuration  = errors.New("duration must not be negative")
)

// ActivitySignal is one observed unit of engagement. Signals are append-only.
type ActivitySignal struct {
	ID              string
	UserID          string
	Kind            ActivityKind
	RawText         string
	Concepts        []string
	ObservedAt      time.Time
	DurationSec     *int
	DetectedDueDate *time.Time
	Title           string
}

func (s *ActivitySignal) Validate() error {
	if s.UserID == "" {
		return ErrMissingUserID
	}
	if !ValidActivityKinds[s.Kind] {
		return ErrInvalidKind
	}
	if s.ObservedAt.IsZero() {
		return ErrMissingObservedAt
	}
	if s.DurationSec != nil && *s.DurationSec < 0 {
		return ErrNegativeDuration
	}
	return nil
}

// EffectiveDurationSec returns the recorded duration or the default.
func (s *ActivitySignal) EffectiveDurationSec() int {
	return DerefInt(s.DurationSec, DefaultSignalDurationSec)
}

// Label is the short human-readable name of the signal.
func (s *ActivitySignal) Label() string {
	return CoalesceStr(s.Title, string(s.Kind))
}

// Deadline is an upcoming due date surfaced from a signal.
type Deadline struct {
	Label   string
	DueDate time.Time
}
