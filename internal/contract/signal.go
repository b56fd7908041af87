package contract

import (
	"time"

	"github.com/alexanderramin/cadence/internal/domain"
)

type SignalInput struct {
	UserID          string   `json:"user_id,omitempty"`
	Kind            string   `json:"kind"`
	Title           string   `json:"title,omitempty"`
	RawText         string   `json:"raw_text,omitempty"`
	Concepts        []string `json:"concepts,omitempty"`
	ObservedAt      string   `json:"observed_at,omitempty"`
	DurationSec     *int     `json:"duration_sec,omitempty"`
	DetectedDueDate string   `json:"detected_due_date,omitempty"`
}

// ToDomain converts the input; a missing observed_at defaults to now.
func (in SignalInput) ToDomain(defaultUser string, now time.Time) (*domain.ActivitySignal, error) {
	s := &domain.ActivitySignal{
		UserID:      in.UserID,
		Kind:        domain.ActivityKind(in.Kind),
		Title:       in.Title,
		RawText:     in.RawText,
		Concepts:    in.Concepts,
		ObservedAt:  now,
		DurationSec: in.DurationSec,
	}
	if s.UserID == "" {
		s.UserID = defaultUser
	}
	if in.ObservedAt != "" {
		t, err := ParseTime(in.ObservedAt)
		if err != nil {
			return nil, err
		}
		s.ObservedAt = t
	}
	due, err := parseOptionalTime(in.DetectedDueDate)
	if err != nil {
		return nil, err
	}
	s.DetectedDueDate = due
	return s, nil
}

type Signal struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Kind       string    `json:"kind"`
	Title      string    `json:"title,omitempty"`
	Concepts   []string  `json:"concepts"`
	ObservedAt time.Time `json:"observed_at"`
}

func FromSignal(s *domain.ActivitySignal) Signal {
	return Signal{
		ID:         s.ID,
		UserID:     s.UserID,
		Kind:       string(s.Kind),
		Title:      s.Title,
		Concepts:   nonNil(s.Concepts),
		ObservedAt: s.ObservedAt,
	}
}
