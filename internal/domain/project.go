package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrMissingTitle       = errors.New("title is required")
	ErrMissingDescription = errors.New("description is required")
	ErrMissingDueDate     = errors.New("due date is required")
	ErrInvalidComplexity  = errors.New("complexity must be one of low, medium, high, very-high")
	ErrNonPositiveHours   = errors.New("estimated hours must be positive")
)

type Project struct {
	ID             string
	UserID         string
	Title          string
	Description    string
	DueDate        time.Time
	Complexity     Complexity
	EstimatedHours *float64
	Status         ProjectStatus
	Tags           []string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// EffectiveComplexity returns the project's complexity, defaulting to medium.
func (p *Project) EffectiveComplexity() Complexity {
	if p.Complexity == "" {
		return ComplexityMedium
	}
	return p.Complexity
}

// EffectiveHours returns the explicit estimate when present, otherwise the
// complexity lookup.
func (p *Project) EffectiveHours() float64 {
	if p.EstimatedHours != nil {
		return *p.EstimatedHours
	}
	h, _ := p.EffectiveComplexity().DefaultHours()
	return h
}

// Validate rejects drafts that cannot be scored. Project drafts from any
// source, generated ones included, go through this check.
func (p *Project) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return ErrMissingTitle
	}
	if strings.TrimSpace(p.Description) == "" {
		return ErrMissingDescription
	}
	if p.DueDate.IsZero() {
		return ErrMissingDueDate
	}
	if !p.EffectiveComplexity().Valid() {
		return fmt.Errorf("%w: got %q", ErrInvalidComplexity, p.Complexity)
	}
	if p.EffectiveHours() <= 0 {
		return ErrNonPositiveHours
	}
	return nil
}

// HasTag reports whether any of the project's tags equals one of names,
// ignoring case.
func (p *Project) HasTag(names ...string) bool {
	for _, t := range p.Tags {
		for _, n := range names {
			if strings.EqualFold(strings.TrimSpace(t), n) {
				return true
			}
		}
	}
	return false
}

// DisplayID truncates ID to 8 characters for tables.
func (p *Project) DisplayID() string {
	if len(p.ID) >= 8 {
		return p.ID[:8]
	}
	return p.ID
}
