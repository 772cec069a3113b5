// Package domain contains the core data types for the Carbook API.
// This package has zero external dependencies beyond uuid and is imported by
// every other internal package (repo, service, handler).
package domain

import (
	"fmt"
	"time"
)

// Window is a half-open time interval [Start, End) representing the active
// period of a reservation. A booking ending exactly when another begins does
// not conflict with it — back-to-back bookings are always allowed.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewWindow validates and builds a Window.
// Returns ErrValidation when end is not strictly after start, so zero-length
// and inverted windows never reach overlap logic.
func NewWindow(start, end time.Time) (Window, error) {
	if !end.After(start) {
		return Window{}, fmt.Errorf("%w: window end must be after start", ErrValidation)
	}
	return Window{Start: start, End: end}, nil
}

// Overlaps reports whether two half-open windows intersect.
// The predicate is exactly a.Start < b.End && b.Start < a.End; windows that
// merely touch (a.End == b.Start) do not overlap.
func (w Window) Overlaps(other Window) bool {
	return w.Start.Before(other.End) && other.Start.Before(w.End)
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Duration returns the length of the window.
func (w Window) Duration() time.Duration {
	return w.End.Sub(w.Start)
}
