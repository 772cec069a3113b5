package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. inverted window, rating out of range).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrConflict is returned when a write would violate a uniqueness rule:
// a blocking booking already overlaps the requested window, or a booking
// already has a review. Handlers should map this to HTTP 409.
// Safe to retry against a different resource or window, never the same pair.
var ErrConflict = errors.New("conflict")

// ErrRejectedTransition is returned when a lifecycle event is not valid for
// the booking's current status. Deterministic; never retried.
var ErrRejectedTransition = errors.New("rejected transition")

// ErrLockTimeout is returned when per-resource serialization could not be
// acquired within the configured wait. Transient; callers may retry the whole
// operation with backoff. Handlers should map this to HTTP 503.
var ErrLockTimeout = errors.New("lock wait timeout")

// ConflictError reports a blocking overlap found at reserve time. It carries
// the resource and requested window so callers can pick an alternative.
// errors.Is(err, ErrConflict) is true for any ConflictError.
type ConflictError struct {
	ResourceID uuid.UUID
	Window     Window
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict: resource %s is booked within [%s, %s)",
		e.ResourceID, e.Window.Start.Format(time.RFC3339), e.Window.End.Format(time.RFC3339))
}

// Unwrap makes errors.Is(err, ErrConflict) work on wrapped ConflictErrors.
func (e *ConflictError) Unwrap() error { return ErrConflict }
