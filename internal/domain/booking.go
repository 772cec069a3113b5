package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// BookingStatus is the lifecycle state of a booking.
//
// The main line runs pending_payment → confirmed → active → in_progress →
// completed. cancelled, license_required, and verification_pending are side
// branches reachable from any non-terminal state; completed and cancelled are
// terminal. Terminal bookings are retained for audit, never deleted.
type BookingStatus string

const (
	StatusPendingPayment      BookingStatus = "pending_payment"
	StatusConfirmed           BookingStatus = "confirmed"
	StatusActive              BookingStatus = "active"
	StatusInProgress          BookingStatus = "in_progress"
	StatusCompleted           BookingStatus = "completed"
	StatusCancelled           BookingStatus = "cancelled"
	StatusLicenseRequired     BookingStatus = "license_required"
	StatusVerificationPending BookingStatus = "verification_pending"
)

// BlockingStatuses are the statuses that count toward overlap conflicts,
// in the order the booking repo binds them into its IN clause.
var BlockingStatuses = []BookingStatus{
	StatusPendingPayment,
	StatusConfirmed,
	StatusActive,
	StatusInProgress,
	StatusLicenseRequired,
	StatusVerificationPending,
}

// Terminal reports whether no further lifecycle events apply.
func (s BookingStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Blocking reports whether a booking in this status counts toward overlap
// conflicts, ignoring the pending-payment grace period. Use
// Booking.BlockingAt when a wall-clock decision is needed.
func (s BookingStatus) Blocking() bool {
	switch s {
	case StatusCompleted, StatusCancelled:
		return false
	default:
		return true
	}
}

// BookingEvent is a lifecycle event applied through Transition.
type BookingEvent string

const (
	// EventConfirm records successful payment: pending_payment → confirmed.
	EventConfirm BookingEvent = "confirm"
	// EventStart hands the car over at pickup: confirmed → active.
	// Rejected while the booking window has not opened yet.
	EventStart BookingEvent = "start"
	// EventBegin marks the rental as underway: active → in_progress.
	EventBegin BookingEvent = "begin"
	// EventComplete closes out the rental: active | in_progress → completed.
	EventComplete BookingEvent = "complete"
	// EventCancel aborts any non-terminal booking.
	EventCancel BookingEvent = "cancel"
	// EventFlagLicense parks a non-terminal booking until a valid licence is shown.
	EventFlagLicense BookingEvent = "flag_license"
	// EventHold parks a non-terminal booking pending identity verification.
	EventHold BookingEvent = "hold"
	// EventResolve clears a license_required or verification_pending hold,
	// returning the booking to confirmed.
	EventResolve BookingEvent = "resolve"
)

// Booking is a reservation of one car and, optionally, one driver for the
// half-open window [PickupAt, ReturnAt). Rental drivers come bundled with the
// car; professional drivers are booked independently but share the same
// conflict rules. Status is mutated only through Transition.
type Booking struct {
	ID            uuid.UUID      `json:"id"`
	CarID         uuid.UUID      `json:"car_id"`
	DriverID      *uuid.UUID     `json:"driver_id,omitempty"` // nil when the customer self-drives
	UserID        uuid.UUID      `json:"user_id"`
	PickupAt      time.Time      `json:"pickup_at"`
	ReturnAt      time.Time      `json:"return_at"`
	Status        BookingStatus  `json:"status"`
	TotalPrice    int64          `json:"total_price"`    // minor currency units
	DepositAmount int64          `json:"deposit_amount"` // minor currency units
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// Window returns the booking's reservation window.
func (b Booking) Window() Window {
	return Window{Start: b.PickupAt, End: b.ReturnAt}
}

// BlockingAt reports whether the booking counts toward overlap conflicts as
// of now. A booking stuck in pending_payment for longer than grace is treated
// as non-blocking even though its stored status is unchanged — an abandoned
// checkout must not starve a resource. grace <= 0 disables the cutoff.
func (b Booking) BlockingAt(now time.Time, grace time.Duration) bool {
	if !b.Status.Blocking() {
		return false
	}
	if b.Status == StatusPendingPayment && grace > 0 && now.Sub(b.CreatedAt) > grace {
		return false
	}
	return true
}

// Transition applies a lifecycle event to the booking's current status and
// returns the next status. It is a pure function: no stored state is touched.
// Returns ErrRejectedTransition when the event is not valid for the current
// status, or when EventStart fires before the booking window has opened.
func Transition(b Booking, event BookingEvent, now time.Time) (BookingStatus, error) {
	if b.Status.Terminal() {
		return "", rejected(b.Status, event)
	}

	switch event {
	case EventCancel:
		return StatusCancelled, nil
	case EventFlagLicense:
		return StatusLicenseRequired, nil
	case EventHold:
		return StatusVerificationPending, nil
	case EventConfirm:
		if b.Status != StatusPendingPayment {
			return "", rejected(b.Status, event)
		}
		return StatusConfirmed, nil
	case EventStart:
		if b.Status != StatusConfirmed {
			return "", rejected(b.Status, event)
		}
		if now.Before(b.PickupAt) {
			return "", fmt.Errorf("%w: cannot start before pickup time %s",
				ErrRejectedTransition, b.PickupAt.Format(time.RFC3339))
		}
		return StatusActive, nil
	case EventBegin:
		if b.Status != StatusActive {
			return "", rejected(b.Status, event)
		}
		return StatusInProgress, nil
	case EventComplete:
		if b.Status != StatusActive && b.Status != StatusInProgress {
			return "", rejected(b.Status, event)
		}
		return StatusCompleted, nil
	case EventResolve:
		if b.Status != StatusLicenseRequired && b.Status != StatusVerificationPending {
			return "", rejected(b.Status, event)
		}
		return StatusConfirmed, nil
	default:
		return "", fmt.Errorf("%w: unknown event %q", ErrRejectedTransition, event)
	}
}

func rejected(s BookingStatus, e BookingEvent) error {
	return fmt.Errorf("%w: event %q is not valid in status %q", ErrRejectedTransition, e, s)
}

// ReservationDraft is the caller-supplied portion of a new booking. The
// availability engine validates it, re-checks conflicts under the resource
// locks, and persists it as a pending_payment booking.
type ReservationDraft struct {
	CarID         uuid.UUID
	DriverID      *uuid.UUID
	UserID        uuid.UUID
	PickupAt      time.Time
	ReturnAt      time.Time
	TotalPrice    int64
	DepositAmount int64
}

// BookingFilter narrows booking listings. Nil fields match everything.
type BookingFilter struct {
	UserID *uuid.UUID
	CarID  *uuid.UUID
}

// BookingWithNames is a booking joined with its car and driver display names,
// used by the export feature. DriverName is empty for self-drive bookings.
type BookingWithNames struct {
	Booking    Booking
	CarName    string
	DriverName string
}
