package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ResourceType discriminates the three kinds of bookable unit.
// Rental drivers come bundled with a car at booking time; professional
// (chauffeur) drivers are booked independently.
type ResourceType string

const (
	ResourceCar                ResourceType = "car"
	ResourceRentalDriver       ResourceType = "rental_driver"
	ResourceProfessionalDriver ResourceType = "professional_driver"
)

// ParseResourceType validates a wire string into a ResourceType.
func ParseResourceType(s string) (ResourceType, error) {
	switch t := ResourceType(s); t {
	case ResourceCar, ResourceRentalDriver, ResourceProfessionalDriver:
		return t, nil
	default:
		return "", fmt.Errorf("%w: unknown resource type %q", ErrValidation, s)
	}
}

// OperationalStatus is the administrative state of a resource, independent of
// booking overlap. suspended makes a resource ineligible for new bookings
// regardless of its calendar.
type OperationalStatus string

const (
	OpAvailable OperationalStatus = "available"
	OpBusy      OperationalStatus = "busy"
	OpOffline   OperationalStatus = "offline"
	OpSuspended OperationalStatus = "suspended"
)

// ParseOperationalStatus validates a wire string into an OperationalStatus.
func ParseOperationalStatus(s string) (OperationalStatus, error) {
	switch st := OperationalStatus(s); st {
	case OpAvailable, OpBusy, OpOffline, OpSuspended:
		return st, nil
	default:
		return "", fmt.Errorf("%w: unknown operational status %q", ErrValidation, s)
	}
}

// RatingSummary is the derived {average, count} aggregate over a resource's
// active reviews. It is a cache, not a source of truth: the rating service
// recomputes it in full from the review table on every review change.
type RatingSummary struct {
	Average float64 `json:"average"` // rounded to one decimal; 0 when Count == 0
	Count   int     `json:"count"`
}

// Resource is a bookable unit: a car, a rental driver, or a professional
// driver. Administrative creation and updates happen outside the booking
// core; RatingSummary is written exclusively by the rating service.
type Resource struct {
	ID                uuid.UUID         `json:"id"`
	Type              ResourceType      `json:"type"`
	Name              string            `json:"name"`
	OperationalStatus OperationalStatus `json:"operational_status"`
	Rating            RatingSummary     `json:"rating"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}
