package domain

import (
	"time"

	"github.com/google/uuid"
)

// ReviewStatus marks whether a review counts toward the rating aggregate.
// Reviews are soft-deactivated rather than deleted so the audit trail
// survives moderation.
type ReviewStatus string

const (
	ReviewActive   ReviewStatus = "active"
	ReviewInactive ReviewStatus = "inactive"
)

// ReviewDraft is the caller-supplied portion of a new review. The rating
// service verifies the referenced booking is completed and belongs to the
// reviewing user before persisting.
type ReviewDraft struct {
	BookingID  uuid.UUID
	ResourceID uuid.UUID
	UserID     uuid.UUID
	Rating     int
	Comment    string
}

// Review is one user's rating and comment for a completed booking of a
// resource. A booking yields at most one review, enforced by a unique index
// on booking_id.
type Review struct {
	ID         uuid.UUID    `json:"id"`
	BookingID  uuid.UUID    `json:"booking_id"`
	ResourceID uuid.UUID    `json:"resource_id"`
	UserID     uuid.UUID    `json:"user_id"`
	Rating     int          `json:"rating"` // 1–5
	Comment    string       `json:"comment,omitempty"`
	Status     ReviewStatus `json:"status"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}
