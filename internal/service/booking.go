package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/carbook/backend/internal/domain"
	"github.com/pkordes/carbook/backend/internal/repo"
)

// BookingService drives a booking through its lifecycle. All status changes
// go through the pure domain.Transition function; persistence uses a
// compare-and-swap on the previously-read status so two concurrent events on
// the same booking cannot both apply.
type BookingService struct {
	bookings repo.BookingRepo
	now      func() time.Time
}

// NewBookingService constructs a BookingService backed by the provided repo.
// now defaults to time.Now when nil.
func NewBookingService(bookings repo.BookingRepo, now func() time.Time) *BookingService {
	if now == nil {
		now = time.Now
	}
	return &BookingService{bookings: bookings, now: now}
}

// Transition applies a lifecycle event to the booking and persists the
// resulting status. On a rejected event the stored booking is untouched and
// domain.ErrRejectedTransition is returned. If another writer moved the
// status between read and write, domain.ErrConflict is returned and the
// caller may re-read and retry the event.
func (s *BookingService) Transition(ctx context.Context, id uuid.UUID, event domain.BookingEvent) (domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.Transition: %w", err)
	}

	next, err := domain.Transition(booking, event, s.now())
	if err != nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.Transition: %w", err)
	}

	updated, err := s.bookings.UpdateStatus(ctx, id, booking.Status, next)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.Transition: %w", err)
	}
	return updated, nil
}

// GetByID returns a single booking by ID.
func (s *BookingService) GetByID(ctx context.Context, id uuid.UUID) (domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.GetByID: %w", err)
	}
	return booking, nil
}

// List returns a page of bookings plus the unpaginated total.
// Always returns a non-nil slice so callers can safely range over it.
func (s *BookingService) List(ctx context.Context, filter domain.BookingFilter, p domain.PaginationParams) ([]domain.Booking, int64, error) {
	bookings, total, err := s.bookings.List(ctx, filter, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.BookingService.List: %w", err)
	}
	if bookings == nil {
		bookings = []domain.Booking{}
	}
	return bookings, total, nil
}
