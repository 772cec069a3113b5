// Package service contains the business logic for the Carbook API.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here — services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/pkordes/carbook/backend/internal/domain"
	"github.com/pkordes/carbook/backend/internal/lock"
	"github.com/pkordes/carbook/backend/internal/repo"
)

// candidateProbes bounds how many per-candidate overlap queries run at once
// during an availability check.
const candidateProbes = 8

// AvailabilityConfig tunes the availability engine.
type AvailabilityConfig struct {
	// PendingGrace is how long a pending_payment booking blocks its
	// resources before it is treated as abandoned. Zero disables the cutoff.
	PendingGrace time.Duration

	// LockWait bounds how long Reserve waits for per-resource serialization
	// before failing with domain.ErrLockTimeout.
	LockWait time.Duration

	// Now supplies the current time; defaults to time.Now. Tests inject a
	// fixed clock here.
	Now func() time.Time
}

// AvailabilityService is the availability engine: it answers "which resources
// are free for this window" and owns the guarded create path for bookings.
type AvailabilityService struct {
	resources repo.ResourceRepo
	bookings  repo.BookingRepo
	locks     *lock.Keyed
	cfg       AvailabilityConfig
}

// NewAvailabilityService constructs an AvailabilityService backed by the
// provided repos and lock table.
func NewAvailabilityService(resources repo.ResourceRepo, bookings repo.BookingRepo, locks *lock.Keyed, cfg AvailabilityConfig) *AvailabilityService {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.LockWait <= 0 {
		cfg.LockWait = 5 * time.Second
	}
	return &AvailabilityService{resources: resources, bookings: bookings, locks: locks, cfg: cfg}
}

// CheckAvailability returns the ids of all resources of the given type that
// have no effectively-blocking booking overlapping window, in stable
// (created_at, id) order. Candidates are probed concurrently but the
// directory order is preserved, so repeated identical queries are
// deterministic.
//
// The result is a hint for search and listing: it carries no reservation
// guarantee. The time-of-check/time-of-use gap is closed inside Reserve.
// excludeBookingID removes one booking from consideration, for re-validating
// an existing booking's own window during modification.
func (s *AvailabilityService) CheckAvailability(ctx context.Context, rtype domain.ResourceType, window domain.Window, excludeBookingID *uuid.UUID) ([]uuid.UUID, error) {
	if _, err := domain.ParseResourceType(string(rtype)); err != nil {
		return nil, err
	}
	if _, err := domain.NewWindow(window.Start, window.End); err != nil {
		return nil, err
	}

	candidates, err := s.resources.ListCandidates(ctx, rtype, false)
	if err != nil {
		return nil, fmt.Errorf("service.AvailabilityService.CheckAvailability: %w", err)
	}

	now := s.cfg.Now()
	free := make([]bool, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(candidateProbes)
	for i, candidate := range candidates {
		g.Go(func() error {
			overlaps, err := s.bookings.ListBlockingOverlaps(gctx, candidate.ID, window, now, s.cfg.PendingGrace, excludeBookingID)
			if err != nil {
				return err
			}
			free[i] = len(overlaps) == 0
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("service.AvailabilityService.CheckAvailability: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(candidates))
	for i, candidate := range candidates {
		if free[i] {
			ids = append(ids, candidate.ID)
		}
	}
	return ids, nil
}

// Reserve creates a booking in pending_payment if and only if no blocking
// overlap exists at the moment of persistence. The overlap re-check and the
// insert happen under per-resource locks, so concurrent Reserve calls for the
// same car or driver are linearized: exactly one wins, the rest observe its
// booking as a conflict.
//
// Returns a *domain.ConflictError naming the contested resource, or
// domain.ErrLockTimeout when serialization could not be acquired in time —
// the latter leaves no partial booking and is safe to retry with backoff.
func (s *AvailabilityService) Reserve(ctx context.Context, draft domain.ReservationDraft) (domain.Booking, error) {
	window, err := validateDraft(draft)
	if err != nil {
		return domain.Booking{}, err
	}

	keys, err := s.resolveDraftResources(ctx, draft)
	if err != nil {
		return domain.Booking{}, err
	}

	lockCtx, cancel := context.WithTimeout(ctx, s.cfg.LockWait)
	defer cancel()
	release, err := s.locks.AcquireAll(lockCtx, keys...)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("service.AvailabilityService.Reserve: %w", err)
	}
	defer release()

	now := s.cfg.Now()
	for _, key := range keys {
		overlaps, err := s.bookings.ListBlockingOverlaps(ctx, key, window, now, s.cfg.PendingGrace, nil)
		if err != nil {
			return domain.Booking{}, fmt.Errorf("service.AvailabilityService.Reserve: %w", err)
		}
		if len(overlaps) > 0 {
			return domain.Booking{}, &domain.ConflictError{ResourceID: key, Window: window}
		}
	}

	booking := domain.Booking{
		CarID:         draft.CarID,
		DriverID:      draft.DriverID,
		UserID:        draft.UserID,
		PickupAt:      window.Start,
		ReturnAt:      window.End,
		Status:        domain.StatusPendingPayment,
		TotalPrice:    draft.TotalPrice,
		DepositAmount: draft.DepositAmount,
	}
	created, err := s.bookings.Create(ctx, booking)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("service.AvailabilityService.Reserve: %w", err)
	}
	return created, nil
}

// resolveDraftResources verifies the draft's car and optional driver exist,
// are of the right type, and are not suspended. It returns the lock keys for
// the reservation: the car id plus the driver id when one is booked.
// Suspension is reported as a conflict — the resource is administratively
// unavailable, which to the caller is the same "not available" outcome.
func (s *AvailabilityService) resolveDraftResources(ctx context.Context, draft domain.ReservationDraft) ([]uuid.UUID, error) {
	window := domain.Window{Start: draft.PickupAt, End: draft.ReturnAt}

	car, err := s.resources.GetByID(ctx, draft.CarID)
	if err != nil {
		return nil, fmt.Errorf("service.AvailabilityService.Reserve: car: %w", err)
	}
	if car.Type != domain.ResourceCar {
		return nil, fmt.Errorf("%w: resource %s is not a car", domain.ErrValidation, car.ID)
	}
	if car.OperationalStatus == domain.OpSuspended {
		return nil, &domain.ConflictError{ResourceID: car.ID, Window: window}
	}

	keys := []uuid.UUID{car.ID}
	if draft.DriverID == nil {
		return keys, nil
	}

	driver, err := s.resources.GetByID(ctx, *draft.DriverID)
	if err != nil {
		return nil, fmt.Errorf("service.AvailabilityService.Reserve: driver: %w", err)
	}
	if driver.Type != domain.ResourceRentalDriver && driver.Type != domain.ResourceProfessionalDriver {
		return nil, fmt.Errorf("%w: resource %s is not a driver", domain.ErrValidation, driver.ID)
	}
	if driver.OperationalStatus == domain.OpSuspended {
		return nil, &domain.ConflictError{ResourceID: driver.ID, Window: window}
	}
	return append(keys, driver.ID), nil
}

// validateDraft enforces the reservation business rules and returns the
// validated window. All violations are reported together.
func validateDraft(draft domain.ReservationDraft) (domain.Window, error) {
	var errs error
	if draft.CarID == uuid.Nil {
		errs = multierr.Append(errs, fmt.Errorf("%w: car_id is required", domain.ErrValidation))
	}
	if draft.UserID == uuid.Nil {
		errs = multierr.Append(errs, fmt.Errorf("%w: user_id is required", domain.ErrValidation))
	}
	if draft.TotalPrice < 0 {
		errs = multierr.Append(errs, fmt.Errorf("%w: total_price must not be negative", domain.ErrValidation))
	}
	if draft.DepositAmount < 0 {
		errs = multierr.Append(errs, fmt.Errorf("%w: deposit_amount must not be negative", domain.ErrValidation))
	}

	window, err := domain.NewWindow(draft.PickupAt, draft.ReturnAt)
	if err != nil {
		errs = multierr.Append(errs, err)
	}

	if errs != nil {
		return domain.Window{}, errs
	}
	return window, nil
}
