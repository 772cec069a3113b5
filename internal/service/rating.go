package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"

	"github.com/pkordes/carbook/backend/internal/domain"
	"github.com/pkordes/carbook/backend/internal/lock"
	"github.com/pkordes/carbook/backend/internal/repo"
)

// recomputeAttempts bounds how many times a failed recompute is retried
// before the failure is logged and dropped. The next review mutation on the
// resource will recompute the full aggregate anyway.
const recomputeAttempts = 4

// RatingService owns the review lifecycle and the derived rating aggregate.
// The aggregate is always recomputed in full from the active reviews rather
// than adjusted incrementally, which makes recompute idempotent and safe
// under at-least-once triggering.
type RatingService struct {
	reviews   repo.ReviewRepo
	resources repo.ResourceRepo
	bookings  repo.BookingRepo
	locks     *lock.Keyed
	log       *slog.Logger
}

// NewRatingService constructs a RatingService backed by the provided repos
// and lock table. The lock table should be the same one the availability
// engine uses, keyed by resource id.
func NewRatingService(reviews repo.ReviewRepo, resources repo.ResourceRepo, bookings repo.BookingRepo, locks *lock.Keyed, log *slog.Logger) *RatingService {
	if log == nil {
		log = slog.Default()
	}
	return &RatingService{reviews: reviews, resources: resources, bookings: bookings, locks: locks, log: log}
}

// AddReview validates and persists a review for a completed booking, then
// recomputes the resource's rating summary. A recompute failure is logged,
// not surfaced — the review itself is already durable and the aggregate
// heals on the next recompute.
func (s *RatingService) AddReview(ctx context.Context, draft domain.ReviewDraft) (domain.Review, error) {
	if draft.Rating < 1 || draft.Rating > 5 {
		return domain.Review{}, fmt.Errorf("%w: rating must be between 1 and 5", domain.ErrValidation)
	}

	booking, err := s.bookings.GetByID(ctx, draft.BookingID)
	if err != nil {
		return domain.Review{}, fmt.Errorf("service.RatingService.AddReview: %w", err)
	}
	if booking.Status != domain.StatusCompleted {
		return domain.Review{}, fmt.Errorf("%w: only completed bookings can be reviewed", domain.ErrValidation)
	}
	if booking.UserID != draft.UserID {
		return domain.Review{}, fmt.Errorf("%w: booking belongs to a different user", domain.ErrValidation)
	}
	if !bookingReferences(booking, draft.ResourceID) {
		return domain.Review{}, fmt.Errorf("%w: resource was not part of this booking", domain.ErrValidation)
	}

	review, err := s.reviews.Create(ctx, domain.Review{
		BookingID:  draft.BookingID,
		ResourceID: draft.ResourceID,
		UserID:     draft.UserID,
		Rating:     draft.Rating,
		Comment:    draft.Comment,
	})
	if err != nil {
		return domain.Review{}, fmt.Errorf("service.RatingService.AddReview: %w", err)
	}

	s.recomputeLogged(ctx, review.ResourceID)
	return review, nil
}

// DeactivateReview soft-deletes a review and recomputes the resource's
// rating summary so the deactivated rating stops counting.
func (s *RatingService) DeactivateReview(ctx context.Context, id uuid.UUID) (domain.Review, error) {
	review, err := s.reviews.Deactivate(ctx, id)
	if err != nil {
		return domain.Review{}, fmt.Errorf("service.RatingService.DeactivateReview: %w", err)
	}

	s.recomputeLogged(ctx, review.ResourceID)
	return review, nil
}

// Recompute derives the resource's {average, count} from its active reviews
// and writes it back. The whole derivation runs under the resource's lock so
// two concurrent review mutations cannot race to a stale final value, and it
// is retried with exponential backoff on storage errors. Idempotent: calling
// it again with no intervening review change writes the same summary.
func (s *RatingService) Recompute(ctx context.Context, resourceID uuid.UUID) error {
	release, err := s.locks.Acquire(ctx, resourceID)
	if err != nil {
		return fmt.Errorf("service.RatingService.Recompute: %w", err)
	}
	defer release()

	backoff := retry.WithMaxRetries(recomputeAttempts, retry.NewExponential(100*time.Millisecond))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		reviews, err := s.reviews.ListActiveByResource(ctx, resourceID)
		if err != nil {
			return retry.RetryableError(err)
		}

		summary := summarize(reviews)
		if err := s.resources.UpdateRatingSummary(ctx, resourceID, summary); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return err // resource gone; retrying cannot help
			}
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("service.RatingService.Recompute: %w", err)
	}
	return nil
}

// recomputeLogged runs Recompute and logs any terminal failure instead of
// returning it. Review writes must not fail because the aggregate write did.
func (s *RatingService) recomputeLogged(ctx context.Context, resourceID uuid.UUID) {
	if err := s.Recompute(ctx, resourceID); err != nil {
		s.log.ErrorContext(ctx, "rating recompute failed",
			"resource_id", resourceID.String(),
			"error", err,
		)
	}
}

// summarize computes the rating aggregate over the given reviews.
// The average is rounded to one decimal; an empty set yields {0, 0}.
func summarize(reviews []domain.Review) domain.RatingSummary {
	if len(reviews) == 0 {
		return domain.RatingSummary{}
	}
	var sum int
	for _, r := range reviews {
		sum += r.Rating
	}
	avg := float64(sum) / float64(len(reviews))
	return domain.RatingSummary{
		Average: math.Round(avg*10) / 10,
		Count:   len(reviews),
	}
}

// bookingReferences reports whether the resource took part in the booking,
// either as the car or as the driver.
func bookingReferences(b domain.Booking, resourceID uuid.UUID) bool {
	if b.CarID == resourceID {
		return true
	}
	return b.DriverID != nil && *b.DriverID == resourceID
}
