package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/carbook/backend/internal/domain"
)

// uniqueViolation is the Postgres error code raised when an insert hits a
// unique index — here, the one-review-per-booking constraint.
const uniqueViolation = "23505"

// ReviewRepo defines the persistence operations for Reviews.
type ReviewRepo interface {
	// Create inserts a new review in active status and returns the persisted
	// record. Returns domain.ErrConflict if the booking already has a review.
	Create(ctx context.Context, review domain.Review) (domain.Review, error)

	// GetByID retrieves a single review by its UUID primary key.
	// Returns domain.ErrNotFound if no review with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Review, error)

	// ListActiveByResource returns all active reviews for a resource ordered
	// by created_at ascending. Inactive reviews are excluded — they exist
	// only for audit.
	ListActiveByResource(ctx context.Context, resourceID uuid.UUID) ([]domain.Review, error)

	// Deactivate soft-deletes a review by flipping its status to inactive.
	// Idempotent: deactivating an already-inactive review is a no-op.
	// Returns domain.ErrNotFound if the review does not exist.
	Deactivate(ctx context.Context, id uuid.UUID) (domain.Review, error)
}

// pgReviewRepo is the Postgres implementation of ReviewRepo.
type pgReviewRepo struct {
	db db
}

// NewReviewRepo constructs a ReviewRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewReviewRepo(db db) ReviewRepo {
	return &pgReviewRepo{db: db}
}

const reviewColumns = `id, booking_id, resource_id, user_id, rating, comment, status, created_at, updated_at`

func (r *pgReviewRepo) Create(ctx context.Context, review domain.Review) (domain.Review, error) {
	const q = `
		INSERT INTO reviews (booking_id, resource_id, user_id, rating, comment, status)
		VALUES (@booking_id, @resource_id, @user_id, @rating, @comment, 'active')
		RETURNING ` + reviewColumns

	args := pgx.NamedArgs{
		"booking_id":  review.BookingID,
		"resource_id": review.ResourceID,
		"user_id":     review.UserID,
		"rating":      review.Rating,
		"comment":     review.Comment,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanReview(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.Review{}, fmt.Errorf("repo.ReviewRepo.Create: booking already reviewed: %w", domain.ErrConflict)
		}
		return domain.Review{}, fmt.Errorf("repo.ReviewRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgReviewRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Review, error) {
	const q = `SELECT ` + reviewColumns + ` FROM reviews WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanReview(row)
	if err != nil {
		return domain.Review{}, fmt.Errorf("repo.ReviewRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgReviewRepo) ListActiveByResource(ctx context.Context, resourceID uuid.UUID) ([]domain.Review, error) {
	const q = `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE resource_id = @resource_id AND status = 'active'
		ORDER BY created_at, id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"resource_id": resourceID})
	if err != nil {
		return nil, fmt.Errorf("repo.ReviewRepo.ListActiveByResource: %w", err)
	}
	defer rows.Close()

	var reviews []domain.Review
	for rows.Next() {
		rev, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.ReviewRepo.ListActiveByResource: scan: %w", err)
		}
		reviews = append(reviews, rev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ReviewRepo.ListActiveByResource: rows: %w", err)
	}

	return reviews, nil
}

func (r *pgReviewRepo) Deactivate(ctx context.Context, id uuid.UUID) (domain.Review, error) {
	const q = `
		UPDATE reviews
		SET status     = 'inactive',
		    updated_at = now()
		WHERE id = @id
		RETURNING ` + reviewColumns

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanReview(row)
	if err != nil {
		return domain.Review{}, fmt.Errorf("repo.ReviewRepo.Deactivate: %w", err)
	}
	return result, nil
}

// scanReview maps a single database row into a domain.Review.
func scanReview(s scanner) (domain.Review, error) {
	var (
		rev        domain.Review
		id         pgtype.UUID
		bookingID  pgtype.UUID
		resourceID pgtype.UUID
		userID     pgtype.UUID
		status     string
	)

	err := s.Scan(&id, &bookingID, &resourceID, &userID, &rev.Rating, &rev.Comment,
		&status, &rev.CreatedAt, &rev.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Review{}, domain.ErrNotFound
		}
		return domain.Review{}, err
	}

	rev.ID = uuid.UUID(id.Bytes)
	rev.BookingID = uuid.UUID(bookingID.Bytes)
	rev.ResourceID = uuid.UUID(resourceID.Bytes)
	rev.UserID = uuid.UUID(userID.Bytes)
	rev.Status = domain.ReviewStatus(status)

	return rev, nil
}
