package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/carbook/backend/internal/domain"
)

// BookingRepo defines the persistence operations for Bookings.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the availability engine to be unit-tested with
// a mock.
type BookingRepo interface {
	// Create inserts a new booking and returns the persisted record (with
	// DB-generated id, created_at, and updated_at populated).
	Create(ctx context.Context, booking domain.Booking) (domain.Booking, error)

	// GetByID retrieves a single booking by its UUID primary key.
	// Returns domain.ErrNotFound if no booking with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Booking, error)

	// ListBlockingOverlaps returns the bookings referencing resourceID (as
	// car or driver) that are effectively blocking as of asOf and whose
	// window overlaps w. A pending_payment booking created before
	// asOf - grace is excluded even though its stored status is unchanged.
	// excludeID, when non-nil, removes that booking from consideration —
	// used when re-validating a booking's own window during modification.
	ListBlockingOverlaps(ctx context.Context, resourceID uuid.UUID, w domain.Window, asOf time.Time, grace time.Duration, excludeID *uuid.UUID) ([]domain.Booking, error)

	// UpdateStatus moves a booking from one status to another as a single
	// compare-and-swap: the update applies only while the stored status
	// still equals from. Returns domain.ErrConflict if the booking exists
	// but its status has moved on, domain.ErrNotFound if it does not exist.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.BookingStatus) (domain.Booking, error)

	// List returns a page of bookings ordered by created_at descending,
	// optionally filtered by user and/or car, plus the unpaginated total.
	// The total comes from a window count over the same query, so a page
	// past the last row returns no bookings and a total of zero, exactly
	// like an empty result. Callers needing the real total for an
	// out-of-range page must re-query from page one.
	List(ctx context.Context, filter domain.BookingFilter, p domain.PaginationParams) ([]domain.Booking, int64, error)

	// ListWithNames returns every booking joined with its car and driver
	// names, ordered by created_at ascending, for the export feature.
	ListWithNames(ctx context.Context) ([]domain.BookingWithNames, error)
}

// pgBookingRepo is the Postgres implementation of BookingRepo.
type pgBookingRepo struct {
	db db
}

// NewBookingRepo constructs a BookingRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewBookingRepo(db db) BookingRepo {
	return &pgBookingRepo{db: db}
}

const bookingColumns = `id, car_id, driver_id, user_id, pickup_at, return_at,
	status, total_price, deposit_amount, created_at, updated_at`

func (r *pgBookingRepo) Create(ctx context.Context, booking domain.Booking) (domain.Booking, error) {
	const q = `
		INSERT INTO bookings (car_id, driver_id, user_id, pickup_at, return_at, status, total_price, deposit_amount)
		VALUES (@car_id, @driver_id, @user_id, @pickup_at, @return_at, @status, @total_price, @deposit_amount)
		RETURNING ` + bookingColumns

	args := pgx.NamedArgs{
		"car_id":         booking.CarID,
		"driver_id":      booking.DriverID, // nil becomes NULL
		"user_id":        booking.UserID,
		"pickup_at":      booking.PickupAt,
		"return_at":      booking.ReturnAt,
		"status":         string(booking.Status),
		"total_price":    booking.TotalPrice,
		"deposit_amount": booking.DepositAmount,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanBooking(row)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgBookingRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanBooking(row)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.GetByID: %w", err)
	}
	return result, nil
}

// ListBlockingOverlaps is the availability engine's core query. The overlap
// predicate is the half-open interval test: pickup_at < window end AND
// return_at > window start, so touching bookings never match.
func (r *pgBookingRepo) ListBlockingOverlaps(ctx context.Context, resourceID uuid.UUID, w domain.Window, asOf time.Time, grace time.Duration, excludeID *uuid.UUID) ([]domain.Booking, error) {
	const q = `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE (car_id = @resource_id OR driver_id = @resource_id)
		  AND status = ANY(@blocking)
		  AND NOT (status = 'pending_payment' AND created_at < @stale_before)
		  AND pickup_at < @window_end
		  AND return_at > @window_start
		  AND (@exclude_id::uuid IS NULL OR id <> @exclude_id)
		ORDER BY pickup_at`

	blocking := make([]string, len(domain.BlockingStatuses))
	for i, s := range domain.BlockingStatuses {
		blocking[i] = string(s)
	}

	// With grace disabled no pending_payment booking is ever stale; the zero
	// time predates every created_at.
	var staleBefore time.Time
	if grace > 0 {
		staleBefore = asOf.Add(-grace)
	}

	args := pgx.NamedArgs{
		"resource_id":  resourceID,
		"blocking":     blocking,
		"stale_before": staleBefore,
		"window_start": w.Start,
		"window_end":   w.End,
		"exclude_id":   excludeID,
	}

	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, fmt.Errorf("repo.BookingRepo.ListBlockingOverlaps: %w", err)
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.BookingRepo.ListBlockingOverlaps: scan: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.BookingRepo.ListBlockingOverlaps: rows: %w", err)
	}

	return bookings, nil
}

func (r *pgBookingRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.BookingStatus) (domain.Booking, error) {
	const q = `
		UPDATE bookings
		SET status     = @to,
		    updated_at = now()
		WHERE id = @id AND status = @from
		RETURNING ` + bookingColumns

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "from": string(from), "to": string(to)})
	result, err := scanBooking(row)
	if err == nil {
		return result, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.UpdateStatus: %w", err)
	}

	// No row matched: either the booking is gone or another writer moved its
	// status between our read and this update.
	if _, getErr := r.GetByID(ctx, id); getErr != nil {
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.UpdateStatus: %w", domain.ErrNotFound)
	}
	return domain.Booking{}, fmt.Errorf("repo.BookingRepo.UpdateStatus: status changed concurrently: %w", domain.ErrConflict)
}

func (r *pgBookingRepo) List(ctx context.Context, filter domain.BookingFilter, p domain.PaginationParams) ([]domain.Booking, int64, error) {
	const q = `
		SELECT ` + bookingColumns + `, count(*) OVER () AS total
		FROM bookings
		WHERE (@user_id::uuid IS NULL OR user_id = @user_id)
		  AND (@car_id::uuid IS NULL OR car_id = @car_id)
		ORDER BY created_at DESC, id
		LIMIT @limit OFFSET @offset`

	args := pgx.NamedArgs{
		"user_id": filter.UserID,
		"car_id":  filter.CarID,
		"limit":   p.Limit,
		"offset":  p.Offset(),
	}

	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.BookingRepo.List: %w", err)
	}
	defer rows.Close()

	var (
		bookings []domain.Booking
		total    int64
	)
	for rows.Next() {
		b, n, err := scanBookingWithTotal(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("repo.BookingRepo.List: scan: %w", err)
		}
		bookings = append(bookings, b)
		total = n
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.BookingRepo.List: rows: %w", err)
	}

	return bookings, total, nil
}

func (r *pgBookingRepo) ListWithNames(ctx context.Context) ([]domain.BookingWithNames, error) {
	const q = `
		SELECT b.id, b.car_id, b.driver_id, b.user_id, b.pickup_at, b.return_at,
		       b.status, b.total_price, b.deposit_amount, b.created_at, b.updated_at,
		       c.name AS car_name, coalesce(d.name, '') AS driver_name
		FROM bookings b
		JOIN resources c ON c.id = b.car_id
		LEFT JOIN resources d ON d.id = b.driver_id
		ORDER BY b.created_at, b.id`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.BookingRepo.ListWithNames: %w", err)
	}
	defer rows.Close()

	var out []domain.BookingWithNames
	for rows.Next() {
		var (
			row      domain.BookingWithNames
			id       pgtype.UUID
			carID    pgtype.UUID
			driverID pgtype.UUID
			userID   pgtype.UUID
			status   string
		)
		err := rows.Scan(&id, &carID, &driverID, &userID, &row.Booking.PickupAt, &row.Booking.ReturnAt,
			&status, &row.Booking.TotalPrice, &row.Booking.DepositAmount,
			&row.Booking.CreatedAt, &row.Booking.UpdatedAt, &row.CarName, &row.DriverName)
		if err != nil {
			return nil, fmt.Errorf("repo.BookingRepo.ListWithNames: scan: %w", err)
		}
		row.Booking.ID = uuid.UUID(id.Bytes)
		row.Booking.CarID = uuid.UUID(carID.Bytes)
		row.Booking.UserID = uuid.UUID(userID.Bytes)
		if driverID.Valid {
			d := uuid.UUID(driverID.Bytes)
			row.Booking.DriverID = &d
		}
		row.Booking.Status = domain.BookingStatus(status)
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.BookingRepo.ListWithNames: rows: %w", err)
	}

	return out, nil
}

// scanBooking maps a single database row into a domain.Booking.
// It handles the UUID and nullable driver_id conversions.
func scanBooking(s scanner) (domain.Booking, error) {
	var (
		b        domain.Booking
		id       pgtype.UUID
		carID    pgtype.UUID
		driverID pgtype.UUID
		userID   pgtype.UUID
		status   string
	)

	err := s.Scan(&id, &carID, &driverID, &userID, &b.PickupAt, &b.ReturnAt,
		&status, &b.TotalPrice, &b.DepositAmount, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Booking{}, domain.ErrNotFound
		}
		return domain.Booking{}, err
	}

	b.ID = uuid.UUID(id.Bytes)
	b.CarID = uuid.UUID(carID.Bytes)
	b.UserID = uuid.UUID(userID.Bytes)
	if driverID.Valid {
		d := uuid.UUID(driverID.Bytes)
		b.DriverID = &d
	}
	b.Status = domain.BookingStatus(status)

	return b, nil
}

// scanBookingWithTotal scans a booking row carrying a trailing window-count
// column, as produced by List's count(*) OVER ().
func scanBookingWithTotal(s scanner) (domain.Booking, int64, error) {
	var (
		b        domain.Booking
		id       pgtype.UUID
		carID    pgtype.UUID
		driverID pgtype.UUID
		userID   pgtype.UUID
		status   string
		total    int64
	)

	err := s.Scan(&id, &carID, &driverID, &userID, &b.PickupAt, &b.ReturnAt,
		&status, &b.TotalPrice, &b.DepositAmount, &b.CreatedAt, &b.UpdatedAt, &total)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Booking{}, 0, domain.ErrNotFound
		}
		return domain.Booking{}, 0, err
	}

	b.ID = uuid.UUID(id.Bytes)
	b.CarID = uuid.UUID(carID.Bytes)
	b.UserID = uuid.UUID(userID.Bytes)
	if driverID.Valid {
		d := uuid.UUID(driverID.Bytes)
		b.DriverID = &d
	}
	b.Status = domain.BookingStatus(status)

	return b, total, nil
}
