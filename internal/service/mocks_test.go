package service_test

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/carbook/backend/internal/domain"
	"github.com/pkordes/carbook/backend/internal/repo"
)

// Hand-written test doubles for the repo interfaces. Each method is a
// function field — set only the ones your test needs; an unset method panics,
// which surfaces unexpected calls immediately.

type mockBookingRepo struct {
	create              func(ctx context.Context, booking domain.Booking) (domain.Booking, error)
	getByID             func(ctx context.Context, id uuid.UUID) (domain.Booking, error)
	listBlockingOverlap func(ctx context.Context, resourceID uuid.UUID, w domain.Window, asOf time.Time, grace time.Duration, excludeID *uuid.UUID) ([]domain.Booking, error)
	updateStatus        func(ctx context.Context, id uuid.UUID, from, to domain.BookingStatus) (domain.Booking, error)
	list                func(ctx context.Context, filter domain.BookingFilter, p domain.PaginationParams) ([]domain.Booking, int64, error)
	listWithNames       func(ctx context.Context) ([]domain.BookingWithNames, error)
}

func (m *mockBookingRepo) Create(ctx context.Context, booking domain.Booking) (domain.Booking, error) {
	return m.create(ctx, booking)
}
func (m *mockBookingRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Booking, error) {
	return m.getByID(ctx, id)
}
func (m *mockBookingRepo) ListBlockingOverlaps(ctx context.Context, resourceID uuid.UUID, w domain.Window, asOf time.Time, grace time.Duration, excludeID *uuid.UUID) ([]domain.Booking, error) {
	return m.listBlockingOverlap(ctx, resourceID, w, asOf, grace, excludeID)
}
func (m *mockBookingRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.BookingStatus) (domain.Booking, error) {
	return m.updateStatus(ctx, id, from, to)
}
func (m *mockBookingRepo) List(ctx context.Context, filter domain.BookingFilter, p domain.PaginationParams) ([]domain.Booking, int64, error) {
	return m.list(ctx, filter, p)
}
func (m *mockBookingRepo) ListWithNames(ctx context.Context) ([]domain.BookingWithNames, error) {
	return m.listWithNames(ctx)
}

var _ repo.BookingRepo = (*mockBookingRepo)(nil)

type mockResourceRepo struct {
	create                  func(ctx context.Context, resource domain.Resource) (domain.Resource, error)
	getByID                 func(ctx context.Context, id uuid.UUID) (domain.Resource, error)
	listCandidates          func(ctx context.Context, rtype domain.ResourceType, includeSuspended bool) ([]domain.Resource, error)
	updateOperationalStatus func(ctx context.Context, id uuid.UUID, status domain.OperationalStatus) (domain.Resource, error)
	updateRatingSummary     func(ctx context.Context, id uuid.UUID, summary domain.RatingSummary) error
}

func (m *mockResourceRepo) Create(ctx context.Context, resource domain.Resource) (domain.Resource, error) {
	return m.create(ctx, resource)
}
func (m *mockResourceRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Resource, error) {
	return m.getByID(ctx, id)
}
func (m *mockResourceRepo) ListCandidates(ctx context.Context, rtype domain.ResourceType, includeSuspended bool) ([]domain.Resource, error) {
	return m.listCandidates(ctx, rtype, includeSuspended)
}
func (m *mockResourceRepo) UpdateOperationalStatus(ctx context.Context, id uuid.UUID, status domain.OperationalStatus) (domain.Resource, error) {
	return m.updateOperationalStatus(ctx, id, status)
}
func (m *mockResourceRepo) UpdateRatingSummary(ctx context.Context, id uuid.UUID, summary domain.RatingSummary) error {
	return m.updateRatingSummary(ctx, id, summary)
}

var _ repo.ResourceRepo = (*mockResourceRepo)(nil)

type mockReviewRepo struct {
	create               func(ctx context.Context, review domain.Review) (domain.Review, error)
	getByID              func(ctx context.Context, id uuid.UUID) (domain.Review, error)
	listActiveByResource func(ctx context.Context, resourceID uuid.UUID) ([]domain.Review, error)
	deactivate           func(ctx context.Context, id uuid.UUID) (domain.Review, error)
}

func (m *mockReviewRepo) Create(ctx context.Context, review domain.Review) (domain.Review, error) {
	return m.create(ctx, review)
}
func (m *mockReviewRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Review, error) {
	return m.getByID(ctx, id)
}
func (m *mockReviewRepo) ListActiveByResource(ctx context.Context, resourceID uuid.UUID) ([]domain.Review, error) {
	return m.listActiveByResource(ctx, resourceID)
}
func (m *mockReviewRepo) Deactivate(ctx context.Context, id uuid.UUID) (domain.Review, error) {
	return m.deactivate(ctx, id)
}

var _ repo.ReviewRepo = (*mockReviewRepo)(nil)
