package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/carbook/backend/internal/domain"
	"github.com/pkordes/carbook/backend/internal/handler"
)

// Hand-written doubles for the servicer interfaces. Each method is a
// function field — set only the ones your test needs.

type mockAvailability struct {
	checkAvailability func(ctx context.Context, rtype domain.ResourceType, window domain.Window, excludeBookingID *uuid.UUID) ([]uuid.UUID, error)
	reserve           func(ctx context.Context, draft domain.ReservationDraft) (domain.Booking, error)
}

func (m *mockAvailability) CheckAvailability(ctx context.Context, rtype domain.ResourceType, window domain.Window, excludeBookingID *uuid.UUID) ([]uuid.UUID, error) {
	return m.checkAvailability(ctx, rtype, window, excludeBookingID)
}
func (m *mockAvailability) Reserve(ctx context.Context, draft domain.ReservationDraft) (domain.Booking, error) {
	return m.reserve(ctx, draft)
}

type mockBookings struct {
	transition func(ctx context.Context, id uuid.UUID, event domain.BookingEvent) (domain.Booking, error)
	getByID    func(ctx context.Context, id uuid.UUID) (domain.Booking, error)
	list       func(ctx context.Context, filter domain.BookingFilter, p domain.PaginationParams) ([]domain.Booking, int64, error)
}

func (m *mockBookings) Transition(ctx context.Context, id uuid.UUID, event domain.BookingEvent) (domain.Booking, error) {
	return m.transition(ctx, id, event)
}
func (m *mockBookings) GetByID(ctx context.Context, id uuid.UUID) (domain.Booking, error) {
	return m.getByID(ctx, id)
}
func (m *mockBookings) List(ctx context.Context, filter domain.BookingFilter, p domain.PaginationParams) ([]domain.Booking, int64, error) {
	return m.list(ctx, filter, p)
}

type mockReviews struct {
	addReview        func(ctx context.Context, draft domain.ReviewDraft) (domain.Review, error)
	deactivateReview func(ctx context.Context, id uuid.UUID) (domain.Review, error)
	recompute        func(ctx context.Context, resourceID uuid.UUID) error
}

func (m *mockReviews) AddReview(ctx context.Context, draft domain.ReviewDraft) (domain.Review, error) {
	return m.addReview(ctx, draft)
}
func (m *mockReviews) DeactivateReview(ctx context.Context, id uuid.UUID) (domain.Review, error) {
	return m.deactivateReview(ctx, id)
}
func (m *mockReviews) Recompute(ctx context.Context, resourceID uuid.UUID) error {
	return m.recompute(ctx, resourceID)
}

type mockResources struct {
	create               func(ctx context.Context, rtype domain.ResourceType, name string) (domain.Resource, error)
	getByID              func(ctx context.Context, id uuid.UUID) (domain.Resource, error)
	setOperationalStatus func(ctx context.Context, id uuid.UUID, status domain.OperationalStatus) (domain.Resource, error)
}

func (m *mockResources) Create(ctx context.Context, rtype domain.ResourceType, name string) (domain.Resource, error) {
	return m.create(ctx, rtype, name)
}
func (m *mockResources) GetByID(ctx context.Context, id uuid.UUID) (domain.Resource, error) {
	return m.getByID(ctx, id)
}
func (m *mockResources) SetOperationalStatus(ctx context.Context, id uuid.UUID, status domain.OperationalStatus) (domain.Resource, error) {
	return m.setOperationalStatus(ctx, id, status)
}

type mockExport struct {
	export func(ctx context.Context) ([]domain.BookingExportRow, error)
}

func (m *mockExport) Export(ctx context.Context) ([]domain.BookingExportRow, error) {
	return m.export(ctx)
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

// deps bundles the servicer doubles so each test overrides only what it needs.
type deps struct {
	availability *mockAvailability
	bookings     *mockBookings
	reviews      *mockReviews
	resources    *mockResources
	export       *mockExport
	db           handler.Pinger
	openapi      []byte
}

// serve runs req through a freshly-routed Server and returns the recorder.
func serve(t *testing.T, d deps, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()

	// Interface-typed nils must stay nil interfaces, hence the indirection.
	var (
		availability handler.AvailabilityServicer
		bookings     handler.BookingServicer
		reviews      handler.ReviewServicer
		resources    handler.ResourceServicer
		export       handler.ExportServicer
	)
	if d.availability != nil {
		availability = d.availability
	}
	if d.bookings != nil {
		bookings = d.bookings
	}
	if d.reviews != nil {
		reviews = d.reviews
	}
	if d.resources != nil {
		resources = d.resources
	}
	if d.export != nil {
		export = d.export
	}

	srv := handler.NewServer(availability, bookings, reviews, resources, export, d.db, d.openapi)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)
	return rec
}

func jsonBody(t *testing.T, v any) *bytes.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(b)
}

// decodeBody unmarshals the recorded JSON response into v.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

// errorCode extracts the error.code field from an error envelope.
func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	decodeBody(t, rec, &envelope)
	return envelope.Error.Code
}

var errBoom = errors.New("db exploded")
