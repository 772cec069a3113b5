// Package handler implements the HTTP handlers for the Carbook API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (availability.go, booking.go, etc.) but all share the same Server
// struct so they can access its dependencies.
package handler

import (
	"context"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/pkordes/carbook/backend/internal/domain"
)

// AvailabilityServicer defines the availability-engine operations the
// handlers depend on. Defining the interface here (in the consumer package)
// follows the Go convention: "accept interfaces, return concrete types". It
// lets handler tests inject a mock without touching the database or service
// layer.
type AvailabilityServicer interface {
	CheckAvailability(ctx context.Context, rtype domain.ResourceType, window domain.Window, excludeBookingID *uuid.UUID) ([]uuid.UUID, error)
	Reserve(ctx context.Context, draft domain.ReservationDraft) (domain.Booking, error)
}

// BookingServicer defines the lifecycle operations the booking handlers
// depend on.
type BookingServicer interface {
	Transition(ctx context.Context, id uuid.UUID, event domain.BookingEvent) (domain.Booking, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Booking, error)
	List(ctx context.Context, filter domain.BookingFilter, p domain.PaginationParams) ([]domain.Booking, int64, error)
}

// ReviewServicer defines the review/rating operations the review handlers
// depend on.
type ReviewServicer interface {
	AddReview(ctx context.Context, draft domain.ReviewDraft) (domain.Review, error)
	DeactivateReview(ctx context.Context, id uuid.UUID) (domain.Review, error)
	Recompute(ctx context.Context, resourceID uuid.UUID) error
}

// ResourceServicer defines the administrative resource operations the
// resource handlers depend on.
type ResourceServicer interface {
	Create(ctx context.Context, rtype domain.ResourceType, name string) (domain.Resource, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Resource, error)
	SetOperationalStatus(ctx context.Context, id uuid.UUID, status domain.OperationalStatus) (domain.Resource, error)
}

// ExportServicer defines the export operation the export handler depends on.
type ExportServicer interface {
	Export(ctx context.Context) ([]domain.BookingExportRow, error)
}

// Pinger reports whether the backing store is reachable; satisfied by
// *pgxpool.Pool. The health handler uses it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server holds every handler dependency. Methods live in domain-specific
// files but all operate on this struct.
type Server struct {
	availability AvailabilityServicer
	bookings     BookingServicer
	reviews      ReviewServicer
	resources    ResourceServicer
	export       ExportServicer
	db           Pinger
	validate     *validator.Validate

	// openapi is the embedded OpenAPI document served at /openapi.yaml;
	// may be nil in tests.
	openapi []byte
}

// NewServer constructs the Server with all its dependencies.
// Any servicer may be nil in tests that do not exercise its routes.
func NewServer(availability AvailabilityServicer, bookings BookingServicer, reviews ReviewServicer, resources ResourceServicer, export ExportServicer, db Pinger, openapi []byte) *Server {
	return &Server{
		availability: availability,
		bookings:     bookings,
		reviews:      reviews,
		resources:    resources,
		export:       export,
		db:           db,
		validate:     validator.New(validator.WithRequiredStructEnabled()),
		openapi:      openapi,
	}
}

// Routes mounts every endpoint on a fresh chi router.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.handleHealth)
	r.Get("/openapi.yaml", s.handleOpenAPI)

	r.Get("/availability", s.handleCheckAvailability)

	r.Route("/bookings", func(r chi.Router) {
		r.Post("/", s.handleCreateBooking)
		r.Get("/", s.handleListBookings)
		r.Get("/export", s.handleExportBookings)
		r.Get("/{id}", s.handleGetBooking)
		r.Post("/{id}/transition", s.handleTransitionBooking)
	})

	r.Route("/resources", func(r chi.Router) {
		r.Post("/", s.handleCreateResource)
		r.Get("/{id}", s.handleGetResource)
		r.Patch("/{id}/status", s.handleSetResourceStatus)
	})

	r.Route("/reviews", func(r chi.Router) {
		r.Post("/", s.handleCreateReview)
		r.Delete("/{id}", s.handleDeactivateReview)
	})

	return r
}
