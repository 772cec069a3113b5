package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/carbook/backend/internal/domain"
)

// createBookingRequest is the body of POST /bookings.
type createBookingRequest struct {
	CarID         uuid.UUID  `json:"car_id" validate:"required"`
	DriverID      *uuid.UUID `json:"driver_id"`
	UserID        uuid.UUID  `json:"user_id" validate:"required"`
	PickupAt      time.Time  `json:"pickup_at" validate:"required"`
	ReturnAt      time.Time  `json:"return_at" validate:"required"`
	TotalPrice    int64      `json:"total_price" validate:"gte=0"`
	DepositAmount int64      `json:"deposit_amount" validate:"gte=0"`
}

// transitionRequest is the body of POST /bookings/{id}/transition.
type transitionRequest struct {
	Event string `json:"event" validate:"required"`
}

// listBookingsResponse is the paginated envelope for GET /bookings.
type listBookingsResponse struct {
	Data       []domain.Booking `json:"data"`
	Pagination pagination       `json:"pagination"`
}

type pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

// handleCreateBooking implements POST /bookings: the guarded-create path of
// the availability engine. 201 on success, 409 when the window conflicts,
// 503 when per-resource serialization timed out (retryable).
func (s *Server) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	var req createBookingRequest
	if !s.decode(w, r, &req) {
		return
	}

	booking, err := s.availability.Reserve(r.Context(), domain.ReservationDraft{
		CarID:         req.CarID,
		DriverID:      req.DriverID,
		UserID:        req.UserID,
		PickupAt:      req.PickupAt,
		ReturnAt:      req.ReturnAt,
		TotalPrice:    req.TotalPrice,
		DepositAmount: req.DepositAmount,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, booking)
}

// handleGetBooking implements GET /bookings/{id}.
func (s *Server) handleGetBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	booking, err := s.bookings.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, booking)
}

// handleListBookings implements GET /bookings.
// Supports ?page= and ?limit= (defaults: page=1, limit=20, max=100) and
// optional ?user_id= / ?car_id= filters.
func (s *Server) handleListBookings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var filter domain.BookingFilter
	if raw := q.Get("user_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			badRequest(w, "user_id must be a UUID")
			return
		}
		filter.UserID = &id
	}
	if raw := q.Get("car_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			badRequest(w, "car_id must be a UUID")
			return
		}
		filter.CarID = &id
	}

	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	params := domain.NewPaginationParams(page, limit)

	bookings, total, err := s.bookings.List(r.Context(), filter, params)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, listBookingsResponse{
		Data: bookings,
		Pagination: pagination{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// handleTransitionBooking implements POST /bookings/{id}/transition.
// The body names a lifecycle event; invalid events for the booking's current
// status return 409 rejected_transition and leave the stored state unchanged.
func (s *Server) handleTransitionBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req transitionRequest
	if !s.decode(w, r, &req) {
		return
	}

	booking, err := s.bookings.Transition(r.Context(), id, domain.BookingEvent(req.Event))
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, booking)
}

// decode unmarshals and validates a JSON request body into v. On failure it
// writes a 422 and returns false.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Body == nil {
		badRequest(w, "request body is required")
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		badRequest(w, "malformed request body: "+err.Error())
		return false
	}
	if err := s.validate.Struct(v); err != nil {
		badRequest(w, err.Error())
		return false
	}
	return true
}

// pathUUID parses the named chi URL parameter as a UUID. On failure it
// writes a 422 and returns false.
func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		badRequest(w, name+" must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}
