package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/carbook/backend/internal/domain"
)

// availabilityResponse lists the conflict-free resource ids for a query.
type availabilityResponse struct {
	Data []uuid.UUID `json:"data"`
}

// handleCheckAvailability implements GET /availability.
// Query parameters: type (resource type, required), start and end (RFC3339,
// required), exclude_booking_id (optional, for re-validating an existing
// booking's own window).
//
// The response is a hint for search: it carries no reservation guarantee.
func (s *Server) handleCheckAvailability(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	rtype, err := domain.ParseResourceType(q.Get("type"))
	if err != nil {
		badRequest(w, unwrapMessage(err))
		return
	}

	start, err := time.Parse(time.RFC3339, q.Get("start"))
	if err != nil {
		badRequest(w, "start must be an RFC3339 timestamp")
		return
	}
	end, err := time.Parse(time.RFC3339, q.Get("end"))
	if err != nil {
		badRequest(w, "end must be an RFC3339 timestamp")
		return
	}

	var exclude *uuid.UUID
	if raw := q.Get("exclude_booking_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			badRequest(w, "exclude_booking_id must be a UUID")
			return
		}
		exclude = &id
	}

	ids, err := s.availability.CheckAvailability(r.Context(), rtype, domain.Window{Start: start, End: end}, exclude)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if ids == nil {
		ids = []uuid.UUID{}
	}

	respondJSON(w, http.StatusOK, availabilityResponse{Data: ids})
}
