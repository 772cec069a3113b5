package handler

import (
	"net/http"

	"github.com/pkordes/carbook/backend/internal/domain"
)

// createResourceRequest is the body of POST /resources.
type createResourceRequest struct {
	Type string `json:"type" validate:"required"`
	Name string `json:"name" validate:"required"`
}

// setResourceStatusRequest is the body of PATCH /resources/{id}/status.
type setResourceStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// handleCreateResource implements POST /resources (administrative).
func (s *Server) handleCreateResource(w http.ResponseWriter, r *http.Request) {
	var req createResourceRequest
	if !s.decode(w, r, &req) {
		return
	}

	resource, err := s.resources.Create(r.Context(), domain.ResourceType(req.Type), req.Name)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, resource)
}

// handleGetResource implements GET /resources/{id}.
func (s *Server) handleGetResource(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	resource, err := s.resources.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, resource)
}

// handleSetResourceStatus implements PATCH /resources/{id}/status.
// Suspending a resource takes it out of every future availability result
// without touching its existing bookings.
func (s *Server) handleSetResourceStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req setResourceStatusRequest
	if !s.decode(w, r, &req) {
		return
	}

	resource, err := s.resources.SetOperationalStatus(r.Context(), id, domain.OperationalStatus(req.Status))
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, resource)
}
