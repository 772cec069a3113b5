package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/pkordes/carbook/backend/internal/domain"
)

// createReviewRequest is the body of POST /reviews.
type createReviewRequest struct {
	BookingID  uuid.UUID `json:"booking_id" validate:"required"`
	ResourceID uuid.UUID `json:"resource_id" validate:"required"`
	UserID     uuid.UUID `json:"user_id" validate:"required"`
	Rating     int       `json:"rating" validate:"required,min=1,max=5"`
	Comment    string    `json:"comment" validate:"max=2000"`
}

// handleCreateReview implements POST /reviews.
// Only completed bookings can be reviewed, once each; a second review for
// the same booking returns 409.
func (s *Server) handleCreateReview(w http.ResponseWriter, r *http.Request) {
	var req createReviewRequest
	if !s.decode(w, r, &req) {
		return
	}

	review, err := s.reviews.AddReview(r.Context(), domain.ReviewDraft{
		BookingID:  req.BookingID,
		ResourceID: req.ResourceID,
		UserID:     req.UserID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, review)
}

// handleDeactivateReview implements DELETE /reviews/{id}.
// Reviews are soft-deactivated, never hard-deleted: the row stays for audit
// but stops counting toward the resource's rating summary.
func (s *Server) handleDeactivateReview(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	review, err := s.reviews.DeactivateReview(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, review)
}
