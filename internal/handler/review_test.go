package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/carbook/backend/internal/domain"
)

func TestCreateReview_Created(t *testing.T) {
	draft := domain.ReviewDraft{
		BookingID:  uuid.New(),
		ResourceID: uuid.New(),
		UserID:     uuid.New(),
		Rating:     5,
		Comment:    "spotless",
	}

	reviews := &mockReviews{
		addReview: func(_ context.Context, got domain.ReviewDraft) (domain.Review, error) {
			assert.Equal(t, draft, got)
			return domain.Review{
				ID:         uuid.New(),
				BookingID:  got.BookingID,
				ResourceID: got.ResourceID,
				UserID:     got.UserID,
				Rating:     got.Rating,
				Comment:    got.Comment,
				Status:     domain.ReviewActive,
			}, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/reviews", jsonBody(t, map[string]any{
		"booking_id":  draft.BookingID,
		"resource_id": draft.ResourceID,
		"user_id":     draft.UserID,
		"rating":      draft.Rating,
		"comment":     draft.Comment,
	}))
	rec := serve(t, deps{reviews: reviews}, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var got domain.Review
	decodeBody(t, rec, &got)
	assert.Equal(t, domain.ReviewActive, got.Status)
}

func TestCreateReview_RatingOutOfRange(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/reviews", jsonBody(t, map[string]any{
		"booking_id":  uuid.New(),
		"resource_id": uuid.New(),
		"user_id":     uuid.New(),
		"rating":      6,
	}))
	rec := serve(t, deps{reviews: &mockReviews{}}, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCreateReview_DuplicateBooking(t *testing.T) {
	reviews := &mockReviews{
		addReview: func(_ context.Context, _ domain.ReviewDraft) (domain.Review, error) {
			return domain.Review{}, domain.ErrConflict
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/reviews", jsonBody(t, map[string]any{
		"booking_id":  uuid.New(),
		"resource_id": uuid.New(),
		"user_id":     uuid.New(),
		"rating":      4,
	}))
	rec := serve(t, deps{reviews: reviews}, req)

	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "conflict", errorCode(t, rec))
}

func TestDeactivateReview_OK(t *testing.T) {
	id := uuid.New()
	reviews := &mockReviews{
		deactivateReview: func(_ context.Context, gotID uuid.UUID) (domain.Review, error) {
			assert.Equal(t, id, gotID)
			return domain.Review{ID: id, Status: domain.ReviewInactive}, nil
		},
	}

	req := httptest.NewRequest(http.MethodDelete, "/reviews/"+id.String(), nil)
	rec := serve(t, deps{reviews: reviews}, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got domain.Review
	decodeBody(t, rec, &got)
	assert.Equal(t, domain.ReviewInactive, got.Status)
}

func TestDeactivateReview_NotFound(t *testing.T) {
	reviews := &mockReviews{
		deactivateReview: func(_ context.Context, _ uuid.UUID) (domain.Review, error) {
			return domain.Review{}, domain.ErrNotFound
		},
	}

	req := httptest.NewRequest(http.MethodDelete, "/reviews/"+uuid.NewString(), nil)
	rec := serve(t, deps{reviews: reviews}, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
