package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pkordes/carbook/backend/internal/domain"
)

// errorResponse is the JSON error envelope every endpoint returns on failure.
type errorResponse struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// respondJSON writes v as a JSON body with the given status.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

// respondError maps a service error onto the HTTP taxonomy:
// 404 not_found, 409 conflict / rejected_transition, 422 validation_error,
// 503 lock_timeout (retryable), 500 for everything unexpected.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", unwrapMessage(err))
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusUnprocessableEntity, "validation_error", unwrapMessage(err))
	case errors.Is(err, domain.ErrRejectedTransition):
		writeError(w, http.StatusConflict, "rejected_transition", unwrapMessage(err))
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, "conflict", unwrapMessage(err))
	case errors.Is(err, domain.ErrLockTimeout):
		w.Header().Set("Retry-After", "1")
		writeError(w, http.StatusServiceUnavailable, "lock_timeout", unwrapMessage(err))
	default:
		slog.ErrorContext(r.Context(), "internal error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

// badRequest rejects a request before it reaches the service layer
// (missing or malformed body, unparsable query parameter).
func badRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusUnprocessableEntity, "validation_error", message)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorResponse{Error: errorDetail{Code: code, Message: message}})
}

// unwrapMessage strips the "layer.Type.Method: " wrapping prefixes from a
// service error so the client sees only the human-readable part.
// e.g. "service.BookingService.Transition: rejected transition: event ..."
// → "rejected transition: event ...".
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	for {
		i := strings.Index(msg, ": ")
		if i < 0 {
			return msg
		}
		prefix := msg[:i]
		if strings.HasPrefix(prefix, "service.") || strings.HasPrefix(prefix, "repo.") {
			msg = msg[i+2:]
			continue
		}
		return msg
	}
}
