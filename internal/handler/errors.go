package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/glirentals/rentals-admin/internal/domain"
)

// errorDetail is the body of every non-2xx response:
// {"error":{"code":"...","message":"..."}}.
type errorDetail struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Conflicts []bookingResponse `json:"conflicts,omitempty"`
}

type errorResponse struct {
	Error errorDetail `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: errorDetail{Code: code, Message: message}})
}

// requestError rejects input that never reached the service layer
// (malformed body, bad path or query parameter).
func requestError(w http.ResponseWriter, message string) {
	writeError(w, http.StatusUnprocessableEntity, "validation_error", message)
}

// respondError maps a service error onto a status and error body.
// The caller supplies the not-found message (e.g. "trailer not found")
// because the handler is the layer that knows what was being looked up.
// Anything unrecognized is logged once here and returned as a bare 500.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	var conflict *domain.ConflictError
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &conflict):
		writeJSON(w, http.StatusConflict, errorResponse{Error: errorDetail{
			Code:      "conflict",
			Message:   unwrapMessage(conflict),
			Conflicts: toBookingResponses(conflict.Conflicts),
		}})
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, "conflict", "trailer is already booked for those dates")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", notFound)
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusUnprocessableEntity, "validation_error", unwrapMessage(err))
	case errors.As(err, &tooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large")
	default:
		s.log.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", chimiddleware.GetReqID(r.Context()),
			"error", err,
		)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

// unwrapMessage strips the "pkg.Type.Method: " call-site prefixes and the
// sentinel text from a wrapped error, leaving the human-readable part.
// e.g. "service.BookingService.Create: validation error: customer_name is required"
// becomes "customer_name is required".
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	for _, sentinel := range []error{domain.ErrValidation, domain.ErrConflict} {
		if _, rest, ok := strings.Cut(msg, sentinel.Error()+": "); ok {
			return rest
		}
	}
	return msg
}
