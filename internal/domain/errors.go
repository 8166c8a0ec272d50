package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing required field, end date before start date).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrConflict is returned when a write would give a trailer two bookings
// with overlapping date ranges.
// Handlers should map this to HTTP 409 Conflict.
var ErrConflict = errors.New("booking conflict")

// ConflictError carries the bookings that block a requested date range.
// It unwraps to ErrConflict so callers can match it with errors.Is.
type ConflictError struct {
	TrailerID string
	Range     DateRange
	Conflicts []Booking
}

func (e *ConflictError) Error() string {
	names := make([]string, 0, len(e.Conflicts))
	for _, b := range e.Conflicts {
		names = append(names, fmt.Sprintf("%s (%s)", b.CustomerName, b.Range()))
	}
	if len(names) == 0 {
		return fmt.Sprintf("%s: trailer %s is not available for %s", ErrConflict, e.TrailerID, e.Range)
	}
	return fmt.Sprintf("%s: trailer %s is booked for %s by %s",
		ErrConflict, e.TrailerID, e.Range, strings.Join(names, ", "))
}

func (e *ConflictError) Unwrap() error { return ErrConflict }
