// Package service contains the business logic for the trailer rental admin API.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here; services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/glirentals/rentals-admin/internal/availability"
	"github.com/glirentals/rentals-admin/internal/domain"
	"github.com/glirentals/rentals-admin/internal/repo"
)

// DeleteConfirmation must be passed to TrailerService.Delete. Deleting a
// trailer removes every booking it has ever had.
const DeleteConfirmation = "delete"

// TrailerService implements business logic for Trailer operations.
type TrailerService struct {
	trailers repo.TrailerRepo
	bookings repo.BookingRepo
}

// NewTrailerService constructs a TrailerService backed by the provided repos.
func NewTrailerService(trailers repo.TrailerRepo, bookings repo.BookingRepo) *TrailerService {
	return &TrailerService{trailers: trailers, bookings: bookings}
}

// Create validates and persists a new trailer. A blank category becomes
// domain.DefaultCategory.
func (s *TrailerService) Create(ctx context.Context, t domain.Trailer) (domain.Trailer, error) {
	t.Name = strings.TrimSpace(t.Name)
	t.Category = strings.TrimSpace(t.Category)
	if t.Category == "" {
		t.Category = domain.DefaultCategory
	}
	if err := validateTrailer(t); err != nil {
		return domain.Trailer{}, err
	}
	result, err := s.trailers.Create(ctx, t)
	if err != nil {
		return domain.Trailer{}, fmt.Errorf("service.TrailerService.Create: %w", err)
	}
	return result, nil
}

// GetByID returns a single trailer by ID.
func (s *TrailerService) GetByID(ctx context.Context, id uuid.UUID) (domain.Trailer, error) {
	t, err := s.trailers.GetByID(ctx, id)
	if err != nil {
		return domain.Trailer{}, fmt.Errorf("service.TrailerService.GetByID: %w", err)
	}
	return t, nil
}

// List returns trailers in display order. Always non-nil.
func (s *TrailerService) List(ctx context.Context, activeOnly bool) ([]domain.Trailer, error) {
	trailers, err := s.trailers.List(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("service.TrailerService.List: %w", err)
	}
	if trailers == nil {
		return []domain.Trailer{}, nil
	}
	return trailers, nil
}

// Update applies patch to the trailer and persists the result.
func (s *TrailerService) Update(ctx context.Context, id uuid.UUID, patch domain.TrailerPatch) (domain.Trailer, error) {
	current, err := s.trailers.GetByID(ctx, id)
	if err != nil {
		return domain.Trailer{}, fmt.Errorf("service.TrailerService.Update: %w", err)
	}
	next := patch.Apply(current)
	next.Name = strings.TrimSpace(next.Name)
	next.Category = strings.TrimSpace(next.Category)
	if err := validateTrailer(next); err != nil {
		return domain.Trailer{}, err
	}
	result, err := s.trailers.Update(ctx, next)
	if err != nil {
		return domain.Trailer{}, fmt.Errorf("service.TrailerService.Update: %w", err)
	}
	return result, nil
}

// Delete removes a trailer and its bookings. confirm must equal
// DeleteConfirmation, otherwise nothing is written.
func (s *TrailerService) Delete(ctx context.Context, id uuid.UUID, confirm string) error {
	if confirm != DeleteConfirmation {
		return fmt.Errorf("%w: deleting a trailer removes all of its bookings; confirm with %q",
			domain.ErrValidation, DeleteConfirmation)
	}
	if err := s.trailers.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.TrailerService.Delete: %w", err)
	}
	return nil
}

// Reorder sets the display order to ids. ids must be non-empty and unique.
func (s *TrailerService) Reorder(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return fmt.Errorf("%w: order must list at least one trailer", domain.ErrValidation)
	}
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: trailer %s listed twice", domain.ErrValidation, id)
		}
		seen[id] = struct{}{}
	}
	if err := s.trailers.Reorder(ctx, ids); err != nil {
		return fmt.Errorf("service.TrailerService.Reorder: %w", err)
	}
	return nil
}

// Status returns every active trailer with the booking covering day, if any.
func (s *TrailerService) Status(ctx context.Context, day time.Time) ([]domain.TrailerStatus, error) {
	day = domain.DateOf(day)
	trailers, err := s.trailers.List(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("service.TrailerService.Status: %w", err)
	}
	bookings, err := s.bookings.ListInRange(ctx, domain.DateRange{Start: day, End: day})
	if err != nil {
		return nil, fmt.Errorf("service.TrailerService.Status: %w", err)
	}

	out := make([]domain.TrailerStatus, 0, len(trailers))
	for _, t := range trailers {
		st := domain.TrailerStatus{Trailer: t}
		if b, ok := availability.CoveringDay(bookings, t.ID, day); ok {
			st.Booking = &b
		}
		out = append(out, st)
	}
	return out, nil
}

// Bookings returns a trailer's bookings split around today: past bookings
// ended before today, current ones cover today, future ones start after it.
func (s *TrailerService) Bookings(ctx context.Context, id uuid.UUID, today time.Time) (domain.TrailerBookings, error) {
	t, err := s.trailers.GetByID(ctx, id)
	if err != nil {
		return domain.TrailerBookings{}, fmt.Errorf("service.TrailerService.Bookings: %w", err)
	}
	bookings, err := s.bookings.ListByTrailer(ctx, id)
	if err != nil {
		return domain.TrailerBookings{}, fmt.Errorf("service.TrailerService.Bookings: %w", err)
	}

	today = domain.DateOf(today)
	out := domain.TrailerBookings{
		Trailer: t,
		Past:    []domain.Booking{},
		Current: []domain.Booking{},
		Future:  []domain.Booking{},
	}
	for _, b := range bookings {
		switch {
		case b.EndDate.Before(today):
			out.Past = append(out.Past, b)
		case b.StartDate.After(today):
			out.Future = append(out.Future, b)
		default:
			out.Current = append(out.Current, b)
		}
	}
	return out, nil
}

// validateTrailer enforces the rules common to Create and Update.
func validateTrailer(t domain.Trailer) error {
	if t.Name == "" {
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if t.Category == "" {
		return fmt.Errorf("%w: category must not be blank", domain.ErrValidation)
	}
	return nil
}
