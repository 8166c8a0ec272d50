package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/glirentals/rentals-admin/internal/availability"
	"github.com/glirentals/rentals-admin/internal/domain"
	"github.com/glirentals/rentals-admin/internal/metrics"
	"github.com/glirentals/rentals-admin/internal/repo"
)

// AvailabilityService answers availability questions from fresh reads.
// Nothing is cached: booking volume is small and a stale answer would let a
// double booking through the UI.
type AvailabilityService struct {
	trailers repo.TrailerRepo
	bookings repo.BookingRepo
	metrics  *metrics.Metrics
	tracer   trace.Tracer
}

// NewAvailabilityService constructs an AvailabilityService. m may be nil.
func NewAvailabilityService(trailers repo.TrailerRepo, bookings repo.BookingRepo, m *metrics.Metrics) *AvailabilityService {
	return &AvailabilityService{
		trailers: trailers,
		bookings: bookings,
		metrics:  m,
		tracer:   otel.Tracer("github.com/glirentals/rentals-admin/internal/service"),
	}
}

// TrailerAvailability is the answer for one trailer and range.
type TrailerAvailability struct {
	Available bool
	Conflicts []domain.Booking
}

// IsTrailerAvailable reports whether the trailer is free for every day of r,
// ignoring the booking exclude (the one being edited) when set.
func (s *AvailabilityService) IsTrailerAvailable(ctx context.Context, trailerID uuid.UUID, r domain.DateRange, exclude *uuid.UUID) (bool, error) {
	res, err := s.Check(ctx, trailerID, r, exclude)
	if err != nil {
		return false, err
	}
	return res.Available, nil
}

// Check is IsTrailerAvailable plus the bookings that block the range.
// Returns domain.ErrNotFound if the trailer does not exist.
func (s *AvailabilityService) Check(ctx context.Context, trailerID uuid.UUID, r domain.DateRange, exclude *uuid.UUID) (TrailerAvailability, error) {
	ctx, span := s.tracer.Start(ctx, "AvailabilityService.Check", trace.WithAttributes(
		attribute.String("trailer.id", trailerID.String()),
		attribute.String("range.start", domain.FormatDate(r.Start)),
		attribute.String("range.end", domain.FormatDate(r.End)),
	))
	defer span.End()

	if err := r.Validate(); err != nil {
		return TrailerAvailability{}, err
	}
	if _, err := s.trailers.GetByID(ctx, trailerID); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return TrailerAvailability{}, fmt.Errorf("service.AvailabilityService.Check: %w", err)
	}
	bookings, err := s.bookings.ListByTrailer(ctx, trailerID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return TrailerAvailability{}, fmt.Errorf("service.AvailabilityService.Check: %w", err)
	}

	conflicts := availability.Conflicts(bookings, trailerID, r, exclude)
	if conflicts == nil {
		conflicts = []domain.Booking{}
	}
	res := TrailerAvailability{Available: len(conflicts) == 0, Conflicts: conflicts}
	span.SetAttributes(attribute.Bool("available", res.Available), attribute.Int("conflicts", len(conflicts)))
	s.metrics.AvailabilityChecked(res.Available)
	return res, nil
}

// Partition splits the active fleet into trailers free for r and trailers
// booked during it.
func (s *AvailabilityService) Partition(ctx context.Context, r domain.DateRange) (availability.Result, error) {
	ctx, span := s.tracer.Start(ctx, "AvailabilityService.Partition", trace.WithAttributes(
		attribute.String("range.start", domain.FormatDate(r.Start)),
		attribute.String("range.end", domain.FormatDate(r.End)),
	))
	defer span.End()

	if err := r.Validate(); err != nil {
		return availability.Result{}, err
	}
	trailers, err := s.trailers.List(ctx, true)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return availability.Result{}, fmt.Errorf("service.AvailabilityService.Partition: %w", err)
	}
	bookings, err := s.bookings.ListInRange(ctx, r)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return availability.Result{}, fmt.Errorf("service.AvailabilityService.Partition: %w", err)
	}

	res := availability.Partition(trailers, bookings, r)
	span.SetAttributes(attribute.Int("available", len(res.Available)), attribute.Int("booked", len(res.Booked)))
	for range res.Available {
		s.metrics.AvailabilityChecked(true)
	}
	for range res.Booked {
		s.metrics.AvailabilityChecked(false)
	}
	return res, nil
}
