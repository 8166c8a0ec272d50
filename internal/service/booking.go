package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/glirentals/rentals-admin/internal/availability"
	"github.com/glirentals/rentals-admin/internal/config"
	"github.com/glirentals/rentals-admin/internal/domain"
	"github.com/glirentals/rentals-admin/internal/events"
	"github.com/glirentals/rentals-admin/internal/metrics"
	"github.com/glirentals/rentals-admin/internal/repo"
)

// BookingDeps holds the collaborators of a BookingService. Events, Metrics
// and Logger are optional.
type BookingDeps struct {
	Bookings  repo.BookingRepo
	Trailers  repo.TrailerRepo
	Customers repo.CustomerRepo
	Pricing   config.PricingSettings
	Events    events.Publisher
	Metrics   *metrics.Metrics
	Logger    *slog.Logger
}

// BookingService implements business logic for Booking operations.
type BookingService struct {
	bookings  repo.BookingRepo
	trailers  repo.TrailerRepo
	customers repo.CustomerRepo
	pricing   config.PricingSettings
	events    events.Publisher
	metrics   *metrics.Metrics
	log       *slog.Logger
	now       func() time.Time
}

// NewBookingService constructs a BookingService from d.
func NewBookingService(d BookingDeps) *BookingService {
	s := &BookingService{
		bookings:  d.Bookings,
		trailers:  d.Trailers,
		customers: d.Customers,
		pricing:   d.Pricing,
		events:    d.Events,
		metrics:   d.Metrics,
		log:       d.Logger,
		now:       time.Now,
	}
	if s.events == nil {
		s.events = events.Nop{}
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	return s
}

// NewBooking is the input to BookingService.Create.
type NewBooking struct {
	Booking domain.Booking

	// PricePerMile and IcePricePerBag fall back to the configured pricing
	// defaults when nil.
	PricePerMile   *float64
	IcePricePerBag *float64

	// WalkIn books without a customer record. Otherwise a booking without a
	// CustomerID creates one from the name, phone and delivery address.
	WalkIn bool
}

// Create validates a booking, prices it, links or creates its customer, and
// persists it. Returns a *domain.ConflictError when the trailer is already
// booked for any day of the range.
func (s *BookingService) Create(ctx context.Context, in NewBooking) (domain.Booking, error) {
	b := in.Booking
	b.Pricing.PricePerMile = valueOr(in.PricePerMile, s.pricing.PricePerMile)
	b.Pricing.IcePricePerBag = valueOr(in.IcePricePerBag, s.pricing.IcePricePerBag)
	if b.Status == "" {
		b.Status = domain.StatusConfirmed
	}

	b, err := normalizeBooking(b)
	if err != nil {
		return domain.Booking{}, err
	}
	if err := validateBooking(b); err != nil {
		return domain.Booking{}, err
	}
	if err := s.requireBookableTrailer(ctx, b.TrailerID); err != nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.Create: %w", err)
	}
	b.PriceQuoted = b.Pricing.Quote(s.pricing.FreeMiles).Total

	// Check before creating a customer so a rejected booking leaves nothing
	// behind. The repo repeats the check under a lock.
	if err := s.precheck(ctx, b, nil); err != nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.Create: %w", err)
	}

	switch {
	case b.CustomerID != nil:
		if _, err := s.customers.GetByID(ctx, *b.CustomerID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.Booking{}, fmt.Errorf("%w: customer %s does not exist", domain.ErrValidation, *b.CustomerID)
			}
			return domain.Booking{}, fmt.Errorf("service.BookingService.Create: %w", err)
		}
	case !in.WalkIn:
		c, err := s.customers.Create(ctx, domain.Customer{
			Name:    b.CustomerName,
			Phone:   b.CustomerPhone,
			Address: b.DeliveryAddress,
		})
		if err != nil {
			return domain.Booking{}, fmt.Errorf("service.BookingService.Create: customer: %w", err)
		}
		b.CustomerID = &c.ID
	}

	result, err := s.bookings.Create(ctx, b)
	if err != nil {
		s.recordConflict(err)
		return domain.Booking{}, fmt.Errorf("service.BookingService.Create: %w", err)
	}
	s.metrics.BookingWritten("create")
	s.publish(ctx, events.BookingCreated, result)
	return result, nil
}

// GetByID returns a single booking by ID.
func (s *BookingService) GetByID(ctx context.Context, id uuid.UUID) (domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.GetByID: %w", err)
	}
	return b, nil
}

// List returns bookings ordered by start date. When r is non-nil only
// bookings intersecting r are returned. Always non-nil.
func (s *BookingService) List(ctx context.Context, r *domain.DateRange) ([]domain.Booking, error) {
	var (
		bookings []domain.Booking
		err      error
	)
	if r != nil {
		bookings, err = s.bookings.ListInRange(ctx, *r)
	} else {
		bookings, err = s.bookings.List(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("service.BookingService.List: %w", err)
	}
	if bookings == nil {
		return []domain.Booking{}, nil
	}
	return bookings, nil
}

// Update applies patch to the booking. The price is recomputed when a pricing
// field changes and availability is re-checked when the trailer or dates move.
func (s *BookingService) Update(ctx context.Context, id uuid.UUID, patch domain.BookingPatch) (domain.Booking, error) {
	current, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.Update: %w", err)
	}

	next, err := normalizeBooking(patch.Apply(current))
	if err != nil {
		return domain.Booking{}, err
	}
	if err := validateBooking(next); err != nil {
		return domain.Booking{}, err
	}
	if next.TrailerID != current.TrailerID {
		if err := s.requireBookableTrailer(ctx, next.TrailerID); err != nil {
			return domain.Booking{}, fmt.Errorf("service.BookingService.Update: %w", err)
		}
	}
	if patch.ChangesPricing() {
		next.PriceQuoted = next.Pricing.Quote(s.pricing.FreeMiles).Total
	}
	if patch.MovesSchedule() {
		if err := s.precheck(ctx, next, &next.ID); err != nil {
			return domain.Booking{}, fmt.Errorf("service.BookingService.Update: %w", err)
		}
	}

	result, err := s.bookings.Update(ctx, next)
	if err != nil {
		s.recordConflict(err)
		return domain.Booking{}, fmt.Errorf("service.BookingService.Update: %w", err)
	}
	s.metrics.BookingWritten("update")
	s.publish(ctx, events.BookingUpdated, result)
	return result, nil
}

// Delete removes a booking by ID.
func (s *BookingService) Delete(ctx context.Context, id uuid.UUID) error {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("service.BookingService.Delete: %w", err)
	}
	if err := s.bookings.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.BookingService.Delete: %w", err)
	}
	s.metrics.BookingWritten("delete")
	s.publish(ctx, events.BookingDeleted, b)
	return nil
}

// Quote prices p with the configured free mileage. Nil rates fall back to
// the configured defaults, as they do on Create.
func (s *BookingService) Quote(p domain.Pricing, pricePerMile, icePricePerBag *float64) domain.Quote {
	p.PricePerMile = valueOr(pricePerMile, s.pricing.PricePerMile)
	p.IcePricePerBag = valueOr(icePricePerBag, s.pricing.IcePricePerBag)
	return p.Quote(s.pricing.FreeMiles)
}

// requireBookableTrailer rejects unknown and retired trailers.
func (s *BookingService) requireBookableTrailer(ctx context.Context, id uuid.UUID) error {
	t, err := s.trailers.GetByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%w: trailer %s does not exist", domain.ErrValidation, id)
	}
	if err != nil {
		return err
	}
	if !t.Active {
		return fmt.Errorf("%w: trailer %q is retired", domain.ErrValidation, t.Name)
	}
	return nil
}

// precheck runs the overlap engine against the trailer's current bookings.
func (s *BookingService) precheck(ctx context.Context, b domain.Booking, exclude *uuid.UUID) error {
	existing, err := s.bookings.ListByTrailer(ctx, b.TrailerID)
	if err != nil {
		return err
	}
	conflicts := availability.Conflicts(existing, b.TrailerID, b.Range(), exclude)
	if len(conflicts) > 0 {
		s.metrics.BookingConflict()
		return &domain.ConflictError{TrailerID: b.TrailerID.String(), Range: b.Range(), Conflicts: conflicts}
	}
	return nil
}

func (s *BookingService) recordConflict(err error) {
	if errors.Is(err, domain.ErrConflict) {
		s.metrics.BookingConflict()
	}
}

// publish sends a lifecycle event. Failures are logged; the write has
// already committed.
func (s *BookingService) publish(ctx context.Context, eventType string, b domain.Booking) {
	e := events.NewBookingEvent(eventType, b, s.now())
	if err := s.events.Publish(ctx, e); err != nil {
		s.log.WarnContext(ctx, "booking event not published",
			"event_type", eventType,
			"booking_id", b.ID,
			"error", err,
		)
	}
}

// normalizeBooking trims text, truncates dates to the day and rewrites the
// delivery time in its canonical form.
func normalizeBooking(b domain.Booking) (domain.Booking, error) {
	b.CustomerName = strings.TrimSpace(b.CustomerName)
	b.CustomerPhone = strings.TrimSpace(b.CustomerPhone)
	b.DeliveryAddress = strings.TrimSpace(b.DeliveryAddress)
	b.StartDate = domain.DateOf(b.StartDate)
	b.EndDate = domain.DateOf(b.EndDate)
	dt, err := domain.NormalizeDeliveryTime(b.DeliveryTime)
	if err != nil {
		return domain.Booking{}, err
	}
	b.DeliveryTime = dt
	return b, nil
}

// validateBooking enforces the rules common to Create and Update.
func validateBooking(b domain.Booking) error {
	if b.TrailerID == uuid.Nil {
		return fmt.Errorf("%w: trailer_id is required", domain.ErrValidation)
	}
	if b.CustomerName == "" {
		return fmt.Errorf("%w: customer_name is required", domain.ErrValidation)
	}
	if err := b.Range().Validate(); err != nil {
		return err
	}
	if !b.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", domain.ErrValidation, b.Status)
	}
	switch b.Pricing.IceBagSize {
	case "", domain.IceBag20lb, domain.IceBag7lb:
	default:
		return fmt.Errorf("%w: ice_bag_size must be %q or %q", domain.ErrValidation, domain.IceBag20lb, domain.IceBag7lb)
	}
	p := b.Pricing
	if p.RentalRate < 0 || p.IceBagQty < 0 || p.IcePricePerBag < 0 || p.RoundTripMiles < 0 || p.PricePerMile < 0 {
		return fmt.Errorf("%w: prices, quantities and miles must not be negative", domain.ErrValidation)
	}
	return nil
}

func valueOr(v *float64, fallback float64) float64 {
	if v != nil {
		return *v
	}
	return fallback
}
