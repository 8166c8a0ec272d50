package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/glirentals/rentals-admin/internal/domain"
	"github.com/glirentals/rentals-admin/internal/repo"
)

// ExportService assembles the flat bookings export.
type ExportService struct {
	trailers repo.TrailerRepo
	bookings repo.BookingRepo
}

// NewExportService constructs an ExportService backed by the provided repos.
func NewExportService(trailers repo.TrailerRepo, bookings repo.BookingRepo) *ExportService {
	return &ExportService{trailers: trailers, bookings: bookings}
}

// Export returns one ExportRow per booking starting inside r, in start-date
// order. Always returns a non-nil slice.
func (s *ExportService) Export(ctx context.Context, r domain.DateRange) ([]domain.ExportRow, error) {
	trailers, err := s.trailers.List(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}
	bookings, err := s.bookings.ListStartingIn(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}

	names := make(map[uuid.UUID]string, len(trailers))
	for _, t := range trailers {
		names[t.ID] = t.Name
	}

	rows := make([]domain.ExportRow, 0, len(bookings))
	for _, b := range bookings {
		rows = append(rows, domain.ExportRow{
			BookingID:       b.ID.String(),
			TrailerName:     names[b.TrailerID],
			CustomerName:    b.CustomerName,
			CustomerPhone:   b.CustomerPhone,
			StartDate:       domain.FormatDate(b.StartDate),
			EndDate:         domain.FormatDate(b.EndDate),
			Days:            b.Days(),
			DeliveryAddress: b.DeliveryAddress,
			DeliveryTime:    b.DeliveryTime,
			RentalRate:      b.Pricing.RentalRate,
			IceBagSize:      b.Pricing.IceBagSize,
			IceBagQty:       b.Pricing.IceBagQty,
			IcePricePerBag:  b.Pricing.IcePricePerBag,
			RoundTripMiles:  b.Pricing.RoundTripMiles,
			PricePerMile:    b.Pricing.PricePerMile,
			PriceQuoted:     b.PriceQuoted,
			Status:          string(b.Status),
			Notes:           b.Notes,
		})
	}
	return rows, nil
}
