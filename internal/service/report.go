package service

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/glirentals/rentals-admin/internal/domain"
	"github.com/glirentals/rentals-admin/internal/repo"
)

// TopCustomersShown caps the top-customers table.
const TopCustomersShown = 10

// all-time bounds used when no range is given
var (
	allTimeStart = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)
	allTimeEnd   = time.Date(2100, time.December, 31, 0, 0, 0, 0, time.UTC)
)

// ReportService computes revenue reports. Bookings are attributed to the
// period their start date falls in.
type ReportService struct {
	trailers repo.TrailerRepo
	bookings repo.BookingRepo
}

// NewReportService constructs a ReportService backed by the provided repos.
func NewReportService(trailers repo.TrailerRepo, bookings repo.BookingRepo) *ReportService {
	return &ReportService{trailers: trailers, bookings: bookings}
}

// ResolveRange turns a preset into concrete dates relative to today. custom
// is only consulted for domain.RangeCustom. An empty preset means this month.
func ResolveRange(preset domain.ReportRange, today time.Time, custom *domain.DateRange) (domain.DateRange, error) {
	today = domain.DateOf(today)
	y, m := today.Year(), today.Month()
	monthStart := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)

	switch preset {
	case domain.RangeThisMonth, "":
		return domain.DateRange{Start: monthStart, End: monthStart.AddDate(0, 1, -1)}, nil
	case domain.RangeLastMonth:
		start := monthStart.AddDate(0, -1, 0)
		return domain.DateRange{Start: start, End: monthStart.AddDate(0, 0, -1)}, nil
	case domain.RangeThisYear:
		return yearRange(y), nil
	case domain.RangeLastYear:
		return yearRange(y - 1), nil
	case domain.RangeAllTime:
		return domain.DateRange{Start: allTimeStart, End: allTimeEnd}, nil
	case domain.RangeCustom:
		if custom == nil {
			return domain.DateRange{}, fmt.Errorf("%w: custom range needs start and end", domain.ErrValidation)
		}
		return domain.NewDateRange(custom.Start, custom.End)
	}
	return domain.DateRange{}, fmt.Errorf("%w: unknown range %q", domain.ErrValidation, preset)
}

func yearRange(y int) domain.DateRange {
	return domain.DateRange{
		Start: time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(y, time.December, 31, 0, 0, 0, 0, time.UTC),
	}
}

// Build computes the report for bookings starting inside r.
func (s *ReportService) Build(ctx context.Context, preset domain.ReportRange, r domain.DateRange) (domain.Report, error) {
	trailers, err := s.trailers.List(ctx, false)
	if err != nil {
		return domain.Report{}, fmt.Errorf("service.ReportService.Build: %w", err)
	}
	bookings, err := s.bookings.ListStartingIn(ctx, r)
	if err != nil {
		return domain.Report{}, fmt.Errorf("service.ReportService.Build: %w", err)
	}
	if bookings == nil {
		bookings = []domain.Booking{}
	}
	return summarize(preset, r, trailers, bookings), nil
}

// summarize does the arithmetic of Build.
func summarize(preset domain.ReportRange, r domain.DateRange, trailers []domain.Trailer, bookings []domain.Booking) domain.Report {
	rep := domain.Report{
		Preset:           preset,
		Range:            r,
		TotalBookings:    len(bookings),
		RevenueByTrailer: make([]domain.TrailerRevenue, 0, len(trailers)),
		RevenueByMonth:   []domain.MonthRevenue{},
		TopCustomers:     []domain.CustomerRevenue{},
		Bookings:         bookings,
	}

	byTrailer := make(map[uuid.UUID]*domain.TrailerRevenue, len(trailers))
	for _, t := range trailers {
		rep.RevenueByTrailer = append(rep.RevenueByTrailer, domain.TrailerRevenue{TrailerID: t.ID, Name: t.Name})
	}
	for i := range rep.RevenueByTrailer {
		byTrailer[rep.RevenueByTrailer[i].TrailerID] = &rep.RevenueByTrailer[i]
	}

	byMonth := map[string]float64{}
	byCustomer := map[string]*domain.CustomerRevenue{}
	var customerOrder []string

	for _, b := range bookings {
		days := b.Days()
		rep.TotalRevenue += b.PriceQuoted
		rep.DaysRented += days

		if tr, ok := byTrailer[b.TrailerID]; ok {
			tr.Bookings++
			tr.Days += days
			tr.Revenue += b.PriceQuoted
		}

		byMonth[b.StartDate.Format("2006-01")] += b.PriceQuoted

		key := customerKey(b)
		cr, ok := byCustomer[key]
		if !ok {
			name := b.CustomerName
			if name == "" {
				name = "Unknown"
			}
			cr = &domain.CustomerRevenue{Name: name}
			byCustomer[key] = cr
			customerOrder = append(customerOrder, key)
		}
		cr.Bookings++
		cr.Days += days
		cr.Revenue += b.PriceQuoted
	}

	rep.TotalRevenue = roundCents(rep.TotalRevenue)
	if n := len(bookings); n > 0 {
		rep.AvgBookingValue = roundCents(rep.TotalRevenue / float64(n))
		rep.AvgBookingLength = math.Round(float64(rep.DaysRented)/float64(n)*10) / 10
	}

	for i := range rep.RevenueByTrailer {
		rep.RevenueByTrailer[i].Revenue = roundCents(rep.RevenueByTrailer[i].Revenue)
	}
	slices.SortStableFunc(rep.RevenueByTrailer, func(a, b domain.TrailerRevenue) int {
		return cmp.Compare(b.Revenue, a.Revenue)
	})

	for month, revenue := range byMonth {
		rep.RevenueByMonth = append(rep.RevenueByMonth, domain.MonthRevenue{Month: month, Revenue: roundCents(revenue)})
	}
	slices.SortFunc(rep.RevenueByMonth, func(a, b domain.MonthRevenue) int {
		return cmp.Compare(a.Month, b.Month)
	})

	for _, key := range customerOrder {
		cr := byCustomer[key]
		cr.Revenue = roundCents(cr.Revenue)
		rep.TopCustomers = append(rep.TopCustomers, *cr)
	}
	slices.SortStableFunc(rep.TopCustomers, func(a, b domain.CustomerRevenue) int {
		return cmp.Compare(b.Revenue, a.Revenue)
	})
	if len(rep.TopCustomers) > TopCustomersShown {
		rep.TopCustomers = rep.TopCustomers[:TopCustomersShown]
	}
	return rep
}

// customerKey groups bookings by customer record, falling back to the
// snapshot name for walk-ins.
func customerKey(b domain.Booking) string {
	if b.CustomerID != nil {
		return "id:" + b.CustomerID.String()
	}
	if b.CustomerName != "" {
		return "name:" + b.CustomerName
	}
	return "unknown"
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
