package service

import (
	"context"
	"fmt"
	"time"

	"github.com/glirentals/rentals-admin/internal/domain"
	"github.com/glirentals/rentals-admin/internal/repo"
)

// Dashboard window sizes.
const (
	UpcomingDays  = 7
	UpcomingShown = 8
)

// DashboardService builds the at-a-glance view for one day.
type DashboardService struct {
	trailers repo.TrailerRepo
	bookings repo.BookingRepo
}

// NewDashboardService constructs a DashboardService backed by the provided repos.
func NewDashboardService(trailers repo.TrailerRepo, bookings repo.BookingRepo) *DashboardService {
	return &DashboardService{trailers: trailers, bookings: bookings}
}

// Get returns the dashboard for today.
func (s *DashboardService) Get(ctx context.Context, today time.Time) (domain.Dashboard, error) {
	today = domain.DateOf(today)
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	month := domain.DateRange{Start: monthStart, End: monthStart.AddDate(0, 1, -1)}
	week := domain.DateRange{Start: today, End: today.AddDate(0, 0, UpcomingDays)}

	trailers, err := s.trailers.List(ctx, true)
	if err != nil {
		return domain.Dashboard{}, fmt.Errorf("service.DashboardService.Get: %w", err)
	}
	// one read covering everything the dashboard looks at
	window := domain.DateRange{Start: minDate(month.Start, today), End: maxDate(month.End, week.End)}
	bookings, err := s.bookings.ListInRange(ctx, window)
	if err != nil {
		return domain.Dashboard{}, fmt.Errorf("service.DashboardService.Get: %w", err)
	}

	d := domain.Dashboard{
		Today:          today,
		Pickups:        []domain.Booking{},
		Returns:        []domain.Booking{},
		Rentals:        []domain.ActiveRental{},
		Upcoming:       []domain.Booking{},
		ActiveTrailers: len(trailers),
	}
	upcoming := []domain.Booking{}
	for _, b := range bookings {
		if b.StartDate.Equal(today) {
			d.Pickups = append(d.Pickups, b)
		}
		if b.EndDate.Equal(today) {
			d.Returns = append(d.Returns, b)
		}
		if b.Range().Contains(today) {
			d.Rentals = append(d.Rentals, domain.ActiveRental{Booking: b, DaysLeft: domain.DaysBetween(today, b.EndDate)})
		}
		if month.Contains(b.StartDate) {
			d.MonthBookings++
			d.MonthRevenue += b.PriceQuoted
		}
		if week.Contains(b.StartDate) {
			upcoming = append(upcoming, b)
		}
	}
	d.RentedTrailers = len(d.Rentals)
	d.MonthRevenue = roundCents(d.MonthRevenue)

	if len(upcoming) > UpcomingShown {
		d.UpcomingMore = len(upcoming) - UpcomingShown
		upcoming = upcoming[:UpcomingShown]
	}
	d.Upcoming = upcoming
	return d, nil
}

func minDate(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}

func maxDate(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}
