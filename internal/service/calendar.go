package service

import (
	"context"
	"fmt"
	"time"

	"github.com/glirentals/rentals-admin/internal/calendar"
	"github.com/glirentals/rentals-admin/internal/domain"
	"github.com/glirentals/rentals-admin/internal/repo"
)

// CalendarView is a laid-out month plus its flattened bars.
type CalendarView struct {
	Month calendar.Month
	Bars  []calendar.Bar
}

// CalendarService builds the month grid from fresh reads.
type CalendarService struct {
	trailers repo.TrailerRepo
	bookings repo.BookingRepo
	now      func() time.Time
}

// NewCalendarService constructs a CalendarService backed by the provided repos.
func NewCalendarService(trailers repo.TrailerRepo, bookings repo.BookingRepo) *CalendarService {
	return &CalendarService{trailers: trailers, bookings: bookings, now: time.Now}
}

// Month lays out year/month with one row per trailer in display order.
//
// The reads are detached from ctx so a navigation that supersedes this one
// does not leave a half-read transaction behind. If ctx is done by the time
// the reads return the result is obsolete: layout is skipped and
// context.Canceled (or the deadline error) is returned.
func (s *CalendarService) Month(ctx context.Context, year int, month time.Month) (CalendarView, error) {
	if month < time.January || month > time.December {
		return CalendarView{}, fmt.Errorf("%w: month must be 1-12", domain.ErrValidation)
	}
	if year < 1 || year > 9999 {
		return CalendarView{}, fmt.Errorf("%w: year out of range", domain.ErrValidation)
	}

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	visible := domain.DateRange{Start: first, End: first.AddDate(0, 1, -1)}

	fetchCtx := context.WithoutCancel(ctx)
	trailers, err := s.trailers.List(fetchCtx, false)
	if err != nil {
		return CalendarView{}, fmt.Errorf("service.CalendarService.Month: %w", err)
	}
	bookings, err := s.bookings.ListInRange(fetchCtx, visible)
	if err != nil {
		return CalendarView{}, fmt.Errorf("service.CalendarService.Month: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return CalendarView{}, err
	}

	m := calendar.Layout(year, month, trailers, bookings, s.now())
	return CalendarView{Month: m, Bars: calendar.Bars(m)}, nil
}
