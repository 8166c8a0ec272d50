package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glirentals/rentals-admin/internal/calendar"
	"github.com/glirentals/rentals-admin/internal/domain"
	"github.com/glirentals/rentals-admin/internal/service"
)

func TestCalendarService_Month(t *testing.T) {
	t1, t2 := trailerFixture("T1"), trailerFixture("T2")
	jane := bookingFixture(t2.ID, "Jane Doe", day(2024, time.July, 10), day(2024, time.July, 12))
	var read domain.DateRange

	svc := service.NewCalendarService(
		&mockTrailerRepo{list: func(_ context.Context, activeOnly bool) ([]domain.Trailer, error) {
			assert.False(t, activeOnly)
			return []domain.Trailer{t1, t2}, nil
		}},
		&mockBookingRepo{listInRange: func(_ context.Context, r domain.DateRange) ([]domain.Booking, error) {
			read = r
			return []domain.Booking{jane}, nil
		}},
	)

	view, err := svc.Month(context.Background(), 2024, time.July)

	require.NoError(t, err)
	assert.Equal(t, day(2024, time.July, 1), read.Start)
	assert.Equal(t, day(2024, time.July, 31), read.End)
	require.Len(t, view.Month.Rows, 2)
	assert.Equal(t, calendar.Palette[1], view.Month.Rows[1].Color)
	require.Len(t, view.Bars, 1)
	assert.Equal(t, jane.ID, view.Bars[0].BookingID)
	assert.Equal(t, 3, view.Bars[0].Days)
}

func TestCalendarService_Month_InvalidMonth(t *testing.T) {
	svc := service.NewCalendarService(&mockTrailerRepo{}, &mockBookingRepo{})

	_, err := svc.Month(context.Background(), 2024, 13)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCalendarService_Month_SupersededRequest(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	fetched := false

	svc := service.NewCalendarService(
		&mockTrailerRepo{list: func(fetchCtx context.Context, _ bool) ([]domain.Trailer, error) {
			// the user navigates away while the read is in flight
			cancel()
			assert.NoError(t, fetchCtx.Err(), "reads are detached from request cancellation")
			return []domain.Trailer{trailerFixture("T1")}, nil
		}},
		&mockBookingRepo{listInRange: func(fetchCtx context.Context, _ domain.DateRange) ([]domain.Booking, error) {
			fetched = true
			assert.NoError(t, fetchCtx.Err())
			return nil, nil
		}},
	)

	view, err := svc.Month(ctx, 2024, time.July)

	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, fetched)
	assert.Empty(t, view.Month.Weeks, "obsolete result is not laid out")
}
