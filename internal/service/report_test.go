package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glirentals/rentals-admin/internal/domain"
	"github.com/glirentals/rentals-admin/internal/service"
)

func TestResolveRange(t *testing.T) {
	today := day(2024, time.March, 15)
	tests := []struct {
		preset     domain.ReportRange
		start, end time.Time
	}{
		{domain.RangeThisMonth, day(2024, time.March, 1), day(2024, time.March, 31)},
		{"", day(2024, time.March, 1), day(2024, time.March, 31)},
		{domain.RangeLastMonth, day(2024, time.February, 1), day(2024, time.February, 29)},
		{domain.RangeThisYear, day(2024, time.January, 1), day(2024, time.December, 31)},
		{domain.RangeLastYear, day(2023, time.January, 1), day(2023, time.December, 31)},
		{domain.RangeAllTime, day(2000, time.January, 1), day(2100, time.December, 31)},
	}
	for _, tc := range tests {
		t.Run(string(tc.preset), func(t *testing.T) {
			r, err := service.ResolveRange(tc.preset, today, nil)
			require.NoError(t, err)
			assert.Equal(t, tc.start, r.Start)
			assert.Equal(t, tc.end, r.End)
		})
	}
}

func TestResolveRange_LastMonthInJanuary(t *testing.T) {
	r, err := service.ResolveRange(domain.RangeLastMonth, day(2025, time.January, 10), nil)

	require.NoError(t, err)
	assert.Equal(t, day(2024, time.December, 1), r.Start)
	assert.Equal(t, day(2024, time.December, 31), r.End)
}

func TestResolveRange_Custom(t *testing.T) {
	custom := domain.DateRange{Start: day(2024, time.May, 5), End: day(2024, time.May, 9)}

	r, err := service.ResolveRange(domain.RangeCustom, time.Now(), &custom)
	require.NoError(t, err)
	assert.Equal(t, custom, r)

	_, err = service.ResolveRange(domain.RangeCustom, time.Now(), nil)
	assert.ErrorIs(t, err, domain.ErrValidation)

	inverted := domain.DateRange{Start: custom.End, End: custom.Start}
	_, err = service.ResolveRange(domain.RangeCustom, time.Now(), &inverted)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = service.ResolveRange("next-decade", time.Now(), nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestReportService_Build(t *testing.T) {
	t1, t2, idle := trailerFixture("T1"), trailerFixture("T2"), trailerFixture("Idle")
	jane := uuid.New()

	b1 := bookingFixture(t1.ID, "Jane Doe", day(2024, time.June, 28), day(2024, time.June, 30)) // 3 days
	b1.CustomerID = &jane
	b1.PriceQuoted = 200
	b2 := bookingFixture(t2.ID, "Jane D.", day(2024, time.July, 2), day(2024, time.July, 2)) // 1 day
	b2.CustomerID = &jane
	b2.PriceQuoted = 100.10
	b3 := bookingFixture(t1.ID, "Walk In", day(2024, time.July, 5), day(2024, time.July, 8)) // 4 days
	b3.PriceQuoted = 250.25

	r := domain.DateRange{Start: day(2024, time.June, 1), End: day(2024, time.July, 31)}
	svc := service.NewReportService(
		&mockTrailerRepo{list: func(_ context.Context, _ bool) ([]domain.Trailer, error) {
			return []domain.Trailer{t1, t2, idle}, nil
		}},
		&mockBookingRepo{listStartingIn: func(_ context.Context, got domain.DateRange) ([]domain.Booking, error) {
			assert.Equal(t, r, got)
			return []domain.Booking{b1, b2, b3}, nil
		}},
	)

	rep, err := svc.Build(context.Background(), domain.RangeCustom, r)

	require.NoError(t, err)
	assert.Equal(t, 550.35, rep.TotalRevenue)
	assert.Equal(t, 3, rep.TotalBookings)
	assert.Equal(t, 8, rep.DaysRented)
	assert.Equal(t, 183.45, rep.AvgBookingValue)
	assert.Equal(t, 2.7, rep.AvgBookingLength)

	require.Len(t, rep.RevenueByTrailer, 3, "idle trailers are listed with zero revenue")
	assert.Equal(t, "T1", rep.RevenueByTrailer[0].Name)
	assert.Equal(t, 450.25, rep.RevenueByTrailer[0].Revenue)
	assert.Equal(t, 7, rep.RevenueByTrailer[0].Days)
	assert.Equal(t, 2, rep.RevenueByTrailer[0].Bookings)
	assert.Equal(t, "Idle", rep.RevenueByTrailer[2].Name)
	assert.Zero(t, rep.RevenueByTrailer[2].Revenue)

	assert.Equal(t, []domain.MonthRevenue{
		{Month: "2024-06", Revenue: 200},
		{Month: "2024-07", Revenue: 350.35},
	}, rep.RevenueByMonth)

	require.Len(t, rep.TopCustomers, 2, "bookings group by customer id, not snapshot name")
	assert.Equal(t, "Jane Doe", rep.TopCustomers[0].Name)
	assert.Equal(t, 300.1, rep.TopCustomers[0].Revenue)
	assert.Equal(t, 2, rep.TopCustomers[0].Bookings)
	assert.Equal(t, "Walk In", rep.TopCustomers[1].Name)
}

func TestReportService_Build_Empty(t *testing.T) {
	svc := service.NewReportService(
		&mockTrailerRepo{list: func(_ context.Context, _ bool) ([]domain.Trailer, error) { return nil, nil }},
		&mockBookingRepo{listStartingIn: func(_ context.Context, _ domain.DateRange) ([]domain.Booking, error) { return nil, nil }},
	)

	rep, err := svc.Build(context.Background(), domain.RangeThisMonth, domain.DateRange{Start: day(2024, time.July, 1), End: day(2024, time.July, 31)})

	require.NoError(t, err)
	assert.Zero(t, rep.AvgBookingValue, "no division by zero")
	assert.NotNil(t, rep.Bookings)
	assert.NotNil(t, rep.RevenueByMonth)
	assert.NotNil(t, rep.TopCustomers)
}

func TestReportService_Build_TopCustomersCapped(t *testing.T) {
	tr := trailerFixture("T1")
	var bookings []domain.Booking
	for i := 0; i < 12; i++ {
		b := bookingFixture(tr.ID, fmt.Sprintf("Customer %02d", i), day(2024, time.July, 1), day(2024, time.July, 1))
		b.PriceQuoted = float64(10 * (i + 1))
		bookings = append(bookings, b)
	}
	svc := service.NewReportService(
		&mockTrailerRepo{list: func(_ context.Context, _ bool) ([]domain.Trailer, error) { return []domain.Trailer{tr}, nil }},
		&mockBookingRepo{listStartingIn: func(_ context.Context, _ domain.DateRange) ([]domain.Booking, error) { return bookings, nil }},
	)

	rep, err := svc.Build(context.Background(), domain.RangeThisMonth, domain.DateRange{Start: day(2024, time.July, 1), End: day(2024, time.July, 31)})

	require.NoError(t, err)
	require.Len(t, rep.TopCustomers, service.TopCustomersShown)
	assert.Equal(t, "Customer 11", rep.TopCustomers[0].Name)
	assert.Equal(t, 120.0, rep.TopCustomers[0].Revenue)
}
