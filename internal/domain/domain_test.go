package domain_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glirentals/rentals-admin/internal/domain"
)

func day(s string) time.Time {
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

// ---- DateRange -------------------------------------------------------------

func TestParseDateRange_SingleDay(t *testing.T) {
	r, err := domain.ParseDateRange("2024-06-01", "2024-06-01")

	require.NoError(t, err)
	assert.Equal(t, 1, r.Days())
	assert.True(t, r.Contains(day("2024-06-01")))
}

func TestParseDateRange_EndBeforeStart(t *testing.T) {
	_, err := domain.ParseDateRange("2024-06-03", "2024-06-01")

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestParseDateRange_Malformed(t *testing.T) {
	_, err := domain.ParseDateRange("2024-6-1", "2024-06-01")

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestDateRange_DaysSpansMonthBoundary(t *testing.T) {
	r, err := domain.ParseDateRange("2024-02-28", "2024-03-01")

	require.NoError(t, err)
	assert.Equal(t, 3, r.Days(), "2024 is a leap year")
	assert.Equal(t, "2024-02-28..2024-03-01", r.String())
}

func TestDateOf_DropsClockAndZone(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	in := time.Date(2024, 7, 10, 23, 30, 0, 0, loc)

	assert.Equal(t, day("2024-07-10"), domain.DateOf(in))
}

// ---- Pricing ---------------------------------------------------------------

func TestPricing_Quote(t *testing.T) {
	p := domain.Pricing{
		RentalRate:     150,
		IceBagSize:     domain.IceBag20lb,
		IceBagQty:      4,
		IcePricePerBag: 5.5,
		RoundTripMiles: 60,
		PricePerMile:   1.25,
	}

	q := p.Quote(20)

	assert.Equal(t, 22.0, q.IceTotal)
	assert.Equal(t, 40.0, q.BillableMiles)
	assert.Equal(t, 50.0, q.MileageTotal)
	assert.Equal(t, 222.0, q.Total)
}

func TestPricing_Quote_MilesUnderFreeAllowance(t *testing.T) {
	p := domain.Pricing{RentalRate: 100, RoundTripMiles: 12, PricePerMile: 1.25}

	q := p.Quote(20)

	assert.Zero(t, q.BillableMiles)
	assert.Zero(t, q.MileageTotal)
	assert.Equal(t, 100.0, q.Total)
}

func TestPricing_Quote_RoundsToCents(t *testing.T) {
	p := domain.Pricing{IceBagQty: 3, IcePricePerBag: 3.333}

	q := p.Quote(20)

	assert.Equal(t, 10.0, q.IceTotal)
}

// ---- BookingPatch ----------------------------------------------------------

func TestBookingPatch_Apply(t *testing.T) {
	b := domain.Booking{
		ID:           uuid.New(),
		TrailerID:    uuid.New(),
		CustomerName: "Jane Doe",
		StartDate:    day("2024-07-10"),
		EndDate:      day("2024-07-12"),
		Status:       domain.StatusConfirmed,
	}
	newEnd := time.Date(2024, 7, 14, 15, 0, 0, 0, time.UTC)
	notes := "gate code 1234"

	patch := domain.BookingPatch{EndDate: &newEnd, Notes: &notes}
	got := patch.Apply(b)

	assert.Equal(t, day("2024-07-14"), got.EndDate, "dates are normalized to midnight")
	assert.Equal(t, "gate code 1234", got.Notes)
	assert.Equal(t, "Jane Doe", got.CustomerName)
	assert.True(t, patch.MovesSchedule())
	assert.False(t, patch.ChangesPricing())
}

// ---- DeliveryTime ----------------------------------------------------------

func TestParseDeliveryTime(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		window bool
	}{
		{in: "9:00 AM", want: "9:00 AM"},
		{in: "09:05 pm", want: "9:05 PM"},
		{in: "12:00 AM", want: "12:00 AM"},
		{in: "12:30 PM", want: "12:30 PM"},
		{in: "9:00 AM - 11:30 AM", want: "9:00 AM - 11:30 AM", window: true},
		{in: " 8:15AM - 1:00 PM ", want: "8:15 AM - 1:00 PM", window: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := domain.ParseDeliveryTime(tt.in)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
			assert.Equal(t, tt.window, got.IsWindow())
		})
	}
}

func TestParseDeliveryTime_Invalid(t *testing.T) {
	for _, in := range []string{"noon", "13:00 PM", "9:75 AM", "9:00", "11:00 AM - 9:00 AM"} {
		t.Run(in, func(t *testing.T) {
			_, err := domain.ParseDeliveryTime(in)

			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestNormalizeDeliveryTime_Blank(t *testing.T) {
	got, err := domain.NormalizeDeliveryTime("   ")

	require.NoError(t, err)
	assert.Empty(t, got)
}

// ---- ConflictError ---------------------------------------------------------

func TestConflictError_UnwrapsToErrConflict(t *testing.T) {
	err := &domain.ConflictError{
		TrailerID: "T1",
		Range:     domain.DateRange{Start: day("2024-07-11"), End: day("2024-07-11")},
		Conflicts: []domain.Booking{{CustomerName: "Jane Doe", StartDate: day("2024-07-10"), EndDate: day("2024-07-12")}},
	}

	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Contains(t, err.Error(), "Jane Doe (2024-07-10..2024-07-12)")
}

// ---- Pagination ------------------------------------------------------------

func TestNewPaginationParams(t *testing.T) {
	page, limit := 3, 1000

	p := domain.NewPaginationParams(&page, &limit)

	assert.Equal(t, 3, p.Page)
	assert.Equal(t, domain.MaxPageLimit, p.Limit)
	assert.Equal(t, 2*domain.MaxPageLimit, p.Offset())

	def := domain.NewPaginationParams(nil, nil)
	assert.Equal(t, domain.PaginationParams{Page: 1, Limit: domain.DefaultPageLimit}, def)
}
