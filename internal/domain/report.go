package domain

import (
	"time"

	"github.com/google/uuid"
)

// ReportRange names a preset reporting window.
type ReportRange string

const (
	RangeThisMonth ReportRange = "this-month"
	RangeLastMonth ReportRange = "last-month"
	RangeThisYear  ReportRange = "this-year"
	RangeLastYear  ReportRange = "last-year"
	RangeAllTime   ReportRange = "all-time"
	RangeCustom    ReportRange = "custom"
)

// Report summarizes revenue for the bookings whose start date falls in Range.
type Report struct {
	Preset           ReportRange
	Range            DateRange
	TotalRevenue     float64
	TotalBookings    int
	DaysRented       int
	AvgBookingValue  float64
	AvgBookingLength float64
	RevenueByTrailer []TrailerRevenue
	RevenueByMonth   []MonthRevenue
	TopCustomers     []CustomerRevenue
	Bookings         []Booking
}

// TrailerRevenue is one row of the per-trailer breakdown.
type TrailerRevenue struct {
	TrailerID uuid.UUID
	Name      string
	Bookings  int
	Days      int
	Revenue   float64
}

// MonthRevenue is revenue for one calendar month, keyed "2006-01".
type MonthRevenue struct {
	Month   string
	Revenue float64
}

// CustomerRevenue is one row of the top-customers table.
type CustomerRevenue struct {
	Name     string
	Bookings int
	Days     int
	Revenue  float64
}

// Dashboard is the at-a-glance view for a single day.
type Dashboard struct {
	Today          time.Time
	Pickups        []Booking
	Returns        []Booking
	Rentals        []ActiveRental
	Upcoming       []Booking
	UpcomingMore   int
	MonthBookings  int
	MonthRevenue   float64
	ActiveTrailers int
	RentedTrailers int
}

// ActiveRental is a booking currently out, with the days until it is due back.
// DaysLeft is negative when the rental is overdue.
type ActiveRental struct {
	Booking  Booking
	DaysLeft int
}

// Overdue reports whether the rental is past its end date.
func (r ActiveRental) Overdue() bool { return r.DaysLeft < 0 }
