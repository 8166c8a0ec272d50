package domain

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// BookingStatus is informational; every status blocks the trailer's dates.
type BookingStatus string

const (
	StatusConfirmed BookingStatus = "confirmed"
	StatusTentative BookingStatus = "tentative"
	StatusCompleted BookingStatus = "completed"
)

// Valid reports whether s is one of the known statuses.
func (s BookingStatus) Valid() bool {
	switch s {
	case StatusConfirmed, StatusTentative, StatusCompleted:
		return true
	}
	return false
}

// Ice bag sizes offered with a rental.
const (
	IceBag20lb = "20lb"
	IceBag7lb  = "7lb"
)

// Booking reserves one trailer for an inclusive range of calendar days.
//
// CustomerName and CustomerPhone are a snapshot taken when the booking is
// written. They are required even when CustomerID is nil (walk-in bookings)
// and they are not updated when the linked customer record changes, so they
// can drift from the live record.
type Booking struct {
	ID              uuid.UUID
	TrailerID       uuid.UUID
	CustomerID      *uuid.UUID
	CustomerName    string
	CustomerPhone   string
	StartDate       time.Time
	EndDate         time.Time
	DeliveryAddress string
	DeliveryTime    string
	PriceQuoted     float64
	Pricing         Pricing
	Notes           string
	Status          BookingStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Range returns the booking's inclusive date range.
func (b Booking) Range() DateRange {
	return DateRange{Start: b.StartDate, End: b.EndDate}
}

// Days returns the number of rental days, counting both ends.
func (b Booking) Days() int {
	return b.Range().Days()
}

// Pricing is the breakdown a quote is computed from.
type Pricing struct {
	RentalRate     float64
	IceBagSize     string
	IceBagQty      int
	IcePricePerBag float64
	RoundTripMiles float64
	PricePerMile   float64
}

// Quote is the computed price of a booking.
type Quote struct {
	RentalRate    float64
	IceTotal      float64
	BillableMiles float64
	MileageTotal  float64
	Total         float64
}

// Quote computes the price. The first freeMiles of the round trip are not billed.
func (p Pricing) Quote(freeMiles float64) Quote {
	billable := math.Max(0, p.RoundTripMiles-freeMiles)
	q := Quote{
		RentalRate:    p.RentalRate,
		IceTotal:      roundCents(float64(p.IceBagQty) * p.IcePricePerBag),
		BillableMiles: billable,
		MileageTotal:  roundCents(billable * p.PricePerMile),
	}
	q.Total = roundCents(q.RentalRate + q.IceTotal + q.MileageTotal)
	return q
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// BookingPatch carries a partial update. Nil fields are left unchanged.
type BookingPatch struct {
	TrailerID       *uuid.UUID
	CustomerID      *uuid.UUID
	CustomerName    *string
	CustomerPhone   *string
	StartDate       *time.Time
	EndDate         *time.Time
	DeliveryAddress *string
	DeliveryTime    *string
	RentalRate      *float64
	IceBagSize      *string
	IceBagQty       *int
	IcePricePerBag  *float64
	RoundTripMiles  *float64
	PricePerMile    *float64
	Notes           *string
	Status          *BookingStatus
}

// MovesSchedule reports whether the patch changes the trailer or the dates,
// which requires a fresh availability check.
func (p BookingPatch) MovesSchedule() bool {
	return p.TrailerID != nil || p.StartDate != nil || p.EndDate != nil
}

// ChangesPricing reports whether any field the quote depends on is set.
func (p BookingPatch) ChangesPricing() bool {
	return p.RentalRate != nil || p.IceBagQty != nil || p.IcePricePerBag != nil ||
		p.RoundTripMiles != nil || p.PricePerMile != nil
}

// Apply returns a copy of b with every non-nil patch field written over it.
func (p BookingPatch) Apply(b Booking) Booking {
	if p.TrailerID != nil {
		b.TrailerID = *p.TrailerID
	}
	if p.CustomerID != nil {
		id := *p.CustomerID
		b.CustomerID = &id
	}
	if p.CustomerName != nil {
		b.CustomerName = *p.CustomerName
	}
	if p.CustomerPhone != nil {
		b.CustomerPhone = *p.CustomerPhone
	}
	if p.StartDate != nil {
		b.StartDate = DateOf(*p.StartDate)
	}
	if p.EndDate != nil {
		b.EndDate = DateOf(*p.EndDate)
	}
	if p.DeliveryAddress != nil {
		b.DeliveryAddress = *p.DeliveryAddress
	}
	if p.DeliveryTime != nil {
		b.DeliveryTime = *p.DeliveryTime
	}
	if p.RentalRate != nil {
		b.Pricing.RentalRate = *p.RentalRate
	}
	if p.IceBagSize != nil {
		b.Pricing.IceBagSize = *p.IceBagSize
	}
	if p.IceBagQty != nil {
		b.Pricing.IceBagQty = *p.IceBagQty
	}
	if p.IcePricePerBag != nil {
		b.Pricing.IcePricePerBag = *p.IcePricePerBag
	}
	if p.RoundTripMiles != nil {
		b.Pricing.RoundTripMiles = *p.RoundTripMiles
	}
	if p.PricePerMile != nil {
		b.Pricing.PricePerMile = *p.PricePerMile
	}
	if p.Notes != nil {
		b.Notes = *p.Notes
	}
	if p.Status != nil {
		b.Status = *p.Status
	}
	return b
}
