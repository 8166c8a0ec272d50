// Package domain contains the core data types for the trailer rental admin API.
// This package has no dependencies beyond uuid and is imported by every other
// internal package (availability, calendar, repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// DefaultCategory is assigned to trailers created without a category tag.
const DefaultCategory = "default"

// Trailer is a unit of rentable equipment.
// Inactive trailers are retired: they keep their history but are excluded
// from availability checks. SortOrder is the user-controlled display order
// and also fixes each trailer's calendar row and color.
type Trailer struct {
	ID         uuid.UUID
	Name       string
	Category   string
	Identifier string // plate or serial, optional
	Notes      string
	Active     bool
	SortOrder  int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TrailerPatch carries a partial update. Nil fields are left unchanged.
type TrailerPatch struct {
	Name       *string
	Category   *string
	Identifier *string
	Notes      *string
	Active     *bool
}

// Apply returns a copy of t with every non-nil patch field written over it.
func (p TrailerPatch) Apply(t Trailer) Trailer {
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.Identifier != nil {
		t.Identifier = *p.Identifier
	}
	if p.Notes != nil {
		t.Notes = *p.Notes
	}
	if p.Active != nil {
		t.Active = *p.Active
	}
	return t
}

// TrailerStatus pairs a trailer with the booking covering a given day.
// Booking is nil when the trailer is at the shop.
type TrailerStatus struct {
	Trailer Trailer
	Booking *Booking
}

// Rented reports whether the trailer is out on a booking.
func (s TrailerStatus) Rented() bool { return s.Booking != nil }

// TrailerBookings groups a trailer's bookings relative to a reference day.
type TrailerBookings struct {
	Trailer Trailer
	Past    []Booking
	Current []Booking
	Future  []Booking
}
