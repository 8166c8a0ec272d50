package domain

import (
	"time"

	"github.com/google/uuid"
)

// Customer is a person or business that rents trailers.
// Bookings copy the customer's name and phone at booking time, so editing
// or deleting a customer never rewrites booking history.
type Customer struct {
	ID        uuid.UUID
	Name      string
	Phone     string
	Email     string
	Address   string
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CustomerPatch carries a partial update. Nil fields are left unchanged.
type CustomerPatch struct {
	Name    *string
	Phone   *string
	Email   *string
	Address *string
	Notes   *string
}

// Apply returns a copy of c with every non-nil patch field written over it.
func (p CustomerPatch) Apply(c Customer) Customer {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Phone != nil {
		c.Phone = *p.Phone
	}
	if p.Email != nil {
		c.Email = *p.Email
	}
	if p.Address != nil {
		c.Address = *p.Address
	}
	if p.Notes != nil {
		c.Notes = *p.Notes
	}
	return c
}
