// Package events publishes booking lifecycle events for downstream consumers
// (reminder senders, analytics). Publishing is best effort: the booking write
// has already committed when an event is sent.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/glirentals/rentals-admin/internal/domain"
)

// Event types.
const (
	BookingCreated = "booking.created"
	BookingUpdated = "booking.updated"
	BookingDeleted = "booking.deleted"
)

// Event is the envelope written to the bookings topic.
type Event struct {
	ID         uuid.UUID     `json:"event_id"`
	Type       string        `json:"event_type"`
	OccurredAt time.Time     `json:"occurred_at"`
	BookingID  uuid.UUID     `json:"booking_id"`
	TrailerID  uuid.UUID     `json:"trailer_id"`
	Booking    *BookingState `json:"booking,omitempty"`
}

// BookingState is the booking snapshot carried on created and updated events.
type BookingState struct {
	CustomerID    *uuid.UUID `json:"customer_id,omitempty"`
	CustomerName  string     `json:"customer_name"`
	CustomerPhone string     `json:"customer_phone,omitempty"`
	StartDate     string     `json:"start_date"`
	EndDate       string     `json:"end_date"`
	DeliveryTime  string     `json:"delivery_time,omitempty"`
	PriceQuoted   float64    `json:"price_quoted"`
	Status        string     `json:"status"`
}

// NewBookingEvent builds an event for b. Deleted events carry no snapshot.
func NewBookingEvent(eventType string, b domain.Booking, now time.Time) Event {
	e := Event{
		ID:         uuid.New(),
		Type:       eventType,
		OccurredAt: now.UTC(),
		BookingID:  b.ID,
		TrailerID:  b.TrailerID,
	}
	if eventType != BookingDeleted {
		e.Booking = &BookingState{
			CustomerID:    b.CustomerID,
			CustomerName:  b.CustomerName,
			CustomerPhone: b.CustomerPhone,
			StartDate:     domain.FormatDate(b.StartDate),
			EndDate:       domain.FormatDate(b.EndDate),
			DeliveryTime:  b.DeliveryTime,
			PriceQuoted:   b.PriceQuoted,
			Status:        string(b.Status),
		}
	}
	return e
}

// Publisher sends events somewhere.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// Nop discards every event. It is used when no brokers are configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }
