package handler

import (
	"net/http"

	"github.com/glirentals/rentals-admin/internal/domain"
	"github.com/glirentals/rentals-admin/internal/service"
)

const bookingNotFound = "booking not found"

// ListBookings handles GET /bookings, ordered by start date.
// With ?start=&end= only bookings touching that range are returned.
func (s *Server) ListBookings(w http.ResponseWriter, r *http.Request) {
	rng, ok := bindRange(w, r, false)
	if !ok {
		return
	}
	bookings, err := s.svc.Bookings.List(r.Context(), rng)
	if err != nil {
		s.respondError(w, r, err, bookingNotFound)
		return
	}
	writeJSON(w, http.StatusOK, listResponse[bookingResponse]{Data: toBookingResponses(bookings)})
}

// CreateBooking handles POST /bookings.
// Returns 409 with the blocking bookings when the trailer is taken.
func (s *Server) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req bookingRequest
	if !s.decode(w, r, &req) {
		return
	}
	b, pricePerMile, icePrice := req.toDomain()
	created, err := s.svc.Bookings.Create(r.Context(), service.NewBooking{
		Booking:        b,
		PricePerMile:   pricePerMile,
		IcePricePerBag: icePrice,
		WalkIn:         req.WalkIn,
	})
	if err != nil {
		s.respondError(w, r, err, bookingNotFound)
		return
	}
	writeJSON(w, http.StatusCreated, toBookingResponse(created))
}

// QuoteBooking handles POST /bookings/quote: the price a booking with these
// pricing fields would be written with. Nothing is stored.
func (s *Server) QuoteBooking(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if !s.decode(w, r, &req) {
		return
	}
	q := s.svc.Bookings.Quote(domain.Pricing{
		RentalRate:     req.RentalRate,
		IceBagQty:      req.IceBagQty,
		RoundTripMiles: req.RoundTripMiles,
	}, req.PricePerMile, req.IcePricePerBag)
	writeJSON(w, http.StatusOK, toQuoteResponse(q))
}

// GetBooking handles GET /bookings/{id}.
func (s *Server) GetBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	b, err := s.svc.Bookings.GetByID(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err, bookingNotFound)
		return
	}
	writeJSON(w, http.StatusOK, toBookingResponse(b))
}

// UpdateBooking handles PATCH /bookings/{id}.
func (s *Server) UpdateBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req bookingPatchRequest
	if !s.decode(w, r, &req) {
		return
	}
	updated, err := s.svc.Bookings.Update(r.Context(), id, req.toDomain())
	if err != nil {
		s.respondError(w, r, err, bookingNotFound)
		return
	}
	writeJSON(w, http.StatusOK, toBookingResponse(updated))
}

// DeleteBooking handles DELETE /bookings/{id}.
func (s *Server) DeleteBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.svc.Bookings.Delete(r.Context(), id); err != nil {
		s.respondError(w, r, err, bookingNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
