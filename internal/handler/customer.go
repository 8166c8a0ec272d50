package handler

import (
	"net/http"

	"github.com/glirentals/rentals-admin/internal/domain"
)

const customerNotFound = "customer not found"

// ListCustomers handles GET /customers.
// With ?q= it returns up to ten name/phone/email matches for the booking
// form's autocomplete; otherwise it pages through all customers by name
// with ?page= and ?limit= (defaults: page=1, limit=50, max=200).
func (s *Server) ListCustomers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Has("q") {
		found, err := s.svc.Customers.Search(r.Context(), q.Get("q"))
		if err != nil {
			s.respondError(w, r, err, customerNotFound)
			return
		}
		writeJSON(w, http.StatusOK, listResponse[customerResponse]{Data: toCustomerResponses(found)})
		return
	}

	var page, limit *int
	if !bindQuery(w, q, "page", &page) || !bindQuery(w, q, "limit", &limit) {
		return
	}
	result, err := s.svc.Customers.List(r.Context(), domain.NewPaginationParams(page, limit))
	if err != nil {
		s.respondError(w, r, err, customerNotFound)
		return
	}
	writeJSON(w, http.StatusOK, pagedResponse[customerResponse]{
		Data: toCustomerResponses(result.Items),
		Pagination: pagination{
			Page:  result.Page,
			Limit: result.Limit,
			Total: result.Total,
		},
	})
}

// CreateCustomer handles POST /customers.
func (s *Server) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if !s.decode(w, r, &req) {
		return
	}
	created, err := s.svc.Customers.Create(r.Context(), req.toDomain())
	if err != nil {
		s.respondError(w, r, err, customerNotFound)
		return
	}
	writeJSON(w, http.StatusCreated, toCustomerResponse(created))
}

// GetCustomer handles GET /customers/{id}.
func (s *Server) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	c, err := s.svc.Customers.GetByID(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err, customerNotFound)
		return
	}
	writeJSON(w, http.StatusOK, toCustomerResponse(c))
}

// UpdateCustomer handles PATCH /customers/{id}. Existing bookings keep the
// name and phone they were written with.
func (s *Server) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req customerPatchRequest
	if !s.decode(w, r, &req) {
		return
	}
	updated, err := s.svc.Customers.Update(r.Context(), id, req.toDomain())
	if err != nil {
		s.respondError(w, r, err, customerNotFound)
		return
	}
	writeJSON(w, http.StatusOK, toCustomerResponse(updated))
}

// DeleteCustomer handles DELETE /customers/{id}. Bookings survive with
// their customer snapshot and no link.
func (s *Server) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.svc.Customers.Delete(r.Context(), id); err != nil {
		s.respondError(w, r, err, customerNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListCustomerBookings handles GET /customers/{id}/bookings, newest first.
func (s *Server) ListCustomerBookings(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	bookings, err := s.svc.Customers.Bookings(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err, customerNotFound)
		return
	}
	writeJSON(w, http.StatusOK, listResponse[bookingResponse]{Data: toBookingResponses(bookings)})
}
