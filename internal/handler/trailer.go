package handler

import (
	"net/http"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

const trailerNotFound = "trailer not found"

// ListTrailers handles GET /trailers. ?active=true drops retired trailers.
// Trailers come back in display order.
func (s *Server) ListTrailers(w http.ResponseWriter, r *http.Request) {
	var active *bool
	if !bindQuery(w, r.URL.Query(), "active", &active) {
		return
	}
	trailers, err := s.svc.Trailers.List(r.Context(), active != nil && *active)
	if err != nil {
		s.respondError(w, r, err, trailerNotFound)
		return
	}
	writeJSON(w, http.StatusOK, listResponse[trailerResponse]{Data: toTrailerResponses(trailers)})
}

// CreateTrailer handles POST /trailers.
func (s *Server) CreateTrailer(w http.ResponseWriter, r *http.Request) {
	var req trailerRequest
	if !s.decode(w, r, &req) {
		return
	}
	created, err := s.svc.Trailers.Create(r.Context(), req.toDomain())
	if err != nil {
		s.respondError(w, r, err, trailerNotFound)
		return
	}
	writeJSON(w, http.StatusCreated, toTrailerResponse(created))
}

// GetTrailer handles GET /trailers/{id}.
func (s *Server) GetTrailer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	t, err := s.svc.Trailers.GetByID(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err, trailerNotFound)
		return
	}
	writeJSON(w, http.StatusOK, toTrailerResponse(t))
}

// UpdateTrailer handles PATCH /trailers/{id}.
func (s *Server) UpdateTrailer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req trailerPatchRequest
	if !s.decode(w, r, &req) {
		return
	}
	updated, err := s.svc.Trailers.Update(r.Context(), id, req.toDomain())
	if err != nil {
		s.respondError(w, r, err, trailerNotFound)
		return
	}
	writeJSON(w, http.StatusOK, toTrailerResponse(updated))
}

// DeleteTrailer handles DELETE /trailers/{id}?confirm=delete.
// The trailer's bookings are deleted with it.
func (s *Server) DeleteTrailer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.svc.Trailers.Delete(r.Context(), id, r.URL.Query().Get("confirm")); err != nil {
		s.respondError(w, r, err, trailerNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ReorderTrailers handles PUT /trailers/order with the full ordered id list.
func (s *Server) ReorderTrailers(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.svc.Trailers.Reorder(r.Context(), req.IDs); err != nil {
		s.respondError(w, r, err, trailerNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetTrailerStatus handles GET /trailers/status?day=: every active trailer,
// rented or at the shop on that day (default today).
func (s *Server) GetTrailerStatus(w http.ResponseWriter, r *http.Request) {
	day, ok := s.bindDay(w, r, "day")
	if !ok {
		return
	}
	statuses, err := s.svc.Trailers.Status(r.Context(), day.Time)
	if err != nil {
		s.respondError(w, r, err, trailerNotFound)
		return
	}
	out := make([]trailerStatusResponse, len(statuses))
	for i, st := range statuses {
		out[i] = trailerStatusResponse{Trailer: toTrailerResponse(st.Trailer), Rented: st.Rented()}
		if st.Booking != nil {
			b := toBookingResponse(*st.Booking)
			out[i].Booking = &b
		}
	}
	writeJSON(w, http.StatusOK, listResponse[trailerStatusResponse]{Data: out})
}

// ListTrailerBookings handles GET /trailers/{id}/bookings?today=, grouped
// into past, current and future.
func (s *Server) ListTrailerBookings(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	today, ok := s.bindDay(w, r, "today")
	if !ok {
		return
	}
	tb, err := s.svc.Trailers.Bookings(r.Context(), id, today.Time)
	if err != nil {
		s.respondError(w, r, err, trailerNotFound)
		return
	}
	writeJSON(w, http.StatusOK, trailerBookingsResponse{
		Trailer: toTrailerResponse(tb.Trailer),
		Past:    toBookingResponses(tb.Past),
		Current: toBookingResponses(tb.Current),
		Future:  toBookingResponses(tb.Future),
	})
}

// GetTrailerAvailability handles
// GET /trailers/{id}/availability?start=&end=&exclude_booking_id=.
func (s *Server) GetTrailerAvailability(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	rng, ok := bindRange(w, r, true)
	if !ok {
		return
	}
	var exclude *openapi_types.UUID
	if !bindQuery(w, r.URL.Query(), "exclude_booking_id", &exclude) {
		return
	}
	res, err := s.svc.Availability.Check(r.Context(), id, *rng, exclude)
	if err != nil {
		s.respondError(w, r, err, trailerNotFound)
		return
	}
	writeJSON(w, http.StatusOK, trailerAvailabilityResponse{
		TrailerID: id,
		Start:     openapi_types.Date{Time: rng.Start},
		End:       openapi_types.Date{Time: rng.End},
		Available: res.Available,
		Conflicts: toBookingResponses(res.Conflicts),
	})
}
