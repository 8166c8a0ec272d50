package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/glirentals/rentals-admin/internal/availability"
	"github.com/glirentals/rentals-admin/internal/calendar"
	"github.com/glirentals/rentals-admin/internal/domain"
)

// --- availability -----------------------------------------------------------

type bookedTrailerResponse struct {
	Trailer   trailerResponse   `json:"trailer"`
	Conflict  bookingResponse   `json:"conflict"`
	Conflicts []bookingResponse `json:"conflicts"`
}

type partitionResponse struct {
	Start     openapi_types.Date      `json:"start"`
	End       openapi_types.Date      `json:"end"`
	Available []trailerResponse       `json:"available"`
	Booked    []bookedTrailerResponse `json:"booked"`
}

func toPartitionResponse(res availability.Result) partitionResponse {
	out := partitionResponse{
		Start:     openapi_types.Date{Time: res.Range.Start},
		End:       openapi_types.Date{Time: res.Range.End},
		Available: toTrailerResponses(res.Available),
		Booked:    make([]bookedTrailerResponse, len(res.Booked)),
	}
	for i, b := range res.Booked {
		out.Booked[i] = bookedTrailerResponse{
			Trailer:   toTrailerResponse(b.Trailer),
			Conflict:  toBookingResponse(b.Conflict),
			Conflicts: toBookingResponses(b.Conflicts),
		}
	}
	return out
}

// GetAvailability handles GET /availability?start=&end=: every active
// trailer, split into free and booked for the whole range.
func (s *Server) GetAvailability(w http.ResponseWriter, r *http.Request) {
	rng, ok := bindRange(w, r, true)
	if !ok {
		return
	}
	res, err := s.svc.Availability.Partition(r.Context(), *rng)
	if err != nil {
		s.respondError(w, r, err, trailerNotFound)
		return
	}
	writeJSON(w, http.StatusOK, toPartitionResponse(res))
}

// --- calendar ---------------------------------------------------------------

type calendarRowResponse struct {
	Index     int       `json:"index"`
	TrailerID uuid.UUID `json:"trailer_id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
}

type segmentResponse struct {
	BookingID uuid.UUID `json:"booking_id"`
	TrailerID uuid.UUID `json:"trailer_id"`
	Kind      string    `json:"kind"`
	Color     string    `json:"color"`
	Label     string    `json:"label"`
	Title     string    `json:"title"`
}

type cellResponse struct {
	Row     int              `json:"row"`
	Segment *segmentResponse `json:"segment"`
}

type dayResponse struct {
	Blank bool                `json:"blank"`
	Date  *openapi_types.Date `json:"date,omitempty"`
	Day   int                 `json:"day,omitempty"`
	Today bool                `json:"today,omitempty"`
	Cells []cellResponse      `json:"cells,omitempty"`
}

type barResponse struct {
	BookingID   uuid.UUID          `json:"booking_id"`
	TrailerID   uuid.UUID          `json:"trailer_id"`
	Row         int                `json:"row"`
	Color       string             `json:"color"`
	Title       string             `json:"title"`
	Start       openapi_types.Date `json:"start"`
	End         openapi_types.Date `json:"end"`
	Days        int                `json:"days"`
	ClipsBefore bool               `json:"clips_before"`
	ClipsAfter  bool               `json:"clips_after"`
}

type calendarResponse struct {
	Year  int                   `json:"year"`
	Month int                   `json:"month"`
	Rows  []calendarRowResponse `json:"rows"`
	Weeks [][]dayResponse       `json:"weeks"`
	Bars  []barResponse         `json:"bars"`
}

func toCalendarResponse(m calendar.Month, bars []calendar.Bar) calendarResponse {
	out := calendarResponse{
		Year:  m.Year,
		Month: int(m.Month),
		Rows:  make([]calendarRowResponse, len(m.Rows)),
		Weeks: make([][]dayResponse, len(m.Weeks)),
		Bars:  make([]barResponse, len(bars)),
	}
	for i, row := range m.Rows {
		out.Rows[i] = calendarRowResponse{Index: row.Index, TrailerID: row.TrailerID, Name: row.Name, Color: row.Color}
	}
	for i, week := range m.Weeks {
		days := make([]dayResponse, len(week))
		for j, d := range week {
			days[j] = toDayResponse(d)
		}
		out.Weeks[i] = days
	}
	for i, b := range bars {
		out.Bars[i] = barResponse{
			BookingID:   b.BookingID,
			TrailerID:   b.TrailerID,
			Row:         b.Row,
			Color:       b.Color,
			Title:       b.Title,
			Start:       openapi_types.Date{Time: b.Start},
			End:         openapi_types.Date{Time: b.End},
			Days:        b.Days,
			ClipsBefore: b.ClipsBefore,
			ClipsAfter:  b.ClipsAfter,
		}
	}
	return out
}

func toDayResponse(d calendar.Day) dayResponse {
	if d.Blank {
		return dayResponse{Blank: true}
	}
	out := dayResponse{
		Date:  &openapi_types.Date{Time: d.Date},
		Day:   d.Day,
		Today: d.Today,
		Cells: make([]cellResponse, len(d.Cells)),
	}
	for i, c := range d.Cells {
		out.Cells[i] = cellResponse{Row: c.Row}
		if seg := c.Segment; seg != nil {
			out.Cells[i].Segment = &segmentResponse{
				BookingID: seg.BookingID,
				TrailerID: seg.TrailerID,
				Kind:      string(seg.Kind),
				Color:     seg.Color,
				Label:     seg.Label,
				Title:     seg.Title,
			}
		}
	}
	return out
}

// GetCalendar handles GET /calendar?year=&month= (default: this month).
// A request abandoned by the client while its reads were in flight gets no
// response at all; the newer request answers instead.
func (s *Server) GetCalendar(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var year, month *int
	if !bindQuery(w, q, "year", &year) || !bindQuery(w, q, "month", &month) {
		return
	}
	today := s.today()
	y, m := today.Year(), int(today.Month())
	if year != nil {
		y = *year
	}
	if month != nil {
		m = *month
	}

	view, err := s.svc.Calendar.Month(r.Context(), y, time.Month(m))
	if errors.Is(err, context.Canceled) {
		s.log.DebugContext(r.Context(), "calendar request superseded", "year", y, "month", m)
		return
	}
	if err != nil {
		s.respondError(w, r, err, "calendar not found")
		return
	}
	writeJSON(w, http.StatusOK, toCalendarResponse(view.Month, view.Bars))
}

// --- dashboard --------------------------------------------------------------

type activeRentalResponse struct {
	Booking  bookingResponse `json:"booking"`
	DaysLeft int             `json:"days_left"`
	Overdue  bool            `json:"overdue"`
}

type dashboardResponse struct {
	Today          openapi_types.Date     `json:"today"`
	Pickups        []bookingResponse      `json:"pickups"`
	Returns        []bookingResponse      `json:"returns"`
	Rentals        []activeRentalResponse `json:"rentals"`
	Upcoming       []bookingResponse      `json:"upcoming"`
	UpcomingMore   int                    `json:"upcoming_more"`
	MonthBookings  int                    `json:"month_bookings"`
	MonthRevenue   float64                `json:"month_revenue"`
	ActiveTrailers int                    `json:"active_trailers"`
	RentedTrailers int                    `json:"rented_trailers"`
}

func toDashboardResponse(d domain.Dashboard) dashboardResponse {
	rentals := make([]activeRentalResponse, len(d.Rentals))
	for i, ar := range d.Rentals {
		rentals[i] = activeRentalResponse{
			Booking:  toBookingResponse(ar.Booking),
			DaysLeft: ar.DaysLeft,
			Overdue:  ar.Overdue(),
		}
	}
	return dashboardResponse{
		Today:          openapi_types.Date{Time: d.Today},
		Pickups:        toBookingResponses(d.Pickups),
		Returns:        toBookingResponses(d.Returns),
		Rentals:        rentals,
		Upcoming:       toBookingResponses(d.Upcoming),
		UpcomingMore:   d.UpcomingMore,
		MonthBookings:  d.MonthBookings,
		MonthRevenue:   d.MonthRevenue,
		ActiveTrailers: d.ActiveTrailers,
		RentedTrailers: d.RentedTrailers,
	}
}

// GetDashboard handles GET /dashboard?today= (default: the server's today).
func (s *Server) GetDashboard(w http.ResponseWriter, r *http.Request) {
	today, ok := s.bindDay(w, r, "today")
	if !ok {
		return
	}
	d, err := s.svc.Dashboard.Get(r.Context(), today.Time)
	if err != nil {
		s.respondError(w, r, err, "dashboard not found")
		return
	}
	writeJSON(w, http.StatusOK, toDashboardResponse(d))
}
