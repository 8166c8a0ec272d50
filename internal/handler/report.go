package handler

import (
	"net/http"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/glirentals/rentals-admin/internal/domain"
	"github.com/glirentals/rentals-admin/internal/service"
)

type trailerRevenueResponse struct {
	TrailerID uuid.UUID `json:"trailer_id"`
	Name      string    `json:"name"`
	Bookings  int       `json:"bookings"`
	Days      int       `json:"days"`
	Revenue   float64   `json:"revenue"`
}

type monthRevenueResponse struct {
	Month   string  `json:"month"`
	Revenue float64 `json:"revenue"`
}

type customerRevenueResponse struct {
	Name     string  `json:"name"`
	Bookings int     `json:"bookings"`
	Days     int     `json:"days"`
	Revenue  float64 `json:"revenue"`
}

type reportResponse struct {
	Range            string                    `json:"range"`
	Start            openapi_types.Date        `json:"start"`
	End              openapi_types.Date        `json:"end"`
	TotalRevenue     float64                   `json:"total_revenue"`
	TotalBookings    int                       `json:"total_bookings"`
	DaysRented       int                       `json:"days_rented"`
	AvgBookingValue  float64                   `json:"avg_booking_value"`
	AvgBookingLength float64                   `json:"avg_booking_length"`
	RevenueByTrailer []trailerRevenueResponse  `json:"revenue_by_trailer"`
	RevenueByMonth   []monthRevenueResponse    `json:"revenue_by_month"`
	TopCustomers     []customerRevenueResponse `json:"top_customers"`
	Bookings         []bookingResponse         `json:"bookings"`
}

func toReportResponse(rep domain.Report) reportResponse {
	out := reportResponse{
		Range:            string(rep.Preset),
		Start:            openapi_types.Date{Time: rep.Range.Start},
		End:              openapi_types.Date{Time: rep.Range.End},
		TotalRevenue:     rep.TotalRevenue,
		TotalBookings:    rep.TotalBookings,
		DaysRented:       rep.DaysRented,
		AvgBookingValue:  rep.AvgBookingValue,
		AvgBookingLength: rep.AvgBookingLength,
		RevenueByTrailer: make([]trailerRevenueResponse, len(rep.RevenueByTrailer)),
		RevenueByMonth:   make([]monthRevenueResponse, len(rep.RevenueByMonth)),
		TopCustomers:     make([]customerRevenueResponse, len(rep.TopCustomers)),
		Bookings:         toBookingResponses(rep.Bookings),
	}
	for i, t := range rep.RevenueByTrailer {
		out.RevenueByTrailer[i] = trailerRevenueResponse(t)
	}
	for i, m := range rep.RevenueByMonth {
		out.RevenueByMonth[i] = monthRevenueResponse(m)
	}
	for i, c := range rep.TopCustomers {
		out.TopCustomers[i] = customerRevenueResponse(c)
	}
	return out
}

// reportRange resolves ?range= (preset, default this-month) plus the
// ?start=&end= pair used by the custom preset.
func (s *Server) reportRange(w http.ResponseWriter, r *http.Request) (domain.ReportRange, domain.DateRange, bool) {
	custom, ok := bindRange(w, r, false)
	if !ok {
		return "", domain.DateRange{}, false
	}
	preset := domain.ReportRange(r.URL.Query().Get("range"))
	if preset == "" {
		preset = domain.RangeThisMonth
	}
	rng, err := service.ResolveRange(preset, s.today(), custom)
	if err != nil {
		requestError(w, unwrapMessage(err))
		return "", domain.DateRange{}, false
	}
	return preset, rng, true
}

// GetReport handles GET /reports?range=&start=&end=.
// Bookings count toward the range their start date falls in.
func (s *Server) GetReport(w http.ResponseWriter, r *http.Request) {
	preset, rng, ok := s.reportRange(w, r)
	if !ok {
		return
	}
	rep, err := s.svc.Reports.Build(r.Context(), preset, rng)
	if err != nil {
		s.respondError(w, r, err, "report not found")
		return
	}
	writeJSON(w, http.StatusOK, toReportResponse(rep))
}
