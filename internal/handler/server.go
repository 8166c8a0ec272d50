// Package handler implements the HTTP handlers for the rentals admin API.
// All handlers are methods on Server. Methods are split into resource files
// (trailer.go, booking.go, etc.) but share the same Server struct so they can
// reach its dependencies. Routes mounts them on a chi router.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/glirentals/rentals-admin/internal/availability"
	"github.com/glirentals/rentals-admin/internal/config"
	"github.com/glirentals/rentals-admin/internal/domain"
	"github.com/glirentals/rentals-admin/internal/service"
)

// TrailerServicer defines the trailer operations the handlers depend on.
// Interfaces live here, in the consumer package, so handler tests can inject
// mocks without touching the database or service layer.
type TrailerServicer interface {
	Create(ctx context.Context, t domain.Trailer) (domain.Trailer, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trailer, error)
	List(ctx context.Context, activeOnly bool) ([]domain.Trailer, error)
	Update(ctx context.Context, id uuid.UUID, patch domain.TrailerPatch) (domain.Trailer, error)
	Delete(ctx context.Context, id uuid.UUID, confirm string) error
	Reorder(ctx context.Context, ids []uuid.UUID) error
	Status(ctx context.Context, day time.Time) ([]domain.TrailerStatus, error)
	Bookings(ctx context.Context, id uuid.UUID, today time.Time) (domain.TrailerBookings, error)
}

// CustomerServicer defines the customer operations the handlers depend on.
type CustomerServicer interface {
	Create(ctx context.Context, c domain.Customer) (domain.Customer, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Customer, error)
	List(ctx context.Context, p domain.PaginationParams) (domain.Page[domain.Customer], error)
	Search(ctx context.Context, q string) ([]domain.Customer, error)
	Update(ctx context.Context, id uuid.UUID, patch domain.CustomerPatch) (domain.Customer, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Bookings(ctx context.Context, id uuid.UUID) ([]domain.Booking, error)
}

// BookingServicer defines the booking operations the handlers depend on.
type BookingServicer interface {
	Create(ctx context.Context, in service.NewBooking) (domain.Booking, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Booking, error)
	List(ctx context.Context, r *domain.DateRange) ([]domain.Booking, error)
	Update(ctx context.Context, id uuid.UUID, patch domain.BookingPatch) (domain.Booking, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Quote(p domain.Pricing, pricePerMile, icePricePerBag *float64) domain.Quote
}

// AvailabilityServicer answers availability questions.
type AvailabilityServicer interface {
	Check(ctx context.Context, trailerID uuid.UUID, r domain.DateRange, exclude *uuid.UUID) (service.TrailerAvailability, error)
	Partition(ctx context.Context, r domain.DateRange) (availability.Result, error)
}

// CalendarServicer lays out a month.
type CalendarServicer interface {
	Month(ctx context.Context, year int, month time.Month) (service.CalendarView, error)
}

// DashboardServicer builds the view for a single day.
type DashboardServicer interface {
	Get(ctx context.Context, today time.Time) (domain.Dashboard, error)
}

// ReportServicer summarizes revenue over a range.
type ReportServicer interface {
	Build(ctx context.Context, preset domain.ReportRange, r domain.DateRange) (domain.Report, error)
}

// ExportServicer flattens bookings for download.
type ExportServicer interface {
	Export(ctx context.Context, r domain.DateRange) ([]domain.ExportRow, error)
}

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Services bundles the Server's dependencies. A nil servicer is only safe
// when the routes that use it are never called (handler tests).
type Services struct {
	Trailers     TrailerServicer
	Customers    CustomerServicer
	Bookings     BookingServicer
	Availability AvailabilityServicer
	Calendar     CalendarServicer
	Dashboard    DashboardServicer
	Reports      ReportServicer
	Export       ExportServicer
	DB           Pinger
	Settings     config.Settings
}

// Server holds every handler of the API.
type Server struct {
	svc      Services
	log      *slog.Logger
	validate *validator.Validate
	now      func() time.Time
}

// NewServer constructs the Server. A nil logger falls back to slog.Default.
func NewServer(svc Services, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		svc:      svc,
		log:      log,
		validate: newValidator(),
		now:      time.Now,
	}
}

// WithClock replaces the clock used for "today" defaults. Tests use it to pin
// the date; production keeps time.Now.
func (s *Server) WithClock(now func() time.Time) *Server {
	s.now = now
	return s
}

// today is the current calendar day in UTC.
func (s *Server) today() time.Time {
	return domain.DateOf(s.now())
}

// Routes returns a chi router with every API route mounted.
// Route-aware middleware (logging, metrics) is registered by the caller on
// the parent router.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/readyz", s.GetReady)
	r.Get("/openapi.yaml", s.GetOpenAPI)
	r.Get("/settings", s.GetSettings)

	r.Route("/trailers", func(r chi.Router) {
		r.Get("/", s.ListTrailers)
		r.Post("/", s.CreateTrailer)
		r.Put("/order", s.ReorderTrailers)
		r.Get("/status", s.GetTrailerStatus)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetTrailer)
			r.Patch("/", s.UpdateTrailer)
			r.Delete("/", s.DeleteTrailer)
			r.Get("/bookings", s.ListTrailerBookings)
			r.Get("/availability", s.GetTrailerAvailability)
		})
	})

	r.Route("/customers", func(r chi.Router) {
		r.Get("/", s.ListCustomers)
		r.Post("/", s.CreateCustomer)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetCustomer)
			r.Patch("/", s.UpdateCustomer)
			r.Delete("/", s.DeleteCustomer)
			r.Get("/bookings", s.ListCustomerBookings)
		})
	})

	r.Route("/bookings", func(r chi.Router) {
		r.Get("/", s.ListBookings)
		r.Post("/", s.CreateBooking)
		r.Post("/quote", s.QuoteBooking)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetBooking)
			r.Patch("/", s.UpdateBooking)
			r.Delete("/", s.DeleteBooking)
		})
	})

	r.Get("/availability", s.GetAvailability)
	r.Get("/calendar", s.GetCalendar)
	r.Get("/dashboard", s.GetDashboard)
	r.Get("/reports", s.GetReport)
	r.Get("/reports/export", s.GetExport)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})

	return r
}
