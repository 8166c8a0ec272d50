package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/glirentals/rentals-admin/internal/availability"
	"github.com/glirentals/rentals-admin/internal/domain"
	"github.com/glirentals/rentals-admin/internal/handler"
	"github.com/glirentals/rentals-admin/internal/service"
)

// Each mock is a test double for one handler.XServicer.
// Set only the method fields your test needs.

type mockTrailerServicer struct {
	create   func(ctx context.Context, t domain.Trailer) (domain.Trailer, error)
	getByID  func(ctx context.Context, id uuid.UUID) (domain.Trailer, error)
	list     func(ctx context.Context, activeOnly bool) ([]domain.Trailer, error)
	update   func(ctx context.Context, id uuid.UUID, p domain.TrailerPatch) (domain.Trailer, error)
	delete   func(ctx context.Context, id uuid.UUID, confirm string) error
	reorder  func(ctx context.Context, ids []uuid.UUID) error
	status   func(ctx context.Context, day time.Time) ([]domain.TrailerStatus, error)
	bookings func(ctx context.Context, id uuid.UUID, today time.Time) (domain.TrailerBookings, error)
}

func (m *mockTrailerServicer) Create(ctx context.Context, t domain.Trailer) (domain.Trailer, error) {
	return m.create(ctx, t)
}
func (m *mockTrailerServicer) GetByID(ctx context.Context, id uuid.UUID) (domain.Trailer, error) {
	return m.getByID(ctx, id)
}
func (m *mockTrailerServicer) List(ctx context.Context, activeOnly bool) ([]domain.Trailer, error) {
	return m.list(ctx, activeOnly)
}
func (m *mockTrailerServicer) Update(ctx context.Context, id uuid.UUID, p domain.TrailerPatch) (domain.Trailer, error) {
	return m.update(ctx, id, p)
}
func (m *mockTrailerServicer) Delete(ctx context.Context, id uuid.UUID, confirm string) error {
	return m.delete(ctx, id, confirm)
}
func (m *mockTrailerServicer) Reorder(ctx context.Context, ids []uuid.UUID) error {
	return m.reorder(ctx, ids)
}
func (m *mockTrailerServicer) Status(ctx context.Context, day time.Time) ([]domain.TrailerStatus, error) {
	return m.status(ctx, day)
}
func (m *mockTrailerServicer) Bookings(ctx context.Context, id uuid.UUID, today time.Time) (domain.TrailerBookings, error) {
	return m.bookings(ctx, id, today)
}

type mockCustomerServicer struct {
	create   func(ctx context.Context, c domain.Customer) (domain.Customer, error)
	getByID  func(ctx context.Context, id uuid.UUID) (domain.Customer, error)
	list     func(ctx context.Context, p domain.PaginationParams) (domain.Page[domain.Customer], error)
	search   func(ctx context.Context, q string) ([]domain.Customer, error)
	update   func(ctx context.Context, id uuid.UUID, p domain.CustomerPatch) (domain.Customer, error)
	delete   func(ctx context.Context, id uuid.UUID) error
	bookings func(ctx context.Context, id uuid.UUID) ([]domain.Booking, error)
}

func (m *mockCustomerServicer) Create(ctx context.Context, c domain.Customer) (domain.Customer, error) {
	return m.create(ctx, c)
}
func (m *mockCustomerServicer) GetByID(ctx context.Context, id uuid.UUID) (domain.Customer, error) {
	return m.getByID(ctx, id)
}
func (m *mockCustomerServicer) List(ctx context.Context, p domain.PaginationParams) (domain.Page[domain.Customer], error) {
	return m.list(ctx, p)
}
func (m *mockCustomerServicer) Search(ctx context.Context, q string) ([]domain.Customer, error) {
	return m.search(ctx, q)
}
func (m *mockCustomerServicer) Update(ctx context.Context, id uuid.UUID, p domain.CustomerPatch) (domain.Customer, error) {
	return m.update(ctx, id, p)
}
func (m *mockCustomerServicer) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}
func (m *mockCustomerServicer) Bookings(ctx context.Context, id uuid.UUID) ([]domain.Booking, error) {
	return m.bookings(ctx, id)
}

type mockBookingServicer struct {
	create  func(ctx context.Context, in service.NewBooking) (domain.Booking, error)
	getByID func(ctx context.Context, id uuid.UUID) (domain.Booking, error)
	list    func(ctx context.Context, r *domain.DateRange) ([]domain.Booking, error)
	update  func(ctx context.Context, id uuid.UUID, p domain.BookingPatch) (domain.Booking, error)
	delete  func(ctx context.Context, id uuid.UUID) error
	quote   func(p domain.Pricing, pricePerMile, icePricePerBag *float64) domain.Quote
}

func (m *mockBookingServicer) Create(ctx context.Context, in service.NewBooking) (domain.Booking, error) {
	return m.create(ctx, in)
}
func (m *mockBookingServicer) GetByID(ctx context.Context, id uuid.UUID) (domain.Booking, error) {
	return m.getByID(ctx, id)
}
func (m *mockBookingServicer) List(ctx context.Context, r *domain.DateRange) ([]domain.Booking, error) {
	return m.list(ctx, r)
}
func (m *mockBookingServicer) Update(ctx context.Context, id uuid.UUID, p domain.BookingPatch) (domain.Booking, error) {
	return m.update(ctx, id, p)
}
func (m *mockBookingServicer) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}
func (m *mockBookingServicer) Quote(p domain.Pricing, pricePerMile, icePricePerBag *float64) domain.Quote {
	return m.quote(p, pricePerMile, icePricePerBag)
}

type mockAvailabilityServicer struct {
	check     func(ctx context.Context, trailerID uuid.UUID, r domain.DateRange, exclude *uuid.UUID) (service.TrailerAvailability, error)
	partition func(ctx context.Context, r domain.DateRange) (availability.Result, error)
}

func (m *mockAvailabilityServicer) Check(ctx context.Context, trailerID uuid.UUID, r domain.DateRange, exclude *uuid.UUID) (service.TrailerAvailability, error) {
	return m.check(ctx, trailerID, r, exclude)
}
func (m *mockAvailabilityServicer) Partition(ctx context.Context, r domain.DateRange) (availability.Result, error) {
	return m.partition(ctx, r)
}

type mockCalendarServicer struct {
	month func(ctx context.Context, year int, month time.Month) (service.CalendarView, error)
}

func (m *mockCalendarServicer) Month(ctx context.Context, year int, month time.Month) (service.CalendarView, error) {
	return m.month(ctx, year, month)
}

type mockDashboardServicer struct {
	get func(ctx context.Context, today time.Time) (domain.Dashboard, error)
}

func (m *mockDashboardServicer) Get(ctx context.Context, today time.Time) (domain.Dashboard, error) {
	return m.get(ctx, today)
}

type mockReportServicer struct {
	build func(ctx context.Context, preset domain.ReportRange, r domain.DateRange) (domain.Report, error)
}

func (m *mockReportServicer) Build(ctx context.Context, preset domain.ReportRange, r domain.DateRange) (domain.Report, error) {
	return m.build(ctx, preset, r)
}

type mockExportServicer struct {
	export func(ctx context.Context, r domain.DateRange) ([]domain.ExportRow, error)
}

func (m *mockExportServicer) Export(ctx context.Context, r domain.DateRange) ([]domain.ExportRow, error) {
	return m.export(ctx, r)
}

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

// compile-time checks: every mock must satisfy its handler interface.
var (
	_ handler.TrailerServicer      = (*mockTrailerServicer)(nil)
	_ handler.CustomerServicer     = (*mockCustomerServicer)(nil)
	_ handler.BookingServicer      = (*mockBookingServicer)(nil)
	_ handler.AvailabilityServicer = (*mockAvailabilityServicer)(nil)
	_ handler.CalendarServicer     = (*mockCalendarServicer)(nil)
	_ handler.DashboardServicer    = (*mockDashboardServicer)(nil)
	_ handler.ReportServicer       = (*mockReportServicer)(nil)
	_ handler.ExportServicer       = (*mockExportServicer)(nil)
	_ handler.Pinger               = pingerFunc(nil)
)

// ---- helpers ---------------------------------------------------------------

// fixedNow is the server clock in every handler test.
var fixedNow = time.Date(2024, 7, 15, 14, 30, 0, 0, time.UTC)

// newHTTPHandler wires a Server with the given services into its chi router,
// the same way main.go mounts it.
func newHTTPHandler(svc handler.Services) http.Handler {
	return newHTTPHandlerWithLog(svc, io.Discard)
}

func newHTTPHandlerWithLog(svc handler.Services, out io.Writer) http.Handler {
	log := slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return handler.NewServer(svc, log).WithClock(func() time.Time { return fixedNow }).Routes()
}

func serve(h http.Handler, method, target string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

// errorBody mirrors the JSON error envelope.
type errorBody struct {
	Error struct {
		Code      string           `json:"code"`
		Message   string           `json:"message"`
		Conflicts []map[string]any `json:"conflicts"`
	} `json:"error"`
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func decodeInto(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(v))
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func trailerFixture(name string) domain.Trailer {
	now := time.Now().UTC()
	return domain.Trailer{
		ID:        uuid.New(),
		Name:      name,
		Category:  domain.DefaultCategory,
		Active:    true,
		SortOrder: 1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func bookingFixture(trailerID uuid.UUID, customer string, start, end time.Time) domain.Booking {
	return domain.Booking{
		ID:           uuid.New(),
		TrailerID:    trailerID,
		CustomerName: customer,
		StartDate:    start,
		EndDate:      end,
		Pricing:      domain.Pricing{RentalRate: 150},
		PriceQuoted:  150,
		Status:       domain.StatusConfirmed,
	}
}
