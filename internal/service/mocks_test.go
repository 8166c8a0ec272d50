package service_test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/glirentals/rentals-admin/internal/domain"
	"github.com/glirentals/rentals-admin/internal/events"
	"github.com/glirentals/rentals-admin/internal/repo"
)

// Hand-written test doubles. Each method is a function field; set only the
// ones a test needs. Calling an unset one panics, which flags an unexpected
// repo call.

type mockTrailerRepo struct {
	create  func(ctx context.Context, t domain.Trailer) (domain.Trailer, error)
	getByID func(ctx context.Context, id uuid.UUID) (domain.Trailer, error)
	list    func(ctx context.Context, activeOnly bool) ([]domain.Trailer, error)
	update  func(ctx context.Context, t domain.Trailer) (domain.Trailer, error)
	delete  func(ctx context.Context, id uuid.UUID) error
	reorder func(ctx context.Context, ids []uuid.UUID) error
}

func (m *mockTrailerRepo) Create(ctx context.Context, t domain.Trailer) (domain.Trailer, error) {
	return m.create(ctx, t)
}
func (m *mockTrailerRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trailer, error) {
	return m.getByID(ctx, id)
}
func (m *mockTrailerRepo) List(ctx context.Context, activeOnly bool) ([]domain.Trailer, error) {
	return m.list(ctx, activeOnly)
}
func (m *mockTrailerRepo) Update(ctx context.Context, t domain.Trailer) (domain.Trailer, error) {
	return m.update(ctx, t)
}
func (m *mockTrailerRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}
func (m *mockTrailerRepo) Reorder(ctx context.Context, ids []uuid.UUID) error {
	return m.reorder(ctx, ids)
}

var _ repo.TrailerRepo = (*mockTrailerRepo)(nil)

type mockCustomerRepo struct {
	create    func(ctx context.Context, c domain.Customer) (domain.Customer, error)
	getByID   func(ctx context.Context, id uuid.UUID) (domain.Customer, error)
	listPaged func(ctx context.Context, p domain.PaginationParams) ([]domain.Customer, int64, error)
	search    func(ctx context.Context, q string) ([]domain.Customer, error)
	update    func(ctx context.Context, c domain.Customer) (domain.Customer, error)
	delete    func(ctx context.Context, id uuid.UUID) error
}

func (m *mockCustomerRepo) Create(ctx context.Context, c domain.Customer) (domain.Customer, error) {
	return m.create(ctx, c)
}
func (m *mockCustomerRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Customer, error) {
	return m.getByID(ctx, id)
}
func (m *mockCustomerRepo) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Customer, int64, error) {
	return m.listPaged(ctx, p)
}
func (m *mockCustomerRepo) Search(ctx context.Context, q string) ([]domain.Customer, error) {
	return m.search(ctx, q)
}
func (m *mockCustomerRepo) Update(ctx context.Context, c domain.Customer) (domain.Customer, error) {
	return m.update(ctx, c)
}
func (m *mockCustomerRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

var _ repo.CustomerRepo = (*mockCustomerRepo)(nil)

type mockBookingRepo struct {
	create         func(ctx context.Context, b domain.Booking) (domain.Booking, error)
	getByID        func(ctx context.Context, id uuid.UUID) (domain.Booking, error)
	list           func(ctx context.Context) ([]domain.Booking, error)
	listInRange    func(ctx context.Context, r domain.DateRange) ([]domain.Booking, error)
	listStartingIn func(ctx context.Context, r domain.DateRange) ([]domain.Booking, error)
	listByTrailer  func(ctx context.Context, trailerID uuid.UUID) ([]domain.Booking, error)
	listByCustomer func(ctx context.Context, customerID uuid.UUID) ([]domain.Booking, error)
	update         func(ctx context.Context, b domain.Booking) (domain.Booking, error)
	delete         func(ctx context.Context, id uuid.UUID) error
}

func (m *mockBookingRepo) Create(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	return m.create(ctx, b)
}
func (m *mockBookingRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Booking, error) {
	return m.getByID(ctx, id)
}
func (m *mockBookingRepo) List(ctx context.Context) ([]domain.Booking, error) {
	return m.list(ctx)
}
func (m *mockBookingRepo) ListInRange(ctx context.Context, r domain.DateRange) ([]domain.Booking, error) {
	return m.listInRange(ctx, r)
}
func (m *mockBookingRepo) ListStartingIn(ctx context.Context, r domain.DateRange) ([]domain.Booking, error) {
	return m.listStartingIn(ctx, r)
}
func (m *mockBookingRepo) ListByTrailer(ctx context.Context, trailerID uuid.UUID) ([]domain.Booking, error) {
	return m.listByTrailer(ctx, trailerID)
}
func (m *mockBookingRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]domain.Booking, error) {
	return m.listByCustomer(ctx, customerID)
}
func (m *mockBookingRepo) Update(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	return m.update(ctx, b)
}
func (m *mockBookingRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

var _ repo.BookingRepo = (*mockBookingRepo)(nil)

// recordingPublisher keeps every published event and can be told to fail.
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

var _ events.Publisher = (*recordingPublisher)(nil)

// ---- fixtures --------------------------------------------------------------

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func trailerFixture(name string) domain.Trailer {
	return domain.Trailer{ID: uuid.New(), Name: name, Category: domain.DefaultCategory, Active: true}
}

func bookingFixture(trailerID uuid.UUID, customer string, start, end time.Time) domain.Booking {
	return domain.Booking{
		ID:           uuid.New(),
		TrailerID:    trailerID,
		CustomerName: customer,
		StartDate:    start,
		EndDate:      end,
		Status:       domain.StatusConfirmed,
	}
}
