package repo_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glirentals/rentals-admin/internal/domain"
)

func TestBookingRepo_Create(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()
	tr := mustTrailer(t, r, "5x10 #1")

	input := bookingFixture(tr, "2024-07-10", "2024-07-12")
	got, err := r.bookings.Create(ctx, input)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, got.ID)
	assert.Equal(t, tr.ID, got.TrailerID)
	assert.Nil(t, got.CustomerID, "walk-in booking has no customer link")
	assert.True(t, got.StartDate.Equal(date("2024-07-10")))
	assert.True(t, got.EndDate.Equal(date("2024-07-12")))
	assert.Equal(t, input.Pricing, got.Pricing)
	assert.InDelta(t, 222.0, got.PriceQuoted, 0.001)
	assert.Equal(t, domain.StatusConfirmed, got.Status)
	assert.Equal(t, "9:00 AM", got.DeliveryTime)
}

func TestBookingRepo_Create_Conflict(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()
	tr := mustTrailer(t, r, "5x10 #1")

	first, err := r.bookings.Create(ctx, bookingFixture(tr, "2024-07-10", "2024-07-12"))
	require.NoError(t, err)

	_, err = r.bookings.Create(ctx, bookingFixture(tr, "2024-07-12", "2024-07-14"))

	require.ErrorIs(t, err, domain.ErrConflict)
	var conflict *domain.ConflictError
	require.ErrorAs(t, err, &conflict)
	require.Len(t, conflict.Conflicts, 1)
	assert.Equal(t, first.ID, conflict.Conflicts[0].ID)
}

func TestBookingRepo_Create_AdjacentAllowed(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()
	tr := mustTrailer(t, r, "5x10 #1")

	_, err := r.bookings.Create(ctx, bookingFixture(tr, "2024-06-01", "2024-06-03"))
	require.NoError(t, err)

	_, err = r.bookings.Create(ctx, bookingFixture(tr, "2024-06-04", "2024-06-05"))

	assert.NoError(t, err)
}

func TestBookingRepo_Create_OtherTrailerAllowed(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()
	a := mustTrailer(t, r, "a")
	b := mustTrailer(t, r, "b")

	_, err := r.bookings.Create(ctx, bookingFixture(a, "2024-06-01", "2024-06-03"))
	require.NoError(t, err)
	_, err = r.bookings.Create(ctx, bookingFixture(b, "2024-06-01", "2024-06-03"))

	assert.NoError(t, err)
}

func TestBookingRepo_Create_UnknownTrailer(t *testing.T) {
	r := newRepos(t)

	_, err := r.bookings.Create(context.Background(), bookingFixture(domain.Trailer{ID: uuid.New()}, "2024-06-01", "2024-06-01"))

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestBookingRepo_ExclusionConstraintBackstop(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()
	tr := mustTrailer(t, r, "5x10 #1")

	_, err := r.bookings.Create(ctx, bookingFixture(tr, "2024-07-10", "2024-07-12"))
	require.NoError(t, err)

	// Bypass the repo to prove the schema alone rejects the overlap.
	sp, err := r.tx.Begin(ctx)
	require.NoError(t, err)
	defer func() { _ = sp.Rollback(ctx) }()

	_, err = sp.Exec(ctx, `
		INSERT INTO bookings (trailer_id, customer_name, start_date, end_date)
		VALUES (@trailer_id, 'Racer', @start, @end)`,
		pgx.NamedArgs{"trailer_id": tr.ID, "start": date("2024-07-12"), "end": date("2024-07-12")})

	var pgErr *pgconn.PgError
	require.True(t, errors.As(err, &pgErr), "expected a postgres error, got %v", err)
	assert.Equal(t, pgerrcode.ExclusionViolation, pgErr.Code)
}

func TestBookingRepo_Update_ExcludesItself(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()
	tr := mustTrailer(t, r, "5x10 #1")

	b, err := r.bookings.Create(ctx, bookingFixture(tr, "2024-07-10", "2024-07-12"))
	require.NoError(t, err)

	b.EndDate = date("2024-07-15")
	b.Notes = "extended"
	got, err := r.bookings.Update(ctx, b)

	require.NoError(t, err)
	assert.True(t, got.EndDate.Equal(date("2024-07-15")))
	assert.Equal(t, "extended", got.Notes)
}

func TestBookingRepo_Update_Conflict(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()
	tr := mustTrailer(t, r, "5x10 #1")

	_, err := r.bookings.Create(ctx, bookingFixture(tr, "2024-07-10", "2024-07-12"))
	require.NoError(t, err)
	b, err := r.bookings.Create(ctx, bookingFixture(tr, "2024-07-20", "2024-07-22"))
	require.NoError(t, err)

	b.StartDate = date("2024-07-12")
	_, err = r.bookings.Update(ctx, b)

	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestBookingRepo_Update_NotFound(t *testing.T) {
	r := newRepos(t)
	tr := mustTrailer(t, r, "5x10 #1")

	ghost := bookingFixture(tr, "2024-07-10", "2024-07-12")
	ghost.ID = uuid.New()
	_, err := r.bookings.Update(context.Background(), ghost)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBookingRepo_ListInRange(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()
	tr := mustTrailer(t, r, "5x10 #1")

	before, err := r.bookings.Create(ctx, bookingFixture(tr, "1999-06-25", "1999-06-30"))
	require.NoError(t, err)
	inside, err := r.bookings.Create(ctx, bookingFixture(tr, "1999-07-10", "1999-07-12"))
	require.NoError(t, err)
	after, err := r.bookings.Create(ctx, bookingFixture(tr, "1999-08-01", "1999-08-02"))
	require.NoError(t, err)

	got, err := r.bookings.ListInRange(ctx, domain.DateRange{Start: date("1999-06-30"), End: date("1999-07-31")})

	require.NoError(t, err)
	var gotIDs []uuid.UUID
	for _, b := range got {
		gotIDs = append(gotIDs, b.ID)
	}
	assert.Contains(t, gotIDs, before.ID, "end_date on the range start counts")
	assert.Contains(t, gotIDs, inside.ID)
	assert.NotContains(t, gotIDs, after.ID)
}

func TestBookingRepo_ListStartingIn(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()
	tr := mustTrailer(t, r, "5x10 #1")

	carried, err := r.bookings.Create(ctx, bookingFixture(tr, "1998-06-28", "1998-07-02"))
	require.NoError(t, err)
	started, err := r.bookings.Create(ctx, bookingFixture(tr, "1998-07-05", "1998-07-06"))
	require.NoError(t, err)

	got, err := r.bookings.ListStartingIn(ctx, domain.DateRange{Start: date("1998-07-01"), End: date("1998-07-31")})

	require.NoError(t, err)
	var gotIDs []uuid.UUID
	for _, b := range got {
		gotIDs = append(gotIDs, b.ID)
	}
	assert.Contains(t, gotIDs, started.ID)
	assert.NotContains(t, gotIDs, carried.ID)
}

func TestBookingRepo_ListByTrailerAndCustomer(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()
	tr := mustTrailer(t, r, "5x10 #1")
	c, err := r.customers.Create(ctx, customerFixture("Jane Doe"))
	require.NoError(t, err)

	older := bookingFixture(tr, "2024-05-01", "2024-05-02")
	older.CustomerID = &c.ID
	newer := bookingFixture(tr, "2024-06-01", "2024-06-02")
	newer.CustomerID = &c.ID
	o, err := r.bookings.Create(ctx, older)
	require.NoError(t, err)
	n, err := r.bookings.Create(ctx, newer)
	require.NoError(t, err)

	byTrailer, err := r.bookings.ListByTrailer(ctx, tr.ID)
	require.NoError(t, err)
	require.Len(t, byTrailer, 2)
	assert.Equal(t, o.ID, byTrailer[0].ID, "trailer history is oldest first")

	byCustomer, err := r.bookings.ListByCustomer(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, byCustomer, 2)
	assert.Equal(t, n.ID, byCustomer[0].ID, "customer history is newest first")
}

func TestBookingRepo_ListByTrailer_Empty(t *testing.T) {
	r := newRepos(t)
	tr := mustTrailer(t, r, "idle")

	got, err := r.bookings.ListByTrailer(context.Background(), tr.ID)

	require.NoError(t, err)
	assert.NotNil(t, got, "empty lists are [] not null")
	assert.Empty(t, got)
}

func TestBookingRepo_Delete(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()
	tr := mustTrailer(t, r, "5x10 #1")

	b, err := r.bookings.Create(ctx, bookingFixture(tr, "2024-07-10", "2024-07-12"))
	require.NoError(t, err)

	require.NoError(t, r.bookings.Delete(ctx, b.ID))
	assert.ErrorIs(t, r.bookings.Delete(ctx, b.ID), domain.ErrNotFound)
}
