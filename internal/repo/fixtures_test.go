package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/glirentals/rentals-admin/internal/domain"
	"github.com/glirentals/rentals-admin/internal/repo"
	"github.com/glirentals/rentals-admin/testutil"
)

// repos bundles every repo over one rolled-back transaction, so tests can
// build trailer → customer → booking hierarchies without cleanup SQL.
type repos struct {
	tx        pgx.Tx
	trailers  repo.TrailerRepo
	customers repo.CustomerRepo
	bookings  repo.BookingRepo
}

// newRepos requires TEST_DATABASE_URL; TestMain has already applied migrations.
func newRepos(t *testing.T) repos {
	t.Helper()
	tx := testutil.NewTx(t)
	return repos{
		tx:        tx,
		trailers:  repo.NewTrailerRepo(tx),
		customers: repo.NewCustomerRepo(tx),
		bookings:  repo.NewBookingRepo(tx),
	}
}

func date(s string) time.Time {
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func trailerFixture(name string) domain.Trailer {
	return domain.Trailer{
		Name:     name,
		Category: "5x10",
		Active:   true,
	}
}

func customerFixture(name string) domain.Customer {
	return domain.Customer{
		Name:    name,
		Phone:   "555-0100",
		Email:   "jane@example.com",
		Address: "1 Main St",
	}
}

func bookingFixture(trailer domain.Trailer, start, end string) domain.Booking {
	return domain.Booking{
		TrailerID:     trailer.ID,
		CustomerName:  "Jane Doe",
		CustomerPhone: "555-0100",
		StartDate:     date(start),
		EndDate:       date(end),
		DeliveryTime:  "9:00 AM",
		PriceQuoted:   222,
		Pricing: domain.Pricing{
			RentalRate:     150,
			IceBagSize:     domain.IceBag20lb,
			IceBagQty:      4,
			IcePricePerBag: 5.5,
			RoundTripMiles: 60,
			PricePerMile:   1.25,
		},
		Status: domain.StatusConfirmed,
	}
}

func mustTrailer(t *testing.T, r repos, name string) domain.Trailer {
	t.Helper()
	tr, err := r.trailers.Create(context.Background(), trailerFixture(name))
	require.NoError(t, err)
	return tr
}
