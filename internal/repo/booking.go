package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/glirentals/rentals-admin/internal/availability"
	"github.com/glirentals/rentals-admin/internal/domain"
)

// BookingRepo defines the persistence operations for Bookings.
//
// Create and Update are the only write paths and both are conflict-safe: they
// serialize on the trailer, re-run the overlap check against committed rows,
// and return a *domain.ConflictError (matching domain.ErrConflict) instead of
// writing an overlapping booking.
type BookingRepo interface {
	Create(ctx context.Context, b domain.Booking) (domain.Booking, error)

	// GetByID returns domain.ErrNotFound if no booking with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Booking, error)

	// List returns every booking ordered by start_date ascending.
	List(ctx context.Context) ([]domain.Booking, error)

	// ListInRange returns bookings whose dates intersect r
	// (start_date <= r.End AND end_date >= r.Start), ordered by start_date.
	ListInRange(ctx context.Context, r domain.DateRange) ([]domain.Booking, error)

	// ListStartingIn returns bookings whose start_date falls inside r,
	// ordered by start_date. Reports attribute revenue by start date.
	ListStartingIn(ctx context.Context, r domain.DateRange) ([]domain.Booking, error)

	// ListByTrailer returns one trailer's bookings ordered by start_date.
	ListByTrailer(ctx context.Context, trailerID uuid.UUID) ([]domain.Booking, error)

	// ListByCustomer returns one customer's bookings, most recent first.
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]domain.Booking, error)

	Update(ctx context.Context, b domain.Booking) (domain.Booking, error)

	Delete(ctx context.Context, id uuid.UUID) error
}

// pgBookingRepo is the Postgres implementation of BookingRepo.
type pgBookingRepo struct {
	db db
}

// NewBookingRepo constructs a BookingRepo backed by the provided db connection.
func NewBookingRepo(db db) BookingRepo {
	return &pgBookingRepo{db: db}
}

const bookingColumns = `
	id, trailer_id, customer_id, customer_name, customer_phone,
	start_date, end_date, delivery_address, delivery_time, price_quoted,
	rental_rate, ice_bag_size, ice_bag_qty, ice_price_per_bag,
	round_trip_miles, price_per_mile, notes, status, created_at, updated_at`

func bookingArgs(b domain.Booking) pgx.NamedArgs {
	return pgx.NamedArgs{
		"id":                b.ID,
		"trailer_id":        b.TrailerID,
		"customer_id":       b.CustomerID, // nil becomes NULL
		"customer_name":     b.CustomerName,
		"customer_phone":    b.CustomerPhone,
		"start_date":        b.StartDate,
		"end_date":          b.EndDate,
		"delivery_address":  b.DeliveryAddress,
		"delivery_time":     b.DeliveryTime,
		"price_quoted":      b.PriceQuoted,
		"rental_rate":       b.Pricing.RentalRate,
		"ice_bag_size":      b.Pricing.IceBagSize,
		"ice_bag_qty":       b.Pricing.IceBagQty,
		"ice_price_per_bag": b.Pricing.IcePricePerBag,
		"round_trip_miles":  b.Pricing.RoundTripMiles,
		"price_per_mile":    b.Pricing.PricePerMile,
		"notes":             b.Notes,
		"status":            string(b.Status),
	}
}

func (r *pgBookingRepo) Create(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	const q = `
		INSERT INTO bookings (
			trailer_id, customer_id, customer_name, customer_phone,
			start_date, end_date, delivery_address, delivery_time, price_quoted,
			rental_rate, ice_bag_size, ice_bag_qty, ice_price_per_bag,
			round_trip_miles, price_per_mile, notes, status)
		VALUES (
			@trailer_id, @customer_id, @customer_name, @customer_phone,
			@start_date, @end_date, @delivery_address, @delivery_time, @price_quoted,
			@rental_rate, @ice_bag_size, @ice_bag_qty, @ice_price_per_bag,
			@round_trip_miles, @price_per_mile, @notes, @status)
		RETURNING ` + bookingColumns

	var result domain.Booking
	err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		if err := lockAndCheck(ctx, tx, b.TrailerID, b.Range(), nil); err != nil {
			return err
		}
		var err error
		result, err = scanBooking(tx.QueryRow(ctx, q, bookingArgs(b)))
		return err
	})
	if err != nil {
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.Create: %w", mapWriteError(err))
	}
	return result, nil
}

func (r *pgBookingRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = @id`

	result, err := scanBooking(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgBookingRepo) List(ctx context.Context) ([]domain.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings ORDER BY start_date, id`

	bookings, err := queryBookings(ctx, r.db, q, nil)
	if err != nil {
		return nil, fmt.Errorf("repo.BookingRepo.List: %w", err)
	}
	return bookings, nil
}

func (r *pgBookingRepo) ListInRange(ctx context.Context, dr domain.DateRange) ([]domain.Booking, error) {
	const q = `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE start_date <= @end AND end_date >= @start
		ORDER BY start_date, id`

	bookings, err := queryBookings(ctx, r.db, q, pgx.NamedArgs{"start": dr.Start, "end": dr.End})
	if err != nil {
		return nil, fmt.Errorf("repo.BookingRepo.ListInRange: %w", err)
	}
	return bookings, nil
}

func (r *pgBookingRepo) ListStartingIn(ctx context.Context, dr domain.DateRange) ([]domain.Booking, error) {
	const q = `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE start_date BETWEEN @start AND @end
		ORDER BY start_date, id`

	bookings, err := queryBookings(ctx, r.db, q, pgx.NamedArgs{"start": dr.Start, "end": dr.End})
	if err != nil {
		return nil, fmt.Errorf("repo.BookingRepo.ListStartingIn: %w", err)
	}
	return bookings, nil
}

func (r *pgBookingRepo) ListByTrailer(ctx context.Context, trailerID uuid.UUID) ([]domain.Booking, error) {
	const q = `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE trailer_id = @trailer_id
		ORDER BY start_date, id`

	bookings, err := queryBookings(ctx, r.db, q, pgx.NamedArgs{"trailer_id": trailerID})
	if err != nil {
		return nil, fmt.Errorf("repo.BookingRepo.ListByTrailer: %w", err)
	}
	return bookings, nil
}

func (r *pgBookingRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]domain.Booking, error) {
	const q = `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE customer_id = @customer_id
		ORDER BY start_date DESC, id`

	bookings, err := queryBookings(ctx, r.db, q, pgx.NamedArgs{"customer_id": customerID})
	if err != nil {
		return nil, fmt.Errorf("repo.BookingRepo.ListByCustomer: %w", err)
	}
	return bookings, nil
}

func (r *pgBookingRepo) Update(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	const q = `
		UPDATE bookings
		SET trailer_id        = @trailer_id,
		    customer_id       = @customer_id,
		    customer_name     = @customer_name,
		    customer_phone    = @customer_phone,
		    start_date        = @start_date,
		    end_date          = @end_date,
		    delivery_address  = @delivery_address,
		    delivery_time     = @delivery_time,
		    price_quoted      = @price_quoted,
		    rental_rate       = @rental_rate,
		    ice_bag_size      = @ice_bag_size,
		    ice_bag_qty       = @ice_bag_qty,
		    ice_price_per_bag = @ice_price_per_bag,
		    round_trip_miles  = @round_trip_miles,
		    price_per_mile    = @price_per_mile,
		    notes             = @notes,
		    status            = @status,
		    updated_at        = now()
		WHERE id = @id
		RETURNING ` + bookingColumns

	var result domain.Booking
	err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		if err := lockAndCheck(ctx, tx, b.TrailerID, b.Range(), &b.ID); err != nil {
			return err
		}
		var err error
		result, err = scanBooking(tx.QueryRow(ctx, q, bookingArgs(b)))
		return err
	})
	if err != nil {
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.Update: %w", mapWriteError(err))
	}
	return result, nil
}

func (r *pgBookingRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM bookings WHERE id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.BookingRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.BookingRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// lockAndCheck takes a transaction-scoped advisory lock on the trailer, so
// concurrent writers for the same trailer run one at a time, and then applies
// the overlap engine to the trailer's committed bookings in range.
func lockAndCheck(ctx context.Context, tx pgx.Tx, trailerID uuid.UUID, dr domain.DateRange, exclude *uuid.UUID) error {
	const lock = `SELECT pg_advisory_xact_lock(hashtextextended(@key, 0))`
	if _, err := tx.Exec(ctx, lock, pgx.NamedArgs{"key": "trailer:" + trailerID.String()}); err != nil {
		return fmt.Errorf("lock trailer: %w", err)
	}

	const q = `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE trailer_id = @trailer_id
		  AND start_date <= @end AND end_date >= @start
		ORDER BY start_date, id
		FOR UPDATE`

	existing, err := queryBookings(ctx, tx, q, pgx.NamedArgs{
		"trailer_id": trailerID,
		"start":      dr.Start,
		"end":        dr.End,
	})
	if err != nil {
		return fmt.Errorf("load conflicts: %w", err)
	}

	conflicts := availability.Conflicts(existing, trailerID, dr, exclude)
	if len(conflicts) > 0 {
		return &domain.ConflictError{TrailerID: trailerID.String(), Range: dr, Conflicts: conflicts}
	}
	return nil
}

func queryBookings(ctx context.Context, d db, q string, args pgx.NamedArgs) ([]domain.Booking, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if args == nil {
		rows, err = d.Query(ctx, q)
	} else {
		rows, err = d.Query(ctx, q, args)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := []domain.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return bookings, nil
}

func scanBooking(s scanner) (domain.Booking, error) {
	var (
		b                  domain.Booking
		id, trailer, cust  pgtype.UUID
		startDate, endDate pgtype.Date
		status             string
	)
	err := s.Scan(
		&id, &trailer, &cust, &b.CustomerName, &b.CustomerPhone,
		&startDate, &endDate, &b.DeliveryAddress, &b.DeliveryTime, &b.PriceQuoted,
		&b.Pricing.RentalRate, &b.Pricing.IceBagSize, &b.Pricing.IceBagQty, &b.Pricing.IcePricePerBag,
		&b.Pricing.RoundTripMiles, &b.Pricing.PricePerMile, &b.Notes, &status, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return domain.Booking{}, notFound(err)
	}

	b.ID = uuid.UUID(id.Bytes)
	b.TrailerID = uuid.UUID(trailer.Bytes)
	if cust.Valid {
		cid := uuid.UUID(cust.Bytes)
		b.CustomerID = &cid
	}
	b.StartDate = domain.DateOf(startDate.Time)
	b.EndDate = domain.DateOf(endDate.Time)
	b.Status = domain.BookingStatus(status)
	return b, nil
}
