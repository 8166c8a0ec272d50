package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/glirentals/rentals-admin/internal/domain"
)

// CustomerSearchLimit caps the rows returned by CustomerRepo.Search.
const CustomerSearchLimit = 10

// CustomerRepo defines the persistence operations for Customers.
type CustomerRepo interface {
	Create(ctx context.Context, c domain.Customer) (domain.Customer, error)

	// GetByID returns domain.ErrNotFound if no customer with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Customer, error)

	// ListPaged returns one page of customers ordered by name and the total count.
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Customer, int64, error)

	// Search returns up to CustomerSearchLimit customers whose name, phone or
	// email contains q, case-insensitively, ordered by name.
	Search(ctx context.Context, q string) ([]domain.Customer, error)

	Update(ctx context.Context, c domain.Customer) (domain.Customer, error)

	// Delete removes a customer. Bookings keep their name/phone snapshot and
	// have customer_id cleared by the foreign key.
	Delete(ctx context.Context, id uuid.UUID) error
}

// pgCustomerRepo is the Postgres implementation of CustomerRepo.
type pgCustomerRepo struct {
	db db
}

// NewCustomerRepo constructs a CustomerRepo backed by the provided db connection.
func NewCustomerRepo(db db) CustomerRepo {
	return &pgCustomerRepo{db: db}
}

const customerColumns = `id, name, phone, email, address, notes, created_at, updated_at`

func (r *pgCustomerRepo) Create(ctx context.Context, c domain.Customer) (domain.Customer, error) {
	const q = `
		INSERT INTO customers (name, phone, email, address, notes)
		VALUES (@name, @phone, @email, @address, @notes)
		RETURNING ` + customerColumns

	args := pgx.NamedArgs{
		"name":    c.Name,
		"phone":   c.Phone,
		"email":   c.Email,
		"address": c.Address,
		"notes":   c.Notes,
	}

	result, err := scanCustomer(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Customer{}, fmt.Errorf("repo.CustomerRepo.Create: %w", mapWriteError(err))
	}
	return result, nil
}

func (r *pgCustomerRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Customer, error) {
	const q = `SELECT ` + customerColumns + ` FROM customers WHERE id = @id`

	result, err := scanCustomer(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Customer{}, fmt.Errorf("repo.CustomerRepo.GetByID: %w", err)
	}
	return result, nil
}

// ListPaged uses a window function so the page and the total come back in
// one round trip.
func (r *pgCustomerRepo) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Customer, int64, error) {
	const q = `
		SELECT ` + customerColumns + `, COUNT(*) OVER () AS total
		FROM customers
		ORDER BY lower(name), id
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"limit": p.Limit, "offset": p.Offset()})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.CustomerRepo.ListPaged: %w", err)
	}
	defer rows.Close()

	var total int64
	customers := []domain.Customer{}
	for rows.Next() {
		var (
			c  domain.Customer
			id pgtype.UUID
		)
		if err := rows.Scan(&id, &c.Name, &c.Phone, &c.Email, &c.Address, &c.Notes, &c.CreatedAt, &c.UpdatedAt, &total); err != nil {
			return nil, 0, fmt.Errorf("repo.CustomerRepo.ListPaged: scan: %w", err)
		}
		c.ID = uuid.UUID(id.Bytes)
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.CustomerRepo.ListPaged: rows: %w", err)
	}

	// A page past the end has no rows to carry the window total.
	if len(customers) == 0 && p.Page > 1 {
		if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM customers`).Scan(&total); err != nil {
			return nil, 0, fmt.Errorf("repo.CustomerRepo.ListPaged: count: %w", err)
		}
	}
	return customers, total, nil
}

func (r *pgCustomerRepo) Search(ctx context.Context, q string) ([]domain.Customer, error) {
	const sql = `
		SELECT ` + customerColumns + `
		FROM customers
		WHERE name  ILIKE '%' || @q || '%'
		   OR phone ILIKE '%' || @q || '%'
		   OR email ILIKE '%' || @q || '%'
		ORDER BY lower(name), id
		LIMIT @limit`

	rows, err := r.db.Query(ctx, sql, pgx.NamedArgs{"q": q, "limit": CustomerSearchLimit})
	if err != nil {
		return nil, fmt.Errorf("repo.CustomerRepo.Search: %w", err)
	}
	defer rows.Close()

	customers := []domain.Customer{}
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.CustomerRepo.Search: scan: %w", err)
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.CustomerRepo.Search: rows: %w", err)
	}
	return customers, nil
}

func (r *pgCustomerRepo) Update(ctx context.Context, c domain.Customer) (domain.Customer, error) {
	const q = `
		UPDATE customers
		SET name       = @name,
		    phone      = @phone,
		    email      = @email,
		    address    = @address,
		    notes      = @notes,
		    updated_at = now()
		WHERE id = @id
		RETURNING ` + customerColumns

	args := pgx.NamedArgs{
		"id":      c.ID,
		"name":    c.Name,
		"phone":   c.Phone,
		"email":   c.Email,
		"address": c.Address,
		"notes":   c.Notes,
	}

	result, err := scanCustomer(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Customer{}, fmt.Errorf("repo.CustomerRepo.Update: %w", mapWriteError(err))
	}
	return result, nil
}

func (r *pgCustomerRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM customers WHERE id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.CustomerRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.CustomerRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func scanCustomer(s scanner) (domain.Customer, error) {
	var (
		c  domain.Customer
		id pgtype.UUID
	)
	err := s.Scan(&id, &c.Name, &c.Phone, &c.Email, &c.Address, &c.Notes, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return domain.Customer{}, notFound(err)
	}
	c.ID = uuid.UUID(id.Bytes)
	return c, nil
}
