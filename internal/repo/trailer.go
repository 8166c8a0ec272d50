package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/glirentals/rentals-admin/internal/domain"
)

// TrailerRepo defines the persistence operations for Trailers.
// The service layer depends on this interface, not the Postgres implementation,
// which allows the service to be unit-tested with a mock.
type TrailerRepo interface {
	// Create inserts a trailer at the end of the display order and returns the
	// persisted record.
	Create(ctx context.Context, t domain.Trailer) (domain.Trailer, error)

	// GetByID returns domain.ErrNotFound if no trailer with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trailer, error)

	// List returns trailers ordered by sort_order, then name.
	// When activeOnly is set retired trailers are left out.
	List(ctx context.Context, activeOnly bool) ([]domain.Trailer, error)

	// Update overwrites the mutable fields of a trailer. sort_order is only
	// changed through Reorder.
	Update(ctx context.Context, t domain.Trailer) (domain.Trailer, error)

	// Delete removes a trailer and, through the foreign key, all of its bookings.
	Delete(ctx context.Context, id uuid.UUID) error

	// Reorder sets sort_order to 1..n following ids. Every id must exist.
	Reorder(ctx context.Context, ids []uuid.UUID) error
}

// pgTrailerRepo is the Postgres implementation of TrailerRepo.
type pgTrailerRepo struct {
	db db
}

// NewTrailerRepo constructs a TrailerRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTrailerRepo(db db) TrailerRepo {
	return &pgTrailerRepo{db: db}
}

const trailerColumns = `id, name, category, identifier, notes, active, sort_order, created_at, updated_at`

func (r *pgTrailerRepo) Create(ctx context.Context, t domain.Trailer) (domain.Trailer, error) {
	const q = `
		INSERT INTO trailers (name, category, identifier, notes, active, sort_order)
		VALUES (@name, @category, @identifier, @notes, @active,
		        (SELECT COALESCE(MAX(sort_order), 0) + 1 FROM trailers))
		RETURNING ` + trailerColumns

	args := pgx.NamedArgs{
		"name":       t.Name,
		"category":   t.Category,
		"identifier": t.Identifier,
		"notes":      t.Notes,
		"active":     t.Active,
	}

	result, err := scanTrailer(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Trailer{}, fmt.Errorf("repo.TrailerRepo.Create: %w", mapWriteError(err))
	}
	return result, nil
}

func (r *pgTrailerRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trailer, error) {
	const q = `SELECT ` + trailerColumns + ` FROM trailers WHERE id = @id`

	result, err := scanTrailer(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Trailer{}, fmt.Errorf("repo.TrailerRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgTrailerRepo) List(ctx context.Context, activeOnly bool) ([]domain.Trailer, error) {
	const q = `
		SELECT ` + trailerColumns + `
		FROM trailers
		WHERE active OR NOT @active_only
		ORDER BY sort_order, name`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"active_only": activeOnly})
	if err != nil {
		return nil, fmt.Errorf("repo.TrailerRepo.List: %w", err)
	}
	defer rows.Close()

	trailers := []domain.Trailer{}
	for rows.Next() {
		t, err := scanTrailer(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.TrailerRepo.List: scan: %w", err)
		}
		trailers = append(trailers, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TrailerRepo.List: rows: %w", err)
	}
	return trailers, nil
}

func (r *pgTrailerRepo) Update(ctx context.Context, t domain.Trailer) (domain.Trailer, error) {
	const q = `
		UPDATE trailers
		SET name       = @name,
		    category   = @category,
		    identifier = @identifier,
		    notes      = @notes,
		    active     = @active,
		    updated_at = now()
		WHERE id = @id
		RETURNING ` + trailerColumns

	args := pgx.NamedArgs{
		"id":         t.ID,
		"name":       t.Name,
		"category":   t.Category,
		"identifier": t.Identifier,
		"notes":      t.Notes,
		"active":     t.Active,
	}

	result, err := scanTrailer(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Trailer{}, fmt.Errorf("repo.TrailerRepo.Update: %w", mapWriteError(err))
	}
	return result, nil
}

func (r *pgTrailerRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM trailers WHERE id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.TrailerRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TrailerRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// Reorder rewrites sort_order in one transaction so readers never see a
// half-applied order.
func (r *pgTrailerRepo) Reorder(ctx context.Context, ids []uuid.UUID) error {
	const q = `UPDATE trailers SET sort_order = @sort_order, updated_at = now() WHERE id = @id`

	err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		for i, id := range ids {
			tag, err := tx.Exec(ctx, q, pgx.NamedArgs{"id": id, "sort_order": i + 1})
			if err != nil {
				return err
			}
			if tag.RowsAffected() == 0 {
				return fmt.Errorf("trailer %s: %w", id, domain.ErrNotFound)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("repo.TrailerRepo.Reorder: %w", err)
	}
	return nil
}

func scanTrailer(s scanner) (domain.Trailer, error) {
	var (
		t  domain.Trailer
		id pgtype.UUID
	)
	err := s.Scan(&id, &t.Name, &t.Category, &t.Identifier, &t.Notes, &t.Active, &t.SortOrder, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return domain.Trailer{}, notFound(err)
	}
	t.ID = uuid.UUID(id.Bytes)
	return t, nil
}
