package handler_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glirentals/rentals-admin/internal/domain"
	"github.com/glirentals/rentals-admin/internal/handler"
)

func customerHandler(m *mockCustomerServicer) http.Handler {
	return newHTTPHandler(handler.Services{Customers: m})
}

func customerFixture(name string) domain.Customer {
	now := time.Now().UTC()
	return domain.Customer{ID: uuid.New(), Name: name, Phone: "555-0100", CreatedAt: now, UpdatedAt: now}
}

func TestListCustomers_Paged(t *testing.T) {
	var got domain.PaginationParams
	m := &mockCustomerServicer{
		list: func(_ context.Context, p domain.PaginationParams) (domain.Page[domain.Customer], error) {
			got = p
			return domain.Page[domain.Customer]{
				Items:            []domain.Customer{customerFixture("Ann")},
				Total:            41,
				PaginationParams: p,
			}, nil
		},
	}

	rec := serve(customerHandler(m), http.MethodGet, "/customers?page=3&limit=20", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.PaginationParams{Page: 3, Limit: 20}, got)
	var body struct {
		Data       []map[string]any `json:"data"`
		Pagination struct {
			Page  int   `json:"page"`
			Limit int   `json:"limit"`
			Total int64 `json:"total"`
		} `json:"pagination"`
	}
	decodeInto(t, rec, &body)
	assert.Len(t, body.Data, 1)
	assert.Equal(t, 3, body.Pagination.Page)
	assert.EqualValues(t, 41, body.Pagination.Total)
}

func TestListCustomers_LimitCapped(t *testing.T) {
	var got domain.PaginationParams
	m := &mockCustomerServicer{
		list: func(_ context.Context, p domain.PaginationParams) (domain.Page[domain.Customer], error) {
			got = p
			return domain.Page[domain.Customer]{Items: []domain.Customer{}, PaginationParams: p}, nil
		},
	}

	rec := serve(customerHandler(m), http.MethodGet, "/customers?limit=5000", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.MaxPageLimit, got.Limit)
	assert.Equal(t, 1, got.Page)
}

func TestListCustomers_BadPage_Returns422(t *testing.T) {
	rec := serve(customerHandler(&mockCustomerServicer{}), http.MethodGet, "/customers?page=two", nil)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "invalid page parameter", decodeError(t, rec).Error.Message)
}

func TestListCustomers_SearchUsesQ(t *testing.T) {
	var gotQ string
	m := &mockCustomerServicer{
		search: func(_ context.Context, q string) ([]domain.Customer, error) {
			gotQ = q
			return []domain.Customer{customerFixture("Jane Doe")}, nil
		},
		list: func(context.Context, domain.PaginationParams) (domain.Page[domain.Customer], error) {
			t.Fatal("search must not page")
			return domain.Page[domain.Customer]{}, nil
		},
	}

	rec := serve(customerHandler(m), http.MethodGet, "/customers?q=jan", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "jan", gotQ)
	assert.Contains(t, rec.Body.String(), "Jane Doe")
}

func TestCreateCustomer(t *testing.T) {
	m := &mockCustomerServicer{
		create: func(_ context.Context, c domain.Customer) (domain.Customer, error) {
			c.ID = uuid.New()
			return c, nil
		},
	}
	h := customerHandler(m)

	t.Run("valid", func(t *testing.T) {
		rec := serve(h, http.MethodPost, "/customers",
			jsonBody(t, map[string]any{"name": "Jane Doe", "email": "jane@example.com"}))
		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), "jane@example.com")
	})
	t.Run("bad email", func(t *testing.T) {
		rec := serve(h, http.MethodPost, "/customers",
			jsonBody(t, map[string]any{"name": "Jane Doe", "email": "jane"}))
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, "email must be a valid email address", decodeError(t, rec).Error.Message)
	})
	t.Run("empty body", func(t *testing.T) {
		rec := serve(h, http.MethodPost, "/customers", nil)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, "request body is required", decodeError(t, rec).Error.Message)
	})
}

func TestUpdateCustomer_NotFound(t *testing.T) {
	m := &mockCustomerServicer{
		update: func(context.Context, uuid.UUID, domain.CustomerPatch) (domain.Customer, error) {
			return domain.Customer{}, domain.ErrNotFound
		},
	}

	rec := serve(customerHandler(m), http.MethodPatch, "/customers/"+uuid.NewString(),
		jsonBody(t, map[string]any{"phone": "555-0199"}))

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "customer not found", decodeError(t, rec).Error.Message)
}

func TestDeleteCustomer_Returns204(t *testing.T) {
	id := uuid.New()
	var got uuid.UUID
	m := &mockCustomerServicer{
		delete: func(_ context.Context, in uuid.UUID) error {
			got = in
			return nil
		},
	}

	rec := serve(customerHandler(m), http.MethodDelete, "/customers/"+id.String(), nil)

	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, id, got)
}

func TestListCustomerBookings(t *testing.T) {
	c := customerFixture("Jane Doe")
	b := bookingFixture(uuid.New(), c.Name, date(2024, 7, 10), date(2024, 7, 12))
	b.CustomerID = &c.ID
	m := &mockCustomerServicer{
		bookings: func(context.Context, uuid.UUID) ([]domain.Booking, error) {
			return []domain.Booking{b}, nil
		},
	}

	rec := serve(customerHandler(m), http.MethodGet, "/customers/"+c.ID.String()+"/bookings", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Data []struct {
			CustomerID string `json:"customer_id"`
			StartDate  string `json:"start_date"`
			Days       int    `json:"days"`
		} `json:"data"`
	}
	decodeInto(t, rec, &body)
	require.Len(t, body.Data, 1)
	assert.Equal(t, c.ID.String(), body.Data[0].CustomerID)
	assert.Equal(t, "2024-07-10", body.Data[0].StartDate)
	assert.Equal(t, 3, body.Data[0].Days)
}
