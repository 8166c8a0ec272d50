package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/glirentals/rentals-admin/internal/domain"
	"github.com/glirentals/rentals-admin/internal/repo"
)

// CustomerService implements business logic for Customer operations.
type CustomerService struct {
	customers repo.CustomerRepo
	bookings  repo.BookingRepo
}

// NewCustomerService constructs a CustomerService backed by the provided repos.
func NewCustomerService(customers repo.CustomerRepo, bookings repo.BookingRepo) *CustomerService {
	return &CustomerService{customers: customers, bookings: bookings}
}

// Create validates and persists a new customer.
func (s *CustomerService) Create(ctx context.Context, c domain.Customer) (domain.Customer, error) {
	c = trimCustomer(c)
	if err := validateCustomer(c); err != nil {
		return domain.Customer{}, err
	}
	result, err := s.customers.Create(ctx, c)
	if err != nil {
		return domain.Customer{}, fmt.Errorf("service.CustomerService.Create: %w", err)
	}
	return result, nil
}

// GetByID returns a single customer by ID.
func (s *CustomerService) GetByID(ctx context.Context, id uuid.UUID) (domain.Customer, error) {
	c, err := s.customers.GetByID(ctx, id)
	if err != nil {
		return domain.Customer{}, fmt.Errorf("service.CustomerService.GetByID: %w", err)
	}
	return c, nil
}

// List returns one page of customers ordered by name.
func (s *CustomerService) List(ctx context.Context, p domain.PaginationParams) (domain.Page[domain.Customer], error) {
	items, total, err := s.customers.ListPaged(ctx, p)
	if err != nil {
		return domain.Page[domain.Customer]{}, fmt.Errorf("service.CustomerService.List: %w", err)
	}
	if items == nil {
		items = []domain.Customer{}
	}
	return domain.Page[domain.Customer]{Items: items, Total: total, PaginationParams: p}, nil
}

// Search returns customers matching q. A blank query matches nothing.
func (s *CustomerService) Search(ctx context.Context, q string) ([]domain.Customer, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []domain.Customer{}, nil
	}
	found, err := s.customers.Search(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("service.CustomerService.Search: %w", err)
	}
	if found == nil {
		return []domain.Customer{}, nil
	}
	return found, nil
}

// Update applies patch to the customer and persists the result. Bookings
// keep the name and phone they were written with.
func (s *CustomerService) Update(ctx context.Context, id uuid.UUID, patch domain.CustomerPatch) (domain.Customer, error) {
	current, err := s.customers.GetByID(ctx, id)
	if err != nil {
		return domain.Customer{}, fmt.Errorf("service.CustomerService.Update: %w", err)
	}
	next := trimCustomer(patch.Apply(current))
	if err := validateCustomer(next); err != nil {
		return domain.Customer{}, err
	}
	result, err := s.customers.Update(ctx, next)
	if err != nil {
		return domain.Customer{}, fmt.Errorf("service.CustomerService.Update: %w", err)
	}
	return result, nil
}

// Delete removes a customer. Their bookings survive with customer_id cleared.
func (s *CustomerService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.customers.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.CustomerService.Delete: %w", err)
	}
	return nil
}

// Bookings returns the customer's bookings, most recent first.
// Returns domain.ErrNotFound if the customer does not exist.
func (s *CustomerService) Bookings(ctx context.Context, id uuid.UUID) ([]domain.Booking, error) {
	if _, err := s.customers.GetByID(ctx, id); err != nil {
		return nil, fmt.Errorf("service.CustomerService.Bookings: %w", err)
	}
	bookings, err := s.bookings.ListByCustomer(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service.CustomerService.Bookings: %w", err)
	}
	if bookings == nil {
		return []domain.Booking{}, nil
	}
	return bookings, nil
}

func trimCustomer(c domain.Customer) domain.Customer {
	c.Name = strings.TrimSpace(c.Name)
	c.Phone = strings.TrimSpace(c.Phone)
	c.Email = strings.TrimSpace(c.Email)
	c.Address = strings.TrimSpace(c.Address)
	return c
}

func validateCustomer(c domain.Customer) error {
	if c.Name == "" {
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	return nil
}
