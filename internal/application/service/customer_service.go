package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/spadcafe/cafe-api/internal/domain/entity"
	"github.com/spadcafe/cafe-api/internal/domain/repository"
	"github.com/spadcafe/cafe-api/pkg/apperror"
	"github.com/spadcafe/cafe-api/pkg/pagination"
)

// CustomerService handles customer registry operations
type CustomerService struct {
	customerRepo repository.CustomerRepository
}

// NewCustomerService creates a new customer service
func NewCustomerService(customerRepo repository.CustomerRepository) *CustomerService {
	return &CustomerService{customerRepo: customerRepo}
}

// CreateCustomerInput represents the create customer input
type CreateCustomerInput struct {
	Name  string
	Email string
	Funds int64
}

// CreateCustomer creates a new customer
func (s *CustomerService) CreateCustomer(ctx context.Context, input *CreateCustomerInput) (*entity.Customer, error) {
	if input.Funds < 0 {
		return nil, apperror.NewBadRequestError("Funds must not be negative")
	}

	customer := &entity.Customer{
		Name:  input.Name,
		Email: input.Email,
		Funds: input.Funds,
	}
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// GetCustomer retrieves a customer by ID
func (s *CustomerService) GetCustomer(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	return customer, nil
}

// ListCustomers lists customers with search and pagination
func (s *CustomerService) ListCustomers(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Customer], error) {
	customers, total, err := s.customerRepo.List(ctx, params, search)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(customers, pag), nil
}

// UpdateCustomerInput represents the update customer input
type UpdateCustomerInput struct {
	ID    uuid.UUID
	Name  *string
	Email *string
}

// UpdateCustomer updates a customer's name or email
func (s *CustomerService) UpdateCustomer(ctx context.Context, input *UpdateCustomerInput) (*entity.Customer, error) {
	customer, err := s.GetCustomer(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		customer.Name = *input.Name
	}
	if input.Email != nil {
		customer.Email = *input.Email
	}

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// AdjustFunds adds delta to a customer's prepaid balance. The balance
// must not go negative.
func (s *CustomerService) AdjustFunds(ctx context.Context, id uuid.UUID, delta int64) (*entity.Customer, error) {
	customer, err := s.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}

	if customer.Funds+delta < 0 {
		return nil, apperror.NewBadRequestError("Funds must not go negative")
	}

	if err := s.customerRepo.AddFunds(ctx, id, delta); err != nil {
		return nil, err
	}
	return s.GetCustomer(ctx, id)
}

// DeleteCustomer removes a customer from the registry
func (s *CustomerService) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetCustomer(ctx, id); err != nil {
		return err
	}
	return s.customerRepo.Delete(ctx, id)
}
