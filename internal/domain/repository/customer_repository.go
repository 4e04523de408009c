package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/spadcafe/cafe-api/internal/domain/entity"
	"github.com/spadcafe/cafe-api/pkg/pagination"
)

// CustomerRepository defines the interface for customer data operations
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error)
	Update(ctx context.Context, customer *entity.Customer) error
	Delete(ctx context.Context, id uuid.UUID) error
	// List returns customers with page-based pagination, optionally filtered by a
	// name/email search term.
	List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Customer, int64, error)
	// ListAll returns the full customer registry ordered by name. The registry is
	// small and bounded; checkout compilation loads it wholesale.
	ListAll(ctx context.Context) ([]entity.Customer, error)
	// AddFunds atomically adjusts a customer's prepaid balance by delta
	AddFunds(ctx context.Context, id uuid.UUID, delta int64) error
}
